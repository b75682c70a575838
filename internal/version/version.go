// Package version records the bootstrap build version.
package version

// Version is reported by --version.
const Version = "0.3.0"
