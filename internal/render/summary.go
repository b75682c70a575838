// Package render formats stable command output.
// Keys and their order are a contract; scripts parse this output.
package render

import (
	"fmt"
	"io"
)

// Summary holds the result of a completed bootstrap for output formatting.
type Summary struct {
	DistName     string
	ImportName   string
	FilesUpdated int
	PackageDir   string // repo-relative renamed package dir, "" if unchanged
	Verified     string // "ok" or "skipped"
	Artifacts    string // deleted paths joined by ", ", "none", or "kept"
}

// WriteSummary writes the stable key: value summary for a successful run.
func WriteSummary(w io.Writer, s Summary) {
	fmt.Fprintf(w, "dist_name: %s\n", s.DistName)
	fmt.Fprintf(w, "import_name: %s\n", s.ImportName)
	fmt.Fprintf(w, "files_updated: %d\n", s.FilesUpdated)

	packageDir := s.PackageDir
	if packageDir == "" {
		packageDir = "unchanged"
	}
	fmt.Fprintf(w, "package_dir: %s\n", packageDir)

	fmt.Fprintf(w, "verify: %s\n", s.Verified)
	fmt.Fprintf(w, "artifacts: %s\n", s.Artifacts)
}
