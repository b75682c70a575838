// Package naming validates and derives package names for the bootstrap.
package naming

import (
	"regexp"
	"strings"

	"github.com/pytemplate/bootstrap/internal/errors"
)

// distNamePattern matches PEP 503-style distribution names: letters/numbers
// with optional '-', '_', '.' separators, never leading or trailing.
var distNamePattern = regexp.MustCompile(`^[A-Za-z0-9](?:[A-Za-z0-9._-]*[A-Za-z0-9])?$`)

// importNamePattern matches valid Python identifiers.
var importNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ImportNameFor derives the default import name from a distribution name
// by mapping '-' and '.' to '_' (cool-tool -> cool_tool).
func ImportNameFor(distName string) string {
	return strings.Map(func(r rune) rune {
		if r == '-' || r == '.' {
			return '_'
		}
		return r
	}, distName)
}

// ValidateDistName checks a distribution name against the allowed pattern.
func ValidateDistName(name string) error {
	if !distNamePattern.MatchString(name) {
		return errors.New(errors.EInvalidName,
			"invalid distribution name; use letters/numbers and optional '-', '_', '.' separators")
	}
	return nil
}

// ValidateImportName checks an import name against the allowed pattern.
func ValidateImportName(name string) error {
	if !importNamePattern.MatchString(name) {
		return errors.New(errors.EInvalidName,
			"invalid import name; use a valid Python identifier (letters/numbers/underscore, not starting with a number)")
	}
	return nil
}
