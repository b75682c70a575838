// Package commands implements the bootstrap command.
package commands

// Config carries the repository-layout constants of the template being
// bootstrapped. The template ships these as fixed paths; they are explicit
// configuration here so tests can relocate them.
type Config struct {
	TemplateDistName   string // placeholder distribution name substituted everywhere
	TemplateImportName string // placeholder import name substituted everywhere
	PackageParentDir   string // directory holding the package dir to rename
	DefaultPythonRange string // requires-python fallback

	// ArtifactPaths are the bootstrap's own repo-relative files: never
	// substituted, deleted on success unless --keep-script.
	ArtifactPaths []string

	// SkipFileNames are basenames never substituted (lockfiles whose content
	// the verification pipeline regenerates).
	SkipFileNames []string
}

// DefaultConfig returns the layout of the py-template project template.
func DefaultConfig() Config {
	return Config{
		TemplateDistName:   "py-template",
		TemplateImportName: "py_template",
		PackageParentDir:   "src",
		DefaultPythonRange: ">=3.11",
		ArtifactPaths:      []string{"tools/bootstrap"},
		SkipFileNames:      []string{"uv.lock"},
	}
}
