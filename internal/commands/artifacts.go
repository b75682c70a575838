package commands

import (
	"path/filepath"

	"github.com/pytemplate/bootstrap/internal/fs"
)

// deleteArtifacts removes the bootstrap's own files from the repository,
// best-effort. Returns the repo-relative paths actually deleted.
func deleteArtifacts(fsys fs.FS, root string, cfg Config) []string {
	var deleted []string
	for _, rel := range cfg.ArtifactPaths {
		target := filepath.Join(root, filepath.FromSlash(rel))
		if _, err := fsys.Lstat(target); err != nil {
			continue
		}
		if err := fsys.RemoveAll(target); err != nil {
			continue
		}
		deleted = append(deleted, rel)
	}
	return deleted
}
