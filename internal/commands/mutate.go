package commands

import (
	"context"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/pytemplate/bootstrap/internal/checkpoint"
	"github.com/pytemplate/bootstrap/internal/errors"
	"github.com/pytemplate/bootstrap/internal/exec"
	"github.com/pytemplate/bootstrap/internal/fs"
	"github.com/pytemplate/bootstrap/internal/git"
	"github.com/pytemplate/bootstrap/internal/pyproject"
)

// replacePlaceholders substitutes the template tokens across every tracked
// file. Files are backed up through the checkpoint the first time they
// change; unchanged files are left untouched and unrecorded.
// Returns the number of files updated.
func replacePlaceholders(ctx context.Context, cr exec.CommandRunner, fsys fs.FS, root string, cfg Config, values Values, log *checkpoint.Log, logger *slog.Logger) (int, error) {
	files, err := git.LsFiles(ctx, cr, root)
	if err != nil {
		return 0, err
	}

	changed := 0
	for _, rel := range files {
		if shouldSkipPlaceholderFile(fsys, root, cfg, rel) {
			continue
		}

		target := filepath.Join(root, filepath.FromSlash(rel))
		data, err := fsys.ReadFile(target)
		if err != nil {
			// Tracked but unreadable (deleted since the listing); skip.
			continue
		}
		if !utf8.Valid(data) {
			// Binary file; placeholder substitution is text-only.
			continue
		}

		original := string(data)
		updated := strings.ReplaceAll(original, cfg.TemplateDistName, values.DistName)
		updated = strings.ReplaceAll(updated, cfg.TemplateImportName, values.ImportName)
		if updated == original {
			continue
		}

		if err := log.RecordFile(target); err != nil {
			return changed, err
		}
		if err := fsys.WriteFile(target, []byte(updated), 0644); err != nil {
			return changed, errors.Wrap(errors.EPersistFailed, "failed to write "+rel, err)
		}
		changed++
	}

	if changed > 0 {
		logger.Info("updated placeholders", "files", changed)
	}
	return changed, nil
}

// shouldSkipPlaceholderFile reports whether a tracked file is exempt from
// substitution: the bootstrap's own artifacts, configured lockfiles,
// symlinks, and anything that is not a regular file.
func shouldSkipPlaceholderFile(fsys fs.FS, root string, cfg Config, rel string) bool {
	for _, artifact := range cfg.ArtifactPaths {
		if rel == artifact || strings.HasPrefix(rel, artifact+"/") {
			return true
		}
	}
	base := path.Base(rel)
	for _, skip := range cfg.SkipFileNames {
		if base == skip {
			return true
		}
	}

	info, err := fsys.Lstat(filepath.Join(root, filepath.FromSlash(rel)))
	if err != nil {
		return true
	}
	if info.Mode()&os.ModeSymlink != 0 {
		return true
	}
	return !info.Mode().IsRegular()
}

// renamePackageDir renames the template package directory to the chosen
// import name. No-op when the template directory is absent or the names
// already match; fatal when the target exists.
// Returns the repo-relative new directory, or "" when nothing was renamed.
func renamePackageDir(fsys fs.FS, root string, cfg Config, importName string, log *checkpoint.Log, logger *slog.Logger) (string, error) {
	oldDir := filepath.Join(root, cfg.PackageParentDir, cfg.TemplateImportName)
	newDir := filepath.Join(root, cfg.PackageParentDir, importName)

	if oldDir == newDir {
		return "", nil
	}
	if _, err := fsys.Stat(oldDir); err != nil {
		return "", nil
	}
	if _, err := fsys.Stat(newDir); err == nil {
		return "", errors.NewWithDetails(errors.ETargetExists,
			"target package path already exists", map[string]string{"path": newDir})
	}

	if err := fsys.Rename(oldDir, newDir); err != nil {
		return "", errors.Wrap(errors.EPersistFailed, "failed to rename package directory", err)
	}
	if err := log.RecordRename(oldDir, newDir); err != nil {
		return "", err
	}

	oldRel := path.Join(cfg.PackageParentDir, cfg.TemplateImportName)
	newRel := path.Join(cfg.PackageParentDir, importName)
	logger.Info("renamed package dir", "old", oldRel, "new", newRel)
	return newRel, nil
}

// updatePyproject patches the [project] and [project.urls] tables in place,
// preserving unrelated formatting. The file is backed up through the
// checkpoint before the patched text is written.
func updatePyproject(fsys fs.FS, root string, values Values, log *checkpoint.Log, logger *slog.Logger) error {
	target := filepath.Join(root, "pyproject.toml")
	data, err := fsys.ReadFile(target)
	if err != nil {
		return errors.Wrap(errors.EPyprojectInvalid, "failed to read pyproject.toml", err)
	}
	text := string(data)

	for _, kv := range []struct{ key, value string }{
		{"name", values.DistName},
		{"description", values.Description},
		{"requires-python", values.PythonRange},
	} {
		text, err = pyproject.SetKeyInSection(text, "project", kv.key, kv.key+" = "+pyproject.Quote(kv.value))
		if err != nil {
			return err
		}
	}

	if line, ok := pyproject.FormatAuthorsLine(values.AuthorName, values.AuthorEmail); ok {
		text, err = pyproject.SetKeyInSection(text, "project", "authors", line)
		if err != nil {
			return err
		}
	}

	if values.RepositoryURL != "" || values.IssuesURL != "" {
		text = pyproject.EnsureSection(text, "project.urls", "dependency-groups")
		if values.RepositoryURL != "" {
			text, err = pyproject.SetKeyInSection(text, "project.urls", "Repository",
				"Repository = "+pyproject.Quote(values.RepositoryURL))
			if err != nil {
				return err
			}
		}
		if values.IssuesURL != "" {
			text, err = pyproject.SetKeyInSection(text, "project.urls", "Issues",
				"Issues = "+pyproject.Quote(values.IssuesURL))
			if err != nil {
				return err
			}
		}
	}

	if err := log.RecordFile(target); err != nil {
		return err
	}
	if err := fsys.WriteFile(target, []byte(text), 0644); err != nil {
		return errors.Wrap(errors.EPersistFailed, "failed to write pyproject.toml", err)
	}

	logger.Info("updated pyproject.toml metadata")
	return nil
}
