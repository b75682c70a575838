package commands

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/pytemplate/bootstrap/internal/checkpoint"
	"github.com/pytemplate/bootstrap/internal/errors"
	"github.com/pytemplate/bootstrap/internal/exec"
	"github.com/pytemplate/bootstrap/internal/fs"
	"github.com/pytemplate/bootstrap/internal/git"
	"github.com/pytemplate/bootstrap/internal/naming"
	"github.com/pytemplate/bootstrap/internal/render"
	"github.com/pytemplate/bootstrap/internal/verify"
)

// Bootstrap implements the bootstrap command: recover any interrupted prior
// run, resolve the inputs, mutate the repository under checkpoint cover,
// verify, and clean up after itself.
func Bootstrap(ctx context.Context, cr exec.CommandRunner, fsys fs.FS, cwd string, cfg Config, opts Opts, stdout, stderr io.Writer, logger *slog.Logger) error {
	repoRoot, err := git.GetRepoRoot(ctx, cr, cwd)
	if err != nil {
		return err
	}
	root := repoRoot.Path

	// The working tree must start in a known-original state.
	recovered, err := checkpoint.Recover(fsys, root)
	if err != nil {
		return err
	}
	if recovered.Found {
		logger.Info("recovered from interrupted bootstrap",
			"files_restored", recovered.Stats.FilesRestored,
			"renames_reverted", recovered.Stats.RenamesReverted)
	}

	values, err := collectValues(ctx, cr, fsys, root, cfg, opts)
	if err != nil {
		return err
	}
	if values.DistName == "" || values.ImportName == "" {
		return errors.New(errors.ENameRequired, "distribution and import names are required")
	}
	if err := naming.ValidateDistName(values.DistName); err != nil {
		return err
	}
	if err := naming.ValidateImportName(values.ImportName); err != nil {
		return err
	}

	log := checkpoint.NewLog(fsys, root)
	summary, err := mutate(ctx, cr, fsys, root, cfg, values, opts, log, stdout, stderr, logger)
	if err != nil {
		if opts.KeepChangesOnFailure {
			log.Cleanup()
			logger.Warn("bootstrap failed; keeping partial changes for inspection")
		} else {
			stats := log.Rollback()
			logger.Info("rollback complete",
				"files_restored", stats.FilesRestored,
				"renames_reverted", stats.RenamesReverted)
		}
		return err
	}

	log.Cleanup()

	summary.Artifacts = "kept"
	if !opts.KeepScript {
		deleted := deleteArtifacts(fsys, root, cfg)
		if len(deleted) == 0 {
			summary.Artifacts = "none"
		} else {
			summary.Artifacts = strings.Join(deleted, ", ")
			logger.Info("deleted bootstrap artifacts", "paths", summary.Artifacts)
		}
	}

	render.WriteSummary(stdout, summary)
	return nil
}

// mutate performs the mutation phase. Every touched file and the directory
// rename are recorded in the checkpoint before the change lands, so the
// caller can roll back whatever subset completed.
func mutate(ctx context.Context, cr exec.CommandRunner, fsys fs.FS, root string, cfg Config, values Values, opts Opts, log *checkpoint.Log, stdout, stderr io.Writer, logger *slog.Logger) (render.Summary, error) {
	summary := render.Summary{
		DistName:   values.DistName,
		ImportName: values.ImportName,
		Verified:   "skipped",
	}

	changed, err := replacePlaceholders(ctx, cr, fsys, root, cfg, values, log, logger)
	summary.FilesUpdated = changed
	if err != nil {
		return summary, err
	}

	newDir, err := renamePackageDir(fsys, root, cfg, values.ImportName, log, logger)
	if err != nil {
		return summary, err
	}
	summary.PackageDir = newDir

	if err := updatePyproject(fsys, root, values, log, logger); err != nil {
		return summary, err
	}

	if !opts.NoVerify {
		// The pipeline rewrites the lockfile; cover it before running.
		if err := log.RecordFile(filepath.Join(root, "uv.lock")); err != nil {
			return summary, err
		}
		runner := &verify.Runner{Exec: cr, Root: root, Stdout: stdout, Stderr: stderr}
		if err := runner.Run(ctx); err != nil {
			return summary, err
		}
		summary.Verified = "ok"
	}

	return summary, nil
}
