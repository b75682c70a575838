// Package git provides repo discovery and git queries via CommandRunner.
package git

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/pytemplate/bootstrap/internal/errors"
	"github.com/pytemplate/bootstrap/internal/exec"
)

// RepoRoot holds the absolute path to a git repository root.
type RepoRoot struct {
	Path string // absolute, clean, no trailing newline
}

// GetRepoRoot discovers the git repository root from the given working directory.
// Uses `git rev-parse --show-toplevel` via CommandRunner.
//
// Returns E_NO_REPO if:
//   - Not inside a git repository (exit code != 0)
//   - Git outputs empty or multi-line stdout
//   - cwd is empty
func GetRepoRoot(ctx context.Context, cr exec.CommandRunner, cwd string) (RepoRoot, error) {
	if cwd == "" {
		return RepoRoot{}, errors.New(errors.ENoRepo, "working directory is empty")
	}

	result, err := cr.Run(ctx, "git", []string{"rev-parse", "--show-toplevel"}, exec.RunOpts{Dir: cwd})
	if err != nil {
		// Binary not found or execution failure
		return RepoRoot{}, errors.Wrap(errors.ENoRepo, "failed to run git rev-parse", err)
	}

	if result.ExitCode != 0 {
		return RepoRoot{}, errors.New(errors.ENoRepo, "not inside a git repository")
	}

	// Trim whitespace (git adds trailing newline)
	out := strings.TrimSpace(result.Stdout)

	// Reject empty output
	if out == "" {
		return RepoRoot{}, errors.New(errors.ENoRepo, "git rev-parse returned empty output")
	}

	// Reject multi-line output (should never happen, but be defensive)
	if strings.Contains(out, "\n") {
		return RepoRoot{}, errors.New(errors.ENoRepo, "git rev-parse returned unexpected multi-line output")
	}

	// Normalize to absolute path
	var absPath string
	if filepath.IsAbs(out) {
		absPath = filepath.Clean(out)
	} else {
		absPath = filepath.Clean(filepath.Join(cwd, out))
	}

	absPath, err = filepath.Abs(absPath)
	if err != nil {
		return RepoRoot{}, errors.Wrap(errors.ENoRepo, "failed to resolve absolute path", err)
	}

	return RepoRoot{Path: absPath}, nil
}

// GetOriginURL retrieves the origin remote URL using `git remote get-url origin`.
// Returns the URL if origin exists, or empty string if missing.
// Never returns an error; failures result in empty string.
func GetOriginURL(ctx context.Context, cr exec.CommandRunner, repoRoot string) string {
	result, err := cr.Run(ctx, "git", []string{"remote", "get-url", "origin"}, exec.RunOpts{Dir: repoRoot})
	if err != nil {
		return ""
	}
	if result.ExitCode != 0 {
		return ""
	}
	return strings.TrimSpace(result.Stdout)
}

// ConfigValue retrieves a git config value using `git config --get <key>`.
// Returns empty string if the key is unset or git fails (git config returns
// exit code 1 for a missing key).
func ConfigValue(ctx context.Context, cr exec.CommandRunner, repoRoot, key string) string {
	result, err := cr.Run(ctx, "git", []string{"config", "--get", key}, exec.RunOpts{Dir: repoRoot})
	if err != nil {
		return ""
	}
	if result.ExitCode != 0 {
		return ""
	}
	return strings.TrimSpace(result.Stdout)
}

// LsFiles lists tracked files using `git ls-files`.
// Returns repo-relative, slash-separated paths with blank lines dropped.
//
// Returns E_GIT_FAILED on execution failure or non-zero exit.
func LsFiles(ctx context.Context, cr exec.CommandRunner, repoRoot string) ([]string, error) {
	result, err := cr.Run(ctx, "git", []string{"ls-files"}, exec.RunOpts{Dir: repoRoot})
	if err != nil {
		return nil, errors.Wrap(errors.EGitFailed, "failed to run git ls-files", err)
	}
	if result.ExitCode != 0 {
		return nil, errors.NewWithDetails(errors.EGitFailed, "git ls-files failed",
			map[string]string{"stderr": strings.TrimSpace(result.Stderr)})
	}

	var files []string
	for _, line := range strings.Split(result.Stdout, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		files = append(files, line)
	}
	return files, nil
}
