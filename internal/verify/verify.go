// Package verify runs the post-bootstrap verification pipeline.
// Commands execute in a fixed order and short-circuit on the first failure.
package verify

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pytemplate/bootstrap/internal/errors"
	"github.com/pytemplate/bootstrap/internal/exec"
)

// Step is one verification command.
type Step struct {
	Name string
	Args []string
}

// Command returns the full command line for display.
func (s Step) Command() string {
	if len(s.Args) == 0 {
		return s.Name
	}
	return s.Name + " " + strings.Join(s.Args, " ")
}

// Steps returns the verification commands in execution order.
func Steps() []Step {
	return []Step{
		{Name: "uv", Args: []string{"sync", "--group", "dev"}},
		{Name: "uv", Args: []string{"lock"}},
		{Name: "uv", Args: []string{"run", "ruff", "format", "."}},
		{Name: "uv", Args: []string{"run", "prek", "run", "--all-files"}},
		{Name: "uv", Args: []string{"run", "pytest"}},
	}
}

// Runner executes the verification pipeline at the repository root,
// streaming command output to the operator.
type Runner struct {
	Exec   exec.CommandRunner
	Root   string
	Stdout io.Writer
	Stderr io.Writer
}

// Run executes every step in order. Each command is echoed to stdout before
// it runs. The first failure stops the pipeline:
//   - execution failure (binary missing, context canceled) wraps the cause
//   - non-zero exit returns E_VERIFY_FAILED naming the command
func (r *Runner) Run(ctx context.Context) error {
	for _, step := range Steps() {
		fmt.Fprintf(r.Stdout, "→ %s\n", step.Command())

		result, err := r.Exec.Run(ctx, step.Name, step.Args, exec.RunOpts{
			Dir:    r.Root,
			Stdout: r.Stdout,
			Stderr: r.Stderr,
		})
		if err != nil {
			return errors.WrapWithDetails(errors.EVerifyFailed,
				fmt.Sprintf("failed to run %s", step.Command()), err,
				map[string]string{"command": step.Command()})
		}
		if result.ExitCode != 0 {
			return errors.NewWithDetails(errors.EVerifyFailed,
				fmt.Sprintf("verification command failed: %s", step.Command()),
				map[string]string{
					"command":   step.Command(),
					"exit_code": fmt.Sprintf("%d", result.ExitCode),
				})
		}
	}
	return nil
}
