// Package cli parses arguments and dispatches the bootstrap command.
package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"golang.org/x/term"

	"github.com/pytemplate/bootstrap/internal/commands"
	"github.com/pytemplate/bootstrap/internal/errors"
	"github.com/pytemplate/bootstrap/internal/exec"
	"github.com/pytemplate/bootstrap/internal/fs"
	"github.com/pytemplate/bootstrap/internal/prompt"
	"github.com/pytemplate/bootstrap/internal/version"
)

const usage = `bootstrap - bootstrap a repository created from py-template

usage: bootstrap [options] [package_name]

Substitutes the template placeholders across all tracked files, renames the
package directory, patches pyproject.toml metadata, runs the verification
pipeline, and deletes itself. Interrupted runs are rolled back automatically
on the next invocation.

arguments:
  package_name                  distribution name (default: inferred from the
                                origin remote or pyproject.toml)

options:
  --import-name NAME            python import name (default: derived from the
                                distribution name)
  --description TEXT            project description
  --author-name NAME            author name (default: git config user.name)
  --author-email EMAIL          author email (default: git config user.email)
  --repository-url URL          repository URL (default: normalized origin)
  --issues-url URL              issue tracker URL (default: <repository>/issues)
  --python-range RANGE          requires-python constraint (default: >=3.11)
  --no-verify                   skip the uv verification pipeline
  --keep-script                 do not delete the bootstrap tooling on success
  --keep-changes-on-failure     leave partial changes in place when a run fails
  -h, --help                    show this help
  -v, --version                 show version
`

// Run parses args (without the program name) and executes the command.
func Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	// Help and version short-circuit before flag parsing so they work in any
	// position and alongside invalid flags.
	for _, arg := range args {
		switch arg {
		case "-h", "--help":
			fmt.Fprint(stdout, usage)
			return nil
		case "-v", "--version":
			fmt.Fprintf(stdout, "bootstrap %s\n", version.Version)
			return nil
		}
	}

	flags := flag.NewFlagSet("bootstrap", flag.ContinueOnError)
	flags.SetOutput(io.Discard)

	var opts commands.Opts
	flags.StringVar(&opts.ImportName, "import-name", "", "")
	flags.StringVar(&opts.Description, "description", "", "")
	flags.StringVar(&opts.AuthorName, "author-name", "", "")
	flags.StringVar(&opts.AuthorEmail, "author-email", "", "")
	flags.StringVar(&opts.RepositoryURL, "repository-url", "", "")
	flags.StringVar(&opts.IssuesURL, "issues-url", "", "")
	flags.StringVar(&opts.PythonRange, "python-range", "", "")
	flags.BoolVar(&opts.NoVerify, "no-verify", false, "")
	flags.BoolVar(&opts.KeepScript, "keep-script", false, "")
	flags.BoolVar(&opts.KeepChangesOnFailure, "keep-changes-on-failure", false, "")

	if err := flags.Parse(args); err != nil {
		return errors.Wrap(errors.EUsage, "invalid arguments", err)
	}

	positional := flags.Args()
	switch len(positional) {
	case 0:
	case 1:
		opts.PackageName = positional[0]
	default:
		return errors.New(errors.EUsage, "expected at most one positional argument (package_name)")
	}

	cwd, err := os.Getwd()
	if err != nil {
		return errors.Wrap(errors.EInternal, "failed to determine working directory", err)
	}

	if isTerminal(stdin) {
		opts.Prompt = func(fields []prompt.Field) (map[string]string, error) {
			return prompt.Run(fields, stdin, stderr)
		}
	}

	logger := slog.New(tint.NewHandler(stderr, &tint.Options{TimeFormat: time.Kitchen}))

	return commands.Bootstrap(ctx, exec.NewRealRunner(), fs.NewRealFS(), cwd,
		commands.DefaultConfig(), opts, stdout, stderr, logger)
}

// isTerminal reports whether the reader is an interactive terminal.
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
