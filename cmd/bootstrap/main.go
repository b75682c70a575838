// Command bootstrap personalizes a repository created from the py-template
// project template and then removes itself.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/pytemplate/bootstrap/internal/cli"
	"github.com/pytemplate/bootstrap/internal/errors"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := cli.Run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	if err != nil {
		errors.Print(os.Stderr, err)
		os.Exit(errors.ExitCode(err))
	}
}
