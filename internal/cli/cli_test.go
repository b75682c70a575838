package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/pytemplate/bootstrap/internal/errors"
	"github.com/pytemplate/bootstrap/internal/version"
)

func TestRunHelp(t *testing.T) {
	for _, arg := range []string{"-h", "--help"} {
		var stdout, stderr bytes.Buffer
		err := Run(context.Background(), []string{arg}, strings.NewReader(""), &stdout, &stderr)
		if err != nil {
			t.Fatalf("Run(%s) error = %v, want nil", arg, err)
		}
		if !strings.Contains(stdout.String(), "usage: bootstrap [options] [package_name]") {
			t.Errorf("Run(%s) stdout missing usage line:\n%s", arg, stdout.String())
		}
	}
}

func TestRunHelpWinsOverInvalidFlags(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := Run(context.Background(), []string{"--bogus", "--help"}, strings.NewReader(""), &stdout, &stderr)
	if err != nil {
		t.Fatalf("Run() error = %v, want nil", err)
	}
	if !strings.Contains(stdout.String(), "usage:") {
		t.Errorf("expected usage output, got:\n%s", stdout.String())
	}
}

func TestRunVersion(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := Run(context.Background(), []string{"--version"}, strings.NewReader(""), &stdout, &stderr)
	if err != nil {
		t.Fatalf("Run() error = %v, want nil", err)
	}
	want := "bootstrap " + version.Version + "\n"
	if stdout.String() != want {
		t.Errorf("Run() stdout = %q, want %q", stdout.String(), want)
	}
}

func TestRunInvalidFlag(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := Run(context.Background(), []string{"--bogus"}, strings.NewReader(""), &stdout, &stderr)
	if errors.GetCode(err) != errors.EUsage {
		t.Fatalf("Run() error = %v, want code %s", err, errors.EUsage)
	}
	if errors.ExitCode(err) != 2 {
		t.Errorf("ExitCode() = %d, want 2", errors.ExitCode(err))
	}
}

func TestRunTooManyArguments(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := Run(context.Background(), []string{"one", "two"}, strings.NewReader(""), &stdout, &stderr)
	if errors.GetCode(err) != errors.EUsage {
		t.Fatalf("Run() error = %v, want code %s", err, errors.EUsage)
	}
}
