package commands

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pytemplate/bootstrap/internal/errors"
	"github.com/pytemplate/bootstrap/internal/fs"
	"github.com/pytemplate/bootstrap/internal/prompt"
)

func TestCollectValuesNonInteractiveInfersFromGit(t *testing.T) {
	root, runner := newFixture(t, "git@github.com:acme/cool-tool.git")

	values, err := collectValues(context.Background(), runner, fs.NewRealFS(), root, DefaultConfig(), Opts{})
	require.NoError(t, err)

	assert.Equal(t, "cool-tool", values.DistName)
	assert.Equal(t, "cool_tool", values.ImportName)
	assert.Equal(t, "A starter template.", values.Description)
	assert.Equal(t, "Ada Lovelace", values.AuthorName)
	assert.Equal(t, "ada@example.com", values.AuthorEmail)
	assert.Equal(t, "https://github.com/acme/cool-tool", values.RepositoryURL)
	assert.Equal(t, "https://github.com/acme/cool-tool/issues", values.IssuesURL)
	assert.Equal(t, ">=3.11", values.PythonRange)
}

func TestCollectValuesNonInteractiveRequiresName(t *testing.T) {
	// No origin remote, and the [project] name is still the template
	// placeholder, so there is nothing to infer from.
	root, runner := newFixture(t, "")

	_, err := collectValues(context.Background(), runner, fs.NewRealFS(), root, DefaultConfig(), Opts{})
	require.Error(t, err)
	assert.Equal(t, errors.ENameRequired, errors.GetCode(err))
}

func TestCollectValuesFlagsWin(t *testing.T) {
	root, runner := newFixture(t, "git@github.com:acme/cool-tool.git")

	values, err := collectValues(context.Background(), runner, fs.NewRealFS(), root, DefaultConfig(), Opts{
		PackageName:   "other-name",
		ImportName:    "othername",
		Description:   "Something else.",
		AuthorName:    "Grace Hopper",
		AuthorEmail:   "grace@example.com",
		RepositoryURL: "https://example.com/repo",
		IssuesURL:     "https://example.com/tracker",
		PythonRange:   ">=3.12",
	})
	require.NoError(t, err)

	assert.Equal(t, "other-name", values.DistName)
	assert.Equal(t, "othername", values.ImportName)
	assert.Equal(t, "Something else.", values.Description)
	assert.Equal(t, "Grace Hopper", values.AuthorName)
	assert.Equal(t, "grace@example.com", values.AuthorEmail)
	assert.Equal(t, "https://example.com/repo", values.RepositoryURL)
	assert.Equal(t, "https://example.com/tracker", values.IssuesURL)
	assert.Equal(t, ">=3.12", values.PythonRange)
}

func TestCollectValuesInteractive(t *testing.T) {
	root, runner := newFixture(t, "git@github.com:acme/cool-tool.git")

	var seen []prompt.Field
	opts := Opts{
		Prompt: func(fields []prompt.Field) (map[string]string, error) {
			seen = fields
			return map[string]string{
				"dist_name":      "typed-name",
				"import_name":    "",
				"description":    "Typed description.",
				"author_name":    "Ada Lovelace",
				"author_email":   "ada@example.com",
				"repository_url": "https://github.com/acme/typed-name",
				"issues_url":     "https://github.com/acme/typed-name/issues",
				"python_range":   ">=3.11",
			}, nil
		},
	}

	values, err := collectValues(context.Background(), runner, fs.NewRealFS(), root, DefaultConfig(), opts)
	require.NoError(t, err)

	// Name prompts carry no default; the operator sees what they typed.
	require.GreaterOrEqual(t, len(seen), 2)
	assert.Equal(t, "dist_name", seen[0].Key)
	assert.Empty(t, seen[0].Default)
	assert.Equal(t, "import_name", seen[1].Key)
	assert.Empty(t, seen[1].Default)

	assert.Equal(t, "typed-name", values.DistName)
	// Empty import answer derives from the typed distribution name.
	assert.Equal(t, "typed_name", values.ImportName)
	assert.Equal(t, "Typed description.", values.Description)
}

func TestCollectValuesInteractiveEmptyNameFallsBack(t *testing.T) {
	root, runner := newFixture(t, "git@github.com:acme/cool-tool.git")

	opts := Opts{
		Prompt: func(fields []prompt.Field) (map[string]string, error) {
			answers := make(map[string]string)
			for _, f := range fields {
				answers[f.Key] = ""
			}
			return answers, nil
		},
	}

	values, err := collectValues(context.Background(), runner, fs.NewRealFS(), root, DefaultConfig(), opts)
	require.NoError(t, err)

	// Empty answers fall back to the inferred names.
	assert.Equal(t, "cool-tool", values.DistName)
	assert.Equal(t, "cool_tool", values.ImportName)
}

func TestCollectValuesInteractiveFlagsSkipNamePrompts(t *testing.T) {
	root, runner := newFixture(t, "git@github.com:acme/cool-tool.git")

	var seen []prompt.Field
	opts := Opts{
		PackageName: "flagged-name",
		ImportName:  "flagged_name",
		Prompt: func(fields []prompt.Field) (map[string]string, error) {
			seen = fields
			return map[string]string{}, nil
		},
	}

	values, err := collectValues(context.Background(), runner, fs.NewRealFS(), root, DefaultConfig(), opts)
	require.NoError(t, err)

	for _, f := range seen {
		assert.NotEqual(t, "dist_name", f.Key)
		assert.NotEqual(t, "import_name", f.Key)
	}
	assert.Equal(t, "flagged-name", values.DistName)
	assert.Equal(t, "flagged_name", values.ImportName)
}

func TestIssuesURLFor(t *testing.T) {
	assert.Equal(t, "https://example.com/t", issuesURLFor("https://example.com/t", "https://github.com/a/b"))
	assert.Equal(t, "https://github.com/a/b/issues", issuesURLFor("", "https://github.com/a/b"))
	assert.Equal(t, "https://github.com/a/b/issues", issuesURLFor("", "https://github.com/a/b/"))
	assert.Equal(t, "", issuesURLFor("", ""))
}
