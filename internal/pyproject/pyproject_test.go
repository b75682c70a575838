package pyproject

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pytemplate/bootstrap/internal/errors"
	"github.com/pytemplate/bootstrap/internal/fs"
)

const sampleDoc = `[build-system]
requires = ["hatchling"]

[project]
name = "py-template"
description = "A template"
requires-python = ">=3.11"

[dependency-groups]
dev = ["pytest"]
`

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pyproject.toml")
	require.NoError(t, os.WriteFile(path, []byte(sampleDoc), 0644))

	defaults, err := LoadDefaults(fs.NewRealFS(), path)
	require.NoError(t, err)

	assert.Equal(t, "py-template", defaults.Name)
	assert.Equal(t, "A template", defaults.Description)
	assert.Equal(t, ">=3.11", defaults.RequiresPython)
}

func TestLoadDefaults_MissingFile(t *testing.T) {
	_, err := LoadDefaults(fs.NewRealFS(), filepath.Join(t.TempDir(), "pyproject.toml"))
	assert.Equal(t, errors.EPyprojectInvalid, errors.GetCode(err))
}

func TestLoadDefaults_MissingKeysStayEmpty(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pyproject.toml")
	require.NoError(t, os.WriteFile(path, []byte("[project]\nname = \"x\"\n"), 0644))

	defaults, err := LoadDefaults(fs.NewRealFS(), path)
	require.NoError(t, err)
	assert.Equal(t, "x", defaults.Name)
	assert.Empty(t, defaults.Description)
	assert.Empty(t, defaults.RequiresPython)
}

func TestQuote(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", `"plain"`},
		{`has "quotes"`, `"has \"quotes\""`},
		{`back\slash`, `"back\\slash"`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Quote(tt.in))
	}
}

func TestFormatAuthorsLine(t *testing.T) {
	line, ok := FormatAuthorsLine("Jake", "jake@example.com")
	require.True(t, ok)
	assert.Equal(t, `authors = [{ name = "Jake", email = "jake@example.com" }]`, line)

	line, ok = FormatAuthorsLine("Jake", "")
	require.True(t, ok)
	assert.Equal(t, `authors = [{ name = "Jake" }]`, line)

	line, ok = FormatAuthorsLine("", "jake@example.com")
	require.True(t, ok)
	assert.Equal(t, `authors = [{ email = "jake@example.com" }]`, line)

	_, ok = FormatAuthorsLine("", "")
	assert.False(t, ok)
}

func TestSetKeyInSection_ReplacesExistingKey(t *testing.T) {
	out, err := SetKeyInSection(sampleDoc, "project", "name", `name = "cool-tool"`)
	require.NoError(t, err)

	assert.Contains(t, out, `name = "cool-tool"`)
	assert.NotContains(t, out, `name = "py-template"`)
	// Unrelated content untouched.
	assert.Contains(t, out, `requires = ["hatchling"]`)
	assert.Contains(t, out, `dev = ["pytest"]`)
}

func TestSetKeyInSection_AppendsMissingKey(t *testing.T) {
	out, err := SetKeyInSection(sampleDoc, "project", "authors", `authors = [{ name = "Jake" }]`)
	require.NoError(t, err)

	// Appended inside [project], before [dependency-groups].
	projStart, projEnd, ok := sectionSpan(out, "project")
	require.True(t, ok)
	assert.Contains(t, out[projStart:projEnd], `authors = [{ name = "Jake" }]`)
}

func TestSetKeyInSection_MissingSection(t *testing.T) {
	_, err := SetKeyInSection(sampleDoc, "project.urls", "Repository", `Repository = "x"`)
	assert.Equal(t, errors.ESectionMissing, errors.GetCode(err))
}

func TestSetKeyInSection_DoesNotTouchOtherSections(t *testing.T) {
	doc := "[project]\nname = \"a\"\n\n[tool.ruff]\nname = \"keep\"\n"
	out, err := SetKeyInSection(doc, "project", "name", `name = "b"`)
	require.NoError(t, err)

	assert.Contains(t, out, `name = "b"`)
	assert.Contains(t, out, `name = "keep"`)
}

func TestEnsureSection_NoopWhenPresent(t *testing.T) {
	out := EnsureSection(sampleDoc, "project", "")
	assert.Equal(t, sampleDoc, out)
}

func TestEnsureSection_InsertsBeforeAnchor(t *testing.T) {
	out := EnsureSection(sampleDoc, "project.urls", "dependency-groups")

	urlsIdx := strings.Index(out, "[project.urls]")
	depsIdx := strings.Index(out, "[dependency-groups]")
	require.GreaterOrEqual(t, urlsIdx, 0)
	require.GreaterOrEqual(t, depsIdx, 0)
	assert.Less(t, urlsIdx, depsIdx, "[project.urls] must precede [dependency-groups]")

	// Inserted section is usable immediately.
	patched, err := SetKeyInSection(out, "project.urls", "Repository", `Repository = "https://github.com/acme/x"`)
	require.NoError(t, err)
	assert.Contains(t, patched, `Repository = "https://github.com/acme/x"`)
}

func TestEnsureSection_AppendsWithoutAnchor(t *testing.T) {
	doc := "[project]\nname = \"a\"\n"
	out := EnsureSection(doc, "project.urls", "dependency-groups")

	_, _, ok := sectionSpan(out, "project.urls")
	assert.True(t, ok)
}
