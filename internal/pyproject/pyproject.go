// Package pyproject reads and patches pyproject.toml.
//
// Reads go through a real TOML parser. Writes are textual patches scoped to a
// single table so unrelated formatting and comments survive; re-serializing
// the whole document would destroy them.
package pyproject

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/pytemplate/bootstrap/internal/errors"
	"github.com/pytemplate/bootstrap/internal/fs"
)

// Defaults holds the [project] values used to seed prompts.
type Defaults struct {
	Name           string
	Description    string
	RequiresPython string
}

// LoadDefaults parses the [project] table of the file at path.
// Missing keys stay empty; a missing or unparseable file is an error.
func LoadDefaults(fsys fs.FS, path string) (Defaults, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return Defaults{}, errors.Wrap(errors.EPyprojectInvalid, "failed to read pyproject.toml", err)
	}

	var doc struct {
		Project struct {
			Name           string `toml:"name"`
			Description    string `toml:"description"`
			RequiresPython string `toml:"requires-python"`
		} `toml:"project"`
	}
	if err := toml.Unmarshal(data, &doc); err != nil {
		return Defaults{}, errors.Wrap(errors.EPyprojectInvalid, "failed to parse pyproject.toml", err)
	}

	return Defaults{
		Name:           doc.Project.Name,
		Description:    doc.Project.Description,
		RequiresPython: doc.Project.RequiresPython,
	}, nil
}

// Quote renders a string as a TOML basic string.
func Quote(value string) string {
	escaped := strings.ReplaceAll(value, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	return `"` + escaped + `"`
}

// FormatAuthorsLine renders the [project] authors value for the given
// identity. Returns ok=false when both parts are empty.
func FormatAuthorsLine(name, email string) (string, bool) {
	if name == "" && email == "" {
		return "", false
	}

	var parts []string
	if name != "" {
		parts = append(parts, "name = "+Quote(name))
	}
	if email != "" {
		parts = append(parts, "email = "+Quote(email))
	}
	return "authors = [{ " + strings.Join(parts, ", ") + " }]", true
}

// sectionSpan locates the body of "[section]": the byte range between the
// header line and the next line starting with '[' (or end of text).
// Returns ok=false when the section header is absent.
func sectionSpan(text, section string) (start, end int, ok bool) {
	header := "[" + section + "]\n"

	var headerStart int
	if strings.HasPrefix(text, header) {
		headerStart = 0
	} else if i := strings.Index(text, "\n"+header); i >= 0 {
		headerStart = i + 1
	} else {
		return 0, 0, false
	}

	start = headerStart + len(header)
	end = len(text)
	for pos := start; pos < len(text); {
		if text[pos] == '[' {
			end = pos
			break
		}
		nl := strings.IndexByte(text[pos:], '\n')
		if nl < 0 {
			break
		}
		pos += nl + 1
	}
	return start, end, true
}

// SetKeyInSection replaces the first "key = ..." line inside "[section]" with
// line, or appends line to the section body if the key is absent.
// Returns E_SECTION_MISSING when the section itself is absent.
func SetKeyInSection(text, section, key, line string) (string, error) {
	start, end, ok := sectionSpan(text, section)
	if !ok {
		return "", errors.New(errors.ESectionMissing,
			fmt.Sprintf("missing section [%s] in pyproject.toml", section))
	}

	body := text[start:end]
	keyPattern := regexp.MustCompile(`(?m)^` + regexp.QuoteMeta(key) + `\s*=.*$`)

	if loc := keyPattern.FindStringIndex(body); loc != nil {
		body = body[:loc[0]] + line + body[loc[1]:]
	} else {
		if body != "" && !strings.HasSuffix(body, "\n") {
			body += "\n"
		}
		body += line + "\n"
	}

	return text[:start] + body + text[end:], nil
}

// EnsureSection adds an empty "[section]" table when absent. When
// beforeSection names an existing table, the new one is inserted just above
// it; otherwise it is appended at the end.
func EnsureSection(text, section, beforeSection string) string {
	if _, _, ok := sectionSpan(text, section); ok {
		return text
	}

	newSection := "\n[" + section + "]\n"
	if beforeSection != "" {
		anchor := "[" + beforeSection + "]\n"
		idx := -1
		if strings.HasPrefix(text, anchor) {
			idx = 0
		} else if i := strings.Index(text, "\n"+anchor); i >= 0 {
			idx = i + 1
		}
		if idx >= 0 {
			head := strings.TrimRight(text[:idx], " \t\r\n") + "\n"
			return head + newSection + "\n" + text[idx:]
		}
	}

	return strings.TrimRight(text, " \t\r\n") + newSection + "\n"
}
