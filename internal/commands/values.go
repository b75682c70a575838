package commands

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/pytemplate/bootstrap/internal/errors"
	"github.com/pytemplate/bootstrap/internal/exec"
	"github.com/pytemplate/bootstrap/internal/fs"
	"github.com/pytemplate/bootstrap/internal/git"
	"github.com/pytemplate/bootstrap/internal/naming"
	"github.com/pytemplate/bootstrap/internal/origin"
	"github.com/pytemplate/bootstrap/internal/prompt"
	"github.com/pytemplate/bootstrap/internal/pyproject"
)

// Values holds the fully resolved bootstrap inputs.
type Values struct {
	DistName      string
	ImportName    string
	Description   string
	AuthorName    string
	AuthorEmail   string
	RepositoryURL string
	IssuesURL     string
	PythonRange   string
}

// PromptFunc runs the interactive form and returns answers keyed by field.
// A nil PromptFunc means the run is non-interactive.
type PromptFunc func(fields []prompt.Field) (map[string]string, error)

// Opts holds the bootstrap command options.
type Opts struct {
	PackageName   string
	ImportName    string
	Description   string
	AuthorName    string
	AuthorEmail   string
	RepositoryURL string
	IssuesURL     string
	PythonRange   string

	NoVerify             bool
	KeepScript           bool
	KeepChangesOnFailure bool

	Prompt PromptFunc
}

// collectValues resolves the bootstrap inputs from flags, the [project]
// table, the git origin, and git identity config, prompting interactively
// when a PromptFunc is present.
func collectValues(ctx context.Context, cr exec.CommandRunner, fsys fs.FS, root string, cfg Config, opts Opts) (Values, error) {
	defaults, err := pyproject.LoadDefaults(fsys, filepath.Join(root, "pyproject.toml"))
	if err != nil {
		return Values{}, err
	}

	var org origin.Origin
	if raw := git.GetOriginURL(ctx, cr, root); raw != "" {
		org, _ = origin.Parse(raw)
	}

	// The template's own placeholder name is not a usable default.
	projectName := defaults.Name
	if projectName == "" {
		projectName = cfg.TemplateDistName
	}
	projectFallback := ""
	if projectName != cfg.TemplateDistName {
		projectFallback = projectName
	}

	inferredDist := first(opts.PackageName, org.RepoName, projectFallback)

	defaultImport := opts.ImportName
	if defaultImport == "" && inferredDist != "" {
		defaultImport = naming.ImportNameFor(inferredDist)
	}
	defaultDescription := first(opts.Description, defaults.Description)
	defaultPython := first(opts.PythonRange, defaults.RequiresPython, cfg.DefaultPythonRange)
	defaultRepo := first(opts.RepositoryURL, org.RepositoryURL)
	defaultAuthorName := first(opts.AuthorName, git.ConfigValue(ctx, cr, root, "user.name"))
	defaultAuthorEmail := first(opts.AuthorEmail, git.ConfigValue(ctx, cr, root, "user.email"))

	if opts.Prompt != nil {
		return collectInteractive(cfg, opts, interactiveDefaults{
			inferredDist:  inferredDist,
			defaultImport: defaultImport,
			description:   defaultDescription,
			authorName:    defaultAuthorName,
			authorEmail:   defaultAuthorEmail,
			repositoryURL: defaultRepo,
			pythonRange:   defaultPython,
		})
	}

	if inferredDist == "" {
		return Values{}, errors.New(errors.ENameRequired,
			"could not infer distribution name; pass package_name or set the git origin remote")
	}

	return Values{
		DistName:      inferredDist,
		ImportName:    defaultImport,
		Description:   defaultDescription,
		AuthorName:    defaultAuthorName,
		AuthorEmail:   defaultAuthorEmail,
		RepositoryURL: defaultRepo,
		IssuesURL:     issuesURLFor(opts.IssuesURL, defaultRepo),
		PythonRange:   defaultPython,
	}, nil
}

type interactiveDefaults struct {
	inferredDist  string
	defaultImport string
	description   string
	authorName    string
	authorEmail   string
	repositoryURL string
	pythonRange   string
}

// collectInteractive prompts for every value not pinned by a flag. The first
// two prompts carry no default on purpose: an empty answer falls back to the
// inferred name afterwards, so the operator sees exactly what they typed.
func collectInteractive(cfg Config, opts Opts, d interactiveDefaults) (Values, error) {
	var fields []prompt.Field

	if opts.PackageName == "" {
		fields = append(fields, prompt.Field{Key: "dist_name", Label: "Distribution name (e.g. my-package)"})
	}
	if opts.ImportName == "" {
		fields = append(fields, prompt.Field{Key: "import_name", Label: "Import name (e.g. my_package)"})
	}
	fields = append(fields,
		prompt.Field{Key: "description", Label: "Description", Default: d.description},
		prompt.Field{Key: "author_name", Label: "Author name", Default: d.authorName},
		prompt.Field{Key: "author_email", Label: "Author email", Default: d.authorEmail},
		prompt.Field{Key: "repository_url", Label: "Repository URL", Default: d.repositoryURL},
		prompt.Field{Key: "issues_url", Label: "Issues URL", DefaultFunc: func(answers map[string]string) string {
			return issuesURLFor(opts.IssuesURL, answers["repository_url"])
		}},
		prompt.Field{Key: "python_range", Label: "Python range", Default: d.pythonRange},
	)

	answers, err := opts.Prompt(fields)
	if err != nil {
		return Values{}, err
	}

	distName := first(opts.PackageName, answers["dist_name"], d.inferredDist)

	importName := first(opts.ImportName, answers["import_name"])
	if importName == "" {
		if distName != "" {
			importName = naming.ImportNameFor(distName)
		} else {
			importName = d.defaultImport
		}
	}

	return Values{
		DistName:      distName,
		ImportName:    importName,
		Description:   answers["description"],
		AuthorName:    answers["author_name"],
		AuthorEmail:   answers["author_email"],
		RepositoryURL: answers["repository_url"],
		IssuesURL:     answers["issues_url"],
		PythonRange:   answers["python_range"],
	}, nil
}

// issuesURLFor derives the issues URL default: an explicit flag wins,
// otherwise <repository>/issues when a repository URL is known.
func issuesURLFor(explicit, repositoryURL string) string {
	if explicit != "" {
		return explicit
	}
	if repositoryURL == "" {
		return ""
	}
	return strings.TrimRight(repositoryURL, "/") + "/issues"
}

// first returns the first non-empty value.
func first(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
