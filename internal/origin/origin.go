// Package origin derives project identity from a git remote origin URL.
package origin

import "strings"

// Origin holds the parsed identity of a remote origin.
type Origin struct {
	RawURL        string // as reported by git
	RepositoryURL string // normalized https://github.com/... URL, or "" if not GitHub
	RepoName      string // repository name without .git, or ""
}

// Parse derives an Origin from a raw remote URL.
// Returns ok=false for empty input.
func Parse(raw string) (Origin, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Origin{}, false
	}

	o := Origin{
		RawURL:        raw,
		RepositoryURL: NormalizeGitHubURL(raw),
	}
	o.RepoName = RepoNameFromURL(raw)
	if o.RepoName == "" {
		o.RepoName = RepoNameFromURL(o.RepositoryURL)
	}
	return o, true
}

// NormalizeGitHubURL converts a GitHub remote URL to its canonical
// https form without a trailing .git.
// Supports:
//   - scp-like: git@github.com:owner/repo.git -> https://github.com/owner/repo
//   - https: https://github.com/owner/repo.git -> https://github.com/owner/repo
//
// Returns "" for non-GitHub hosts and other schemes (ssh://, git://, ...).
func NormalizeGitHubURL(remoteURL string) string {
	url := strings.TrimRight(strings.TrimSpace(remoteURL), "/")

	if rest, ok := strings.CutPrefix(url, "git@github.com:"); ok {
		rest = strings.TrimSuffix(rest, ".git")
		if rest == "" {
			return ""
		}
		return "https://github.com/" + rest
	}

	if strings.HasPrefix(url, "https://github.com/") {
		trimmed := strings.TrimSuffix(url, ".git")
		if trimmed == "https://github.com" || trimmed == "https://github.com/" {
			return ""
		}
		return trimmed
	}

	return ""
}

// RepoNameFromURL extracts the final path segment of a remote URL,
// without a trailing .git. Returns "" if nothing remains.
func RepoNameFromURL(url string) string {
	normalized := strings.TrimRight(url, "/")
	normalized = strings.TrimSuffix(normalized, ".git")

	if idx := strings.LastIndexAny(normalized, "/:"); idx >= 0 {
		normalized = normalized[idx+1:]
	}
	return normalized
}
