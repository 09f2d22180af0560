package provider

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/remd-cli/remd/internal/domain"
)

// azureBranchPattern extracts the branch from Azure DevOps URLs, which
// encode it in the query string as version=GB<branch>
var azureBranchPattern = regexp.MustCompile(`version=GB(.+?)(?:&|$)`)

// ParseRepoURL classifies a repository URL by host and extracts its
// coordinates. Supported hosts are github.com, dev.azure.com, and the
// legacy *.visualstudio.com form.
func ParseRepoURL(rawURL string) (domain.RepoInfo, error) {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return domain.RepoInfo{}, &domain.ParseError{URL: rawURL, Reason: "URL is empty"}
	}

	u, err := url.Parse(trimmed)
	if err != nil {
		return domain.RepoInfo{}, &domain.ParseError{URL: rawURL, Reason: "invalid URL: " + err.Error()}
	}

	if u.Scheme == "" {
		return domain.RepoInfo{}, &domain.ParseError{URL: rawURL, Reason: "URL has no scheme"}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return domain.RepoInfo{}, &domain.ParseError{URL: rawURL, Reason: "unsupported scheme: " + u.Scheme}
	}

	host := strings.ToLower(u.Hostname())
	segments := splitPath(u.Path)

	switch {
	case host == "github.com":
		return parseGitHub(trimmed, segments)
	case host == "dev.azure.com":
		return parseAzure(trimmed, segments, u.RawQuery)
	case strings.HasSuffix(host, ".visualstudio.com"):
		org := strings.TrimSuffix(host, ".visualstudio.com")
		return parseAzureLegacy(trimmed, org, segments, u.RawQuery)
	default:
		return domain.RepoInfo{}, &domain.ParseError{URL: rawURL, Reason: "unsupported host: " + host}
	}
}

func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

// parseGitHub handles github.com/owner/repo[/tree/branch...] paths.
// Branch names may contain slashes, so everything after /tree/ is the
// branch.
func parseGitHub(rawURL string, segments []string) (domain.RepoInfo, error) {
	if len(segments) < 2 {
		return domain.RepoInfo{}, &domain.ParseError{URL: rawURL, Reason: "expected github.com/owner/repo"}
	}

	owner := segments[0]
	repo := strings.TrimSuffix(segments[1], ".git")

	branch := ""
	if len(segments) >= 4 && segments[2] == "tree" {
		branch = strings.Join(segments[3:], "/")
	}

	return domain.RepoInfo{
		Provider: domain.ProviderGitHub,
		Owner:    owner,
		Repo:     repo,
		Branch:   branch,
		APIHost:  "api.github.com",
		RawURL:   rawURL,
	}, nil
}

// parseAzure handles dev.azure.com/org/project/_git/repo paths
func parseAzure(rawURL string, segments []string, query string) (domain.RepoInfo, error) {
	if len(segments) < 4 || segments[2] != "_git" {
		return domain.RepoInfo{}, &domain.ParseError{URL: rawURL, Reason: "expected dev.azure.com/org/project/_git/repo"}
	}

	return domain.RepoInfo{
		Provider: domain.ProviderAzureDevOps,
		Owner:    segments[0],
		Project:  segments[1],
		Repo:     segments[3],
		Branch:   azureBranch(query),
		APIHost:  "dev.azure.com",
		RawURL:   rawURL,
	}, nil
}

// parseAzureLegacy handles <org>.visualstudio.com/project/_git/repo paths
func parseAzureLegacy(rawURL, org string, segments []string, query string) (domain.RepoInfo, error) {
	if len(segments) < 3 || segments[1] != "_git" {
		return domain.RepoInfo{}, &domain.ParseError{URL: rawURL, Reason: "expected <org>.visualstudio.com/project/_git/repo"}
	}

	return domain.RepoInfo{
		Provider: domain.ProviderAzureDevOps,
		Owner:    org,
		Project:  segments[0],
		Repo:     segments[2],
		Branch:   azureBranch(query),
		APIHost:  "dev.azure.com",
		RawURL:   rawURL,
	}, nil
}

func azureBranch(query string) string {
	m := azureBranchPattern.FindStringSubmatch(query)
	if m == nil {
		return ""
	}
	return m[1]
}
