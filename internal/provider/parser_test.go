package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/remd-cli/remd/internal/domain"
)

func TestParseRepoURL_GitHub(t *testing.T) {
	tests := []struct {
		name       string
		url        string
		wantOwner  string
		wantRepo   string
		wantBranch string
	}{
		{
			name:      "plain repo",
			url:       "https://github.com/octocat/hello-world",
			wantOwner: "octocat",
			wantRepo:  "hello-world",
		},
		{
			name:      "git suffix stripped",
			url:       "https://github.com/octocat/hello-world.git",
			wantOwner: "octocat",
			wantRepo:  "hello-world",
		},
		{
			name:       "branch",
			url:        "https://github.com/octocat/hello-world/tree/develop",
			wantOwner:  "octocat",
			wantRepo:   "hello-world",
			wantBranch: "develop",
		},
		{
			name:       "branch with slashes",
			url:        "https://github.com/owner/repo/tree/feature/my-branch",
			wantOwner:  "owner",
			wantRepo:   "repo",
			wantBranch: "feature/my-branch",
		},
		{
			name:      "trailing slash",
			url:       "https://github.com/octocat/hello-world/",
			wantOwner: "octocat",
			wantRepo:  "hello-world",
		},
		{
			name:      "surrounding whitespace",
			url:       "  https://github.com/octocat/hello-world  ",
			wantOwner: "octocat",
			wantRepo:  "hello-world",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := ParseRepoURL(tt.url)
			require.NoError(t, err)
			assert.Equal(t, domain.ProviderGitHub, info.Provider)
			assert.Equal(t, tt.wantOwner, info.Owner)
			assert.Equal(t, tt.wantRepo, info.Repo)
			assert.Equal(t, tt.wantBranch, info.Branch)
			assert.Equal(t, "api.github.com", info.APIHost)
		})
	}
}

func TestParseRepoURL_AzureDevOps(t *testing.T) {
	info, err := ParseRepoURL("https://dev.azure.com/org/project/_git/repo?version=GBmain")
	require.NoError(t, err)
	assert.Equal(t, domain.ProviderAzureDevOps, info.Provider)
	assert.Equal(t, "org", info.Owner)
	assert.Equal(t, "project", info.Project)
	assert.Equal(t, "repo", info.Repo)
	assert.Equal(t, "main", info.Branch)
}

func TestParseRepoURL_AzureDevOpsNoBranch(t *testing.T) {
	info, err := ParseRepoURL("https://dev.azure.com/org/project/_git/repo")
	require.NoError(t, err)
	assert.Empty(t, info.Branch)
}

func TestParseRepoURL_AzureDevOpsBranchBeforeOtherParams(t *testing.T) {
	info, err := ParseRepoURL("https://dev.azure.com/org/project/_git/repo?version=GBdevelop&path=/src")
	require.NoError(t, err)
	assert.Equal(t, "develop", info.Branch)
}

func TestParseRepoURL_VisualStudioLegacy(t *testing.T) {
	info, err := ParseRepoURL("https://myorg.visualstudio.com/project/_git/repo?version=GBrelease/v2")
	require.NoError(t, err)
	assert.Equal(t, domain.ProviderAzureDevOps, info.Provider)
	assert.Equal(t, "myorg", info.Owner)
	assert.Equal(t, "project", info.Project)
	assert.Equal(t, "repo", info.Repo)
	assert.Equal(t, "release/v2", info.Branch)
}

func TestParseRepoURL_Errors(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"empty", ""},
		{"whitespace only", "   "},
		{"no scheme", "github.com/owner/repo"},
		{"bad scheme", "ftp://github.com/owner/repo"},
		{"unknown host", "https://gitlab.com/owner/repo"},
		{"github missing repo", "https://github.com/owner"},
		{"azure missing _git", "https://dev.azure.com/org/project/repo"},
		{"azure too few segments", "https://dev.azure.com/org/_git/repo"},
		{"legacy missing _git", "https://myorg.visualstudio.com/project/repo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRepoURL(tt.url)
			require.Error(t, err)

			var parseErr *domain.ParseError
			assert.ErrorAs(t, err, &parseErr)
		})
	}
}
