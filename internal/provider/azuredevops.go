package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/remd-cli/remd/internal/domain"
	"github.com/remd-cli/remd/internal/fetcher"
	"github.com/remd-cli/remd/internal/filter"
	"github.com/remd-cli/remd/internal/utils"
)

const (
	defaultAzureBaseURL = "https://dev.azure.com"
	azureAPIVersion     = "7.1-preview.1"
)

// AzureDevOpsProvider lists and fetches repository files through the
// Azure DevOps REST API. Authentication uses basic auth with an empty
// username and the PAT as password, the convention Azure DevOps expects.
type AzureDevOpsProvider struct {
	fetcher domain.Fetcher
	retrier *fetcher.Retrier
	logger  *utils.Logger
	baseURL string
}

// AzureDevOpsOptions contains options for creating an AzureDevOpsProvider
type AzureDevOpsOptions struct {
	// Fetcher is the transport; configure it with the PAT as
	// BasicAuthPassword for private repositories
	Fetcher domain.Fetcher

	Logger  *utils.Logger
	Retrier *fetcher.Retrier

	// BaseURL overrides the API endpoint, used in tests
	BaseURL string
}

// NewAzureDevOpsProvider creates a new Azure DevOps provider
func NewAzureDevOpsProvider(opts AzureDevOpsOptions) *AzureDevOpsProvider {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = defaultAzureBaseURL
	}

	logger := opts.Logger
	if logger == nil {
		logger = utils.NewDefaultLogger()
	}

	retrier := opts.Retrier
	if retrier == nil {
		retrier = fetcher.NewRetrier(fetcher.DefaultRetrierOptions())
	}

	return &AzureDevOpsProvider{
		fetcher: opts.Fetcher,
		retrier: retrier,
		logger:  logger.WithProvider(string(domain.ProviderAzureDevOps)),
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// Name returns the provider name
func (p *AzureDevOpsProvider) Name() domain.ProviderType {
	return domain.ProviderAzureDevOps
}

type azureRepository struct {
	DefaultBranch string `json:"defaultBranch"`
}

type azureItem struct {
	Path            string `json:"path"`
	Size            int64  `json:"size"`
	IsFolder        bool   `json:"isFolder"`
	GitObjectType   string `json:"gitObjectType"`
	ContentMetadata *struct {
		IsBinary *bool `json:"isBinary"`
	} `json:"contentMetadata"`
}

type azureItemList struct {
	Count int         `json:"count"`
	Value []azureItem `json:"value"`
}

// DefaultBranch returns the repository's default branch with the
// refs/heads/ prefix stripped, falling back to "main" when the API does
// not report one.
func (p *AzureDevOpsProvider) DefaultBranch(ctx context.Context, info domain.RepoInfo) (string, error) {
	endpoint := p.repoURL(info, "", nil)

	resp, err := p.fetcher.Get(ctx, endpoint)
	if err := p.checkResponse(resp, err); err != nil {
		return "", err
	}

	var repo azureRepository
	if err := json.Unmarshal(resp.Body, &repo); err != nil {
		return "", domain.NewProviderError(domain.ProviderAzureDevOps, 0, "failed to decode repository metadata", err)
	}

	branch := strings.TrimPrefix(repo.DefaultBranch, "refs/heads/")
	if branch == "" {
		branch = "main"
	}

	return branch, nil
}

// ResolveBranch returns a copy of info with Branch filled in when the
// URL did not specify one
func (p *AzureDevOpsProvider) ResolveBranch(ctx context.Context, info domain.RepoInfo) (domain.RepoInfo, error) {
	if info.Branch != "" {
		return info, nil
	}

	branch, err := p.DefaultBranch(ctx, info)
	if err != nil {
		return info, err
	}

	info.Branch = branch
	return info, nil
}

// ListFiles lists every regular file at the resolved branch via the
// items endpoint with full recursion. Folder entries are skipped; the
// API's own binary flag is preferred over extension-based detection when
// present.
func (p *AzureDevOpsProvider) ListFiles(ctx context.Context, info domain.RepoInfo) ([]*domain.FileEntry, error) {
	info, err := p.ResolveBranch(ctx, info)
	if err != nil {
		return nil, err
	}

	endpoint := p.repoURL(info, "/items", url.Values{
		"recursionLevel":                {"Full"},
		"versionDescriptor.version":     {info.Branch},
		"versionDescriptor.versionType": {"branch"},
	})

	resp, err := p.fetcher.Get(ctx, endpoint)
	if err := p.checkResponse(resp, err); err != nil {
		return nil, err
	}

	var list azureItemList
	if err := json.Unmarshal(resp.Body, &list); err != nil {
		return nil, domain.NewProviderError(domain.ProviderAzureDevOps, 0, "failed to decode item listing", err)
	}

	files := make([]*domain.FileEntry, 0, len(list.Value))
	for _, item := range list.Value {
		if item.IsFolder {
			continue
		}

		path := strings.TrimPrefix(item.Path, "/")
		entry := newFileEntry(path, item.Size)
		if item.ContentMetadata != nil && item.ContentMetadata.IsBinary != nil {
			entry.IsBinary = *item.ContentMetadata.IsBinary
		}
		files = append(files, entry)
	}

	p.logger.Debug().
		Int("files", len(files)).
		Str("branch", info.Branch).
		Msg("Listed repository files")

	return files, nil
}

// FetchFileContent fetches a single file's raw content
func (p *AzureDevOpsProvider) FetchFileContent(ctx context.Context, info domain.RepoInfo, entry *domain.FileEntry) (string, error) {
	endpoint := p.repoURL(info, "/items", url.Values{
		"path":                          {"/" + entry.Path},
		"versionDescriptor.version":     {info.Branch},
		"versionDescriptor.versionType": {"branch"},
		"includeContent":                {"true"},
	})

	resp, err := p.fetcher.GetWithHeaders(ctx, endpoint, map[string]string{
		"Accept": "application/octet-stream",
	})
	if resp != nil && resp.StatusCode == http.StatusNotFound {
		return "", domain.NewProviderError(domain.ProviderAzureDevOps, http.StatusNotFound,
			fmt.Sprintf("file not found: %s", entry.Path), err)
	}
	if err := p.checkResponse(resp, err); err != nil {
		return "", err
	}

	return filter.DecodeText(resp.Body), nil
}

// FetchAllFiles fetches content for every file in order
func (p *AzureDevOpsProvider) FetchAllFiles(ctx context.Context, info domain.RepoInfo, files []*domain.FileEntry, maxFileSize int64, fn domain.ProgressFunc) (domain.FetchProgress, error) {
	return fetchAll(ctx, info, files, maxFileSize, p.FetchFileContent, p.retrier, p.logger, fn)
}

// repoURL builds an API URL under the repository, always pinned to the
// supported api-version.
func (p *AzureDevOpsProvider) repoURL(info domain.RepoInfo, suffix string, params url.Values) string {
	if params == nil {
		params = url.Values{}
	}
	params.Set("api-version", azureAPIVersion)

	return fmt.Sprintf("%s/%s/%s/_apis/git/repositories/%s%s?%s",
		p.baseURL,
		url.PathEscape(info.Owner),
		url.PathEscape(info.Project),
		url.PathEscape(info.Repo),
		suffix,
		params.Encode())
}

func (p *AzureDevOpsProvider) checkResponse(resp *domain.Response, err error) error {
	status := 0
	if resp != nil {
		status = resp.StatusCode
	}

	switch status {
	case http.StatusNotFound:
		return domain.NewProviderError(domain.ProviderAzureDevOps, status, "repository or project not found", err)
	case http.StatusUnauthorized:
		return domain.NewProviderError(domain.ProviderAzureDevOps, status, "authentication failed, check your PAT", err)
	case http.StatusForbidden:
		return domain.NewProviderError(domain.ProviderAzureDevOps, status, "access denied", err)
	}

	if err != nil {
		return domain.NewProviderError(domain.ProviderAzureDevOps, status, "request failed", err)
	}

	return nil
}
