package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"

	"github.com/remd-cli/remd/internal/domain"
	"github.com/remd-cli/remd/internal/fetcher"
	"github.com/remd-cli/remd/internal/filter"
	"github.com/remd-cli/remd/internal/utils"
)

const defaultRawBaseURL = "https://raw.githubusercontent.com"

// GitHubProvider lists and fetches repository files through the GitHub
// REST API. Raw file content goes through the CDN endpoint first, with
// the contents API as fallback.
type GitHubProvider struct {
	client     *github.Client
	fetcher    domain.Fetcher
	retrier    *fetcher.Retrier
	logger     *utils.Logger
	rawBaseURL string
}

// GitHubOptions contains options for creating a GitHubProvider
type GitHubOptions struct {
	// Token is an optional personal access token
	Token string

	// Fetcher is the transport used for raw CDN requests
	Fetcher domain.Fetcher

	Logger  *utils.Logger
	Retrier *fetcher.Retrier

	// APIBaseURL overrides the GitHub API endpoint, used in tests
	APIBaseURL string

	// RawBaseURL overrides the raw content endpoint, used in tests
	RawBaseURL string
}

// NewGitHubProvider creates a new GitHub provider
func NewGitHubProvider(opts GitHubOptions) (*GitHubProvider, error) {
	httpClient := http.DefaultClient
	if opts.Token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token})
		httpClient = oauth2.NewClient(context.Background(), ts)
	}

	client := github.NewClient(httpClient)
	if opts.APIBaseURL != "" {
		base, err := url.Parse(strings.TrimSuffix(opts.APIBaseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("invalid API base URL: %w", err)
		}
		client.BaseURL = base
	}

	rawBaseURL := opts.RawBaseURL
	if rawBaseURL == "" {
		rawBaseURL = defaultRawBaseURL
	}

	logger := opts.Logger
	if logger == nil {
		logger = utils.NewDefaultLogger()
	}

	retrier := opts.Retrier
	if retrier == nil {
		retrier = fetcher.NewRetrier(fetcher.DefaultRetrierOptions())
	}

	return &GitHubProvider{
		client:     client,
		fetcher:    opts.Fetcher,
		retrier:    retrier,
		logger:     logger.WithProvider(string(domain.ProviderGitHub)),
		rawBaseURL: strings.TrimSuffix(rawBaseURL, "/"),
	}, nil
}

// Name returns the provider name
func (p *GitHubProvider) Name() domain.ProviderType {
	return domain.ProviderGitHub
}

// DefaultBranch returns the repository's default branch
func (p *GitHubProvider) DefaultBranch(ctx context.Context, info domain.RepoInfo) (string, error) {
	repo, resp, err := p.client.Repositories.Get(ctx, info.Owner, info.Repo)
	if err := p.checkResponse(resp, err); err != nil {
		return "", err
	}

	return repo.GetDefaultBranch(), nil
}

// ResolveBranch returns a copy of info with Branch filled in when the
// URL did not specify one
func (p *GitHubProvider) ResolveBranch(ctx context.Context, info domain.RepoInfo) (domain.RepoInfo, error) {
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

// ListFiles lists every regular file in the repository at the resolved
// branch via the recursive git tree endpoint. When the API truncates the
// tree, root-level subdirectories are fetched one by one and merged;
// subtrees that fail to fetch are left out rather than failing the
// listing.
func (p *GitHubProvider) ListFiles(ctx context.Context, info domain.RepoInfo) ([]*domain.FileEntry, error) {
	info, err := p.ResolveBranch(ctx, info)
	if err != nil {
		return nil, err
	}

	tree, resp, err := p.client.Git.GetTree(ctx, info.Owner, info.Repo, info.Branch, true)
	if err := p.checkResponse(resp, err); err != nil {
		return nil, err
	}

	if tree.GetTruncated() {
		p.logger.Warn().
			Str("repo", info.DisplayName()).
			Msg("Tree listing truncated, walking subdirectories individually")
		return p.listFilesNonRecursive(ctx, info)
	}

	files := make([]*domain.FileEntry, 0, len(tree.Entries))
	for _, entry := range tree.Entries {
		if entry.GetType() != "blob" {
			continue
		}
		files = append(files, newFileEntry(entry.GetPath(), int64(entry.GetSize())))
	}

	p.logger.Debug().
		Int("files", len(files)).
		Str("branch", info.Branch).
		Msg("Listed repository files")

	return files, nil
}

// listFilesNonRecursive recovers from a truncated tree response. Blobs at
// the root are kept; each root-level directory gets its own recursive
// tree fetch by object id.
func (p *GitHubProvider) listFilesNonRecursive(ctx context.Context, info domain.RepoInfo) ([]*domain.FileEntry, error) {
	root, resp, err := p.client.Git.GetTree(ctx, info.Owner, info.Repo, info.Branch, false)
	if err := p.checkResponse(resp, err); err != nil {
		return nil, err
	}

	var files []*domain.FileEntry
	for _, entry := range root.Entries {
		switch entry.GetType() {
		case "blob":
			files = append(files, newFileEntry(entry.GetPath(), int64(entry.GetSize())))
		case "tree":
			subtree, resp, err := p.client.Git.GetTree(ctx, info.Owner, info.Repo, entry.GetSHA(), true)
			if err := p.checkResponse(resp, err); err != nil {
				if domain.IsRateLimit(err) {
					return nil, err
				}
				p.logger.Warn().
					Str("dir", entry.GetPath()).
					Err(err).
					Msg("Skipping unreadable subdirectory")
				continue
			}
			for _, sub := range subtree.Entries {
				if sub.GetType() != "blob" {
					continue
				}
				files = append(files, newFileEntry(entry.GetPath()+"/"+sub.GetPath(), int64(sub.GetSize())))
			}
		}
	}

	return files, nil
}

// FetchFileContent fetches a single file's content, trying the raw CDN
// endpoint first and falling back to the contents API.
func (p *GitHubProvider) FetchFileContent(ctx context.Context, info domain.RepoInfo, entry *domain.FileEntry) (string, error) {
	rawURL := p.rawURL(info, entry.Path)

	resp, fetchErr := p.fetcher.Get(ctx, rawURL)
	if resp != nil {
		if err := rateLimitFromHeaders(resp.Headers); err != nil {
			return "", err
		}
		if resp.StatusCode == http.StatusOK {
			return filter.DecodeText(resp.Body), nil
		}
	}

	p.logger.Debug().
		Str("path", entry.Path).
		Err(fetchErr).
		Msg("Raw endpoint failed, falling back to contents API")

	return p.fetchViaContentsAPI(ctx, info, entry.Path)
}

func (p *GitHubProvider) fetchViaContentsAPI(ctx context.Context, info domain.RepoInfo, path string) (string, error) {
	content, _, resp, err := p.client.Repositories.GetContents(ctx, info.Owner, info.Repo, path, &github.RepositoryContentGetOptions{
		Ref: info.Branch,
	})
	if err := p.checkResponse(resp, err); err != nil {
		return "", err
	}
	if content == nil {
		return "", domain.NewProviderError(domain.ProviderGitHub, 0, fmt.Sprintf("path %q is not a file", path), nil)
	}

	decoded, err := content.GetContent()
	if err != nil {
		return "", domain.NewProviderError(domain.ProviderGitHub, 0, fmt.Sprintf("failed to decode content of %q", path), err)
	}

	return strings.ToValidUTF8(decoded, "�"), nil
}

// FetchAllFiles fetches content for every file in order
func (p *GitHubProvider) FetchAllFiles(ctx context.Context, info domain.RepoInfo, files []*domain.FileEntry, maxFileSize int64, fn domain.ProgressFunc) (domain.FetchProgress, error) {
	return fetchAll(ctx, info, files, maxFileSize, p.FetchFileContent, p.retrier, p.logger, fn)
}

func (p *GitHubProvider) rawURL(info domain.RepoInfo, path string) string {
	segments := strings.Split(path, "/")
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}

	return fmt.Sprintf("%s/%s/%s/%s/%s",
		p.rawBaseURL,
		url.PathEscape(info.Owner),
		url.PathEscape(info.Repo),
		url.PathEscape(info.Branch),
		strings.Join(escaped, "/"))
}

// checkResponse translates go-github errors and rate-limit state into
// domain errors. Quota exhaustion wins over the HTTP status.
func (p *GitHubProvider) checkResponse(resp *github.Response, err error) error {
	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return &domain.RateLimitError{ResetAt: rateErr.Rate.Reset.Time}
	}

	if resp != nil && resp.Rate.Limit > 0 && resp.Rate.Remaining == 0 {
		return &domain.RateLimitError{ResetAt: resp.Rate.Reset.Time}
	}

	if err == nil {
		return nil
	}

	status := 0
	if resp != nil {
		status = resp.StatusCode
	}

	switch status {
	case http.StatusNotFound:
		return domain.NewProviderError(domain.ProviderGitHub, status, "repository or path not found", err)
	case http.StatusUnauthorized:
		return domain.NewProviderError(domain.ProviderGitHub, status, "authentication failed, check your token", err)
	case http.StatusForbidden:
		return domain.NewProviderError(domain.ProviderGitHub, status, "access denied", err)
	default:
		return domain.NewProviderError(domain.ProviderGitHub, status, "request failed", err)
	}
}

// rateLimitFromHeaders checks GitHub's rate-limit headers on a raw HTTP
// response. Remaining quota of exactly zero is a rate-limit failure no
// matter what the status code was.
func rateLimitFromHeaders(headers http.Header) error {
	if headers.Get("X-RateLimit-Remaining") != "0" {
		return nil
	}

	resetAt := time.Now().Add(time.Minute)
	if raw := headers.Get("X-RateLimit-Reset"); raw != "" {
		if unix, err := strconv.ParseInt(raw, 10, 64); err == nil {
			resetAt = time.Unix(unix, 0)
		}
	}

	return &domain.RateLimitError{ResetAt: resetAt}
}

func newFileEntry(path string, size int64) *domain.FileEntry {
	return &domain.FileEntry{
		Path:         path,
		Size:         size,
		IsBinary:     filter.IsBinaryByExtension(path),
		LanguageHint: filter.LanguageHint(path),
	}
}
