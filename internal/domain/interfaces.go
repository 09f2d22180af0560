package domain

import (
	"context"
	"net/http"
	"time"
)

// Provider abstracts a Git-hosting REST API (GitHub or Azure DevOps).
//
// The listing/fetch call sequence is: ResolveBranch, ListFiles, then either
// FetchAllFiles for the whole set or FetchFileContent per file.
type Provider interface {
	// Name returns the provider name
	Name() ProviderType
	// DefaultBranch returns the repository's default branch name
	DefaultBranch(ctx context.Context, info RepoInfo) (string, error)
	// ResolveBranch returns a copy of info with Branch filled in when the
	// URL did not specify one
	ResolveBranch(ctx context.Context, info RepoInfo) (RepoInfo, error)
	// ListFiles lists all regular files in the repository
	ListFiles(ctx context.Context, info RepoInfo) ([]*FileEntry, error)
	// FetchFileContent fetches the content of a single file
	FetchFileContent(ctx context.Context, info RepoInfo, entry *FileEntry) (string, error)
	// FetchAllFiles fetches content for every file in order, invoking fn
	// with a progress snapshot after each one. maxFileSize of 0 means
	// unlimited. A rate-limit error aborts the loop and is returned;
	// ordinary per-file failures are retried once, then recorded in the
	// snapshot's Errors and skipped.
	FetchAllFiles(ctx context.Context, info RepoInfo, files []*FileEntry, maxFileSize int64, fn ProgressFunc) (FetchProgress, error)
}

// ProgressFunc observes fetch progress. The snapshot is reused between
// calls; observers that retain it must copy.
type ProgressFunc func(FetchProgress)

// Fetcher is the blocking HTTP transport used by providers
type Fetcher interface {
	// Get fetches a URL. The response is non-nil even on HTTP error
	// statuses so callers can inspect headers.
	Get(ctx context.Context, url string) (*Response, error)
	// GetWithHeaders fetches with extra request headers
	GetWithHeaders(ctx context.Context, url string, headers map[string]string) (*Response, error)
	// Close releases resources
	Close() error
}

// Response represents an HTTP response
type Response struct {
	StatusCode  int
	Body        []byte
	Headers     http.Header
	ContentType string
	URL         string
	FromCache   bool
}

// Cache defines the interface for response caching
type Cache interface {
	// Get retrieves a value from cache
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores a value in cache with TTL
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Has checks if a key exists in cache
	Has(ctx context.Context, key string) bool
	// Delete removes a key from cache
	Delete(ctx context.Context, key string) error
	// Close releases cache resources
	Close() error
}
