package domain

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors
var (
	// ErrCacheMiss indicates a cache miss
	ErrCacheMiss = errors.New("cache miss")

	// ErrNoFiles indicates the repository listing returned no files
	ErrNoFiles = errors.New("no files found in repository")

	// ErrNoFilesMatched indicates the path filter excluded every file
	ErrNoFilesMatched = errors.New("no files matched the filter patterns")
)

// ParseError indicates a repository URL could not be parsed.
// It is always fatal to the conversion attempt and never retried.
type ParseError struct {
	URL    string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid repository URL %q: %s", e.URL, e.Reason)
}

// NewParseError creates a new ParseError
func NewParseError(url, reason string) *ParseError {
	return &ParseError{URL: url, Reason: reason}
}

// ProviderError represents a provider-level failure (not-found, auth
// failure, access denied, or generic HTTP failure). Fatal to the current
// listing or fetch call.
type ProviderError struct {
	Provider   ProviderType
	StatusCode int
	Message    string
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: %s (HTTP %d)", e.Provider, e.Message, e.StatusCode)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewProviderError creates a new ProviderError
func NewProviderError(provider ProviderType, statusCode int, message string, err error) *ProviderError {
	return &ProviderError{
		Provider:   provider,
		StatusCode: statusCode,
		Message:    message,
		Err:        err,
	}
}

// RateLimitError signals API quota exhaustion. It is fatal and propagates
// immediately, bypassing the per-file retry policy.
type RateLimitError struct {
	ResetAt time.Time
}

func (e *RateLimitError) Error() string {
	wait := time.Until(e.ResetAt).Round(time.Second)
	if wait < 0 {
		wait = 0
	}
	return fmt.Sprintf("GitHub API rate limit exceeded, resets in %s", wait)
}

// IsRateLimit checks whether err is (or wraps) a RateLimitError.
func IsRateLimit(err error) bool {
	var rl *RateLimitError
	return errors.As(err, &rl)
}

// FetchError represents a failed HTTP request
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch error for %s: status %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch error for %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// NewFetchError creates a new FetchError
func NewFetchError(url string, statusCode int, err error) *FetchError {
	return &FetchError{URL: url, StatusCode: statusCode, Err: err}
}

// IsRetryable checks if a per-file fetch failure should be retried.
// Everything transient is retried; rate-limit and parse errors are not.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if IsRateLimit(err) {
		return false
	}
	var parseErr *ParseError
	return !errors.As(err, &parseErr)
}
