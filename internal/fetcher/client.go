// Package fetcher provides the blocking HTTP transport used by the
// repository providers, with optional response caching.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/remd-cli/remd/internal/domain"
)

const defaultUserAgent = "remd/1.0"

// Client is a plain HTTP client with optional response caching.
// It performs no retries itself; retry policy belongs to the caller.
type Client struct {
	httpClient   *http.Client
	userAgent    string
	authHeader   string
	basicUser    string
	basicPass    string
	useBasicAuth bool
	cache        domain.Cache
	cacheEnabled bool
	cacheTTL     time.Duration
}

// ClientOptions contains options for creating a Client
type ClientOptions struct {
	Timeout     time.Duration
	UserAgent   string
	EnableCache bool
	CacheTTL    time.Duration
	Cache       domain.Cache

	// BearerToken sets an "Authorization: Bearer <token>" header on every
	// request when non-empty.
	BearerToken string

	// BasicAuthPassword enables HTTP basic auth with an empty username
	// (the Azure DevOps PAT convention) when non-empty.
	BasicAuthPassword string
}

// DefaultClientOptions returns default client options
func DefaultClientOptions() ClientOptions {
	return ClientOptions{
		Timeout:     30 * time.Second,
		UserAgent:   defaultUserAgent,
		EnableCache: true,
		CacheTTL:    24 * time.Hour,
	}
}

// NewClient creates a new HTTP client
func NewClient(opts ClientOptions) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}

	c := &Client{
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		userAgent:    opts.UserAgent,
		cache:        opts.Cache,
		cacheEnabled: opts.EnableCache,
		cacheTTL:     opts.CacheTTL,
	}

	if opts.BearerToken != "" {
		c.authHeader = "Bearer " + opts.BearerToken
	}
	if opts.BasicAuthPassword != "" {
		c.useBasicAuth = true
		c.basicUser = ""
		c.basicPass = opts.BasicAuthPassword
	}

	return c
}

// Get fetches content from a URL. The response is non-nil even on HTTP
// error statuses (alongside a *domain.FetchError) so callers can inspect
// headers before translating the failure.
func (c *Client) Get(ctx context.Context, url string) (*domain.Response, error) {
	return c.GetWithHeaders(ctx, url, nil)
}

// GetWithHeaders fetches content with custom headers
func (c *Client) GetWithHeaders(ctx context.Context, url string, extraHeaders map[string]string) (*domain.Response, error) {
	if c.cacheEnabled && c.cache != nil {
		if cached, err := c.getFromCache(ctx, url); err == nil && cached != nil {
			return cached, nil
		}
	}

	resp, err := c.doRequest(ctx, url, extraHeaders)
	if err != nil {
		return resp, err
	}

	if c.cacheEnabled && c.cache != nil && resp.StatusCode == http.StatusOK {
		_ = c.saveToCache(ctx, url, resp)
	}

	return resp, nil
}

// doRequest performs the actual HTTP request
func (c *Client) doRequest(ctx context.Context, targetURL string, extraHeaders map[string]string) (*domain.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	if c.authHeader != "" {
		req.Header.Set("Authorization", c.authHeader)
	}
	if c.useBasicAuth {
		req.SetBasicAuth(c.basicUser, c.basicPass)
	}
	for k, v := range extraHeaders {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, domain.NewFetchError(targetURL, 0, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	result := &domain.Response{
		StatusCode:  resp.StatusCode,
		Body:        body,
		Headers:     resp.Header,
		ContentType: resp.Header.Get("Content-Type"),
		URL:         targetURL,
		FromCache:   false,
	}

	if resp.StatusCode >= 400 {
		return result, domain.NewFetchError(targetURL, resp.StatusCode, fmt.Errorf("HTTP %d", resp.StatusCode))
	}

	return result, nil
}

// Close releases client resources
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// getFromCache retrieves a response from cache
func (c *Client) getFromCache(ctx context.Context, url string) (*domain.Response, error) {
	data, err := c.cache.Get(ctx, url)
	if err != nil {
		return nil, err
	}

	return &domain.Response{
		StatusCode: http.StatusOK,
		Body:       data,
		URL:        url,
		FromCache:  true,
	}, nil
}

// saveToCache saves a response body to cache
func (c *Client) saveToCache(ctx context.Context, url string, resp *domain.Response) error {
	return c.cache.Set(ctx, url, resp.Body, c.cacheTTL)
}

// SetCache sets the cache implementation
func (c *Client) SetCache(cache domain.Cache) {
	c.cache = cache
}

// SetCacheEnabled enables or disables caching
func (c *Client) SetCacheEnabled(enabled bool) {
	c.cacheEnabled = enabled
}
