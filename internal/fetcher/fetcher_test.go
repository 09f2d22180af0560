package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/remd-cli/remd/internal/cache"
	"github.com/remd-cli/remd/internal/domain"
)

func TestDefaultClientOptions(t *testing.T) {
	opts := DefaultClientOptions()

	assert.Equal(t, 30*time.Second, opts.Timeout)
	assert.Equal(t, "remd/1.0", opts.UserAgent)
	assert.True(t, opts.EnableCache)
	assert.Equal(t, 24*time.Hour, opts.CacheTTL)
}

func newTestClient(t *testing.T, opts ClientOptions) *Client {
	t.Helper()
	c := NewClient(opts)
	t.Cleanup(func() {
		_ = c.Close()
	})
	return c
}

func TestClient_Get(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "TestAgent/1.0", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/plain")
		fmt.Fprint(w, "hello")
	}))
	defer server.Close()

	c := newTestClient(t, ClientOptions{UserAgent: "TestAgent/1.0", EnableCache: false})

	resp, err := c.Get(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []byte("hello"), resp.Body)
	assert.Equal(t, "text/plain", resp.ContentType)
	assert.False(t, resp.FromCache)
}

func TestClient_GetErrorStatusReturnsResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-RateLimit-Remaining", "0")
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, "nope")
	}))
	defer server.Close()

	c := newTestClient(t, ClientOptions{EnableCache: false})

	resp, err := c.Get(context.Background(), server.URL)
	require.Error(t, err)

	var fetchErr *domain.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, http.StatusForbidden, fetchErr.StatusCode)

	// Headers stay inspectable despite the error
	require.NotNil(t, resp)
	assert.Equal(t, "0", resp.Headers.Get("X-RateLimit-Remaining"))
}

func TestClient_GetWithHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/octet-stream", r.Header.Get("Accept"))
		fmt.Fprint(w, "ok")
	}))
	defer server.Close()

	c := newTestClient(t, ClientOptions{EnableCache: false})

	_, err := c.GetWithHeaders(context.Background(), server.URL, map[string]string{
		"Accept": "application/octet-stream",
	})
	require.NoError(t, err)
}

func TestClient_BearerToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok123", r.Header.Get("Authorization"))
		fmt.Fprint(w, "ok")
	}))
	defer server.Close()

	c := newTestClient(t, ClientOptions{BearerToken: "tok123", EnableCache: false})

	_, err := c.Get(context.Background(), server.URL)
	require.NoError(t, err)
}

func TestClient_BasicAuthEmptyUsername(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Empty(t, user)
		assert.Equal(t, "pat456", pass)
		fmt.Fprint(w, "ok")
	}))
	defer server.Close()

	c := newTestClient(t, ClientOptions{BasicAuthPassword: "pat456", EnableCache: false})

	_, err := c.Get(context.Background(), server.URL)
	require.NoError(t, err)
}

func TestClient_CachesSuccessfulResponses(t *testing.T) {
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		fmt.Fprint(w, "cached body")
	}))
	defer server.Close()

	cacheOpts := cache.DefaultOptions()
	cacheOpts.InMemory = true
	responseCache, err := cache.NewBadgerCache(cacheOpts)
	require.NoError(t, err)
	defer responseCache.Close()

	opts := DefaultClientOptions()
	opts.Cache = responseCache
	c := newTestClient(t, opts)

	first, err := c.Get(context.Background(), server.URL)
	require.NoError(t, err)
	assert.False(t, first.FromCache)

	second, err := c.Get(context.Background(), server.URL)
	require.NoError(t, err)
	assert.True(t, second.FromCache)
	assert.Equal(t, []byte("cached body"), second.Body)

	assert.Equal(t, 1, hits)
}

func TestClient_DoesNotCacheErrors(t *testing.T) {
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	cacheOpts := cache.DefaultOptions()
	cacheOpts.InMemory = true
	responseCache, err := cache.NewBadgerCache(cacheOpts)
	require.NoError(t, err)
	defer responseCache.Close()

	opts := DefaultClientOptions()
	opts.Cache = responseCache
	c := newTestClient(t, opts)

	_, err = c.Get(context.Background(), server.URL)
	require.Error(t, err)

	_, err = c.Get(context.Background(), server.URL)
	require.Error(t, err)

	assert.Equal(t, 2, hits)
}

func TestRetrier_RetriesTransientErrors(t *testing.T) {
	r := NewRetrier(RetrierOptions{
		MaxRetries:      1,
		InitialInterval: time.Millisecond,
		MaxInterval:     2 * time.Millisecond,
		Multiplier:      1.0,
	})

	attempts := 0
	err := r.Retry(context.Background(), func() error {
		attempts++
		if attempts == 1 {
			return errors.New("transient")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
}

func TestRetrier_StopsAfterMaxRetries(t *testing.T) {
	r := NewRetrier(RetrierOptions{
		MaxRetries:      1,
		InitialInterval: time.Millisecond,
		MaxInterval:     2 * time.Millisecond,
		Multiplier:      1.0,
	})

	attempts := 0
	err := r.Retry(context.Background(), func() error {
		attempts++
		return errors.New("always fails")
	})

	require.Error(t, err)
	assert.Equal(t, 2, attempts, "one attempt plus one retry")
}

func TestRetrier_RateLimitIsPermanent(t *testing.T) {
	r := NewRetrier(DefaultRetrierOptions())

	attempts := 0
	err := r.Retry(context.Background(), func() error {
		attempts++
		return &domain.RateLimitError{ResetAt: time.Now().Add(time.Hour)}
	})

	require.Error(t, err)
	assert.True(t, domain.IsRateLimit(err))
	assert.Equal(t, 1, attempts)
}

func TestRetryWithValue_ReturnsLastOperationError(t *testing.T) {
	r := NewRetrier(RetrierOptions{
		MaxRetries:      1,
		InitialInterval: time.Millisecond,
		MaxInterval:     2 * time.Millisecond,
		Multiplier:      1.0,
	})

	sentinel := errors.New("second failure")
	attempts := 0
	_, err := RetryWithValue(context.Background(), r, func() (string, error) {
		attempts++
		if attempts == 1 {
			return "", errors.New("first failure")
		}
		return "", sentinel
	})

	assert.ErrorIs(t, err, sentinel)
}

func TestRetryWithValue_Success(t *testing.T) {
	r := NewRetrier(RetrierOptions{
		MaxRetries:      1,
		InitialInterval: time.Millisecond,
		MaxInterval:     2 * time.Millisecond,
		Multiplier:      1.0,
	})

	attempts := 0
	got, err := RetryWithValue(context.Background(), r, func() (string, error) {
		attempts++
		if attempts == 1 {
			return "", errors.New("transient")
		}
		return "value", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "value", got)
}
