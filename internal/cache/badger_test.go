package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/remd-cli/remd/internal/domain"
)

func newTestCache(t *testing.T) *BadgerCache {
	t.Helper()

	opts := DefaultOptions()
	opts.InMemory = true

	c, err := NewBadgerCache(opts)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = c.Close()
	})
	return c
}

func TestBadgerCache_SetGet(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	url := "https://api.github.com/repos/octocat/hello-world"
	err := c.Set(ctx, url, []byte("response body"), time.Hour)
	require.NoError(t, err)

	got, err := c.Get(ctx, url)
	require.NoError(t, err)
	assert.Equal(t, []byte("response body"), got)
}

func TestBadgerCache_GetMiss(t *testing.T) {
	c := newTestCache(t)

	_, err := c.Get(context.Background(), "https://example.com/missing")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestBadgerCache_Has(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	assert.False(t, c.Has(ctx, "https://example.com/a"))

	require.NoError(t, c.Set(ctx, "https://example.com/a", []byte("x"), time.Hour))
	assert.True(t, c.Has(ctx, "https://example.com/a"))
}

func TestBadgerCache_Delete(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "https://example.com/a", []byte("x"), time.Hour))
	require.NoError(t, c.Delete(ctx, "https://example.com/a"))

	_, err := c.Get(ctx, "https://example.com/a")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestBadgerCache_Clear(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "https://example.com/a", []byte("1"), time.Hour))
	require.NoError(t, c.Set(ctx, "https://example.com/b", []byte("2"), time.Hour))
	require.Equal(t, int64(2), c.Size())

	require.NoError(t, c.Clear())
	assert.Equal(t, int64(0), c.Size())
}

func TestGenerateKey(t *testing.T) {
	a := GenerateKey("https://example.com/a")
	b := GenerateKey("https://example.com/b")

	assert.NotEqual(t, a, b)
	assert.Len(t, a, 64)
	assert.Equal(t, a, GenerateKey("https://example.com/a"))
}

func TestGenerateKeyWithPrefix(t *testing.T) {
	key := GenerateKeyWithPrefix("github", "https://example.com/a")
	assert.Equal(t, "github:"+GenerateKey("https://example.com/a"), key)
}
