package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseSize(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}{
		{"bytes", "1024", 1024, false},
		{"kilobytes", "500KB", 500 * 1024, false},
		{"megabytes", "2MB", 2 * 1024 * 1024, false},
		{"gigabytes", "1GB", 1024 * 1024 * 1024, false},
		{"lowercase", "10mb", 10 * 1024 * 1024, false},
		{"spaces", " 5 KB ", 5 * 1024, false},
		{"empty", "", 0, true},
		{"unit only", "MB", 0, true},
		{"not a number", "abcMB", 0, true},
		{"negative", "-1KB", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSize(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidate_AppliesFallbacks(t *testing.T) {
	cfg := &Config{}

	require.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultFetchTimeout, cfg.Fetch.Timeout)
	assert.Equal(t, DefaultCacheTTL, cfg.Cache.TTL)
}

func TestValidate_RejectsBadMaxFileSize(t *testing.T) {
	cfg := Default()
	cfg.Fetch.MaxFileSize = "lots"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_file_size")
}

func TestMaxFileSizeBytes(t *testing.T) {
	cfg := Default()
	assert.Equal(t, int64(0), cfg.MaxFileSizeBytes())

	cfg.Fetch.MaxFileSize = "500KB"
	assert.Equal(t, int64(500*1024), cfg.MaxFileSizeBytes())
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, DefaultOutputDir, cfg.Output.Directory)
	assert.Equal(t, 24*time.Hour, cfg.Cache.TTL)
	assert.True(t, cfg.Cache.Enabled)
	assert.Empty(t, cfg.Filter.Patterns)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	require.NoError(t, WriteDefaultConfig(path, false))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var cfg Config
	require.NoError(t, yaml.Unmarshal(data, &cfg))
	assert.Equal(t, DefaultUserAgent, cfg.Fetch.UserAgent)

	// Second write without overwrite must fail
	err = WriteDefaultConfig(path, false)
	assert.ErrorIs(t, err, os.ErrExist)

	require.NoError(t, WriteDefaultConfig(path, true))
}
