package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Config represents the application configuration
type Config struct {
	Output  OutputConfig  `mapstructure:"output" yaml:"output"`
	Fetch   FetchConfig   `mapstructure:"fetch" yaml:"fetch"`
	Cache   CacheConfig   `mapstructure:"cache" yaml:"cache"`
	Filter  FilterConfig  `mapstructure:"filter" yaml:"filter"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
	Auth    AuthConfig    `mapstructure:"auth" yaml:"auth"`
}

// OutputConfig contains output-related settings
type OutputConfig struct {
	Directory string `mapstructure:"directory" yaml:"directory"`
	Overwrite bool   `mapstructure:"overwrite" yaml:"overwrite"`
	Stdout    bool   `mapstructure:"stdout" yaml:"stdout"`
}

// FetchConfig contains settings for remote file retrieval
type FetchConfig struct {
	Timeout     time.Duration `mapstructure:"timeout" yaml:"timeout"`
	MaxFileSize string        `mapstructure:"max_file_size" yaml:"max_file_size"`
	UserAgent   string        `mapstructure:"user_agent" yaml:"user_agent"`
}

// CacheConfig contains cache settings
type CacheConfig struct {
	Enabled   bool          `mapstructure:"enabled" yaml:"enabled"`
	TTL       time.Duration `mapstructure:"ttl" yaml:"ttl"`
	Directory string        `mapstructure:"directory" yaml:"directory"`
}

// FilterConfig contains file selection settings
type FilterConfig struct {
	Patterns []string `mapstructure:"patterns" yaml:"patterns"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// AuthConfig contains access tokens for the supported hosting services
type AuthConfig struct {
	GitHubToken string `mapstructure:"github_token" yaml:"github_token"`
	AzureDevOps string `mapstructure:"azdo_pat" yaml:"azdo_pat"`
}

// Validate validates the configuration and applies fallbacks for
// out-of-range values
func (c *Config) Validate() error {
	if c.Fetch.Timeout < time.Second {
		c.Fetch.Timeout = DefaultFetchTimeout
	}
	if c.Cache.TTL < time.Minute {
		c.Cache.TTL = DefaultCacheTTL
	}
	if c.Fetch.MaxFileSize != "" {
		if _, err := ParseSize(c.Fetch.MaxFileSize); err != nil {
			return fmt.Errorf("invalid fetch.max_file_size: %w", err)
		}
	}
	return nil
}

// MaxFileSizeBytes returns the configured per-file size limit in bytes.
// Zero means no limit.
func (c *Config) MaxFileSizeBytes() int64 {
	if c.Fetch.MaxFileSize == "" {
		return 0
	}
	n, err := ParseSize(c.Fetch.MaxFileSize)
	if err != nil {
		return 0
	}
	return n
}

// ParseSize parses a human-readable size string like "500KB" or "2MB"
// into a byte count. A bare number is interpreted as bytes.
func ParseSize(s string) (int64, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return 0, fmt.Errorf("empty size string")
	}

	var multiplier int64 = 1
	if strings.HasSuffix(s, "GB") {
		multiplier = 1024 * 1024 * 1024
		s = strings.TrimSuffix(s, "GB")
	} else if strings.HasSuffix(s, "MB") {
		multiplier = 1024 * 1024
		s = strings.TrimSuffix(s, "MB")
	} else if strings.HasSuffix(s, "KB") {
		multiplier = 1024
		s = strings.TrimSuffix(s, "KB")
	}

	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("no numeric value in size string")
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid numeric value: %w", err)
	}

	if n < 0 {
		return 0, fmt.Errorf("negative size not allowed")
	}

	return n * multiplier, nil
}
