// Package app wires the URL parser, providers, filter, and renderer into
// the repository-to-Markdown conversion pipeline.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/remd-cli/remd/internal/cache"
	"github.com/remd-cli/remd/internal/config"
	"github.com/remd-cli/remd/internal/domain"
	"github.com/remd-cli/remd/internal/fetcher"
	"github.com/remd-cli/remd/internal/filter"
	"github.com/remd-cli/remd/internal/provider"
	"github.com/remd-cli/remd/internal/renderer"
	"github.com/remd-cli/remd/internal/utils"
)

// ProviderFactory builds a Provider for parsed repository info
type ProviderFactory func(info domain.RepoInfo) (domain.Provider, error)

// Converter runs the full conversion pipeline for one repository URL
type Converter struct {
	config          *config.Config
	logger          *utils.Logger
	cache           domain.Cache
	providerFactory ProviderFactory
}

// ConverterOptions contains options for creating a Converter
type ConverterOptions struct {
	Config *config.Config
	Logger *utils.Logger

	// ProviderFactory overrides provider construction, used in tests
	ProviderFactory ProviderFactory
}

// Result holds the outcome of a conversion run
type Result struct {
	Info        domain.RepoInfo
	Document    string
	Progress    domain.FetchProgress
	TotalListed int
	Filtered    int
	Duration    time.Duration
}

// NewConverter creates a new Converter
func NewConverter(opts ConverterOptions) (*Converter, error) {
	cfg := opts.Config
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = utils.NewLogger(utils.LoggerOptions{
			Level:  cfg.Logging.Level,
			Format: cfg.Logging.Format,
		})
	}

	c := &Converter{
		config: cfg,
		logger: logger.WithComponent("converter"),
	}

	if cfg.Cache.Enabled {
		cacheOpts := cache.DefaultOptions()
		cacheOpts.Directory = utils.ExpandPath(cfg.Cache.Directory)

		responseCache, err := cache.NewBadgerCache(cacheOpts)
		if err != nil {
			// A broken cache degrades to uncached fetching
			logger.Warn().Err(err).Msg("Failed to open response cache, continuing without it")
		} else {
			c.cache = responseCache
		}
	}

	c.providerFactory = opts.ProviderFactory
	if c.providerFactory == nil {
		c.providerFactory = c.newProvider
	}

	return c, nil
}

// Convert runs the pipeline: parse, list, filter, fetch, render.
// fn observes per-file fetch progress and may be nil.
func (c *Converter) Convert(ctx context.Context, rawURL string, fn domain.ProgressFunc) (*Result, error) {
	startTime := time.Now()

	info, err := provider.ParseRepoURL(rawURL)
	if err != nil {
		return nil, err
	}

	log := c.logger.WithRepo(info.DisplayName())
	log.Info().
		Str("provider", string(info.Provider)).
		Msg("Starting conversion")

	prov, err := c.providerFactory(info)
	if err != nil {
		return nil, err
	}

	info, err = prov.ResolveBranch(ctx, info)
	if err != nil {
		return nil, err
	}

	files, err := prov.ListFiles(ctx, info)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, domain.ErrNoFiles
	}

	totalListed := len(files)
	files = c.applyPatternFilter(files)
	if len(files) == 0 {
		return nil, domain.ErrNoFilesMatched
	}

	binaryCount := 0
	for _, f := range files {
		if f.IsBinary {
			binaryCount++
		}
	}

	log.Info().
		Int("listed", totalListed).
		Int("selected", len(files)).
		Int("text", len(files)-binaryCount).
		Int("binary", binaryCount).
		Int("excluded", totalListed-len(files)).
		Str("branch", info.Branch).
		Msg("Fetching file contents")

	progress, err := prov.FetchAllFiles(ctx, info, files, c.config.MaxFileSizeBytes(), fn)
	if err != nil {
		return nil, err
	}

	document := renderer.Render(info.DisplayName(), files)

	result := &Result{
		Info:        info,
		Document:    document,
		Progress:    progress,
		TotalListed: totalListed,
		Filtered:    len(files),
		Duration:    time.Since(startTime),
	}

	log.Info().
		Int("files", progress.FetchedFiles).
		Int("skipped", progress.SkippedBinary).
		Int("errors", len(progress.Errors)).
		Dur("duration", result.Duration).
		Msg("Conversion complete")

	return result, nil
}

// applyPatternFilter narrows the file list to paths matching any of the
// configured regex patterns. No patterns means everything passes.
func (c *Converter) applyPatternFilter(files []*domain.FileEntry) []*domain.FileEntry {
	compiled := filter.CompilePatterns(c.config.Filter.Patterns)
	if len(compiled) == 0 {
		return files
	}

	selected := make([]*domain.FileEntry, 0, len(files))
	for _, f := range files {
		if filter.MatchesAnyPattern(f.Path, compiled) {
			selected = append(selected, f)
		}
	}
	return selected
}

// newProvider builds the real provider for info, sharing the response
// cache across transports.
func (c *Converter) newProvider(info domain.RepoInfo) (domain.Provider, error) {
	clientOpts := fetcher.DefaultClientOptions()
	clientOpts.Timeout = c.config.Fetch.Timeout
	clientOpts.UserAgent = c.config.Fetch.UserAgent
	clientOpts.EnableCache = c.cache != nil
	clientOpts.CacheTTL = c.config.Cache.TTL
	clientOpts.Cache = c.cache

	switch info.Provider {
	case domain.ProviderGitHub:
		clientOpts.BearerToken = c.config.Auth.GitHubToken
		p, err := provider.NewGitHubProvider(provider.GitHubOptions{
			Token:   c.config.Auth.GitHubToken,
			Fetcher: fetcher.NewClient(clientOpts),
			Logger:  c.logger,
		})
		if err != nil {
			return nil, err
		}
		return p, nil
	case domain.ProviderAzureDevOps:
		clientOpts.BasicAuthPassword = c.config.Auth.AzureDevOps
		return provider.NewAzureDevOpsProvider(provider.AzureDevOpsOptions{
			Fetcher: fetcher.NewClient(clientOpts),
			Logger:  c.logger,
		}), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", info.Provider)
	}
}

// Close releases the converter's resources
func (c *Converter) Close() error {
	if c.cache != nil {
		return c.cache.Close()
	}
	return nil
}
