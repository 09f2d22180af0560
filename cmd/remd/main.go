package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/remd-cli/remd/internal/app"
	"github.com/remd-cli/remd/internal/config"
	"github.com/remd-cli/remd/internal/domain"
	"github.com/remd-cli/remd/internal/filter"
	"github.com/remd-cli/remd/internal/output"
	"github.com/remd-cli/remd/internal/utils"
	"github.com/remd-cli/remd/pkg/version"
)

var (
	cfgFile string
	verbose bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "remd [url]",
	Short: "Convert a remote Git repository into a single Markdown document",
	Long: `remd fetches a GitHub or Azure DevOps repository over its REST API and
writes one Markdown document containing the file tree and the contents of
every text file.

Examples:
  remd https://github.com/owner/repo
  remd https://github.com/owner/repo/tree/develop --filter '\.go$,\.md$'
  remd https://dev.azure.com/org/project/_git/repo --azdo-pat <pat>`,
	Version: version.Short(),
	Args:    cobra.MaximumNArgs(1),
	RunE:    run,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.remd/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	rootCmd.Flags().StringP("output", "o", ".", "Output directory")
	rootCmd.Flags().Bool("stdout", false, "Write the document to stdout instead of a file")
	rootCmd.Flags().Bool("force", false, "Overwrite an existing output file")
	rootCmd.Flags().Bool("dry-run", false, "Run the conversion without writing the output file")

	rootCmd.Flags().String("filter", "", "Comma-separated regex patterns; only matching paths are included")
	rootCmd.Flags().String("max-file-size", "", "Skip files larger than this (e.g. 500KB, 2MB; empty = unlimited)")
	rootCmd.Flags().Duration("timeout", 30*time.Second, "Per-request timeout")

	rootCmd.Flags().Bool("no-cache", false, "Disable response caching")
	rootCmd.Flags().Duration("cache-ttl", 24*time.Hour, "Cache TTL")

	rootCmd.Flags().String("github-token", "", "GitHub personal access token (or REMD_GITHUB_TOKEN)")
	rootCmd.Flags().String("azdo-pat", "", "Azure DevOps personal access token (or REMD_AZDO_PAT)")

	_ = viper.BindPFlag("output.directory", rootCmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("output.stdout", rootCmd.Flags().Lookup("stdout"))
	_ = viper.BindPFlag("output.overwrite", rootCmd.Flags().Lookup("force"))
	_ = viper.BindPFlag("fetch.max_file_size", rootCmd.Flags().Lookup("max-file-size"))
	_ = viper.BindPFlag("fetch.timeout", rootCmd.Flags().Lookup("timeout"))
	_ = viper.BindPFlag("cache.ttl", rootCmd.Flags().Lookup("cache-ttl"))
	_ = viper.BindPFlag("auth.github_token", rootCmd.Flags().Lookup("github-token"))
	_ = viper.BindPFlag("auth.azdo_pat", rootCmd.Flags().Lookup("azdo-pat"))

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
}

func run(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return cmd.Help()
	}
	url := args[0]

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if noCache, _ := cmd.Flags().GetBool("no-cache"); noCache {
		cfg.Cache.Enabled = false
	}

	if raw, _ := cmd.Flags().GetString("filter"); raw != "" {
		patterns := filter.ParsePatternInput(raw)
		for _, msg := range filter.ValidatePatterns(patterns) {
			fmt.Fprintf(os.Stderr, "warning: skipping invalid pattern %s\n", msg)
		}
		cfg.Filter.Patterns = patterns
	}

	logLevel := cfg.Logging.Level
	if verbose {
		logLevel = "debug"
	}
	log := utils.NewLogger(utils.LoggerOptions{
		Level:   logLevel,
		Format:  cfg.Logging.Format,
		Verbose: verbose,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Info().Msg("Shutting down gracefully...")
		cancel()
	}()

	converter, err := app.NewConverter(app.ConverterOptions{
		Config: cfg,
		Logger: log,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer converter.Close()

	var bar *progressbar.ProgressBar
	progressFn := func(p domain.FetchProgress) {
		if bar == nil {
			bar = utils.NewProgressBar(p.TotalFiles, utils.DescFetching)
		}
		_ = bar.Set(p.FetchedFiles)
	}

	result, err := converter.Convert(ctx, url, progressFn)
	if bar != nil {
		_ = bar.Finish()
		fmt.Fprintln(os.Stderr)
	}
	if err != nil {
		var rateErr *domain.RateLimitError
		if errors.As(err, &rateErr) {
			fmt.Fprintln(os.Stderr, "Hint: pass --github-token to raise the API quota.")
		}
		return err
	}

	if stdout, _ := cmd.Flags().GetBool("stdout"); stdout || cfg.Output.Stdout {
		fmt.Print(result.Document)
	} else {
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		writer := output.NewWriter(output.WriterOptions{
			BaseDir: cfg.Output.Directory,
			Force:   cfg.Output.Overwrite,
			DryRun:  dryRun,
		})

		path, err := writer.Write(result.Info, result.Document)
		if err != nil {
			return err
		}

		if dryRun {
			fmt.Fprintf(os.Stderr, "Dry run: would write %s\n", path)
		} else {
			fmt.Fprintf(os.Stderr, "Wrote %s\n", path)
		}
	}

	printSummary(result)
	return nil
}

// printSummary reports counts and any per-file fetch failures after the
// document has been produced.
func printSummary(result *app.Result) {
	p := result.Progress
	fmt.Fprintf(os.Stderr, "%s: %d files fetched, %d skipped, %d failed (%.1fs)\n",
		result.Info.DisplayName(),
		p.Succeeded(),
		p.SkippedBinary,
		len(p.Errors),
		result.Duration.Seconds())

	if len(p.Errors) > 0 {
		fmt.Fprintln(os.Stderr, "Some files could not be fetched:")
		for _, e := range p.Errors {
			fmt.Fprintf(os.Stderr, "  %s\n", e)
		}
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.Full())
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file to ~/.remd/config.yaml",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.EnsureConfigDir(); err != nil {
			return err
		}

		force, _ := cmd.Flags().GetBool("force")
		path := config.ConfigFilePath()

		if err := config.WriteDefaultConfig(path, force); err != nil {
			if errors.Is(err, os.ErrExist) {
				return fmt.Errorf("config file already exists: %s (use --force to overwrite)", path)
			}
			return err
		}

		fmt.Printf("Wrote %s\n", path)
		return nil
	},
}

func init() {
	configInitCmd.Flags().Bool("force", false, "Overwrite an existing config file")
	configCmd.AddCommand(configInitCmd)
}
