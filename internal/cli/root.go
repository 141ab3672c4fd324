package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pfrederiksen/movewise/internal/config"
	"github.com/pfrederiksen/movewise/internal/logger"
	"github.com/pfrederiksen/movewise/internal/record"
	"github.com/pfrederiksen/movewise/internal/scraper"
	"github.com/pfrederiksen/movewise/internal/sqlstore"
	"github.com/pfrederiksen/movewise/internal/storage"
	"github.com/spf13/cobra"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

var (
	flagConfig  string
	flagFormat  string
	flagVerbose bool
	flagEnvFile string

	cfg *config.Config
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "movewise",
		Short: "Everything you need to know before relocating for jobs",
		Long: `MoveWise scrapes rent and cost-of-living tables, merges them with
employment and wage statistics per state and industry, and serves a
dashboard for comparing states before a move.`,
		PersistentPreRunE: setup,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "Config file (default: ./movewise.yaml)")
	pf.StringVar(&flagEnvFile, "env-file", ".env", "Dotenv file loaded before reading MOVEWISE_* variables")
	pf.String("data-dir", config.DefaultDataDir, "Data directory for CSV tables")
	pf.String("log-level", config.DefaultLogLevel, "Log level: debug, info, warn or error")
	pf.String("source", config.SourceCSV, "Table source for reads: csv or sqlite")
	pf.String("sqlite-path", "", "SQLite database path")
	pf.StringVar(&flagFormat, "format", "text", "Output format: text or json")
	pf.BoolVar(&flagVerbose, "verbose", false, "Enable verbose logging")

	cmd.AddCommand(
		newScrapeCmd(),
		newMergeCmd(),
		newBuildCmd(),
		newServeCmd(),
		newSummaryCmd(),
		newCompareCmd(),
		newExportCmd(),
	)
	return cmd
}

// setup loads configuration and installs the logger before any subcommand runs.
func setup(cmd *cobra.Command, _ []string) error {
	if err := config.LoadDotEnv(flagEnvFile); err != nil {
		return err
	}

	var err error
	cfg, err = config.Load(flagConfig, cmd.Flags())
	if err != nil {
		return err
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	if flagVerbose {
		level = logger.LevelDebug
	}
	logger.SetDefault(logger.New(level, cmd.ErrOrStderr()))

	logger.Debug("Loaded configuration", logger.Fields{
		"data_dir": cfg.DataDir,
		"source":   cfg.Source,
		"config":   flagConfig,
	})
	return nil
}

func outputFormat() (OutputFormat, error) {
	format := OutputFormat(strings.ToLower(flagFormat))
	if format != FormatText && format != FormatJSON {
		return "", fmt.Errorf("invalid format: %s (must be 'text' or 'json')", flagFormat)
	}
	return format, nil
}

func openStore() (*storage.Storage, error) {
	store, err := storage.New(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("initializing storage: %w", err)
	}
	return store, nil
}

func newScraper() *scraper.Scraper {
	return scraper.New(scraper.WithRentURL(cfg.RentURL), scraper.WithCostURL(cfg.CostURL))
}

// loadRecords reads the merged table from the configured source.
func loadRecords(ctx context.Context) ([]record.StateRecord, error) {
	if cfg.Source == config.SourceSQLite {
		return sqlstore.Load(ctx, cfg.SQLitePath)
	}
	store, err := openStore()
	if err != nil {
		return nil, err
	}
	return store.LoadStateRecords(cfg.MergedFile)
}

// Execute runs the CLI
func Execute() {
	defer logger.Sync()
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		logger.Sync()
		os.Exit(ExitError)
	}
}
