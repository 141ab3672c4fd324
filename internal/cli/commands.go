package cli

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/pfrederiksen/movewise/internal/analysis"
	"github.com/pfrederiksen/movewise/internal/config"
	"github.com/pfrederiksen/movewise/internal/dashboard"
	"github.com/pfrederiksen/movewise/internal/logger"
	"github.com/pfrederiksen/movewise/internal/merge"
	"github.com/pfrederiksen/movewise/internal/sqlstore"
	"github.com/spf13/cobra"
)

func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().String("rent-url", "", "Rent table URL")
	cmd.Flags().String("cost-url", "", "Cost-of-living table URL")
}

func newPipeline() (*merge.Pipeline, error) {
	store, err := openStore()
	if err != nil {
		return nil, err
	}
	return &merge.Pipeline{
		Store:    store,
		Fetcher:  newScraper(),
		WageFile: cfg.WageFile,
		Output:   cfg.MergedFile,
	}, nil
}

func newScrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Fetch the rent and cost-of-living tables into the data directory",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := newPipeline()
			if err != nil {
				return err
			}
			if err := p.Scrape(cmd.Context()); err != nil {
				return fmt.Errorf("scraping: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Scraped tables into %s\n", p.Store.Dir())
			return nil
		},
	}
	addSourceFlags(cmd)
	return cmd
}

func newMergeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merge",
		Short: "Merge the scraped tables with the wage dataset",
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := outputFormat()
			if err != nil {
				return err
			}
			p, err := newPipeline()
			if err != nil {
				return err
			}
			res, err := p.Run(cmd.Context(), true)
			if err != nil {
				return err
			}
			return WriteOutput(cmd.OutOrStdout(), &BuildOutput{Result: res}, format, flagVerbose)
		},
	}
	cmd.Flags().String("wage-file", "", "Employment and wage CSV in the data directory")
	return cmd
}

func newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Scrape both tables and write the merged table",
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := outputFormat()
			if err != nil {
				return err
			}
			p, err := newPipeline()
			if err != nil {
				return err
			}
			res, err := p.Run(cmd.Context(), cfg.Offline)
			if err != nil {
				return err
			}
			out := &BuildOutput{Result: res}
			if flagVerbose {
				out.Metrics = logger.GetMetricsSnapshot()
			}
			return WriteOutput(cmd.OutOrStdout(), out, format, flagVerbose)
		},
	}
	addSourceFlags(cmd)
	cmd.Flags().String("wage-file", "", "Employment and wage CSV in the data directory")
	cmd.Flags().Bool("offline", false, "Reuse scraped tables already in the data directory")
	return cmd
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			var src dashboard.Source = dashboard.CSVSource{Store: store, Name: cfg.MergedFile}
			if cfg.Source == config.SourceSQLite {
				src = dashboard.SQLiteSource{Path: cfg.SQLitePath}
			}

			boundaries, err := store.ReadFile(cfg.GeoJSONFile)
			if err != nil {
				logger.Warn("State boundaries unavailable, map disabled", logger.Fields{
					"file":  store.Path(cfg.GeoJSONFile),
					"error": err.Error(),
				})
			}

			srv, err := dashboard.New(dashboard.Config{
				Source:     dashboard.NewCachedSource(src, cfg.CacheTTL),
				Boundaries: boundaries,
				Addr:       cfg.Addr,
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.Serve(ctx)
		},
	}
	cmd.Flags().String("addr", "", "Listen address (default "+config.DefaultAddr+")")
	cmd.Flags().Duration("cache-ttl", 0, "How long a loaded table is served before reloading (default "+config.DefaultCacheTTL+")")
	return cmd
}

func newSummaryCmd() *cobra.Command {
	var (
		state    string
		industry string
		sortBy   string
	)
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show facts and ranked job figures for a state, or rank every state",
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := outputFormat()
			if err != nil {
				return err
			}
			order := SortOrder(sortBy)
			if !order.Valid() {
				return fmt.Errorf("invalid sort: %s", sortBy)
			}
			t, err := loadRecords(cmd.Context())
			if err != nil {
				return err
			}
			industries := analysis.Industries(t)
			if industry != "" && !slices.Contains(industries, industry) {
				return fmt.Errorf("invalid industry: %s (want one of %s)", industry, strings.Join(industries, ", "))
			}
			industry = analysis.DefaultIndustry(industries, industry)

			if state == "" {
				return WriteOutput(cmd.OutOrStdout(), NewRanking(t, industry, order), format, flagVerbose)
			}

			out, err := NewSummary(t, state, industry)
			if err != nil {
				return err
			}
			return WriteOutput(cmd.OutOrStdout(), out, format, flagVerbose)
		},
	}
	cmd.Flags().StringVar(&state, "state", "", "State name or postal code (empty lists every state)")
	cmd.Flags().StringVar(&industry, "industry", "", "Industry: Management, Business or CS")
	cmd.Flags().StringVar(&sortBy, "sort", string(SortByState), "Ranking order: state, index, rent, wage or employment")
	return cmd
}

func newCompareCmd() *cobra.Command {
	var from, to, industry string
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Show what changes when moving from one state to another",
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := outputFormat()
			if err != nil {
				return err
			}
			t, err := loadRecords(cmd.Context())
			if err != nil {
				return err
			}
			out := &CompareOutput{Comparison: analysis.Compare(t, canonical(from), canonical(to), industry)}
			return WriteOutput(cmd.OutOrStdout(), out, format, flagVerbose)
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "Current state")
	cmd.Flags().StringVar(&to, "to", "", "State to move to")
	cmd.Flags().StringVar(&industry, "industry", "", "Industry: Management, Business or CS")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("industry")
	return cmd
}

func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Write the merged table to a SQLite database",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cfg.SQLitePath == "" {
				return errors.New("--sqlite-path is required")
			}
			store, err := openStore()
			if err != nil {
				return err
			}
			t, err := store.LoadStateRecords(cfg.MergedFile)
			if err != nil {
				return err
			}

			start := time.Now()
			if err := sqlstore.Export(cmd.Context(), cfg.SQLitePath, t); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d rows to %s (%s)\n", len(t), cfg.SQLitePath, time.Since(start).Round(time.Millisecond))
			return nil
		},
	}
}
