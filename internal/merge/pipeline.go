package merge

import (
	"context"
	"fmt"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/pfrederiksen/movewise/internal/logger"
	"github.com/pfrederiksen/movewise/internal/record"
	"github.com/pfrederiksen/movewise/internal/scraper"
	"github.com/pfrederiksen/movewise/internal/storage"
)

// Fetcher is the scraping side of the pipeline.
type Fetcher interface {
	FetchRent(ctx context.Context) ([]record.RentRow, error)
	FetchCostOfLiving(ctx context.Context) (*scraper.CostTable, error)
}

// Pipeline scrapes both sources, persists the intermediates and writes the
// merged table.
type Pipeline struct {
	Store    *storage.Storage
	Fetcher  Fetcher
	WageFile string
	Output   string
}

// Result summarises a merge run.
type Result struct {
	Path      string   `json:"path"`
	Rows      int      `json:"rows"`
	States    int      `json:"states"`
	Dropped   []string `json:"dropped,omitempty"`
	Filled    int      `json:"filled_home_prices"`
	Duration  string   `json:"duration"`
	Scraped   bool     `json:"scraped"`
	Generated string   `json:"generated_at"`
}

func (p *Pipeline) wageFile() string {
	if p.WageFile != "" {
		return p.WageFile
	}
	return storage.WageFile
}

func (p *Pipeline) output() string {
	if p.Output != "" {
		return p.Output
	}
	return storage.MergedFile
}

// Scrape fetches both web tables and writes rental_data.csv and cost_of_living.csv.
func (p *Pipeline) Scrape(ctx context.Context) error {
	if p.Fetcher == nil {
		return fmt.Errorf("no fetcher configured")
	}

	rent, err := p.Fetcher.FetchRent(ctx)
	if err != nil {
		return err
	}
	if err := p.Store.SaveRent(rent); err != nil {
		return err
	}

	cost, err := p.Fetcher.FetchCostOfLiving(ctx)
	if err != nil {
		return err
	}
	if err := p.Store.SaveRecords(storage.CostOfLivingFile, cost.Records()); err != nil {
		return err
	}

	logger.Info("Saved scraped tables", logger.Fields{
		"dir":       p.Store.Dir(),
		"rent_rows": len(rent),
		"cost_rows": len(cost.Rows),
		"rent_file": storage.RentFile,
		"cost_file": storage.CostOfLivingFile,
	})
	return nil
}

// Merge loads the three source tables from the data directory, cleans and
// joins them and writes the merged table.
func (p *Pipeline) Merge() (*Result, error) {
	start := time.Now()

	rent, err := p.load(storage.RentFile, CleanRent)
	if err != nil {
		return nil, err
	}
	cost, err := p.load(storage.CostOfLivingFile, CleanCostOfLiving)
	if err != nil {
		return nil, err
	}
	wage, err := p.load(p.wageFile(), CleanWages)
	if err != nil {
		return nil, err
	}

	merged, dropped, err := Merge(rent, cost, wage)
	if err != nil {
		return nil, err
	}
	if len(dropped) > 0 {
		logger.Warn("States dropped by inner join", logger.Fields{"states": dropped, "count": len(dropped)})
	}

	cleaned, filled, err := Clean(merged)
	if err != nil {
		return nil, err
	}

	// Every numeric cell must parse before the table is written
	recs, err := storage.ParseStateRecords(cleaned)
	if err != nil {
		return nil, fmt.Errorf("validating merged table: %w", err)
	}

	if err := p.Store.SaveTable(p.output(), cleaned); err != nil {
		return nil, err
	}

	states := make(map[string]bool)
	for _, r := range recs {
		states[r.State] = true
	}

	res := &Result{
		Path:      p.Store.Path(p.output()),
		Rows:      cleaned.Nrow(),
		States:    len(states),
		Dropped:   dropped,
		Filled:    filled,
		Duration:  time.Since(start).String(),
		Generated: time.Now().UTC().Format(time.RFC3339),
	}

	logger.SetGauge("merge.rows", float64(res.Rows))
	logger.RecordTiming("merge", time.Since(start))
	logger.Info("Wrote merged table", logger.Fields{
		"path":   res.Path,
		"rows":   res.Rows,
		"states": res.States,
		"filled": filled,
	})
	return res, nil
}

// Run scrapes both sources and merges. With offline set, the intermediates
// already in the data directory are reused.
func (p *Pipeline) Run(ctx context.Context, offline bool) (*Result, error) {
	if !offline {
		if err := p.Scrape(ctx); err != nil {
			return nil, fmt.Errorf("scraping: %w", err)
		}
	}
	res, err := p.Merge()
	if err != nil {
		return nil, fmt.Errorf("merging: %w", err)
	}
	res.Scraped = !offline
	return res, nil
}

type cleaner func(dataframe.DataFrame) (dataframe.DataFrame, []string, error)

func (p *Pipeline) load(name string, clean cleaner) (dataframe.DataFrame, error) {
	df, err := p.Store.LoadTable(name)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	out, dropped, err := clean(df)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("%s: %w", name, err)
	}
	if len(dropped) > 0 {
		logger.Debug("Excluded non-state rows", logger.Fields{"file": name, "rows": dropped})
	}
	return out, nil
}
