package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/movewise/internal/logger"
	"github.com/pfrederiksen/movewise/internal/record"
	"golang.org/x/net/html/charset"
)

const (
	RentURL         = "https://wisevoter.com/state-rankings/average-rent-by-state/"
	CostOfLivingURL = "https://meric.mo.gov/data/cost-living-data-series"
	UserAgent       = "movewise/1.0 (github.com/pfrederiksen/movewise)"
	Timeout         = 30 * time.Second
)

var (
	// ErrUnexpectedStatus is returned when a source answers with a non-200 status.
	ErrUnexpectedStatus = errors.New("unexpected status code")
	// ErrTableNotFound is returned when the page does not contain the expected table.
	ErrTableNotFound = errors.New("table not found")
)

// Scraper fetches and parses the rent and cost-of-living tables
type Scraper struct {
	client  *http.Client
	rentURL string
	costURL string
}

// Option configures a Scraper
type Option func(*Scraper)

// WithClient replaces the default HTTP client.
func WithClient(c *http.Client) Option {
	return func(s *Scraper) { s.client = c }
}

// WithRentURL overrides the rent table URL.
func WithRentURL(u string) Option {
	return func(s *Scraper) {
		if u != "" {
			s.rentURL = u
		}
	}
}

// WithCostURL overrides the cost-of-living table URL.
func WithCostURL(u string) Option {
	return func(s *Scraper) {
		if u != "" {
			s.costURL = u
		}
	}
}

// New creates a new Scraper instance
func New(opts ...Option) *Scraper {
	s := &Scraper{
		client: &http.Client{
			Timeout: Timeout,
		},
		rentURL: RentURL,
		costURL: CostOfLivingURL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FetchRent fetches and parses the rent-by-state table, sorted by state name.
func (s *Scraper) FetchRent(ctx context.Context) ([]record.RentRow, error) {
	start := time.Now()
	doc, err := s.fetch(ctx, s.rentURL)
	if err != nil {
		return nil, fmt.Errorf("fetching rent table: %w", err)
	}

	rows, err := parseRent(doc)
	if err != nil {
		return nil, err
	}

	logger.RecordTiming("scrape.rent", time.Since(start))
	logger.SetGauge("scrape.rent.rows", float64(len(rows)))
	logger.Info("Fetched rent table", logger.Fields{"url": s.rentURL, "rows": len(rows)})
	return rows, nil
}

// FetchCostOfLiving fetches and parses the cost-of-living table.
func (s *Scraper) FetchCostOfLiving(ctx context.Context) (*CostTable, error) {
	start := time.Now()
	doc, err := s.fetch(ctx, s.costURL)
	if err != nil {
		return nil, fmt.Errorf("fetching cost of living table: %w", err)
	}

	table, err := parseCostOfLiving(doc)
	if err != nil {
		return nil, err
	}

	logger.RecordTiming("scrape.cost_of_living", time.Since(start))
	logger.SetGauge("scrape.cost_of_living.rows", float64(len(table.Rows)))
	logger.Info("Fetched cost of living table", logger.Fields{"url": s.costURL, "rows": len(table.Rows)})
	return table, nil
}

// fetch performs a single GET and returns the decoded document
func (s *Scraper) fetch(ctx context.Context, url string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)

	logger.IncrCounter("scrape.requests")
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	body, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("decoding body: %w", err)
	}
	return newDocument(body)
}

func newDocument(r io.Reader) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return doc, nil
}

// cellText returns the trimmed text of each td in a row
func cellText(row *goquery.Selection, tag string) []string {
	cells := make([]string, 0)
	row.Find(tag).Each(func(_ int, c *goquery.Selection) {
		cells = append(cells, strings.TrimSpace(c.Text()))
	})
	return cells
}

// parseRent extracts rent rows from the wisevoter rankings page.
// Cells: rank, state, median rent, vacancy rate, occupied units, median home price.
func parseRent(doc *goquery.Document) ([]record.RentRow, error) {
	table := doc.Find("table.shdb-on-page-table").First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("rent: %w (table.shdb-on-page-table)", ErrTableNotFound)
	}

	trs := table.Find("tr")
	if trs.Length() == 0 {
		return nil, fmt.Errorf("rent: %w (no rows)", ErrTableNotFound)
	}

	rows := make([]record.RentRow, 0, record.JurisdictionCount)
	var parseErr error

	// The first row carries the header
	trs.Slice(1, goquery.ToEnd).EachWithBreak(func(i int, tr *goquery.Selection) bool {
		cells := cellText(tr, "td")
		if len(cells) == 0 {
			return true
		}
		if len(cells) < 6 {
			parseErr = fmt.Errorf("rent row %d: expected at least 6 cells, got %d", i+1, len(cells))
			return false
		}

		row, err := parseRentCells(cells)
		if err != nil {
			parseErr = fmt.Errorf("rent row %d (%s): %w", i+1, cells[1], err)
			return false
		}
		rows = append(rows, row)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].State < rows[j].State
	})
	return rows, nil
}

func parseRentCells(cells []string) (record.RentRow, error) {
	rent, err := record.ParseInt(cells[2])
	if err != nil {
		return record.RentRow{}, err
	}
	vacancy, err := record.ParseFloat(cells[3])
	if err != nil {
		return record.RentRow{}, err
	}
	units, err := record.ParseInt(cells[4])
	if err != nil {
		return record.RentRow{}, err
	}
	homePrice, err := record.ParseOptionalInt(cells[5])
	if err != nil {
		return record.RentRow{}, err
	}

	return record.RentRow{
		State:           cells[1],
		MedianRent:      rent,
		VacancyRate:     vacancy,
		HousingUnits:    units,
		MedianHomePrice: homePrice,
	}, nil
}
