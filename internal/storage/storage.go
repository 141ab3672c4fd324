package storage

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/pfrederiksen/movewise/internal/record"
)

// File names inside the data directory.
const (
	RentFile         = "rental_data.csv"
	CostOfLivingFile = "cost_of_living.csv"
	WageFile         = "EmploymentandWage_updated.csv"
	MergedFile       = "merged_data.csv"
	BoundariesFile   = "us-state-boundaries.geojson"
)

// Storage handles persistence of pipeline tables
type Storage struct {
	dataDir string
}

// New creates a new Storage instance
func New(dataDir string) (*Storage, error) {
	// Expand ~ to home directory
	if strings.HasPrefix(dataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, dataDir[2:])
	}

	// Create data directory if it doesn't exist
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Storage{
		dataDir: dataDir,
	}, nil
}

// Dir returns the data directory.
func (s *Storage) Dir() string {
	return s.dataDir
}

// Path resolves a file name against the data directory. Absolute paths and
// paths with a directory component are returned unchanged.
func (s *Storage) Path(name string) string {
	if filepath.IsAbs(name) || strings.ContainsRune(name, filepath.Separator) {
		return name
	}
	return filepath.Join(s.dataDir, name)
}

// FromRecords builds an all-string dataframe from CSV records, header first.
func FromRecords(records [][]string) dataframe.DataFrame {
	return dataframe.LoadRecords(records,
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.HasHeader(true),
	)
}

// SaveTable writes a dataframe as CSV
func (s *Storage) SaveTable(name string, df dataframe.DataFrame) error {
	if df.Err != nil {
		return fmt.Errorf("saving %s: %w", name, df.Err)
	}

	var buf bytes.Buffer
	if err := df.WriteCSV(&buf); err != nil {
		return fmt.Errorf("encoding %s: %w", name, err)
	}

	if err := os.WriteFile(s.Path(name), buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}

// SaveRecords writes CSV records, header first
func (s *Storage) SaveRecords(name string, records [][]string) error {
	return s.SaveTable(name, FromRecords(records))
}

// SaveRent writes the scraped rent rows in RentColumns order
func (s *Storage) SaveRent(rows []record.RentRow) error {
	records := make([][]string, 0, len(rows)+1)
	records = append(records, record.RentColumns)
	for _, r := range rows {
		records = append(records, r.Record())
	}
	return s.SaveRecords(RentFile, records)
}

// LoadTable reads a CSV file into an all-string dataframe
func (s *Storage) LoadTable(name string) (dataframe.DataFrame, error) {
	f, err := os.Open(s.Path(name))
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("opening %s: %w", name, err)
	}
	defer f.Close()

	df := dataframe.ReadCSV(f,
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("reading %s: %w", name, df.Err)
	}
	return df, nil
}

// Exists reports whether a file is present in the data directory
func (s *Storage) Exists(name string) bool {
	_, err := os.Stat(s.Path(name))
	return err == nil
}

// ReadFile returns the raw bytes of a data file
func (s *Storage) ReadFile(name string) ([]byte, error) {
	data, err := os.ReadFile(s.Path(name))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return data, nil
}

// LoadStateRecords reads the merged table and parses it into typed records
func (s *Storage) LoadStateRecords(name string) ([]record.StateRecord, error) {
	df, err := s.LoadTable(name)
	if err != nil {
		return nil, err
	}
	return ParseStateRecords(df)
}
