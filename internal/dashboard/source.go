package dashboard

import (
	"context"

	"github.com/pfrederiksen/movewise/internal/record"
	"github.com/pfrederiksen/movewise/internal/sqlstore"
	"github.com/pfrederiksen/movewise/internal/storage"
)

// Source supplies the merged table.
type Source interface {
	Records(ctx context.Context) ([]record.StateRecord, error)
}

// CSVSource reads the merged CSV from the data directory.
type CSVSource struct {
	Store *storage.Storage
	Name  string
}

func (s CSVSource) Records(_ context.Context) ([]record.StateRecord, error) {
	return s.Store.LoadStateRecords(s.Name)
}

// SQLiteSource reads a table written by sqlstore.Export.
type SQLiteSource struct {
	Path string
}

func (s SQLiteSource) Records(ctx context.Context) ([]record.StateRecord, error) {
	return sqlstore.Load(ctx, s.Path)
}

// StaticSource serves a fixed table.
type StaticSource []record.StateRecord

func (s StaticSource) Records(_ context.Context) ([]record.StateRecord, error) {
	return s, nil
}
