package dashboard

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/pfrederiksen/movewise/internal/analysis"
	"github.com/pfrederiksen/movewise/internal/sqlstore"
	"github.com/pfrederiksen/movewise/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSources_SameRowOrder(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store, err := storage.New(dir)
	require.NoError(t, err)
	require.NoError(t, store.SaveRecords(storage.MergedFile, storage.StateRecordsToRecords(fixtureTable())))

	dbPath := filepath.Join(dir, "movewise.db")
	require.NoError(t, sqlstore.Export(ctx, dbPath, fixtureTable()))

	fromCSV, err := CSVSource{Store: store, Name: storage.MergedFile}.Records(ctx)
	require.NoError(t, err)
	fromSQL, err := SQLiteSource{Path: dbPath}.Records(ctx)
	require.NoError(t, err)
	require.Len(t, fromSQL, len(fromCSV))

	assert.Equal(t, []string{"Management", "Business", "CS"}, analysis.Industries(fromCSV))
	assert.Equal(t, analysis.Industries(fromCSV), analysis.Industries(fromSQL))
	assert.Equal(t, "Management", analysis.DefaultIndustry(analysis.Industries(fromSQL), ""))

	for i := range fromCSV {
		assert.Equal(t, fromCSV[i].State, fromSQL[i].State, "row %d", i)
		assert.Equal(t, fromCSV[i].Industry, fromSQL[i].Industry, "row %d", i)
	}
}
