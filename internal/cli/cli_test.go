package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pfrederiksen/movewise/internal/analysis"
	"github.com/pfrederiksen/movewise/internal/merge"
	"github.com/pfrederiksen/movewise/internal/record"
	"github.com/pfrederiksen/movewise/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixtures is resolved to an absolute path so tests that t.Chdir can still read it.
var fixtures = func() string {
	p, err := filepath.Abs("../../testdata/fixtures")
	if err != nil {
		panic(err)
	}
	return p
}()

func fixtureServer(t *testing.T) *httptest.Server {
	t.Helper()
	rent, err := os.ReadFile(filepath.Join(fixtures, "rent_by_state.html"))
	require.NoError(t, err)
	cost, err := os.ReadFile(filepath.Join(fixtures, "cost_of_living.html"))
	require.NoError(t, err)

	mux := http.NewServeMux()
	mux.HandleFunc("/rent", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write(rent) })
	mux.HandleFunc("/cost", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write(cost) })
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func dataDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wage, err := os.ReadFile(filepath.Join(fixtures, storage.WageFile))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, storage.WageFile), wage, 0644))
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err := cmd.Execute()
	return out.String(), err
}

func TestCommands_EndToEnd(t *testing.T) {
	t.Chdir(t.TempDir())
	srv := fixtureServer(t)
	dir := dataDir(t)

	t.Setenv("MOVEWISE_RENT_URL", srv.URL+"/rent")
	t.Setenv("MOVEWISE_COST_URL", srv.URL+"/cost")

	out, err := run(t, "build", "--data-dir", dir, "--format", "json")
	require.NoError(t, err)
	var res merge.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 15, res.Rows)
	assert.Equal(t, 5, res.States)
	assert.True(t, res.Scraped)

	t.Run("summary for a state", func(t *testing.T) {
		out, err := run(t, "summary", "--data-dir", dir, "--state", "NV", "--industry", "CS")
		require.NoError(t, err)
		assert.Contains(t, out, "Nevada Facts")
		assert.Contains(t, out, "Nevada CS Employment & Salary Info")
		assert.Contains(t, out, "of 5")
	})

	t.Run("summary of an unknown pair", func(t *testing.T) {
		_, err := run(t, "summary", "--data-dir", dir, "--state", "Texas", "--industry", "CS")
		assert.ErrorIs(t, err, analysis.ErrNoData)
	})

	t.Run("summary rejects an unknown industry", func(t *testing.T) {
		_, err := run(t, "summary", "--data-dir", dir, "--industry", "Finance")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid industry: Finance")
	})

	t.Run("compare", func(t *testing.T) {
		out, err := run(t, "compare", "--data-dir", dir, "--from", "Alabama", "--to", "Nevada", "--industry", "CS", "--format", "json")
		require.NoError(t, err)
		var c analysis.Comparison
		require.NoError(t, json.Unmarshal([]byte(out), &c))
		assert.Len(t, c.Jobs, 4)
		assert.NotNil(t, c.Index)
		assert.Empty(t, c.Advisory)
	})

	t.Run("compare with missing data", func(t *testing.T) {
		out, err := run(t, "compare", "--data-dir", dir, "--from", "Alabama", "--to", "Texas", "--industry", "CS")
		require.NoError(t, err)
		assert.Contains(t, out, analysis.NoDataMessage)
	})

	t.Run("export and read back", func(t *testing.T) {
		db := filepath.Join(dir, "movewise.db")
		out, err := run(t, "export", "--data-dir", dir, "--sqlite-path", db)
		require.NoError(t, err)
		assert.Contains(t, out, "Exported 15 rows")

		out, err = run(t, "summary", "--source", "sqlite", "--sqlite-path", db, "--industry", "CS", "--sort", "index", "--format", "json")
		require.NoError(t, err)
		var ranking RankingOutput
		require.NoError(t, json.Unmarshal([]byte(out), &ranking))
		require.Len(t, ranking.Rows, 5)
		for i := 1; i < len(ranking.Rows); i++ {
			assert.GreaterOrEqual(t, ranking.Rows[i-1].Index, ranking.Rows[i].Index)
		}
		assert.Equal(t, 1, ranking.Rows[0].Rank)

		out, err = run(t, "summary", "--source", "sqlite", "--sqlite-path", db, "--format", "json")
		require.NoError(t, err)
		ranking = RankingOutput{}
		require.NoError(t, json.Unmarshal([]byte(out), &ranking))
		assert.Equal(t, "Management", ranking.Industry)
	})
}

func TestScrapeThenOfflineMerge(t *testing.T) {
	t.Chdir(t.TempDir())
	srv := fixtureServer(t)
	dir := dataDir(t)

	out, err := run(t, "scrape", "--data-dir", dir, "--rent-url", srv.URL+"/rent", "--cost-url", srv.URL+"/cost")
	require.NoError(t, err)
	assert.Contains(t, out, "Scraped tables")

	out, err = run(t, "merge", "--data-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Merged 15 rows (5 states)")
	assert.Contains(t, out, "Dropped 2 states missing from a source: Texas, Wyoming")
}

func TestCommandErrors(t *testing.T) {
	t.Chdir(t.TempDir())
	dir := t.TempDir()

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"invalid format", []string{"summary", "--data-dir", dir, "--format", "xml"}, "invalid format"},
		{"invalid sort", []string{"summary", "--data-dir", dir, "--sort", "weather"}, "invalid sort"},
		{"missing merged table", []string{"summary", "--data-dir", dir}, storage.MergedFile},
		{"export without path", []string{"export", "--data-dir", dir}, "--sqlite-path"},
		{"invalid source", []string{"summary", "--data-dir", dir, "--source", "parquet"}, "invalid source"},
		{"compare needs flags", []string{"compare", "--data-dir", dir}, "required flag"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestSortRows(t *testing.T) {
	rows := func() []RankingRow {
		return []RankingRow{
			{State: "Nevada", Index: 114.1, MedianRent: 1614, AnnualMeanWage: 95950, Employment: 23910},
			{State: "Alabama", Index: 88, MedianRent: 1018, AnnualMeanWage: 92740, Employment: 48970},
			{State: "Arizona", Index: 114.1, MedianRent: 1665, AnnualMeanWage: 106290, Employment: 117870},
		}
	}
	states := func(rs []RankingRow) string {
		names := make([]string, len(rs))
		for i, r := range rs {
			names[i] = r.State
		}
		return strings.Join(names, ",")
	}

	tests := []struct {
		order SortOrder
		want  string
	}{
		{SortByState, "Alabama,Arizona,Nevada"},
		{SortByIndex, "Arizona,Nevada,Alabama"},
		{SortByRent, "Arizona,Nevada,Alabama"},
		{SortByWage, "Arizona,Nevada,Alabama"},
		{SortByEmployment, "Arizona,Alabama,Nevada"},
	}
	for _, tt := range tests {
		t.Run(string(tt.order), func(t *testing.T) {
			rs := rows()
			sortRows(rs, tt.order)
			assert.Equal(t, tt.want, states(rs))
		})
	}

	assert.False(t, SortOrder("weather").Valid())
}

func TestWriteOutput(t *testing.T) {
	price := 289900.0
	tbl := []record.StateRecord{
		{State: "Alabama", Industry: "CS", Employment: 48970, AnnualMeanWage: 92740, MedianHomePrice: &price,
			LivingCost: record.LivingCost{Index: 88}},
		{State: "Nevada", Industry: "CS", Employment: 23910, AnnualMeanWage: 95950,
			LivingCost: record.LivingCost{Index: 114.1}},
	}

	summary, err := NewSummary(tbl, "AL", "CS")
	require.NoError(t, err)
	assert.Equal(t, "Alabama", summary.State)

	var buf bytes.Buffer
	require.NoError(t, WriteOutput(&buf, summary, FormatText, false))
	assert.Contains(t, buf.String(), "$289,900")
	assert.Contains(t, buf.String(), "48,970")

	buf.Reset()
	require.NoError(t, WriteOutput(&buf, summary, FormatJSON, false))
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "Alabama", decoded["state"])

	buf.Reset()
	cmp := &CompareOutput{Comparison: analysis.Compare(tbl, "Alabama", "Nevada", "CS")}
	require.NoError(t, WriteOutput(&buf, cmp, FormatText, false))
	assert.Contains(t, buf.String(), "If You Move to Nevada From Alabama")
	assert.Contains(t, buf.String(), "Decrease in Employment After the Move")

	assert.Error(t, WriteOutput(&buf, cmp, OutputFormat("xml"), false))
}
