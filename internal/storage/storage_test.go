package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pfrederiksen/movewise/internal/record"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mergedFixture() [][]string {
	return [][]string{
		record.MergedColumns,
		{"Alabama", "CS", "48970", "41.88", "44.59", "92740", "1018", "8.2", "1933150", "289900", "88.0", "96.3", "70.3", "100.9", "88.0", "84.7", "94.8"},
		{"Nevada", "CS", "23910", "42.3", "46.13", "95950", "1614", "5.5", "1191380", "", "114.1", "103.9", "141.6", "101.6", "111.7", "97.6", "105.1"},
	}
}

func TestNew_CreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")

	s, err := New(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, s.Dir())

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestPath(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(s.Dir(), MergedFile), s.Path(MergedFile))
	assert.Equal(t, "/abs/merged.csv", s.Path("/abs/merged.csv"))
	assert.Equal(t, filepath.Join("rel", "x.csv"), s.Path(filepath.Join("rel", "x.csv")))
}

func TestSaveLoadTable_RoundTrip(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	df := FromRecords(mergedFixture())
	require.NoError(t, s.SaveTable(MergedFile, df))
	assert.True(t, s.Exists(MergedFile))

	back, err := s.LoadTable(MergedFile)
	require.NoError(t, err)

	assert.Equal(t, df.Nrow(), back.Nrow())
	assert.Equal(t, df.Names(), back.Names())
	if diff := cmp.Diff(df.Records(), back.Records()); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveRent(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	price := 289900
	rows := []record.RentRow{
		{State: "Alabama", MedianRent: 1018, VacancyRate: 8.2, HousingUnits: 1933150, MedianHomePrice: &price},
		{State: "California", MedianRent: 2252, VacancyRate: 3.9, HousingUnits: 13550586},
	}
	require.NoError(t, s.SaveRent(rows))

	data, err := s.ReadFile(RentFile)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "State,Median Rent Price ($),Rental Vacancy Rate (%),Occupied Housing Units,Median Home Price($)", lines[0])
	assert.Equal(t, "Alabama,1018,8.2,1933150,289900", lines[1])
	assert.Equal(t, "California,2252,3.9,13550586,", lines[2])
}

func TestLoadTable_Missing(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	_, err = s.LoadTable("nope.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope.csv")
	assert.False(t, s.Exists("nope.csv"))
}

func TestParseStateRecords(t *testing.T) {
	recs, err := ParseStateRecords(FromRecords(mergedFixture()))
	require.NoError(t, err)
	require.Len(t, recs, 2)

	al := recs[0]
	assert.Equal(t, "Alabama", al.State)
	assert.Equal(t, "CS", al.Industry)
	assert.Equal(t, 48970, al.Employment)
	assert.Equal(t, 92740.0, al.AnnualMeanWage)
	assert.Equal(t, 1018, al.MedianRent)
	assert.Equal(t, 1933150, al.OccupiedHousingUnits)
	require.NotNil(t, al.MedianHomePrice)
	assert.Equal(t, 289900.0, *al.MedianHomePrice)
	assert.Equal(t, 94.8, al.LivingCost.Misc)

	assert.Nil(t, recs[1].MedianHomePrice)
}

func TestParseStateRecords_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func([][]string) [][]string
		want   error
	}{
		{
			name: "currency symbol left in",
			mutate: func(r [][]string) [][]string {
				r[1][6] = "$1,018"
				return r
			},
			want: ErrSymbolInNumber,
		},
		{
			name: "percent symbol left in",
			mutate: func(r [][]string) [][]string {
				r[2][7] = "5.5%"
				return r
			},
			want: ErrSymbolInNumber,
		},
		{
			name: "missing column",
			mutate: func(r [][]string) [][]string {
				for i := range r {
					r[i] = r[i][:len(r[i])-1]
				}
				return r
			},
			want: ErrMissingColumn,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseStateRecords(FromRecords(tt.mutate(mergedFixture())))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestParseStateRecords_WholeFloatInts(t *testing.T) {
	rows := mergedFixture()
	rows[1][6] = "1018.0"
	recs, err := ParseStateRecords(FromRecords(rows))
	require.NoError(t, err)
	assert.Equal(t, 1018, recs[0].MedianRent)

	rows[1][6] = "1018.5"
	_, err = ParseStateRecords(FromRecords(rows))
	assert.Error(t, err)
}

func TestStateRecordsToRecords(t *testing.T) {
	recs, err := ParseStateRecords(FromRecords(mergedFixture()))
	require.NoError(t, err)

	out := StateRecordsToRecords(recs)
	require.Len(t, out, 3)
	assert.Equal(t, record.MergedColumns, out[0])
	assert.Equal(t, "48970", out[1][2])
	assert.Equal(t, "88", out[1][10])
	assert.Equal(t, "", out[2][9])

	again, err := ParseStateRecords(FromRecords(out))
	require.NoError(t, err)
	assert.Equal(t, recs, again)
}
