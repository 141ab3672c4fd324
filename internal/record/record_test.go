package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonical(t *testing.T) {
	tests := []struct {
		key    string
		want   string
		wantOK bool
	}{
		{"NV", "Nevada", true},
		{"nv", "Nevada", true},
		{"Nevada", "Nevada", true},
		{"  new   york ", "New York", true},
		{"New Mexico", "New Mexico", true},
		{"DC", "District of Columbia", true},
		{"Washington DC", "District of Columbia", true},
		{"Puerto Rico", "", false},
		{"United States", "", false},
		{"", "", false},
		{"Nev", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, ok := Canonical(tt.key)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestJurisdictionCount(t *testing.T) {
	assert.Len(t, stateCodes, JurisdictionCount)
	assert.Equal(t, "NV", Code("Nevada"))
	assert.Equal(t, "", Code("Puerto Rico"))
}

func TestParseInt(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"$1,234", 1234, false},
		{" 1,070,553 ", 1070553, false},
		{"$350,000", 350000, false},
		{"12", 12, false},
		{"", 0, true},
		{"n/a", 0, true},
		{"1.5", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseInt(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseFloat(t *testing.T) {
	got, err := ParseFloat("5.6%")
	require.NoError(t, err)
	assert.InDelta(t, 5.6, got, 1e-9)

	got, err = ParseFloat("$45.10")
	require.NoError(t, err)
	assert.InDelta(t, 45.1, got, 1e-9)

	_, err = ParseFloat("%")
	assert.Error(t, err)
}

func TestParseOptional(t *testing.T) {
	n, err := ParseOptionalInt("")
	require.NoError(t, err)
	assert.Nil(t, n)

	n, err = ParseOptionalInt("$ ")
	require.NoError(t, err)
	assert.Nil(t, n)

	n, err = ParseOptionalInt("$289,900")
	require.NoError(t, err)
	require.NotNil(t, n)
	assert.Equal(t, 289900, *n)

	f, err := ParseOptionalFloat("NaN")
	require.NoError(t, err)
	assert.Nil(t, f)

	f, err = ParseOptionalFloat("289900.0")
	require.NoError(t, err)
	require.NotNil(t, f)
	assert.InDelta(t, 289900.0, *f, 1e-9)
}

func TestRentRowRecord(t *testing.T) {
	price := 289900
	row := RentRow{State: "Alabama", MedianRent: 1018, VacancyRate: 8.2, HousingUnits: 1933150, MedianHomePrice: &price}
	assert.Equal(t, []string{"Alabama", "1018", "8.2", "1933150", "289900"}, row.Record())

	row.MedianHomePrice = nil
	assert.Equal(t, "", row.Record()[4])
	for _, cell := range row.Record() {
		assert.False(t, HasSymbols(cell), "cell %q carries a symbol", cell)
	}
}

func TestStateRecordMetric(t *testing.T) {
	price := 350000.0
	r := StateRecord{
		State:          "Nevada",
		Employment:     1200,
		MeanHourlyWage: 40.5,
		MedianRent:     1500,
		LivingCost:     LivingCost{Index: 101.2, Misc: 99.1},
	}

	v, ok := r.Metric(ColEmployment)
	assert.True(t, ok)
	assert.Equal(t, 1200.0, v)

	v, ok = r.Metric(ColMisc)
	assert.True(t, ok)
	assert.Equal(t, 99.1, v)

	_, ok = r.Metric(ColMedianHomePrice)
	assert.False(t, ok)

	r.MedianHomePrice = &price
	v, ok = r.Metric(ColMedianHomePrice)
	assert.True(t, ok)
	assert.Equal(t, price, v)

	_, ok = r.Metric(ColState)
	assert.False(t, ok)
}
