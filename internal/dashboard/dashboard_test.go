package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pfrederiksen/movewise/internal/analysis"
	"github.com/pfrederiksen/movewise/internal/record"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

const fixtures = "../../testdata/fixtures"

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func price(f float64) *float64 { return &f }

func rec(state, industry string, emp int, annual float64, home *float64, index float64) record.StateRecord {
	return record.StateRecord{
		State: state, Industry: industry, Employment: emp,
		MedianHourlyWage: annual / 2080, MeanHourlyWage: annual / 2000, AnnualMeanWage: annual,
		MedianRent: int(index * 12), RentalVacancy: 5, OccupiedHousingUnits: 1000000,
		MedianHomePrice: home,
		LivingCost: record.LivingCost{Index: index, Grocery: index, Housing: index * 1.2,
			Utilities: 100, Transportation: index, Health: 95, Misc: 99},
	}
}

func fixtureTable() []record.StateRecord {
	return []record.StateRecord{
		rec("Alabama", "Management", 88870, 116940, price(289900), 88),
		rec("Alabama", "Business", 97420, 75990, price(289900), 88),
		rec("Alabama", "CS", 48970, 92740, price(289900), 88),
		rec("California", "Management", 1099090, 161500, price(450000), 144.8),
		rec("California", "Business", 1120030, 101090, price(450000), 144.8),
		rec("California", "CS", 696480, 145560, price(450000), 144.8),
		rec("Nevada", "Management", 74110, 122510, nil, 114.1),
		rec("Nevada", "CS", 23910, 95950, nil, 114.1),
	}
}

func boundaries(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(fixtures, "us-state-boundaries.geojson"))
	require.NoError(t, err)
	return data
}

func newServer(t *testing.T, src Source, withMap bool) *Server {
	t.Helper()
	cfg := Config{Source: src}
	if withMap {
		cfg.Boundaries = boundaries(t)
	}
	s, err := New(cfg)
	require.NoError(t, err)
	return s
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

type failingSource struct{}

func (failingSource) Records(context.Context) ([]record.StateRecord, error) {
	return nil, errors.New("disk on fire")
}

func TestNew_RequiresSource(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestRootRedirects(t *testing.T) {
	w := get(t, newServer(t, StaticSource(fixtureTable()), true).Handler(), "/")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/overview", w.Header().Get("Location"))
}

func TestOverview(t *testing.T) {
	w := get(t, newServer(t, StaticSource(fixtureTable()), true).Handler(), "/overview")
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, "Cost of Living Distribution")
	assert.Contains(t, body, `id="map"`)
	for _, attr := range analysis.DistributionAttributes() {
		assert.Contains(t, body, "/charts/distribution/"+attr+".svg")
	}
	assert.NotContains(t, body, "/charts/distribution/Misc..svg")
}

func TestOverview_NoMap(t *testing.T) {
	w := get(t, newServer(t, StaticSource(fixtureTable()), false).Handler(), "/overview")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), `id="map"`)
}

func TestStatePage(t *testing.T) {
	h := newServer(t, StaticSource(fixtureTable()), true).Handler()

	tests := []struct {
		name     string
		target   string
		contains []string
	}{
		{
			name:     "defaults to first state",
			target:   "/state",
			contains: []string{"Alabama Facts", "$289,900", "Management Employment &amp; Salary Info", "Rank in all states: 2"},
		},
		{
			name:     "selected state and industry",
			target:   "/state?state=California&industry=CS",
			contains: []string{"California Facts", "144.8", "$145,560", "Rank in all states: 1", "/charts/living/California.svg"},
		},
		{
			name:     "unknown state falls back",
			target:   "/state?state=Atlantis",
			contains: []string{"Alabama Facts"},
		},
		{
			name:     "missing home price",
			target:   "/state?state=Nevada&industry=CS",
			contains: []string{"Nevada Facts", "n/a"},
		},
		{
			name:     "missing industry row",
			target:   "/state?state=Nevada&industry=Business",
			contains: []string{analysis.NoDataMessage},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(t, h, tt.target)
			require.Equal(t, http.StatusOK, w.Code)
			for _, want := range tt.contains {
				assert.Contains(t, w.Body.String(), want)
			}
		})
	}
}

func TestComparePage(t *testing.T) {
	h := newServer(t, StaticSource(fixtureTable()), true).Handler()

	w := get(t, h, "/compare?from=Alabama&to=Nevada&industry=CS")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "If You Move to Nevada From Alabama")
	assert.Contains(t, body, "Decrease in Employment After the Move")
	assert.Contains(t, body, "25060")
	assert.Contains(t, body, "Increase in Cost of Living Index After the Move")
	assert.Contains(t, body, "26.1")
	assert.Contains(t, body, "/charts/rent.svg?from=Alabama&amp;to=Nevada")
	assert.NotContains(t, body, analysis.NoDataMessage)

	w = get(t, h, "/compare?from=Alabama&to=Nevada&industry=Business")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), analysis.NoDataMessage)
}

func TestMapEndpoint(t *testing.T) {
	w := get(t, newServer(t, StaticSource(fixtureTable()), true).Handler(), "/map.geojson")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/geo+json", w.Header().Get("Content-Type"))

	var doc struct {
		Features []struct {
			Properties map[string]any `json:"properties"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	require.Len(t, doc.Features, 4)

	props := make(map[string]map[string]any)
	for _, f := range doc.Features {
		props[f.Properties[PropName].(string)] = f.Properties
	}
	assert.Equal(t, "Cost of Living: 88", props["Alabama"][PropLivingCost])
	assert.Equal(t, "Median Home Price: $289,900", props["Alabama"][PropMedianHomePrice])
	assert.Equal(t, "", props["Nevada"][PropMedianHomePrice])
	assert.Equal(t, "", props["Puerto Rico"][PropLivingCost])
	assert.Equal(t, "", props["Puerto Rico"][PropFill])
}

func TestMapEndpoint_NotConfigured(t *testing.T) {
	w := get(t, newServer(t, StaticSource(fixtureTable()), false).Handler(), "/map.geojson")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAnnotateBoundaries_Fill(t *testing.T) {
	out, err := AnnotateBoundaries(boundaries(t), analysis.LivingHousing(fixtureTable()))
	require.NoError(t, err)

	var doc struct {
		Features []struct {
			Properties map[string]any `json:"properties"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(out, &doc))

	fills := make(map[string]any)
	for _, f := range doc.Features {
		fills[f.Properties[PropName].(string)] = f.Properties[PropFill]
	}
	assert.Equal(t, Palette[0], fills["Alabama"])
	assert.Equal(t, Palette[len(Palette)-1], fills["California"])
	assert.Contains(t, Palette, fills["Nevada"])
}

func TestAnnotateBoundaries_Invalid(t *testing.T) {
	_, err := AnnotateBoundaries([]byte("not json"), nil)
	assert.Error(t, err)
}

func TestCharts(t *testing.T) {
	h := newServer(t, StaticSource(fixtureTable()), true).Handler()

	tests := []struct {
		target string
		status int
	}{
		{"/charts/living/Alabama.svg", http.StatusOK},
		{"/charts/living/Atlantis.svg", http.StatusNotFound},
		{"/charts/rent.svg?from=Alabama&to=Nevada", http.StatusOK},
		{"/charts/rent.svg?from=Alabama&to=Alabama", http.StatusOK},
		{"/charts/rent.svg?from=Alabama", http.StatusNotFound},
		{"/charts/compare.svg?from=California&to=Nevada", http.StatusOK},
		{"/charts/compare.svg?from=Atlantis&to=Nevada", http.StatusNotFound},
		{"/charts/distribution/Index.svg", http.StatusOK},
		{"/charts/distribution/Housing.svg", http.StatusOK},
		{"/charts/distribution/Weather.svg", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			w := get(t, h, tt.target)
			require.Equal(t, tt.status, w.Code, w.Body.String())
			if tt.status == http.StatusOK {
				assert.Equal(t, "image/svg+xml", w.Header().Get("Content-Type"))
				assert.Contains(t, w.Body.String(), "<svg")
			}
		})
	}
}

func TestRenderDistribution_Outliers(t *testing.T) {
	d := analysis.Distribution{
		Attribute: record.ColHousing, N: 10,
		Min: 1, Q1: 3, Median: 5, Q3: 7, Max: 100, IQR: 4,
		LowerFence: -3, UpperFence: 13, WhiskerLow: 1, WhiskerHigh: 9,
		Outliers: []analysis.Outlier{{State: "Hawaii", Value: 100}},
	}
	var sb strings.Builder
	require.NoError(t, RenderDistribution(&sb, d))
	assert.Contains(t, sb.String(), "Hawaii")

	assert.ErrorIs(t, RenderDistribution(io.Discard, analysis.Distribution{}), analysis.ErrNoData)
}

func TestRenderLivingCost_Empty(t *testing.T) {
	err := RenderLivingCost(io.Discard, "Alabama", nil)
	assert.ErrorIs(t, err, analysis.ErrNoData)
}

func TestSourceFailure(t *testing.T) {
	h := newServer(t, failingSource{}, true).Handler()
	for _, target := range []string{"/overview", "/state", "/compare", "/map.geojson", "/charts/living/Alabama.svg"} {
		w := get(t, h, target)
		assert.Equal(t, http.StatusInternalServerError, w.Code, target)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	h := newServer(t, StaticSource(fixtureTable()), false).Handler()

	w := get(t, h, "/healthz")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = get(t, h, "/debug/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	var snap map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.Contains(t, snap, "counters")
}

func TestServeListener_Shutdown(t *testing.T) {
	s := newServer(t, StaticSource(fixtureTable()), false)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ServeListener(ctx, ln) }()

	transport := &http.Transport{DisableKeepAlives: true}
	client := &http.Client{Transport: transport, Timeout: 5 * time.Second}
	resp, err := client.Get("http://" + ln.Addr().String() + "/healthz")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	transport.CloseIdleConnections()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down")
	}
}
