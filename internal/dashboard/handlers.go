package dashboard

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/pfrederiksen/movewise/internal/analysis"
	"github.com/pfrederiksen/movewise/internal/format"
	"github.com/pfrederiksen/movewise/internal/logger"
	"github.com/pfrederiksen/movewise/internal/record"
)

// Page is the data shared by every page template.
type Page struct {
	Title      string
	Subtitle   string
	Tab        string
	States     []string
	Industries []string
	HasMap     bool
	// MapIndustry is carried into state links from the map.
	MapIndustry string
	Advisory    string
}

// DistributionView is one box plot of the overview.
type DistributionView struct {
	analysis.Distribution
	ChartURL string
}

type overviewPage struct {
	Page
	Distributions []DistributionView
}

// Fact is a single metric card.
type Fact struct {
	Label string
	Value string
}

type statePage struct {
	Page
	State    string
	Industry string
	Facts    []Fact
	Job      *analysis.JobSummary
	ChartURL string
}

type comparePage struct {
	Page
	From       string
	To         string
	Industry   string
	Comparison analysis.Comparison
	RentURL    string
	LivingURL  string
}

func (s *Server) newPage(tab string, t []record.StateRecord) Page {
	industries := analysis.Industries(t)
	return Page{
		Title:       AppTitle,
		Subtitle:    AppSubtitle,
		Tab:         tab,
		States:      analysis.States(t),
		Industries:  industries,
		HasMap:      len(s.boundaries) > 0,
		MapIndustry: analysis.DefaultIndustry(industries, ""),
	}
}

// records loads the table, answering 500 itself on failure.
func (s *Server) records(w http.ResponseWriter, r *http.Request) ([]record.StateRecord, bool) {
	t, err := s.source.Records(r.Context())
	if err != nil {
		logger.Error("Failed to load merged table", logger.Fields{"path": r.URL.Path}, err)
		http.Error(w, "failed to load data", http.StatusInternalServerError)
		return nil, false
	}
	return t, true
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	var buf bytes.Buffer
	if err := s.pages[name].ExecuteTemplate(&buf, "layout", data); err != nil {
		logger.Error("Failed to render page", logger.Fields{"page": name}, err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	t, ok := s.records(w, r)
	if !ok {
		return
	}

	rows := analysis.LivingHousing(t)
	p := overviewPage{Page: s.newPage("overview", t)}
	for _, attr := range analysis.DistributionAttributes() {
		d, err := analysis.Describe(rows, attr)
		if err != nil {
			p.Advisory = analysis.NoDataMessage
			break
		}
		p.Distributions = append(p.Distributions, DistributionView{
			Distribution: d,
			ChartURL:     "/charts/distribution/" + url.PathEscape(attr) + ".svg",
		})
	}
	s.render(w, "overview", p)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	t, ok := s.records(w, r)
	if !ok {
		return
	}

	p := statePage{Page: s.newPage("state", t)}
	p.State = analysis.DefaultState(p.States, r.URL.Query().Get("state"))
	p.Industry = analysis.DefaultIndustry(p.Industries, r.URL.Query().Get("industry"))
	p.MapIndustry = p.Industry

	rec, found := analysis.Select(t, p.State, p.Industry)
	if !found {
		p.Advisory = analysis.NoDataMessage
		s.render(w, "state", p)
		return
	}

	home := "n/a"
	if rec.MedianHomePrice != nil {
		home = format.Dollars(*rec.MedianHomePrice)
	}
	p.Facts = []Fact{
		{Label: "Cost of Living index", Value: format.Decimal(rec.LivingCost.Index)},
		{Label: "Median Home Price", Value: home},
		{Label: "Annual Mean Wage", Value: format.Dollars(rec.AnnualMeanWage)},
	}
	if job, err := analysis.SummarizeJob(t, p.State, p.Industry); err == nil {
		p.Job = &job
	}
	p.ChartURL = "/charts/living/" + url.PathEscape(p.State) + ".svg"
	s.render(w, "state", p)
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	t, ok := s.records(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	p := comparePage{Page: s.newPage("compare", t)}
	p.From = analysis.DefaultState(p.States, q.Get("from"))
	p.To = analysis.DefaultState(p.States, q.Get("to"))
	p.Industry = analysis.DefaultIndustry(p.Industries, q.Get("industry"))
	p.MapIndustry = p.Industry
	p.Comparison = analysis.Compare(t, p.From, p.To, p.Industry)
	p.Advisory = p.Comparison.Advisory

	pair := url.Values{"from": {p.From}, "to": {p.To}}.Encode()
	p.RentURL = "/charts/rent.svg?" + pair
	p.LivingURL = "/charts/compare.svg?" + pair
	s.render(w, "compare", p)
}

func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	if len(s.boundaries) == 0 {
		http.Error(w, "state boundaries not configured", http.StatusNotFound)
		return
	}
	t, ok := s.records(w, r)
	if !ok {
		return
	}

	body, err := AnnotateBoundaries(s.boundaries, analysis.LivingHousing(t))
	if err != nil {
		logger.Error("Failed to annotate boundaries", nil, err)
		http.Error(w, "failed to build map", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	_, _ = w.Write(body)
}

func pathParam(r *http.Request, key string) string {
	v := chi.URLParam(r, key)
	if unescaped, err := url.PathUnescape(v); err == nil {
		return unescaped
	}
	return v
}

func writeSVG(w http.ResponseWriter, buf *bytes.Buffer) {
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = buf.WriteTo(w)
}

func chartError(w http.ResponseWriter, name string, err error) {
	if errors.Is(err, analysis.ErrNoData) {
		http.Error(w, analysis.NoDataMessage, http.StatusNotFound)
		return
	}
	logger.Error("Failed to render chart", logger.Fields{"chart": name}, err)
	http.Error(w, "failed to render chart", http.StatusInternalServerError)
}

// livingByState indexes the per-state rows.
func livingByState(t []record.StateRecord) map[string]analysis.StateLiving {
	out := make(map[string]analysis.StateLiving)
	for _, row := range analysis.LivingHousing(t) {
		if _, dup := out[row.State]; !dup {
			out[row.State] = row
		}
	}
	return out
}

func (s *Server) handleLivingChart(w http.ResponseWriter, r *http.Request) {
	t, ok := s.records(w, r)
	if !ok {
		return
	}
	state := pathParam(r, "state")
	row, found := livingByState(t)[state]
	if !found {
		http.NotFound(w, r)
		return
	}

	var buf bytes.Buffer
	if err := RenderLivingCost(&buf, state, analysis.MeltLivingCost([]analysis.StateLiving{row})); err != nil {
		chartError(w, "living", err)
		return
	}
	writeSVG(w, &buf)
}

// statePair resolves the from and to rows of a comparison chart.
func statePair(w http.ResponseWriter, r *http.Request, t []record.StateRecord) (analysis.StateLiving, analysis.StateLiving, bool) {
	rows := livingByState(t)
	from, okFrom := rows[r.URL.Query().Get("from")]
	to, okTo := rows[r.URL.Query().Get("to")]
	if !okFrom || !okTo {
		http.Error(w, analysis.NoDataMessage, http.StatusNotFound)
		return from, to, false
	}
	return from, to, true
}

func (s *Server) handleRentChart(w http.ResponseWriter, r *http.Request) {
	t, ok := s.records(w, r)
	if !ok {
		return
	}
	from, to, ok := statePair(w, r, t)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := RenderRentComparison(&buf, from, to); err != nil {
		chartError(w, "rent", err)
		return
	}
	writeSVG(w, &buf)
}

func (s *Server) handleCompareChart(w http.ResponseWriter, r *http.Request) {
	t, ok := s.records(w, r)
	if !ok {
		return
	}
	from, to, ok := statePair(w, r, t)
	if !ok {
		return
	}

	melted := analysis.MeltLivingCost([]analysis.StateLiving{from, to})
	var buf bytes.Buffer
	if err := RenderLivingComparison(&buf, from.State, to.State, melted); err != nil {
		chartError(w, "compare", err)
		return
	}
	writeSVG(w, &buf)
}

func (s *Server) handleDistributionChart(w http.ResponseWriter, r *http.Request) {
	attr := pathParam(r, "attribute")
	if _, known := (record.LivingCost{}).Get(attr); !known {
		http.NotFound(w, r)
		return
	}
	t, ok := s.records(w, r)
	if !ok {
		return
	}

	d, err := analysis.Describe(analysis.LivingHousing(t), attr)
	if err != nil {
		chartError(w, "distribution", err)
		return
	}
	var buf bytes.Buffer
	if err := RenderDistribution(&buf, d); err != nil {
		chartError(w, "distribution", err)
		return
	}
	writeSVG(w, &buf)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		logger.Error("Failed to encode response", nil, err)
	}
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

func handleMetrics(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, logger.GetMetricsSnapshot())
}
