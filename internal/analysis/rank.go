package analysis

import (
	"fmt"
	"sort"

	"github.com/pfrederiksen/movewise/internal/format"
	"github.com/pfrederiksen/movewise/internal/record"
)

// Ranks ranks every state of an industry on a metric. The rows are sorted
// ascending by the metric and a state's rank is N minus its position, so the
// largest value ranks 1. Ties keep table order and still get distinct ranks.
func Ranks(t []record.StateRecord, industry, column string) map[string]int {
	rows := FilterIndustry(t, industry)
	sort.SliceStable(rows, func(i, j int) bool {
		a, _ := rows[i].Metric(column)
		b, _ := rows[j].Metric(column)
		return a < b
	})

	n := len(rows)
	out := make(map[string]int, n)
	for i, r := range rows {
		if _, dup := out[r.State]; dup {
			continue
		}
		out[r.State] = n - i
	}
	return out
}

// RankedMetric is one job metric card with its rank among all states.
type RankedMetric struct {
	Name    string  `json:"name"`
	Value   float64 `json:"value"`
	Display string  `json:"display"`
	Rank    int     `json:"rank"`
	Total   int     `json:"total"`
}

// JobSummary is the employment and wage facts of a state and industry.
type JobSummary struct {
	State    string         `json:"state"`
	Industry string         `json:"industry"`
	Metrics  []RankedMetric `json:"metrics"`
}

// SummarizeJob builds the employment and wage cards for a state and industry,
// each ranked against the industry's other states on the same metric.
func SummarizeJob(t []record.StateRecord, state, industry string) (JobSummary, error) {
	r, ok := Select(t, state, industry)
	if !ok {
		return JobSummary{}, fmt.Errorf("%s / %s: %w", state, industry, ErrNoData)
	}

	total := len(FilterIndustry(t, industry))
	s := JobSummary{State: state, Industry: industry}
	for _, col := range record.JobColumns {
		v, _ := r.Metric(col)
		display := format.Decimal(v)
		if col == record.ColEmployment {
			display = format.Int(r.Employment)
		}
		s.Metrics = append(s.Metrics, RankedMetric{
			Name:    col,
			Value:   v,
			Display: display,
			Rank:    Ranks(t, industry, col)[state],
			Total:   total,
		})
	}
	return s, nil
}
