package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pfrederiksen/movewise/internal/analysis"
	"github.com/pfrederiksen/movewise/internal/format"
	"github.com/pfrederiksen/movewise/internal/merge"
	"github.com/pfrederiksen/movewise/internal/record"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// textWriter is implemented by every command result.
type textWriter interface {
	writeText(w io.Writer, verbose bool) error
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result textWriter, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return result.writeText(w, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, result any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	return t
}

func canonical(state string) string {
	if name, ok := record.Canonical(state); ok {
		return name
	}
	return state
}

// BuildOutput reports a merge run.
type BuildOutput struct {
	*merge.Result
	Metrics map[string]interface{} `json:"metrics,omitempty"`
}

func (o *BuildOutput) writeText(w io.Writer, verbose bool) error {
	fmt.Fprintf(w, "Merged %d rows (%d states) into %s\n", o.Rows, o.States, o.Path)
	if o.Filled > 0 {
		fmt.Fprintf(w, "Filled %d missing home prices\n", o.Filled)
	}
	if len(o.Dropped) > 0 {
		fmt.Fprintf(w, "Dropped %d states missing from a source: %s\n", len(o.Dropped), strings.Join(o.Dropped, ", "))
	}
	if verbose {
		fmt.Fprintf(w, "Scraped: %t\n", o.Scraped)
		fmt.Fprintf(w, "Duration: %s\n", o.Duration)
	}
	return nil
}

// SummaryOutput holds the facts shown for one state and industry.
type SummaryOutput struct {
	State           string              `json:"state"`
	Industry        string              `json:"industry"`
	LivingIndex     float64             `json:"cost_of_living_index"`
	MedianHomePrice *float64            `json:"median_home_price,omitempty"`
	AnnualMeanWage  float64             `json:"annual_mean_wage"`
	MedianRent      int                 `json:"median_rent"`
	Job             analysis.JobSummary `json:"job"`
	LivingCost      record.LivingCost   `json:"living_cost"`
}

// NewSummary gathers the facts of a state; state may be a name or postal code.
func NewSummary(t []record.StateRecord, state, industry string) (*SummaryOutput, error) {
	name := canonical(state)
	rec, ok := analysis.Select(t, name, industry)
	if !ok {
		return nil, fmt.Errorf("%s / %s: %w", state, industry, analysis.ErrNoData)
	}
	job, err := analysis.SummarizeJob(t, name, industry)
	if err != nil {
		return nil, err
	}
	return &SummaryOutput{
		State:           name,
		Industry:        industry,
		LivingIndex:     rec.LivingCost.Index,
		MedianHomePrice: rec.MedianHomePrice,
		AnnualMeanWage:  rec.AnnualMeanWage,
		MedianRent:      rec.MedianRent,
		Job:             job,
		LivingCost:      rec.LivingCost,
	}, nil
}

func (o *SummaryOutput) writeText(w io.Writer, verbose bool) error {
	home := "n/a"
	if o.MedianHomePrice != nil {
		home = format.Dollars(*o.MedianHomePrice)
	}

	fmt.Fprintf(w, "%s Facts\n", o.State)
	facts := newTable(w)
	facts.AppendRows([]table.Row{
		{"Cost of Living index", format.Decimal(o.LivingIndex)},
		{"Median Home Price", home},
		{"Annual Mean Wage", format.Dollars(o.AnnualMeanWage)},
	})
	if verbose {
		facts.AppendRow(table.Row{"Median Rent", format.Dollars(float64(o.MedianRent))})
	}
	facts.Render()

	fmt.Fprintf(w, "\n%s %s Employment & Salary Info\n", o.State, o.Industry)
	jobs := newTable(w)
	jobs.AppendHeader(table.Row{"Metric", "Value", "Rank in all states"})
	for _, m := range o.Job.Metrics {
		jobs.AppendRow(table.Row{m.Name, m.Display, fmt.Sprintf("%d of %d", m.Rank, m.Total)})
	}
	jobs.Render()

	if verbose {
		fmt.Fprintf(w, "\n%s Living Cost Summary\n", o.State)
		living := newTable(w)
		for _, col := range record.LivingCostColumns {
			v, _ := o.LivingCost.Get(col)
			living.AppendRow(table.Row{col, format.Decimal(v)})
		}
		living.Render()
	}
	return nil
}

// RankingRow is one state in a ranking listing.
type RankingRow struct {
	Rank           int     `json:"rank"`
	State          string  `json:"state"`
	Index          float64 `json:"cost_of_living_index"`
	MedianRent     int     `json:"median_rent"`
	AnnualMeanWage float64 `json:"annual_mean_wage"`
	Employment     int     `json:"employment"`
}

// RankingOutput lists every state of an industry.
type RankingOutput struct {
	Industry string       `json:"industry"`
	Sort     SortOrder    `json:"sort"`
	Rows     []RankingRow `json:"rows"`
}

// NewRanking lists the states of an industry in the given order.
func NewRanking(t []record.StateRecord, industry string, order SortOrder) *RankingOutput {
	out := &RankingOutput{Industry: industry, Sort: order}
	for _, r := range analysis.FilterIndustry(t, industry) {
		out.Rows = append(out.Rows, RankingRow{
			State:          r.State,
			Index:          r.LivingCost.Index,
			MedianRent:     r.MedianRent,
			AnnualMeanWage: r.AnnualMeanWage,
			Employment:     r.Employment,
		})
	}
	sortRows(out.Rows, order)
	for i := range out.Rows {
		out.Rows[i].Rank = i + 1
	}
	return out
}

func (o *RankingOutput) writeText(w io.Writer, _ bool) error {
	if len(o.Rows) == 0 {
		fmt.Fprintln(w, "No states found.")
		return nil
	}
	t := newTable(w)
	t.AppendHeader(table.Row{"#", "State", "Index", "Median Rent", "Annual Mean Wage", "Employment"})
	for _, r := range o.Rows {
		t.AppendRow(table.Row{r.Rank, r.State, format.Decimal(r.Index), format.Dollars(float64(r.MedianRent)),
			format.Dollars(r.AnnualMeanWage), format.Int(r.Employment)})
	}
	t.Render()
	fmt.Fprintf(w, "\nTotal: %d states (%s, sorted by %s)\n", len(o.Rows), o.Industry, o.Sort)
	return nil
}

// CompareOutput reports a move between two states.
type CompareOutput struct {
	analysis.Comparison
}

func (o *CompareOutput) writeText(w io.Writer, _ bool) error {
	fmt.Fprintf(w, "If You Move to %s From %s\n", o.To, o.From)

	t := newTable(w)
	t.AppendHeader(table.Row{o.Industry + " Employment & Salary Info", "Change"})
	for _, c := range o.Jobs {
		t.AppendRow(table.Row{c.Label, c.Value})
	}
	if o.HomePrice != nil {
		t.AppendSeparator()
		t.AppendRow(table.Row{o.HomePrice.Label, o.HomePrice.Value})
	}
	if o.Index != nil {
		t.AppendSeparator()
		t.AppendRow(table.Row{o.Index.Label, o.Index.Value})
	}
	t.Render()

	if o.Advisory != "" {
		fmt.Fprintln(w, o.Advisory)
	}
	return nil
}
