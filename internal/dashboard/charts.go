package dashboard

import (
	"fmt"
	"io"
	"math"

	"github.com/pfrederiksen/movewise/internal/analysis"
	"github.com/pfrederiksen/movewise/internal/record"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	chartWidth       = 720
	chartHeight      = 420
	boxplotHeight    = 220
	comparisonHeight = 480
)

// seriesColors follows the order of record.LivingCostColumns.
var seriesColors = []drawing.Color{
	drawing.ColorFromHex("1f77b4"),
	drawing.ColorFromHex("ff7f0e"),
	drawing.ColorFromHex("2ca02c"),
	drawing.ColorFromHex("d62728"),
	drawing.ColorFromHex("9467bd"),
	drawing.ColorFromHex("8c564b"),
	drawing.ColorFromHex("e377c2"),
}

func barStyle(col drawing.Color) chart.Style {
	return chart.Style{
		FillColor:   col.WithAlpha(204),
		StrokeColor: col,
		StrokeWidth: 1,
	}
}

func variableColor(variable string) drawing.Color {
	for i, col := range record.LivingCostColumns {
		if col == variable {
			return seriesColors[i%len(seriesColors)]
		}
	}
	return chart.ColorAlternateGray
}

// barRange starts bars at zero with headroom above the tallest one.
func barRange(bars []chart.Value) *chart.ContinuousRange {
	top := 0.0
	for _, b := range bars {
		top = math.Max(top, b.Value)
	}
	if top <= 0 {
		top = 1
	}
	return &chart.ContinuousRange{Min: 0, Max: top * 1.1}
}

func renderBars(w io.Writer, title string, height int, bars []chart.Value) error {
	if len(bars) == 0 {
		return fmt.Errorf("rendering %q: %w", title, analysis.ErrNoData)
	}
	bc := chart.BarChart{
		Title:      title,
		Width:      chartWidth,
		Height:     height,
		BarWidth:   int(math.Max(12, float64(chartWidth-120)/float64(len(bars))*0.6)),
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 24}},
		XAxis:      chart.Style{TextRotationDegrees: 45},
		YAxis:      chart.YAxis{Name: "Value", Range: barRange(bars)},
		Bars:       bars,
	}
	return bc.Render(chart.SVG, w)
}

// RenderLivingCost draws the living-cost attributes of one state.
func RenderLivingCost(w io.Writer, state string, rows []analysis.Melted) error {
	bars := make([]chart.Value, 0, len(rows))
	for _, m := range rows {
		if m.State != state {
			continue
		}
		bars = append(bars, chart.Value{Label: m.Variable, Value: m.Value, Style: barStyle(variableColor(m.Variable))})
	}
	return renderBars(w, "Living cost summary for "+state, chartHeight, bars)
}

// RenderRentComparison draws the median rent of two states side by side.
func RenderRentComparison(w io.Writer, from, to analysis.StateLiving) error {
	bars := []chart.Value{
		{Label: from.State, Value: float64(from.MedianRent), Style: barStyle(seriesColors[0])},
		{Label: to.State, Value: float64(to.MedianRent), Style: barStyle(seriesColors[1])},
	}
	title := fmt.Sprintf("Median Rent Comparison Between %s and %s", from.State, to.State)
	return renderBars(w, title, chartHeight, bars)
}

// RenderLivingComparison draws every living-cost attribute of two states,
// grouped by state and colored by attribute.
func RenderLivingComparison(w io.Writer, from, to string, rows []analysis.Melted) error {
	var bars []chart.Value
	for _, state := range []string{from, to} {
		label := record.Code(state)
		if label == "" {
			label = state
		}
		for _, m := range rows {
			if m.State != state {
				continue
			}
			bars = append(bars, chart.Value{
				Label: label + " " + m.Variable,
				Value: m.Value,
				Style: barStyle(variableColor(m.Variable)),
			})
		}
		if from == to {
			break
		}
	}
	title := fmt.Sprintf("Living Cost Comparison Between %s and %s", from, to)
	return renderBars(w, title, comparisonHeight, bars)
}

func line(name string, col drawing.Color, xs, ys []float64) chart.ContinuousSeries {
	return chart.ContinuousSeries{
		Name:    name,
		XValues: xs,
		YValues: ys,
		Style:   chart.Style{StrokeColor: col, StrokeWidth: 2},
	}
}

// RenderDistribution draws a horizontal box plot with outliers labelled by state.
func RenderDistribution(w io.Writer, d analysis.Distribution) error {
	if d.N == 0 {
		return fmt.Errorf("rendering distribution of %s: %w", d.Attribute, analysis.ErrNoData)
	}

	span := d.Max - d.Min
	if span == 0 {
		span = 1
	}
	box := seriesColors[0]
	const lo, mid, hi = 0.3, 0.5, 0.7

	series := []chart.Series{
		line("box", box, []float64{d.Q1, d.Q3, d.Q3, d.Q1, d.Q1}, []float64{lo, lo, hi, hi, lo}),
		line("median", seriesColors[1], []float64{d.Median, d.Median}, []float64{lo, hi}),
		line("lower whisker", box, []float64{d.WhiskerLow, d.Q1}, []float64{mid, mid}),
		line("upper whisker", box, []float64{d.Q3, d.WhiskerHigh}, []float64{mid, mid}),
		line("lower cap", box, []float64{d.WhiskerLow, d.WhiskerLow}, []float64{0.4, 0.6}),
		line("upper cap", box, []float64{d.WhiskerHigh, d.WhiskerHigh}, []float64{0.4, 0.6}),
	}

	if len(d.Outliers) > 0 {
		xs := make([]float64, 0, len(d.Outliers)+1)
		ys := make([]float64, 0, len(d.Outliers)+1)
		labels := chart.AnnotationSeries{Name: "outlier states"}
		for _, o := range d.Outliers {
			xs = append(xs, o.Value)
			ys = append(ys, mid)
			labels.Annotations = append(labels.Annotations, chart.Value2{XValue: o.Value, YValue: hi + 0.1, Label: o.State})
		}
		// A series needs at least two points to compute its extent.
		if len(xs) == 1 {
			xs = append(xs, xs[0])
			ys = append(ys, mid)
		}
		series = append(series, chart.ContinuousSeries{
			Name:    "outliers",
			XValues: xs,
			YValues: ys,
			Style:   chart.Style{StrokeWidth: chart.Disabled, DotWidth: 4, DotColor: seriesColors[3]},
		}, labels)
	}

	c := chart.Chart{
		Title:      "Distribution of " + d.Attribute,
		Width:      chartWidth,
		Height:     boxplotHeight,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis: chart.XAxis{
			Name:  d.Attribute,
			Range: &chart.ContinuousRange{Min: d.Min - 0.1*span, Max: d.Max + 0.1*span},
		},
		YAxis: chart.YAxis{
			Style: chart.Hidden(),
			Range: &chart.ContinuousRange{Min: 0, Max: 1},
		},
		Series: series,
	}
	return c.Render(chart.SVG, w)
}
