package analysis

import (
	"fmt"
	"math"
	"strconv"

	"github.com/pfrederiksen/movewise/internal/format"
	"github.com/pfrederiksen/movewise/internal/record"
)

// Change is the signed difference of a metric when moving between two states.
type Change struct {
	Metric   string  `json:"metric"`
	Diff     float64 `json:"diff"`
	Increase bool    `json:"increase"`
	Label    string  `json:"label"`
	Value    string  `json:"value"`
}

// NewChange labels diff as an increase (diff >= 0) or a decrease and renders
// its magnitude. Diff stays exact. Integer metrics print whole numbers; the
// rest are rounded to one decimal before the sign is tested.
func NewChange(metric string, diff float64, integer bool) Change {
	c := Change{Metric: metric, Diff: diff}
	if integer {
		n := int(math.Round(diff))
		c.Increase = n >= 0
		c.Value = strconv.Itoa(absInt(n))
	} else {
		rounded, _ := strconv.ParseFloat(format.OneDecimal(diff), 64)
		c.Increase = rounded >= 0
		c.Value = format.OneDecimal(math.Abs(rounded))
	}

	direction := "Increase"
	if !c.Increase {
		direction = "Decrease"
	}
	c.Label = fmt.Sprintf("%s in %s After the Move", direction, metric)
	return c
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func pair(t []record.StateRecord, from, to, industry string) (record.StateRecord, record.StateRecord, error) {
	a, okA := Select(t, from, industry)
	b, okB := Select(t, to, industry)
	if !okA || !okB {
		return a, b, ErrNoData
	}
	return a, b, nil
}

// CompareJobs returns the employment and wage changes of moving from one
// state to another within an industry, as to minus from.
func CompareJobs(t []record.StateRecord, from, to, industry string) ([]Change, error) {
	a, b, err := pair(t, from, to, industry)
	if err != nil {
		return nil, err
	}
	return []Change{
		NewChange(record.ColEmployment, float64(b.Employment-a.Employment), true),
		NewChange(record.ColMedianHourlyWage, b.MedianHourlyWage-a.MedianHourlyWage, false),
		NewChange(record.ColMeanHourlyWage, b.MeanHourlyWage-a.MeanHourlyWage, false),
		NewChange(record.ColAnnualMeanWage, b.AnnualMeanWage-a.AnnualMeanWage, false),
	}, nil
}

// CompareHomePrice returns the median home price change of a move.
func CompareHomePrice(t []record.StateRecord, from, to, industry string) (Change, error) {
	a, b, err := pair(t, from, to, industry)
	if err != nil {
		return Change{}, err
	}
	if a.MedianHomePrice == nil || b.MedianHomePrice == nil {
		return Change{}, ErrNoData
	}
	return NewChange(record.ColMedianHomePrice, *b.MedianHomePrice-*a.MedianHomePrice, false), nil
}

// CompareIndex returns the cost-of-living index change of a move.
func CompareIndex(t []record.StateRecord, from, to, industry string) (Change, error) {
	a, b, err := pair(t, from, to, industry)
	if err != nil {
		return Change{}, err
	}
	return NewChange("Cost of Living Index", b.LivingCost.Index-a.LivingCost.Index, false), nil
}

// Comparison gathers every change shown for a move between two states.
type Comparison struct {
	From      string   `json:"from"`
	To        string   `json:"to"`
	Industry  string   `json:"industry"`
	Jobs      []Change `json:"jobs,omitempty"`
	HomePrice *Change  `json:"home_price,omitempty"`
	Index     *Change  `json:"index,omitempty"`
	Advisory  string   `json:"advisory,omitempty"`
}

// Compare runs all comparisons. Missing data is reported through Advisory
// rather than as an error.
func Compare(t []record.StateRecord, from, to, industry string) Comparison {
	c := Comparison{From: from, To: to, Industry: industry}
	if jobs, err := CompareJobs(t, from, to, industry); err == nil {
		c.Jobs = jobs
	}
	if hp, err := CompareHomePrice(t, from, to, industry); err == nil {
		c.HomePrice = &hp
	}
	if idx, err := CompareIndex(t, from, to, industry); err == nil {
		c.Index = &idx
	} else {
		c.Advisory = NoDataMessage
	}
	return c
}
