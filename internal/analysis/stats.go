package analysis

import (
	"fmt"
	"sort"

	"github.com/pfrederiksen/movewise/internal/record"
	"gonum.org/v1/gonum/stat"
)

// Outlier is a state whose value falls outside the 1.5·IQR fences.
type Outlier struct {
	State string  `json:"state"`
	Value float64 `json:"value"`
}

// Distribution summarises one living-cost attribute across states.
type Distribution struct {
	Attribute  string  `json:"attribute"`
	N          int     `json:"n"`
	Min        float64 `json:"min"`
	Q1         float64 `json:"q1"`
	Median     float64 `json:"median"`
	Q3         float64 `json:"q3"`
	Max        float64 `json:"max"`
	Mean       float64 `json:"mean"`
	IQR        float64 `json:"iqr"`
	LowerFence float64 `json:"lower_fence"`
	UpperFence float64 `json:"upper_fence"`
	// Whiskers reach the most extreme values inside the fences.
	WhiskerLow  float64   `json:"whisker_low"`
	WhiskerHigh float64   `json:"whisker_high"`
	Outliers    []Outlier `json:"outliers,omitempty"`
}

// DistributionAttributes lists the attributes the overview plots: every
// living-cost column except the last.
func DistributionAttributes() []string {
	cols := record.LivingCostColumns[:len(record.LivingCostColumns)-1]
	return append([]string(nil), cols...)
}

// Describe computes quartiles, fences and outliers of an attribute over the
// per-state rows. Quartiles use gonum's linear interpolation of the empirical CDF.
func Describe(rows []StateLiving, attribute string) (Distribution, error) {
	if len(rows) == 0 {
		return Distribution{}, fmt.Errorf("describing %s: %w", attribute, ErrNoData)
	}

	values := make([]float64, len(rows))
	for i, r := range rows {
		v, ok := r.LivingCost.Get(attribute)
		if !ok {
			return Distribution{}, fmt.Errorf("unknown attribute %q", attribute)
		}
		values[i] = v
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	d := Distribution{
		Attribute: attribute,
		N:         len(sorted),
		Min:       sorted[0],
		Max:       sorted[len(sorted)-1],
		Q1:        stat.Quantile(0.25, stat.LinInterp, sorted, nil),
		Median:    stat.Quantile(0.5, stat.LinInterp, sorted, nil),
		Q3:        stat.Quantile(0.75, stat.LinInterp, sorted, nil),
		Mean:      stat.Mean(sorted, nil),
	}
	d.IQR = d.Q3 - d.Q1
	d.LowerFence = d.Q1 - 1.5*d.IQR
	d.UpperFence = d.Q3 + 1.5*d.IQR

	d.WhiskerLow, d.WhiskerHigh = d.Max, d.Min
	for i, v := range values {
		if v < d.LowerFence || v > d.UpperFence {
			d.Outliers = append(d.Outliers, Outlier{State: rows[i].State, Value: v})
			continue
		}
		if v < d.WhiskerLow {
			d.WhiskerLow = v
		}
		if v > d.WhiskerHigh {
			d.WhiskerHigh = v
		}
	}
	return d, nil
}

// Quantiles returns the values at the given probabilities, used for map bins.
func Quantiles(values []float64, ps ...float64) []float64 {
	if len(values) == 0 {
		return nil
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	out := make([]float64, len(ps))
	for i, p := range ps {
		out[i] = stat.Quantile(p, stat.LinInterp, sorted, nil)
	}
	return out
}
