package analysis

import (
	"errors"
	"fmt"
	"sort"

	"github.com/pfrederiksen/movewise/internal/record"
)

// ErrNoData is returned when a requested state/industry pair is absent.
var ErrNoData = errors.New("data not available for one or both selected states and industry")

// NoDataMessage is the advisory shown when a comparison has no data.
const NoDataMessage = "Data not available for one or both selected states and industry."

// States returns the sorted unique state names.
func States(t []record.StateRecord) []string {
	seen := make(map[string]bool)
	out := make([]string, 0, record.JurisdictionCount)
	for _, r := range t {
		if !seen[r.State] {
			seen[r.State] = true
			out = append(out, r.State)
		}
	}
	sort.Strings(out)
	return out
}

// Industries returns the industry categories in first-seen order.
func Industries(t []record.StateRecord) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range t {
		if !seen[r.Industry] {
			seen[r.Industry] = true
			out = append(out, r.Industry)
		}
	}
	return out
}

// DefaultState returns requested when it is one of states, otherwise the
// first state alphabetically.
func DefaultState(states []string, requested string) string {
	for _, s := range states {
		if s == requested {
			return s
		}
	}
	if len(states) == 0 {
		return ""
	}
	return states[0]
}

// DefaultIndustry returns requested when it is one of industries, otherwise the first.
func DefaultIndustry(industries []string, requested string) string {
	for _, s := range industries {
		if s == requested {
			return s
		}
	}
	if len(industries) == 0 {
		return ""
	}
	return industries[0]
}

// Select returns the first row for a state and industry.
func Select(t []record.StateRecord, state, industry string) (record.StateRecord, bool) {
	for _, r := range t {
		if r.State == state && r.Industry == industry {
			return r, true
		}
	}
	return record.StateRecord{}, false
}

// FilterIndustry returns the rows of one industry in table order.
func FilterIndustry(t []record.StateRecord, industry string) []record.StateRecord {
	out := make([]record.StateRecord, 0, record.JurisdictionCount)
	for _, r := range t {
		if r.Industry == industry {
			out = append(out, r)
		}
	}
	return out
}

// StateLiving is the per-state housing and cost-of-living part of a record.
type StateLiving struct {
	State                string
	MedianRent           int
	RentalVacancy        float64
	OccupiedHousingUnits int
	MedianHomePrice      *float64
	LivingCost           record.LivingCost
}

func (s StateLiving) key() string {
	price := "NaN"
	if s.MedianHomePrice != nil {
		price = fmt.Sprint(*s.MedianHomePrice)
	}
	return fmt.Sprint(s.State, s.MedianRent, s.RentalVacancy, s.OccupiedHousingUnits, price, s.LivingCost)
}

// LivingHousing drops the industry and wage columns and removes duplicate
// rows, leaving one row per state when the merge was clean.
func LivingHousing(t []record.StateRecord) []StateLiving {
	seen := make(map[string]bool)
	out := make([]StateLiving, 0, record.JurisdictionCount)
	for _, r := range t {
		row := StateLiving{
			State:                r.State,
			MedianRent:           r.MedianRent,
			RentalVacancy:        r.RentalVacancy,
			OccupiedHousingUnits: r.OccupiedHousingUnits,
			MedianHomePrice:      r.MedianHomePrice,
			LivingCost:           r.LivingCost,
		}
		k := row.key()
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, row)
	}
	return out
}

// Melted is one (state, variable, value) triple of a wide-to-long reshape.
type Melted struct {
	State    string  `json:"state"`
	Variable string  `json:"variable"`
	Value    float64 `json:"value"`
}

// MeltLivingCost reshapes the living-cost columns of the given states to long
// form, variable-major. With no states, every row is melted.
func MeltLivingCost(rows []StateLiving, states ...string) []Melted {
	want := make(map[string]bool, len(states))
	for _, s := range states {
		want[s] = true
	}

	var out []Melted
	for _, col := range record.LivingCostColumns {
		for _, r := range rows {
			if len(want) > 0 && !want[r.State] {
				continue
			}
			v, _ := r.LivingCost.Get(col)
			out = append(out, Melted{State: r.State, Variable: col, Value: v})
		}
	}
	return out
}

// MeltJob reshapes the job metrics of one state and industry to long form.
func MeltJob(t []record.StateRecord, state, industry string) ([]Melted, bool) {
	r, ok := Select(t, state, industry)
	if !ok {
		return nil, false
	}
	out := make([]Melted, 0, len(record.JobColumns))
	for _, col := range record.JobColumns {
		v, _ := r.Metric(col)
		out = append(out, Melted{State: state, Variable: col, Value: v})
	}
	return out, true
}
