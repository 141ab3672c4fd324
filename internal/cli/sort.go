package cli

import (
	"sort"
)

// SortOrder represents the available ranking orders
type SortOrder string

const (
	SortByState      SortOrder = "state"
	SortByIndex      SortOrder = "index"
	SortByRent       SortOrder = "rent"
	SortByWage       SortOrder = "wage"
	SortByEmployment SortOrder = "employment"
)

// Valid reports whether o is a known order.
func (o SortOrder) Valid() bool {
	switch o {
	case SortByState, SortByIndex, SortByRent, SortByWage, SortByEmployment:
		return true
	}
	return false
}

// sortRows sorts alphabetically for SortByState and by the metric,
// largest first, otherwise. Equal metrics fall back to state name.
func sortRows(rows []RankingRow, order SortOrder) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := metric(rows[i], order), metric(rows[j], order)
		if order == SortByState || a == b {
			return rows[i].State < rows[j].State
		}
		return a > b
	})
}

func metric(r RankingRow, order SortOrder) float64 {
	switch order {
	case SortByIndex:
		return r.Index
	case SortByRent:
		return float64(r.MedianRent)
	case SortByWage:
		return r.AnnualMeanWage
	case SortByEmployment:
		return float64(r.Employment)
	}
	return 0
}
