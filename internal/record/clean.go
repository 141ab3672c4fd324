package record

import (
	"fmt"
	"strconv"
	"strings"
)

var symbolStripper = strings.NewReplacer("$", "", "%", "", ",", "", "\u00a0", "")

// StripSymbols removes currency, percent and thousands-separator characters.
func StripSymbols(s string) string {
	return strings.TrimSpace(symbolStripper.Replace(strings.TrimSpace(s)))
}

// HasSymbols reports whether s still carries a formatting character.
func HasSymbols(s string) bool {
	return strings.ContainsAny(s, "$%,")
}

// ParseInt parses cell text such as "$1,234" as an integer.
func ParseInt(s string) (int, error) {
	clean := StripSymbols(s)
	n, err := strconv.Atoi(clean)
	if err != nil {
		return 0, fmt.Errorf("parsing integer %q: %w", s, err)
	}
	return n, nil
}

// ParseFloat parses cell text such as "5.6%" as a float.
func ParseFloat(s string) (float64, error) {
	clean := StripSymbols(s)
	f, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing number %q: %w", s, err)
	}
	return f, nil
}

// ParseOptionalInt parses cell text as an integer, returning nil for an empty cell.
func ParseOptionalInt(s string) (*int, error) {
	if StripSymbols(s) == "" {
		return nil, nil
	}
	n, err := ParseInt(s)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// ParseOptionalFloat parses a merged-table cell, treating "" and "NaN" as missing.
func ParseOptionalFloat(s string) (*float64, error) {
	clean := StripSymbols(s)
	if clean == "" || strings.EqualFold(clean, "nan") {
		return nil, nil
	}
	f, err := ParseFloat(s)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// FormatOptionalInt renders an optional integer for a CSV cell.
func FormatOptionalInt(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}

// FormatFloat renders a float without trailing zeros.
func FormatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Record returns the rent row as CSV cells in RentColumns order.
func (r RentRow) Record() []string {
	return []string{
		r.State,
		strconv.Itoa(r.MedianRent),
		FormatFloat(r.VacancyRate),
		strconv.Itoa(r.HousingUnits),
		FormatOptionalInt(r.MedianHomePrice),
	}
}
