// Package format renders numbers the way the dashboard and CLI display them.
package format

import (
	"math"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Int renders n with thousands separators: 1234567 -> "1,234,567".
func Int(n int) string {
	return printer.Sprintf("%d", n)
}

// Number renders f with thousands separators and no trailing zeros.
func Number(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return Int(int(f))
	}
	return printer.Sprintf("%v", f)
}

// Dollars renders f as "$1,234" or "$1,234.5".
func Dollars(f float64) string {
	if f < 0 {
		return "-$" + Number(-f)
	}
	return "$" + Number(f)
}

// OneDecimal renders f with exactly one decimal place and no separators,
// matching the comparison cards: 3.14159 -> "3.1".
func OneDecimal(f float64) string {
	s := strconv.FormatFloat(f, 'f', 1, 64)
	if s == "-0.0" {
		return "0.0"
	}
	return s
}

// Decimal renders f with the shortest representation, e.g. 88 -> "88", 5.6 -> "5.6".
func Decimal(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
