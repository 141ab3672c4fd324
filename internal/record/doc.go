// Package record defines the typed rows that flow through the MoveWise pipeline.
//
// The record package holds the per-source row types (rent, cost of living, wages),
// the merged StateRecord, the canonical list of the 51 jurisdictions used as the
// join key, and the lexical cleaning helpers that turn scraped cell text such as
// "$1,234" or "5.6%" into numbers.
package record
