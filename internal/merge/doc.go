// Package merge joins the rent, cost-of-living and wage tables into the single
// merged table the dashboard reads.
//
// Cleaning keeps only the 50 states and the District of Columbia, so territory and
// national total rows fall away before the joins. The joins are inner joins on the
// state name: a state missing from any source is dropped silently apart from a
// warning in the log. Join cardinality is not validated, so a repeated key in a
// source duplicates rows. After joining, verbose column names are shortened and
// missing median home prices are forward-filled in row order.
package merge
