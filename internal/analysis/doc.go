// Package analysis holds the read-only computations behind the dashboard and the
// summary commands: filtering the merged table by state and industry, reshaping
// living-cost columns from wide to long, descriptive statistics with outlier
// detection, per-industry ranking and the signed two-state comparisons.
//
// A rank always sorts on the metric it labels: the Median Hourly Wage rank
// orders states by median wage and the Mean Hourly Wage rank by mean wage,
// never one by the other.
//
// Every function takes the full table and recomputes from scratch; nothing is
// cached between calls.
package analysis
