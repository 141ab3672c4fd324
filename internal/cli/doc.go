// Package cli implements the command-line interface for movewise.
//
// The cli package provides the Cobra-based CLI with subcommands to scrape the two
// web tables, merge them with the wage dataset, serve the dashboard, print state
// summaries and move comparisons (text/JSON), and export the merged table to SQLite.
// Settings come from internal/config, so every flag also has a MOVEWISE_* environment
// variable and a movewise.yaml key.
package cli
