// Package scraper provides HTTP fetching and HTML table parsing for the two public
// statistics pages MoveWise is built from.
//
// The rent table (median rent, vacancy rate, occupied housing units and median home
// price per state) is located by its CSS class; the cost-of-living table is located
// inside its responsive wrapper div. Each source is fetched with a single GET and no
// retry. Numeric cells are cleaned lexically by stripping currency, percent and
// thousands-separator characters.
package scraper
