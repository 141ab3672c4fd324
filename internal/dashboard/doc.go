// Package dashboard serves the MoveWise web dashboard.
//
// Three pages mirror the dashboard tabs: an overview with the state map and
// cost-of-living distributions, a per-state page with facts, ranked job
// cards and a living cost chart, and a comparison page for moving between
// two states. The map is drawn in the browser with Leaflet from an annotated
// GeoJSON document; charts are rendered server-side as SVG.
//
// Pages reload the merged table from their Source on every request. Wrapping
// the Source in a CachedSource bounds that to one load per TTL while still
// picking up a rebuilt merged_data.csv without a restart.
package dashboard
