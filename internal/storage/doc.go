// Package storage provides CSV-based persistence for the MoveWise pipeline tables.
//
// The storage package manages a data directory holding the two scraped intermediate
// files (rental_data.csv, cost_of_living.csv), the curated wage input
// (EmploymentandWage_updated.csv), the state boundary GeoJSON used by the map and the
// final merged_data.csv. Tables are read and written as all-string dataframes so the
// text produced by the scraper round-trips unchanged.
// The default storage location is ~/.local/share/movewise/.
package storage
