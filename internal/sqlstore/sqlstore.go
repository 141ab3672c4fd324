// Package sqlstore exports the merged state table to a SQLite file and reads it back.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pfrederiksen/movewise/internal/logger"
	"github.com/pfrederiksen/movewise/internal/record"

	_ "modernc.org/sqlite"
)

// Table is the name of the exported table.
const Table = "state_records"

const schema = `CREATE TABLE ` + Table + ` (
	state                  TEXT    NOT NULL,
	industry               TEXT    NOT NULL,
	employment             INTEGER NOT NULL,
	median_hourly_wage     REAL    NOT NULL,
	mean_hourly_wage       REAL    NOT NULL,
	annual_mean_wage       REAL    NOT NULL,
	median_rent            INTEGER NOT NULL,
	rental_vacancy         REAL    NOT NULL,
	occupied_housing_units INTEGER NOT NULL,
	median_home_price      REAL,
	living_index           REAL    NOT NULL,
	grocery                REAL    NOT NULL,
	housing                REAL    NOT NULL,
	utilities              REAL    NOT NULL,
	transportation         REAL    NOT NULL,
	health                 REAL    NOT NULL,
	misc                   REAL    NOT NULL,
	PRIMARY KEY (state, industry)
)`

const columns = `state, industry, employment, median_hourly_wage, mean_hourly_wage,
	annual_mean_wage, median_rent, rental_vacancy, occupied_housing_units,
	median_home_price, living_index, grocery, housing, utilities,
	transportation, health, misc`

func open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	return db, nil
}

// Export writes records to path, replacing any previous table, in one transaction.
func Export(ctx context.Context, path string, records []record.StateRecord) error {
	start := time.Now()

	db, err := open(path)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS `+Table); err != nil {
		return fmt.Errorf("dropping %s: %w", Table, err)
	}
	if _, err := tx.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating %s: %w", Table, err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO `+Table+` (`+columns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		var price sql.NullFloat64
		if r.MedianHomePrice != nil {
			price = sql.NullFloat64{Float64: *r.MedianHomePrice, Valid: true}
		}
		lc := r.LivingCost
		if _, err := stmt.ExecContext(ctx,
			r.State, r.Industry, r.Employment, r.MedianHourlyWage, r.MeanHourlyWage,
			r.AnnualMeanWage, r.MedianRent, r.RentalVacancy, r.OccupiedHousingUnits,
			price, lc.Index, lc.Grocery, lc.Housing, lc.Utilities,
			lc.Transportation, lc.Health, lc.Misc,
		); err != nil {
			return fmt.Errorf("inserting %s/%s: %w", r.State, r.Industry, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing export: %w", err)
	}

	logger.Info("Exported records to SQLite", logger.Fields{
		"path":        path,
		"rows":        len(records),
		"duration_ms": time.Since(start).Milliseconds(),
	})
	logger.IncrCounter("sqlite_exports")
	return nil
}

// Load reads every record from path in the order Export wrote them.
func Load(ctx context.Context, path string) ([]record.StateRecord, error) {
	db, err := open(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `SELECT `+columns+` FROM `+Table+` ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", Table, err)
	}
	defer rows.Close()

	var out []record.StateRecord
	for rows.Next() {
		var (
			r     record.StateRecord
			price sql.NullFloat64
			lc    = &r.LivingCost
		)
		if err := rows.Scan(
			&r.State, &r.Industry, &r.Employment, &r.MedianHourlyWage, &r.MeanHourlyWage,
			&r.AnnualMeanWage, &r.MedianRent, &r.RentalVacancy, &r.OccupiedHousingUnits,
			&price, &lc.Index, &lc.Grocery, &lc.Housing, &lc.Utilities,
			&lc.Transportation, &lc.Health, &lc.Misc,
		); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		if price.Valid {
			p := price.Float64
			r.MedianHomePrice = &p
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading rows: %w", err)
	}
	return out, nil
}
