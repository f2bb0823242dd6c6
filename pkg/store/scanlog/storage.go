// Package scanlog persists scan history and the user roster in a local
// sqlite database and serves them to the report pipeline.
package scanlog

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const scanTableSchema = `
	CREATE TABLE IF NOT EXISTS scan_records (
		id TEXT PRIMARY KEY,
		category TEXT NOT NULL,
		overall_confidence REAL,
		color_confidence REAL,
		oil_confidence REAL,
		detection_confidence REAL,
		oil_yield_percent REAL,
		length_cm REAL,
		width_cm REAL,
		kernel_mass_g REAL,
		whole_fruit_weight_g REAL,
		has_spots INTEGER NOT NULL DEFAULT 0,
		coin_detected INTEGER NOT NULL DEFAULT 0,
		scanned_at TIMESTAMP NOT NULL,
		user_name TEXT,
		user_email TEXT
	);
`

const userTableSchema = `
	CREATE TABLE IF NOT EXISTS users (
		email TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		role TEXT,
		joined_at TIMESTAMP
	);
`

var bootQueries = []string{
	scanTableSchema,
	userTableSchema,
}

type Settings struct {
	DbPath string
}

func NewDB(settings Settings) (*sql.DB, error) {
	db, err := sql.Open("sqlite", settings.DbPath)
	if err != nil {
		return nil, fmt.Errorf("open scan log: %w", err)
	}

	for _, query := range bootQueries {
		if _, err := db.Exec(query); err != nil {
			db.Close()
			return nil, fmt.Errorf("bootstrap scan log schema: %w", err)
		}
	}
	return db, nil
}
