package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Initialize the Postgres database schema.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createStopsQuery := `
	CREATE TABLE IF NOT EXISTS stops (
		stop_id SERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		lat DOUBLE PRECISION NOT NULL,
		lon DOUBLE PRECISION NOT NULL,
		sequence_tag INTEGER NOT NULL DEFAULT 0
	);
	`

	createGeocodeCacheQuery := `
	CREATE TABLE IF NOT EXISTS geocode_cache (
		place TEXT PRIMARY KEY,
		lon DOUBLE PRECISION NOT NULL,
		lat DOUBLE PRECISION NOT NULL
	);
	`

	createLegCacheQuery := `
	CREATE TABLE IF NOT EXISTS leg_cache (
		leg_key TEXT PRIMARY KEY,
		distance_meters DOUBLE PRECISION NOT NULL,
		duration_seconds DOUBLE PRECISION NOT NULL
	);
	`

	statements := []string{
		createStopsQuery,
		createGeocodeCacheQuery,
		createLegCacheQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type StopSeed struct {
	Name        string  `json:"name"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	SequenceTag int     `json:"sequence_tag"`
}

// Populate the database with stop data from a JSON file. Seeding is a
// no-op when the stops table already has rows, so restarts don't pile
// up duplicates.
func SeedFromJSON(db *sql.DB, jsonPath string) error {
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM stops;`).Scan(&count); err != nil {
		return fmt.Errorf("seed stops: count existing rows: %w", err)
	}
	if count > 0 {
		return nil
	}

	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed stops: read %q: %w", jsonPath, err)
	}

	var data []StopSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return fmt.Errorf("seed stops: parse json: %w", err)
	}

	rows := make([]StopSeed, 0, len(data))
	for i, item := range data {
		name := strings.TrimSpace(item.Name)
		if name == "" {
			return fmt.Errorf("seed stops: item at index %d: name cannot be empty", i+1)
		}
		if item.SequenceTag < 0 {
			return fmt.Errorf("seed stops: item %q: sequence_tag cannot be negative", name)
		}
		rows = append(rows, StopSeed{Name: name, Lat: item.Lat, Lon: item.Lon, SequenceTag: item.SequenceTag})
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed stops: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
	INSERT INTO stops (
		name,
		lat,
		lon,
		sequence_tag
	)
	VALUES ($1, $2, $3, $4);
	`
	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("seed stops: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, s := range rows {
		if _, err := stmt.Exec(s.Name, s.Lat, s.Lon, s.SequenceTag); err != nil {
			return fmt.Errorf("seed stops: insert stop %q: %w", s.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed stops: commit tx: %w", err)
	}

	return nil
}
