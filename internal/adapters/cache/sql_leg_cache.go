package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/platform/obs"
)

// LegCost is one directed origin->destination travel cost.
type LegCost struct {
	DistanceMeters  float64
	DurationSeconds float64
}

// CoordKey renders a coordinate as a stable cache key. Five decimal places
// (~1 m) keeps keys consistent across float formatting, which matters more
// than exactness here.
func CoordKey(c domain.Coordinates) string {
	return fmt.Sprintf("%.5f,%.5f", c.Lat, c.Lon)
}

// LegKey renders a directed leg as a stable cache key.
func LegKey(origin, dest domain.Coordinates) string {
	return CoordKey(origin) + "|" + CoordKey(dest)
}

// SQLLegCache is a Postgres-backed cache for directed travel-cost legs,
// keyed by coordinate pair.
type SQLLegCache struct {
	DB *sql.DB
}

func NewSQLLegCache(db *sql.DB) *SQLLegCache {
	return &SQLLegCache{DB: db}
}

// Fetch cached legs for the given keys. Absent keys are simply missing
// from the returned map.
func (s *SQLLegCache) GetMany(
	ctx context.Context,
	keys []string,
) (_ map[string]LegCost, err error) {
	defer obs.Time(ctx, "leg.cache.GetMany")(&err)

	if s.DB == nil {
		return nil, errors.New("leg cache: db is nil")
	}

	if len(keys) == 0 {
		return map[string]LegCost{}, nil
	}

	q := `
	SELECT leg_key, distance_meters, duration_seconds
    FROM leg_cache
    WHERE leg_key = ANY($1::text[]);
	`

	rows, err := s.DB.QueryContext(ctx, q, keys)
	if err != nil {
		return nil, fmt.Errorf("get leg cache: query leg_cache table: %w", err)
	}
	defer rows.Close()

	out := make(map[string]LegCost, len(keys))
	for rows.Next() {
		var key string
		var meters, seconds float64
		if err := rows.Scan(&key, &meters, &seconds); err != nil {
			return nil, fmt.Errorf("get leg cache: scan rows: %w", err)
		}
		out[key] = LegCost{DistanceMeters: meters, DurationSeconds: seconds}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get leg cache: row iteration: %w", err)
	}

	return out, nil
}

// Store many leg costs.
func (s *SQLLegCache) PutMany(ctx context.Context, legs map[string]LegCost) error {
	if s.DB == nil {
		return errors.New("leg cache: db is nil")
	}

	if len(legs) == 0 {
		return nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("insert leg cache: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO leg_cache (leg_key, distance_meters, duration_seconds)
    VALUES ($1, $2, $3)
	ON CONFLICT (leg_key) DO UPDATE
	SET distance_meters = EXCLUDED.distance_meters,
		duration_seconds = EXCLUDED.duration_seconds;
	`)
	if err != nil {
		return fmt.Errorf("insert leg cache: db prepare: %w", err)
	}
	defer stmt.Close()

	for key, leg := range legs {
		if key == "" {
			return fmt.Errorf("insert leg cache: empty leg key")
		}

		if _, err := stmt.ExecContext(ctx, key, leg.DistanceMeters, leg.DurationSeconds); err != nil {
			return fmt.Errorf("insert leg cache key=%q: %w", key, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("insert leg cache commit: %w", err)
	}

	return nil
}
