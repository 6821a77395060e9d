package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"route-optimizer-service/internal/domain"
)

// Postgres-backed implementation of the StopRepository port.
type PostgresStopRepository struct{ DB *sql.DB }

func NewPostgresStopRepository(db *sql.DB) *PostgresStopRepository {
	return &PostgresStopRepository{DB: db}
}

// Return all saved stops in input-index order. The returned Index fields
// are assigned from row order, not storage ids, so they line up with the
// matrices the optimizer will be handed.
func (s *PostgresStopRepository) ListStops(ctx context.Context) ([]domain.Stop, error) {
	if s.DB == nil {
		return nil, errors.New("postgres stop repository: DB is nil")
	}

	query := `
	SELECT
		name,
		lat,
		lon,
		sequence_tag
	FROM stops
	ORDER BY stop_id;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list stops: query stops table: %w", err)
	}
	defer rows.Close()

	stops := make([]domain.Stop, 0, 16)
	for rows.Next() {
		var name string
		var lat, lon float64
		var tag int
		if err := rows.Scan(&name, &lat, &lon, &tag); err != nil {
			return nil, fmt.Errorf("list stops: scan rows: %w", err)
		}

		stops = append(stops, domain.Stop{
			Index:       len(stops),
			Name:        name,
			Coord:       domain.Coordinates{Lat: lat, Lon: lon},
			SequenceTag: tag,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list stops: row iteration: %w", err)
	}

	return stops, nil
}
