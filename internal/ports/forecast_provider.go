package ports

import (
	"context"

	"route-optimizer-service/internal/domain"
)

// Contract for retrieving a weather forecast series for one location.
// An empty series is a valid answer (no data for that location).
type ForecastProvider interface {
	GetForecast(ctx context.Context, coord domain.Coordinates) ([]domain.ForecastSample, error)
}
