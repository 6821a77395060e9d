package weather

import (
	"context"

	"route-optimizer-service/internal/adapters/cache"
	"route-optimizer-service/internal/domain"
)

// MockForecastProvider serves fixed series keyed by coordinate.
type MockForecastProvider struct {
	Series map[string][]domain.ForecastSample
	Err    error
}

func (p *MockForecastProvider) GetForecast(ctx context.Context, coord domain.Coordinates) ([]domain.ForecastSample, error) {
	if p.Err != nil {
		return nil, p.Err
	}
	return p.Series[cache.CoordKey(coord)], nil
}
