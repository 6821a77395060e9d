package distance

import (
	"context"
	"fmt"

	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/ports"
)

// MockMatrixProvider serves fixed matrices regardless of coordinates.
type MockMatrixProvider struct {
	Distances domain.Matrix
	Durations domain.Matrix
	Err       error
}

func (p *MockMatrixProvider) GetMatrices(ctx context.Context, coords []domain.Coordinates) (ports.MatrixResult, error) {
	if p.Err != nil {
		return ports.MatrixResult{}, p.Err
	}
	return ports.MatrixResult{Distances: p.Distances, Durations: p.Durations}, nil
}

// MockGeocoder resolves place names from a fixed table.
type MockGeocoder struct {
	Coords map[string]domain.Coordinates
}

func (g *MockGeocoder) Geocode(ctx context.Context, name string) (domain.Coordinates, error) {
	c, ok := g.Coords[name]
	if !ok {
		return domain.Coordinates{}, fmt.Errorf("missing geocode entry for %q", name)
	}
	return c, nil
}
