package ports

import (
	"context"

	"route-optimizer-service/internal/domain"
)

// MatrixResult pairs the distance and duration matrices for one stop set,
// both n×n and aligned to the input coordinate order.
type MatrixResult struct {
	Distances domain.Matrix
	Durations domain.Matrix
}

// Contract for retrieving the full pairwise travel matrix for a stop set.
type MatrixProvider interface {
	// Return distance (meters) and duration (seconds) matrices for the
	// given coordinates. Directed values are returned as-is.
	GetMatrices(ctx context.Context, coords []domain.Coordinates) (MatrixResult, error)
}
