package ports

import (
	"context"

	"route-optimizer-service/internal/domain"
)

// Port: a boundary for retrieving saved Stop entities from a data source.
type StopRepository interface {
	// Retrieve all stops available for routing, in input-index order.
	ListStops(ctx context.Context) ([]domain.Stop, error)
}
