package ports

import (
	"context"

	"route-optimizer-service/internal/domain"
)

// Contract for resolving a place name to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, name string) (domain.Coordinates, error)
}
