package ports

import (
	"context"

	"route-optimizer-service/internal/domain"
)

// FlowSegment is a normalized traffic flow reading around one point.
type FlowSegment struct {
	CurrentSpeedKmh       float64
	FreeFlowSpeedKmh      float64
	CurrentTravelTimeSec  float64
	FreeFlowTravelTimeSec float64
	Confidence            float64
}

// Contract for retrieving live traffic flow near a location.
type TrafficProvider interface {
	GetFlowSegment(ctx context.Context, coord domain.Coordinates) (FlowSegment, error)
}
