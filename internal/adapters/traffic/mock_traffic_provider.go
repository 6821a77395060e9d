package traffic

import (
	"context"

	"route-optimizer-service/internal/adapters/cache"
	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/ports"
)

// MockTrafficProvider serves fixed flow segments keyed by coordinate.
type MockTrafficProvider struct {
	Segments map[string]ports.FlowSegment
	Err      error
}

func (p *MockTrafficProvider) GetFlowSegment(ctx context.Context, coord domain.Coordinates) (ports.FlowSegment, error) {
	if p.Err != nil {
		return ports.FlowSegment{}, p.Err
	}
	return p.Segments[cache.CoordKey(coord)], nil
}
