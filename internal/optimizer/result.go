package optimizer

import (
	"fmt"
	"strings"

	"route-optimizer-service/internal/domain"
)

// buildResult re-simulates the winning chromosome once, with event logging,
// and assembles the reportable result.
func (ev *evaluator) buildResult(best chromosome) *domain.RouteResult {
	dist, dur, events := ev.simulate(best, true)

	ordered := make([]domain.Stop, 0, len(best))
	for _, idx := range best {
		ordered = append(ordered, ev.stops[idx])
	}

	var alerts []string
	for _, e := range events {
		if e.Kind != domain.EventWait {
			continue
		}
		alerts = append(alerts, fmt.Sprintf(
			"wait at %s for %dh due to %s",
			ev.stops[e.StopIndex].Name,
			e.WaitSeconds/3600,
			strings.TrimPrefix(e.Note, "waiting for "),
		))
	}

	return &domain.RouteResult{
		Status:               domain.StatusSuccess,
		Stops:                ordered,
		TotalDistanceMeters:  dist,
		TotalDurationSeconds: dur,
		OrderingViolations:   orderingViolations(best, ev.tags),
		WeatherAlerts:        alerts,
		Timeline:             events,
	}
}
