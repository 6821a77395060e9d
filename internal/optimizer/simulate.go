package optimizer

import (
	"fmt"
	"strings"
	"time"

	"route-optimizer-service/internal/domain"
)

// simulate walks a chromosome leg by leg from the run's start instant,
// accumulating distance and duration and applying forced weather waits.
//
// For each leg (u, v): distance and duration come straight from the
// matrices and the clock advances by the leg duration; that is the arrival
// instant at v. The forecast sample closest to that instant is consulted —
// if it is within the staleness window and exceeds any safety threshold,
// the clock is held for the configured wait before arrival is recorded.
//
// Event logging is skipped in the hot cost path (collect=false); the
// returned totals are identical either way.
func (ev *evaluator) simulate(c chromosome, collect bool) (totalDist, totalDur float64, events []domain.TravelEvent) {
	clock := ev.startAt

	if collect {
		events = append(events, domain.TravelEvent{
			StopIndex: c[0],
			Kind:      domain.EventDepart,
			At:        clock,
			Note:      "trip start",
		})
	}

	for i := 0; i < len(c)-1; i++ {
		u, v := c[i], c[i+1]

		totalDist += ev.distances[u][v]
		legDur := ev.durations[u][v]
		totalDur += legDur
		clock = clock.Add(time.Duration(legDur * float64(time.Second)))

		if reasons := ev.waitReasons(v, clock); len(reasons) > 0 {
			waitSec := int(ev.cfg.WaitDuration / time.Second)
			totalDur += float64(waitSec)

			if collect {
				events = append(events, domain.TravelEvent{
					StopIndex:   v,
					Kind:        domain.EventWait,
					At:          clock,
					WaitSeconds: waitSec,
					Note:        "waiting for " + strings.Join(reasons, ", "),
				})
			}
			clock = clock.Add(ev.cfg.WaitDuration)
		}

		if collect {
			events = append(events, domain.TravelEvent{
				StopIndex: v,
				Kind:      domain.EventArrive,
				At:        clock,
				Note:      "stop reached",
			})
		}
	}

	return totalDist, totalDur, events
}

// waitReasons evaluates the safety thresholds for stop v at the given
// arrival instant. An empty slice means arrival is immediate.
func (ev *evaluator) waitReasons(v int, arrival time.Time) []string {
	sample, ok := closestSample(ev.forecasts[v], arrival, ev.cfg.ForecastStaleness)
	if !ok {
		return nil
	}

	t := ev.cfg.Thresholds
	var reasons []string
	if sample.RainVolumeMM > t.RainVolumeMM {
		reasons = append(reasons, fmt.Sprintf("heavy rain (%.1fmm)", sample.RainVolumeMM))
	}
	if sample.WindSpeedMS > t.WindSpeedMS {
		reasons = append(reasons, fmt.Sprintf("gale winds (%.1fm/s)", sample.WindSpeedMS))
	}
	if sample.VisibilityM < t.VisibilityM {
		reasons = append(reasons, fmt.Sprintf("low visibility (%.0fm)", sample.VisibilityM))
	}
	return reasons
}

// closestSample returns the forecast sample nearest to at, or ok=false when
// the series is empty or the nearest sample is staler than the window.
func closestSample(samples []domain.ForecastSample, at time.Time, staleness time.Duration) (domain.ForecastSample, bool) {
	if len(samples) == 0 {
		return domain.ForecastSample{}, false
	}

	best := samples[0]
	bestDiff := absDuration(samples[0].At.Sub(at))
	for _, s := range samples[1:] {
		if d := absDuration(s.At.Sub(at)); d < bestDiff {
			best = s
			bestDiff = d
		}
	}

	if bestDiff > staleness {
		return domain.ForecastSample{}, false
	}
	return best, true
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
