package optimizer

import (
	"time"

	"route-optimizer-service/internal/domain"
)

// evaluator bundles the immutable inputs of one run so that cost and
// simulation calls stay allocation-light in the generational hot loop.
// It is safe for concurrent use: all fields are read-only after construction.
type evaluator struct {
	stops     []domain.Stop
	tags      []int
	distances domain.Matrix
	durations domain.Matrix
	forecasts domain.ForecastSet
	startAt   time.Time
	cfg       Config
}

func newEvaluator(
	stops []domain.Stop,
	distances, durations domain.Matrix,
	forecasts domain.ForecastSet,
	startAt time.Time,
	cfg Config,
) *evaluator {
	tags := make([]int, len(stops))
	for i, s := range stops {
		tags[i] = s.SequenceTag
	}
	return &evaluator{
		stops:     stops,
		tags:      tags,
		distances: distances,
		durations: durations,
		forecasts: forecasts,
		startAt:   startAt,
		cfg:       cfg,
	}
}

// orderingViolations counts pairs visited against their sequence tags.
// For positions i < j, tag[c[i]] > tag[c[j]] is one violation. Equal tags
// never violate, which is how "any order" groups are expressed. O(n²) is
// fine at route scale (tens of stops).
func orderingViolations(c chromosome, tags []int) int {
	violations := 0
	for i := 0; i < len(c); i++ {
		for j := i + 1; j < len(c); j++ {
			if tags[c[i]] > tags[c[j]] {
				violations++
			}
		}
	}
	return violations
}

// cost scores a chromosome. It re-simulates from the true start instant on
// every call: arrival times, and therefore forced waits, depend on the
// visiting order, so partial sums cannot be shared across chromosomes.
// Ordering violations are a penalty, not a filter; near-violating tours
// stay in the population with a poor rank.
func (ev *evaluator) cost(c chromosome) float64 {
	dist, dur, _ := ev.simulate(c, false)
	violations := orderingViolations(c, ev.tags)

	return ev.cfg.DistanceWeight*dist +
		ev.cfg.DurationWeight*dur +
		ev.cfg.OrderPenalty*float64(violations)
}
