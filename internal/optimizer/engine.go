package optimizer

import (
	"context"
	"math"
	"math/rand"
	"sort"
	"sync"
	"time"

	"route-optimizer-service/internal/domain"
)

// Solve runs the full generational loop over the supplied stops and returns
// the best visiting order found, with its re-simulated timeline.
//
// All inputs must be fully resolved before the call; the engine performs no
// I/O. Domain-level failures (too few stops, missing cost data) are reported
// through the result's status rather than an error, so callers branch on
// status. The only error returned is context cancellation, checked between
// generations.
func Solve(
	ctx context.Context,
	stops []domain.Stop,
	distances, durations domain.Matrix,
	forecasts domain.ForecastSet,
	startAt time.Time,
	cfg Config,
) (*domain.RouteResult, error) {
	if len(stops) < 2 {
		return domain.Failure(domain.ReasonInsufficientStops), nil
	}

	n := len(stops)
	if !distances.Valid(n) || !durations.Valid(n) {
		return domain.Failure(domain.ReasonMissingCostData), nil
	}

	cfg = cfg.normalized()
	rng := rand.New(rand.NewSource(cfg.Seed))
	ev := newEvaluator(stops, distances, durations, forecasts, startAt, cfg)

	pop := initialPopulation(n, cfg.PopulationSize, rng)
	costs := make([]float64, cfg.PopulationSize)

	var globalBest chromosome
	globalBestCost := math.Inf(1)

	for gen := 0; gen < cfg.Generations; gen++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		ev.evaluateAll(pop, costs)

		// Rank by cost; index tie-break keeps ordering deterministic.
		order := make([]int, len(pop))
		for i := range order {
			order[i] = i
		}
		sort.Slice(order, func(a, b int) bool {
			if costs[order[a]] != costs[order[b]] {
				return costs[order[a]] < costs[order[b]]
			}
			return order[a] < order[b]
		})

		// Strict improvement only, so the first-found optimum is retained.
		if best := order[0]; costs[best] < globalBestCost {
			globalBest = pop[best].clone()
			globalBestCost = costs[best]
		}

		next := make([]chromosome, 0, cfg.PopulationSize)
		for e := 0; e < cfg.EliteCount && e < len(order); e++ {
			next = append(next, pop[order[e]].clone())
		}
		for len(next) < cfg.PopulationSize {
			p1 := tournamentSelect(pop, costs, cfg.TournamentSize, rng)
			p2 := tournamentSelect(pop, costs, cfg.TournamentSize, rng)
			child := orderCrossover(p1, p2, rng)
			swapMutate(child, cfg.MutationRate, rng)
			next = append(next, child)
		}
		pop = next
	}

	// One final simulation with event logging, off the hot path.
	return ev.buildResult(globalBest), nil
}

// evaluateAll computes every chromosome's cost over a bounded worker pool.
// Each evaluation reads only immutable run inputs, and results are matched
// back by index, so completion order never affects the outcome.
func (ev *evaluator) evaluateAll(pop []chromosome, costs []float64) {
	sem := make(chan struct{}, ev.cfg.EvalWorkers)
	var wg sync.WaitGroup

	for i := range pop {
		wg.Add(1)
		go func(i int) {
			sem <- struct{}{}
			defer wg.Done()
			defer func() { <-sem }()

			costs[i] = ev.cost(pop[i])
		}(i)
	}

	wg.Wait()
}
