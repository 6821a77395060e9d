package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/optimizer"
	"route-optimizer-service/internal/ports"
)

type forecastResult struct {
	stopIndex int
	samples   []domain.ForecastSample
	err       error
}

// StopInput is one requested visit target. Coord is nil when the caller
// supplied only a place name; the coordinate value itself is never used as
// a "missing" sentinel, so a stop at (0, 0) is a legal resolved location.
type StopInput struct {
	Name        string
	Coord       *domain.Coordinates
	SequenceTag int
}

type OptimizeTripRequest struct {
	Stops    []StopInput
	DepartAt time.Time
	Config   optimizer.Config
}

// OptimizeTrip resolves coordinates and travel matrices for the requested
// stops, gathers forecasts, and runs the genetic solver. Weather is a
// best-effort input: a nil forecast provider or a failed forecast lookup
// leaves the affected stop unconstrained rather than failing the trip.
func OptimizeTrip(
	ctx context.Context,
	req OptimizeTripRequest,
	geocoder ports.Geocoder,
	matrixProvider ports.MatrixProvider,
	forecastProvider ports.ForecastProvider,
) (*domain.RouteResult, error) {
	stops := make([]domain.Stop, len(req.Stops))

	for i, in := range req.Stops {
		name := strings.TrimSpace(in.Name)
		if name == "" {
			return nil, fmt.Errorf("optimize trip: stop at index %d has empty name", i)
		}

		stops[i] = domain.Stop{
			Index:       i,
			Name:        name,
			SequenceTag: in.SequenceTag,
		}

		if in.Coord != nil {
			stops[i].Coord = *in.Coord
			continue
		}
		if geocoder == nil {
			return nil, fmt.Errorf("optimize trip: stop %q has no coordinates and no geocoder is configured", name)
		}

		coord, err := geocoder.Geocode(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("optimize trip: geocode %q: %w", name, err)
		}
		stops[i].Coord = coord
	}

	coords := make([]domain.Coordinates, len(stops))
	for i, s := range stops {
		coords[i] = s.Coord
	}

	var distances, durations domain.Matrix
	matrices, err := matrixProvider.GetMatrices(ctx, coords)
	if err != nil {
		// The solver reports missing cost data as a structured failure,
		// so the trip still produces a result the caller can inspect.
		log.Printf("level=WARN service=optimize_trip msg=\"matrix lookup failed\" err=%q", err)
	} else {
		distances = matrices.Distances
		durations = matrices.Durations
	}

	forecasts := collectForecasts(ctx, stops, forecastProvider)

	result, err := optimizer.Solve(ctx, stops, distances, durations, forecasts, req.DepartAt, req.Config)
	if err != nil {
		return nil, fmt.Errorf("optimize trip: solve: %w", err)
	}

	return result, nil
}

// Fetch forecasts for every stop concurrently. Lookups that fail are
// logged and dropped; the stop simply has no weather constraint.
func collectForecasts(
	ctx context.Context,
	stops []domain.Stop,
	provider ports.ForecastProvider,
) domain.ForecastSet {
	forecasts := make(domain.ForecastSet, len(stops))
	if provider == nil {
		return forecasts
	}

	sem := make(chan struct{}, 5)
	resultsCh := make(chan forecastResult, len(stops))
	var wg sync.WaitGroup

	for _, stop := range stops {
		wg.Add(1)
		go func(s domain.Stop) {
			sem <- struct{}{}
			defer wg.Done()
			defer func() { <-sem }()

			samples, err := provider.GetForecast(ctx, s.Coord)
			if err != nil {
				resultsCh <- forecastResult{stopIndex: s.Index, err: err}
				return
			}
			resultsCh <- forecastResult{stopIndex: s.Index, samples: samples}
		}(stop)
	}

	wg.Wait()
	close(resultsCh)

	for res := range resultsCh {
		if res.err != nil {
			log.Printf("level=WARN service=optimize_trip msg=\"forecast lookup failed\" stop=%d err=%q", res.stopIndex, res.err)
			continue
		}
		if len(res.samples) > 0 {
			forecasts[res.stopIndex] = res.samples
		}
	}

	return forecasts
}
