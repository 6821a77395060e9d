package optimizer

import "time"

// WeatherThresholds are the safety limits that trigger a forced wait when a
// forecast sample at the simulated arrival instant exceeds any of them.
// They are policy, not mechanism, and deliberately live in configuration.
type WeatherThresholds struct {
	// RainVolumeMM is the maximum tolerated precipitation over a 3-hour bucket.
	RainVolumeMM float64
	// WindSpeedMS is the maximum tolerated wind speed.
	WindSpeedMS float64
	// VisibilityM is the minimum tolerated visibility distance.
	VisibilityM float64
}

// Config holds all tunables for one optimization run.
// Zero values are replaced by defaults; see DefaultConfig.
type Config struct {
	PopulationSize int
	Generations    int
	MutationRate   float64
	TournamentSize int
	EliteCount     int

	// Cost weights: cost = DistanceWeight*distance +
	// DurationWeight*duration_with_waits + OrderPenalty*violations.
	// OrderPenalty is large enough that a single ordering violation
	// dominates any plausible distance or duration saving.
	DistanceWeight float64
	DurationWeight float64
	OrderPenalty   float64

	// WaitDuration is how long the simulated clock is held when a
	// threshold is exceeded at arrival.
	WaitDuration time.Duration
	// ForecastStaleness bounds how far a forecast sample may be from the
	// arrival instant before it is ignored.
	ForecastStaleness time.Duration
	Thresholds        WeatherThresholds

	// Seed drives the single random source used by all stochastic
	// operators. Identical inputs and seed reproduce identical results.
	Seed int64

	// EvalWorkers bounds concurrent cost evaluations within a generation.
	EvalWorkers int
}

// DefaultConfig returns the reference tuning.
func DefaultConfig() Config {
	return Config{
		PopulationSize:    60,
		Generations:       150,
		MutationRate:      0.20,
		TournamentSize:    3,
		EliteCount:        2,
		DistanceWeight:    1.0,
		DurationWeight:    1.5,
		OrderPenalty:      1e6,
		WaitDuration:      2 * time.Hour,
		ForecastStaleness: 3 * time.Hour,
		Thresholds: WeatherThresholds{
			RainVolumeMM: 5.0,
			WindSpeedMS:  15.0,
			VisibilityM:  1000,
		},
		EvalWorkers: 4,
	}
}

// normalized fills zero-valued fields with defaults so partially
// populated configs stay usable.
func (c Config) normalized() Config {
	def := DefaultConfig()
	if c.PopulationSize <= 0 {
		c.PopulationSize = def.PopulationSize
	}
	if c.Generations <= 0 {
		c.Generations = def.Generations
	}
	if c.MutationRate <= 0 {
		c.MutationRate = def.MutationRate
	}
	if c.TournamentSize <= 0 {
		c.TournamentSize = def.TournamentSize
	}
	if c.EliteCount <= 0 {
		c.EliteCount = def.EliteCount
	}
	if c.DistanceWeight <= 0 {
		c.DistanceWeight = def.DistanceWeight
	}
	if c.DurationWeight <= 0 {
		c.DurationWeight = def.DurationWeight
	}
	if c.OrderPenalty <= 0 {
		c.OrderPenalty = def.OrderPenalty
	}
	if c.WaitDuration <= 0 {
		c.WaitDuration = def.WaitDuration
	}
	if c.ForecastStaleness <= 0 {
		c.ForecastStaleness = def.ForecastStaleness
	}
	if c.Thresholds == (WeatherThresholds{}) {
		c.Thresholds = def.Thresholds
	}
	if c.EvalWorkers <= 0 {
		c.EvalWorkers = def.EvalWorkers
	}
	return c
}
