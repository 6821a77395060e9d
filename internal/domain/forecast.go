package domain

import "time"

// ForecastSample is one normalized weather forecast entry for a stop.
// RainVolumeMM is the precipitation volume over the sample's 3-hour bucket.
type ForecastSample struct {
	At           time.Time
	RainVolumeMM float64
	WindSpeedMS  float64
	VisibilityM  float64
}

// ForecastSet maps a stop index to its ordered forecast series.
// An absent or empty entry means "no weather constraint for that stop";
// it is never an error.
type ForecastSet map[int][]ForecastSample
