package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/platform/obs"
)

// RedisForecastCache holds normalized forecast series per location with a
// TTL. Forecasts go stale quickly, so unlike the geocode and leg caches
// this one is not persistent.
type RedisForecastCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisForecastCache(client *redis.Client, ttl time.Duration) *RedisForecastCache {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &RedisForecastCache{Client: client, TTL: ttl}
}

func forecastKey(coord domain.Coordinates) string {
	return "forecast:" + CoordKey(coord)
}

// Get returns the cached series for a location, with ok=false on a miss.
func (c *RedisForecastCache) Get(
	ctx context.Context,
	coord domain.Coordinates,
) (_ []domain.ForecastSample, ok bool, err error) {
	defer obs.Time(ctx, "forecast.cache.Get")(&err)

	if c.Client == nil {
		return nil, false, errors.New("forecast cache: client is nil")
	}

	raw, err := c.Client.Get(ctx, forecastKey(coord)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get forecast cache: %w", err)
	}

	var samples []domain.ForecastSample
	if err := json.Unmarshal(raw, &samples); err != nil {
		return nil, false, fmt.Errorf("get forecast cache: decode: %w", err)
	}

	return samples, true, nil
}

// Put stores the series for a location under the cache TTL.
func (c *RedisForecastCache) Put(
	ctx context.Context,
	coord domain.Coordinates,
	samples []domain.ForecastSample,
) error {
	if c.Client == nil {
		return errors.New("forecast cache: client is nil")
	}

	raw, err := json.Marshal(samples)
	if err != nil {
		return fmt.Errorf("put forecast cache: encode: %w", err)
	}

	if err := c.Client.Set(ctx, forecastKey(coord), raw, c.TTL).Err(); err != nil {
		return fmt.Errorf("put forecast cache: %w", err)
	}

	return nil
}
