package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"route-optimizer-service/internal/domain"
)

func newTestCache(t *testing.T) (*RedisForecastCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisForecastCache(client, time.Minute), mr
}

func TestRedisForecastCacheRoundTrip(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	coord := domain.Coordinates{Lat: 28.61, Lon: 77.2}
	samples := []domain.ForecastSample{
		{
			At:           time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
			RainVolumeMM: 6.5,
			WindSpeedMS:  4,
			VisibilityM:  8000,
		},
	}

	if _, ok, err := c.Get(ctx, coord); err != nil || ok {
		t.Fatalf("expected clean miss, got ok=%v err=%v", ok, err)
	}

	if err := c.Put(ctx, coord, samples); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	got, ok, err := c.Get(ctx, coord)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if !ok {
		t.Fatal("expected a hit after put")
	}
	if len(got) != 1 || !got[0].At.Equal(samples[0].At) || got[0].RainVolumeMM != 6.5 {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestRedisForecastCacheExpires(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	coord := domain.Coordinates{Lat: 19.07, Lon: 72.87}
	if err := c.Put(ctx, coord, []domain.ForecastSample{{WindSpeedMS: 9}}); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	if _, ok, err := c.Get(ctx, coord); err != nil || ok {
		t.Fatalf("expected expiry miss, got ok=%v err=%v", ok, err)
	}
}

func TestRedisForecastCacheDistinctLocations(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	a := domain.Coordinates{Lat: 28.61, Lon: 77.2}
	b := domain.Coordinates{Lat: 26.91, Lon: 75.78}

	if err := c.Put(ctx, a, []domain.ForecastSample{{RainVolumeMM: 1}}); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	if _, ok, err := c.Get(ctx, b); err != nil || ok {
		t.Fatalf("location b should miss, got ok=%v err=%v", ok, err)
	}
}
