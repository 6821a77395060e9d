package distance

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"route-optimizer-service/internal/adapters/cache"
	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/platform/obs"
	"route-optimizer-service/internal/ports"
)

// ORSProvider implements MatrixProvider and Geocoder using OpenRouteService.
//
// It coordinates:
//   - Place-name geocoding with a persistent cache
//   - Full pairwise matrix fetches with a persistent per-leg cache
//   - External API calls with retry/backoff
//
// The provider is safe for concurrent use.
type ORSProvider struct {
	session      *http.Client
	apiKey       string
	baseURL      string
	profile      string
	legCache     *cache.SQLLegCache
	geocodeCache *cache.SQLGeocodeCache
}

func NewORSProvider(
	apiKey string,
	legCache *cache.SQLLegCache,
	geocodeCache *cache.SQLGeocodeCache,
) (*ORSProvider, error) {
	if apiKey == "" {
		return nil, errors.New("ORS api key is empty")
	}

	provider := &ORSProvider{
		session:      &http.Client{Timeout: 15 * time.Second},
		apiKey:       apiKey,
		baseURL:      "https://api.openrouteservice.org",
		profile:      "driving-car",
		legCache:     legCache,
		geocodeCache: geocodeCache,
	}

	return provider, nil
}

// GetMatrices returns the full directed distance/duration matrices for the
// given coordinates, preferring cached legs over an external matrix call.
// Any cache miss triggers one full matrix fetch; partial assembly from
// mixed sources is deliberately avoided to keep the two matrices aligned
// to a single snapshot.
func (o *ORSProvider) GetMatrices(
	ctx context.Context,
	coords []domain.Coordinates,
) (_ ports.MatrixResult, err error) {
	defer obs.Time(ctx, "ors.GetMatrices")(&err)

	n := len(coords)
	if n == 0 {
		return ports.MatrixResult{}, errors.New("get matrices: no coordinates supplied")
	}

	keys := make([]string, 0, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			keys = append(keys, cache.LegKey(coords[i], coords[j]))
		}
	}

	hits := map[string]cache.LegCost{}
	if o.legCache != nil {
		hits, err = o.legCache.GetMany(ctx, keys)
		if err != nil {
			return ports.MatrixResult{}, fmt.Errorf("ORS get leg cache: %w", err)
		}
	}

	if len(hits) == len(keys) {
		return assembleFromLegs(coords, hits), nil
	}

	result, legs, err := o.fetchMatrix(ctx, coords)
	if err != nil {
		return ports.MatrixResult{}, fmt.Errorf("fetching matrix: %w", err)
	}

	if o.legCache != nil {
		if err := o.legCache.PutMany(ctx, legs); err != nil {
			log.Printf("leg cache write failed: %v", err)
		}
	}

	return result, nil
}

func assembleFromLegs(coords []domain.Coordinates, legs map[string]cache.LegCost) ports.MatrixResult {
	n := len(coords)
	dist := make(domain.Matrix, n)
	dur := make(domain.Matrix, n)
	for i := 0; i < n; i++ {
		dist[i] = make([]float64, n)
		dur[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			leg := legs[cache.LegKey(coords[i], coords[j])]
			dist[i][j] = leg.DistanceMeters
			dur[i][j] = leg.DurationSeconds
		}
	}
	return ports.MatrixResult{Distances: dist, Durations: dur}
}

// normalize ensures consistent geocode cache keys by collapsing whitespace.
func (o *ORSProvider) normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
