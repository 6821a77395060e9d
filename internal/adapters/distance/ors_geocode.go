package distance

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/platform/obs"
)

type geocodeResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

// Geocode resolves a place name to coordinates using OpenRouteService
// (/geocode/search), checking the persistent cache first.
func (o *ORSProvider) Geocode(
	ctx context.Context,
	name string,
) (_ domain.Coordinates, err error) {
	defer obs.Time(ctx, "ors.Geocode")(&err)

	norm := o.normalize(name)
	if norm == "" {
		return domain.Coordinates{}, fmt.Errorf("geocode: place name must be non-empty")
	}

	if o.geocodeCache != nil {
		hits, err := o.geocodeCache.GetMany(ctx, []string{norm})
		if err != nil {
			return domain.Coordinates{}, fmt.Errorf("ORS get geocode cache: %w", err)
		}
		if c, ok := hits[norm]; ok {
			return c, nil
		}
	}

	endpoint := o.baseURL + "/geocode/search"

	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := o.newRequest(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("text", norm)
		q.Set("size", "1")
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("execute geocode request: %w", err)
	}
	defer resp.Body.Close()

	var decoded geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.Coordinates{}, fmt.Errorf("decode geocode response: %w", err)
	}

	if len(decoded.Features) == 0 {
		return domain.Coordinates{}, fmt.Errorf("no geocode results for %q", name)
	}

	coords := decoded.Features[0].Geometry.Coordinates
	if len(coords) != 2 {
		return domain.Coordinates{}, fmt.Errorf("invalid coordinate format for %q", name)
	}

	out := domain.Coordinates{Lon: coords[0], Lat: coords[1]}

	if o.geocodeCache != nil {
		if err := o.geocodeCache.PutMany(ctx, map[string]domain.Coordinates{norm: out}); err != nil {
			log.Printf("geocode cache write failed: %v", err)
		}
	}

	return out, nil
}
