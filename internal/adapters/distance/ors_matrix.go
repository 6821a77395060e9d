package distance

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"route-optimizer-service/internal/adapters/cache"
	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/ports"
)

type matrixRequest struct {
	Locations [][]float64 `json:"locations"`
	Metrics   []string    `json:"metrics"`
}

type matrixResponse struct {
	Distances [][]*float64 `json:"distances"`
	Durations [][]*float64 `json:"durations"`
}

// fetchMatrix retrieves the full n×n distance and duration matrices from
// the OpenRouteService matrix endpoint, returning both the matrices and the
// flattened legs for cache writes.
func (o *ORSProvider) fetchMatrix(
	ctx context.Context,
	coords []domain.Coordinates,
) (ports.MatrixResult, map[string]cache.LegCost, error) {
	endpoint := fmt.Sprintf("%s/v2/matrix/%s", o.baseURL, o.profile)

	locations := make([][]float64, 0, len(coords))
	for _, c := range coords {
		locations = append(locations, c.CoordsToList())
	}

	bodyObj := matrixRequest{
		Locations: locations,
		Metrics:   []string{"distance", "duration"},
	}

	payload, err := json.Marshal(bodyObj)
	if err != nil {
		return ports.MatrixResult{}, nil, fmt.Errorf("marshal matrix request: %w", err)
	}

	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		body := bytes.NewReader(payload)
		return o.newRequest(ctx, http.MethodPost, endpoint, body)
	})
	if err != nil {
		return ports.MatrixResult{}, nil, fmt.Errorf("matrix request failed: %w", err)
	}
	defer resp.Body.Close()

	var mr matrixResponse
	if err := json.NewDecoder(resp.Body).Decode(&mr); err != nil {
		return ports.MatrixResult{}, nil, fmt.Errorf("decode matrix response: %w", err)
	}

	n := len(coords)
	if len(mr.Distances) != n || len(mr.Durations) != n {
		return ports.MatrixResult{}, nil, fmt.Errorf(
			"expected %d rows; got distances=%d durations=%d",
			n, len(mr.Distances), len(mr.Durations),
		)
	}

	dist := make(domain.Matrix, n)
	dur := make(domain.Matrix, n)
	legs := make(map[string]cache.LegCost, n*n)

	for i := 0; i < n; i++ {
		if len(mr.Distances[i]) != n || len(mr.Durations[i]) != n {
			return ports.MatrixResult{}, nil, fmt.Errorf(
				"row %d lengths do not match coordinates: distances=%d durations=%d",
				i, len(mr.Distances[i]), len(mr.Durations[i]),
			)
		}

		dist[i] = make([]float64, n)
		dur[i] = make([]float64, n)

		for j := 0; j < n; j++ {
			if i == j {
				continue
			}

			metersPtr := mr.Distances[i][j]
			secondsPtr := mr.Durations[i][j]
			if metersPtr == nil || secondsPtr == nil {
				return ports.MatrixResult{}, nil, fmt.Errorf("matrix returned invalid metrics for leg %d->%d", i, j)
			}

			dist[i][j] = *metersPtr
			dur[i][j] = *secondsPtr
			legs[cache.LegKey(coords[i], coords[j])] = cache.LegCost{
				DistanceMeters:  *metersPtr,
				DurationSeconds: *secondsPtr,
			}
		}
	}

	return ports.MatrixResult{Distances: dist, Durations: dur}, legs, nil
}
