package traffic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/platform/obs"
	"route-optimizer-service/internal/ports"
)

// TomTomProvider implements TrafficProvider using the TomTom flow segment
// data endpoint.
type TomTomProvider struct {
	session *http.Client
	apiKey  string
	baseURL string
	zoom    int
}

func NewTomTomProvider(apiKey string) (*TomTomProvider, error) {
	if apiKey == "" {
		return nil, errors.New("TomTom api key is empty")
	}

	return &TomTomProvider{
		session: &http.Client{Timeout: 10 * time.Second},
		apiKey:  apiKey,
		baseURL: "https://api.tomtom.com",
		zoom:    10,
	}, nil
}

type flowResponse struct {
	FlowSegmentData struct {
		CurrentSpeed       float64 `json:"currentSpeed"`
		FreeFlowSpeed      float64 `json:"freeFlowSpeed"`
		CurrentTravelTime  float64 `json:"currentTravelTime"`
		FreeFlowTravelTime float64 `json:"freeFlowTravelTime"`
		Confidence         float64 `json:"confidence"`
	} `json:"flowSegmentData"`
}

// GetFlowSegment fetches current vs free-flow speed around one point.
func (p *TomTomProvider) GetFlowSegment(
	ctx context.Context,
	coord domain.Coordinates,
) (_ ports.FlowSegment, err error) {
	defer obs.Time(ctx, "tomtom.GetFlowSegment")(&err)

	endpoint := fmt.Sprintf("%s/traffic/services/4/flowSegmentData/relative/%d/json", p.baseURL, p.zoom)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return ports.FlowSegment{}, fmt.Errorf("create flow request: %w", err)
	}

	q := req.URL.Query()
	q.Set("key", p.apiKey)
	q.Set("point", fmt.Sprintf("%f,%f", coord.Lat, coord.Lon))
	q.Set("unit", "KMPH")
	req.URL.RawQuery = q.Encode()

	resp, err := p.session.Do(req)
	if err != nil {
		return ports.FlowSegment{}, fmt.Errorf("execute flow request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ports.FlowSegment{}, fmt.Errorf("flow request: unexpected status %d", resp.StatusCode)
	}

	var decoded flowResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return ports.FlowSegment{}, fmt.Errorf("decode flow response: %w", err)
	}

	d := decoded.FlowSegmentData
	return ports.FlowSegment{
		CurrentSpeedKmh:       d.CurrentSpeed,
		FreeFlowSpeedKmh:      d.FreeFlowSpeed,
		CurrentTravelTimeSec:  d.CurrentTravelTime,
		FreeFlowTravelTimeSec: d.FreeFlowTravelTime,
		Confidence:            d.Confidence,
	}, nil
}
