package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"route-optimizer-service/internal/adapters/cache"
	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/platform/obs"
)

// OpenWeatherProvider implements ForecastProvider using the OpenWeather
// 5-day/3-hour forecast endpoint, with an optional Redis cache in front.
type OpenWeatherProvider struct {
	session *http.Client
	apiKey  string
	baseURL string
	cache   *cache.RedisForecastCache
}

func NewOpenWeatherProvider(apiKey string, forecastCache *cache.RedisForecastCache) (*OpenWeatherProvider, error) {
	if apiKey == "" {
		return nil, errors.New("OpenWeather api key is empty")
	}

	return &OpenWeatherProvider{
		session: &http.Client{Timeout: 10 * time.Second},
		apiKey:  apiKey,
		baseURL: "https://api.openweathermap.org",
		cache:   forecastCache,
	}, nil
}

type forecastResponse struct {
	List []forecastEntry `json:"list"`
}

type forecastEntry struct {
	Dt   int64 `json:"dt"`
	Rain struct {
		ThreeH float64 `json:"3h"`
	} `json:"rain"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Visibility *float64 `json:"visibility"`
}

// GetForecast returns the normalized forecast series for one location.
// Missing fields default to benign values (no rain, clear visibility),
// matching how the upstream omits them in clear weather.
func (p *OpenWeatherProvider) GetForecast(
	ctx context.Context,
	coord domain.Coordinates,
) (_ []domain.ForecastSample, err error) {
	defer obs.Time(ctx, "openweather.GetForecast")(&err)

	if p.cache != nil {
		cached, ok, err := p.cache.Get(ctx, coord)
		if err != nil {
			log.Printf("forecast cache read failed: %v", err)
		} else if ok {
			return cached, nil
		}
	}

	endpoint := p.baseURL + "/data/2.5/forecast"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create forecast request: %w", err)
	}

	q := req.URL.Query()
	q.Set("lat", strconv.FormatFloat(coord.Lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(coord.Lon, 'f', -1, 64))
	q.Set("appid", p.apiKey)
	q.Set("units", "metric")
	req.URL.RawQuery = q.Encode()

	resp, err := p.session.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute forecast request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("forecast request: unexpected status %d", resp.StatusCode)
	}

	var decoded forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode forecast response: %w", err)
	}

	samples := make([]domain.ForecastSample, 0, len(decoded.List))
	for _, e := range decoded.List {
		visibility := 10000.0
		if e.Visibility != nil {
			visibility = *e.Visibility
		}
		samples = append(samples, domain.ForecastSample{
			At:           time.Unix(e.Dt, 0).UTC(),
			RainVolumeMM: e.Rain.ThreeH,
			WindSpeedMS:  e.Wind.Speed,
			VisibilityM:  visibility,
		})
	}

	if p.cache != nil {
		if err := p.cache.Put(ctx, coord, samples); err != nil {
			log.Printf("forecast cache write failed: %v", err)
		}
	}

	return samples, nil
}
