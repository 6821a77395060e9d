package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"route-optimizer-service/internal/api/dto"
	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/ports"
	"route-optimizer-service/internal/services"
)

type TrafficHandler struct {
	Provider ports.TrafficProvider
	Geocoder ports.Geocoder
}

// Report classifies live congestion around each requested stop.
func (h *TrafficHandler) Report(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if h.Provider == nil {
		writeError(w, r, http.StatusServiceUnavailable, "traffic data is not configured")
		return
	}

	var req dto.TrafficRequest
	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if len(req.Stops) == 0 {
		writeError(w, r, http.StatusBadRequest, "stops are required")
		return
	}

	stops := make([]domain.Stop, 0, len(req.Stops))
	for i, s := range req.Stops {
		name := strings.TrimSpace(s.Name)
		if name == "" {
			writeError(w, r, http.StatusBadRequest, "every stop needs a name")
			return
		}

		var coord domain.Coordinates
		if s.Lat != nil && s.Lon != nil {
			coord = domain.Coordinates{Lat: *s.Lat, Lon: *s.Lon}
		} else {
			if h.Geocoder == nil {
				writeError(w, r, http.StatusBadRequest, "stop "+name+" has no coordinates")
				return
			}
			resolved, err := h.Geocoder.Geocode(r.Context(), name)
			if err != nil {
				log.Printf("geocode %q failed: %v", name, err)
				writeError(w, r, http.StatusBadGateway, "could not resolve coordinates for "+name)
				return
			}
			coord = resolved
		}

		stops = append(stops, domain.Stop{Index: i, Name: name, Coord: coord})
	}

	report, err := services.AnalyzeTraffic(r.Context(), stops, h.Provider)
	if err != nil {
		log.Printf("traffic analysis failed: %v", err)
		writeError(w, r, http.StatusBadGateway, "traffic analysis failed")
		return
	}

	res := dto.TrafficResponse{
		Overall: string(report.Overall),
		Stops:   make([]dto.StopTrafficResponse, 0, len(report.Stops)),
	}
	for _, st := range report.Stops {
		res.Stops = append(res.Stops, dto.StopTrafficResponse{
			Stop:            st.StopName,
			Level:           string(st.Level),
			SpeedRatio:      st.SpeedRatio,
			DelayFactor:     st.DelayFactor,
			CurrentSpeedKmh: st.CurrentSpeedKmh,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}
