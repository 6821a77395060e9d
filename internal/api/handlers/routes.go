package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"route-optimizer-service/internal/api/dto"
	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/optimizer"
	"route-optimizer-service/internal/ports"
	"route-optimizer-service/internal/services"
)

type RouteHandler struct {
	Repo     ports.StopRepository
	Geocoder ports.Geocoder
	Matrix   ports.MatrixProvider
	Forecast ports.ForecastProvider
	Sessions *services.SessionStore
	Config   optimizer.Config
}

// Optimize runs the genetic solver for the requested stops and, on
// success, opens a tracking session for the resulting route.
func (h *RouteHandler) Optimize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.OptimizeRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	stops, errMsg := h.resolveStops(r, req.Stops)
	if errMsg != "" {
		writeError(w, r, http.StatusBadRequest, errMsg)
		return
	}

	depart := time.Now()
	if req.DepartAt != nil {
		depart = *req.DepartAt
	}

	cfg := h.Config
	if req.Seed != nil {
		cfg.Seed = *req.Seed
	} else {
		cfg.Seed = time.Now().UnixNano()
	}

	svcReq := services.OptimizeTripRequest{
		Stops:    stops,
		DepartAt: depart,
		Config:   cfg,
	}

	result, err := services.OptimizeTrip(r.Context(), svcReq, h.Geocoder, h.Matrix, h.Forecast)
	if err != nil {
		log.Printf("optimize trip failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.OptimizeResponse{
		Status:               string(result.Status),
		Reason:               string(result.Reason),
		TotalDistanceMeters:  result.TotalDistanceMeters,
		TotalDurationSeconds: result.TotalDurationSeconds,
		OrderingViolations:   result.OrderingViolations,
		WeatherAlerts:        result.WeatherAlerts,
	}

	if result.Status == domain.StatusSuccess {
		res.TripID = h.Sessions.Create(result)
		res.Stops = stopResponses(result.Stops)
		res.Timeline = timelineResponses(result)
	}

	writeJSON(w, r, http.StatusOK, res)
}

// Resolve the stop list for an optimize request: explicit stops from the
// body, or the saved stop set when the body names none. Stops without
// both coordinates are left unresolved for the service to geocode.
func (h *RouteHandler) resolveStops(r *http.Request, in []dto.StopRequest) ([]services.StopInput, string) {
	if len(in) == 0 {
		if h.Repo == nil {
			return nil, "stops are required"
		}
		saved, err := h.Repo.ListStops(r.Context())
		if err != nil {
			log.Printf("list saved stops failed: %v", err)
			return nil, "stops are required"
		}
		if len(saved) == 0 {
			return nil, "stops are required"
		}

		stops := make([]services.StopInput, 0, len(saved))
		for _, s := range saved {
			coord := s.Coord
			stops = append(stops, services.StopInput{
				Name:        s.Name,
				Coord:       &coord,
				SequenceTag: s.SequenceTag,
			})
		}
		return stops, ""
	}

	stops := make([]services.StopInput, 0, len(in))
	for _, s := range in {
		name := strings.TrimSpace(s.Name)
		if name == "" {
			return nil, "every stop needs a name"
		}
		if s.SequenceTag == nil {
			return nil, "sequence_tag is required for every stop"
		}
		if *s.SequenceTag < 0 {
			return nil, "sequence_tag must be non-negative"
		}
		if (s.Lat == nil) != (s.Lon == nil) {
			return nil, "lat and lon must be supplied together"
		}

		input := services.StopInput{Name: name, SequenceTag: *s.SequenceTag}
		if s.Lat != nil {
			input.Coord = &domain.Coordinates{Lat: *s.Lat, Lon: *s.Lon}
		}
		stops = append(stops, input)
	}
	return stops, ""
}

// Session returns the tracked state of a previously optimized route.
func (h *RouteHandler) Session(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	snap, err := h.Sessions.Get(r.PathValue("id"))
	if err != nil {
		writeSessionError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, sessionResponse(snap))
}

// CompleteStop marks one stop of a tracked route as visited.
func (h *RouteHandler) CompleteStop(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.CompleteStopRequest
	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if req.StopIndex == nil {
		writeError(w, r, http.StatusBadRequest, "stop_index is required")
		return
	}

	snap, err := h.Sessions.CompleteStop(r.PathValue("id"), *req.StopIndex)
	if err != nil {
		writeSessionError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, sessionResponse(snap))
}

// ReportDelay records a delay against a tracked route and shifts the
// remaining ETAs.
func (h *RouteHandler) ReportDelay(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.ReportDelayRequest
	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if req.DelaySeconds <= 0 {
		writeError(w, r, http.StatusBadRequest, "delay_seconds must be positive")
		return
	}

	delay := time.Duration(req.DelaySeconds) * time.Second
	snap, err := h.Sessions.ReportDelay(r.PathValue("id"), delay, strings.TrimSpace(req.Reason))
	if err != nil {
		writeSessionError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, sessionResponse(snap))
}

func writeSessionError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrSessionNotFound):
		writeError(w, r, http.StatusNotFound, "route session not found")
	case errors.Is(err, services.ErrUnknownStop):
		writeError(w, r, http.StatusBadRequest, "stop is not part of this route")
	case errors.Is(err, services.ErrStopCompleted):
		writeError(w, r, http.StatusConflict, "stop already completed")
	default:
		writeError(w, r, http.StatusBadRequest, err.Error())
	}
}

func stopResponses(stops []domain.Stop) []dto.StopResponse {
	out := make([]dto.StopResponse, 0, len(stops))
	for _, s := range stops {
		out = append(out, dto.StopResponse{
			Name:        s.Name,
			Lat:         s.Coord.Lat,
			Lon:         s.Coord.Lon,
			SequenceTag: s.SequenceTag,
		})
	}
	return out
}

func timelineResponses(result *domain.RouteResult) []dto.TimelineEventResponse {
	names := make(map[int]string, len(result.Stops))
	for _, s := range result.Stops {
		names[s.Index] = s.Name
	}

	out := make([]dto.TimelineEventResponse, 0, len(result.Timeline))
	for _, ev := range result.Timeline {
		out = append(out, dto.TimelineEventResponse{
			Stop:        names[ev.StopIndex],
			Kind:        string(ev.Kind),
			At:          ev.At,
			WaitSeconds: ev.WaitSeconds,
			Note:        ev.Note,
		})
	}
	return out
}

func sessionResponse(snap services.SessionSnapshot) dto.SessionResponse {
	res := dto.SessionResponse{
		TripID:    snap.ID,
		CreatedAt: snap.CreatedAt,
		Total:     len(snap.Stops),
		Stops:     make([]dto.StopProgressResponse, 0, len(snap.Stops)),
	}

	for _, sp := range snap.Stops {
		entry := dto.StopProgressResponse{
			StopIndex: sp.StopIndex,
			Name:      sp.Name,
			ETA:       sp.ETA,
			Completed: sp.Completed,
		}
		if sp.Completed {
			t := sp.CompletedAt
			entry.CompletedAt = &t
			res.Completed++
		} else if res.NextStop == "" {
			res.NextStop = sp.Name
		}
		res.Stops = append(res.Stops, entry)
	}

	for _, d := range snap.Delays {
		res.Delays = append(res.Delays, dto.DelayResponse{
			Reason:       d.Reason,
			DelaySeconds: int(d.Duration / time.Second),
			ReportedAt:   d.ReportedAt,
		})
	}

	return res
}
