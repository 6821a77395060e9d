package dto

import "time"

// StopRequest names one visit target. Lat/Lon are pointers so "no
// coordinates supplied, geocode by name" is distinguishable from a stop
// legitimately located at zero.
type StopRequest struct {
	Name        string   `json:"name"`
	Lat         *float64 `json:"lat"`
	Lon         *float64 `json:"lon"`
	SequenceTag *int     `json:"sequence_tag"`
}

type OptimizeRequest struct {
	Stops    []StopRequest `json:"stops"`
	DepartAt *time.Time    `json:"depart_at"`
	Seed     *int64        `json:"seed"`
}

type StopResponse struct {
	Name        string  `json:"name"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	SequenceTag int     `json:"sequence_tag"`
}

type TimelineEventResponse struct {
	Stop        string    `json:"stop"`
	Kind        string    `json:"kind"`
	At          time.Time `json:"at"`
	WaitSeconds int       `json:"wait_seconds,omitempty"`
	Note        string    `json:"note,omitempty"`
}

type OptimizeResponse struct {
	TripID               string                  `json:"trip_id,omitempty"`
	Status               string                  `json:"status"`
	Reason               string                  `json:"reason,omitempty"`
	Stops                []StopResponse          `json:"stops,omitempty"`
	TotalDistanceMeters  float64                 `json:"total_distance_meters"`
	TotalDurationSeconds float64                 `json:"total_duration_seconds"`
	OrderingViolations   int                     `json:"ordering_violations"`
	WeatherAlerts        []string                `json:"weather_alerts,omitempty"`
	Timeline             []TimelineEventResponse `json:"timeline,omitempty"`
}
