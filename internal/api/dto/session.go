package dto

import "time"

type CompleteStopRequest struct {
	StopIndex *int `json:"stop_index"`
}

type ReportDelayRequest struct {
	DelaySeconds int    `json:"delay_seconds"`
	Reason       string `json:"reason"`
}

type StopProgressResponse struct {
	StopIndex   int        `json:"stop_index"`
	Name        string     `json:"name"`
	ETA         time.Time  `json:"eta"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

type DelayResponse struct {
	Reason       string    `json:"reason"`
	DelaySeconds int       `json:"delay_seconds"`
	ReportedAt   time.Time `json:"reported_at"`
}

type SessionResponse struct {
	TripID    string                 `json:"trip_id"`
	CreatedAt time.Time              `json:"created_at"`
	Completed int                    `json:"completed"`
	Total     int                    `json:"total"`
	NextStop  string                 `json:"next_stop,omitempty"`
	Stops     []StopProgressResponse `json:"stops"`
	Delays    []DelayResponse        `json:"delays,omitempty"`
}
