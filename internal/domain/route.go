package domain

import "time"

// EventKind classifies entries in a route timeline.
type EventKind string

const (
	EventDepart EventKind = "depart"
	EventArrive EventKind = "arrive"
	EventWait   EventKind = "wait"
)

// TravelEvent is one entry in the simulated timeline of a route.
// Events are produced in strict chronological, visiting order.
// WaitSeconds is set only for EventWait.
type TravelEvent struct {
	StopIndex   int
	Kind        EventKind
	At          time.Time
	WaitSeconds int
	Note        string
}

// ResultStatus is the outcome status of an optimization run.
type ResultStatus string

const (
	StatusSuccess ResultStatus = "success"
	StatusFailure ResultStatus = "failure"
)

// FailureReason is a machine-readable code for a failed run.
type FailureReason string

const (
	ReasonInsufficientStops FailureReason = "insufficient_stops"
	ReasonMissingCostData   FailureReason = "missing_cost_data"
)

// RouteResult is the external-facing outcome of one optimization run.
//
// On success, Stops holds the full input stop set in optimized visiting
// order (origin first), Timeline the re-simulated event log of that order,
// and TotalDurationSeconds includes any forced weather waits. On failure,
// Reason is set and all result fields are zero.
type RouteResult struct {
	Status               ResultStatus
	Reason               FailureReason
	Stops                []Stop
	TotalDistanceMeters  float64
	TotalDurationSeconds float64
	OrderingViolations   int
	WeatherAlerts        []string
	Timeline             []TravelEvent
}

// Failure builds a RouteResult tagged with the given reason.
func Failure(reason FailureReason) *RouteResult {
	return &RouteResult{Status: StatusFailure, Reason: reason}
}
