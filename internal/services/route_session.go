package services

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"route-optimizer-service/internal/domain"
)

var (
	ErrSessionNotFound = errors.New("route session not found")
	ErrUnknownStop     = errors.New("stop is not part of this route")
	ErrStopCompleted   = errors.New("stop already completed")
)

type StopProgress struct {
	StopIndex   int
	Name        string
	ETA         time.Time
	Completed   bool
	CompletedAt time.Time
}

type DelayReport struct {
	Reason     string
	Duration   time.Duration
	ReportedAt time.Time
}

type routeSession struct {
	id        string
	createdAt time.Time
	result    *domain.RouteResult
	stops     []StopProgress
	delays    []DelayReport
}

type SessionSnapshot struct {
	ID        string
	CreatedAt time.Time
	Result    *domain.RouteResult
	Stops     []StopProgress
	Delays    []DelayReport
}

type ProgressReport struct {
	ID            string
	Completed     int
	Total         int
	NextStopIndex int
	NextStop      string
	NextETA       time.Time
}

// SessionStore keeps in-flight route sessions in memory so drivers can
// mark stops completed and report delays against a previously optimized
// route. Sessions live for the process lifetime.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*routeSession
	counter  int
	now      func() time.Time
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*routeSession),
		now:      time.Now,
	}
}

// Create registers a new session for an optimized route and returns its
// id. Per-stop ETAs are taken from the arrival events of the result
// timeline; the origin has no arrival and is excluded from progress.
// Progress is keyed by stop index, so stops sharing a name stay distinct.
func (s *SessionStore) Create(result *domain.RouteResult) string {
	names := make(map[int]string, len(result.Stops))
	for _, stop := range result.Stops {
		names[stop.Index] = stop.Name
	}

	stops := make([]StopProgress, 0, len(result.Stops))
	for _, ev := range result.Timeline {
		if ev.Kind != domain.EventArrive {
			continue
		}
		stops = append(stops, StopProgress{
			StopIndex: ev.StopIndex,
			Name:      names[ev.StopIndex],
			ETA:       ev.At,
		})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.counter++
	id := fmt.Sprintf("trip-%d", s.counter)
	s.sessions[id] = &routeSession{
		id:        id,
		createdAt: s.now(),
		result:    result,
		stops:     stops,
	}

	return id
}

func (s *SessionStore) Get(id string) (SessionSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return SessionSnapshot{}, fmt.Errorf("get session %q: %w", id, ErrSessionNotFound)
	}
	return sess.snapshot(), nil
}

// CompleteStop marks the stop with the given index as visited.
func (s *SessionStore) CompleteStop(id string, stopIndex int) (SessionSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return SessionSnapshot{}, fmt.Errorf("complete stop %d: %w", stopIndex, ErrSessionNotFound)
	}

	for i := range sess.stops {
		if sess.stops[i].StopIndex != stopIndex {
			continue
		}
		if sess.stops[i].Completed {
			return SessionSnapshot{}, fmt.Errorf("complete stop %d on %q: %w", stopIndex, id, ErrStopCompleted)
		}
		sess.stops[i].Completed = true
		sess.stops[i].CompletedAt = s.now()
		return sess.snapshot(), nil
	}

	return SessionSnapshot{}, fmt.Errorf("complete stop %d on %q: %w", stopIndex, id, ErrUnknownStop)
}

// ReportDelay records a delay and pushes the ETA of every stop not yet
// completed back by the delay duration.
func (s *SessionStore) ReportDelay(id string, delay time.Duration, reason string) (SessionSnapshot, error) {
	if delay <= 0 {
		return SessionSnapshot{}, fmt.Errorf("report delay on %q: duration must be positive", id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return SessionSnapshot{}, fmt.Errorf("report delay on %q: %w", id, ErrSessionNotFound)
	}

	sess.delays = append(sess.delays, DelayReport{
		Reason:     reason,
		Duration:   delay,
		ReportedAt: s.now(),
	})

	for i := range sess.stops {
		if !sess.stops[i].Completed {
			sess.stops[i].ETA = sess.stops[i].ETA.Add(delay)
		}
	}

	return sess.snapshot(), nil
}

// Progress reports how far along the route the driver is and which stop
// comes next.
func (s *SessionStore) Progress(id string) (ProgressReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return ProgressReport{}, fmt.Errorf("progress for %q: %w", id, ErrSessionNotFound)
	}

	report := ProgressReport{ID: id, Total: len(sess.stops), NextStopIndex: -1}
	for _, sp := range sess.stops {
		if sp.Completed {
			report.Completed++
		} else if report.NextStopIndex < 0 {
			report.NextStopIndex = sp.StopIndex
			report.NextStop = sp.Name
			report.NextETA = sp.ETA
		}
	}

	return report, nil
}

func (rs *routeSession) snapshot() SessionSnapshot {
	stops := make([]StopProgress, len(rs.stops))
	copy(stops, rs.stops)
	delays := make([]DelayReport, len(rs.delays))
	copy(delays, rs.delays)

	return SessionSnapshot{
		ID:        rs.id,
		CreatedAt: rs.createdAt,
		Result:    rs.result,
		Stops:     stops,
		Delays:    delays,
	}
}
