package services

import (
	"errors"
	"testing"
	"time"

	"route-optimizer-service/internal/domain"
)

func sessionResult() *domain.RouteResult {
	depart := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	return &domain.RouteResult{
		Status: domain.StatusSuccess,
		Stops: []domain.Stop{
			{Index: 0, Name: "Delhi"},
			{Index: 1, Name: "Jaipur"},
			{Index: 2, Name: "Mumbai"},
		},
		Timeline: []domain.TravelEvent{
			{StopIndex: 0, Kind: domain.EventDepart, At: depart},
			{StopIndex: 1, Kind: domain.EventArrive, At: depart.Add(5 * time.Hour)},
			{StopIndex: 1, Kind: domain.EventDepart, At: depart.Add(5 * time.Hour)},
			{StopIndex: 2, Kind: domain.EventArrive, At: depart.Add(25 * time.Hour)},
		},
	}
}

func TestSessionCreateAndGet(t *testing.T) {
	store := NewSessionStore()
	id := store.Create(sessionResult())

	snap, err := store.Get(id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(snap.Stops) != 2 {
		t.Fatalf("expected 2 tracked stops (origin excluded), got %d", len(snap.Stops))
	}
	if snap.Stops[0].Name != "Jaipur" || snap.Stops[1].Name != "Mumbai" {
		t.Fatalf("tracked stops = %q, %q; want Jaipur, Mumbai", snap.Stops[0].Name, snap.Stops[1].Name)
	}

	wantETA := time.Date(2026, 3, 2, 13, 0, 0, 0, time.UTC)
	if !snap.Stops[0].ETA.Equal(wantETA) {
		t.Fatalf("Jaipur ETA = %v, want %v", snap.Stops[0].ETA, wantETA)
	}
}

func TestSessionGetUnknown(t *testing.T) {
	store := NewSessionStore()
	if _, err := store.Get("trip-99"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("err = %v, want ErrSessionNotFound", err)
	}
}

func TestSessionCompleteStop(t *testing.T) {
	store := NewSessionStore()
	id := store.Create(sessionResult())

	snap, err := store.CompleteStop(id, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !snap.Stops[0].Completed {
		t.Fatal("Jaipur should be marked completed")
	}
	if snap.Stops[1].Completed {
		t.Fatal("Mumbai should not be completed")
	}

	if _, err := store.CompleteStop(id, 1); !errors.Is(err, ErrStopCompleted) {
		t.Fatalf("double completion err = %v, want ErrStopCompleted", err)
	}
	if _, err := store.CompleteStop(id, 99); !errors.Is(err, ErrUnknownStop) {
		t.Fatalf("unknown stop err = %v, want ErrUnknownStop", err)
	}
}

func TestSessionTracksDuplicateStopNamesSeparately(t *testing.T) {
	depart := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	result := &domain.RouteResult{
		Status: domain.StatusSuccess,
		Stops: []domain.Stop{
			{Index: 0, Name: "Depot"},
			{Index: 1, Name: "Warehouse"},
			{Index: 2, Name: "Warehouse"},
		},
		Timeline: []domain.TravelEvent{
			{StopIndex: 0, Kind: domain.EventDepart, At: depart},
			{StopIndex: 1, Kind: domain.EventArrive, At: depart.Add(2 * time.Hour)},
			{StopIndex: 2, Kind: domain.EventArrive, At: depart.Add(4 * time.Hour)},
		},
	}

	store := NewSessionStore()
	id := store.Create(result)

	snap, err := store.Get(id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(snap.Stops) != 2 {
		t.Fatalf("expected 2 tracked stops, got %d", len(snap.Stops))
	}
	if snap.Stops[0].ETA.Equal(snap.Stops[1].ETA) {
		t.Fatal("duplicate names must keep distinct ETAs")
	}

	if _, err := store.CompleteStop(id, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	snap, err = store.CompleteStop(id, 2)
	if err != nil {
		t.Fatalf("second stop with the same name must be completable: %v", err)
	}
	if !snap.Stops[0].Completed || !snap.Stops[1].Completed {
		t.Fatalf("both duplicate-name stops should be completed: %+v", snap.Stops)
	}
}

func TestSessionReportDelayShiftsPendingETAs(t *testing.T) {
	store := NewSessionStore()
	id := store.Create(sessionResult())

	before, err := store.Get(id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	jaipurETA := before.Stops[0].ETA
	mumbaiETA := before.Stops[1].ETA

	if _, err := store.CompleteStop(id, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	snap, err := store.ReportDelay(id, 90*time.Minute, "flat tire")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !snap.Stops[0].ETA.Equal(jaipurETA) {
		t.Fatalf("completed stop ETA moved: %v, want %v", snap.Stops[0].ETA, jaipurETA)
	}
	if !snap.Stops[1].ETA.Equal(mumbaiETA.Add(90 * time.Minute)) {
		t.Fatalf("pending stop ETA = %v, want %v", snap.Stops[1].ETA, mumbaiETA.Add(90*time.Minute))
	}
	if len(snap.Delays) != 1 || snap.Delays[0].Reason != "flat tire" {
		t.Fatalf("delays = %+v, want one report with reason \"flat tire\"", snap.Delays)
	}
}

func TestSessionReportDelayRejectsNonPositive(t *testing.T) {
	store := NewSessionStore()
	id := store.Create(sessionResult())

	if _, err := store.ReportDelay(id, 0, "nothing"); err == nil {
		t.Fatal("expected error for zero delay")
	}
}

func TestSessionProgress(t *testing.T) {
	store := NewSessionStore()
	id := store.Create(sessionResult())

	report, err := store.Progress(id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Completed != 0 || report.Total != 2 {
		t.Fatalf("progress = %d/%d, want 0/2", report.Completed, report.Total)
	}
	if report.NextStop != "Jaipur" {
		t.Fatalf("next stop = %q, want Jaipur", report.NextStop)
	}

	if _, err := store.CompleteStop(id, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	report, err = store.Progress(id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Completed != 1 {
		t.Fatalf("completed = %d, want 1", report.Completed)
	}
	if report.NextStop != "Mumbai" {
		t.Fatalf("next stop = %q, want Mumbai", report.NextStop)
	}
}

func TestSessionIDsAreUnique(t *testing.T) {
	store := NewSessionStore()
	a := store.Create(sessionResult())
	b := store.Create(sessionResult())
	if a == b {
		t.Fatalf("expected distinct session ids, got %q twice", a)
	}
}
