package optimizer

import (
	"strings"
	"testing"
	"time"

	"route-optimizer-service/internal/domain"
)

func TestSimulateEmitsChronologicalEvents(t *testing.T) {
	stops := testStops(0, 1, 1)
	dur := domain.Matrix{
		{0, 600, 1200},
		{600, 0, 300},
		{1200, 300, 0},
	}
	start := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	ev := newEvaluator(stops, zeroMatrix(3), dur, nil, start, DefaultConfig())

	_, totalDur, events := ev.simulate(chromosome{0, 1, 2}, true)

	if totalDur != 900 {
		t.Fatalf("total duration = %v, want 900", totalDur)
	}

	want := []struct {
		kind domain.EventKind
		stop int
		at   time.Time
	}{
		{domain.EventDepart, 0, start},
		{domain.EventArrive, 1, start.Add(10 * time.Minute)},
		{domain.EventArrive, 2, start.Add(15 * time.Minute)},
	}

	if len(events) != len(want) {
		t.Fatalf("got %d events, want %d: %+v", len(events), len(want), events)
	}
	for i, w := range want {
		e := events[i]
		if e.Kind != w.kind || e.StopIndex != w.stop || !e.At.Equal(w.at) {
			t.Fatalf("event %d = %+v, want kind=%s stop=%d at=%s", i, e, w.kind, w.stop, w.at)
		}
	}
}

func TestSimulateForcedWait(t *testing.T) {
	stops := testStops(0, 1)
	dur := domain.Matrix{
		{0, 3600},
		{3600, 0},
	}
	start := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	arrival := start.Add(time.Hour)

	cfg := DefaultConfig()
	forecasts := domain.ForecastSet{
		1: {{
			At:           arrival.Add(30 * time.Minute), // inside staleness window
			RainVolumeMM: cfg.Thresholds.RainVolumeMM + 3,
			VisibilityM:  10000,
		}},
	}
	ev := newEvaluator(stops, zeroMatrix(2), dur, forecasts, start, cfg)

	_, totalDur, events := ev.simulate(chromosome{0, 1}, true)

	wantWait := int(cfg.WaitDuration / time.Second)
	if totalDur != 3600+float64(wantWait) {
		t.Fatalf("duration with waits = %v, want %v", totalDur, 3600+wantWait)
	}

	if len(events) != 3 {
		t.Fatalf("got %d events, want depart/wait/arrive: %+v", len(events), events)
	}

	wait := events[1]
	if wait.Kind != domain.EventWait || wait.StopIndex != 1 {
		t.Fatalf("second event = %+v, want wait at stop 1", wait)
	}
	if wait.WaitSeconds != wantWait {
		t.Fatalf("wait seconds = %d, want %d", wait.WaitSeconds, wantWait)
	}
	if !wait.At.Equal(arrival) {
		t.Fatalf("wait starts at %s, want arrival instant %s", wait.At, arrival)
	}
	if !strings.Contains(wait.Note, "heavy rain") {
		t.Fatalf("wait note %q missing triggering reason", wait.Note)
	}

	arrive := events[2]
	if arrive.Kind != domain.EventArrive || !arrive.At.Equal(arrival.Add(cfg.WaitDuration)) {
		t.Fatalf("arrive event = %+v, want arrival shifted by the wait", arrive)
	}
}

func TestSimulateIgnoresStaleForecast(t *testing.T) {
	stops := testStops(0, 1)
	dur := domain.Matrix{
		{0, 600},
		{600, 0},
	}
	start := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	cfg := DefaultConfig()
	forecasts := domain.ForecastSet{
		1: {{
			// Dangerous conditions, but farther from arrival than the
			// staleness window: no constraint applies.
			At:           start.Add(cfg.ForecastStaleness + 5*time.Hour),
			RainVolumeMM: 50,
			VisibilityM:  100,
		}},
	}
	ev := newEvaluator(stops, zeroMatrix(2), dur, forecasts, start, cfg)

	_, totalDur, events := ev.simulate(chromosome{0, 1}, true)

	if totalDur != 600 {
		t.Fatalf("duration = %v, want 600 (no wait)", totalDur)
	}
	for _, e := range events {
		if e.Kind == domain.EventWait {
			t.Fatalf("unexpected wait event for stale forecast: %+v", e)
		}
	}
}

func TestSimulateMissingForecastIsNoConstraint(t *testing.T) {
	stops := testStops(0, 1, 1)
	dur := domain.Matrix{
		{0, 600, 600},
		{600, 0, 600},
		{600, 600, 0},
	}
	// Forecast only for stop 1; stop 2 silently has no constraint.
	forecasts := domain.ForecastSet{1: {}}
	ev := newEvaluator(stops, zeroMatrix(3), dur, forecasts, time.Unix(0, 0).UTC(), DefaultConfig())

	_, totalDur, _ := ev.simulate(chromosome{0, 1, 2}, true)
	if totalDur != 1200 {
		t.Fatalf("duration = %v, want 1200", totalDur)
	}
}

func TestClosestSamplePicksNearest(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	samples := []domain.ForecastSample{
		{At: at.Add(-4 * time.Hour), WindSpeedMS: 1},
		{At: at.Add(-30 * time.Minute), WindSpeedMS: 2},
		{At: at.Add(2 * time.Hour), WindSpeedMS: 3},
	}

	got, ok := closestSample(samples, at, 3*time.Hour)
	if !ok {
		t.Fatal("expected a sample within the staleness window")
	}
	if got.WindSpeedMS != 2 {
		t.Fatalf("picked sample with wind %v, want the nearest (2)", got.WindSpeedMS)
	}
}
