package services

import (
	"context"
	"errors"
	"testing"

	"route-optimizer-service/internal/adapters/cache"
	"route-optimizer-service/internal/adapters/traffic"
	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/ports"
)

func TestClassifyCongestion(t *testing.T) {
	cases := []struct {
		ratio float64
		want  CongestionLevel
	}{
		{1.0, CongestionFreeFlow},
		{0.8, CongestionFreeFlow},
		{0.79, CongestionLight},
		{0.6, CongestionLight},
		{0.59, CongestionModerate},
		{0.4, CongestionModerate},
		{0.39, CongestionHeavy},
		{0.2, CongestionHeavy},
		{0.19, CongestionSevere},
		{0.0, CongestionSevere},
	}

	for _, c := range cases {
		if got := classifyCongestion(c.ratio); got != c.want {
			t.Errorf("classifyCongestion(%.2f) = %q, want %q", c.ratio, got, c.want)
		}
	}
}

func TestSpeedRatioClampsAndHandlesZeroFreeFlow(t *testing.T) {
	if r := speedRatio(ports.FlowSegment{CurrentSpeedKmh: 90, FreeFlowSpeedKmh: 60}); r != 1.0 {
		t.Fatalf("ratio above free flow = %v, want 1.0", r)
	}
	if r := speedRatio(ports.FlowSegment{CurrentSpeedKmh: 30, FreeFlowSpeedKmh: 0}); r != 1.0 {
		t.Fatalf("ratio with zero free flow = %v, want 1.0", r)
	}
}

func TestAnalyzeTrafficPerStopAndOverall(t *testing.T) {
	stops := []domain.Stop{
		{Index: 0, Name: "Delhi", Coord: domain.Coordinates{Lat: 28.61, Lon: 77.21}},
		{Index: 1, Name: "Jaipur", Coord: domain.Coordinates{Lat: 26.91, Lon: 75.79}},
		{Index: 2, Name: "Mumbai", Coord: domain.Coordinates{Lat: 19.08, Lon: 72.88}},
	}

	provider := &traffic.MockTrafficProvider{
		Segments: map[string]ports.FlowSegment{
			cache.CoordKey(stops[0].Coord): {CurrentSpeedKmh: 55, FreeFlowSpeedKmh: 60, CurrentTravelTimeSec: 120, FreeFlowTravelTimeSec: 110},
			cache.CoordKey(stops[1].Coord): {CurrentSpeedKmh: 30, FreeFlowSpeedKmh: 60, CurrentTravelTimeSec: 240, FreeFlowTravelTimeSec: 120},
			cache.CoordKey(stops[2].Coord): {CurrentSpeedKmh: 6, FreeFlowSpeedKmh: 60, CurrentTravelTimeSec: 1200, FreeFlowTravelTimeSec: 120},
		},
	}

	report, err := AnalyzeTraffic(context.Background(), stops, provider)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(report.Stops) != 3 {
		t.Fatalf("expected 3 stop entries, got %d", len(report.Stops))
	}

	wantLevels := map[string]CongestionLevel{
		"Delhi":  CongestionFreeFlow,
		"Jaipur": CongestionModerate,
		"Mumbai": CongestionSevere,
	}
	for _, st := range report.Stops {
		if st.Level != wantLevels[st.StopName] {
			t.Errorf("%s level = %q, want %q", st.StopName, st.Level, wantLevels[st.StopName])
		}
	}

	// One severe stop out of three is a 33% share, over the route
	// severity threshold.
	if report.Overall != RouteCongestionSevere {
		t.Fatalf("overall = %q, want severe", report.Overall)
	}
}

func TestAnalyzeTrafficOverallThresholds(t *testing.T) {
	if got := classifyRoute(0, 10); got != RouteCongestionNormal {
		t.Fatalf("0/10 = %q, want normal", got)
	}
	if got := classifyRoute(2, 10); got != RouteCongestionModerate {
		t.Fatalf("2/10 = %q, want moderate", got)
	}
	if got := classifyRoute(4, 10); got != RouteCongestionSevere {
		t.Fatalf("4/10 = %q, want severe", got)
	}
}

func TestAnalyzeTrafficNoProvider(t *testing.T) {
	stops := []domain.Stop{{Name: "Delhi"}}
	if _, err := AnalyzeTraffic(context.Background(), stops, nil); err == nil {
		t.Fatal("expected error without a traffic provider")
	}
}

func TestAnalyzeTrafficAllLookupsFail(t *testing.T) {
	stops := []domain.Stop{{Name: "Delhi"}}
	provider := &traffic.MockTrafficProvider{Err: errors.New("tomtom down")}
	if _, err := AnalyzeTraffic(context.Background(), stops, provider); err == nil {
		t.Fatal("expected error when no stop has flow data")
	}
}
