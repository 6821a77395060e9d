package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/ports"
)

type CongestionLevel string

const (
	CongestionFreeFlow CongestionLevel = "free_flow"
	CongestionLight    CongestionLevel = "light"
	CongestionModerate CongestionLevel = "moderate"
	CongestionHeavy    CongestionLevel = "heavy"
	CongestionSevere   CongestionLevel = "severe"
)

type RouteCongestion string

const (
	RouteCongestionNormal   RouteCongestion = "normal"
	RouteCongestionModerate RouteCongestion = "moderate"
	RouteCongestionSevere   RouteCongestion = "severe"
)

type StopTraffic struct {
	StopName        string
	Level           CongestionLevel
	SpeedRatio      float64
	DelayFactor     float64
	CurrentSpeedKmh float64
}

type TrafficReport struct {
	Stops   []StopTraffic
	Overall RouteCongestion
}

type segmentResult struct {
	index   int
	segment ports.FlowSegment
	err     error
}

// AnalyzeTraffic queries live flow data around each stop and classifies
// congestion per stop plus an overall route verdict. Lookups that fail
// are logged and skipped rather than failing the whole report.
func AnalyzeTraffic(
	ctx context.Context,
	stops []domain.Stop,
	provider ports.TrafficProvider,
) (*TrafficReport, error) {
	if provider == nil {
		return nil, errors.New("analyze traffic: no traffic provider configured")
	}
	if len(stops) == 0 {
		return nil, errors.New("analyze traffic: no stops given")
	}

	sem := make(chan struct{}, 5)
	resultsCh := make(chan segmentResult, len(stops))
	var wg sync.WaitGroup

	for i, stop := range stops {
		wg.Add(1)
		go func(idx int, s domain.Stop) {
			sem <- struct{}{}
			defer wg.Done()
			defer func() { <-sem }()

			seg, err := provider.GetFlowSegment(ctx, s.Coord)
			if err != nil {
				resultsCh <- segmentResult{index: idx, err: fmt.Errorf("flow segment near %q: %w", s.Name, err)}
				return
			}
			resultsCh <- segmentResult{index: idx, segment: seg}
		}(i, stop)
	}

	wg.Wait()
	close(resultsCh)

	segments := make(map[int]ports.FlowSegment, len(stops))
	for res := range resultsCh {
		if res.err != nil {
			log.Printf("level=WARN service=traffic_report msg=\"flow lookup failed\" err=%q", res.err)
			continue
		}
		segments[res.index] = res.segment
	}
	if len(segments) == 0 {
		return nil, errors.New("analyze traffic: no flow data for any stop")
	}

	report := &TrafficReport{Stops: make([]StopTraffic, 0, len(segments))}
	severeCount := 0
	for i, stop := range stops {
		seg, ok := segments[i]
		if !ok {
			continue
		}

		ratio := speedRatio(seg)
		level := classifyCongestion(ratio)
		if level == CongestionSevere {
			severeCount++
		}

		report.Stops = append(report.Stops, StopTraffic{
			StopName:        stop.Name,
			Level:           level,
			SpeedRatio:      ratio,
			DelayFactor:     delayFactor(seg),
			CurrentSpeedKmh: seg.CurrentSpeedKmh,
		})
	}

	report.Overall = classifyRoute(severeCount, len(report.Stops))
	return report, nil
}

// Ratio of current speed to free-flow speed, clamped to [0, 1].
func speedRatio(seg ports.FlowSegment) float64 {
	if seg.FreeFlowSpeedKmh <= 0 {
		return 1.0
	}
	ratio := seg.CurrentSpeedKmh / seg.FreeFlowSpeedKmh
	if ratio > 1.0 {
		return 1.0
	}
	if ratio < 0 {
		return 0
	}
	return ratio
}

// How much longer the segment takes now versus free flow. 1.0 means no
// delay.
func delayFactor(seg ports.FlowSegment) float64 {
	if seg.FreeFlowTravelTimeSec <= 0 {
		return 1.0
	}
	return seg.CurrentTravelTimeSec / seg.FreeFlowTravelTimeSec
}

func classifyCongestion(ratio float64) CongestionLevel {
	switch {
	case ratio >= 0.8:
		return CongestionFreeFlow
	case ratio >= 0.6:
		return CongestionLight
	case ratio >= 0.4:
		return CongestionModerate
	case ratio >= 0.2:
		return CongestionHeavy
	default:
		return CongestionSevere
	}
}

func classifyRoute(severe, total int) RouteCongestion {
	if total == 0 {
		return RouteCongestionNormal
	}
	share := float64(severe) / float64(total)
	switch {
	case share > 0.3:
		return RouteCongestionSevere
	case share > 0.15:
		return RouteCongestionModerate
	default:
		return RouteCongestionNormal
	}
}
