package optimizer

import (
	"testing"
	"time"

	"route-optimizer-service/internal/domain"
)

func testStops(tags ...int) []domain.Stop {
	stops := make([]domain.Stop, len(tags))
	for i, tag := range tags {
		stops[i] = domain.Stop{Index: i, Name: string(rune('A' + i)), SequenceTag: tag}
	}
	return stops
}

func zeroMatrix(n int) domain.Matrix {
	m := make(domain.Matrix, n)
	for i := range m {
		m[i] = make([]float64, n)
	}
	return m
}

func TestOrderingViolations(t *testing.T) {
	// Tags: origin=0, A=1, B=3, C=3. B and C share a tag and are free
	// relative to each other; both must come after A.
	tags := []int{0, 1, 3, 3}

	cases := []struct {
		name  string
		order chromosome
		want  int
	}{
		{"respects all tags", chromosome{0, 1, 2, 3}, 0},
		{"shared tags swap freely", chromosome{0, 1, 3, 2}, 0},
		{"one tagged stop early", chromosome{0, 2, 1, 3}, 1},
		{"both tagged stops early", chromosome{0, 2, 3, 1}, 2},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := orderingViolations(tc.order, tags); got != tc.want {
				t.Fatalf("violations(%v) = %d, want %d", tc.order, got, tc.want)
			}
		})
	}
}

func TestCostZeroMatrixBoundary(t *testing.T) {
	stops := testStops(0, 1, 1, 1)
	ev := newEvaluator(stops, zeroMatrix(4), zeroMatrix(4), nil, time.Unix(0, 0).UTC(), DefaultConfig())

	// With all-zero matrices and no weather, every permutation costs zero.
	orders := []chromosome{
		{0, 1, 2, 3},
		{0, 3, 2, 1},
		{0, 2, 1, 3},
	}
	for _, c := range orders {
		dist, dur, _ := ev.simulate(c, false)
		if dist != 0 {
			t.Fatalf("distance(%v) = %v, want 0", c, dist)
		}
		if dur != 0 {
			t.Fatalf("duration(%v) = %v, want 0", c, dur)
		}
		if got := ev.cost(c); got != 0 {
			t.Fatalf("cost(%v) = %v, want 0", c, got)
		}
	}
}

func TestCostOrderPenaltyDominates(t *testing.T) {
	stops := testStops(0, 1, 2)
	dist := domain.Matrix{
		{0, 100, 200},
		{100, 0, 150},
		{200, 150, 0},
	}
	dur := domain.Matrix{
		{0, 60, 120},
		{60, 0, 90},
		{120, 90, 0},
	}
	ev := newEvaluator(stops, dist, dur, nil, time.Unix(0, 0).UTC(), DefaultConfig())

	valid := ev.cost(chromosome{0, 1, 2})
	violating := ev.cost(chromosome{0, 2, 1})

	if violating <= valid {
		t.Fatalf("violating order cost %v not above valid order cost %v", violating, valid)
	}
	if violating-valid < DefaultConfig().OrderPenalty/2 {
		t.Fatalf("penalty gap %v too small to dominate travel savings", violating-valid)
	}
}

func TestCostHonorsAsymmetricMatrices(t *testing.T) {
	stops := testStops(0, 0, 0)
	dist := domain.Matrix{
		{0, 10, 999},
		{999, 0, 10},
		{10, 999, 0},
	}
	dur := zeroMatrix(3)
	ev := newEvaluator(stops, dist, dur, nil, time.Unix(0, 0).UTC(), DefaultConfig())

	forward, _, _ := ev.simulate(chromosome{0, 1, 2}, false)
	backward, _, _ := ev.simulate(chromosome{0, 2, 1}, false)

	if forward != 20 {
		t.Fatalf("forward distance = %v, want 20", forward)
	}
	if backward != 1998 {
		t.Fatalf("backward distance = %v, want 1998", backward)
	}
}
