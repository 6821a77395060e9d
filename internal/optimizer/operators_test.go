package optimizer

import (
	"math/rand"
	"testing"
)

// assertPermutation checks the central invariant: origin pinned at position 0
// and every other index present exactly once.
func assertPermutation(t *testing.T, c chromosome, n int) {
	t.Helper()

	if len(c) != n {
		t.Fatalf("chromosome length = %d, want %d", len(c), n)
	}
	if c[0] != 0 {
		t.Fatalf("origin not pinned: position 0 holds %d", c[0])
	}

	seen := make([]bool, n)
	for _, g := range c {
		if g < 0 || g >= n {
			t.Fatalf("gene %d out of range [0,%d)", g, n)
		}
		if seen[g] {
			t.Fatalf("duplicate gene %d", g)
		}
		seen[g] = true
	}
}

func TestInitialPopulationIsValid(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for _, n := range []int{2, 3, 5, 12, 40} {
		pop := initialPopulation(n, 30, rng)
		if len(pop) != 30 {
			t.Fatalf("population size = %d, want 30", len(pop))
		}
		for _, c := range pop {
			assertPermutation(t, c, n)
		}
	}
}

func TestOrderCrossoverAlwaysProducesValidPermutation(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	// Exhaust crossover over many random parent pairs and sizes: the child
	// must never gain a duplicate or lose an index.
	for _, n := range []int{2, 3, 4, 5, 8, 15, 30} {
		for trial := 0; trial < 500; trial++ {
			p1 := randomChromosome(n, rng)
			p2 := randomChromosome(n, rng)
			child := orderCrossover(p1, p2, rng)
			assertPermutation(t, child, n)
		}
	}
}

func TestOrderCrossoverIdenticalParentsYieldClone(t *testing.T) {
	// Sweep seeds so the cyclic fill is exercised across all cut points:
	// a converged population must reproduce itself exactly.
	for seed := int64(0); seed < 200; seed++ {
		rng := rand.New(rand.NewSource(seed))

		for _, n := range []int{2, 3, 6, 11} {
			p := randomChromosome(n, rng)
			child := orderCrossover(p, p, rng)

			for i := range p {
				if child[i] != p[i] {
					t.Fatalf("seed %d n=%d: child diverges from identical parents at %d: got %v, want %v",
						seed, n, i, child, p)
				}
			}
		}
	}
}

func TestSwapMutatePreservesPermutation(t *testing.T) {
	rng := rand.New(rand.NewSource(11))

	for trial := 0; trial < 200; trial++ {
		c := randomChromosome(9, rng)
		swapMutate(c, 1.0, rng)
		assertPermutation(t, c, 9)
	}
}

func TestSwapMutateNeverTouchesOrigin(t *testing.T) {
	rng := rand.New(rand.NewSource(13))

	for trial := 0; trial < 200; trial++ {
		c := randomChromosome(5, rng)
		swapMutate(c, 1.0, rng)
		if c[0] != 0 {
			t.Fatalf("mutation moved the origin: %v", c)
		}
	}
}

func TestSwapMutateZeroRateIsNoop(t *testing.T) {
	rng := rand.New(rand.NewSource(17))

	c := randomChromosome(8, rng)
	before := c.clone()
	swapMutate(c, 0, rng)

	for i := range c {
		if c[i] != before[i] {
			t.Fatalf("zero-rate mutation changed the chromosome: %v -> %v", before, c)
		}
	}
}

func TestTournamentSelectPicksLowestCost(t *testing.T) {
	rng := rand.New(rand.NewSource(19))

	pop := []chromosome{
		{0, 1, 2},
		{0, 2, 1},
	}
	costs := []float64{50, 10}

	// With k == len(pop) the tournament always sees every candidate.
	for trial := 0; trial < 20; trial++ {
		winner := tournamentSelect(pop, costs, 2, rng)
		if winner[1] != 2 {
			t.Fatalf("tournament picked higher-cost candidate %v", winner)
		}
	}
}
