package optimizer

import "math/rand"

// chromosome is one candidate visiting order: a permutation of all stop
// indices with the fixed origin (index 0 of the input list) pinned at
// position 0. Every operator in this package preserves that invariant.
type chromosome []int

func (c chromosome) clone() chromosome {
	out := make(chromosome, len(c))
	copy(out, c)
	return out
}

// randomChromosome builds a valid chromosome by construction: the origin
// followed by a uniform shuffle of the remaining indices.
func randomChromosome(n int, rng *rand.Rand) chromosome {
	c := make(chromosome, n)
	c[0] = 0
	for i := 1; i < n; i++ {
		c[i] = i
	}
	rng.Shuffle(n-1, func(i, j int) {
		c[i+1], c[j+1] = c[j+1], c[i+1]
	})
	return c
}

// initialPopulation creates size chromosomes over n stops.
func initialPopulation(n, size int, rng *rand.Rand) []chromosome {
	pop := make([]chromosome, 0, size)
	for i := 0; i < size; i++ {
		pop = append(pop, randomChromosome(n, rng))
	}
	return pop
}
