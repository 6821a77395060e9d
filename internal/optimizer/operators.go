package optimizer

import "math/rand"

// tournamentSelect samples k distinct chromosomes uniformly without
// replacement and returns the one with the lowest cost. costs is aligned
// with pop by index.
func tournamentSelect(pop []chromosome, costs []float64, k int, rng *rand.Rand) chromosome {
	if k > len(pop) {
		k = len(pop)
	}
	picks := rng.Perm(len(pop))[:k]

	best := picks[0]
	for _, i := range picks[1:] {
		if costs[i] < costs[best] {
			best = i
		}
	}
	return pop[best]
}

// orderCrossover recombines two parents with fixed-origin OX1.
//
// It operates only on the non-origin suffix: a slice [a,b) of parent 1 is
// copied in place, and the remaining positions are filled, starting at b and
// wrapping, with parent 2's genes scanned cyclically from b, skipping genes
// already present. The child is always a valid permutation with the origin
// at position 0, and identical parents reproduce themselves exactly.
func orderCrossover(p1, p2 chromosome, rng *rand.Rand) chromosome {
	n := len(p1) - 1
	if n < 2 {
		return p1.clone()
	}

	a := rng.Intn(n)
	b := rng.Intn(n)
	if a > b {
		a, b = b, a
	}

	suffix := make([]int, n)
	used := make(map[int]bool, n)
	for i := range suffix {
		suffix[i] = -1
	}
	for i := a; i < b; i++ {
		g := p1[i+1]
		suffix[i] = g
		used[g] = true
	}

	idx := b
	for t := 0; t < n; t++ {
		g := p2[1+(b+t)%n]
		if used[g] {
			continue
		}
		if idx >= n {
			idx = 0
		}
		suffix[idx] = g
		used[g] = true
		idx++
	}

	child := make(chromosome, 0, n+1)
	child = append(child, p1[0])
	child = append(child, suffix...)
	return child
}

// swapMutate swaps two distinct non-origin genes with probability rate.
// Applied once per child, not per gene.
func swapMutate(c chromosome, rate float64, rng *rand.Rand) {
	if len(c) < 3 || rng.Float64() >= rate {
		return
	}
	i := 1 + rng.Intn(len(c)-1)
	j := 1 + rng.Intn(len(c)-2)
	if j >= i {
		j++
	}
	c[i], c[j] = c[j], c[i]
}
