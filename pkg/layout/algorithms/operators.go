package algorithms

import (
	"math/rand/v2"

	"github.com/keyboard-ga/layout-optimizer/pkg/layout/framework"
)

// RandomLayout returns a uniformly random permutation of the catalog slots
// using a Fisher-Yates shuffle.
func RandomLayout(rng *rand.Rand) framework.Layout {
	l := framework.IdentityLayout()
	for i := len(l) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		l[i], l[j] = l[j], l[i]
	}
	return l
}

// TournamentSelect draws k individuals uniformly with replacement and returns
// the fittest of them. The first drawn wins a tie.
func TournamentSelect(population []framework.Individual, k int, rng *rand.Rand) framework.Individual {
	best := population[rng.IntN(len(population))]

	for i := 1; i < k; i++ {
		contestant := population[rng.IntN(len(population))]
		if framework.Better(contestant, best) {
			best = contestant
		}
	}

	return best
}

// OrderCrossover (OX) copies parent1's slots on letter indices [start, end]
// and fills the other indices, starting right after end and wrapping around,
// with the remaining slots in the order they appear in parent2.
// start and end are swapped when start > end.
func OrderCrossover(parent1, parent2 framework.Layout, start, end int) framework.Layout {
	if start > end {
		start, end = end, start
	}

	var child framework.Layout
	var used [framework.NumLetters]bool
	for i := start; i <= end; i++ {
		child[i] = parent1[i]
		used[parent1[i]] = true
	}

	next := (end + 1) % framework.NumLetters
	for _, slot := range parent2 {
		if used[slot] {
			continue
		}
		child[next] = slot
		used[slot] = true
		next = (next + 1) % framework.NumLetters
	}

	return child
}

// Swap exchanges the slots of letter indices i and j.
func Swap(l framework.Layout, i, j int) framework.Layout {
	l[i], l[j] = l[j], l[i]
	return l
}

// SwapMutation swaps the slots of two random letters with probability rate.
// It makes one trial per call, not one per letter.
func SwapMutation(l framework.Layout, rate float64, rng *rand.Rand) framework.Layout {
	if rng.Float64() < rate {
		return Swap(l, rng.IntN(framework.NumLetters), rng.IntN(framework.NumLetters))
	}
	return l
}
