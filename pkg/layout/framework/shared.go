package framework

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// RankByFitness evaluates every layout once and returns the individuals ordered
// by descending fitness. Ties keep their population order.
func RankByFitness(population []Layout, p Problem) []Individual {
	ranked := make([]Individual, len(population))
	for i, l := range population {
		cost := p.Cost(l)
		ranked[i] = Individual{
			Layout:  l,
			Cost:    cost,
			Fitness: -cost,
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return Better(ranked[i], ranked[j])
	})

	return ranked
}

// Better checks if individual a is strictly fitter than individual b
func Better(a, b Individual) bool {
	return a.Fitness > b.Fitness
}

// Summarize computes the cost statistics of a ranked population.
// ranked must be ordered as returned by RankByFitness.
func Summarize(generation int, ranked []Individual) GenerationStats {
	s := GenerationStats{Generation: generation}
	if len(ranked) == 0 {
		return s
	}

	costs := make([]float64, len(ranked))
	for i, ind := range ranked {
		costs[i] = ind.Cost
	}
	s.BestCost = ranked[0].Cost
	s.WorstCost = ranked[len(ranked)-1].Cost
	if len(costs) == 1 {
		s.MeanCost = costs[0]
		return s
	}
	s.MeanCost, s.StdDev = stat.MeanStdDev(costs, nil)
	return s
}
