package algorithms

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keyboard-ga/layout-optimizer/pkg/layout/corpus"
	"github.com/keyboard-ga/layout-optimizer/pkg/layout/framework"
)

var testWords = []string{
	"the", "quick", "brown", "fox", "jumps", "over", "lazy", "dog",
	"keyboard", "layout", "genetic", "algorithm", "distance", "letters",
	"population", "mutation", "crossover", "selection", "tournament", "elitism",
}

func newTestGA(popSize, numGen int, seed uint64) *GA {
	problem := corpus.NewEvaluator("test", framework.DefaultCatalog(), testWords)
	return NewGA(popSize, numGen, problem, NewRand(seed))
}

type recorder struct {
	generations []framework.GenerationStats
	evaluations int
}

func (r *recorder) ObserveGeneration(stats framework.GenerationStats, _ time.Duration) {
	r.generations = append(r.generations, stats)
}

func (r *recorder) AddEvaluations(n int) {
	r.evaluations += n
}

// Test problem: a small English word list
func TestGAWithWordList(t *testing.T) {
	ga := newTestGA(60, 80, 1)

	result, err := ga.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 80, result.Generations)
	assert.Len(t, result.History, 80)
	require.NoError(t, result.Best.Layout.Validate())
	assert.Equal(t, ga.problem.Cost(result.Best.Layout), result.Best.Cost)
	assert.Equal(t, -result.Best.Cost, result.Best.Fitness)

	// with elitism the best cost never gets worse
	for i := 1; i < len(result.History); i++ {
		assert.LessOrEqual(t, result.History[i].BestCost, result.History[i-1].BestCost, "generation %d", i)
	}
	assert.LessOrEqual(t, result.Best.Cost, result.History[len(result.History)-1].BestCost)
	assert.Less(t, result.Best.Cost, result.History[0].MeanCost)
}

func TestGADeterministic(t *testing.T) {
	a, err := newTestGA(40, 60, 1234).Run(context.Background())
	require.NoError(t, err)
	b, err := newTestGA(40, 60, 1234).Run(context.Background())
	require.NoError(t, err)

	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("runs with the same seed differ (-first +second):\n%s", diff)
	}
}

func TestGAZeroGenerations(t *testing.T) {
	ga := newTestGA(30, 0, 77)
	result, err := ga.Run(context.Background())
	require.NoError(t, err)

	assert.Zero(t, result.Generations)
	assert.Empty(t, result.History)

	initial := newTestGA(30, 0, 77).Initialize()
	ranked := framework.RankByFitness(initial, ga.problem)
	assert.Equal(t, ranked[0], result.Best)
	assert.Contains(t, initial, result.Best.Layout)
	assert.Equal(t, ga.problem.Cost(result.Best.Layout), result.Best.Cost)
}

func TestGAFullElitismFreezesPopulation(t *testing.T) {
	ga := newTestGA(25, 40, 5)
	ga.ElitismFraction = 1
	ga.MutationRate = 1

	result, err := ga.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, result.History, 40)

	first := result.History[0]
	for _, s := range result.History {
		assert.Equal(t, first.BestCost, s.BestCost)
		assert.Equal(t, first.WorstCost, s.WorstCost)
	}
	assert.Equal(t, first.BestCost, result.Best.Cost)
}

// retainingProblem records what the GA asks it to keep after each generation.
type retainingProblem struct {
	*corpus.Evaluator
	kept [][]framework.Individual
}

func (p *retainingProblem) Retain(kept []framework.Individual) {
	p.kept = append(p.kept, append([]framework.Individual(nil), kept...))
}

func TestGARetainsEliteAfterEachGeneration(t *testing.T) {
	problem := &retainingProblem{
		Evaluator: corpus.NewEvaluator("test", framework.DefaultCatalog(), testWords),
	}
	ga := NewGA(20, 6, problem, NewRand(9))
	ga.ElitismFraction = 0.2
	ga.ReportInterval = 1

	var bests []float64
	ga.Progress = func(s framework.GenerationStats) {
		bests = append(bests, s.BestCost)
	}

	_, err := ga.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, problem.kept, 6)
	for g, kept := range problem.kept {
		require.Len(t, kept, 4, "generation %d", g)
		assert.Equal(t, bests[g], kept[0].Cost, "generation %d", g)
		for i := 1; i < len(kept); i++ {
			assert.GreaterOrEqual(t, kept[i].Cost, kept[i-1].Cost)
		}
	}
}

func TestGAReproduceKeepsSizeAndElite(t *testing.T) {
	ga := newTestGA(20, 1, 3)
	ga.ElitismFraction = 0.25
	require.Equal(t, 5, ga.EliteCount())

	ranked := ga.Evaluate(ga.Initialize())
	next := ga.Reproduce(ranked)

	require.Len(t, next, 20)
	for i := 0; i < 5; i++ {
		assert.Equal(t, ranked[i].Layout, next[i])
	}
	for _, l := range next {
		require.NoError(t, l.Validate())
	}
}

func TestGAEliteCount(t *testing.T) {
	tests := []struct {
		popSize  int
		fraction float64
		want     int
	}{
		{100, 0.1, 10},
		{100, 0.2, 20},
		{7, 0.5, 3},
		{9, 0, 0},
		{9, 1, 9},
		{3, 0.1, 0},
	}
	for _, tt := range tests {
		ga := newTestGA(tt.popSize, 1, 1)
		ga.ElitismFraction = tt.fraction
		assert.Equal(t, tt.want, ga.EliteCount(), "pop %d fraction %v", tt.popSize, tt.fraction)
	}
}

func TestGANoElitism(t *testing.T) {
	ga := newTestGA(15, 10, 8)
	ga.ElitismFraction = 0

	result, err := ga.Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, result.History, 10)
	require.NoError(t, result.Best.Layout.Validate())
}

func TestGAProgressAndRecorder(t *testing.T) {
	ga := newTestGA(10, 120, 2)
	rec := &recorder{}
	ga.Recorder = rec

	var reported []int
	ga.Progress = func(s framework.GenerationStats) {
		reported = append(reported, s.Generation)
	}

	result, err := ga.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []int{0, 50, 100}, reported)
	assert.Len(t, rec.generations, 120)
	assert.Equal(t, result.History, rec.generations)
	assert.Equal(t, 121*10, rec.evaluations)
}

func TestGACustomReportInterval(t *testing.T) {
	ga := newTestGA(10, 7, 2)
	ga.ReportInterval = 3

	var reported []int
	ga.Progress = func(s framework.GenerationStats) {
		reported = append(reported, s.Generation)
	}
	_, err := ga.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{0, 3, 6}, reported)
}

func TestGACancellation(t *testing.T) {
	t.Run("before the first generation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		result, err := newTestGA(10, 50, 1).Run(ctx)
		assert.True(t, errors.Is(err, context.Canceled))
		require.NotNil(t, result)
		assert.Zero(t, result.Generations)
		assert.NoError(t, result.Best.Layout.Validate())
	})

	t.Run("at a generation boundary", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		ga := newTestGA(10, 500, 1)
		ga.ReportInterval = 1
		ga.Progress = func(s framework.GenerationStats) {
			if s.Generation == 4 {
				cancel()
			}
		}

		result, err := ga.Run(ctx)
		assert.True(t, errors.Is(err, context.Canceled))
		require.NotNil(t, result)
		assert.Equal(t, 5, result.Generations)
		assert.Len(t, result.History, 5)
	})
}

func TestGAValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*GA)
	}{
		{"zero population", func(g *GA) { g.PopSize = 0 }},
		{"negative generations", func(g *GA) { g.NumGenerations = -1 }},
		{"mutation rate above one", func(g *GA) { g.MutationRate = 1.5 }},
		{"negative mutation rate", func(g *GA) { g.MutationRate = -0.1 }},
		{"elitism above one", func(g *GA) { g.ElitismFraction = 2 }},
		{"zero tournament", func(g *GA) { g.TournamentSize = 0 }},
		{"negative report interval", func(g *GA) { g.ReportInterval = -1 }},
		{"no problem", func(g *GA) { g.problem = nil }},
		{"no rng", func(g *GA) { g.rng = nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ga := newTestGA(10, 10, 1)
			tt.modify(ga)
			_, err := ga.Run(context.Background())
			assert.True(t, errors.Is(err, framework.ErrConfig), "got %v", err)
		})
	}

	assert.NoError(t, newTestGA(1, 0, 1).Validate())
}

func TestResolveSeed(t *testing.T) {
	assert.Equal(t, uint64(17), ResolveSeed(17))
	assert.NotZero(t, ResolveSeed(0))
}
