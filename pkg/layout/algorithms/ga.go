package algorithms

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/dustin/go-humanize"
	"k8s.io/klog/v2"
	"k8s.io/utils/clock"

	"github.com/keyboard-ga/layout-optimizer/pkg/layout/framework"
)

const (
	Name = "GA"

	// DefaultReportInterval is the number of generations between progress reports.
	DefaultReportInterval = 50
)

// ProgressFunc observes the ranked statistics of a generation.
type ProgressFunc func(framework.GenerationStats)

// Recorder receives per generation measurements. metrics.Metrics implements it.
type Recorder interface {
	ObserveGeneration(stats framework.GenerationStats, elapsed time.Duration)
	AddEvaluations(n int)
}

// GA represents the genetic algorithm configuration
type GA struct {
	PopSize         int
	NumGenerations  int
	MutationRate    float64
	ElitismFraction float64
	TournamentSize  int

	// ReportInterval spaces Progress calls: generation g is reported when
	// g % ReportInterval == 0.
	ReportInterval int
	Progress       ProgressFunc
	Recorder       Recorder

	problem framework.Problem
	rng     *rand.Rand
	clock   clock.PassiveClock
}

// Result is the outcome of a run.
type Result struct {
	// Best is the fittest individual of the final population.
	Best framework.Individual
	// Generations is the number of generations that completed.
	Generations int
	History     []framework.GenerationStats
}

// NewGA creates a new instance of the GA with the default operator rates.
func NewGA(popSize, numGen int, problem framework.Problem, rng *rand.Rand) *GA {
	return &GA{
		PopSize:         popSize,
		NumGenerations:  numGen,
		MutationRate:    0.05,
		ElitismFraction: 0.1,
		TournamentSize:  3,
		ReportInterval:  DefaultReportInterval,
		problem:         problem,
		rng:             rng,
		clock:           clock.RealClock{},
	}
}

// WithClock replaces the clock used to time generations.
func (g *GA) WithClock(c clock.PassiveClock) *GA {
	g.clock = c
	return g
}

// Validate checks the configuration before a run.
func (g *GA) Validate() error {
	switch {
	case g.problem == nil:
		return fmt.Errorf("%w: no problem set", framework.ErrConfig)
	case g.rng == nil:
		return fmt.Errorf("%w: no random source set", framework.ErrConfig)
	case g.PopSize <= 0:
		return fmt.Errorf("%w: population size must be positive, got %d", framework.ErrConfig, g.PopSize)
	case g.NumGenerations < 0:
		return fmt.Errorf("%w: generations must not be negative, got %d", framework.ErrConfig, g.NumGenerations)
	case g.MutationRate < 0 || g.MutationRate > 1:
		return fmt.Errorf("%w: mutation rate must be in [0,1], got %v", framework.ErrConfig, g.MutationRate)
	case g.ElitismFraction < 0 || g.ElitismFraction > 1:
		return fmt.Errorf("%w: elitism fraction must be in [0,1], got %v", framework.ErrConfig, g.ElitismFraction)
	case g.TournamentSize < 1:
		return fmt.Errorf("%w: tournament size must be at least 1, got %d", framework.ErrConfig, g.TournamentSize)
	case g.ReportInterval < 0:
		return fmt.Errorf("%w: report interval must not be negative, got %d", framework.ErrConfig, g.ReportInterval)
	}
	return nil
}

// EliteCount is floor(PopSize * ElitismFraction).
func (g *GA) EliteCount() int {
	return int(float64(g.PopSize) * g.ElitismFraction)
}

// Initialize creates an initial random population of layouts
func (g *GA) Initialize() []framework.Layout {
	population := make([]framework.Layout, g.PopSize)
	for i := range population {
		population[i] = RandomLayout(g.rng)
	}
	return population
}

// Evaluate ranks a population, computing each fitness exactly once.
func (g *GA) Evaluate(population []framework.Layout) []framework.Individual {
	ranked := framework.RankByFitness(population, g.problem)
	if g.Recorder != nil {
		g.Recorder.AddEvaluations(len(population))
	}
	return ranked
}

// TournamentSelect picks a parent from a ranked population.
func (g *GA) TournamentSelect(ranked []framework.Individual) framework.Individual {
	return TournamentSelect(ranked, g.TournamentSize, g.rng)
}

// Crossover performs order crossover over a random letter segment.
func (g *GA) Crossover(parent1, parent2 framework.Layout) framework.Layout {
	start := g.rng.IntN(framework.NumLetters)
	end := g.rng.IntN(framework.NumLetters)
	return OrderCrossover(parent1, parent2, start, end)
}

// Mutation performs swap mutation at MutationRate.
func (g *GA) Mutation(l framework.Layout) framework.Layout {
	return SwapMutation(l, g.MutationRate, g.rng)
}

// Reproduce builds the next generation from a ranked one: the elite are
// copied unchanged and the rest are mutated children of tournament winners.
func (g *GA) Reproduce(ranked []framework.Individual) []framework.Layout {
	next := make([]framework.Layout, 0, g.PopSize)
	for i := 0; i < g.EliteCount() && i < len(ranked); i++ {
		next = append(next, ranked[i].Layout)
	}

	for len(next) < g.PopSize {
		parent1 := g.TournamentSelect(ranked)
		parent2 := g.TournamentSelect(ranked)

		child := g.Crossover(parent1.Layout, parent2.Layout)
		child = g.Mutation(child)

		next = append(next, child)
	}

	return next
}

// retain lets a memoizing problem drop every cost except those of the elite,
// which are the only individuals of ranked that reach the next generation as is.
func (g *GA) retain(ranked []framework.Individual) {
	c, ok := g.problem.(framework.GenerationCache)
	if !ok {
		return
	}
	c.Retain(ranked[:min(g.EliteCount(), len(ranked))])
}

// Run executes the GA for NumGenerations generations. Cancellation is checked
// between generations; a cancelled run still returns the best individual of
// the population it stopped at, together with ctx.Err().
func (g *GA) Run(ctx context.Context) (*Result, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	logger := klog.FromContext(ctx)
	logger.V(2).Info("starting evolution", "algorithm", Name, "problem", g.problem.Name(),
		"populationSize", g.PopSize, "generations", g.NumGenerations,
		"mutationRate", g.MutationRate, "eliteCount", g.EliteCount(), "tournamentSize", g.TournamentSize)

	population := g.Initialize()
	history := make([]framework.GenerationStats, 0, g.NumGenerations)

	var runErr error
	gen := 0
	for ; gen < g.NumGenerations; gen++ {
		if err := ctx.Err(); err != nil {
			logger.V(2).Info("evolution cancelled", "generation", gen, "err", err)
			runErr = err
			break
		}

		started := g.clock.Now()
		ranked := g.Evaluate(population)
		stats := framework.Summarize(gen, ranked)
		history = append(history, stats)

		population = g.Reproduce(ranked)
		g.retain(ranked)

		if g.Recorder != nil {
			g.Recorder.ObserveGeneration(stats, g.clock.Since(started))
		}
		logger.V(4).Info("generation ranked", "generation", gen, "bestCost", stats.BestCost,
			"meanCost", stats.MeanCost, "worstCost", stats.WorstCost)
		if g.ReportInterval > 0 && gen%g.ReportInterval == 0 && g.Progress != nil {
			g.Progress(stats)
		}
	}

	final := g.Evaluate(population)
	result := &Result{
		Best:        final[0],
		Generations: gen,
		History:     history,
	}
	logger.V(2).Info("evolution finished", "generations", gen, "bestCost", result.Best.Cost,
		"evaluations", humanize.Comma(int64((gen+1)*g.PopSize)))

	return result, runErr
}
