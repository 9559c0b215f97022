package layout

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/go-logr/logr"
	"github.com/google/uuid"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/validation/field"
	"k8s.io/klog/v2"
	"k8s.io/utils/clock"

	"github.com/keyboard-ga/layout-optimizer/apis/config/v1alpha1"
	"github.com/keyboard-ga/layout-optimizer/apis/config/validation"
	"github.com/keyboard-ga/layout-optimizer/pkg/layout/algorithms"
	"github.com/keyboard-ga/layout-optimizer/pkg/layout/benchmarks"
	"github.com/keyboard-ga/layout-optimizer/pkg/layout/corpus"
	"github.com/keyboard-ga/layout-optimizer/pkg/layout/framework"
	"github.com/keyboard-ga/layout-optimizer/pkg/layout/metrics"
	"github.com/keyboard-ga/layout-optimizer/pkg/layout/util"
)

const (
	Name = "LayoutOptimizer"
)

// Optimizer runs the genetic algorithm for one configuration.
type Optimizer struct {
	args     *v1alpha1.LayoutOptimizerArgs
	catalog  *framework.Catalog
	metrics  *metrics.Metrics
	progress algorithms.ProgressFunc
	clock    clock.PassiveClock
}

// Option customizes an Optimizer.
type Option func(*Optimizer)

// WithCatalog replaces the default key positions.
func WithCatalog(c *framework.Catalog) Option {
	return func(o *Optimizer) { o.catalog = c }
}

// WithMetrics records the run into m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *Optimizer) { o.metrics = m }
}

// WithProgress sets the observer called every ReportInterval generations.
func WithProgress(fn algorithms.ProgressFunc) Option {
	return func(o *Optimizer) { o.progress = fn }
}

// WithClock replaces the clock used for timestamps and timings.
func WithClock(c clock.PassiveClock) Option {
	return func(o *Optimizer) { o.clock = c }
}

// Outcome is the result of Optimize.
type Outcome struct {
	Best    framework.Individual
	Catalog *framework.Catalog
	Result  *algorithms.Result
	Report  *v1alpha1.LayoutReport
}

// New defaults and validates args and returns an Optimizer for them.
// Invalid arguments are reported as framework.ErrConfig.
func New(ctx context.Context, args *v1alpha1.LayoutOptimizerArgs, opts ...Option) (*Optimizer, error) {
	logger := klog.FromContext(ctx)
	logger.V(5).Info("creating instance of LayoutOptimizer")

	defaulted := &v1alpha1.LayoutOptimizerArgs{}
	if args != nil {
		*defaulted = *args
	}
	v1alpha1.SetDefaults_LayoutOptimizerArgs(defaulted)
	if err := validation.ValidateLayoutOptimizerArgs(field.NewPath("args"), defaulted); err != nil {
		return nil, fmt.Errorf("%w: %w", framework.ErrConfig, err)
	}

	o := &Optimizer{
		args:    defaulted,
		catalog: framework.DefaultCatalog(),
		clock:   clock.RealClock{},
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.catalog == nil {
		return nil, fmt.Errorf("%w: nil catalog", framework.ErrConfig)
	}

	return o, nil
}

func (o *Optimizer) Name() string {
	return Name
}

// Args returns the defaulted arguments.
func (o *Optimizer) Args() *v1alpha1.LayoutOptimizerArgs {
	return o.args
}

// Catalog returns the key positions layouts are built over.
func (o *Optimizer) Catalog() *framework.Catalog {
	return o.catalog
}

// ReadCorpus reads the word list at path using the configured limits.
func (o *Optimizer) ReadCorpus(ctx context.Context, path string) ([]string, error) {
	words, err := corpus.ReadFile(path, corpus.ReadOptions{
		MaxWords:      int(*o.args.MaxWords),
		MaxWordLength: int(*o.args.MaxWordLength),
	})
	if err != nil {
		return nil, fmt.Errorf("reading corpus %q: %w", path, err)
	}
	klog.FromContext(ctx).V(2).Info("corpus read", "path", path, "words", humanize.Comma(int64(len(words))))
	return words, nil
}

// Optimize evolves layouts for words. When ctx is cancelled mid-run the best
// layout found so far is returned together with the context error.
func (o *Optimizer) Optimize(ctx context.Context, corpusName string, words []string) (*Outcome, error) {
	if len(words) == 0 {
		return nil, framework.ErrEmptyCorpus
	}
	logger := klog.FromContext(ctx).WithValues("corpus", corpusName)
	ctx = klog.NewContext(ctx, logger)
	startedAt := metav1.NewTime(o.clock.Now())

	evaluator := corpus.NewEvaluator(corpusName, o.catalog, words)
	logger.V(2).Info("bigram table built", "words", humanize.Comma(int64(evaluator.Words())),
		"bigrams", humanize.Comma(int64(evaluator.Bigrams())), "distinctBigrams", evaluator.DistinctBigrams())

	baselines := baselineCosts(benchmarks.Cost(evaluator, benchmarks.References()...))
	logBaselines(logger, baselines)

	problem := NewKeyboardProblem(evaluator, *o.args.CacheFitness, o.metrics)
	seed := algorithms.ResolveSeed(uint64(*o.args.Seed))
	logger.V(2).Info("random source seeded", "seed", seed)

	ga := algorithms.NewGA(int(*o.args.PopulationSize), int(*o.args.Generations), problem, algorithms.NewRand(seed)).
		WithClock(o.clock)
	ga.MutationRate = *o.args.MutationRate
	ga.ElitismFraction = *o.args.ElitismFraction
	ga.TournamentSize = int(*o.args.TournamentSize)
	ga.ReportInterval = int(*o.args.ReportInterval)
	ga.Progress = o.progress
	if o.metrics != nil {
		ga.Recorder = o.metrics
	}

	result, runErr := ga.Run(ctx)
	if result == nil {
		return nil, runErr
	}
	if runErr != nil && !errors.Is(runErr, context.Canceled) && !errors.Is(runErr, context.DeadlineExceeded) {
		return nil, runErr
	}
	if *o.args.CacheFitness {
		logger.V(4).Info("cost cache", "layouts", humanize.Comma(int64(problem.CachedLayouts())))
	}

	phase := v1alpha1.LayoutReportPhaseCompleted
	if runErr != nil {
		phase = v1alpha1.LayoutReportPhaseCancelled
	}
	finishedAt := metav1.NewTime(o.clock.Now())

	report := &v1alpha1.LayoutReport{
		TypeMeta: metav1.TypeMeta{
			APIVersion: v1alpha1.SchemeGroupVersion.String(),
			Kind:       v1alpha1.LayoutReportKind,
		},
		Spec: v1alpha1.LayoutReportSpec{
			RunID:        uuid.NewString(),
			Corpus:       corpusName,
			Words:        evaluator.Words(),
			Bigrams:      evaluator.Bigrams(),
			Args:         *o.args,
			ResolvedSeed: seed,
			StartedAt:    &startedAt,
		},
		Status: v1alpha1.LayoutReportStatus{
			Phase:                phase,
			CompletedGenerations: result.Generations,
			BestCost:             result.Best.Cost,
			Rows:                 util.Rows(o.catalog, result.Best.Layout),
			Keys:                 keyAssignments(o.catalog, result.Best.Layout),
			Baselines:            baselines,
			History:              summaries(result.History),
			FinishedAt:           &finishedAt,
		},
	}

	return &Outcome{
		Best:    result.Best,
		Catalog: o.catalog,
		Result:  result,
		Report:  report,
	}, runErr
}

func keyAssignments(c *framework.Catalog, l framework.Layout) []v1alpha1.KeyAssignment {
	keys := make([]v1alpha1.KeyAssignment, len(l))
	for i, slot := range l {
		p := c.Position(slot)
		keys[i] = v1alpha1.KeyAssignment{
			Letter: string(framework.Letters[i]),
			X:      p.X,
			Y:      p.Y,
		}
	}
	return keys
}

func baselineCosts(costs map[string]float64) []v1alpha1.BaselineCost {
	out := make([]v1alpha1.BaselineCost, 0, len(costs))
	for name, cost := range costs {
		out = append(out, v1alpha1.BaselineCost{Name: name, Cost: cost})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out
}

func logBaselines(logger logr.Logger, baselines []v1alpha1.BaselineCost) {
	for _, b := range baselines {
		logger.V(2).Info("baseline layout", "name", b.Name, "cost", b.Cost)
	}
}

func summaries(history []framework.GenerationStats) []v1alpha1.GenerationSummary {
	out := make([]v1alpha1.GenerationSummary, len(history))
	for i, s := range history {
		out[i] = v1alpha1.GenerationSummary(s)
	}
	return out
}
