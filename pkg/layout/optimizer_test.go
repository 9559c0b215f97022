package layout

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/klog/v2/ktesting"
	"k8s.io/utils/clock"
	clocktesting "k8s.io/utils/clock/testing"
	"k8s.io/utils/ptr"

	"github.com/keyboard-ga/layout-optimizer/apis/config/v1alpha1"
	"github.com/keyboard-ga/layout-optimizer/pkg/layout/algorithms"
	"github.com/keyboard-ga/layout-optimizer/pkg/layout/framework"
	"github.com/keyboard-ga/layout-optimizer/pkg/layout/metrics"
)

var testWords = []string{
	"the", "quick", "brown", "fox", "jumps", "over", "lazy", "dog",
	"keyboard", "layout", "genetic", "algorithm", "distance", "bigram",
}

func smallArgs() *v1alpha1.LayoutOptimizerArgs {
	return &v1alpha1.LayoutOptimizerArgs{
		PopulationSize: ptr.To[int32](20),
		Generations:    ptr.To[int32](15),
		ReportInterval: ptr.To[int32](5),
		Seed:           ptr.To[int64](42),
	}
}

func TestNewDefaults(t *testing.T) {
	_, ctx := ktesting.NewTestContext(t)

	o, err := New(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, Name, o.Name())
	assert.Equal(t, int32(100), *o.Args().PopulationSize)
	assert.Equal(t, int32(500), *o.Args().Generations)
	assert.Equal(t, 0.05, *o.Args().MutationRate)
	assert.Equal(t, framework.NumLetters, o.Catalog().Len())
}

func TestNewDoesNotModifyArgs(t *testing.T) {
	_, ctx := ktesting.NewTestContext(t)

	args := smallArgs()
	_, err := New(ctx, args)
	require.NoError(t, err)
	assert.Nil(t, args.MutationRate)
}

func TestNewInvalidArgs(t *testing.T) {
	_, ctx := ktesting.NewTestContext(t)

	args := smallArgs()
	args.MutationRate = ptr.To(1.5)
	_, err := New(ctx, args)
	assert.ErrorIs(t, err, framework.ErrConfig)

	_, err = New(ctx, smallArgs(), WithCatalog(nil))
	assert.ErrorIs(t, err, framework.ErrConfig)
}

func TestOptimizeEmptyCorpus(t *testing.T) {
	_, ctx := ktesting.NewTestContext(t)

	o, err := New(ctx, smallArgs())
	require.NoError(t, err)
	_, err = o.Optimize(ctx, "empty", nil)
	assert.ErrorIs(t, err, framework.ErrEmptyCorpus)
}

func TestOptimize(t *testing.T) {
	_, ctx := ktesting.NewTestContext(t)
	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	fakeClock := clocktesting.NewFakePassiveClock(start)

	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	require.NoError(t, err)

	var reported []int
	o, err := New(ctx, smallArgs(),
		WithMetrics(m),
		WithClock(fakeClock),
		WithProgress(func(s framework.GenerationStats) {
			reported = append(reported, s.Generation)
		}),
	)
	require.NoError(t, err)

	out, err := o.Optimize(ctx, "test", testWords)
	require.NoError(t, err)

	assert.NoError(t, out.Best.Layout.Validate())
	assert.Equal(t, -out.Best.Cost, out.Best.Fitness)
	assert.Equal(t, []int{0, 5, 10}, reported)
	assert.Equal(t, 15, out.Result.Generations)
	assert.Len(t, out.Result.History, 15)
	assert.LessOrEqual(t, out.Best.Cost, out.Result.History[0].BestCost)

	report := out.Report
	assert.Equal(t, v1alpha1.LayoutReportKind, report.Kind)
	assert.NotEmpty(t, report.Spec.RunID)
	assert.Equal(t, "test", report.Spec.Corpus)
	assert.Equal(t, len(testWords), report.Spec.Words)
	assert.Equal(t, uint64(42), report.Spec.ResolvedSeed)
	assert.True(t, report.Spec.StartedAt.Time.Equal(start))
	assert.Equal(t, v1alpha1.LayoutReportPhaseCompleted, report.Status.Phase)
	assert.Equal(t, 15, report.Status.CompletedGenerations)
	assert.Equal(t, out.Best.Cost, report.Status.BestCost)
	assert.Len(t, report.Status.Rows, 3)
	assert.Len(t, report.Status.Keys, framework.NumLetters)
	assert.Len(t, report.Status.History, 15)
	require.Len(t, report.Status.Baselines, 2)
	assert.Equal(t, "Alphabetical", report.Status.Baselines[0].Name)
	assert.Equal(t, "QWERTY", report.Status.Baselines[1].Name)

	for i, k := range report.Status.Keys {
		p := out.Catalog.Position(out.Best.Layout[i])
		assert.Equal(t, string(framework.Letters[i]), k.Letter)
		assert.Equal(t, p.X, k.X)
		assert.Equal(t, p.Y, k.Y)
	}

	assert.Equal(t, 15.0, testutil.ToFloat64(m.Generations))
	assert.Equal(t, float64(16*20), testutil.ToFloat64(m.Evaluations))
	assert.Equal(t, out.Result.History[14].BestCost, testutil.ToFloat64(m.BestCost))
}

func TestOptimizeDeterministic(t *testing.T) {
	_, ctx := ktesting.NewTestContext(t)

	run := func(cache bool) *algorithms.Result {
		args := smallArgs()
		args.CacheFitness = ptr.To(cache)
		o, err := New(ctx, args)
		require.NoError(t, err)
		out, err := o.Optimize(ctx, "test", testWords)
		require.NoError(t, err)
		return out.Result
	}

	first := run(true)
	if diff := cmp.Diff(first, run(true)); diff != "" {
		t.Errorf("same seed produced different runs (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(first, run(false)); diff != "" {
		t.Errorf("cost cache changed the run (-cached +uncached):\n%s", diff)
	}
}

func TestOptimizeCancelled(t *testing.T) {
	_, ctx := ktesting.NewTestContext(t)
	ctx, cancel := context.WithCancel(ctx)

	args := smallArgs()
	args.Generations = ptr.To[int32](1000)
	args.ReportInterval = ptr.To[int32](1)

	o, err := New(ctx, args, WithProgress(func(s framework.GenerationStats) {
		if s.Generation == 3 {
			cancel()
		}
	}))
	require.NoError(t, err)

	out, err := o.Optimize(ctx, "test", testWords)
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, out)
	assert.Equal(t, 4, out.Result.Generations)
	assert.Equal(t, v1alpha1.LayoutReportPhaseCancelled, out.Report.Status.Phase)
	assert.NoError(t, out.Best.Layout.Validate())
}

func TestReadCorpus(t *testing.T) {
	_, ctx := ktesting.NewTestContext(t)

	args := smallArgs()
	args.MaxWords = ptr.To[int32](2)
	o, err := New(ctx, args, WithClock(clock.RealClock{}))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "words.txt")
	require.NoError(t, os.WriteFile(path, []byte("alpha\n\nbeta\ngamma\n"), 0o600))

	words, err := o.ReadCorpus(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta"}, words)

	_, err = o.ReadCorpus(ctx, filepath.Join(t.TempDir(), "missing.txt"))
	assert.ErrorIs(t, err, framework.ErrIO)
}
