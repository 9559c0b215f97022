package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/keyboard-ga/layout-optimizer/pkg/layout/framework"
)

const namespace = "layout_optimizer"

// Metrics holds the collectors of one optimizer run. All methods are safe on a
// nil receiver so callers can leave metrics unset.
type Metrics struct {
	Generations        prometheus.Counter
	Evaluations        prometheus.Counter
	CacheHits          prometheus.Counter
	CacheMisses        prometheus.Counter
	BestCost           prometheus.Gauge
	MeanCost           prometheus.Gauge
	GenerationDuration prometheus.Histogram
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Generations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generations_total",
			Help:      "Number of completed GA generations.",
		}),
		Evaluations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fitness_evaluations_total",
			Help:      "Number of layout fitness evaluations requested by the GA.",
		}),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cost_cache_hits_total",
			Help:      "Number of layout costs served from the cost cache.",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cost_cache_misses_total",
			Help:      "Number of layout costs computed from the bigram table.",
		}),
		BestCost: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "best_cost",
			Help:      "Best mean bigram distance of the latest ranked generation.",
		}),
		MeanCost: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "mean_cost",
			Help:      "Mean population cost of the latest ranked generation.",
		}),
		GenerationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "generation_duration_seconds",
			Help:      "Time spent ranking and reproducing one generation.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
	}

	for _, c := range []prometheus.Collector{
		m.Generations, m.Evaluations, m.CacheHits, m.CacheMisses,
		m.BestCost, m.MeanCost, m.GenerationDuration,
	} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("registering metrics: %w", err)
		}
	}
	return m, nil
}

// ObserveGeneration records a ranked generation.
func (m *Metrics) ObserveGeneration(stats framework.GenerationStats, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.Generations.Inc()
	m.BestCost.Set(stats.BestCost)
	m.MeanCost.Set(stats.MeanCost)
	m.GenerationDuration.Observe(elapsed.Seconds())
}

// AddEvaluations counts fitness evaluations.
func (m *Metrics) AddEvaluations(n int) {
	if m == nil {
		return
	}
	m.Evaluations.Add(float64(n))
}

// CacheHit counts a cost served from cache.
func (m *Metrics) CacheHit() {
	if m == nil {
		return
	}
	m.CacheHits.Inc()
}

// CacheMiss counts a cost computed from scratch.
func (m *Metrics) CacheMiss() {
	if m == nil {
		return
	}
	m.CacheMisses.Inc()
}

// WriteTextfile writes everything gathered by g in the Prometheus text format.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	return prometheus.WriteToTextfile(path, g)
}
