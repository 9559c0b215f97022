package layout

import (
	gocache "github.com/patrickmn/go-cache"

	"github.com/keyboard-ga/layout-optimizer/pkg/layout/corpus"
	"github.com/keyboard-ga/layout-optimizer/pkg/layout/framework"
	"github.com/keyboard-ga/layout-optimizer/pkg/layout/metrics"
)

const (
	ProblemName = "KeyboardLayoutProblem"
)

// KeyboardProblem is the layout problem over one corpus. When caching is on,
// costs are memoized for the current generation only: after each generation
// the cache is cut down to the elite, so it never holds more than one
// population's worth of layouts.
type KeyboardProblem struct {
	evaluator *corpus.Evaluator
	cache     *gocache.Cache
	metrics   *metrics.Metrics
}

var (
	_ framework.Problem         = &KeyboardProblem{}
	_ framework.GenerationCache = &KeyboardProblem{}
)

// NewKeyboardProblem wraps evaluator. m may be nil.
func NewKeyboardProblem(evaluator *corpus.Evaluator, cacheCosts bool, m *metrics.Metrics) *KeyboardProblem {
	p := &KeyboardProblem{
		evaluator: evaluator,
		metrics:   m,
	}
	if cacheCosts {
		p.cache = gocache.New(gocache.NoExpiration, 0)
	}
	return p
}

func (p *KeyboardProblem) Name() string {
	return ProblemName
}

func (p *KeyboardProblem) Catalog() *framework.Catalog {
	return p.evaluator.Catalog()
}

func (p *KeyboardProblem) Cost(l framework.Layout) float64 {
	if p.cache == nil {
		return p.evaluator.Cost(l)
	}

	key := l.Key()
	if v, ok := p.cache.Get(key); ok {
		p.metrics.CacheHit()
		return v.(float64)
	}
	p.metrics.CacheMiss()
	cost := p.evaluator.Cost(l)
	p.cache.SetDefault(key, cost)
	return cost
}

// Retain drops every cached cost and stores the costs of kept again.
func (p *KeyboardProblem) Retain(kept []framework.Individual) {
	if p.cache == nil {
		return
	}
	p.cache.Flush()
	for _, ind := range kept {
		p.cache.SetDefault(ind.Layout.Key(), ind.Cost)
	}
}

// CachedLayouts returns the number of distinct layouts whose cost is cached.
func (p *KeyboardProblem) CachedLayouts() int {
	if p.cache == nil {
		return 0
	}
	return p.cache.ItemCount()
}
