package corpus

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/keyboard-ga/layout-optimizer/pkg/layout/framework"
)

// Evaluator computes the mean bigram travel distance of layouts over a fixed
// word list. The words are reduced to a letter-by-letter bigram count table
// once, so each Cost call is proportional to the number of distinct bigrams
// rather than to the corpus length.
type Evaluator struct {
	name    string
	catalog *framework.Catalog

	counts *mat.Dense
	// pairs and weights list the non-zero entries of counts in row-major order.
	pairs   [][2]int
	weights []float64
	total   float64
	words   int
}

var _ framework.Problem = &Evaluator{}

// NewEvaluator builds the bigram table of words for layouts over catalog.
func NewEvaluator(name string, catalog *framework.Catalog, words []string) *Evaluator {
	e := &Evaluator{
		name:    name,
		catalog: catalog,
		counts:  mat.NewDense(framework.NumLetters, framework.NumLetters, nil),
		words:   len(words),
	}

	ForEachBigram(words, func(a, b int) {
		e.counts.Set(a, b, e.counts.At(a, b)+1)
	})

	for a := 0; a < framework.NumLetters; a++ {
		for b := 0; b < framework.NumLetters; b++ {
			if n := e.counts.At(a, b); n > 0 {
				e.pairs = append(e.pairs, [2]int{a, b})
				e.weights = append(e.weights, n)
			}
		}
	}
	e.total = floats.Sum(e.weights)

	return e
}

func (e *Evaluator) Name() string {
	return e.name
}

func (e *Evaluator) Catalog() *framework.Catalog {
	return e.catalog
}

// Cost returns the mean distance between the keys of consecutive letters,
// or 0 when the corpus holds no bigram at all.
func (e *Evaluator) Cost(l framework.Layout) float64 {
	if e.total == 0 {
		return 0
	}
	dists := make([]float64, len(e.pairs))
	for k, p := range e.pairs {
		dists[k] = e.catalog.Distance(l[p[0]], l[p[1]])
	}
	return floats.Dot(e.weights, dists) / e.total
}

// Fitness returns -Cost(l).
func (e *Evaluator) Fitness(l framework.Layout) float64 {
	return -e.Cost(l)
}

// Bigrams returns the number of counted letter pairs.
func (e *Evaluator) Bigrams() int {
	return int(e.total)
}

// DistinctBigrams returns the number of different letter pairs seen.
func (e *Evaluator) DistinctBigrams() int {
	return len(e.pairs)
}

// Words returns the number of words the table was built from.
func (e *Evaluator) Words() int {
	return e.words
}

// Count returns how often letter a was directly followed by letter b.
func (e *Evaluator) Count(a, b rune) int {
	i, ok := framework.LetterIndex(a)
	if !ok {
		return 0
	}
	j, ok := framework.LetterIndex(b)
	if !ok {
		return 0
	}
	return int(e.counts.At(i, j))
}

// ForEachBigram calls fn with the letter indices of every pair of adjacent
// characters that are both letters once ASCII case is folded. Words shorter
// than two characters contribute nothing.
func ForEachBigram(words []string, fn func(a, b int)) {
	for _, w := range words {
		runes := []rune(w)
		if len(runes) < 2 {
			continue
		}
		for i := 0; i < len(runes)-1; i++ {
			a, ok := framework.LetterIndex(foldASCII(runes[i]))
			if !ok {
				continue
			}
			b, ok := framework.LetterIndex(foldASCII(runes[i+1]))
			if !ok {
				continue
			}
			fn(a, b)
		}
	}
}

// MeanBigramDistance walks words directly and averages the distance of every
// bigram under l. It is the unoptimized form of Evaluator.Cost.
func MeanBigramDistance(catalog *framework.Catalog, l framework.Layout, words []string) float64 {
	var total float64
	var segments int
	ForEachBigram(words, func(a, b int) {
		total += catalog.Distance(l[a], l[b])
		segments++
	})
	if segments == 0 {
		return 0
	}
	return total / float64(segments)
}

func foldASCII(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + ('a' - 'A')
	}
	return r
}
