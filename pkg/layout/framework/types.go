package framework

import "errors"

var (
	// ErrConfig is returned for a missing or invalid argument or configuration.
	ErrConfig = errors.New("invalid configuration")
	// ErrIO is returned when the corpus file cannot be opened or read.
	ErrIO = errors.New("corpus i/o failure")
	// ErrEmptyCorpus is returned when a corpus yields no usable words.
	ErrEmptyCorpus = errors.New("no words read from corpus")
)

// Individual represents a ranked solution in the population
type Individual struct {
	Layout Layout

	// Cost is the problem cost of Layout, computed once per ranking.
	Cost float64
	// Fitness is -Cost.
	Fitness float64
}

// GenerationStats summarizes the cost distribution of one ranked generation.
type GenerationStats struct {
	Generation int     `json:"generation"`
	BestCost   float64 `json:"bestCost"`
	MeanCost   float64 `json:"meanCost"`
	WorstCost  float64 `json:"worstCost"`
	StdDev     float64 `json:"stdDev"`
}
