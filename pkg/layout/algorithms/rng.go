package algorithms

import (
	"math/rand/v2"
	"time"
)

// ResolveSeed returns seed, or a seed taken from the wall clock when seed is 0.
// The resolved value is what a caller records to replay a run.
func ResolveSeed(seed uint64) uint64 {
	if seed != 0 {
		return seed
	}
	return uint64(time.Now().UnixNano())
}

// NewRand returns a deterministic generator for seed. Equal seeds yield equal streams.
// A *rand.Rand is not safe for concurrent use.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}
