package world

import (
	"fmt"
	"math/rand"
)

// Stream is the seeded random source shared by every generation stage.
// Identical seeds and identical call sequences yield identical values.
// A Stream is not safe for concurrent use; each generation owns its own.
type Stream struct {
	rng   *rand.Rand
	seed  int64
	calls int
}

// NewStream creates a stream for the given seed.
func NewStream(seed int64) *Stream {
	return &Stream{
		rng:  rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Seed returns the seed the stream was created with.
func (s *Stream) Seed() int64 {
	return s.seed
}

// Calls returns how many values have been drawn so far.
func (s *Stream) Calls() int {
	return s.calls
}

// Next returns an integer in [0, bound).
func (s *Stream) Next(bound int) (int, error) {
	if bound <= 0 {
		return 0, fmt.Errorf("%w: random bound %d must be positive", ErrInvalidArgument, bound)
	}
	s.calls++
	return s.rng.Intn(bound), nil
}

// Intn is Next for callers that have already checked the bound.
// It panics if bound <= 0.
func (s *Stream) Intn(bound int) int {
	n, err := s.Next(bound)
	if err != nil {
		panic(err)
	}
	return n
}

// Between returns an integer in [lo, hi]. It panics if hi < lo.
func (s *Stream) Between(lo, hi int) int {
	return lo + s.Intn(hi-lo+1)
}

// Float returns a value in [0, 1).
func (s *Stream) Float() float64 {
	s.calls++
	return s.rng.Float64()
}

// Chance returns true with probability p.
func (s *Stream) Chance(p float64) bool {
	if p <= 0 {
		return false
	}
	return s.Float() < p
}
