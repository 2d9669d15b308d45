package random

import (
	"math/rand"
	"time"
)

// Source provides the randomness used by role shuffling, night events and
// kamikaze revenge
type Source struct {
	random *rand.Rand
}

// Config for the random source
type Config struct {
	// Optional seed for testing
	Seed int64
}

// New creates a new random source
func New(cfg *Config) *Source {
	var seed int64
	if cfg != nil && cfg.Seed != 0 {
		seed = cfg.Seed
	} else {
		seed = time.Now().UnixNano()
	}

	return &Source{
		random: rand.New(rand.NewSource(seed)),
	}
}

// Intn returns a uniform value in [0, n)
func (s *Source) Intn(n int) int {
	return s.random.Intn(n)
}

// Float64 returns a uniform value in [0, 1)
func (s *Source) Float64() float64 {
	return s.random.Float64()
}

// Shuffle permutes n elements using the swap function
func (s *Source) Shuffle(n int, swap func(i, j int)) {
	s.random.Shuffle(n, swap)
}
