package coup

import "math/rand"

// seededRNG wraps math/rand.Rand so tests get a reproducible, package-local
// source without touching the global generator.
type seededRNG struct {
	r *rand.Rand
}

func newSeededRNG(seed int64) *seededRNG {
	return &seededRNG{r: rand.New(rand.NewSource(seed))}
}

func (s *seededRNG) Intn(n int) int {
	return s.r.Intn(n)
}

// fixedRNG always returns 0, useful for tests that want "first shuffle
// position"-style determinism without caring about distribution.
type fixedRNG struct{}

func (fixedRNG) Intn(n int) int { return 0 }
