package engine

import "math/rand"

// RNG wraps math/rand.Rand with deterministic position tracking.
// Position counts raw draws from the underlying source, so a fork can be
// restored to the exact same stream from seed and position alone.
type RNG struct {
	seed int64
	cnt  *countingSource
	src  *rand.Rand
}

// countingSource counts every value pulled from the wrapped source.
type countingSource struct {
	src rand.Source
	n   int64
}

func (c *countingSource) Int63() int64 {
	c.n++
	return c.src.Int63()
}

func (c *countingSource) Seed(seed int64) {
	c.src.Seed(seed)
	c.n = 0
}

// NewRNG creates a new deterministic RNG from a seed.
func NewRNG(seed int64) *RNG {
	cnt := &countingSource{src: rand.NewSource(seed)}
	return &RNG{
		seed: seed,
		cnt:  cnt,
		src:  rand.New(cnt),
	}
}

// Intn returns a random integer in [0, n). It panics if n <= 0.
func (r *RNG) Intn(n int) int {
	return int(r.src.Int63n(int64(n)))
}

// Seed returns the seed the RNG was created with.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Position returns the number of raw draws made since creation.
func (r *RNG) Position() int64 {
	return r.cnt.n
}

// Clone returns an independent RNG at the same position in the same stream.
func (r *RNG) Clone() *RNG {
	return RestoreRNG(r.seed, r.Position())
}

// RestoreRNG creates an RNG and advances it to the given position.
// This reproduces the exact RNG state of a running simulation.
func RestoreRNG(seed int64, position int64) *RNG {
	rng := NewRNG(seed)
	for i := int64(0); i < position; i++ {
		rng.cnt.Int63()
	}
	return rng
}
