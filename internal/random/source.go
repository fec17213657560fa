// Package random provides seedable random sources and the selection helpers
// used for spawn picks and loot resolution.
// Selection functions never reach for a global generator: every call takes
// the Source explicitly so simulations stay reproducible from a seed.
package random

import (
	"math/rand"
	"sync"
	"time"
)

// Source is the minimal random interface the selection helpers need.
// Implementations are not required to be safe for concurrent use.
type Source interface {
	// Intn returns a value in [0, n). n must be positive.
	Intn(n int) int
	// Float64 returns a value in [0.0, 1.0).
	Float64() float64
}

// countingSource counts raw draws from the underlying generator.
// math/rand may consume several raw values for a single Intn call, so the
// position has to be tracked below *rand.Rand to be replayable.
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

// Rand wraps math/rand with seed and position tracking.
// Position counts raw draws, so a Rand can be rebuilt exactly from
// (seed, position) when a simulation is checkpointed.
type Rand struct {
	seed    int64
	counter *countingSource
	src     *rand.Rand
}

// NewSource creates a Rand from a seed.
// If seed is 0, the current time is used.
func NewSource(seed int64) *Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	counter := &countingSource{src: rand.NewSource(seed)}
	return &Rand{
		seed:    seed,
		counter: counter,
		src:     rand.New(counter),
	}
}

// Restore creates a Rand and fast-forwards it to the given position.
func Restore(seed int64, position int64) *Rand {
	r := NewSource(seed)
	for r.counter.n < position {
		r.counter.Int63()
	}
	return r
}

// Intn returns a random integer in [0, n).
func (r *Rand) Intn(n int) int {
	return r.src.Intn(n)
}

// Float64 returns a random float in [0.0, 1.0).
func (r *Rand) Float64() float64 {
	return r.src.Float64()
}

// Seed returns the seed this source was created with.
func (r *Rand) Seed() int64 {
	return r.seed
}

// Position returns the number of raw draws made since creation.
func (r *Rand) Position() int64 {
	return r.counter.n
}

// LockedSource serializes access to another Source.
// Use it when several goroutines share one generator.
type LockedSource struct {
	mu  sync.Mutex
	src Source
}

// NewLockedSource wraps src with a mutex.
func NewLockedSource(src Source) *LockedSource {
	return &LockedSource{src: src}
}

// Intn returns a random integer in [0, n).
func (l *LockedSource) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src.Intn(n)
}

// Float64 returns a random float in [0.0, 1.0).
func (l *LockedSource) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src.Float64()
}
