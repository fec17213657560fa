// Package unit provides small per-entity counters: integer health with an
// optional cap, and lifetimes that expire by duration, distance or hits.
// Expiry is only reported; removing the entity is up to the caller.
package unit

// Health tracks an integer hit-point value.
// The zero value is a dead unit with no original health; use NewHealth.
type Health struct {
	original int
	current  int
	cap      int // 0 means uncapped
}

// NewHealth creates health starting at base. Negative base is treated as 0.
func NewHealth(base int) Health {
	if base < 0 {
		base = 0
	}
	return Health{original: base, current: base}
}

// WithCap returns a copy of h that never heals above limit.
// A limit of 0 or below removes the cap.
func (h Health) WithCap(limit int) Health {
	if limit <= 0 {
		h.cap = 0
		return h
	}
	h.cap = limit
	if h.current > limit {
		h.current = limit
	}
	return h
}

// Take removes amount, saturating at zero.
func (h *Health) Take(amount int) {
	if amount <= 0 {
		return
	}
	if amount >= h.current {
		h.current = 0
		return
	}
	h.current -= amount
}

// Add heals by amount, respecting the cap if one is set.
func (h *Health) Add(amount int) {
	if amount <= 0 {
		return
	}
	h.current += amount
	if h.cap > 0 && h.current > h.cap {
		h.current = h.cap
	}
}

// Reset restores health to its original value.
func (h *Health) Reset() {
	h.current = h.original
	if h.cap > 0 && h.current > h.cap {
		h.current = h.cap
	}
}

// IsZero reports whether health is depleted.
func (h Health) IsZero() bool {
	return h.current == 0
}

// Current returns the current health.
func (h Health) Current() int {
	return h.current
}

// Original returns the starting health.
func (h Health) Original() int {
	return h.original
}

// Percent returns current health as a fraction of the original.
// Returns 0 when the original health is 0.
func (h Health) Percent() float64 {
	if h.original == 0 {
		return 0
	}
	return float64(h.current) / float64(h.original)
}
