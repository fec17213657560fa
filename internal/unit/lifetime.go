package unit

import "math"

// Lifetime reports whether an entity has outlived its budget.
type Lifetime interface {
	// Expired reports whether the lifetime has run out.
	Expired() bool
	// Reset returns the lifetime to its initial state.
	Reset()
}

// DurationLifetime expires after a fixed number of seconds.
type DurationLifetime struct {
	max     float64
	elapsed float64
}

// NewDurationLifetime creates a lifetime of max seconds.
func NewDurationLifetime(max float64) *DurationLifetime {
	return &DurationLifetime{max: max}
}

// Tick advances the lifetime by dt seconds. Negative dt is ignored.
func (d *DurationLifetime) Tick(dt float64) {
	if dt > 0 {
		d.elapsed += dt
	}
}

// Expired reports whether the elapsed time has reached the maximum.
func (d *DurationLifetime) Expired() bool {
	return d.elapsed >= d.max
}

// Reset clears the elapsed time.
func (d *DurationLifetime) Reset() {
	d.elapsed = 0
}

// Elapsed returns the seconds accumulated so far.
func (d *DurationLifetime) Elapsed() float64 {
	return d.elapsed
}

// Remaining returns the seconds left, never negative.
func (d *DurationLifetime) Remaining() float64 {
	return math.Max(d.max-d.elapsed, 0)
}

// DistanceLifetime expires once the entity has travelled further than max.
type DistanceLifetime struct {
	max     float64
	total   float64
	prevX   float64
	prevY   float64
	hasPrev bool
}

// NewDistanceLifetime creates a lifetime of max distance units.
func NewDistanceLifetime(max float64) *DistanceLifetime {
	return &DistanceLifetime{max: max}
}

// Update records the entity's new position. The first call only sets the origin.
func (d *DistanceLifetime) Update(x, y float64) {
	if d.hasPrev {
		d.total += math.Hypot(x-d.prevX, y-d.prevY)
	}
	d.prevX, d.prevY = x, y
	d.hasPrev = true
}

// Resume restores a lifetime that has travelled total and last stood at (x, y).
func (d *DistanceLifetime) Resume(total, x, y float64) {
	d.total = total
	d.prevX, d.prevY = x, y
	d.hasPrev = true
}

// Distance returns the total distance travelled.
func (d *DistanceLifetime) Distance() float64 {
	return d.total
}

// Expired reports whether the distance travelled exceeds the maximum.
func (d *DistanceLifetime) Expired() bool {
	return d.total > d.max
}

// Reset clears the distance travelled but keeps the last position.
func (d *DistanceLifetime) Reset() {
	d.total = 0
}

// PenetrationLifetime expires after a number of hits,
// e.g. a bullet that passes through N enemies.
type PenetrationLifetime struct {
	health Health
}

// NewPenetrationLifetime creates a lifetime that survives hits-1 hits.
func NewPenetrationLifetime(hits int) *PenetrationLifetime {
	return &PenetrationLifetime{health: NewHealth(hits)}
}

// Hit consumes one hit.
func (p *PenetrationLifetime) Hit() {
	p.health.Take(1)
}

// Expired reports whether every hit has been consumed.
func (p *PenetrationLifetime) Expired() bool {
	return p.health.IsZero()
}

// Reset restores the hit budget.
func (p *PenetrationLifetime) Reset() {
	p.health.Reset()
}
