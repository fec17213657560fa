// Package droptable provides immutable loot tables resolved against an
// injected random source.
//
// A table answers two questions. Drops rolls each entry independently
// against its own probability, so a single kill may yield nothing or
// everything. Single returns exactly one entry; by default every entry is
// equally likely and the probabilities are ignored. Tables that want the
// single pick to honour probabilities must opt in with WithSingleMode.
package droptable

import (
	"fmt"

	"github.com/vovakirdan/wavekit/internal/random"
)

// SingleMode selects how Single picks its entry.
type SingleMode int

const (
	// SingleUniform gives every entry the same chance, regardless of probability.
	SingleUniform SingleMode = iota
	// SingleWeighted uses the probabilities as relative weights.
	SingleWeighted
)

// String returns the config name of the mode.
func (m SingleMode) String() string {
	switch m {
	case SingleUniform:
		return "uniform"
	case SingleWeighted:
		return "weighted"
	default:
		return "unknown"
	}
}

// ParseSingleMode converts a config name to a SingleMode.
// An empty name means SingleUniform.
func ParseSingleMode(name string) (SingleMode, error) {
	switch name {
	case "", "uniform":
		return SingleUniform, nil
	case "weighted":
		return SingleWeighted, nil
	default:
		return SingleUniform, fmt.Errorf("droptable: unknown single mode %q", name)
	}
}

// Entry is one possible drop.
type Entry[T any] struct {
	Value       T
	Probability float64
}

// Option configures a DropTable at construction.
type Option func(*options)

type options struct {
	singleMode SingleMode
}

// WithSingleMode sets how Single resolves.
func WithSingleMode(mode SingleMode) Option {
	return func(o *options) {
		o.singleMode = mode
	}
}

// DropTable is an immutable set of drop entries.
// It keeps no memory of previous rolls.
type DropTable[T any] struct {
	trials     []random.Trial[T]
	singleMode SingleMode
}

// New builds a table from entries, rejecting probabilities outside [0, 1].
// The entries slice is copied.
func New[T any](entries []Entry[T], opts ...Option) (*DropTable[T], error) {
	o := options{singleMode: SingleUniform}
	for _, opt := range opts {
		opt(&o)
	}

	trials := make([]random.Trial[T], len(entries))
	for i, e := range entries {
		trials[i] = random.Trial[T]{Value: e.Value, Probability: e.Probability}
	}
	if err := random.ValidateTrials(trials); err != nil {
		return nil, fmt.Errorf("droptable: %w", err)
	}

	return &DropTable[T]{
		trials:     trials,
		singleMode: o.singleMode,
	}, nil
}

// Drops rolls every entry independently and returns the ones that hit.
func (d *DropTable[T]) Drops(src random.Source) []T {
	// Probabilities were validated in New, so the error is unreachable.
	drops, _ := random.SelectIndependentTrials(src, d.trials)
	return drops
}

// Single returns one entry according to the table's SingleMode.
// Returns false if the table is empty, or if it is weighted and every
// probability is zero.
func (d *DropTable[T]) Single(src random.Source) (T, bool) {
	if d.singleMode == SingleWeighted {
		v, ok, _ := random.SelectWeighted(src, d.trials)
		return v, ok
	}
	return random.SelectSingle(src, d.trials)
}

// SingleMode returns how Single resolves.
func (d *DropTable[T]) SingleMode() SingleMode {
	return d.singleMode
}

// Len returns the number of entries.
func (d *DropTable[T]) Len() int {
	return len(d.trials)
}

// Entries returns a copy of the table's entries.
func (d *DropTable[T]) Entries() []Entry[T] {
	out := make([]Entry[T], len(d.trials))
	for i, tr := range d.trials {
		out[i] = Entry[T]{Value: tr.Value, Probability: tr.Probability}
	}
	return out
}
