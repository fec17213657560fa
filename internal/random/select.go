package random

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidProbability is returned when a trial probability is outside [0, 1] or NaN.
// Probabilities are never clamped: a bad loot table should fail loudly.
var ErrInvalidProbability = errors.New("random: probability must be within [0, 1]")

// Trial pairs a value with its probability of being selected.
type Trial[T any] struct {
	Value       T
	Probability float64
}

// ValidateProbability reports whether p is usable as a trial probability.
func ValidateProbability(p float64) error {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return fmt.Errorf("%w: got %v", ErrInvalidProbability, p)
	}
	return nil
}

// ValidateTrials checks every probability in trials.
func ValidateTrials[T any](trials []Trial[T]) error {
	for i, tr := range trials {
		if err := ValidateProbability(tr.Probability); err != nil {
			return fmt.Errorf("entry %d: %w", i, err)
		}
	}
	return nil
}

// SelectUniform picks one element of pool with equal probability.
// Returns false if the pool is empty.
func SelectUniform[T any](src Source, pool []T) (T, bool) {
	var zero T
	if len(pool) == 0 {
		return zero, false
	}
	return pool[src.Intn(len(pool))], true
}

// SelectIndependentTrials rolls every trial on its own and returns the values
// whose draw landed below their probability. Input order is preserved.
// The result may hold anywhere from none to all of the values.
func SelectIndependentTrials[T any](src Source, trials []Trial[T]) ([]T, error) {
	if err := ValidateTrials(trials); err != nil {
		return nil, err
	}

	var selected []T
	for _, tr := range trials {
		if src.Float64() < tr.Probability {
			selected = append(selected, tr.Value)
		}
	}
	return selected, nil
}

// SelectSingle picks one trial with equal likelihood per entry.
// The probability field is not consulted; use SelectWeighted for that.
func SelectSingle[T any](src Source, trials []Trial[T]) (T, bool) {
	var zero T
	if len(trials) == 0 {
		return zero, false
	}
	return trials[src.Intn(len(trials))].Value, true
}

// SelectWeighted picks one trial using the probabilities as relative weights.
// Returns false if trials is empty or every weight is zero.
func SelectWeighted[T any](src Source, trials []Trial[T]) (T, bool, error) {
	var zero T
	if err := ValidateTrials(trials); err != nil {
		return zero, false, err
	}

	total := 0.0
	for _, tr := range trials {
		total += tr.Probability
	}
	if total <= 0 {
		return zero, false, nil
	}

	r := src.Float64() * total
	upto := 0.0
	for _, tr := range trials {
		if tr.Probability == 0 {
			continue
		}
		upto += tr.Probability
		if r < upto {
			return tr.Value, true, nil
		}
	}

	// Float rounding can leave r just past the last bucket.
	for i := len(trials) - 1; i >= 0; i-- {
		if trials[i].Probability > 0 {
			return trials[i].Value, true, nil
		}
	}
	return zero, false, nil
}
