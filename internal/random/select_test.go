package random

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

// fixedSource replays canned draws so selection results are exact.
type fixedSource struct {
	ints   []int
	floats []float64
}

func (f *fixedSource) Intn(n int) int {
	v := f.ints[0]
	f.ints = f.ints[1:]
	return v % n
}

func (f *fixedSource) Float64() float64 {
	v := f.floats[0]
	f.floats = f.floats[1:]
	return v
}

func TestSelectUniformEmpty(t *testing.T) {
	src := NewSource(1)
	for i := 0; i < 10; i++ {
		if v, ok := SelectUniform[string](src, nil); ok {
			t.Fatalf("SelectUniform(nil) = %q, true; expected nothing selected", v)
		}
	}
	if src.Position() != 0 {
		t.Errorf("empty pool should not consume draws, position = %d", src.Position())
	}
}

func TestSelectUniformSingleElement(t *testing.T) {
	src := NewSource(7)
	for i := 0; i < 50; i++ {
		v, ok := SelectUniform(src, []string{"grunt"})
		if !ok || v != "grunt" {
			t.Fatalf("SelectUniform = %q, %v; expected grunt, true", v, ok)
		}
	}
}

func TestSelectUniformCoversPool(t *testing.T) {
	src := NewSource(99)
	pool := []string{"a", "b", "c"}
	seen := make(map[string]int)
	for i := 0; i < 3000; i++ {
		v, _ := SelectUniform(src, pool)
		seen[v]++
	}
	for _, id := range pool {
		// Expected ~1000 each; allow a generous band.
		if seen[id] < 800 || seen[id] > 1200 {
			t.Errorf("%s selected %d times, expected roughly uniform", id, seen[id])
		}
	}
}

func TestSelectIndependentTrialsExtremes(t *testing.T) {
	src := NewSource(3)

	all := []Trial[string]{{"a", 1}, {"b", 1}, {"c", 1}}
	got, err := SelectIndependentTrials(src, all)
	if err != nil {
		t.Fatalf("SelectIndependentTrials() error: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("probability 1.0 should select all, got %v", got)
	}

	none := []Trial[string]{{"a", 0}, {"b", 0}, {"c", 0}}
	got, err = SelectIndependentTrials(src, none)
	if err != nil {
		t.Fatalf("SelectIndependentTrials() error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("probability 0.0 should select none, got %v", got)
	}
}

func TestSelectIndependentTrialsExactDraws(t *testing.T) {
	src := &fixedSource{floats: []float64{0.1, 0.6, 0.49}}
	trials := []Trial[string]{{"sword", 0.2}, {"shield", 0.5}, {"potion", 0.5}}

	got, err := SelectIndependentTrials[string](src, trials)
	if err != nil {
		t.Fatalf("SelectIndependentTrials() error: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"sword", "potion"}) {
		t.Errorf("got %v, expected [sword potion]", got)
	}
}

func TestSelectIndependentTrialsDeterministic(t *testing.T) {
	trials := []Trial[int]{{1, 0.3}, {2, 0.5}, {3, 0.7}, {4, 0.9}}

	run := func() [][]int {
		src := NewSource(12345)
		var out [][]int
		for i := 0; i < 20; i++ {
			got, err := SelectIndependentTrials(src, trials)
			if err != nil {
				t.Fatalf("SelectIndependentTrials() error: %v", err)
			}
			out = append(out, got)
		}
		return out
	}

	if !reflect.DeepEqual(run(), run()) {
		t.Error("same seed should reproduce identical selections")
	}
}

func TestSelectIndependentTrialsRejectsBadProbability(t *testing.T) {
	tests := []struct {
		name string
		p    float64
	}{
		{"negative", -0.1},
		{"above one", 1.5},
		{"NaN", math.NaN()},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := SelectIndependentTrials(NewSource(1), []Trial[string]{{"x", 0.5}, {"y", tc.p}})
			if !errors.Is(err, ErrInvalidProbability) {
				t.Errorf("expected ErrInvalidProbability, got %v", err)
			}
		})
	}
}

func TestSelectSingleIgnoresProbability(t *testing.T) {
	// Index 1 has probability 0 but must still be reachable.
	src := &fixedSource{ints: []int{1}}
	trials := []Trial[string]{{"common", 1}, {"never", 0}, {"rare", 0.01}}

	v, ok := SelectSingle[string](src, trials)
	if !ok || v != "never" {
		t.Errorf("SelectSingle = %q, %v; expected never, true", v, ok)
	}

	if _, ok := SelectSingle[string](src, nil); ok {
		t.Error("SelectSingle on empty input should select nothing")
	}
}

func TestSelectWeighted(t *testing.T) {
	trials := []Trial[string]{{"a", 0.25}, {"zero", 0}, {"b", 0.75}}

	tests := []struct {
		draw     float64
		expected string
	}{
		{0.0, "a"},
		{0.2, "a"},
		{0.25, "b"},
		{0.99, "b"},
	}

	for _, tc := range tests {
		src := &fixedSource{floats: []float64{tc.draw}}
		v, ok, err := SelectWeighted[string](src, trials)
		if err != nil || !ok {
			t.Fatalf("SelectWeighted(draw=%v) = %q, %v, %v", tc.draw, v, ok, err)
		}
		if v != tc.expected {
			t.Errorf("SelectWeighted(draw=%v) = %q, expected %q", tc.draw, v, tc.expected)
		}
	}
}

func TestSelectWeightedAllZero(t *testing.T) {
	_, ok, err := SelectWeighted(NewSource(1), []Trial[string]{{"a", 0}, {"b", 0}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("all-zero weights should select nothing")
	}
}

func TestRestoreReproducesSequence(t *testing.T) {
	r := NewSource(2024)
	for i := 0; i < 17; i++ {
		r.Intn(10)
		r.Float64()
	}

	restored := Restore(r.Seed(), r.Position())
	for i := 0; i < 50; i++ {
		if a, b := r.Intn(1000), restored.Intn(1000); a != b {
			t.Fatalf("draw %d diverged after restore: %d vs %d", i, a, b)
		}
	}
	if r.Position() != restored.Position() {
		t.Errorf("positions differ: %d vs %d", r.Position(), restored.Position())
	}
}

func TestLockedSourceDelegates(t *testing.T) {
	a := NewSource(5)
	b := NewLockedSource(NewSource(5))
	for i := 0; i < 10; i++ {
		if x, y := a.Intn(100), b.Intn(100); x != y {
			t.Fatalf("LockedSource diverged at %d: %d vs %d", i, x, y)
		}
	}
}
