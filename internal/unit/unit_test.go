package unit

import (
	"math"
	"testing"
)

func TestHealthTakeSaturates(t *testing.T) {
	h := NewHealth(10)
	h.Take(4)
	if h.Current() != 6 {
		t.Errorf("Current() = %d, expected 6", h.Current())
	}

	h.Take(100)
	if h.Current() != 0 || !h.IsZero() {
		t.Errorf("Take past zero should saturate, got %d", h.Current())
	}

	h.Take(-5)
	if h.Current() != 0 {
		t.Errorf("negative Take should be ignored, got %d", h.Current())
	}
}

func TestHealthAddAndCap(t *testing.T) {
	h := NewHealth(10)
	h.Add(5)
	if h.Current() != 15 {
		t.Errorf("uncapped Add: Current() = %d, expected 15", h.Current())
	}

	capped := NewHealth(10).WithCap(12)
	capped.Add(5)
	if capped.Current() != 12 {
		t.Errorf("capped Add: Current() = %d, expected 12", capped.Current())
	}

	lowered := NewHealth(10).WithCap(8)
	if lowered.Current() != 8 {
		t.Errorf("cap below current should clamp, got %d", lowered.Current())
	}
}

func TestHealthResetAndPercent(t *testing.T) {
	h := NewHealth(8)
	h.Take(6)
	if got := h.Percent(); got != 0.25 {
		t.Errorf("Percent() = %v, expected 0.25", got)
	}

	h.Reset()
	if h.Current() != 8 || h.Percent() != 1 {
		t.Errorf("Reset() should restore original, got %d", h.Current())
	}

	var empty Health
	if empty.Percent() != 0 {
		t.Errorf("zero original Percent() = %v, expected 0", empty.Percent())
	}
	if NewHealth(-3).Original() != 0 {
		t.Error("negative base should be treated as 0")
	}
}

func TestDurationLifetime(t *testing.T) {
	d := NewDurationLifetime(1.0)
	d.Tick(0.4)
	d.Tick(-1)
	if d.Expired() {
		t.Error("should not expire before max")
	}
	if math.Abs(d.Remaining()-0.6) > 1e-9 {
		t.Errorf("Remaining() = %v, expected 0.6", d.Remaining())
	}

	d.Tick(0.6)
	if !d.Expired() {
		t.Error("should expire at max")
	}
	if d.Remaining() != 0 {
		t.Errorf("Remaining() = %v, expected 0", d.Remaining())
	}

	d.Reset()
	if d.Expired() || d.Elapsed() != 0 {
		t.Error("Reset() should clear elapsed time")
	}
}

func TestDistanceLifetime(t *testing.T) {
	d := NewDistanceLifetime(10)
	d.Update(0, 0)
	d.Update(3, 4)
	if d.Distance() != 5 {
		t.Errorf("Distance() = %v, expected 5", d.Distance())
	}
	if d.Expired() {
		t.Error("should not expire at 5 of 10")
	}

	d.Update(6, 8)
	if d.Expired() {
		t.Error("exactly max distance should not expire")
	}
	d.Update(6, 9)
	if !d.Expired() {
		t.Error("should expire past max distance")
	}

	d.Reset()
	d.Update(6, 10)
	if d.Distance() != 1 {
		t.Errorf("Reset() should keep last position, Distance() = %v", d.Distance())
	}
}

func TestDistanceLifetimeResume(t *testing.T) {
	d := NewDistanceLifetime(10)
	d.Resume(7, 2, 0)
	d.Update(5, 0)
	if d.Distance() != 10 {
		t.Errorf("Distance() = %v, expected 10", d.Distance())
	}
	if d.Expired() {
		t.Error("exactly max distance should not expire")
	}
}

func TestPenetrationLifetime(t *testing.T) {
	var lt Lifetime = NewPenetrationLifetime(2)
	p := lt.(*PenetrationLifetime)

	p.Hit()
	if lt.Expired() {
		t.Error("should survive first hit")
	}
	p.Hit()
	if !lt.Expired() {
		t.Error("should expire after second hit")
	}

	lt.Reset()
	if lt.Expired() {
		t.Error("Reset() should restore hits")
	}
}
