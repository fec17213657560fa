package core

import (
	"math"
	"strings"
	"testing"
)

func TestNewCanvas(t *testing.T) {
	c := NewCanvas(8, 3)

	if c.Width() != 8 || c.Height() != 3 {
		t.Errorf("size = %dx%d, expected 8x3", c.Width(), c.Height())
	}
	for y := range c.Height() {
		if c.Row(y) != strings.Repeat(" ", 8) {
			t.Errorf("Row(%d) = %q, expected blanks", y, c.Row(y))
		}
	}

	if neg := NewCanvas(-1, -5); neg.Width() != 0 || neg.Height() != 0 {
		t.Errorf("negative size should clamp to zero, got %dx%d", neg.Width(), neg.Height())
	}
}

func TestCanvasSetGetCell(t *testing.T) {
	c := NewCanvas(5, 5)

	c.Set(2, 3, 'g', ColorHealthy)
	if got := c.GetCell(2, 3); got != (Cell{Rune: 'g', Color: ColorHealthy}) {
		t.Errorf("GetCell(2, 3) = %+v", got)
	}

	// Out of bounds should be silent
	c.Set(-1, 0, 'x', ColorDefault)
	c.Set(5, 0, 'x', ColorDefault)
	c.Set(0, 5, 'x', ColorDefault)

	if got := c.GetCell(9, 9); got.Rune != ' ' {
		t.Errorf("out of bounds GetCell = %q, expected space", got.Rune)
	}
}

func TestCanvasDrawTextClips(t *testing.T) {
	c := NewCanvas(6, 1)
	c.DrawText(3, 0, "wave 2", ColorAccent)

	if c.Row(0) != "   wav" {
		t.Errorf("Row(0) = %q, expected clipped text", c.Row(0))
	}
	if c.GetCell(4, 0).Color != ColorAccent {
		t.Error("DrawText should apply the color")
	}
}

func TestCanvasDrawHLineAndString(t *testing.T) {
	c := NewCanvas(4, 2)
	c.DrawHLine(0, 1, 4, '=', ColorLane)

	expected := "    \n===="
	if c.String() != expected {
		t.Errorf("String() = %q, expected %q", c.String(), expected)
	}
}

func TestCanvasResizeClears(t *testing.T) {
	c := NewCanvas(3, 3)
	c.Set(1, 1, 'x', ColorDefault)
	c.Resize(4, 2)

	if c.Width() != 4 || c.Height() != 2 {
		t.Fatalf("size = %dx%d, expected 4x2", c.Width(), c.Height())
	}
	if c.GetCell(1, 1).Rune != ' ' {
		t.Error("Resize should clear the canvas")
	}
}

func TestHealthColor(t *testing.T) {
	tests := []struct {
		percent  float64
		expected Color
	}{
		{1, ColorHealthy},
		{0.5, ColorWounded},
		{0.2, ColorCritical},
		{0, ColorCritical},
	}
	for _, tc := range tests {
		if got := HealthColor(tc.percent); got != tc.expected {
			t.Errorf("HealthColor(%v) = %v, expected %v", tc.percent, got, tc.expected)
		}
	}
}

func TestRuntimeConfigDelta(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() failed: %v", err)
	}
	if math.Abs(cfg.Delta()-1.0/60) > 1e-12 {
		t.Errorf("Delta() = %v, expected 1/60", cfg.Delta())
	}

	fast := cfg.Faster()
	if fast.Speed != 2 || math.Abs(fast.Delta()-2.0/60) > 1e-12 {
		t.Errorf("Faster() = %+v", fast)
	}

	if (RuntimeConfig{}).Delta() != 0 {
		t.Error("zero tick rate should give zero delta")
	}
}

func TestRuntimeConfigSpeedLimits(t *testing.T) {
	cfg := DefaultConfig()
	for range 10 {
		cfg = cfg.Faster()
	}
	if cfg.Speed != MaxSpeed {
		t.Errorf("Speed = %v, expected clamp to %v", cfg.Speed, MaxSpeed)
	}
	for range 10 {
		cfg = cfg.Slower()
	}
	if cfg.Speed != MinSpeed {
		t.Errorf("Speed = %v, expected clamp to %v", cfg.Speed, MinSpeed)
	}
}

func TestRuntimeConfigValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  RuntimeConfig
	}{
		{"zero tick rate", RuntimeConfig{TickRate: 0, Speed: 1}},
		{"too slow", RuntimeConfig{TickRate: 60, Speed: 0.1}},
		{"too fast", RuntimeConfig{TickRate: 60, Speed: 100}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.cfg.Validate(); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestActionString(t *testing.T) {
	if ActionCheckpoint.String() != "Checkpoint" {
		t.Errorf("String() = %q", ActionCheckpoint.String())
	}
	if Action(99).String() != "Unknown" {
		t.Error("out of range action should be Unknown")
	}
}
