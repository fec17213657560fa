// Package core provides the runtime settings and drawing primitives shared by
// the wavekit hosts. It has no UI dependencies so it can be tested headless.
package core

import "fmt"

// Speed limits for the time scale.
const (
	MinSpeed = 0.25
	MaxSpeed = 8.0
)

// RuntimeConfig contains settings that drive a simulation host.
type RuntimeConfig struct {
	ScreenW  int     // Screen width in characters
	ScreenH  int     // Screen height in characters
	TickRate int     // Simulation ticks per second (default 60)
	Seed     int64   // RNG seed; 0 means a time-based seed
	Speed    float64 // Simulated seconds per wall-clock second
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Speed:    1,
	}
}

// Validate checks the tick rate and speed.
func (c RuntimeConfig) Validate() error {
	if c.TickRate <= 0 {
		return fmt.Errorf("core: tick rate must be > 0, got %d", c.TickRate)
	}
	if c.Speed < MinSpeed || c.Speed > MaxSpeed {
		return fmt.Errorf("core: speed must be within [%v, %v], got %v", MinSpeed, MaxSpeed, c.Speed)
	}
	return nil
}

// Delta returns the simulated seconds covered by one tick.
func (c RuntimeConfig) Delta() float64 {
	if c.TickRate <= 0 {
		return 0
	}
	return c.Speed / float64(c.TickRate)
}

// Faster doubles the speed up to MaxSpeed.
func (c RuntimeConfig) Faster() RuntimeConfig {
	c.Speed = min(c.Speed*2, MaxSpeed)
	return c
}

// Slower halves the speed down to MinSpeed.
func (c RuntimeConfig) Slower() RuntimeConfig {
	c.Speed = max(c.Speed/2, MinSpeed)
	return c
}
