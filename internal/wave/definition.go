// Package wave schedules spawn waves on a per-frame clock.
//
// A Scheduler alternates between two phases. While idle it accumulates
// cooldown time; once the cooldown period is exceeded it starts the next
// wave. While active it accumulates spawn time and emits one SpawnRequest
// every time the spawn interval is exceeded, until the wave's count is
// exhausted. The scheduler only decides when and what to spawn. Turning a
// spawn identifier into an actual entity is the caller's job.
package wave

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig is returned by New for unusable timings or counts.
	ErrInvalidConfig = errors.New("wave: invalid config")

	// ErrInvalidDelta is returned by Advance for negative, NaN or infinite deltas.
	ErrInvalidDelta = errors.New("wave: invalid time delta")

	// ErrNoCurrentWave is returned when no wave has started yet or no waves are configured.
	ErrNoCurrentWave = errors.New("wave: no current wave")

	// ErrInvalidSnapshot is returned by Restore for inconsistent state.
	ErrInvalidSnapshot = errors.New("wave: invalid snapshot")
)

// Definition describes a single wave.
// Pool may be empty, in which case the wave's spawn slots elapse silently.
type Definition struct {
	Pool  []string // Spawn identifiers to pick from uniformly
	Count int      // Number of spawn slots in the wave
}

func (d Definition) clone() Definition {
	pool := make([]string, len(d.Pool))
	copy(pool, d.Pool)
	return Definition{Pool: pool, Count: d.Count}
}

// ExhaustedPolicy decides what happens once every definition has been used.
type ExhaustedPolicy int

const (
	// RepeatLast keeps replaying the final definition forever.
	RepeatLast ExhaustedPolicy = iota
	// Stop ends scheduling after the final definition completes.
	Stop
)

// String returns the config name of the policy.
func (p ExhaustedPolicy) String() string {
	switch p {
	case RepeatLast:
		return "repeat_last"
	case Stop:
		return "stop"
	default:
		return "unknown"
	}
}

// ParseExhaustedPolicy converts a config name to a policy.
// An empty name means RepeatLast.
func ParseExhaustedPolicy(name string) (ExhaustedPolicy, error) {
	switch name {
	case "", "repeat_last":
		return RepeatLast, nil
	case "stop":
		return Stop, nil
	default:
		return RepeatLast, fmt.Errorf("%w: unknown on_exhausted policy %q", ErrInvalidConfig, name)
	}
}

// Config is the immutable configuration of a Scheduler.
type Config struct {
	CooldownPeriod float64 // Seconds of idle time before a wave starts
	SpawnInterval  float64 // Seconds between spawns inside a wave
	Definitions    []Definition
	OnExhausted    ExhaustedPolicy
}

// SpawnRequest asks the host to instantiate one object.
type SpawnRequest struct {
	ID       string // Spawn identifier drawn from the wave pool
	Wave     int    // 1-based wave number that produced the request
	Sequence int    // 1-based spawn slot within the wave
}
