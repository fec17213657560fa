package config

import (
	"errors"
	"fmt"
	"math"

	"github.com/vovakirdan/wavekit/internal/droptable"
	"github.com/vovakirdan/wavekit/internal/random"
	"github.com/vovakirdan/wavekit/internal/wave"
)

// ErrInvalidScenario wraps every validation failure.
var ErrInvalidScenario = errors.New("config: invalid scenario")

// Validate checks the scenario for authoring errors.
// All problems are reported together.
func (s Scenario) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if s.ID == "" {
		add("id is required")
	}

	w := s.Waves
	if !nonNegative(w.CooldownPeriod) {
		add("waves.cooldown_period must be >= 0, got %v", w.CooldownPeriod)
	}
	if !nonNegative(w.SpawnInterval) {
		add("waves.spawn_interval must be >= 0, got %v", w.SpawnInterval)
	}
	if _, err := wave.ParseExhaustedPolicy(w.OnExhausted); err != nil {
		add("waves.on_exhausted: %q is not repeat_last or stop", w.OnExhausted)
	}
	for i, d := range w.Definitions {
		if d.Count < 0 {
			add("waves.definitions[%d].count must be >= 0, got %d", i, d.Count)
		}
	}

	for id, u := range s.Units {
		if u.HP <= 0 {
			add("units.%s.hp must be > 0, got %d", id, u.HP)
		}
		if !nonNegative(u.Speed) {
			add("units.%s.speed must be >= 0, got %v", id, u.Speed)
		}
		if !nonNegative(u.Regen) {
			add("units.%s.regen must be >= 0, got %v", id, u.Regen)
		}
	}

	if !(s.Lane.Length > 0) || math.IsInf(s.Lane.Length, 0) {
		add("lane.length must be > 0, got %v", s.Lane.Length)
	}

	d := s.Defender
	if !(d.FireInterval > 0) || math.IsInf(d.FireInterval, 0) {
		add("defender.fire_interval must be > 0, got %v", d.FireInterval)
	}
	if d.Damage < 0 {
		add("defender.damage must be >= 0, got %d", d.Damage)
	}
	if d.Pierce < 1 {
		add("defender.pierce must be >= 1, got %d", d.Pierce)
	}
	switch d.Pattern {
	case "", PatternStraight:
		if d.Shots > 1 {
			add("defender.shots only applies to the spread pattern, got %d", d.Shots)
		}
	case PatternSpread:
		if d.Shots < 1 {
			add("defender.shots must be >= 1 for spread, got %d", d.Shots)
		}
	default:
		add("defender.pattern: %q is not straight or spread", d.Pattern)
	}
	if d.Shots < 0 {
		add("defender.shots must be >= 0, got %d", d.Shots)
	}

	if _, err := droptable.ParseSingleMode(s.Loot.SingleMode); err != nil {
		add("loot.single_mode: %q is not uniform or weighted", s.Loot.SingleMode)
	}
	for i, e := range s.Loot.Entries {
		if e.Item == "" {
			add("loot.entries[%d].item is required", i)
		}
		if err := random.ValidateProbability(e.Probability); err != nil {
			add("loot.entries[%d]: %w", i, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidScenario, errors.Join(errs...))
	}
	return nil
}

func nonNegative(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0)
}
