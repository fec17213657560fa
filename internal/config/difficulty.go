package config

import (
	"fmt"
	"math"
)

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// difficultyScaling holds the multipliers a preset applies.
type difficultyScaling struct {
	timing float64 // Multiplies cooldown and spawn interval
	hp     float64 // Multiplies unit hit points
	speed  float64 // Multiplies unit speed
}

var presetScaling = map[DifficultyPreset]difficultyScaling{
	DifficultyEasy:   {timing: 1.5, hp: 0.75, speed: 0.8},
	DifficultyNormal: {timing: 1.0, hp: 1.0, speed: 1.0},
	DifficultyHard:   {timing: 0.6, hp: 1.5, speed: 1.25},
}

// ParseDifficulty converts a flag value to a preset.
// An empty value means normal.
func ParseDifficulty(name string) (DifficultyPreset, error) {
	if name == "" {
		return DifficultyNormal, nil
	}
	p := DifficultyPreset(name)
	if _, ok := presetScaling[p]; !ok {
		return DifficultyNormal, fmt.Errorf("config: unknown difficulty %q (use easy, normal or hard)", name)
	}
	return p, nil
}

// ApplyDifficultyPreset returns a copy of the scenario scaled by preset.
// Shorter timings and tougher units make for a harder run.
func ApplyDifficultyPreset(sc Scenario, preset DifficultyPreset) Scenario {
	scale, ok := presetScaling[preset]
	if !ok || preset == DifficultyNormal {
		return sc
	}

	sc.Waves.CooldownPeriod *= scale.timing
	sc.Waves.SpawnInterval *= scale.timing

	units := make(map[string]UnitConfig, len(sc.Units))
	for id, u := range sc.Units {
		u.HP = max(1, int(math.Round(float64(u.HP)*scale.hp)))
		u.Speed *= scale.speed
		units[id] = u
	}
	sc.Units = units
	return sc
}
