// Package config provides YAML-based scenario configuration loading,
// validation and difficulty presets for wave simulations.
package config

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"sort"

	"github.com/vovakirdan/wavekit/internal/droptable"
	"github.com/vovakirdan/wavekit/internal/wave"
)

// Scenario is the full configuration of one wave simulation.
type Scenario struct {
	ID       string                `yaml:"id"`
	Title    string                `yaml:"title"`
	Waves    WavesConfig           `yaml:"waves"`
	Units    map[string]UnitConfig `yaml:"units"`
	Lane     LaneConfig            `yaml:"lane"`
	Defender DefenderConfig        `yaml:"defender"`
	Loot     LootConfig            `yaml:"loot"`
}

// WavesConfig defines the wave scheduler timings and definitions.
type WavesConfig struct {
	CooldownPeriod float64     `yaml:"cooldown_period"` // Seconds between waves
	SpawnInterval  float64     `yaml:"spawn_interval"`  // Seconds between spawns
	OnExhausted    string      `yaml:"on_exhausted"`    // "repeat_last" or "stop"
	Definitions    []WaveEntry `yaml:"definitions"`
}

// WaveEntry is one wave entry in YAML form.
type WaveEntry struct {
	Pool  []string `yaml:"pool"`
	Count int      `yaml:"count"`
}

// UnitConfig defines a spawnable unit type.
type UnitConfig struct {
	HP    int     `yaml:"hp"`
	Speed float64 `yaml:"speed"` // Lane cells per second
	Regen float64 `yaml:"regen"` // Hit points healed per second, never above hp
}

// LaneConfig defines the path units walk before leaking.
type LaneConfig struct {
	Length float64 `yaml:"length"`
}

// DefenderConfig defines the single turret that fights spawned units.
type DefenderConfig struct {
	FireInterval float64       `yaml:"fire_interval"` // Seconds between volleys
	Damage       int           `yaml:"damage"`        // Damage per hit
	Pierce       int           `yaml:"pierce"`        // Units a shot passes through
	Pattern      AttackPattern `yaml:"pattern"`       // "straight" (default) or "spread"
	Shots        int           `yaml:"shots"`         // Pellets per spread volley
}

// AttackPattern selects how a volley is shaped.
type AttackPattern string

const (
	// PatternStraight fires one shot that passes through the front units.
	PatternStraight AttackPattern = "straight"
	// PatternSpread fires Shots pellets at once; each starts again from the
	// front-most unit still alive, so damage piles onto the leaders.
	PatternSpread AttackPattern = "spread"
)

// Volley returns the number of shots fired each time the defender reloads.
func (d DefenderConfig) Volley() int {
	if d.Pattern == PatternSpread {
		return max(d.Shots, 1)
	}
	return 1
}

// LootConfig defines what killed units may drop.
type LootConfig struct {
	SingleMode string      `yaml:"single_mode"` // "uniform" or "weighted"
	Entries    []LootEntry `yaml:"entries"`
}

// LootEntry is one drop entry in YAML form.
type LootEntry struct {
	Item        string  `yaml:"item"`
	Probability float64 `yaml:"probability"`
}

// WaveConfig converts the waves section to a scheduler config.
func (s Scenario) WaveConfig() (wave.Config, error) {
	policy, err := wave.ParseExhaustedPolicy(s.Waves.OnExhausted)
	if err != nil {
		return wave.Config{}, err
	}

	defs := make([]wave.Definition, len(s.Waves.Definitions))
	for i, d := range s.Waves.Definitions {
		defs[i] = wave.Definition{Pool: d.Pool, Count: d.Count}
	}

	return wave.Config{
		CooldownPeriod: s.Waves.CooldownPeriod,
		SpawnInterval:  s.Waves.SpawnInterval,
		Definitions:    defs,
		OnExhausted:    policy,
	}, nil
}

// LootTable builds the scenario's drop table.
func (s Scenario) LootTable() (*droptable.DropTable[string], error) {
	mode, err := droptable.ParseSingleMode(s.Loot.SingleMode)
	if err != nil {
		return nil, err
	}

	entries := make([]droptable.Entry[string], len(s.Loot.Entries))
	for i, e := range s.Loot.Entries {
		entries[i] = droptable.Entry[string]{Value: e.Item, Probability: e.Probability}
	}
	return droptable.New(entries, droptable.WithSingleMode(mode))
}

// SpawnIDs returns every identifier referenced by a wave pool, sorted.
func (s Scenario) SpawnIDs() []string {
	seen := make(map[string]bool)
	for _, d := range s.Waves.Definitions {
		for _, id := range d.Pool {
			seen[id] = true
		}
	}

	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// UnknownSpawnIDs returns pool identifiers that have no unit entry, sorted.
// They are legal; the simulation counts and skips them.
func (s Scenario) UnknownSpawnIDs() []string {
	var unknown []string
	for _, id := range s.SpawnIDs() {
		if _, ok := s.Units[id]; !ok {
			unknown = append(unknown, id)
		}
	}
	return unknown
}

// Fingerprint identifies the scenario's settings, so a snapshot taken
// under one difficulty or file revision is not restored onto another.
func (s Scenario) Fingerprint() string {
	data, err := json.Marshal(s)
	if err != nil {
		return ""
	}
	h := fnv.New64a()
	h.Write(data)
	return fmt.Sprintf("%016x", h.Sum64())
}

// String returns a one-line summary for logs.
func (s Scenario) String() string {
	return fmt.Sprintf("%s (%d waves, cooldown %.1fs, interval %.2fs)",
		s.ID, len(s.Waves.Definitions), s.Waves.CooldownPeriod, s.Waves.SpawnInterval)
}
