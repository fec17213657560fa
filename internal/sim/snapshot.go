package sim

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/wavekit/internal/config"
	"github.com/vovakirdan/wavekit/internal/random"
	"github.com/vovakirdan/wavekit/internal/unit"
	"github.com/vovakirdan/wavekit/internal/wave"
)

// ErrScenarioMismatch is returned when a snapshot is restored against a different scenario.
var ErrScenarioMismatch = errors.New("sim: snapshot belongs to another scenario")

// UnitState is the serializable state of one live unit.
type UnitState struct {
	ID        int     `json:"id"`
	Kind      string  `json:"kind"`
	Wave      int     `json:"wave"`
	HP        int     `json:"hp"`
	Position  float64 `json:"position"`
	Travelled float64 `json:"travelled"`
	RegenAcc  float64 `json:"regen_acc,omitempty"`
}

// Snapshot contains the complete simulation state.
// The scenario itself is not included, only its ID and fingerprint.
type Snapshot struct {
	ScenarioID  string        `json:"scenario_id"`
	ScenarioFP  string        `json:"scenario_fingerprint"`
	Seed        int64         `json:"seed"`
	RNGPosition int64         `json:"rng_position"`
	Scheduler   wave.Snapshot `json:"scheduler"`
	Units       []UnitState   `json:"units"`
	NextID      int           `json:"next_id"`
	Reload      float64       `json:"reload"`
	Paused      bool          `json:"paused,omitempty"`
	Stats       Stats         `json:"stats"`
}

// Snapshot returns the current simulation state.
func (s *Simulation) Snapshot() Snapshot {
	units := make([]UnitState, len(s.units))
	for i, u := range s.units {
		units[i] = UnitState{
			ID:        u.ID,
			Kind:      u.Kind,
			Wave:      u.Wave,
			HP:        u.Health.Current(),
			Position:  u.Position,
			Travelled: u.travel.Distance(),
			RegenAcc:  u.regenAcc,
		}
	}

	return Snapshot{
		ScenarioID:  s.scenario.ID,
		ScenarioFP:  s.scenario.Fingerprint(),
		Seed:        s.src.Seed(),
		RNGPosition: s.src.Position(),
		Scheduler:   s.scheduler.Snapshot(),
		Units:       units,
		NextID:      s.nextID,
		Reload:      s.reload.Elapsed(),
		Paused:      s.paused,
		Stats:       s.Stats(),
	}
}

// Restore rebuilds a simulation from sc and snap.
// The RNG resumes at the recorded position, so the restored simulation
// produces the same future as the one the snapshot was taken from.
// A scenario whose settings changed since the snapshot, e.g. through a
// different difficulty preset, is rejected.
func Restore(sc config.Scenario, snap Snapshot) (*Simulation, error) {
	if snap.ScenarioID != sc.ID {
		return nil, fmt.Errorf("%w: %q, expected %q", ErrScenarioMismatch, snap.ScenarioID, sc.ID)
	}
	if fp := sc.Fingerprint(); snap.ScenarioFP != fp {
		return nil, fmt.Errorf("%w: %q settings changed (fingerprint %s, expected %s)",
			ErrScenarioMismatch, sc.ID, fp, snap.ScenarioFP)
	}
	if snap.RNGPosition < 0 || snap.NextID < 0 || snap.Reload < 0 {
		return nil, fmt.Errorf("sim: invalid snapshot counters")
	}

	s, err := newWithSource(sc, random.Restore(snap.Seed, snap.RNGPosition))
	if err != nil {
		return nil, err
	}
	if err := s.scheduler.Restore(snap.Scheduler); err != nil {
		return nil, fmt.Errorf("sim: %w", err)
	}

	for _, us := range snap.Units {
		cfg, ok := sc.Units[us.Kind]
		if !ok {
			return nil, fmt.Errorf("sim: snapshot unit %d has unknown kind %q", us.ID, us.Kind)
		}
		if us.HP <= 0 || us.HP > cfg.HP || us.Position < 0 || us.Travelled < 0 ||
			us.RegenAcc < 0 || us.RegenAcc >= 1 {
			return nil, fmt.Errorf("sim: snapshot unit %d is out of range", us.ID)
		}

		u := &Unit{
			ID:       us.ID,
			Kind:     us.Kind,
			Wave:     us.Wave,
			Health:   unit.NewHealth(cfg.HP).WithCap(cfg.HP),
			Position: us.Position,
			speed:    cfg.Speed,
			regen:    cfg.Regen,
			regenAcc: us.RegenAcc,
			travel:   unit.NewDistanceLifetime(sc.Lane.Length),
		}
		u.Health.Take(u.Health.Original() - us.HP)
		u.travel.Resume(us.Travelled, us.Position, 0)
		s.units = append(s.units, u)
	}

	s.nextID = snap.NextID
	s.reload.Reset()
	s.reload.Tick(snap.Reload)
	s.paused = snap.Paused
	s.stats = snap.Stats
	if s.stats.Drops == nil {
		s.stats.Drops = make(map[string]int)
	}
	if s.stats.Bonus == nil {
		s.stats.Bonus = make(map[string]int)
	}
	return s, nil
}
