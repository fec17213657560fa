package wave

import (
	"fmt"
	"math"
)

// Phase is a display-oriented summary of the scheduler state.
type Phase int

const (
	PhaseNotStarted Phase = iota
	PhaseCooldown
	PhaseSpawning
	PhasePaused
	PhaseFinished
)

// String returns a human-readable name for the phase.
func (p Phase) String() string {
	switch p {
	case PhaseNotStarted:
		return "not started"
	case PhaseCooldown:
		return "cooldown"
	case PhaseSpawning:
		return "spawning"
	case PhasePaused:
		return "paused"
	case PhaseFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Status is a read-only view of the scheduler for UI and logging.
// It can be queried every frame, including before the first wave.
type Status struct {
	Phase            Phase
	Wave             int     // Waves started so far
	TotalWaves       int     // Configured definitions
	SpawnsRemaining  int     // Slots left in the active wave
	WaveSize         int     // Slots the active wave started with
	CooldownProgress float64 // 0..1 towards the next wave while idle
	SpawnProgress    float64 // 0..1 towards the next spawn while active
}

// Status returns the current status.
func (s *Scheduler) Status() Status {
	st := Status{
		Wave:       s.waveIndex,
		TotalWaves: len(s.cfg.Definitions),
	}

	switch p := s.phase.(type) {
	case idle:
		st.CooldownProgress = progress(p.cooldownElapsed, s.cfg.CooldownPeriod)
	case active:
		st.SpawnsRemaining = p.spawnsRemaining
		st.WaveSize = p.size
		st.SpawnProgress = progress(p.spawnElapsed, s.cfg.SpawnInterval)
	}

	switch {
	case s.paused:
		st.Phase = PhasePaused
	case s.Active():
		st.Phase = PhaseSpawning
	case s.Finished():
		st.Phase = PhaseFinished
		st.CooldownProgress = 0
	case s.waveIndex == 0:
		st.Phase = PhaseNotStarted
	default:
		st.Phase = PhaseCooldown
	}
	return st
}

func progress(elapsed, period float64) float64 {
	if period <= 0 {
		return 1
	}
	return math.Min(elapsed/period, 1)
}

// Snapshot is the serializable mutable state of a Scheduler.
// Configuration is not included; restore into a scheduler built from the same config.
type Snapshot struct {
	WaveIndex       int     `json:"wave_index"`
	Active          bool    `json:"active"`
	WaveSize        int     `json:"wave_size,omitempty"`
	SpawnsRemaining int     `json:"spawns_remaining,omitempty"`
	SpawnElapsed    float64 `json:"spawn_elapsed,omitempty"`
	CooldownElapsed float64 `json:"cooldown_elapsed,omitempty"`
	Paused          bool    `json:"paused,omitempty"`
}

// Snapshot captures the scheduler's mutable state.
func (s *Scheduler) Snapshot() Snapshot {
	snap := Snapshot{
		WaveIndex: s.waveIndex,
		Paused:    s.paused,
	}
	switch p := s.phase.(type) {
	case idle:
		snap.CooldownElapsed = p.cooldownElapsed
	case active:
		snap.Active = true
		snap.WaveSize = p.size
		snap.SpawnsRemaining = p.spawnsRemaining
		snap.SpawnElapsed = p.spawnElapsed
	}
	return snap
}

// Restore replaces the scheduler's mutable state with snap.
// Inconsistent snapshots are rejected and leave the scheduler unchanged.
func (s *Scheduler) Restore(snap Snapshot) error {
	if err := s.checkSnapshot(snap); err != nil {
		return err
	}

	s.waveIndex = snap.WaveIndex
	s.paused = snap.Paused
	if snap.Active {
		s.phase = active{
			size:            snap.WaveSize,
			spawnsRemaining: snap.SpawnsRemaining,
			spawnElapsed:    snap.SpawnElapsed,
		}
	} else {
		s.phase = idle{cooldownElapsed: snap.CooldownElapsed}
	}
	return nil
}

func (s *Scheduler) checkSnapshot(snap Snapshot) error {
	total := len(s.cfg.Definitions)
	switch {
	case snap.WaveIndex < 0:
		return fmt.Errorf("%w: negative wave index", ErrInvalidSnapshot)
	case total == 0 && snap.WaveIndex > 0:
		return fmt.Errorf("%w: wave %d with no definitions", ErrInvalidSnapshot, snap.WaveIndex)
	case s.cfg.OnExhausted == Stop && snap.WaveIndex > total:
		return fmt.Errorf("%w: wave %d beyond %d definitions", ErrInvalidSnapshot, snap.WaveIndex, total)
	case !validDuration(snap.CooldownElapsed) || !validDuration(snap.SpawnElapsed):
		return fmt.Errorf("%w: invalid elapsed time", ErrInvalidSnapshot)
	case !snap.Active && snap.SpawnsRemaining > 0:
		return fmt.Errorf("%w: spawns remaining while idle", ErrInvalidSnapshot)
	case snap.Active && snap.WaveIndex == 0:
		return fmt.Errorf("%w: active before any wave started", ErrInvalidSnapshot)
	case snap.Active && (snap.SpawnsRemaining <= 0 || snap.SpawnsRemaining > snap.WaveSize):
		return fmt.Errorf("%w: %d of %d spawns remaining", ErrInvalidSnapshot, snap.SpawnsRemaining, snap.WaveSize)
	}
	return nil
}
