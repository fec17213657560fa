package wave

import (
	"fmt"
	"math"

	"github.com/vovakirdan/wavekit/internal/random"
)

// phase is either idle or active; nothing else is representable.
type phase interface {
	isPhase()
}

// idle accumulates cooldown between waves.
type idle struct {
	cooldownElapsed float64
}

// active emits spawns for the current wave.
type active struct {
	size            int // Spawn count the wave started with
	spawnsRemaining int
	spawnElapsed    float64
}

func (idle) isPhase()   {}
func (active) isPhase() {}

// Scheduler drives the wave lifecycle one frame at a time.
// A Scheduler is not safe for concurrent use; run one per spawn timeline.
type Scheduler struct {
	cfg       Config
	src       random.Source
	waveIndex int // Waves started so far, 0 = not started
	phase     phase
	paused    bool
}

// New creates a scheduler in the not-started state.
// Definitions are copied; later changes to cfg do not affect the scheduler.
// Zero definitions are allowed: such a scheduler never starts a wave.
func New(cfg Config, src random.Source) (*Scheduler, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: random source is nil", ErrInvalidConfig)
	}
	if !validDuration(cfg.CooldownPeriod) {
		return nil, fmt.Errorf("%w: cooldown period %v", ErrInvalidConfig, cfg.CooldownPeriod)
	}
	if !validDuration(cfg.SpawnInterval) {
		return nil, fmt.Errorf("%w: spawn interval %v", ErrInvalidConfig, cfg.SpawnInterval)
	}
	if cfg.OnExhausted != RepeatLast && cfg.OnExhausted != Stop {
		return nil, fmt.Errorf("%w: on_exhausted policy %d", ErrInvalidConfig, cfg.OnExhausted)
	}

	defs := make([]Definition, len(cfg.Definitions))
	for i, d := range cfg.Definitions {
		if d.Count < 0 {
			return nil, fmt.Errorf("%w: wave %d has negative count %d", ErrInvalidConfig, i+1, d.Count)
		}
		defs[i] = d.clone()
	}
	cfg.Definitions = defs

	return &Scheduler{
		cfg:   cfg,
		src:   src,
		phase: idle{},
	}, nil
}

func validDuration(v float64) bool {
	return v >= 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Advance moves the scheduler forward by dt seconds and returns the spawn
// requests produced during this frame. It is meant to be called exactly once
// per frame by the host loop.
func (s *Scheduler) Advance(dt float64) ([]SpawnRequest, error) {
	if dt < 0 || math.IsNaN(dt) || math.IsInf(dt, 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDelta, dt)
	}
	if s.paused {
		return nil, nil
	}

	var requests []SpawnRequest
	wasIdle := false

	switch p := s.phase.(type) {
	case idle:
		if p.cooldownElapsed > s.cfg.CooldownPeriod && s.canStartWave() {
			s.startWave()
		} else {
			wasIdle = true
		}
	}

	if p, ok := s.phase.(active); ok {
		p.spawnElapsed += dt
		if p.spawnElapsed > s.cfg.SpawnInterval && p.spawnsRemaining > 0 {
			p.spawnElapsed = 0
			if id, picked := random.SelectUniform(s.src, s.currentDefinition().Pool); picked {
				requests = append(requests, SpawnRequest{
					ID:       id,
					Wave:     s.waveIndex,
					Sequence: p.size - p.spawnsRemaining + 1,
				})
			}
			p.spawnsRemaining--
		}

		if p.spawnsRemaining == 0 {
			// Cooldown resumes on the next call, not this one.
			s.phase = idle{}
		} else {
			s.phase = p
		}
	}

	if wasIdle && !s.Finished() {
		p := s.phase.(idle)
		p.cooldownElapsed += dt
		s.phase = p
	}

	return requests, nil
}

// canStartWave reports whether a next definition is available under the policy.
func (s *Scheduler) canStartWave() bool {
	total := len(s.cfg.Definitions)
	if total == 0 {
		return false
	}
	if s.cfg.OnExhausted == Stop && s.waveIndex >= total {
		return false
	}
	return true
}

func (s *Scheduler) startWave() {
	s.waveIndex++
	count := s.currentDefinition().Count
	s.phase = active{size: count, spawnsRemaining: count}
}

// currentDefinition returns the definition for waveIndex, clamped to the last one.
// Callers must ensure waveIndex > 0 and at least one definition exists.
func (s *Scheduler) currentDefinition() Definition {
	idx := min(s.waveIndex, len(s.cfg.Definitions))
	return s.cfg.Definitions[idx-1]
}

// CurrentWave returns the definition of the most recently started wave.
// Returns ErrNoCurrentWave before the first wave or when no waves are configured.
func (s *Scheduler) CurrentWave() (Definition, error) {
	if s.waveIndex == 0 || len(s.cfg.Definitions) == 0 {
		return Definition{}, ErrNoCurrentWave
	}
	return s.currentDefinition().clone(), nil
}

// TotalWaves returns the number of configured wave definitions.
func (s *Scheduler) TotalWaves() int {
	return len(s.cfg.Definitions)
}

// CurrentWaveNumber returns the number of waves started so far.
// 0 means no wave has started yet.
func (s *Scheduler) CurrentWaveNumber() int {
	return s.waveIndex
}

// Started reports whether at least one wave has started.
func (s *Scheduler) Started() bool {
	return s.waveIndex > 0
}

// Active reports whether a wave is currently emitting spawns.
func (s *Scheduler) Active() bool {
	_, ok := s.phase.(active)
	return ok
}

// SpawnsRemaining returns the spawn slots left in the active wave, 0 when idle.
func (s *Scheduler) SpawnsRemaining() int {
	if p, ok := s.phase.(active); ok {
		return p.spawnsRemaining
	}
	return 0
}

// Finished reports whether the scheduler is idle with no wave left to start.
// This only happens with the Stop policy or with no definitions at all.
func (s *Scheduler) Finished() bool {
	return !s.Active() && !s.canStartWave()
}

// Pause freezes every timer and transition until Unpause.
func (s *Scheduler) Pause() {
	s.paused = true
}

// Unpause resumes from exactly where Pause left off.
func (s *Scheduler) Unpause() {
	s.paused = false
}

// Paused reports whether the scheduler is paused.
func (s *Scheduler) Paused() bool {
	return s.paused
}

// Config returns a copy of the scheduler's configuration.
func (s *Scheduler) Config() Config {
	cfg := s.cfg
	cfg.Definitions = make([]Definition, len(s.cfg.Definitions))
	for i, d := range s.cfg.Definitions {
		cfg.Definitions[i] = d.clone()
	}
	return cfg
}
