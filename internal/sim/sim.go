// Package sim runs a wave scenario as a fixed-step simulation.
//
// It is the host side of the wave scheduler: spawn requests become units
// that walk down a lane, a single defender shoots them, kills roll the
// scenario's drop table, and each finished wave awards one bonus item. Like the scheduler it contains no I/O; callers
// drive it with Step and read back events and stats.
package sim

import (
	"fmt"
	"math"
	"sort"

	"github.com/vovakirdan/wavekit/internal/config"
	"github.com/vovakirdan/wavekit/internal/droptable"
	"github.com/vovakirdan/wavekit/internal/random"
	"github.com/vovakirdan/wavekit/internal/unit"
	"github.com/vovakirdan/wavekit/internal/wave"
)

// Unit is a live spawned unit.
type Unit struct {
	ID       int
	Kind     string
	Wave     int
	Health   unit.Health
	Position float64 // Distance walked along the lane
	speed    float64
	regen    float64
	regenAcc float64 // Fractional hit points not yet healed
	travel   *unit.DistanceLifetime
}

// Stats aggregates a run.
type Stats struct {
	Elapsed float64        `json:"elapsed"`
	Ticks   int            `json:"ticks"`
	Waves   int            `json:"waves"`
	Spawned int            `json:"spawned"`
	Killed  int            `json:"killed"`
	Leaked  int            `json:"leaked"`
	Unknown int            `json:"unknown"`
	Drops   map[string]int `json:"drops"`
	Bonus   map[string]int `json:"bonus"` // Wave-clear awards, kept apart from kill drops
}

// TotalDrops returns the number of items dropped.
func (s Stats) TotalDrops() int {
	n := 0
	for _, c := range s.Drops {
		n += c
	}
	return n
}

// TotalBonus returns the number of wave-clear items awarded.
func (s Stats) TotalBonus() int {
	n := 0
	for _, c := range s.Bonus {
		n += c
	}
	return n
}

// StepResult is returned by Step.
type StepResult struct {
	Events []Event
	Status wave.Status
}

// Simulation is one running scenario.
type Simulation struct {
	scenario  config.Scenario
	scheduler *wave.Scheduler
	loot      *droptable.DropTable[string]
	src       *random.Rand
	units     []*Unit // Spawn order
	nextID    int
	reload    *unit.DurationLifetime
	paused    bool
	stats     Stats
}

// New creates a simulation for a validated scenario.
// A seed of 0 picks a time-based seed; read it back with Seed.
func New(sc config.Scenario, seed int64) (*Simulation, error) {
	return newWithSource(sc, random.NewSource(seed))
}

func newWithSource(sc config.Scenario, src *random.Rand) (*Simulation, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}

	waveCfg, err := sc.WaveConfig()
	if err != nil {
		return nil, err
	}
	scheduler, err := wave.New(waveCfg, src)
	if err != nil {
		return nil, fmt.Errorf("sim: %w", err)
	}

	loot, err := sc.LootTable()
	if err != nil {
		return nil, fmt.Errorf("sim: %w", err)
	}

	reload := unit.NewDurationLifetime(sc.Defender.FireInterval)
	// The defender starts loaded.
	reload.Tick(sc.Defender.FireInterval)

	return &Simulation{
		scenario:  sc,
		scheduler: scheduler,
		loot:      loot,
		src:       src,
		reload:    reload,
		stats:     Stats{Drops: make(map[string]int), Bonus: make(map[string]int)},
	}, nil
}

// Step advances the simulation by dt seconds.
// Negative or non-finite dt is rejected without changing any state.
func (s *Simulation) Step(dt float64) (StepResult, error) {
	waveBefore := s.scheduler.CurrentWaveNumber()
	activeBefore := s.scheduler.Active()

	requests, err := s.scheduler.Advance(dt)
	if err != nil {
		return StepResult{}, fmt.Errorf("sim: %w", err)
	}
	if s.paused {
		return StepResult{Status: s.scheduler.Status()}, nil
	}

	var events []Event

	// Waves only start from idle, so a start never coincides with the
	// previous wave's end.
	started := s.scheduler.CurrentWaveNumber() != waveBefore
	if started {
		n := s.scheduler.CurrentWaveNumber()
		size := 0
		if def, err := s.scheduler.CurrentWave(); err == nil {
			size = def.Count
		}
		events = append(events, WaveStartedEvent{Wave: n, Size: size})
		s.stats.Waves = n
	}

	for _, req := range requests {
		events = append(events, s.spawn(req))
	}

	// A wave ends on the same frame as its last slot, or starts and ends
	// within one frame when it has no slots.
	if !s.scheduler.Active() && (activeBefore || started) {
		events = append(events, s.endWave())
	}

	events = append(events, s.moveUnits(dt)...)
	events = append(events, s.fire(dt)...)

	s.stats.Elapsed += dt
	s.stats.Ticks++

	return StepResult{Events: events, Status: s.scheduler.Status()}, nil
}

// endWave rolls the loot table once in its single-drop mode.
func (s *Simulation) endWave() Event {
	ev := WaveEndedEvent{Wave: s.scheduler.CurrentWaveNumber()}
	if item, ok := s.loot.Single(s.src); ok {
		ev.Bonus = item
		s.stats.Bonus[item]++
	}
	return ev
}

func (s *Simulation) spawn(req wave.SpawnRequest) Event {
	cfg, ok := s.scenario.Units[req.ID]
	if !ok {
		s.stats.Unknown++
		return UnknownSpawnEvent{Kind: req.ID, Wave: req.Wave}
	}

	s.nextID++
	u := &Unit{
		ID:     s.nextID,
		Kind:   req.ID,
		Wave:   req.Wave,
		Health: unit.NewHealth(cfg.HP).WithCap(cfg.HP),
		speed:  cfg.Speed,
		regen:  cfg.Regen,
		travel: unit.NewDistanceLifetime(s.scenario.Lane.Length),
	}
	u.travel.Update(0, 0)
	s.units = append(s.units, u)
	s.stats.Spawned++

	return SpawnedEvent{UnitID: u.ID, Kind: u.Kind, Wave: u.Wave}
}

// moveUnits heals and walks every unit forward and removes the ones past
// the lane end.
func (s *Simulation) moveUnits(dt float64) []Event {
	var events []Event
	alive := s.units[:0]
	for _, u := range s.units {
		u.heal(dt)
		u.Position += u.speed * dt
		u.travel.Update(u.Position, 0)
		if u.travel.Expired() {
			s.stats.Leaked++
			events = append(events, LeakedEvent{UnitID: u.ID, Kind: u.Kind})
			continue
		}
		alive = append(alive, u)
	}
	s.units = alive
	return events
}

// heal applies regeneration. Only whole hit points are healed; the
// remainder carries over, and nothing is banked while at full health.
func (u *Unit) heal(dt float64) {
	if u.regen <= 0 || u.Health.IsZero() {
		return
	}
	if u.Health.Current() >= u.Health.Original() {
		u.regenAcc = 0
		return
	}
	u.regenAcc += u.regen * dt
	if whole := math.Floor(u.regenAcc); whole >= 1 {
		u.Health.Add(int(whole))
		u.regenAcc -= whole
	}
}

// fire shoots one volley if the defender is loaded and has a target.
// Every shot hits the live units closest to the lane end first and passes
// through up to Pierce of them; a spread volley repeats that per pellet.
func (s *Simulation) fire(dt float64) []Event {
	s.reload.Tick(dt)
	if !s.reload.Expired() || len(s.units) == 0 {
		return nil
	}
	s.reload.Reset()

	targets := make([]*Unit, len(s.units))
	copy(targets, s.units)
	sort.SliceStable(targets, func(i, j int) bool {
		return targets[i].Position > targets[j].Position
	})

	var events []Event
	shot := unit.NewPenetrationLifetime(s.scenario.Defender.Pierce)
	for range s.scenario.Defender.Volley() {
		shot.Reset()
		for _, u := range targets {
			if u.Health.IsZero() {
				continue
			}
			u.Health.Take(s.scenario.Defender.Damage)
			shot.Hit()
			if u.Health.IsZero() {
				events = append(events, s.kill(u))
			}
			if shot.Expired() {
				break
			}
		}
	}

	alive := s.units[:0]
	for _, u := range s.units {
		if !u.Health.IsZero() {
			alive = append(alive, u)
		}
	}
	s.units = alive
	return events
}

func (s *Simulation) kill(u *Unit) Event {
	drops := s.loot.Drops(s.src)
	for _, item := range drops {
		s.stats.Drops[item]++
	}
	s.stats.Killed++
	return KilledEvent{UnitID: u.ID, Kind: u.Kind, Drops: drops}
}

// Pause freezes the scheduler, units and defender.
func (s *Simulation) Pause() {
	s.paused = true
	s.scheduler.Pause()
}

// Unpause resumes a paused simulation.
func (s *Simulation) Unpause() {
	s.paused = false
	s.scheduler.Unpause()
}

// TogglePause flips the paused state.
func (s *Simulation) TogglePause() {
	if s.paused {
		s.Unpause()
	} else {
		s.Pause()
	}
}

// Paused reports whether the simulation is paused.
func (s *Simulation) Paused() bool {
	return s.paused
}

// Finished reports whether no more waves will start and every unit is gone.
func (s *Simulation) Finished() bool {
	return s.scheduler.Finished() && len(s.units) == 0
}

// ReloadRemaining returns the seconds until the defender can fire again.
func (s *Simulation) ReloadRemaining() float64 {
	return s.reload.Remaining()
}

// Status returns the scheduler status.
func (s *Simulation) Status() wave.Status {
	return s.scheduler.Status()
}

// Scenario returns the scenario being simulated.
func (s *Simulation) Scenario() config.Scenario {
	return s.scenario
}

// Seed returns the RNG seed, useful when New was given 0.
func (s *Simulation) Seed() int64 {
	return s.src.Seed()
}

// Units returns copies of the live units in spawn order.
func (s *Simulation) Units() []Unit {
	out := make([]Unit, len(s.units))
	for i, u := range s.units {
		out[i] = *u
	}
	return out
}

// Stats returns a copy of the aggregate stats.
func (s *Simulation) Stats() Stats {
	st := s.stats
	st.Drops = make(map[string]int, len(s.stats.Drops))
	for k, v := range s.stats.Drops {
		st.Drops[k] = v
	}
	st.Bonus = make(map[string]int, len(s.stats.Bonus))
	for k, v := range s.stats.Bonus {
		st.Bonus[k] = v
	}
	return st
}
