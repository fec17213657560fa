package wave

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/vovakirdan/wavekit/internal/random"
)

func newTestScheduler(t *testing.T, cfg Config) *Scheduler {
	t.Helper()
	s, err := New(cfg, random.NewSource(42))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return s
}

func mustAdvance(t *testing.T, s *Scheduler, dt float64) []SpawnRequest {
	t.Helper()
	reqs, err := s.Advance(dt)
	if err != nil {
		t.Fatalf("Advance(%v) failed: %v", dt, err)
	}
	return reqs
}

func gruntConfig() Config {
	return Config{
		CooldownPeriod: 5,
		SpawnInterval:  1,
		Definitions:    []Definition{{Pool: []string{"grunt"}, Count: 3}},
	}
}

func TestFreshSchedulerNotStarted(t *testing.T) {
	s := newTestScheduler(t, gruntConfig())

	if s.CurrentWaveNumber() != 0 {
		t.Errorf("CurrentWaveNumber() = %d, expected 0", s.CurrentWaveNumber())
	}
	if s.Started() {
		t.Error("fresh scheduler should not be started")
	}
	if _, err := s.CurrentWave(); !errors.Is(err, ErrNoCurrentWave) {
		t.Errorf("CurrentWave() error = %v, expected ErrNoCurrentWave", err)
	}
	if st := s.Status(); st.Phase != PhaseNotStarted {
		t.Errorf("Status().Phase = %v, expected not started", st.Phase)
	}
	if s.TotalWaves() != 1 {
		t.Errorf("TotalWaves() = %d, expected 1", s.TotalWaves())
	}
}

func TestGruntScenario(t *testing.T) {
	s := newTestScheduler(t, gruntConfig())

	// The cooldown check runs before accumulation, so the first frame only
	// builds up cooldown time.
	if reqs := mustAdvance(t, s, 5.1); len(reqs) != 0 {
		t.Fatalf("first frame emitted %v", reqs)
	}
	if s.Started() {
		t.Fatal("wave should not start until cooldown has been exceeded at the start of a frame")
	}

	for i := 1; i <= 3; i++ {
		reqs := mustAdvance(t, s, 1.1)
		if len(reqs) != 1 || reqs[0].ID != "grunt" {
			t.Fatalf("frame %d emitted %v, expected one grunt", i, reqs)
		}
		if reqs[0].Wave != 1 || reqs[0].Sequence != i {
			t.Errorf("frame %d request = %+v, expected wave 1 slot %d", i, reqs[0], i)
		}
		if s.SpawnsRemaining() != 3-i {
			t.Errorf("frame %d SpawnsRemaining() = %d, expected %d", i, s.SpawnsRemaining(), 3-i)
		}
	}

	if s.Active() {
		t.Error("wave should have ended after the third spawn")
	}
	if s.CurrentWaveNumber() != 1 {
		t.Errorf("CurrentWaveNumber() = %d, expected 1", s.CurrentWaveNumber())
	}
	if st := s.Status(); st.Phase != PhaseCooldown || st.CooldownProgress != 0 {
		t.Errorf("Status() = %+v, expected fresh cooldown", st)
	}

	// Cooldown resumes on the next frame.
	mustAdvance(t, s, 2)
	if snap := s.Snapshot(); snap.CooldownElapsed != 2 {
		t.Errorf("CooldownElapsed = %v, expected 2", snap.CooldownElapsed)
	}
}

func TestActiveMatchesSpawnsRemaining(t *testing.T) {
	s := newTestScheduler(t, Config{
		CooldownPeriod: 0.5,
		SpawnInterval:  0.2,
		Definitions: []Definition{
			{Pool: []string{"a", "b"}, Count: 4},
			{Pool: []string{"c"}, Count: 0},
			{Pool: nil, Count: 2},
		},
	})

	src := random.NewSource(7)
	for i := 0; i < 2000; i++ {
		mustAdvance(t, s, src.Float64()*0.3)
		if s.SpawnsRemaining() < 0 {
			t.Fatalf("step %d: SpawnsRemaining() = %d", i, s.SpawnsRemaining())
		}
		if s.Active() != (s.SpawnsRemaining() > 0) {
			t.Fatalf("step %d: Active() = %v with %d remaining", i, s.Active(), s.SpawnsRemaining())
		}
	}
}

func TestWaveEmitsExactlyCount(t *testing.T) {
	for _, n := range []int{1, 2, 5, 13} {
		s := newTestScheduler(t, Config{
			CooldownPeriod: 1,
			SpawnInterval:  0.5,
			Definitions:    []Definition{{Pool: []string{"x"}, Count: n}},
			OnExhausted:    Stop,
		})

		emitted := 0
		for i := 0; i < 10*n+10; i++ {
			emitted += len(mustAdvance(t, s, 0.3))
		}
		if emitted != n {
			t.Errorf("count %d: emitted %d spawns", n, emitted)
		}
		if !s.Finished() {
			t.Errorf("count %d: scheduler should be finished", n)
		}
	}
}

func TestPauseFreezesState(t *testing.T) {
	s := newTestScheduler(t, gruntConfig())
	mustAdvance(t, s, 5.1)
	mustAdvance(t, s, 0.4)

	before := s.Snapshot()
	s.Pause()
	for i := 0; i < 100; i++ {
		if reqs := mustAdvance(t, s, 10); len(reqs) != 0 {
			t.Fatalf("paused scheduler emitted %v", reqs)
		}
	}
	after := s.Snapshot()
	after.Paused = false
	if !reflect.DeepEqual(before, after) {
		t.Errorf("paused state changed: before %+v, after %+v", before, after)
	}
	if s.Status().Phase != PhasePaused {
		t.Errorf("Status().Phase = %v, expected paused", s.Status().Phase)
	}

	s.Unpause()
	// 0.4 already accumulated; 0.7 more crosses the 1s interval.
	if reqs := mustAdvance(t, s, 0.7); len(reqs) != 1 {
		t.Errorf("unpaused frame emitted %v, expected one spawn", reqs)
	}
}

func TestAdvanceRejectsInvalidDelta(t *testing.T) {
	s := newTestScheduler(t, gruntConfig())
	mustAdvance(t, s, 1)
	before := s.Snapshot()

	for _, dt := range []float64{-0.01, math.NaN(), math.Inf(1)} {
		if _, err := s.Advance(dt); !errors.Is(err, ErrInvalidDelta) {
			t.Errorf("Advance(%v) error = %v, expected ErrInvalidDelta", dt, err)
		}
	}
	if !reflect.DeepEqual(before, s.Snapshot()) {
		t.Error("rejected delta should not change state")
	}
}

func TestNoDefinitions(t *testing.T) {
	s := newTestScheduler(t, Config{CooldownPeriod: 0, SpawnInterval: 0})

	for i := 0; i < 10; i++ {
		if reqs := mustAdvance(t, s, 1); len(reqs) != 0 {
			t.Fatalf("scheduler without waves emitted %v", reqs)
		}
	}
	if s.Started() {
		t.Error("scheduler without waves should never start")
	}
	if _, err := s.CurrentWave(); !errors.Is(err, ErrNoCurrentWave) {
		t.Errorf("CurrentWave() error = %v, expected ErrNoCurrentWave", err)
	}
	if !s.Finished() {
		t.Error("scheduler without waves should report finished")
	}
}

func TestRepeatLastClampsToFinalDefinition(t *testing.T) {
	s := newTestScheduler(t, Config{
		CooldownPeriod: 0,
		SpawnInterval:  0,
		Definitions: []Definition{
			{Pool: []string{"first"}, Count: 1},
			{Pool: []string{"last"}, Count: 1},
		},
	})

	var ids []string
	for i := 0; i < 40 && s.CurrentWaveNumber() < 5; i++ {
		for _, r := range mustAdvance(t, s, 0.1) {
			ids = append(ids, r.ID)
		}
	}

	if s.CurrentWaveNumber() < 5 {
		t.Fatalf("expected at least 5 waves, got %d", s.CurrentWaveNumber())
	}
	if ids[0] != "first" {
		t.Errorf("first spawn = %q, expected first", ids[0])
	}
	for _, id := range ids[1:] {
		if id != "last" {
			t.Errorf("spawn after first wave = %q, expected last", id)
		}
	}

	def, err := s.CurrentWave()
	if err != nil {
		t.Fatalf("CurrentWave() failed: %v", err)
	}
	if def.Pool[0] != "last" {
		t.Errorf("CurrentWave() = %+v, expected final definition", def)
	}
}

func TestStopPolicyEndsAfterFinalWave(t *testing.T) {
	s := newTestScheduler(t, Config{
		CooldownPeriod: 0,
		SpawnInterval:  0,
		Definitions: []Definition{
			{Pool: []string{"a"}, Count: 2},
			{Pool: []string{"b"}, Count: 1},
		},
		OnExhausted: Stop,
	})

	total := 0
	for i := 0; i < 50; i++ {
		total += len(mustAdvance(t, s, 0.1))
	}
	if total != 3 {
		t.Errorf("emitted %d spawns, expected 3", total)
	}
	if s.CurrentWaveNumber() != 2 {
		t.Errorf("CurrentWaveNumber() = %d, expected 2", s.CurrentWaveNumber())
	}
	if st := s.Status(); st.Phase != PhaseFinished {
		t.Errorf("Status().Phase = %v, expected finished", st.Phase)
	}
}

func TestEmptyPoolSkipsEmission(t *testing.T) {
	s := newTestScheduler(t, Config{
		CooldownPeriod: 0,
		SpawnInterval:  0.5,
		Definitions:    []Definition{{Pool: nil, Count: 2}},
		OnExhausted:    Stop,
	})

	for i := 0; i < 20; i++ {
		if reqs := mustAdvance(t, s, 0.3); len(reqs) != 0 {
			t.Fatalf("empty pool emitted %v", reqs)
		}
	}
	if s.CurrentWaveNumber() != 1 || s.Active() {
		t.Errorf("empty-pool wave should still run to completion, wave=%d active=%v",
			s.CurrentWaveNumber(), s.Active())
	}
}

func TestZeroCountWaveEndsImmediately(t *testing.T) {
	s := newTestScheduler(t, Config{
		CooldownPeriod: 0,
		SpawnInterval:  1,
		Definitions:    []Definition{{Pool: []string{"x"}, Count: 0}},
	})

	mustAdvance(t, s, 0.1) // cooldown
	reqs := mustAdvance(t, s, 0.1)
	if len(reqs) != 0 {
		t.Errorf("zero-count wave emitted %v", reqs)
	}
	if s.CurrentWaveNumber() != 1 || s.Active() {
		t.Errorf("zero-count wave should start and end in one frame, wave=%d active=%v",
			s.CurrentWaveNumber(), s.Active())
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"negative cooldown", Config{CooldownPeriod: -1, SpawnInterval: 1}},
		{"NaN interval", Config{CooldownPeriod: 1, SpawnInterval: math.NaN()}},
		{"negative count", Config{Definitions: []Definition{{Count: -2}}}},
		{"unknown policy", Config{OnExhausted: ExhaustedPolicy(9)}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := New(tc.cfg, random.NewSource(1)); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("New() error = %v, expected ErrInvalidConfig", err)
			}
		})
	}

	if _, err := New(gruntConfig(), nil); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("New() with nil source error = %v, expected ErrInvalidConfig", err)
	}
}

func TestConfigIsCopied(t *testing.T) {
	cfg := gruntConfig()
	s := newTestScheduler(t, cfg)
	cfg.Definitions[0].Pool[0] = "mutated"

	mustAdvance(t, s, 5.1)
	reqs := mustAdvance(t, s, 1.1)
	if len(reqs) != 1 || reqs[0].ID != "grunt" {
		t.Errorf("scheduler should not see caller mutations, got %v", reqs)
	}
}

func TestSnapshotRestore(t *testing.T) {
	cfg := Config{
		CooldownPeriod: 1,
		SpawnInterval:  0.25,
		Definitions:    []Definition{{Pool: []string{"a", "b", "c"}, Count: 6}},
	}
	src := random.NewSource(99)
	s, _ := New(cfg, src)
	for i := 0; i < 9; i++ {
		mustAdvance(t, s, 0.3)
	}

	snap := s.Snapshot()
	clone, _ := New(cfg, random.Restore(src.Seed(), src.Position()))
	if err := clone.Restore(snap); err != nil {
		t.Fatalf("Restore() failed: %v", err)
	}

	for i := 0; i < 40; i++ {
		a := mustAdvance(t, s, 0.3)
		b := mustAdvance(t, clone, 0.3)
		if !reflect.DeepEqual(a, b) {
			t.Fatalf("frame %d diverged: %v vs %v", i, a, b)
		}
	}
}

func TestRestoreRejectsInconsistentSnapshot(t *testing.T) {
	s := newTestScheduler(t, gruntConfig())

	tests := []struct {
		name string
		snap Snapshot
	}{
		{"remaining while idle", Snapshot{WaveIndex: 1, SpawnsRemaining: 2}},
		{"active before start", Snapshot{Active: true, WaveSize: 1, SpawnsRemaining: 1}},
		{"remaining above size", Snapshot{WaveIndex: 1, Active: true, WaveSize: 1, SpawnsRemaining: 3}},
		{"negative index", Snapshot{WaveIndex: -1}},
		{"negative elapsed", Snapshot{CooldownElapsed: -3}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := s.Restore(tc.snap); !errors.Is(err, ErrInvalidSnapshot) {
				t.Errorf("Restore() error = %v, expected ErrInvalidSnapshot", err)
			}
		})
	}
	if s.Started() {
		t.Error("rejected snapshot should leave scheduler untouched")
	}
}

func TestParseExhaustedPolicy(t *testing.T) {
	for name, expected := range map[string]ExhaustedPolicy{"": RepeatLast, "repeat_last": RepeatLast, "stop": Stop} {
		got, err := ParseExhaustedPolicy(name)
		if err != nil || got != expected {
			t.Errorf("ParseExhaustedPolicy(%q) = %v, %v", name, got, err)
		}
	}
	if _, err := ParseExhaustedPolicy("forever"); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig for unknown policy, got %v", err)
	}
}
