package main

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/wavekit/internal/checkpoint"
	"github.com/vovakirdan/wavekit/internal/config"
	"github.com/vovakirdan/wavekit/internal/sim"
)

const testScenarioYAML = `
id: drill
title: Drill
waves:
  cooldown_period: 1
  spawn_interval: 0.5
  on_exhausted: stop
  definitions:
    - pool: [grunt, ghost]
      count: 4
units:
  grunt: {hp: 1, speed: 2}
lane:
  length: 30
defender:
  fire_interval: 0.25
  damage: 1
  pierce: 1
loot:
  entries:
    - {item: coin, probability: 1}
`

func writeScenario(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "drill.yaml")
	if err := os.WriteFile(path, []byte(testScenarioYAML), 0o644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}
	return path
}

func TestSimulateStopsWhenFinished(t *testing.T) {
	sc, _, err := loadScenario("", writeScenario(t), "")
	if err != nil {
		t.Fatalf("loadScenario() failed: %v", err)
	}
	s, err := sim.New(sc, 11)
	if err != nil {
		t.Fatalf("sim.New() failed: %v", err)
	}

	var buf bytes.Buffer
	logger := log.New(&buf)
	logger.SetLevel(log.DebugLevel)

	if err := simulate(s, 1000, 1.0/60, logger); err != nil {
		t.Fatalf("simulate() failed: %v", err)
	}
	if !s.Finished() {
		t.Fatal("simulation should finish before the duration runs out")
	}

	st := s.Stats()
	if st.Spawned+st.Unknown != 4 {
		t.Errorf("spawned %d + unknown %d, expected 4 slots", st.Spawned, st.Unknown)
	}
	if st.Killed+st.Leaked != st.Spawned {
		t.Errorf("killed %d + leaked %d != spawned %d", st.Killed, st.Leaked, st.Spawned)
	}

	out := buf.String()
	for _, want := range []string{"wave started", "wave spawned"} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %q:\n%s", want, out)
		}
	}
	if st.Unknown > 0 && !strings.Contains(out, "unknown unit skipped") {
		t.Error("unknown spawns should be logged")
	}
}

func TestSimulateRespectsDuration(t *testing.T) {
	sc, err := config.DefaultScenario("endless")
	if err != nil {
		t.Fatalf("DefaultScenario() failed: %v", err)
	}
	s, err := sim.New(sc, 3)
	if err != nil {
		t.Fatalf("sim.New() failed: %v", err)
	}

	logger := log.New(io.Discard)
	if err := simulate(s, 2, 0.5, logger); err != nil {
		t.Fatalf("simulate() failed: %v", err)
	}
	if got := s.Stats().Elapsed; got != 2 {
		t.Errorf("Elapsed = %v, expected 2", got)
	}

	// A second call continues from where the first stopped.
	if err := simulate(s, 1, 0.5, logger); err != nil {
		t.Fatalf("simulate() failed: %v", err)
	}
	if got := s.Stats().Elapsed; got != 3 {
		t.Errorf("Elapsed = %v after resuming, expected 3", got)
	}
}

func TestLoadScenarioAppliesDifficulty(t *testing.T) {
	path := writeScenario(t)

	normal, preset, err := loadScenario("", path, "")
	if err != nil || preset != config.DifficultyNormal {
		t.Fatalf("loadScenario() = %v, %v", preset, err)
	}
	hard, preset, err := loadScenario("", path, "hard")
	if err != nil || preset != config.DifficultyHard {
		t.Fatalf("loadScenario(hard) = %v, %v", preset, err)
	}
	if hard.Waves.SpawnInterval >= normal.Waves.SpawnInterval {
		t.Errorf("hard spawn interval %v should be shorter than %v",
			hard.Waves.SpawnInterval, normal.Waves.SpawnInterval)
	}

	if _, _, err := loadScenario("", path, "brutal"); err == nil {
		t.Error("expected error for unknown difficulty")
	}
	if _, _, err := loadScenario("no-such-scenario", "", ""); err == nil {
		t.Error("expected error for unknown scenario")
	}
}

// memBackend keeps checkpoint properties in memory.
type memBackend map[string][]byte

func (m memBackend) ObjectPropExists(obj, prop string) bool {
	_, ok := m[obj+"/"+prop]
	return ok
}

func (m memBackend) LoadObjectProp(obj, prop string) ([]byte, error) {
	return m[obj+"/"+prop], nil
}

func (m memBackend) SaveObjectProp(obj, prop string, data []byte) error {
	m[obj+"/"+prop] = data
	return nil
}

func (m memBackend) DeleteObjectProp(obj, prop string) error {
	delete(m, obj+"/"+prop)
	return nil
}

func TestNewSimulationResumesCheckpoint(t *testing.T) {
	sc, err := config.DefaultScenario("grunts")
	if err != nil {
		t.Fatalf("DefaultScenario() failed: %v", err)
	}
	first, err := sim.New(sc, 21)
	if err != nil {
		t.Fatalf("sim.New() failed: %v", err)
	}
	logger := log.New(io.Discard)
	if err := simulate(first, 10, 1.0/30, logger); err != nil {
		t.Fatalf("simulate() failed: %v", err)
	}

	checkpoints := checkpoint.New(memBackend{})
	if err := checkpoints.Save("mid", first.Snapshot()); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	resumed, err := newSimulation(sc, 999, checkpoints, "mid")
	if err != nil {
		t.Fatalf("newSimulation() failed: %v", err)
	}
	if resumed.Seed() != 21 {
		t.Errorf("Seed() = %d, expected the checkpoint's 21", resumed.Seed())
	}
	if resumed.Stats().Ticks != first.Stats().Ticks {
		t.Errorf("Ticks = %d, expected %d", resumed.Stats().Ticks, first.Stats().Ticks)
	}

	if _, err := newSimulation(sc, 1, checkpoints, "missing"); err == nil {
		t.Error("expected error for a missing checkpoint")
	}

	other, err := config.DefaultScenario("siege")
	if err != nil {
		t.Fatalf("DefaultScenario() failed: %v", err)
	}
	if _, err := newSimulation(other, 1, checkpoints, "mid"); err == nil {
		t.Error("expected error when resuming into another scenario")
	}

	hard := config.ApplyDifficultyPreset(sc, config.DifficultyHard)
	_, err = newSimulation(hard, 1, checkpoints, "mid")
	if !errors.Is(err, sim.ErrScenarioMismatch) {
		t.Fatalf("resume with another difficulty error = %v, expected ErrScenarioMismatch", err)
	}
	if !strings.Contains(err.Error(), "--difficulty") {
		t.Errorf("error %q should point at the difficulty flag", err)
	}
}
