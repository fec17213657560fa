package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/wavekit/internal/checkpoint"
	"github.com/vovakirdan/wavekit/internal/config"
	"github.com/vovakirdan/wavekit/internal/platform/tui"
	"github.com/vovakirdan/wavekit/internal/sim"
)

var (
	flagConfig     string
	flagDifficulty string
	flagDuration   float64
	flagCheckpoint string
	flagResume     string
	flagJSON       bool
)

var runCmd = &cobra.Command{
	Use:   "run <scenario>",
	Short: "Run a scenario headless",
	Long: `Run a scenario at a fixed tick without a UI and log its events.

The run advances by (speed / fps) simulated seconds per tick until
--duration simulated seconds have passed or every wave is cleared. The
result is stored in the run database.

Difficulty options:
  easy   - Slower waves, weaker and slower units
  normal - Scenario as written
  hard   - Faster waves, tougher and faster units

Examples:
  wavekit run grunts
  wavekit run siege --duration 300 --seed 7 --log-level debug
  wavekit run grunts --checkpoint before-boss
  wavekit run grunts --resume before-boss --duration 60
  wavekit run custom --config ./custom.yaml --json`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom scenario YAML")
	runCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")
	runCmd.Flags().Float64Var(&flagDuration, "duration", 120, "Simulated seconds to run")
	runCmd.Flags().StringVar(&flagCheckpoint, "checkpoint", "", "Save a checkpoint with this name when the run stops")
	runCmd.Flags().StringVar(&flagResume, "resume", "", "Continue from the checkpoint with this name")
	runCmd.Flags().BoolVar(&flagJSON, "json", false, "Print final stats as JSON")
}

func runRun(cmd *cobra.Command, args []string) error {
	if flagDuration <= 0 {
		return fmt.Errorf("--duration must be > 0, got %v", flagDuration)
	}
	cfg, err := runtimeConfig()
	if err != nil {
		return err
	}

	sc, preset, err := loadScenario(args[0], flagConfig, flagDifficulty)
	if err != nil {
		return err
	}

	var checkpoints *checkpoint.Store
	if flagCheckpoint != "" || flagResume != "" {
		if checkpoints, err = checkpoint.Open(checkpoint.AppName); err != nil {
			return err
		}
	}

	s, err := newSimulation(sc, cfg.Seed, checkpoints, flagResume)
	if err != nil {
		return err
	}

	runLog := logger.With("scenario", sc.ID, "seed", s.Seed())
	runLog.Info("run started", "difficulty", preset, "dt", cfg.Delta())

	if err := simulate(s, flagDuration, cfg.Delta(), runLog); err != nil {
		return err
	}

	st := s.Stats()
	runLog.Info("run stopped",
		"elapsed", fmt.Sprintf("%.2fs", st.Elapsed),
		"finished", s.Finished(),
		"killed", st.Killed,
		"leaked", st.Leaked,
	)

	if checkpoints != nil && flagCheckpoint != "" {
		if checkpoints.Exists(flagCheckpoint) {
			runLog.Warn("replacing checkpoint", "name", flagCheckpoint)
		}
		if err := checkpoints.Save(flagCheckpoint, s.Snapshot()); err != nil {
			return err
		}
		runLog.Info("checkpoint saved", "name", flagCheckpoint)
	}

	if store := openStore(); store != nil {
		defer store.Close()
		id, err := store.SaveRun(tui.RunRecord(sc.ID, s.Seed(), string(preset), st))
		if err != nil {
			runLog.Warn("could not store run", "error", err)
		} else {
			runLog.Debug("run stored", "id", id)
		}
	}

	return printStats(cmd, st)
}

// newSimulation starts a fresh run, or restores the named checkpoint when resume is set.
func newSimulation(sc config.Scenario, seed int64, checkpoints *checkpoint.Store, resume string) (*sim.Simulation, error) {
	if resume == "" {
		return sim.New(sc, seed)
	}

	cp, err := checkpoints.Load(resume)
	if err != nil {
		return nil, err
	}
	s, err := sim.Restore(sc, cp.Snapshot)
	if errors.Is(err, sim.ErrScenarioMismatch) && cp.Snapshot.ScenarioID == sc.ID {
		return nil, fmt.Errorf("resume %s: %w; resume with the --difficulty and --config it was saved with", resume, err)
	}
	if err != nil {
		return nil, fmt.Errorf("resume %s: %w", resume, err)
	}
	logger.Info("resumed checkpoint", "name", resume, "saved_at", cp.SavedAt, "elapsed", cp.Snapshot.Stats.Elapsed)
	return s, nil
}

// simulate steps s by dt until duration more simulated seconds have passed or the run finishes.
func simulate(s *sim.Simulation, duration, dt float64, logger *log.Logger) error {
	end := s.Stats().Elapsed + duration
	for !s.Finished() && s.Stats().Elapsed < end {
		res, err := s.Step(dt)
		if err != nil {
			return err
		}
		for _, ev := range res.Events {
			logEvent(logger, ev)
		}
	}
	return nil
}

// logEvent writes one simulation event as a structured log line.
func logEvent(logger *log.Logger, ev sim.Event) {
	switch e := ev.(type) {
	case sim.WaveStartedEvent:
		logger.Info("wave started", "wave", e.Wave, "size", e.Size)
	case sim.WaveEndedEvent:
		if e.Bonus != "" {
			logger.Info("wave spawned", "wave", e.Wave, "bonus", e.Bonus)
		} else {
			logger.Info("wave spawned", "wave", e.Wave)
		}
	case sim.SpawnedEvent:
		logger.Debug("unit spawned", "unit", e.Kind, "id", e.UnitID, "wave", e.Wave)
	case sim.UnknownSpawnEvent:
		logger.Warn("unknown unit skipped", "unit", e.Kind, "wave", e.Wave)
	case sim.KilledEvent:
		if len(e.Drops) > 0 {
			logger.Debug("unit killed", "unit", e.Kind, "id", e.UnitID, "drops", e.Drops)
		} else {
			logger.Debug("unit killed", "unit", e.Kind, "id", e.UnitID)
		}
	case sim.LeakedEvent:
		logger.Info("unit got through", "unit", e.Kind, "id", e.UnitID)
	}
}

func printStats(cmd *cobra.Command, st sim.Stats) error {
	out := cmd.OutOrStdout()
	if flagJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(st)
	}

	fmt.Fprintf(out, "elapsed  %.2fs (%d ticks)\n", st.Elapsed, st.Ticks)
	fmt.Fprintf(out, "waves    %d\n", st.Waves)
	fmt.Fprintf(out, "spawned  %d (unknown %d)\n", st.Spawned, st.Unknown)
	fmt.Fprintf(out, "killed   %d\n", st.Killed)
	fmt.Fprintf(out, "leaked   %d\n", st.Leaked)
	fmt.Fprintf(out, "drops    %d\n", st.TotalDrops())

	items := make([]string, 0, len(st.Drops))
	for item := range st.Drops {
		items = append(items, item)
	}
	sort.Strings(items)
	for _, item := range items {
		fmt.Fprintf(out, "  %-12s %d\n", item, st.Drops[item])
	}

	fmt.Fprintf(out, "bonus    %d\n", st.TotalBonus())
	items = items[:0]
	for item := range st.Bonus {
		items = append(items, item)
	}
	sort.Strings(items)
	for _, item := range items {
		fmt.Fprintf(out, "  %-12s %d\n", item, st.Bonus[item])
	}
	return nil
}
