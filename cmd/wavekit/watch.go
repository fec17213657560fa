package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/wavekit/internal/checkpoint"
	"github.com/vovakirdan/wavekit/internal/core"
	"github.com/vovakirdan/wavekit/internal/platform/tui"
	"github.com/vovakirdan/wavekit/internal/storage"
)

var (
	flagWatchConfig     string
	flagWatchDifficulty string
	flagWatchResume     string
)

var watchCmd = &cobra.Command{
	Use:   "watch [scenario]",
	Short: "Watch a scenario in the terminal",
	Long: `Open the live monitor for a scenario. Without an argument a scenario
picker is shown first and you return to it when you leave the monitor.

Controls:
  P/Space    - Pause
  R          - Restart with a new seed
  +/-        - Faster/slower
  C          - Save checkpoint (named after the scenario)
  ?          - More keys
  Esc/B      - Back to the picker
  Q/Ctrl+C   - Quit

Examples:
  wavekit watch
  wavekit watch grunts --seed 42
  wavekit watch siege --difficulty hard --speed 2
  wavekit watch grunts --resume grunts`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&flagWatchConfig, "config", "", "Path to custom scenario YAML")
	watchCmd.Flags().StringVar(&flagWatchDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")
	watchCmd.Flags().StringVar(&flagWatchResume, "resume", "", "Continue from the checkpoint with this name")
}

func runWatch(_ *cobra.Command, args []string) error {
	cfg, err := runtimeConfig()
	if err != nil {
		return err
	}
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		cfg.ScreenW = w
		cfg.ScreenH = h
	}

	checkpoints, err := checkpoint.Open(checkpoint.AppName)
	if err != nil {
		logger.Warn("checkpoints disabled", "error", err)
		checkpoints = nil
	}
	if flagWatchResume != "" && checkpoints == nil {
		return err
	}

	store := openStore()
	if store != nil {
		defer store.Close()
	}

	if len(args) == 1 || flagWatchConfig != "" || flagWatchResume != "" {
		id := ""
		if len(args) == 1 {
			id = args[0]
		}
		_, err := watchScenario(id, cfg, store, checkpoints, flagWatchResume)
		return err
	}

	return watchMenu(cfg, store, checkpoints)
}

// watchMenu loops between the scenario picker, the monitor and the run history.
func watchMenu(cfg core.RuntimeConfig, store *storage.Store, checkpoints *checkpoint.Store) error {
	for {
		res, err := tui.RunMenu(store, cfg)
		if err != nil {
			return err
		}
		cfg = res.Config

		switch {
		case res.Quit:
			return nil

		case res.WantsRuns:
			goBack, err := tui.RunRuns(store, cfg.ScreenW, cfg.ScreenH)
			if err != nil {
				return err
			}
			if !goBack {
				return nil
			}

		default:
			if flagSeed == 0 {
				cfg.Seed = time.Now().UnixNano()
			}
			back, err := watchScenario(res.ScenarioID, cfg, store, checkpoints, "")
			if err != nil {
				logger.Error("cannot watch scenario", "scenario", res.ScenarioID, "error", err)
				continue
			}
			if !back {
				return nil
			}
		}
	}
}

// watchScenario runs the monitor for one scenario.
// Reports whether the user asked to go back to the picker.
func watchScenario(id string, cfg core.RuntimeConfig, store *storage.Store, checkpoints *checkpoint.Store, resume string) (bool, error) {
	if id == "" && resume != "" && flagWatchConfig == "" {
		cp, err := checkpoints.Load(resume)
		if err != nil {
			return false, err
		}
		id = cp.Snapshot.ScenarioID
	}

	sc, preset, err := loadScenario(id, flagWatchConfig, flagWatchDifficulty)
	if err != nil {
		return false, err
	}

	s, err := newSimulation(sc, cfg.Seed, checkpoints, resume)
	if err != nil {
		return false, err
	}

	m, err := tui.NewModelFromSim(s, cfg, tui.MonitorOptions{
		Store:       store,
		Checkpoints: checkpoints,
		Difficulty:  string(preset),
	})
	if err != nil {
		return false, err
	}

	logger.Debug("watching scenario", "scenario", sc.ID, "seed", s.Seed())
	final, err := tui.Run(m)
	if err != nil {
		return false, err
	}
	return final.BackToMenu(), nil
}
