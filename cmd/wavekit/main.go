// wavekit runs wave spawn scenarios headless, in a terminal monitor or over SSH.
//
// Usage:
//
//	wavekit list                 - List available scenarios
//	wavekit validate <file>      - Check a scenario file
//	wavekit run <scenario>       - Run a scenario headless and log its events
//	wavekit watch [scenario]     - Watch a scenario in the terminal monitor
//	wavekit serve                - Start SSH server exposing the monitor
//	wavekit runs [scenario]      - Show stored run history
//
// Global flags:
//
//	--fps <rate>        - Tick rate (default: 60, env WAVEKIT_FPS)
//	--seed <value>      - RNG seed for reproducible runs (env WAVEKIT_SEED)
//	--speed <factor>    - Simulation speed multiplier (default: 1)
//	--db <path>         - Run database path (default: ~/.wavekit/runs.db, env WAVEKIT_DB)
//	--log-level <lvl>   - debug, info, warn or error (env WAVEKIT_LOG_LEVEL)
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/wavekit/internal/config"
	"github.com/vovakirdan/wavekit/internal/core"
	"github.com/vovakirdan/wavekit/internal/registry"
	"github.com/vovakirdan/wavekit/internal/storage"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagSpeed    float64
	flagDBPath   string
	flagLogLevel string

	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "wavekit",
	})
)

func main() {
	rt, err := config.LoadRuntime()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	bindGlobalFlags(rt)

	if err := rootCmd.Execute(); err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "wavekit",
	Short: "wavekit - wave spawn scheduling and drop tables in your terminal",
	Long: `wavekit drives wave spawn scenarios: a scheduler releases units from
random pools wave after wave, a defender shoots them down and each kill rolls
a drop table.

Available commands:
  list      - Show all available scenarios
  validate  - Check a scenario YAML file
  run       - Run a scenario headless and log what happens
  watch     - Watch a scenario live in the terminal
  serve     - Start SSH server exposing the monitor
  runs      - Show stored run history

Examples:
  wavekit list
  wavekit run grunts --duration 60 --seed 42
  wavekit watch siege --difficulty hard
  wavekit serve --ssh :2222
  wavekit runs grunts --best`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(checkpointCmd)
}

// bindGlobalFlags registers the persistent flags with defaults taken from the environment.
func bindGlobalFlags(rt config.Runtime) {
	flags := rootCmd.PersistentFlags()
	flags.IntVar(&flagFPS, "fps", rt.TickRate, "Tick rate (frames per second)")
	flags.Int64Var(&flagSeed, "seed", rt.Seed, "RNG seed (0 = random based on time)")
	flags.Float64Var(&flagSpeed, "speed", 1, "Simulation speed multiplier")
	flags.StringVar(&flagDBPath, "db", rt.DBPath, "Path to run history database")
	flags.StringVar(&flagLogLevel, "log-level", rt.LogLevel, "Log level: debug, info, warn, error")
}

// setup configures logging and picks up user scenario files before any command runs.
func setup(_ *cobra.Command, _ []string) error {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return fmt.Errorf("invalid --log-level: %w", err)
	}
	logger.SetLevel(level)

	if home, err := os.UserHomeDir(); err == nil {
		dir := filepath.Join(home, ".wavekit", "scenarios")
		n, err := registry.RegisterDir(dir)
		if err != nil {
			logger.Warn("could not scan scenario directory", "dir", dir, "error", err)
		} else if n > 0 {
			logger.Debug("registered user scenarios", "dir", dir, "count", n)
		}
	}
	return nil
}

// runtimeConfig builds the runtime config from global flags.
func runtimeConfig() (core.RuntimeConfig, error) {
	cfg := core.DefaultConfig()
	cfg.TickRate = flagFPS
	cfg.Seed = flagSeed
	cfg.Speed = flagSpeed
	if err := cfg.Validate(); err != nil {
		return core.RuntimeConfig{}, err
	}
	return cfg, nil
}

// loadScenario resolves a scenario by ID, or from path when set, and applies difficulty.
func loadScenario(id, path, difficulty string) (config.Scenario, config.DifficultyPreset, error) {
	preset, err := config.ParseDifficulty(difficulty)
	if err != nil {
		return config.Scenario{}, preset, err
	}

	var sc config.Scenario
	if path != "" {
		sc, err = config.LoadFile(path)
	} else {
		sc, err = registry.Create(id)
	}
	if err != nil {
		return config.Scenario{}, preset, err
	}
	return config.ApplyDifficultyPreset(sc, preset), preset, nil
}

// openStore opens the run database, or returns nil with a warning.
// Commands keep working without history.
func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open run database", "path", flagDBPath, "error", err)
		return nil
	}
	return store
}
