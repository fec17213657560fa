package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/wavekit/internal/platform/tui"
	"github.com/vovakirdan/wavekit/internal/registry"
	"github.com/vovakirdan/wavekit/internal/storage"
)

var (
	flagRunsBest  bool
	flagRunsLimit int
	flagRunsTUI   bool
	flagRunsClear bool
	flagRunsCount bool
)

var runsCmd = &cobra.Command{
	Use:   "runs [scenario]",
	Short: "Show stored run history",
	Long: `Display stored runs, newest first, or the best runs of a scenario.

Examples:
  wavekit runs
  wavekit runs grunts --best
  wavekit runs --tui
  wavekit runs siege --count
  wavekit runs grunts --clear`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRuns,
}

func init() {
	runsCmd.Flags().BoolVar(&flagRunsBest, "best", false, "Order by kills instead of recency (needs a scenario)")
	runsCmd.Flags().IntVar(&flagRunsLimit, "limit", 10, "Maximum runs to show")
	runsCmd.Flags().BoolVar(&flagRunsTUI, "tui", false, "Browse runs in the interactive table")
	runsCmd.Flags().BoolVar(&flagRunsClear, "clear", false, "Delete all stored runs of the scenario")
	runsCmd.Flags().BoolVar(&flagRunsCount, "count", false, "Print only the number of stored runs")
}

func runRuns(cmd *cobra.Command, args []string) error {
	scenario := ""
	if len(args) == 1 {
		scenario = args[0]
		if !registry.Exists(scenario) {
			logger.Warn("scenario is not registered, showing stored runs anyway", "scenario", scenario)
		}
	}
	if (flagRunsBest || flagRunsClear) && scenario == "" {
		return fmt.Errorf("--best and --clear need a scenario")
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if flagRunsTUI {
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width, height = w, h
		}
		_, err := tui.RunRuns(store, width, height)
		return err
	}

	if flagRunsClear {
		if err := store.ClearRuns(scenario); err != nil {
			return err
		}
		logger.Info("runs cleared", "scenario", scenario)
		return nil
	}

	if flagRunsCount {
		n, err := store.RunCount(scenario)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), n)
		return nil
	}

	var runs []storage.RunRecord
	if flagRunsBest {
		runs, err = store.BestRuns(scenario, flagRunsLimit)
	} else {
		runs, err = store.RecentRuns(scenario, flagRunsLimit)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded yet.")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Run 'wavekit run <id>' or 'wavekit watch <id>' to record one.")
		return nil
	}

	fmt.Fprintf(out, "  %-5s  %-10s  %-6s  %-20s  %5s  %5s  %5s  %8s  %s\n",
		"ID", "Scenario", "Diff", "Seed", "Kill", "Leak", "Drops", "Time", "Date")
	for _, r := range runs {
		fmt.Fprintf(out, "  %-5d  %-10s  %-6s  %-20d  %5d  %5d  %5d  %7.1fs  %s\n",
			r.ID, r.Scenario, r.Difficulty, r.Seed, r.Killed, r.Leaked, r.Drops,
			r.Duration, r.CreatedAt.Format("2006-01-02 15:04"))
	}

	if scenario != "" {
		stats, err := store.ScenarioStats(scenario)
		if err == nil && stats.Runs > 0 {
			fmt.Fprintln(out)
			fmt.Fprintf(out, "%d runs, %d killed, %d leaked, best %d killed\n",
				stats.Runs, stats.Killed, stats.Leaked, stats.BestKilled)
		}
	}
	return nil
}
