package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/wavekit/internal/checkpoint"
)

var checkpointCmd = &cobra.Command{
	Use:   "checkpoint",
	Short: "Inspect or delete saved checkpoints",
	Long: `Checkpoints are written by 'wavekit run --checkpoint' and the C key in
'wavekit watch'. They live in the per-user data directory.

Examples:
  wavekit checkpoint show before-boss
  wavekit checkpoint delete before-boss`,
}

var checkpointShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Print a checkpoint summary",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := checkpoint.Open(checkpoint.AppName)
		if err != nil {
			return err
		}
		return showCheckpoint(cmd.OutOrStdout(), store, args[0])
	},
}

var checkpointDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a checkpoint",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		store, err := checkpoint.Open(checkpoint.AppName)
		if err != nil {
			return err
		}
		if err := store.Delete(args[0]); err != nil {
			return err
		}
		logger.Info("checkpoint deleted", "name", args[0])
		return nil
	},
}

func init() {
	checkpointCmd.AddCommand(checkpointShowCmd)
	checkpointCmd.AddCommand(checkpointDeleteCmd)
}

func showCheckpoint(out io.Writer, store *checkpoint.Store, name string) error {
	cp, err := store.Load(name)
	if err != nil {
		return err
	}
	snap := cp.Snapshot

	fmt.Fprintf(out, "name      %s\n", cp.Name)
	fmt.Fprintf(out, "saved     %s\n", cp.SavedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "scenario  %s (%s)\n", snap.ScenarioID, snap.ScenarioFP)
	fmt.Fprintf(out, "seed      %d\n", snap.Seed)
	fmt.Fprintf(out, "elapsed   %.2fs\n", snap.Stats.Elapsed)
	fmt.Fprintf(out, "wave      %d\n", snap.Scheduler.WaveIndex)
	fmt.Fprintf(out, "alive     %d\n", len(snap.Units))
	fmt.Fprintf(out, "killed    %d  leaked %d\n", snap.Stats.Killed, snap.Stats.Leaked)
	return nil
}
