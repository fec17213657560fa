package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/wavekit/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available scenarios",
	Long: `Shows the built-in scenarios and any YAML files found in
~/.wavekit/scenarios (the file name is the scenario ID).`,
	Run: runList,
}

func runList(cmd *cobra.Command, _ []string) {
	scenarios := registry.List()
	out := cmd.OutOrStdout()

	if len(scenarios) == 0 {
		fmt.Fprintln(out, "No scenarios available.")
		return
	}

	fmt.Fprintln(out, "Available scenarios:")
	fmt.Fprintln(out)

	maxIDLen := 2 // "ID" header
	for _, sc := range scenarios {
		maxIDLen = max(maxIDLen, len(sc.ID))
	}

	fmt.Fprintf(out, "  %-*s  %s\n", maxIDLen, "ID", "Title")
	fmt.Fprintf(out, "  %-*s  %s\n", maxIDLen, "--", "-----")
	for _, sc := range scenarios {
		fmt.Fprintf(out, "  %-*s  %s\n", maxIDLen, sc.ID, sc.Title)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Run 'wavekit watch <id>' to watch a scenario.")
}
