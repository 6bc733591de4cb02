package main

import (
	"github.com/spf13/cobra"

	"exporthub/internal/worker"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show per-destination totals built by export-worker",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		stats := worker.LoadStats(cmd.Context(), globalApp.Store)
		if outputJSON {
			return printJSON(cmd.OutOrStdout(), stats)
		}
		printStatsTable(cmd.OutOrStdout(), stats)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
