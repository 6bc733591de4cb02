package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"exporthub/internal/core"
)

var schedulesCmd = &cobra.Command{
	Use:     "schedules",
	Aliases: []string{"schedule"},
	Short:   "Manage scheduled exports",
}

var schedulesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List schedules",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		all := globalApp.Schedules.List(cmd.Context())
		if outputJSON {
			return printJSON(cmd.OutOrStdout(), all)
		}
		printSchedulesTable(cmd.OutOrStdout(), all)
		return nil
	},
}

var schedulesCreateCmd = &cobra.Command{
	Use:   "create <template> <daily|weekly|monthly> <destination>",
	Short: "Create a schedule",
	Long: `Create a schedule. The destination is "email" or the id of a
connected service; run "exportctl schedules destinations" to list them.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		sc, err := globalApp.Schedules.Create(cmd.Context(), args[0], core.Frequency(args[1]), args[2])
		if err != nil {
			return err
		}
		if outputJSON {
			return printJSON(cmd.OutOrStdout(), sc)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Schedule %s created, next run %s\n",
			sc.ID, sc.NextRun.Local().Format("Mon Jan 2 15:04"))
		return nil
	},
}

var schedulesToggleCmd = &cobra.Command{
	Use:   "toggle <id>",
	Short: "Pause or resume a schedule",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sc, err := globalApp.Schedules.ToggleEnabled(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		state := "paused"
		if sc.Enabled {
			state = "enabled"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Schedule %s %s\n", sc.ID, state)
		return nil
	},
}

var schedulesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a schedule",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := globalApp.Schedules.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Schedule %s deleted\n", args[0])
		return nil
	},
}

var schedulesDestinationsCmd = &cobra.Command{
	Use:   "destinations",
	Short: "List destinations a schedule may use",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dests := globalApp.Connections.ScheduleDestinations(cmd.Context())
		if outputJSON {
			return printJSON(cmd.OutOrStdout(), dests)
		}
		for _, d := range dests {
			fmt.Fprintf(cmd.OutOrStdout(), "%-14s %s\n", d.ID, d.Name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(schedulesCmd)
	schedulesCmd.AddCommand(schedulesListCmd)
	schedulesCmd.AddCommand(schedulesCreateCmd)
	schedulesCmd.AddCommand(schedulesToggleCmd)
	schedulesCmd.AddCommand(schedulesDeleteCmd)
	schedulesCmd.AddCommand(schedulesDestinationsCmd)
}
