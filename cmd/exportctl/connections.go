package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"exporthub/internal/services"
)

var connectionsCmd = &cobra.Command{
	Use:     "connections",
	Aliases: []string{"conn"},
	Short:   "Manage connected destination services",
}

var connectionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show every service and whether it is connected",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		connected := globalApp.Connections.List(cmd.Context())
		if outputJSON {
			return printJSON(cmd.OutOrStdout(), connected)
		}
		printServicesTable(cmd.OutOrStdout(), services.CloudServices, connected)
		return nil
	},
}

var connectionsToggleCmd = &cobra.Command{
	Use:   "toggle <service>",
	Short: "Connect or disconnect a service immediately",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		connected, err := globalApp.Connections.Toggle(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		state := "disconnected"
		if connected {
			state = "connected"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", services.ServiceName(args[0]), state)
		return nil
	},
}

var connectionsConnectCmd = &cobra.Command{
	Use:   "connect <service>",
	Short: "Authorize and connect a service",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, ok := services.LookupService(args[0]); !ok {
			return fmt.Errorf("%s: %w", args[0], services.ErrUnknownService)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Connecting to %s...\n", services.ServiceName(args[0]))
		if err := globalApp.Connections.Connect(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s connected\n", services.ServiceName(args[0]))
		return nil
	},
}

var connectionsDisconnectCmd = &cobra.Command{
	Use:   "disconnect <service>",
	Short: "Disconnect a service",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := globalApp.Connections.Disconnect(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s disconnected\n", services.ServiceName(args[0]))
		return nil
	},
}

var connectionsSyncCmd = &cobra.Command{
	Use:   "sync <service>",
	Short: "Re-sync a connected service",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintf(cmd.OutOrStdout(), "Syncing %s...\n", services.ServiceName(args[0]))
		res, err := globalApp.Connections.Sync(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Synced in %s\n", res.Elapsed)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(connectionsCmd)
	connectionsCmd.AddCommand(connectionsListCmd)
	connectionsCmd.AddCommand(connectionsToggleCmd)
	connectionsCmd.AddCommand(connectionsConnectCmd)
	connectionsCmd.AddCommand(connectionsDisconnectCmd)
	connectionsCmd.AddCommand(connectionsSyncCmd)
}
