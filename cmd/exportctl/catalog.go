package main

import (
	"github.com/spf13/cobra"

	"exporthub/internal/export"
	"exporthub/internal/services"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List report templates",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if outputJSON {
			return printJSON(cmd.OutOrStdout(), export.Templates())
		}
		printTemplatesTable(cmd.OutOrStdout(), export.Templates())
		return nil
	},
}

var servicesCmd = &cobra.Command{
	Use:   "services",
	Short: "List destination services",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if outputJSON {
			return printJSON(cmd.OutOrStdout(), services.CloudServices)
		}
		printServicesTable(cmd.OutOrStdout(), services.CloudServices, nil)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(templatesCmd)
	rootCmd.AddCommand(servicesCmd)
}
