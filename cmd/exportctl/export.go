package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"exporthub/internal/export"
	"exporthub/internal/services"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Generate and deliver reports",
}

var exportPreviewCmd = &cobra.Command{
	Use:   "preview <template>",
	Short: "Print a report without recording it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		art, err := globalApp.Export.Preview(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), art.Content)
		return nil
	},
}

var exportDir string

var exportDownloadCmd = &cobra.Command{
	Use:   "download <template>",
	Short: "Write a report to a local file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var path string
		res, err := globalApp.Export.DownloadTo(cmd.Context(), args[0], func(art export.Artifact) error {
			path = filepath.Join(exportDir, art.Filename)
			if err := os.WriteFile(path, []byte(art.Content), 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}
			return nil
		})
		if err != nil {
			return err
		}
		if outputJSON {
			return printJSON(cmd.OutOrStdout(), res.Entry)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d records, %s)\n",
			path, res.Entry.RecordCount, res.Entry.TotalAmount)
		return nil
	},
}

var exportSendCmd = &cobra.Command{
	Use:   "send <template> <service>",
	Short: "Send a report to a connected service",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintf(cmd.ErrOrStderr(), "Sending to %s...\n", services.ServiceName(args[1]))
		res, err := globalApp.Export.Send(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		return printResults(cmd, []services.ExportResult{res})
	},
}

var exportEmailCmd = &cobra.Command{
	Use:   "email <template> <address>",
	Short: "Email a report",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := globalApp.Export.Email(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		return printResults(cmd, []services.ExportResult{res})
	},
}

var exportBroadcastCmd = &cobra.Command{
	Use:   "broadcast <template>",
	Short: "Send a report to every connected service at once",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		results, err := globalApp.Export.Broadcast(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if len(results) == 0 && !outputJSON {
			fmt.Fprintln(cmd.OutOrStdout(), "No connected services to send to.")
			return nil
		}
		return printResults(cmd, results)
	},
}

func printResults(cmd *cobra.Command, results []services.ExportResult) error {
	if outputJSON {
		entries := make([]services.HistoryEntry, 0, len(results))
		for _, res := range results {
			entries = append(entries, res.Entry)
		}
		return printJSON(cmd.OutOrStdout(), entries)
	}
	printResultsTable(cmd.OutOrStdout(), results)
	return nil
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.AddCommand(exportPreviewCmd)
	exportCmd.AddCommand(exportDownloadCmd)
	exportCmd.AddCommand(exportSendCmd)
	exportCmd.AddCommand(exportEmailCmd)
	exportCmd.AddCommand(exportBroadcastCmd)

	exportDownloadCmd.Flags().StringVarP(&exportDir, "dir", "d", ".", "Directory to write the report to")
}
