package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var shareQRPath string

var shareCmd = &cobra.Command{
	Use:   "share <template>",
	Short: "Create a share link and QR code for a report",
	Long: `Create a share link for a report. The link is served by a running
exporthub server for as long as the share cache keeps it, so this command
is mostly useful for checking the QR code output.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		link, err := globalApp.Export.Share(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if shareQRPath != "" {
			if err := os.WriteFile(shareQRPath, link.QRCodePNG, 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", shareQRPath, err)
			}
		}
		if outputJSON {
			return printJSON(cmd.OutOrStdout(), map[string]string{"id": link.ID, "url": link.URL})
		}
		fmt.Fprintln(cmd.OutOrStdout(), link.URL)
		if shareQRPath != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "QR code written to %s\n", shareQRPath)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(shareCmd)
	shareCmd.Flags().StringVar(&shareQRPath, "qr", "", "Write the QR code PNG to this file")
}
