package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"exporthub/internal/amqp"
	"exporthub/internal/core"
)

var eventsQueue string

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Inspect export events on the message broker",
}

var eventsTailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Print export-recorded events as they arrive",
	Long: `Print export-recorded events as they arrive. The tail reads from its
own transient queue, so export-worker still receives every event.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !globalConfig.EventsEnabled() {
			return errors.New("AMQP_URL is not set")
		}

		client, err := amqp.NewSubscriber(globalConfig.AMQPURL, globalConfig.AMQPExchange, globalConfig.AMQPQueue, eventsQueue)
		if err != nil {
			return err
		}
		defer client.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		out := cmd.OutOrStdout()
		err = client.ConsumeExportRecorded(ctx, func(msg *amqp.ExportRecordedMessage) error {
			if outputJSON {
				return printJSON(out, msg)
			}
			_, err := fmt.Fprintf(out, "%s  %-22s %-6s %4d  %12s  %s\n",
				msg.RecordedAt.Local().Format("15:04:05"),
				msg.TemplateName,
				msg.Format,
				msg.RecordCount,
				core.Money{Cents: msg.TotalCents},
				msg.Destination)
			return err
		})
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.AddCommand(eventsTailCmd)
	eventsTailCmd.Flags().StringVar(&eventsQueue, "queue", "exportctl_tail", "Transient queue to bind for the tail")
}
