package main

import (
	"context"
	"errors"
	"os"
	"time"

	"exporthub/internal/amqp"
	"exporthub/internal/cli"
	applog "exporthub/internal/log"
	"exporthub/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL")).WithComponent(applog.ComponentAMQP)
	cfg := cli.LoadAndValidateConfig(logger)
	logger = cli.SetupLogger(cfg.LogLevel).WithComponent(applog.ComponentAMQP)

	if !cfg.EventsEnabled() {
		logger.Error("AMQP_URL is required for the export worker")
		os.Exit(1)
	}

	app, closeBackend, err := cli.OpenApp(context.Background(), logger, cfg)
	if err != nil {
		logger.Error("Failed to initialize backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer closeBackend()

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer client.Close()

	ctx, done := cli.GracefulShutdown(logger.Logger, 10*time.Second, nil)

	stats := worker.NewStatsWorker(app.Store)

	// Events missed while the worker was down are recovered from the ledger.
	logger.Info("Catching up export stats from history...")
	if err := stats.CatchUpFromHistory(ctx, app.History.List(ctx)); err != nil {
		logger.Error("Failed to catch up export stats", "error", err)
	}

	logger.Info("Starting export worker", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	err = client.ConsumeExportRecorded(ctx, func(msg *amqp.ExportRecordedMessage) error {
		return stats.HandleExportRecorded(ctx, msg)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Message consumption failed", "error", err)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Export worker stopped")
}
