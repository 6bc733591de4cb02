package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"exporthub/internal/cache"
	"exporthub/internal/cli"
	apphttp "exporthub/internal/http"
	applog "exporthub/internal/log"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(logger)
	logger = cli.SetupLogger(cfg.LogLevel)

	app, closeBackend, err := cli.OpenApp(context.Background(), logger, cfg)
	if err != nil {
		logger.Error("Failed to initialize backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}

	caches := cache.NewManager()
	caches.Register(app.Shares.Cache())
	caches.StartCleanup(10 * time.Minute)

	var serverOpts []apphttp.Option
	if len(cfg.TrustedProxies) > 0 {
		proxies, err := apphttp.ParseTrustedProxies(cfg.TrustedProxies)
		if err != nil {
			logger.Error("Invalid trusted proxies", "error", err)
			os.Exit(1)
		}
		serverOpts = append(serverOpts, apphttp.WithTrustedProxies(proxies))
	}

	srv := apphttp.NewServer(":"+cfg.Port, app, logger, serverOpts...)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	ctx, done := cli.GracefulShutdown(logger.Logger, 30*time.Second, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		caches.Stop()
		closeBackend()
	})

	logger.Info("Starting exporthub server",
		"port", cfg.Port,
		"backend", cfg.DataBackend,
		"events_enabled", cfg.EventsEnabled(),
		applog.FieldOperation, applog.OpStartup)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
