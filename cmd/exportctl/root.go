package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"exporthub/internal/cli"
	"exporthub/internal/config"
	applog "exporthub/internal/log"
	"exporthub/internal/services"
)

var (
	globalConfig  *config.Config
	globalApp     *services.App
	globalCleanup func()
	globalLogger  *applog.Logger

	outputJSON bool
)

// commands that never touch the backend
var offlineCommands = map[string]bool{
	"help":       true,
	"completion": true,
	"templates":  true,
	"services":   true,
}

var rootCmd = &cobra.Command{
	Use:   "exportctl",
	Short: "Export and distribute expense reports",
	Long: `exportctl drives the expense export engine from the command line:
generate reports from templates, deliver them to connected services, and
manage the export history and schedules.

Configuration comes from the environment, a .env file and the optional YAML
file named by EXPORTHUB_CONFIG. Unless DATA_BACKEND says otherwise, state is
kept in a sqlite database under $XDG_DATA_HOME/exporthub.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if offlineCommands[cmd.Name()] {
			return nil
		}

		cli.LoadEnvFile()
		cfg, err := config.LoadWithDefaults(config.CLIDefaults())
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		globalConfig = cfg

		// Logs go to stderr so table and JSON output stay clean.
		logCfg := applog.DefaultConfig()
		logCfg.Level = applog.ParseLevel(cfg.LogLevel)
		logCfg.Output = os.Stderr
		globalLogger = applog.New(logCfg)
		applog.SetDefault(globalLogger)

		if cfg.DataBackend == "memory" {
			globalLogger.Warn("DATA_BACKEND is memory: changes made by this command are discarded when it exits",
				"command", cmd.CommandPath())
		}

		app, cleanup, err := cli.OpenApp(cmd.Context(), globalLogger, cfg)
		if err != nil {
			return fmt.Errorf("failed to open backend: %w", err)
		}
		globalApp = app
		globalCleanup = cleanup
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if globalCleanup != nil {
			globalCleanup()
			globalCleanup = nil
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "Print JSON instead of tables")
}
