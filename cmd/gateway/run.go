package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"wgportal/gateway/pkg/cli"
	"wgportal/gateway/pkg/config"
	"wgportal/gateway/pkg/server"
	"wgportal/gateway/pkg/telemetry/logging"
)

var runFlags struct {
	listenAddress string
	logLevel      string
	dryRun        bool
	watch         bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the gateway",
	Long: `Start the gateway with the specified configuration.

The gateway serves the console API, probes the stored router on the
monitor schedule and exposes health and metrics endpoints.

Examples:
  # Start with default config
  gateway run

  # Override listen address
  gateway run --listen 127.0.0.1:8080

  # Validate config and wiring without serving
  gateway run --dry-run`,
	RunE: runGateway,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "build every component, then exit without serving")
	runCmd.Flags().BoolVar(&runFlags.watch, "watch", true, "re-apply the log level when the config file changes")
}

func runGateway(cmd *cobra.Command, args []string) error {
	cfg, path, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if runFlags.listenAddress != "" {
		cfg.Proxy.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}
	if err := config.Validate(cfg); err != nil {
		return cli.NewConfigError("", err.Error())
	}
	config.SetConfig(cfg)

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	log := logger.Slog()

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()

	gw, err := server.NewGateway(ctx, cfg, server.Options{
		Logger: log,
		Build: server.BuildInfo{
			Version:   Version,
			Commit:    GitCommit,
			BuildTime: BuildDate,
		},
	})
	if err != nil {
		return cli.NewCommandError("run", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Proxy.ShutdownTimeout)
		defer cancel()
		if err := gw.Close(shutdownCtx); err != nil {
			log.Error("failed to close gateway", "error", err)
		}
	}()

	if runFlags.dryRun {
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Configuration valid")
		return nil
	}

	log.Info("starting router proxy gateway",
		"version", Version,
		"config", configSource(path),
		"listen_address", cfg.Proxy.ListenAddress,
		"store_driver", cfg.Store.Driver,
		"monitor_enabled", cfg.Monitor.Enabled,
	)

	if err := gw.Start(ctx); err != nil {
		return cli.NewCommandError("run", err)
	}

	if runFlags.watch && path != "" {
		go watchConfig(ctx, path, logger, log)
	}

	srv := server.NewServer(&cfg.Proxy, &cfg.Security, gw.Handler(), log)
	if err := srv.Start(ctx); err != nil {
		return cli.NewCommandError("run", err)
	}
	return nil
}

// watchConfig re-applies the log level after the config file changes.
// Other settings take effect on restart.
func watchConfig(ctx context.Context, path string, logger *logging.Logger, log *slog.Logger) {
	watcher, err := config.NewWatcher(path, 0, log)
	if err != nil {
		log.Warn("config watcher disabled", "error", err)
		return
	}
	defer watcher.Close()

	err = watcher.Watch(ctx, func(cfg *config.Config) {
		level := cfg.Telemetry.Logging.Level
		if verbose {
			level = "debug"
		}
		if err := logger.SetLevel(level); err != nil {
			log.Warn("ignoring invalid log level from reloaded config", "level", level, "error", err)
			return
		}
		log.Info("log level updated", "level", level)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Error("config watcher stopped", "error", err)
	}
}
