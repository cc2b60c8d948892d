package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"wgportal/gateway/pkg/cli"
	"wgportal/gateway/pkg/config"
	"wgportal/gateway/pkg/telemetry/logging"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "gateway",
	Short: "Router Proxy Gateway - relay for the WireGuard management console",
	Long: `Router Proxy Gateway relays requests from the WireGuard management console
to router REST APIs (MikroTik RouterOS today) and stores the router and
WireGuard settings the console edits.

Every relayed call is made exactly once, with a fixed timeout, and its
outcome is returned to the console in a uniform envelope.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging)")
}

// loadConfig loads cfgFile with environment overrides and returns the path
// actually read. A missing default config.yaml is not an error; the
// built-in defaults are used and the returned path is empty.
func loadConfig(cmd *cobra.Command) (*config.Config, string, error) {
	path := cfgFile
	if !cmd.Flags().Changed("config") && !fileExists(path) {
		path = ""
	}

	cfg, err := config.LoadConfigWithEnvOverrides(path)
	if err != nil {
		return nil, "", cli.NewConfigError("", err.Error())
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}
	return cfg, path, nil
}

// newLogger builds the process logger from the logging section and installs
// it as the slog default.
func newLogger(cfg *config.Config) (*logging.Logger, error) {
	logger, err := logging.New(logging.FromConfig(&cfg.Telemetry.Logging))
	if err != nil {
		return nil, cli.NewConfigError("telemetry.logging", err.Error())
	}
	slog.SetDefault(logger.Slog())
	return logger, nil
}

func configSource(path string) string {
	if path == "" {
		return "built-in defaults"
	}
	return fmt.Sprintf("%q", path)
}
