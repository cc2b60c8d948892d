package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"wgportal/gateway/pkg/cli"
	"wgportal/gateway/pkg/config"
	"wgportal/gateway/pkg/routers"
)

var validateFlags struct {
	format string
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration file",
	Long: `Load the configuration file with environment overrides, validate it and
print the effective settings.

Examples:
  gateway validate --config /etc/gateway/config.yaml
  gateway validate --format json`,
	RunE: validateConfig,
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().StringVar(&validateFlags.format, "format", "text", "output format: text, json")
}

// configSummary is the effective configuration reported by validate.
type configSummary struct {
	Source           string   `json:"source"`
	ListenAddress    string   `json:"listenAddress"`
	TLS              bool     `json:"tls"`
	UpstreamTimeout  string   `json:"upstreamTimeout"`
	StoreDriver      string   `json:"storeDriver"`
	StorePath        string   `json:"storePath"`
	MonitorSchedule  string   `json:"monitorSchedule,omitempty"`
	MetricsPath      string   `json:"metricsPath,omitempty"`
	Tracing          bool     `json:"tracing"`
	SupportedRouters []string `json:"supportedRouters"`
}

func (s configSummary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "✓ Configuration valid (%s)\n", s.Source)
	fmt.Fprintf(&b, "  listen:    %s (tls: %t)\n", s.ListenAddress, s.TLS)
	fmt.Fprintf(&b, "  upstream:  %s timeout\n", s.UpstreamTimeout)
	fmt.Fprintf(&b, "  store:     %s %s\n", s.StoreDriver, s.StorePath)
	if s.MonitorSchedule != "" {
		fmt.Fprintf(&b, "  monitor:   %s\n", s.MonitorSchedule)
	} else {
		fmt.Fprintf(&b, "  monitor:   disabled\n")
	}
	if s.MetricsPath != "" {
		fmt.Fprintf(&b, "  metrics:   %s\n", s.MetricsPath)
	}
	fmt.Fprintf(&b, "  tracing:   %t\n", s.Tracing)
	fmt.Fprintf(&b, "  routers:   %s", strings.Join(s.SupportedRouters, ", "))
	return b.String()
}

func summarize(cfg *config.Config, path string) configSummary {
	s := configSummary{
		Source:           configSource(path),
		ListenAddress:    cfg.Proxy.ListenAddress,
		TLS:              cfg.Security.TLS.Enabled,
		UpstreamTimeout:  config.ClampUpstreamTimeout(cfg.Gateway.UpstreamTimeout).String(),
		StoreDriver:      cfg.Store.Driver,
		StorePath:        cfg.Store.Path,
		Tracing:          cfg.Telemetry.Tracing.Enabled,
		SupportedRouters: routers.NewRegistry().Supported(),
	}
	if cfg.Monitor.Enabled {
		s.MonitorSchedule = cfg.Monitor.Schedule
	}
	if cfg.Telemetry.Metrics.Enabled {
		s.MetricsPath = cfg.Telemetry.Metrics.Path
	}
	return s
}

func validateConfig(cmd *cobra.Command, args []string) error {
	formatter, err := cli.NewFormatter(validateFlags.format)
	if err != nil {
		return err
	}

	cfg, path, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	return formatter.FormatTo(cmd.OutOrStdout(), summarize(cfg, path))
}
