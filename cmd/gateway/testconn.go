package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"wgportal/gateway/pkg/cli"
	"wgportal/gateway/pkg/config"
	"wgportal/gateway/pkg/proxy"
	"wgportal/gateway/pkg/proxy/types"
	"wgportal/gateway/pkg/routers"
	"wgportal/gateway/pkg/server"
)

var testConnFlags struct {
	routerType  string
	endpoint    string
	port        string
	user        string
	passwordEnv string
	https       bool
	stored      bool
	format      string
}

var testConnCmd = &cobra.Command{
	Use:   "test-connection",
	Short: "Probe a router once",
	Long: `Make a single authenticated read against a router and report whether it
answered successfully.

The password is read from an environment variable (ROUTER_PASSWORD by
default) so that it never appears in the process list. With --stored the
router saved from the console is probed instead.

Examples:
  ROUTER_PASSWORD=secret gateway test-connection --endpoint 192.168.88.1 --user admin
  gateway test-connection --stored --format json`,
	RunE: testConnection,
}

func init() {
	rootCmd.AddCommand(testConnCmd)

	f := testConnCmd.Flags()
	f.StringVar(&testConnFlags.routerType, "type", string(routers.Mikrotik), "router type")
	f.StringVar(&testConnFlags.endpoint, "endpoint", "", "router host name or address")
	f.StringVar(&testConnFlags.port, "port", "", "router port (default 80, or 443 with --https)")
	f.StringVar(&testConnFlags.user, "user", "", "router user")
	f.StringVar(&testConnFlags.passwordEnv, "password-env", "ROUTER_PASSWORD", "environment variable holding the router password")
	f.BoolVar(&testConnFlags.https, "https", false, "use HTTPS")
	f.BoolVar(&testConnFlags.stored, "stored", false, "probe the router saved in the settings store")
	f.StringVar(&testConnFlags.format, "format", "text", "output format: text, json")
}

// testConnResult is the report printed by test-connection.
type testConnResult struct {
	RouterType string `json:"routerType"`
	Endpoint   string `json:"endpoint"`
	*types.TestConnectionResponse
}

func (r testConnResult) String() string {
	status := 0
	if r.Status != nil {
		status = *r.Status
	}
	if r.Success {
		return fmt.Sprintf("✓ %s %s reachable (status %d, %.1f ms)", r.RouterType, r.Endpoint, status, r.LatencyMs)
	}

	detail := r.Error
	switch {
	case status != 0:
		detail = fmt.Sprintf("status %d", status)
	case detail == "":
		detail = "router unreachable"
	}
	if r.Code != "" {
		detail = fmt.Sprintf("%s: %s", r.Code, detail)
	}
	return fmt.Sprintf("✗ %s %s failed (%s)", r.RouterType, r.Endpoint, detail)
}

func testConnection(cmd *cobra.Command, args []string) error {
	formatter, err := cli.NewFormatter(testConnFlags.format)
	if err != nil {
		return err
	}

	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()

	raw, err := connectionFromFlags(ctx, cfg)
	if err != nil {
		return err
	}

	dispatcher := proxy.NewDispatcher(routers.NewRegistry(), routers.NewClient(server.ClientConfig(&cfg.Gateway)), proxy.DispatcherConfig{
		Logger: logger.Slog(),
	})
	resp := proxy.NewTester(dispatcher).TestRaw(ctx, raw)

	result := testConnResult{
		RouterType: strings.ToLower(strings.TrimSpace(raw.RouterType)),
		Endpoint:   strings.TrimSpace(raw.Endpoint),
		TestConnectionResponse: resp,
	}
	if err := formatter.FormatTo(cmd.OutOrStdout(), result); err != nil {
		return err
	}
	if !resp.Success {
		return cli.NewCommandError("test-connection", fmt.Errorf("router did not answer successfully"))
	}
	return nil
}

func connectionFromFlags(ctx context.Context, cfg *config.Config) (routers.RawConnection, error) {
	if testConnFlags.stored {
		st, err := server.OpenStore(ctx, &cfg.Store, nil, nil)
		if err != nil {
			return routers.RawConnection{}, cli.NewCommandError("test-connection", err)
		}
		defer st.Close()

		rc, err := st.GetRouterConfig(ctx)
		if err != nil {
			return routers.RawConnection{}, cli.NewCommandError("test-connection", err)
		}
		if rc == nil {
			return routers.RawConnection{}, cli.NewConfigError("--stored", "no router has been saved")
		}
		return rc.Connection(), nil
	}

	password := os.Getenv(testConnFlags.passwordEnv)
	if password == "" {
		return routers.RawConnection{}, cli.NewConfigError("--password-env", fmt.Sprintf("environment variable %s is empty", testConnFlags.passwordEnv))
	}
	return routers.RawConnection{
		RouterType: testConnFlags.routerType,
		Endpoint:   testConnFlags.endpoint,
		Port:       routers.ParsePort(testConnFlags.port),
		User:       testConnFlags.user,
		Password:   password,
		UseHTTPS:   testConnFlags.https,
	}, nil
}
