package server

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"wgportal/gateway/pkg/config"
	"wgportal/gateway/pkg/events"
	"wgportal/gateway/pkg/monitor"
	"wgportal/gateway/pkg/proxy"
	"wgportal/gateway/pkg/routers"
	"wgportal/gateway/pkg/security/secrets"
	"wgportal/gateway/pkg/store"
	"wgportal/gateway/pkg/telemetry/health"
	"wgportal/gateway/pkg/telemetry/metrics"
	"wgportal/gateway/pkg/telemetry/tracing"
)

// BuildInfo identifies the running binary on /version.
type BuildInfo struct {
	Version   string
	Commit    string
	BuildTime string
}

// Options carries the process-level dependencies of a Gateway.
type Options struct {
	Logger *slog.Logger
	Build  BuildInfo

	// Registry receives the gateway metrics. Nil creates a private registry
	// with the Go runtime and process collectors.
	Registry *prometheus.Registry
}

// Gateway is the assembled service: settings store, router dispatcher,
// monitor and telemetry, plus the HTTP handler that exposes them.
type Gateway struct {
	config     *config.Config
	logger     *slog.Logger
	build      BuildInfo
	bus        *events.Bus
	store      *store.Store
	collector  *metrics.Collector
	tracer     *tracing.Tracer
	dispatcher *proxy.Dispatcher
	tester     *proxy.Tester
	monitor    *monitor.Monitor
	checker    *health.Checker
	handler    http.Handler
}

// NewGateway wires every component from cfg. The caller owns the returned
// gateway and must Close it.
func NewGateway(ctx context.Context, cfg *config.Config, opts Options) (*Gateway, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	g := &Gateway{config: cfg, logger: logger, build: opts.Build}
	built := false
	defer func() {
		if !built {
			_ = g.Close(context.Background())
		}
	}()

	g.bus = events.NewBus(logger)

	var err error
	g.store, err = OpenStore(ctx, &cfg.Store, g.bus, logger)
	if err != nil {
		return nil, err
	}

	g.collector = metrics.NewCollector(&cfg.Telemetry.Metrics, opts.Registry)

	g.tracer, err = tracing.New(&cfg.Telemetry.Tracing, opts.Build.Version)
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}

	client := routers.NewClient(ClientConfig(&cfg.Gateway))
	g.dispatcher = proxy.NewDispatcher(routers.NewRegistry(), client, proxy.DispatcherConfig{
		SerializeMutations: cfg.Gateway.SerializeMutations,
		Recorder:           g.collector,
		Tracer:             g.tracer,
		Logger:             logger,
	})
	g.tester = proxy.NewTester(g.dispatcher)

	schedule := ""
	if cfg.Monitor.Enabled {
		schedule = cfg.Monitor.Schedule
	}
	g.monitor = monitor.New(schedule, g.store, g.tester, g.bus, logger)

	g.bus.OnRouterProbeCompleted(g.collector.OnRouterProbeCompleted)
	g.bus.OnRouterConfigSaved(g.monitor.OnRouterConfigSaved)

	g.checker = health.New(cfg.Telemetry.Health.CheckTimeout)
	g.checker.Register("store", g.store.Ping)
	g.checker.Register("router", g.monitor.Check)

	g.handler = g.routes()
	built = true
	return g, nil
}

// ClientConfig converts the gateway section into router client settings.
// The upstream timeout is clamped to its supported range.
func ClientConfig(cfg *config.GatewayConfig) routers.ClientConfig {
	return routers.ClientConfig{
		Timeout:             config.ClampUpstreamTimeout(cfg.UpstreamTimeout),
		InsecureSkipVerify:  cfg.InsecureSkipVerify,
		MaxIdleConns:        cfg.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.MaxIdleConnsPerHost,
		IdleConnTimeout:     cfg.IdleConnTimeout,
		MaxResponseBytes:    cfg.MaxResponseBytes,
	}
}

// OpenStore opens the settings store described by cfg, resolving the key
// that seals router passwords through the secrets manager. publisher may
// be nil.
func OpenStore(ctx context.Context, cfg *config.StoreConfig, publisher store.Publisher, logger *slog.Logger) (*store.Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	secretManager, err := secrets.NewDefaultManager(cfg.SecretsDir, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create secrets manager: %w", err)
	}
	key, err := masterKey(ctx, cfg, secretManager, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve store key: %w", err)
	}
	sealer, err := store.NewSealer(key)
	if err != nil {
		return nil, err
	}

	return store.Open(store.Config{
		Driver:      cfg.Driver,
		Path:        cfg.Path,
		BusyTimeout: cfg.BusyTimeout,
	}, sealer, publisher, logger)
}

// masterKey resolves the key that seals stored passwords. An in-memory
// store without a configured key gets a throwaway one, since nothing it
// seals outlives the process.
func masterKey(ctx context.Context, cfg *config.StoreConfig, m *secrets.Manager, logger *slog.Logger) ([]byte, error) {
	if cfg.Path != ":memory:" {
		return store.ResolveMasterKey(ctx, m, cfg.EncryptionKeySecret, store.KeyFileFor(cfg.Path), logger)
	}

	value, err := m.GetSecret(ctx, cfg.EncryptionKeySecret)
	if err == nil {
		return []byte(value), nil
	}
	if !errors.Is(err, secrets.ErrNotFound) {
		return nil, err
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return nil, fmt.Errorf("failed to generate master key: %w", err)
	}
	return []byte(base64.StdEncoding.EncodeToString(raw)), nil
}

// Start begins scheduled router probes. It returns once the scheduler is
// running; probes stop when ctx is cancelled.
func (g *Gateway) Start(ctx context.Context) error {
	return g.monitor.Start(ctx)
}

// Handler returns the HTTP handler with the full middleware chain.
func (g *Gateway) Handler() http.Handler {
	return g.handler
}

// Store returns the settings store.
func (g *Gateway) Store() *store.Store {
	return g.store
}

// Monitor returns the router monitor.
func (g *Gateway) Monitor() *monitor.Monitor {
	return g.monitor
}

// Close stops the monitor, flushes traces and closes the store. Components
// that were never created are skipped.
func (g *Gateway) Close(ctx context.Context) error {
	var errs []error

	if g.monitor != nil {
		g.monitor.Stop()
	}
	if g.tracer != nil {
		if err := g.tracer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer shutdown: %w", err))
		}
	}
	if g.bus != nil {
		_ = g.bus.Close()
	}
	if g.store != nil {
		if err := g.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("store close: %w", err))
		}
	}

	return errors.Join(errs...)
}
