package monitor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"wgportal/gateway/pkg/events"
	"wgportal/gateway/pkg/proxy/types"
	"wgportal/gateway/pkg/routers"
	"wgportal/gateway/pkg/store"
)

// ConfigSource supplies the stored router connection.
type ConfigSource interface {
	GetRouterConfig(ctx context.Context) (*store.RouterConfig, error)
}

// Prober runs a single connection test.
type Prober interface {
	TestRaw(ctx context.Context, raw routers.RawConnection) *types.TestConnectionResponse
}

// Publisher receives probe outcomes.
type Publisher interface {
	PublishRouterProbeCompleted(e events.RouterProbeCompleted) error
}

// Result is the outcome of the most recent probe.
type Result struct {
	RouterType string
	Endpoint   string
	Success    bool

	// Status is the router HTTP status, or 0 when it was not reached.
	Status    int
	Latency   time.Duration
	Error     string
	Code      string
	CheckedAt time.Time
}

// Monitor probes the stored router on a cron schedule and keeps the last
// result for the readiness check.
type Monitor struct {
	schedule  string
	source    ConfigSource
	prober    Prober
	publisher Publisher
	logger    *slog.Logger
	cron      *cron.Cron

	// probeMu serializes scheduled and event-triggered probes.
	probeMu sync.Mutex

	mu      sync.RWMutex
	last    *Result
	running bool
	ctx     context.Context
}

// New creates a monitor. An empty schedule disables scheduled probes;
// ProbeNow and config-saved events still work.
func New(schedule string, source ConfigSource, prober Prober, publisher Publisher, logger *slog.Logger) *Monitor {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "monitor")

	return &Monitor{
		schedule:  schedule,
		source:    source,
		prober:    prober,
		publisher: publisher,
		logger:    logger,
		cron: cron.New(
			cron.WithLogger(cronLogger{logger}),
			cron.WithChain(cron.SkipIfStillRunning(cronLogger{logger})),
		),
		ctx: context.Background(),
	}
}

// Start schedules probes until ctx is cancelled or Stop is called. The
// first probe runs at the first scheduled tick.
func (m *Monitor) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return errors.New("monitor already running")
	}
	m.ctx = ctx

	if m.schedule == "" {
		m.logger.Info("monitor schedule not configured, skipping scheduler")
		return nil
	}

	if _, err := cron.ParseStandard(m.schedule); err != nil {
		return fmt.Errorf("invalid monitor schedule %q: %w", m.schedule, err)
	}
	if _, err := m.cron.AddFunc(m.schedule, func() { m.run(ctx) }); err != nil {
		return fmt.Errorf("failed to schedule router probe: %w", err)
	}

	m.cron.Start()
	m.running = true
	m.logger.Info("router monitor started", "schedule", m.schedule)

	go func() {
		<-ctx.Done()
		m.Stop()
	}()
	return nil
}

// Stop halts the scheduler and waits for a running probe to finish.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	m.mu.Unlock()

	<-m.cron.Stop().Done()
	m.logger.Info("router monitor stopped")
}

// Running reports whether scheduled probes are active.
func (m *Monitor) Running() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.running
}

// NextRun returns the next scheduled probe time, or nil when nothing is
// scheduled.
func (m *Monitor) NextRun() *time.Time {
	entries := m.cron.Entries()
	if len(entries) == 0 {
		return nil
	}
	next := entries[0].Next
	return &next
}

// Last returns a copy of the latest probe result, or nil when no router is
// stored or nothing has been probed yet.
func (m *Monitor) Last() *Result {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.last == nil {
		return nil
	}
	r := *m.last
	return &r
}

// Check is the readiness check for the stored router. It fails only when
// the last probe failed.
func (m *Monitor) Check(context.Context) error {
	last := m.Last()
	if last == nil || last.Success {
		return nil
	}
	if last.Status != 0 {
		return fmt.Errorf("last probe of %s failed with status %d", last.RouterType, last.Status)
	}
	if last.Error != "" {
		return fmt.Errorf("last probe of %s failed: %s", last.RouterType, last.Error)
	}
	return fmt.Errorf("last probe of %s failed: router unreachable", last.RouterType)
}

// OnRouterConfigSaved re-probes in the background after the stored router
// changes.
func (m *Monitor) OnRouterConfigSaved(e events.RouterConfigSaved) {
	m.mu.RLock()
	ctx := m.ctx
	m.mu.RUnlock()

	m.logger.Debug("router config changed, probing",
		"router_type", e.RouterType,
		"endpoint", e.Endpoint,
	)
	go m.run(ctx)
}

func (m *Monitor) run(ctx context.Context) {
	if _, err := m.ProbeNow(ctx); err != nil {
		m.logger.Error("router probe failed", "error", err)
	}
}

// ProbeNow loads the stored router and probes it once. It returns nil
// without probing when no router is stored.
func (m *Monitor) ProbeNow(ctx context.Context) (*Result, error) {
	m.probeMu.Lock()
	defer m.probeMu.Unlock()

	rc, err := m.source.GetRouterConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load router config: %w", err)
	}
	if rc == nil {
		m.setLast(nil)
		m.logger.Debug("no router configured, skipping probe")
		return nil, nil
	}

	resp := m.prober.TestRaw(ctx, rc.Connection())
	result := &Result{
		RouterType: rc.RouterType,
		Endpoint:   rc.Endpoint,
		Success:    resp.Success,
		Latency:    time.Duration(resp.LatencyMs * float64(time.Millisecond)),
		Error:      resp.Error,
		Code:       resp.Code,
		CheckedAt:  time.Now().UTC(),
	}
	if resp.Status != nil {
		result.Status = *resp.Status
	}
	m.setLast(result)

	logArgs := []any{
		"router_type", result.RouterType,
		"endpoint", result.Endpoint,
		"success", result.Success,
		"status", result.Status,
		"latency_ms", resp.LatencyMs,
	}
	if result.Success {
		m.logger.Info("router probe completed", logArgs...)
	} else {
		m.logger.Warn("router probe completed", append(logArgs, "code", result.Code, "error", result.Error)...)
	}

	if m.publisher != nil {
		err := m.publisher.PublishRouterProbeCompleted(events.RouterProbeCompleted{
			RouterType: result.RouterType,
			Endpoint:   result.Endpoint,
			Success:    result.Success,
			Status:     result.Status,
			Latency:    result.Latency,
			Timestamp:  result.CheckedAt,
		})
		if err != nil {
			m.logger.Warn("failed to publish probe result", "error", err)
		}
	}

	return result, nil
}

func (m *Monitor) setLast(r *Result) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.last = r
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
