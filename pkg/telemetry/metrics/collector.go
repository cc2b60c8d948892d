package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"wgportal/gateway/pkg/config"
	"wgportal/gateway/pkg/events"
)

// OtherLabel replaces label values once the cardinality limit is reached.
const OtherLabel = "other"

// rejectedOutcome matches proxy.OutcomeRejected.
const rejectedOutcome = "rejected"

// Collector owns the gateway's Prometheus registry and records router,
// probe and HTTP metrics. All methods are no-ops when metrics are disabled.
//
// Router types reach the collector straight from request bodies, so label
// sets are capped by a CardinalityLimiter.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	router *RouterMetrics
	http   *HTTPMetrics

	cardinalityLimiter *CardinalityLimiter
}

// NewCollector creates a collector. A nil registry gets a fresh private one
// with the Go runtime and process collectors registered.
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}
	if len(cfg.RequestDurationBuckets) == 0 {
		cfg.RequestDurationBuckets = append([]float64(nil), config.DefaultRequestDurationBuckets...)
	}

	return &Collector{
		config:             cfg,
		registry:           registry,
		router:             NewRouterMetrics(cfg, registry),
		http:               NewHTTPMetrics(cfg, registry),
		cardinalityLimiter: NewCardinalityLimiter(1000),
	}
}

// RecordRouterRequest records a relayed call.
func (c *Collector) RecordRouterRequest(routerType, method, outcome string, duration time.Duration) {
	if !c.config.Enabled {
		return
	}
	routerType = c.limit("router", routerType)
	c.router.RecordRequest(routerType, method, outcome, duration, outcome != rejectedOutcome)
}

// RecordRouterError records a failed call by envelope code.
func (c *Collector) RecordRouterError(routerType, code string) {
	if !c.config.Enabled {
		return
	}
	c.router.RecordError(c.limit("router", routerType), code)
}

// UpdateRouterProbe records a monitor probe result.
func (c *Collector) UpdateRouterProbe(routerType string, up bool, latency time.Duration) {
	if !c.config.Enabled {
		return
	}
	c.router.UpdateProbe(c.limit("router", routerType), up, latency)
}

// OnRouterProbeCompleted adapts UpdateRouterProbe to the event bus.
func (c *Collector) OnRouterProbeCompleted(e events.RouterProbeCompleted) {
	c.UpdateRouterProbe(e.RouterType, e.Success, e.Latency)
}

// RecordHTTPRequest records a request served by the HTTP API. route is
// the mux pattern, never the raw URL path.
func (c *Collector) RecordHTTPRequest(route string, status int, duration time.Duration) {
	if !c.config.Enabled {
		return
	}
	c.http.RecordRequest(c.limit("route", route), status, duration)
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Enabled reports whether metrics are recorded.
func (c *Collector) Enabled() bool {
	return c.config.Enabled
}

func (c *Collector) limit(kind, value string) string {
	if value == "" {
		return "unknown"
	}
	if !c.cardinalityLimiter.Allow(kind + ":" + value) {
		return OtherLabel
	}
	return value
}

// CardinalityLimiter caps the number of distinct label values seen.
type CardinalityLimiter struct {
	maxCardinality int
	current        map[string]struct{}
	mu             sync.RWMutex
}

// NewCardinalityLimiter creates a limiter allowing maxCardinality values.
func NewCardinalityLimiter(maxCardinality int) *CardinalityLimiter {
	return &CardinalityLimiter{
		maxCardinality: maxCardinality,
		current:        make(map[string]struct{}),
	}
}

// Allow reports whether labelSet was seen before or still fits.
func (cl *CardinalityLimiter) Allow(labelSet string) bool {
	cl.mu.RLock()
	_, exists := cl.current[labelSet]
	cl.mu.RUnlock()
	if exists {
		return true
	}

	cl.mu.Lock()
	defer cl.mu.Unlock()

	if _, exists := cl.current[labelSet]; exists {
		return true
	}
	if len(cl.current) >= cl.maxCardinality {
		return false
	}
	cl.current[labelSet] = struct{}{}
	return true
}

// Count returns the number of distinct values seen.
func (cl *CardinalityLimiter) Count() int {
	cl.mu.RLock()
	defer cl.mu.RUnlock()
	return len(cl.current)
}
