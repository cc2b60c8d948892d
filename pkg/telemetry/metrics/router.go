package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"wgportal/gateway/pkg/config"
)

// RouterMetrics tracks calls relayed to routers and the monitor's probes.
//
// Metrics:
//   - gateway_router_requests_total: relayed calls by router type, method, outcome
//   - gateway_router_request_duration_seconds: router call latency
//   - gateway_router_errors_total: failed calls by envelope code
//   - gateway_router_up: last probe result (1=up, 0=down)
//   - gateway_router_probe_latency_seconds: last probe latency
type RouterMetrics struct {
	requests     *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	errors       *prometheus.CounterVec
	up           *prometheus.GaugeVec
	probeLatency *prometheus.GaugeVec
}

// NewRouterMetrics creates and registers router metrics.
func NewRouterMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *RouterMetrics {
	rm := &RouterMetrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "router",
				Name:      "requests_total",
				Help:      "Total number of calls relayed to routers",
			},
			[]string{"router_type", "method", "outcome"},
		),

		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: "router",
				Name:      "request_duration_seconds",
				Help:      "Duration of router calls in seconds",
				Buckets:   cfg.RequestDurationBuckets,
			},
			[]string{"router_type", "method"},
		),

		errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "router",
				Name:      "errors_total",
				Help:      "Total number of failed router calls by error code",
			},
			[]string{"router_type", "code"},
		),

		up: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: "router",
				Name:      "up",
				Help:      "Whether the last probe of the configured router succeeded (1=up, 0=down)",
			},
			[]string{"router_type"},
		),

		probeLatency: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: "router",
				Name:      "probe_latency_seconds",
				Help:      "Latency of the last probe of the configured router",
			},
			[]string{"router_type"},
		),
	}

	registry.MustRegister(rm.requests, rm.duration, rm.errors, rm.up, rm.probeLatency)
	return rm
}

// RecordRequest counts one relayed call. Rejected calls never reached the
// router, so they are not observed in the latency histogram.
func (rm *RouterMetrics) RecordRequest(routerType, method, outcome string, duration time.Duration, observe bool) {
	rm.requests.WithLabelValues(routerType, method, outcome).Inc()
	if observe {
		rm.duration.WithLabelValues(routerType, method).Observe(duration.Seconds())
	}
}

// RecordError counts one failed call.
func (rm *RouterMetrics) RecordError(routerType, code string) {
	rm.errors.WithLabelValues(routerType, code).Inc()
}

// UpdateProbe sets the up gauge and the probe latency.
func (rm *RouterMetrics) UpdateProbe(routerType string, up bool, latency time.Duration) {
	value := 0.0
	if up {
		value = 1.0
	}
	rm.up.WithLabelValues(routerType).Set(value)
	rm.probeLatency.WithLabelValues(routerType).Set(latency.Seconds())
}
