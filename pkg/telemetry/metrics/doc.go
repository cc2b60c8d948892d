// Package metrics provides Prometheus metrics for the gateway.
//
// # Metrics
//
//	gateway_router_requests_total{router_type,method,outcome}
//	gateway_router_request_duration_seconds{router_type,method}
//	gateway_router_errors_total{router_type,code}
//	gateway_router_up{router_type}
//	gateway_router_probe_latency_seconds{router_type}
//	gateway_http_requests_total{route,status}
//	gateway_http_request_duration_seconds{route}
//
// Outcomes are success, upstream_error, transport_error and rejected.
// Rejected calls never reached a router and are counted without a
// latency observation.
//
// # Usage
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	dispatcher := proxy.NewDispatcher(registry, client, proxy.DispatcherConfig{Recorder: collector})
//	mux.Handle("GET /metrics", collector.Handler())
//
// The collector uses a private registry, so tests can create as many as
// they like.
package metrics
