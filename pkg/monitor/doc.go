// Package monitor probes the router saved on the settings page.
//
// Probes run on a robfig/cron schedule (monitor.schedule, "@every 1m" by
// default) and again whenever a router.config.saved event arrives. Each
// probe is a single connection test; its outcome is published as
// router.probe.completed, which the metrics collector turns into the
// gateway_router_up and probe latency gauges. Check backs the "router"
// readiness check.
package monitor
