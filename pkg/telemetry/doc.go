// Package telemetry holds the gateway's observability subpackages.
//
//   - logging: slog setup with password and Authorization redaction
//   - metrics: Prometheus collectors for HTTP routes and router dispatches
//   - tracing: OpenTelemetry spans exported over OTLP gRPC
//   - health: liveness, readiness and version endpoints
//
// Router credentials never reach any of these sinks. The logging redactor
// scrubs them from messages and attributes, metric labels carry only the
// router type, method and error code, and spans record the router type
// and path.
package telemetry
