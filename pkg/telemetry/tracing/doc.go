// Package tracing wires OpenTelemetry into the gateway.
//
// With telemetry.tracing.enabled off, the Tracer hands out no-op spans.
// Enabled, spans are batched to an OTLP gRPC collector and W3C trace
// context is accepted from callers, so a trace started in the web console
// continues through the gateway into the router call:
//
//	HTTP POST              (Middleware, server span)
//	  router.dispatch      (proxy.Dispatcher, client span)
//
// The dispatch span carries gateway.router_type, http.method, gateway.path
// and http.status_code. Credentials are never recorded as attributes.
package tracing
