// Package middleware provides the HTTP middleware in front of the gateway
// routes.
//
// The server applies them outermost first:
//
//	Recovery -> RequestID -> tracing -> Logging -> CORS -> Timeout -> mux
//
// Instrument wraps each registered route individually so that the metrics
// route label is the mux pattern rather than the raw path. No middleware
// reads or logs request bodies, since proxy and config requests carry
// router passwords.
package middleware
