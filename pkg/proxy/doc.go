// Package proxy relays generic REST calls from the web UI to a router and
// wraps every outcome in a uniform envelope.
//
// # Architecture
//
//   - Dispatcher: validates method and path, serializes mutations per
//     router, makes one call through routers.Client and builds the
//     ProxyResponse envelope
//   - Tester: a single GET to the vendor's probe path, reporting
//     reachability and latency
//   - Handlers: the HTTP surface (package handlers)
//   - Middleware: request IDs, logging, CORS, recovery (package middleware)
//   - Types: request and response bodies (package types)
//
// # Envelope
//
// Dispatch never returns an error. Invalid input, unsupported vendors,
// transport failures and non-2xx router answers all come back as
//
//	{"success":false,"status":401,"error":"...","code":"UPSTREAM_ERROR",...}
//
// with status omitted when no connection was made. A successful call gives
//
//	{"success":true,"status":200,"data":...,"durationMs":12.5,...}
//
// # Secrets
//
// The router password is sent only as a Basic Authorization header. Error
// strings pass through SanitizeError before they reach the envelope or a
// log line.
package proxy
