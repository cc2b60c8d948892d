// Package types defines the JSON bodies exchanged on the gateway's HTTP
// surface.
//
// Request types:
//   - ProxyRequestBody: body of POST /api/router/proxy
//   - TestConnectionRequest: body of POST /api/router/test-connection
//
// Response types:
//   - ProxyResponse: the uniform envelope every relay produces
//   - TestConnectionResponse: reachability verdict with latency
//   - DataResponse: {success, data} wrapper used by the config endpoints
//
// Field names use the camelCase spelling the browser console already sends,
// so saved values round-trip without renaming.
package types
