package types

import "encoding/json"

// ProxyResponse is the uniform relay envelope. Exactly one of Data (on
// success) or Error (on failure) is populated. Status is the router's HTTP
// status and is nil when no connection was established.
type ProxyResponse struct {
	Success bool            `json:"success"`
	Status  *int            `json:"status,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`

	// Code is a machine-readable error code (see error.go).
	Code string `json:"code,omitempty"`

	// DurationMs is the wall time spent on the router call.
	DurationMs float64 `json:"durationMs"`

	// Method is the normalized HTTP method.
	Method string `json:"method,omitempty"`

	// RouterType echoes the vendor that was targeted.
	RouterType string `json:"routerType,omitempty"`
}

// StatusCode returns the router status or 0.
func (r *ProxyResponse) StatusCode() int {
	if r.Status == nil {
		return 0
	}
	return *r.Status
}

// TestConnectionResponse is the body returned by the connection tester.
type TestConnectionResponse struct {
	Success   bool    `json:"success"`
	Status    *int    `json:"status,omitempty"`
	LatencyMs float64 `json:"latencyMs"`

	// Error is only set for failures that happen before any network call.
	Error string `json:"error,omitempty"`
	Code  string `json:"code,omitempty"`
}

// DataResponse wraps a payload as {success, data}.
type DataResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// ErrorResponse is returned when a request cannot be decoded at all.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Field   string `json:"field,omitempty"`
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int {
	return &v
}

// SuccessResponse acknowledges a write that returns no payload.
type SuccessResponse struct {
	Success bool `json:"success"`
}
