package routers

import (
	"fmt"
	"net/http"
	"time"
)

// Error codes carried in proxy envelopes. Callers switch on these rather
// than on message text.
const (
	CodeInvalidConnection = "INVALID_CONNECTION"
	CodeUnsupportedVendor = "UNSUPPORTED_VENDOR"
	CodeTimeout           = "TIMEOUT"
	CodeConnectionError   = "CONNECTION_ERROR"
	CodeRequestError      = "REQUEST_ERROR"
	CodeUpstreamError     = "UPSTREAM_ERROR"
)

// Transport failure reasons.
const (
	ReasonTimeout         = "timeout"
	ReasonConnectionError = "connection_error"
	ReasonRequestError    = "request_error"
)

// InvalidConnectionError reports a malformed or missing connection field.
// It is raised before any network call.
type InvalidConnectionError struct {
	// Field is the offending input field name (routerType, endpoint, port, user, password).
	Field string

	// Message describes the problem. It never contains the password.
	Message string
}

// Error implements the error interface.
func (e *InvalidConnectionError) Error() string {
	return fmt.Sprintf("invalid connection: %s: %s", e.Field, e.Message)
}

// Code returns the envelope error code.
func (e *InvalidConnectionError) Code() string { return CodeInvalidConnection }

// UnsupportedVendorError reports a recognized router type whose adapter is
// not implemented.
type UnsupportedVendorError struct {
	RouterType RouterType
}

// Error implements the error interface.
func (e *UnsupportedVendorError) Error() string {
	return fmt.Sprintf("router type %q is not supported yet", e.RouterType)
}

// Code returns the envelope error code.
func (e *UnsupportedVendorError) Code() string { return CodeUnsupportedVendor }

// TransportError reports a failure where no HTTP status is available:
// DNS resolution, connection refused, TLS handshake or timeout.
type TransportError struct {
	// RouterType is the vendor being called.
	RouterType RouterType

	// Reason is one of ReasonTimeout, ReasonConnectionError, ReasonRequestError.
	Reason string

	// Timeout is the deadline that elapsed, for timeout failures.
	Timeout time.Duration

	// Cause is the underlying error, already stripped of URLs.
	Cause error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	if e.Reason == ReasonTimeout {
		return "timeout"
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Cause)
	}
	return e.Reason
}

// Unwrap returns the underlying error for error chain support.
func (e *TransportError) Unwrap() error {
	return e.Cause
}

// Code returns the envelope error code.
func (e *TransportError) Code() string {
	switch e.Reason {
	case ReasonTimeout:
		return CodeTimeout
	case ReasonConnectionError:
		return CodeConnectionError
	default:
		return CodeRequestError
	}
}

// IsTimeout reports whether the failure was a deadline.
func (e *TransportError) IsTimeout() bool {
	return e.Reason == ReasonTimeout
}

// UpstreamError reports a non-2xx response from the router.
type UpstreamError struct {
	// RouterType is the vendor that responded.
	RouterType RouterType

	// StatusCode is the router's HTTP status.
	StatusCode int

	// Message is the vendor-supplied error detail, or the status text.
	Message string
}

// Error implements the error interface.
func (e *UpstreamError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("router returned status %d", e.StatusCode)
	}
	return e.Message
}

// Code returns the envelope error code.
func (e *UpstreamError) Code() string { return CodeUpstreamError }

// IsAuthError reports whether the router rejected the credentials.
func (e *UpstreamError) IsAuthError() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}
