package proxy

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"wgportal/gateway/pkg/proxy/types"
)

const (
	// MaxRequestBodySize is the default limit on inbound JSON bodies (1MB).
	MaxRequestBodySize = 1 << 20

	// RequestIDHeader is the HTTP header for request ID propagation.
	RequestIDHeader = "X-Request-ID"
)

// DecodeJSON decodes a single JSON object from r.Body into v, reading at
// most maxBytes (MaxRequestBodySize when <= 0).
//
// Errors are *InvalidRequestError with code INVALID_REQUEST. Decoder
// messages are not echoed back since they can quote fragments of the body.
func DecodeJSON(w http.ResponseWriter, r *http.Request, maxBytes int64, v any) error {
	if maxBytes <= 0 {
		maxBytes = MaxRequestBodySize
	}
	if r.Body == nil {
		return &InvalidRequestError{Field: "body", Message: "is required", Code: types.CodeInvalidRequest}
	}

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBytes))
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return &InvalidRequestError{
				Field:   "body",
				Message: fmt.Sprintf("exceeds maximum size of %d bytes", maxBytes),
				Code:    types.CodeInvalidRequest,
			}
		case errors.Is(err, io.EOF):
			return &InvalidRequestError{Field: "body", Message: "is required", Code: types.CodeInvalidRequest}
		default:
			return &InvalidRequestError{Field: "body", Message: "is not valid JSON", Code: types.CodeInvalidRequest}
		}
	}

	// Trailing data after the first object is rejected.
	if dec.More() {
		return &InvalidRequestError{Field: "body", Message: "must contain a single JSON object", Code: types.CodeInvalidRequest}
	}

	return nil
}

// ParseProxyRequest decodes the body of POST /api/router/proxy.
// Connection and path validation happen later in the dispatcher so that
// their failures are reported inside the envelope.
func ParseProxyRequest(w http.ResponseWriter, r *http.Request, maxBytes int64) (*types.ProxyRequestBody, error) {
	var body types.ProxyRequestBody
	if err := DecodeJSON(w, r, maxBytes, &body); err != nil {
		return nil, err
	}
	return &body, nil
}

// ParseTestConnectionRequest decodes the body of
// POST /api/router/test-connection.
func ParseTestConnectionRequest(w http.ResponseWriter, r *http.Request, maxBytes int64) (*types.TestConnectionRequest, error) {
	var body types.TestConnectionRequest
	if err := DecodeJSON(w, r, maxBytes, &body); err != nil {
		return nil, err
	}
	return &body, nil
}

// ExtractRequestID returns the client-supplied X-Request-ID header, or "".
func ExtractRequestID(r *http.Request) string {
	return r.Header.Get(RequestIDHeader)
}
