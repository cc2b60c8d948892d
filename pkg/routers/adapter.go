package routers

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// Adapter translates a generic relay request into a vendor's REST dialect.
//
// An adapter is a thin relay, not an API client: it knows how a vendor
// authenticates, where its REST root lives and how it shapes errors, but it
// never interprets individual endpoints.
//
// Implementations must be safe for concurrent use and must never include
// the descriptor's password in returned errors.
//
// Example:
//
//	adapter := routers.NewMikrotikAdapter()
//	url, _ := adapter.BuildURL(desc, "/rest/interface/wireguard")
//	auth, _ := adapter.BuildAuthHeader(desc)
type Adapter interface {
	// Type returns the router type this adapter serves.
	Type() RouterType

	// Implemented reports whether the adapter can relay requests. Stub
	// adapters return false and are rejected before any network call.
	Implemented() bool

	// RESTRoot is the path prefix every relayed path must live under.
	RESTRoot() string

	// TestPath is a lightweight, side-effect-free GET endpoint used to
	// probe connectivity.
	TestPath() string

	// SupportsMethod reports whether the vendor accepts method at all.
	SupportsMethod(method string) bool

	// BuildAuthHeader returns the Authorization header value.
	BuildAuthHeader(d *ConnectionDescriptor) (string, error)

	// BuildURL returns scheme://endpoint[:port] followed by path exactly as supplied.
	BuildURL(d *ConnectionDescriptor, path string) (string, error)

	// NormalizeResponse converts a vendor response into a Result, or into
	// an *UpstreamError for non-2xx statuses.
	NormalizeResponse(path string, status int, body []byte) (*Result, error)
}

// Result is a normalized successful vendor response.
type Result struct {
	// StatusCode is the router's HTTP status.
	StatusCode int

	// Data is the response body as JSON. It is never nil.
	Data json.RawMessage
}

var (
	emptyArray  = json.RawMessage(`[]`)
	emptyObject = json.RawMessage(`{}`)
)

// BasicAuth returns an HTTP Basic Authorization header value for user and password.
func BasicAuth(user, password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(user+":"+password))
}

// joinURL concatenates the descriptor's base URL and path verbatim.
func joinURL(d *ConnectionDescriptor, path string) (string, error) {
	if d == nil {
		return "", fmt.Errorf("connection descriptor is nil")
	}
	if !strings.HasPrefix(path, "/") {
		return "", fmt.Errorf("path must start with /")
	}
	return d.BaseURL() + path, nil
}

// decodeBody turns a 2xx body into JSON data. Empty bodies become an empty
// array for list endpoints and an empty object otherwise; non-JSON bodies
// are wrapped as {"raw_response": text}.
func decodeBody(body []byte, list bool) json.RawMessage {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		if list {
			return emptyArray
		}
		return emptyObject
	}

	if json.Valid([]byte(trimmed)) {
		return json.RawMessage(trimmed)
	}

	wrapped, err := json.Marshal(map[string]string{"raw_response": string(body)})
	if err != nil {
		return emptyObject
	}
	return wrapped
}

// vendorErrorMessage extracts a human-readable error from a vendor error
// payload by trying the given fields in order. It falls back to the HTTP
// status text.
func vendorErrorMessage(status int, body []byte, fields ...string) string {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err == nil {
		var parts []string
		for _, field := range fields {
			if s, ok := payload[field].(string); ok && strings.TrimSpace(s) != "" {
				parts = append(parts, strings.TrimSpace(s))
			}
		}
		if len(parts) > 0 {
			return strings.Join(parts, ": ")
		}
	}

	if text := http.StatusText(status); text != "" {
		return text
	}
	return fmt.Sprintf("HTTP %d", status)
}

func isSuccess(status int) bool {
	return status >= 200 && status <= 299
}
