package types

import (
	"encoding/json"

	"wgportal/gateway/pkg/routers"
)

// ProxyRequestBody is the body of POST /api/router/proxy.
type ProxyRequestBody struct {
	routers.RawConnection

	// Path is the vendor-relative REST path, e.g. "/rest/interface/wireguard".
	Path string `json:"path"`

	// Method is one of GET, POST, PUT, PATCH, DELETE. Empty means GET.
	Method string `json:"method"`

	// Body is forwarded to the router byte-for-byte for non-GET methods.
	Body json.RawMessage `json:"body,omitempty"`
}

// TestConnectionRequest is the body of POST /api/router/test-connection.
type TestConnectionRequest struct {
	routers.RawConnection
}
