package routers

import (
	"net/http"
	"strings"
)

// MikrotikAdapter relays requests to the RouterOS v7 REST API.
//
// RouterOS authenticates every request with HTTP Basic auth and roots its
// API at /rest. Menu paths map one-to-one onto console menus:
//
//	GET    /rest/interface/wireguard          list interfaces
//	PUT    /rest/interface/wireguard/peers    create a peer
//	PATCH  /rest/interface/wireguard/peers/*3 update a peer
//	DELETE /rest/interface/wireguard/peers/*3 remove a peer
//
// Errors come back as {"error":404,"message":"Not Found","detail":"no such item"}.
type MikrotikAdapter struct{}

// NewMikrotikAdapter returns a RouterOS adapter.
func NewMikrotikAdapter() *MikrotikAdapter {
	return &MikrotikAdapter{}
}

// Type implements Adapter.
func (a *MikrotikAdapter) Type() RouterType { return Mikrotik }

// Implemented implements Adapter.
func (a *MikrotikAdapter) Implemented() bool { return true }

// RESTRoot implements Adapter.
func (a *MikrotikAdapter) RESTRoot() string { return "/rest" }

// TestPath implements Adapter.
func (a *MikrotikAdapter) TestPath() string { return "/rest/system/resource" }

// SupportsMethod implements Adapter. RouterOS accepts POST for console
// commands (e.g. /rest/interface/wireguard/print) in addition to CRUD verbs.
func (a *MikrotikAdapter) SupportsMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	default:
		return false
	}
}

// BuildAuthHeader implements Adapter.
func (a *MikrotikAdapter) BuildAuthHeader(d *ConnectionDescriptor) (string, error) {
	if d == nil {
		return "", &InvalidConnectionError{Field: "connection", Message: "is required"}
	}
	return BasicAuth(d.User, d.Password), nil
}

// BuildURL implements Adapter.
func (a *MikrotikAdapter) BuildURL(d *ConnectionDescriptor, path string) (string, error) {
	return joinURL(d, path)
}

// NormalizeResponse implements Adapter.
func (a *MikrotikAdapter) NormalizeResponse(path string, status int, body []byte) (*Result, error) {
	if !isSuccess(status) {
		return nil, &UpstreamError{
			RouterType: Mikrotik,
			StatusCode: status,
			Message:    vendorErrorMessage(status, body, "message", "detail"),
		}
	}

	return &Result{
		StatusCode: status,
		Data:       decodeBody(body, isMikrotikListPath(path)),
	}, nil
}

// isMikrotikListPath reports whether path addresses a menu rather than a
// single item. RouterOS item ids start with "*".
func isMikrotikListPath(path string) bool {
	path = strings.TrimSuffix(path, "/")
	last := path[strings.LastIndex(path, "/")+1:]
	return last != "" && !strings.HasPrefix(last, "*")
}
