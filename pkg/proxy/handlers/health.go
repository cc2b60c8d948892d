package handlers

import (
	"net/http"
	"time"

	"wgportal/gateway/pkg/proxy"
)

// ServiceName is reported by GET /health.
const ServiceName = "Router Proxy Gateway"

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status           string   `json:"status"`
	Timestamp        string   `json:"timestamp"`
	Service          string   `json:"service"`
	SupportedRouters []string `json:"supported_routers"`
}

// VendorLister lists the router types the gateway can talk to.
type VendorLister interface {
	Supported() []string
}

// HealthHandler serves GET /health, the console's status indicator.
type HealthHandler struct {
	vendors VendorLister
}

// NewHealthHandler creates the health handler.
func NewHealthHandler(vendors VendorLister) *HealthHandler {
	return &HealthHandler{vendors: vendors}
}

// ServeHTTP implements http.Handler.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	supported := h.vendors.Supported()
	if supported == nil {
		supported = []string{}
	}

	_ = proxy.WriteJSONResponse(w, http.StatusOK, HealthResponse{
		Status:           "ok",
		Timestamp:        time.Now().UTC().Format(time.RFC3339),
		Service:          ServiceName,
		SupportedRouters: supported,
	})
}
