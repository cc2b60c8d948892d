package handlers

import (
	"log/slog"
	"net/http"

	"wgportal/gateway/pkg/proxy"
)

// ProxyHandler serves POST /api/router/proxy.
//
// Every request that decodes yields an envelope with HTTP 200, including
// router failures; the envelope's success and code fields carry the
// outcome. Only undecodable bodies get 400.
type ProxyHandler struct {
	dispatcher Dispatcher
	maxBytes   int64
	logger     *slog.Logger
}

// NewProxyHandler creates the proxy handler.
func NewProxyHandler(dispatcher Dispatcher, maxBytes int64, logger *slog.Logger) *ProxyHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProxyHandler{
		dispatcher: dispatcher,
		maxBytes:   maxBytes,
		logger:     logger.With("component", "handlers.proxy"),
	}
}

// ServeHTTP implements http.Handler.
func (h *ProxyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, err := proxy.ParseProxyRequest(w, r, h.maxBytes)
	if err != nil {
		h.logger.WarnContext(ctx, "rejected proxy request", "error", err)
		writeError(ctx, h.logger, w, err)
		return
	}

	resp := h.dispatcher.DispatchRaw(ctx, body)
	writeJSON(ctx, h.logger, w, http.StatusOK, resp)
}
