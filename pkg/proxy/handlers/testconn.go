package handlers

import (
	"log/slog"
	"net/http"

	"wgportal/gateway/pkg/proxy"
)

// TestConnectionHandler serves POST /api/router/test-connection.
type TestConnectionHandler struct {
	tester   ConnectionTester
	maxBytes int64
	logger   *slog.Logger
}

// NewTestConnectionHandler creates the connection test handler.
func NewTestConnectionHandler(tester ConnectionTester, maxBytes int64, logger *slog.Logger) *TestConnectionHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TestConnectionHandler{
		tester:   tester,
		maxBytes: maxBytes,
		logger:   logger.With("component", "handlers.test_connection"),
	}
}

// ServeHTTP implements http.Handler.
func (h *TestConnectionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, err := proxy.ParseTestConnectionRequest(w, r, h.maxBytes)
	if err != nil {
		h.logger.WarnContext(ctx, "rejected test-connection request", "error", err)
		writeError(ctx, h.logger, w, err)
		return
	}

	result := h.tester.TestRaw(ctx, req.RawConnection)
	h.logger.InfoContext(ctx, "connection test completed",
		"router_type", req.RouterType,
		"endpoint", req.Endpoint,
		"success", result.Success,
		"latency_ms", result.LatencyMs,
	)
	writeJSON(ctx, h.logger, w, http.StatusOK, result)
}
