package handlers

import (
	"log/slog"
	"net/http"

	"wgportal/gateway/pkg/proxy/types"
	"wgportal/gateway/pkg/wireguard"
)

// KeyPairHandler serves POST /api/wireguard/keypair. Keys are generated
// server-side and never stored or logged.
type KeyPairHandler struct {
	logger *slog.Logger
}

// NewKeyPairHandler creates the key pair handler.
func NewKeyPairHandler(logger *slog.Logger) *KeyPairHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &KeyPairHandler{logger: logger.With("component", "handlers.keypair")}
}

// ServeHTTP implements http.Handler.
func (h *KeyPairHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	kp, err := wireguard.GenerateKeyPair()
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to generate key pair", "error", err)
		writeError(ctx, h.logger, w, err)
		return
	}

	h.logger.DebugContext(ctx, "generated wireguard key pair", "public_key", kp.PublicKey)
	writeJSON(ctx, h.logger, w, http.StatusOK, types.DataResponse{Success: true, Data: kp})
}
