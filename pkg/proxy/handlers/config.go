package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"wgportal/gateway/pkg/proxy"
	"wgportal/gateway/pkg/proxy/types"
	"wgportal/gateway/pkg/routers"
	"wgportal/gateway/pkg/store"
	"wgportal/gateway/pkg/wireguard"
)

// ConfigHandler serves the settings page endpoints under /api/config.
type ConfigHandler struct {
	store    ConfigStore
	maxBytes int64
	logger   *slog.Logger
}

// NewConfigHandler creates the config handler.
func NewConfigHandler(st ConfigStore, maxBytes int64, logger *slog.Logger) *ConfigHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConfigHandler{
		store:    st,
		maxBytes: maxBytes,
		logger:   logger.With("component", "handlers.config"),
	}
}

// GetRouter serves GET /api/config/router. data is null when nothing has
// been saved. The password is returned decrypted because the settings form
// round-trips it.
func (h *ConfigHandler) GetRouter(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	rc, err := h.store.GetRouterConfig(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load router config", "error", err)
		writeError(ctx, h.logger, w, err)
		return
	}

	var data any
	if rc != nil {
		data = rc
	}
	writeJSON(ctx, h.logger, w, http.StatusOK, types.DataResponse{Success: true, Data: data})
}

// SaveRouter serves POST /api/config/router. The connection is validated
// exactly as a proxy request would be, then replaces the stored one.
func (h *ConfigHandler) SaveRouter(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var raw routers.RawConnection
	if err := proxy.DecodeJSON(w, r, h.maxBytes, &raw); err != nil {
		writeError(ctx, h.logger, w, err)
		return
	}

	desc, err := routers.Resolve(raw)
	if err != nil {
		h.logger.WarnContext(ctx, "rejected router config", "error", proxy.SanitizeError(err, raw.Password))
		writeError(ctx, h.logger, w, err, raw.Password)
		return
	}

	rc := &store.RouterConfig{
		RouterType: desc.Type.String(),
		Endpoint:   desc.Endpoint,
		Port:       portText(desc.Port),
		User:       desc.User,
		Password:   desc.Password,
		UseHTTPS:   desc.UseHTTPS,
	}
	if err := h.store.SaveRouterConfig(ctx, rc); err != nil {
		h.logger.ErrorContext(ctx, "failed to save router config", "error", proxy.SanitizeError(err, raw.Password))
		writeError(ctx, h.logger, w, err, raw.Password)
		return
	}

	writeJSON(ctx, h.logger, w, http.StatusOK, types.SuccessResponse{Success: true})
}

// GetWireguard serves GET /api/config/wireguard.
func (h *ConfigHandler) GetWireguard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	wc, err := h.store.GetWireguardConfig(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load wireguard config", "error", err)
		writeError(ctx, h.logger, w, err)
		return
	}

	var data any
	if wc != nil {
		data = wc
	}
	writeJSON(ctx, h.logger, w, http.StatusOK, types.DataResponse{Success: true, Data: data})
}

// SaveWireguard serves POST /api/config/wireguard. Blank fields are
// allowed; non-blank ranges, port and DNS servers must parse.
func (h *ConfigHandler) SaveWireguard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var wc store.WireguardConfig
	if err := proxy.DecodeJSON(w, r, h.maxBytes, &wc); err != nil {
		writeError(ctx, h.logger, w, err)
		return
	}

	wc.DefaultEndpoint = strings.TrimSpace(wc.DefaultEndpoint)
	wc.DefaultPort = strings.TrimSpace(wc.DefaultPort)

	if err := validateWireguard(&wc); err != nil {
		h.logger.WarnContext(ctx, "rejected wireguard config", "error", err)
		writeError(ctx, h.logger, w, err)
		return
	}

	if err := h.store.SaveWireguardConfig(ctx, &wc); err != nil {
		h.logger.ErrorContext(ctx, "failed to save wireguard config", "error", err)
		writeError(ctx, h.logger, w, err)
		return
	}

	writeJSON(ctx, h.logger, w, http.StatusOK, types.SuccessResponse{Success: true})
}

func validateWireguard(wc *store.WireguardConfig) error {
	if strings.ContainsAny(wc.DefaultEndpoint, " \t\r\n/") {
		return &proxy.InvalidRequestError{Field: "endpointPadrao", Message: "must be a host name or address"}
	}
	if err := wireguard.ValidatePort(wc.DefaultPort); err != nil {
		return &proxy.InvalidRequestError{Field: "portaPadrao", Message: err.Error()}
	}
	if _, err := wireguard.ValidateAllowedRanges(wc.AllowedRanges); err != nil {
		return &proxy.InvalidRequestError{Field: "rangeIpsPermitidos", Message: err.Error()}
	}
	if _, err := wireguard.ValidateDNS(wc.ClientDNS); err != nil {
		return &proxy.InvalidRequestError{Field: "dnsCliente", Message: err.Error()}
	}
	return nil
}

func portText(port int) string {
	if port == 0 {
		return ""
	}
	return strconv.Itoa(port)
}
