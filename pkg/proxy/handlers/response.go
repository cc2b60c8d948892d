package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"wgportal/gateway/pkg/proxy"
)

func writeJSON(ctx context.Context, logger *slog.Logger, w http.ResponseWriter, status int, v any) {
	if err := proxy.WriteJSONResponse(w, status, v); err != nil {
		logger.ErrorContext(ctx, "failed to write response", "error", err)
	}
}

// writeError answers with the status StatusForError picks for err.
// secrets are scrubbed from the message.
func writeError(ctx context.Context, logger *slog.Logger, w http.ResponseWriter, err error, secrets ...string) {
	if werr := proxy.WriteErrorResponse(w, proxy.StatusForError(err), err, secrets...); werr != nil {
		logger.ErrorContext(ctx, "failed to write error response", "error", werr)
	}
}
