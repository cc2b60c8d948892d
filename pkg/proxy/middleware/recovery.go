package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"

	"wgportal/gateway/pkg/proxy"
)

var errInternal = errors.New("an internal error occurred")

// Recovery turns a handler panic into a 500 INTERNAL_ERROR response. The
// panic value and stack go to the log only, through the redacting handler.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				logger.ErrorContext(r.Context(), "panic in handler",
					"panic", rec,
					"method", r.Method,
					"path", r.URL.Path,
					"stack", string(debug.Stack()),
				)
				_ = proxy.WriteErrorResponse(w, http.StatusInternalServerError, errInternal)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
