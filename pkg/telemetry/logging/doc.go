// Package logging provides structured logging with secret redaction.
//
// # Overview
//
// The package wraps log/slog with a handler that:
//   - redacts values stored under sensitive keys (password, secret, token,
//     authorization, private_key, ...) and credential-looking substrings
//     such as "Basic dXNlcjpwYXNz" inside any string value
//   - adds request-scoped fields (request_id, router_type, endpoint) from
//     the context passed to the *Context logging methods
//   - supports json, text and console (colourised, via tint) output
//
// The level is held in a slog.LevelVar so it can change at runtime when the
// configuration file is reloaded.
//
// # Usage
//
//	logger, err := logging.New(logging.Config{Level: "info", Format: "json", RedactSecrets: true})
//	if err != nil {
//	    return err
//	}
//	slog.SetDefault(logger.Slog())
//
//	ctx = logging.WithRequestID(ctx, "req-123")
//	slog.InfoContext(ctx, "saving router config", "password", pw) // password=***
package logging
