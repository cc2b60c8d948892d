// Package cli holds helpers shared by the gateway subcommands: typed
// errors mapped to exit codes, text and JSON result formatting, and a
// signal-aware context for graceful shutdown.
package cli
