// Package store persists the console settings the gateway keeps on behalf
// of the web UI: the router connection and the WireGuard client defaults.
//
// Both live in SQLite, one row per table; saving replaces the row inside a
// transaction. Router passwords are sealed with AES-256-GCM under a key
// derived by HKDF-SHA256 from a master secret, and stored as
//
//	$gwseal$v1$base64(nonce || ciphertext)
//
// Values without the version prefix predate encryption and are returned
// unchanged.
//
// Two drivers are supported: "sqlite" (modernc.org/sqlite, pure Go, the
// default) and "sqlite3" (github.com/mattn/go-sqlite3, cgo).
package store
