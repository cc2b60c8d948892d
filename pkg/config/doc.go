// Package config provides configuration management for the router proxy
// gateway.
//
// Configuration is read from a YAML file, layered over built-in defaults,
// and then overridden from the environment:
//
//	cfg, err := config.LoadConfigWithEnvOverrides("gateway.yaml")
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention GATEWAY_SECTION_FIELD:
//
//   - GATEWAY_PROXY_LISTEN_ADDRESS overrides proxy.listen_address
//   - GATEWAY_GATEWAY_UPSTREAM_TIMEOUT overrides gateway.upstream_timeout
//   - GATEWAY_STORE_PATH overrides store.path
//
// The unprefixed variables CORS_ORIGINS (comma-separated), DEFAULT_TIMEOUT
// (seconds) and LOG_LEVEL are also honoured. Prefixed variables win.
//
// # Configuration Precedence
//
//  1. Default values (defined in defaults.go)
//  2. Values from the YAML file
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// # Singleton and Reload
//
// Initialize stores the loaded configuration for GetConfig. A Watcher
// observes the file and calls ReloadConfig after edits settle; a reload
// that fails validation leaves the previous configuration in place.
package config
