package config

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
)

// current is the process-wide configuration. Readers never block, so the
// watcher can swap it while requests are in flight.
var (
	current     atomic.Pointer[Config]
	currentPath atomic.Pointer[string]
	initOnce    sync.Once
)

// Initialize loads path once and installs it as the process configuration.
// Later calls return nil without reloading.
func Initialize(path string) error {
	var err error
	initOnce.Do(func() {
		err = ReloadConfig(path)
	})
	return err
}

// GetConfig returns the installed configuration, or nil before Initialize
// or SetConfig.
func GetConfig() *Config {
	return current.Load()
}

// SetConfig installs cfg without reading a file. The run command uses it
// after applying flag overrides.
func SetConfig(cfg *Config) {
	current.Store(cfg)
}

// ConfigPath returns the file the configuration was last loaded from.
func ConfigPath() string {
	if p := currentPath.Load(); p != nil {
		return *p
	}
	return ""
}

// ReloadConfig loads path and swaps it in. An empty path reloads the file
// last loaded. On failure the installed configuration is left untouched.
func ReloadConfig(path string) error {
	if path == "" {
		path = ConfigPath()
	}
	if path == "" {
		return errors.New("no configuration file to reload")
	}

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		return fmt.Errorf("failed to reload configuration: %w", err)
	}

	current.Store(cfg)
	currentPath.Store(&path)
	return nil
}

func resetForTesting() {
	current.Store(nil)
	currentPath.Store(nil)
	initOnce = sync.Once{}
}
