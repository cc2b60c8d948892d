package store

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"wgportal/gateway/pkg/security/secrets"
)

// ResolveMasterKey returns the secret called name from m. When no provider
// has it, a random key is generated once and kept in keyFile with mode 0600
// so that sealed passwords still open after a restart.
func ResolveMasterKey(ctx context.Context, m *secrets.Manager, name, keyFile string, logger *slog.Logger) ([]byte, error) {
	if logger == nil {
		logger = slog.Default()
	}

	value, err := m.GetSecret(ctx, name)
	if err == nil {
		return []byte(value), nil
	}
	if !errors.Is(err, secrets.ErrNotFound) {
		return nil, err
	}
	if keyFile == "" {
		return nil, fmt.Errorf("master key %s is not configured", name)
	}

	// #nosec G304 - keyFile comes from trusted configuration
	data, err := os.ReadFile(keyFile)
	switch {
	case err == nil:
		key := strings.TrimSpace(string(data))
		if key == "" {
			return nil, fmt.Errorf("key file %s is empty", keyFile)
		}
		return []byte(key), nil
	case !errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("failed to read key file: %w", err)
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return nil, fmt.Errorf("failed to generate master key: %w", err)
	}
	key := base64.StdEncoding.EncodeToString(raw)

	if err := os.MkdirAll(filepath.Dir(keyFile), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create key directory: %w", err)
	}
	if err := os.WriteFile(keyFile, []byte(key+"\n"), 0o600); err != nil {
		return nil, fmt.Errorf("failed to write key file: %w", err)
	}

	logger.Warn("master key not configured, generated a local one",
		"secret", name,
		"key_file", keyFile,
	)
	return []byte(key), nil
}

// KeyFileFor returns the generated key file path used next to a database.
func KeyFileFor(dbPath string) string {
	return filepath.Join(filepath.Dir(dbPath), ".gateway.key")
}
