package secrets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Manager tries providers in order and returns the first value found.
type Manager struct {
	providers []SecretProvider
	logger    *slog.Logger
}

// NewManager creates a manager over providers.
func NewManager(logger *slog.Logger, providers ...SecretProvider) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		providers: providers,
		logger:    logger.With("component", "secrets"),
	}
}

// NewDefaultManager returns a manager that reads the environment first and
// then, when dir is non-empty, a secrets directory.
func NewDefaultManager(dir string, logger *slog.Logger) (*Manager, error) {
	providers := []SecretProvider{NewEnvProvider("")}
	if dir != "" {
		fp, err := NewFileProvider(dir)
		if err != nil {
			return nil, err
		}
		providers = append(providers, fp)
	}
	return NewManager(logger, providers...), nil
}

// GetSecret returns the first value any provider has for name. Lookup
// errors other than ErrNotFound stop the search.
func (m *Manager) GetSecret(ctx context.Context, name string) (string, error) {
	for _, p := range m.providers {
		value, err := p.GetSecret(ctx, name)
		if err == nil {
			m.logger.Debug("secret resolved", "name", redactSecretName(name), "provider", p.Provider())
			return value, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return "", fmt.Errorf("failed to get secret %q from %s: %w", name, p.Provider(), err)
		}
	}
	return "", fmt.Errorf("%w: %q", ErrNotFound, name)
}

// Providers returns the provider names in lookup order.
func (m *Manager) Providers() []string {
	names := make([]string, 0, len(m.providers))
	for _, p := range m.providers {
		names = append(names, p.Provider())
	}
	return names
}

// redactSecretName shortens a secret name for logs.
func redactSecretName(name string) string {
	if len(name) <= 4 {
		return "***"
	}
	return name[:2] + "..." + name[len(name)-2:]
}
