package secrets

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// EnvProvider loads secrets from environment variables.
//
// Secret names are upper-cased and hyphens become underscores, so both
// "gateway-encryption-key" and "GATEWAY_ENCRYPTION_KEY" read the variable
// GATEWAY_ENCRYPTION_KEY. Prefix is prepended when set.
type EnvProvider struct {
	Prefix string
}

// NewEnvProvider creates an environment variable provider.
func NewEnvProvider(prefix string) *EnvProvider {
	return &EnvProvider{Prefix: prefix}
}

// GetSecret reads the variable derived from name. Empty values count as
// missing.
func (p *EnvProvider) GetSecret(_ context.Context, name string) (string, error) {
	envVar := p.envVar(name)

	value := os.Getenv(envVar)
	if value == "" {
		return "", fmt.Errorf("%w: env var %s is not set", ErrNotFound, envVar)
	}
	return value, nil
}

// Provider returns "env".
func (p *EnvProvider) Provider() string {
	return "env"
}

func (p *EnvProvider) envVar(name string) string {
	return p.Prefix + strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
}
