package secrets

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FileProvider loads secrets from individual files in a directory, the
// layout used by Docker and Kubernetes secret mounts. A secret named
// GATEWAY_ENCRYPTION_KEY is read from <dir>/GATEWAY_ENCRYPTION_KEY or, failing
// that, <dir>/gateway-encryption-key.
//
// Files must be regular files with mode 0600 or 0400. Surrounding
// whitespace is trimmed.
type FileProvider struct {
	BasePath string
}

// NewFileProvider creates a provider over basePath, which must be an
// existing directory.
func NewFileProvider(basePath string) (*FileProvider, error) {
	info, err := os.Stat(basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat secrets directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("secrets path is not a directory: %s", basePath)
	}
	return &FileProvider{BasePath: basePath}, nil
}

// GetSecret reads the file for name.
func (p *FileProvider) GetSecret(_ context.Context, name string) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", fmt.Errorf("invalid secret name %q", name)
	}

	candidates := []string{name}
	if alt := strings.ToLower(strings.ReplaceAll(name, "_", "-")); alt != name {
		candidates = append(candidates, alt)
	}

	for _, candidate := range candidates {
		value, err := p.read(filepath.Join(p.BasePath, candidate))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return "", err
		}
		return value, nil
	}

	return "", fmt.Errorf("%w: no file for %s in %s", ErrNotFound, name, p.BasePath)
}

// Provider returns "file".
func (p *FileProvider) Provider() string {
	return "file"
}

func (p *FileProvider) read(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("secret path is not a regular file: %s", filepath.Base(path))
	}

	mode := info.Mode().Perm()
	if mode != 0600 && mode != 0400 {
		return "", fmt.Errorf("insecure permissions on %s: %o (expected 0600 or 0400)", path, mode)
	}

	// #nosec G304 - name is checked for separators above
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read secret file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}
