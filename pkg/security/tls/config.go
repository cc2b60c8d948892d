package tls

import (
	"crypto/tls"
	"errors"
	"fmt"

	"wgportal/gateway/pkg/config"
)

// ServerConfig returns the tls.Config for the gateway listener. Certificates
// come from certs, which must already be started.
func ServerConfig(cfg config.TLSConfig, certs *CertificateReloader) (*tls.Config, error) {
	if certs == nil {
		return nil, errors.New("certificate reloader is required")
	}

	minVersion, err := parseMinVersion(cfg.MinVersion)
	if err != nil {
		return nil, err
	}

	// #nosec G402 - MinVersion is 1.2 or higher
	return &tls.Config{
		MinVersion:     minVersion,
		GetCertificate: certs.GetCertificateFunc(),
	}, nil
}

func parseMinVersion(v string) (uint16, error) {
	switch v {
	case "", "1.2":
		return tls.VersionTLS12, nil
	case "1.3":
		return tls.VersionTLS13, nil
	default:
		return 0, fmt.Errorf("unsupported TLS version %q", v)
	}
}
