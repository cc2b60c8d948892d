package routers

import (
	"net/netip"
	"strings"
	"unicode"
)

// Resolve validates raw caller input and returns a connection descriptor.
//
// An unknown router type fails with *UnsupportedVendorError. It fails with
// *InvalidConnectionError when the router type, endpoint, user or password
// is empty or whitespace, when the port is
// outside [1,65535], or when the endpoint is not a bare host. Resolve does no
// I/O, and its errors never include the password.
func Resolve(raw RawConnection) (*ConnectionDescriptor, error) {
	routerType, ok := ParseRouterType(raw.RouterType)
	if !ok {
		if strings.TrimSpace(raw.RouterType) == "" {
			return nil, &InvalidConnectionError{Field: "routerType", Message: "is required"}
		}
		return nil, &UnsupportedVendorError{RouterType: RouterType(strings.ToLower(strings.TrimSpace(raw.RouterType)))}
	}

	endpoint, err := resolveEndpoint(raw.Endpoint)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(raw.User) == "" {
		return nil, &InvalidConnectionError{Field: "user", Message: "is required"}
	}
	if strings.TrimSpace(raw.Password) == "" {
		return nil, &InvalidConnectionError{Field: "password", Message: "is required"}
	}

	port := 0
	if raw.Port.Set {
		if raw.Port.raw != "" {
			return nil, &InvalidConnectionError{Field: "port", Message: "must be a number"}
		}
		if raw.Port.Value < 1 || raw.Port.Value > 65535 {
			return nil, &InvalidConnectionError{Field: "port", Message: "must be between 1 and 65535"}
		}
		port = raw.Port.Value
	}

	return &ConnectionDescriptor{
		Type:     routerType,
		Endpoint: endpoint,
		Port:     port,
		User:     raw.User,
		Password: raw.Password,
		UseHTTPS: raw.UseHTTPS,
	}, nil
}

// resolveEndpoint accepts a hostname, IPv4 address or IPv6 literal
// (optionally bracketed) and rejects anything that would change the URL
// structure when concatenated.
func resolveEndpoint(raw string) (string, error) {
	endpoint := strings.TrimSpace(raw)
	if endpoint == "" {
		return "", &InvalidConnectionError{Field: "endpoint", Message: "is required"}
	}

	if strings.Contains(endpoint, "://") {
		return "", &InvalidConnectionError{Field: "endpoint", Message: "must be a host without scheme"}
	}

	for _, r := range endpoint {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return "", &InvalidConnectionError{Field: "endpoint", Message: "must not contain whitespace"}
		}
		switch r {
		case '/', '\\', '@', '?', '#', '%':
			return "", &InvalidConnectionError{Field: "endpoint", Message: "must be a bare host name or address"}
		}
	}

	if strings.HasPrefix(endpoint, "[") || strings.Contains(endpoint, ":") {
		literal := strings.TrimSuffix(strings.TrimPrefix(endpoint, "["), "]")
		addr, err := netip.ParseAddr(literal)
		if err != nil || !addr.Is6() {
			return "", &InvalidConnectionError{Field: "endpoint", Message: "must not include a port, use the port field"}
		}
		return literal, nil
	}

	return endpoint, nil
}
