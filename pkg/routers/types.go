package routers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"strings"
)

// RouterType identifies a router vendor REST dialect.
type RouterType string

const (
	// Mikrotik is RouterOS v7 REST (/rest/...).
	Mikrotik RouterType = "mikrotik"

	// OPNsense is the OPNsense core API.
	OPNsense RouterType = "opnsense"

	// PfSense is the pfSense REST API package.
	PfSense RouterType = "pfsense"

	// UniFi is the UniFi controller API.
	UniFi RouterType = "unifi"
)

// KnownTypes lists every router type accepted by Resolve, implemented or not.
var KnownTypes = []RouterType{Mikrotik, OPNsense, PfSense, UniFi}

// ParseRouterType normalizes s and reports whether it names a known vendor.
func ParseRouterType(s string) (RouterType, bool) {
	t := RouterType(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range KnownTypes {
		if t == known {
			return t, true
		}
	}
	return t, false
}

// String returns the router type as a string.
func (t RouterType) String() string {
	return string(t)
}

// Port is an optional TCP port as sent by callers. The browser console sends
// ports as strings ("8080", "") while other clients send numbers; both forms
// are accepted, and empty or null means absent.
type Port struct {
	Value int
	Set   bool

	// raw keeps unparseable input so Resolve can report it.
	raw string
}

// UnmarshalJSON accepts a JSON number, a numeric string, "" or null.
func (p *Port) UnmarshalJSON(data []byte) error {
	*p = Port{}

	s := strings.TrimSpace(string(data))
	if s == "null" {
		return nil
	}

	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		s = str
	}

	*p = ParsePort(s)
	return nil
}

// ParsePort parses a port kept in text form, such as a stored setting.
// Blank means absent; anything else non-numeric is kept for Resolve to
// reject.
func ParsePort(s string) Port {
	s = strings.TrimSpace(s)
	if s == "" {
		return Port{}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return Port{Set: true, raw: s}
	}
	return Port{Value: n, Set: true}
}

// MarshalJSON writes the port as a number, or null when absent.
func (p Port) MarshalJSON() ([]byte, error) {
	if !p.Set {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(p.Value)), nil
}

// PortOf returns a set Port for n, or an absent one when n is zero.
func PortOf(n int) Port {
	if n == 0 {
		return Port{}
	}
	return Port{Value: n, Set: true}
}

// RawConnection is the unvalidated connection descriptor received from a caller.
type RawConnection struct {
	RouterType string `json:"routerType"`
	Endpoint   string `json:"endpoint"`
	Port       Port   `json:"port"`
	User       string `json:"user"`
	Password   string `json:"password"`
	UseHTTPS   bool   `json:"useHttps"`
}

// ConnectionDescriptor is a validated router connection.
// Construct it with Resolve.
type ConnectionDescriptor struct {
	// Type is the router vendor.
	Type RouterType

	// Endpoint is a bare hostname, IPv4 address or IPv6 literal (without brackets).
	Endpoint string

	// Port is the TCP port. Zero means no port segment in URLs.
	Port int

	// User is the REST API username.
	User string

	// Password is the REST API password. It is never logged or echoed.
	Password string

	// UseHTTPS selects the https scheme.
	UseHTTPS bool
}

// Scheme returns "https" or "http".
func (d *ConnectionDescriptor) Scheme() string {
	if d.UseHTTPS {
		return "https"
	}
	return "http"
}

// Host returns the endpoint with an optional ":port" suffix, bracketing
// IPv6 literals.
func (d *ConnectionDescriptor) Host() string {
	host := d.Endpoint
	if strings.Contains(host, ":") {
		host = "[" + host + "]"
	}
	if d.Port > 0 {
		host += ":" + strconv.Itoa(d.Port)
	}
	return host
}

// BaseURL returns scheme://host[:port].
func (d *ConnectionDescriptor) BaseURL() string {
	return d.Scheme() + "://" + d.Host()
}

// Key identifies the physical router a descriptor points at. Two
// descriptors with the same key target the same device.
func (d *ConnectionDescriptor) Key() string {
	port := d.Port
	if port == 0 {
		port = defaultPort(d.UseHTTPS)
	}
	return d.Scheme() + "://" + net.JoinHostPort(d.Endpoint, strconv.Itoa(port))
}

// String implements fmt.Stringer without the password.
func (d *ConnectionDescriptor) String() string {
	return fmt.Sprintf("%s %s@%s", d.Type, d.User, d.BaseURL())
}

// LogValue implements slog.LogValuer without the password.
func (d *ConnectionDescriptor) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("router_type", string(d.Type)),
		slog.String("endpoint", d.Endpoint),
		slog.Int("port", d.Port),
		slog.String("user", d.User),
		slog.Bool("use_https", d.UseHTTPS),
	)
}

func defaultPort(https bool) int {
	if https {
		return 443
	}
	return 80
}
