package routers

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func validRaw() RawConnection {
	return RawConnection{
		RouterType: "mikrotik",
		Endpoint:   "192.168.88.1",
		User:       "admin",
		Password:   "s3cr3t-pass",
	}
}

func TestResolve_Valid(t *testing.T) {
	raw := validRaw()
	raw.Port = PortOf(8443)
	raw.UseHTTPS = true

	d, err := Resolve(raw)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if d.Type != Mikrotik {
		t.Errorf("Type = %v, want %v", d.Type, Mikrotik)
	}
	if d.Scheme() != "https" {
		t.Errorf("Scheme() = %v, want https", d.Scheme())
	}
	if d.BaseURL() != "https://192.168.88.1:8443" {
		t.Errorf("BaseURL() = %v, want https://192.168.88.1:8443", d.BaseURL())
	}
}

func TestResolve_NoPortAddsNoSegment(t *testing.T) {
	d, err := Resolve(validRaw())
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if d.BaseURL() != "http://192.168.88.1" {
		t.Errorf("BaseURL() = %v, want http://192.168.88.1", d.BaseURL())
	}
}

func TestResolve_RouterTypeCaseInsensitive(t *testing.T) {
	raw := validRaw()
	raw.RouterType = "  MikroTik "

	d, err := Resolve(raw)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if d.Type != Mikrotik {
		t.Errorf("Type = %v, want %v", d.Type, Mikrotik)
	}
}

func TestResolve_IPv6(t *testing.T) {
	tests := []struct {
		endpoint string
		want     string
	}{
		{"fd00::1", "http://[fd00::1]:8080"},
		{"[fd00::1]", "http://[fd00::1]:8080"},
	}

	for _, tt := range tests {
		t.Run(tt.endpoint, func(t *testing.T) {
			raw := validRaw()
			raw.Endpoint = tt.endpoint
			raw.Port = PortOf(8080)

			d, err := Resolve(raw)
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if d.BaseURL() != tt.want {
				t.Errorf("BaseURL() = %v, want %v", d.BaseURL(), tt.want)
			}
		})
	}
}

func TestResolve_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*RawConnection)
		wantField string
	}{
		{"empty endpoint", func(r *RawConnection) { r.Endpoint = "" }, "endpoint"},
		{"whitespace endpoint", func(r *RawConnection) { r.Endpoint = "   " }, "endpoint"},
		{"empty user", func(r *RawConnection) { r.User = "" }, "user"},
		{"whitespace user", func(r *RawConnection) { r.User = "\t" }, "user"},
		{"empty password", func(r *RawConnection) { r.Password = "" }, "password"},
		{"whitespace password", func(r *RawConnection) { r.Password = "  " }, "password"},
		{"empty router type", func(r *RawConnection) { r.RouterType = "" }, "routerType"},
		{"port zero", func(r *RawConnection) { r.Port = Port{Value: 0, Set: true} }, "port"},
		{"port too large", func(r *RawConnection) { r.Port = Port{Value: 65536, Set: true} }, "port"},
		{"negative port", func(r *RawConnection) { r.Port = Port{Value: -1, Set: true} }, "port"},
		{"endpoint with scheme", func(r *RawConnection) { r.Endpoint = "http://10.0.0.1" }, "endpoint"},
		{"endpoint with path", func(r *RawConnection) { r.Endpoint = "10.0.0.1/rest" }, "endpoint"},
		{"endpoint with userinfo", func(r *RawConnection) { r.Endpoint = "evil@10.0.0.1" }, "endpoint"},
		{"endpoint with port", func(r *RawConnection) { r.Endpoint = "10.0.0.1:8080" }, "endpoint"},
		{"endpoint with query", func(r *RawConnection) { r.Endpoint = "10.0.0.1?x=1" }, "endpoint"},
		{"endpoint with newline", func(r *RawConnection) { r.Endpoint = "10.0.0.1\r\nHost: evil" }, "endpoint"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := validRaw()
			tt.mutate(&raw)

			d, err := Resolve(raw)
			if err == nil {
				t.Fatalf("Resolve() = %v, want error", d)
			}

			var invalid *InvalidConnectionError
			if !errors.As(err, &invalid) {
				t.Fatalf("error type = %T, want *InvalidConnectionError", err)
			}
			if invalid.Field != tt.wantField {
				t.Errorf("Field = %v, want %v", invalid.Field, tt.wantField)
			}
			if invalid.Code() != CodeInvalidConnection {
				t.Errorf("Code() = %v, want %v", invalid.Code(), CodeInvalidConnection)
			}
			if strings.Contains(err.Error(), "s3cr3t-pass") {
				t.Errorf("error leaks password: %v", err)
			}
		})
	}
}

func TestPort_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		input   string
		wantSet bool
		wantVal int
		wantBad bool
	}{
		{`8728`, true, 8728, false},
		{`"8443"`, true, 8443, false},
		{`""`, false, 0, false},
		{`"  "`, false, 0, false},
		{`null`, false, 0, false},
		{`"abc"`, true, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var p Port
			if err := json.Unmarshal([]byte(tt.input), &p); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if p.Set != tt.wantSet {
				t.Errorf("Set = %v, want %v", p.Set, tt.wantSet)
			}
			if p.Value != tt.wantVal {
				t.Errorf("Value = %v, want %v", p.Value, tt.wantVal)
			}
			if (p.raw != "") != tt.wantBad {
				t.Errorf("raw = %q, want bad=%v", p.raw, tt.wantBad)
			}
		})
	}
}

func TestResolve_NonNumericPort(t *testing.T) {
	var raw RawConnection
	body := `{"routerType":"mikrotik","endpoint":"10.0.0.1","port":"80a","user":"admin","password":"x"}`
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	_, err := Resolve(raw)
	var invalid *InvalidConnectionError
	if !errors.As(err, &invalid) || invalid.Field != "port" {
		t.Errorf("Resolve() error = %v, want port InvalidConnectionError", err)
	}
}

func TestConnectionDescriptor_StringOmitsPassword(t *testing.T) {
	d, err := Resolve(validRaw())
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if strings.Contains(d.String(), "s3cr3t-pass") {
		t.Errorf("String() leaks password: %s", d.String())
	}
	if strings.Contains(d.LogValue().String(), "s3cr3t-pass") {
		t.Errorf("LogValue() leaks password: %s", d.LogValue().String())
	}
}

func TestConnectionDescriptor_Key(t *testing.T) {
	a := &ConnectionDescriptor{Type: Mikrotik, Endpoint: "10.0.0.1", UseHTTPS: true}
	b := &ConnectionDescriptor{Type: Mikrotik, Endpoint: "10.0.0.1", Port: 443, UseHTTPS: true}
	c := &ConnectionDescriptor{Type: Mikrotik, Endpoint: "10.0.0.1", Port: 80}

	if a.Key() != b.Key() {
		t.Errorf("Key() differs for default and explicit port: %v vs %v", a.Key(), b.Key())
	}
	if a.Key() == c.Key() {
		t.Errorf("Key() equal for different schemes: %v", a.Key())
	}
}

func TestResolve_UnknownRouterType(t *testing.T) {
	raw := validRaw()
	raw.RouterType = " Cisco "

	_, err := Resolve(raw)

	var unsupported *UnsupportedVendorError
	if !errors.As(err, &unsupported) {
		t.Fatalf("error type = %T, want *UnsupportedVendorError", err)
	}
	if unsupported.RouterType != "cisco" {
		t.Errorf("RouterType = %q, want cisco", unsupported.RouterType)
	}
	if unsupported.Code() != CodeUnsupportedVendor {
		t.Errorf("Code() = %v, want %v", unsupported.Code(), CodeUnsupportedVendor)
	}
}
