package proxy

import (
	"errors"
	"net/http"
	"testing"

	"wgportal/gateway/pkg/proxy/types"
)

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"list endpoint", "/rest/interface/wireguard/peers", false},
		{"item id", "/rest/interface/wireguard/peers/*1A", false},
		{"hyphenated menu", "/rest/ip/dhcp-server/lease", false},
		{"bare root", "/rest", false},
		{"root with trailing slash", "/rest/", false},
		{"single trailing slash", "/rest/ip/address/", false},

		{"empty", "", true},
		{"relative", "rest/ip/address", true},
		{"slash only", "/", true},
		{"leading double slash", "//rest/ip", true},
		{"inner double slash", "/rest//ip/address", true},
		{"double trailing slash", "/rest/ip//", true},
		{"parent segment", "/rest/ip/../system/reset", true},
		{"dot segment", "/rest/./ip", true},
		{"outside root", "/system/reset", true},
		{"root prefix only", "/restore/x", true},
		{"backslash", `/rest\ip`, true},
		{"query", "/rest/ip/address?.proplist=address", true},
		{"fragment", "/rest/ip/address#x", true},
		{"percent encoded dots", "/rest/%2e%2e/system", true},
		{"percent encoded slash", "/rest/ip%2faddress", true},
		{"space", "/rest/ip address", true},
		{"tab", "/rest/ip\taddress", true},
		{"newline", "/rest/ip\r\nHost: evil", true},
		{"nul", "/rest/ip\x00", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.path, "/rest")
			if !tt.wantErr {
				if err != nil {
					t.Errorf("ValidatePath(%q) error = %v, want nil", tt.path, err)
				}
				return
			}

			var invalid *InvalidRequestError
			if !errors.As(err, &invalid) {
				t.Fatalf("ValidatePath(%q) error = %v, want *InvalidRequestError", tt.path, err)
			}
			if invalid.Field != "path" {
				t.Errorf("Field = %q, want path", invalid.Field)
			}
			if invalid.Code != types.CodeInvalidRequest {
				t.Errorf("Code = %q, want %q", invalid.Code, types.CodeInvalidRequest)
			}
		})
	}
}

func TestValidatePath_NoRoot(t *testing.T) {
	if err := ValidatePath("/api/core/system/status", ""); err != nil {
		t.Errorf("ValidatePath() error = %v, want nil without a root", err)
	}
	if err := ValidatePath("/api/../x", ""); err == nil {
		t.Error("ValidatePath() error = nil, want traversal rejected without a root")
	}
}

func TestNormalizeMethod(t *testing.T) {
	tests := []struct {
		in       string
		want     string
		wantCode string
	}{
		{"", http.MethodGet, ""},
		{" put ", http.MethodPut, ""},
		{"delete", http.MethodDelete, ""},
		{"HEAD", "", types.CodeUnsupportedMethod},
		{"TRACE", "", types.CodeUnsupportedMethod},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NormalizeMethod(tt.in)
			if tt.wantCode == "" {
				if err != nil || got != tt.want {
					t.Errorf("NormalizeMethod(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
				}
				return
			}

			var invalid *InvalidRequestError
			if !errors.As(err, &invalid) || invalid.Code != tt.wantCode {
				t.Errorf("NormalizeMethod(%q) error = %v, want code %s", tt.in, err, tt.wantCode)
			}
		})
	}
}
