package logging

import (
	"log/slog"
	"strings"
	"testing"

	"wgportal/gateway/pkg/config"
)

func TestNewRedactor_CustomPatterns(t *testing.T) {
	r := NewRedactor([]config.RedactPattern{
		{Name: "serial", Pattern: `SN-[0-9]{6}`, Replacement: "SN-***"},
		{Name: "invalid", Pattern: `[unclosed`, Replacement: "***"},
	})

	got := r.RedactString("router SN-123456 online")
	if got != "router SN-*** online" {
		t.Errorf("RedactString() = %q, want %q", got, "router SN-*** online")
	}
}

func TestRedactor_RedactString(t *testing.T) {
	r := NewRedactor(nil)

	tests := []struct {
		name     string
		input    string
		contains string
		leaks    string
	}{
		{"basic auth", "Authorization: Basic YWRtaW46c2VjcmV0", "Basic ***", "YWRtaW46c2VjcmV0"},
		{"bearer", "got Bearer abc.def.ghi", "Bearer ***", "abc.def"},
		{"password kv", "password=hunter2 user=admin", "password=***", "hunter2"},
		{"password json", `{"user":"admin","password":"hunter2"}`, `"password":***`, "hunter2"},
		{"private key json", `{"private-key":"eK9Qd+Xx="}`, "***", "eK9Qd"},
		{"url userinfo", "http://admin:pw@10.0.0.1/rest", "http://***@10.0.0.1/rest", "admin:pw"},
		{"plain text untouched", "router reachable", "router reachable", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.RedactString(tt.input)
			if !strings.Contains(got, tt.contains) {
				t.Errorf("RedactString() = %q, want to contain %q", got, tt.contains)
			}
			if tt.leaks != "" && strings.Contains(got, tt.leaks) {
				t.Errorf("RedactString() = %q, leaks %q", got, tt.leaks)
			}
		})
	}
}

func TestRedactor_RedactArgs(t *testing.T) {
	r := NewRedactor(nil)

	args := r.RedactArgs(
		"user", "admin",
		"password", "hunter2",
		"Encryption_Key", "k3y",
		"note", "Basic YWRtaW46c2VjcmV0",
		slog.String("secret", "s"),
	)

	if args[1] != "admin" {
		t.Errorf("user = %v, want admin", args[1])
	}
	if args[3] != "***" {
		t.Errorf("password = %v, want ***", args[3])
	}
	if args[5] != "***" {
		t.Errorf("Encryption_Key = %v, want ***", args[5])
	}
	if args[7] != "Basic ***" {
		t.Errorf("note = %v, want Basic ***", args[7])
	}
	if a, ok := args[8].(slog.Attr); !ok || a.Value.String() != "***" {
		t.Errorf("secret attr = %v, want ***", args[8])
	}
}

func TestRedactor_RedactAttrGroup(t *testing.T) {
	r := NewRedactor(nil)

	attr := slog.Group("conn", slog.String("endpoint", "10.0.0.1"), slog.String("password", "pw"))
	got := r.RedactAttr(attr)

	for _, a := range got.Value.Group() {
		if a.Key == "password" && a.Value.String() != "***" {
			t.Errorf("grouped password = %v, want ***", a.Value)
		}
		if a.Key == "endpoint" && a.Value.String() != "10.0.0.1" {
			t.Errorf("grouped endpoint = %v, want 10.0.0.1", a.Value)
		}
	}
}

func TestIsSensitiveKey(t *testing.T) {
	sensitive := []string{"password", "Password", "router_password", "secret", "api_token", "Authorization", "private-key", "encryption_key"}
	for _, k := range sensitive {
		if !IsSensitiveKey(k) {
			t.Errorf("IsSensitiveKey(%q) = false, want true", k)
		}
	}

	plain := []string{"endpoint", "user", "router_type", "method", "status"}
	for _, k := range plain {
		if IsSensitiveKey(k) {
			t.Errorf("IsSensitiveKey(%q) = true, want false", k)
		}
	}
}
