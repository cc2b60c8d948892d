package store

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"wgportal/gateway/pkg/events"
)

type fakePublisher struct {
	saved []events.RouterConfigSaved
}

func (p *fakePublisher) PublishRouterConfigSaved(e events.RouterConfigSaved) error {
	p.saved = append(p.saved, e)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func createTempStore(t *testing.T, driver string, pub Publisher) (*Store, string) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "data", "gateway.db")
	s, err := Open(Config{Driver: driver, Path: dbPath, BusyTimeout: time.Second}, newTestSealer(t, "test-master-key"), pub, discardLogger())
	if err != nil {
		if driver == DriverMattn && strings.Contains(err.Error(), "cgo") {
			t.Skipf("sqlite3 driver unavailable: %v", err)
		}
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s, dbPath
}

func TestStore_RouterConfigRoundTrip(t *testing.T) {
	for _, driver := range []string{DriverModernc, DriverMattn} {
		t.Run(driver, func(t *testing.T) {
			pub := &fakePublisher{}
			s, _ := createTempStore(t, driver, pub)
			ctx := context.Background()

			got, err := s.GetRouterConfig(ctx)
			if err != nil {
				t.Fatalf("GetRouterConfig() error = %v", err)
			}
			if got != nil {
				t.Fatalf("GetRouterConfig() = %+v, want nil on empty store", got)
			}

			in := &RouterConfig{
				RouterType: "mikrotik",
				Endpoint:   "10.0.0.1",
				Port:       "8443",
				User:       "admin",
				Password:   "s3cr3t",
				UseHTTPS:   true,
			}
			if err := s.SaveRouterConfig(ctx, in); err != nil {
				t.Fatalf("SaveRouterConfig() error = %v", err)
			}
			if in.UpdatedAt.IsZero() {
				t.Error("UpdatedAt not set by save")
			}

			got, err = s.GetRouterConfig(ctx)
			if err != nil {
				t.Fatalf("GetRouterConfig() error = %v", err)
			}
			if got == nil {
				t.Fatal("GetRouterConfig() = nil after save")
			}
			if got.RouterType != in.RouterType || got.Endpoint != in.Endpoint || got.Port != in.Port ||
				got.User != in.User || got.Password != in.Password || got.UseHTTPS != in.UseHTTPS {
				t.Errorf("GetRouterConfig() = %+v, want %+v", got, in)
			}
			if !got.UpdatedAt.Equal(in.UpdatedAt) {
				t.Errorf("UpdatedAt = %v, want %v", got.UpdatedAt, in.UpdatedAt)
			}

			if len(pub.saved) != 1 || pub.saved[0].RouterType != "mikrotik" {
				t.Errorf("published events = %+v, want one mikrotik event", pub.saved)
			}
		})
	}
}

func TestStore_PasswordNotStoredInPlaintext(t *testing.T) {
	s, _ := createTempStore(t, DriverModernc, nil)
	ctx := context.Background()

	if err := s.SaveRouterConfig(ctx, &RouterConfig{RouterType: "mikrotik", Endpoint: "r1", User: "admin", Password: "plain-password"}); err != nil {
		t.Fatalf("SaveRouterConfig() error = %v", err)
	}

	var raw string
	if err := s.db.QueryRowContext(ctx, "SELECT password_enc FROM router_config").Scan(&raw); err != nil {
		t.Fatalf("query error = %v", err)
	}
	if strings.Contains(raw, "plain-password") {
		t.Errorf("stored password contains plaintext: %q", raw)
	}
	if !IsSealed(raw) {
		t.Errorf("stored password = %q, want sealed prefix", raw)
	}
}

func TestStore_LegacyPlaintextPassword(t *testing.T) {
	s, _ := createTempStore(t, DriverModernc, nil)
	ctx := context.Background()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO router_config (router_type, endpoint, port, username, password_enc, use_https, created_at, updated_at)
		VALUES ('mikrotik', 'r1', '', 'admin', 'old-plain', 0, 1, 1)`)
	if err != nil {
		t.Fatalf("insert error = %v", err)
	}

	got, err := s.GetRouterConfig(ctx)
	if err != nil {
		t.Fatalf("GetRouterConfig() error = %v", err)
	}
	if got.Password != "old-plain" {
		t.Errorf("Password = %q, want old-plain", got.Password)
	}
}

func TestStore_SaveReplacesRow(t *testing.T) {
	s, _ := createTempStore(t, DriverModernc, nil)
	ctx := context.Background()

	for _, endpoint := range []string{"r1", "r2", "r3"} {
		if err := s.SaveRouterConfig(ctx, &RouterConfig{RouterType: "mikrotik", Endpoint: endpoint, User: "admin", Password: "pw"}); err != nil {
			t.Fatalf("SaveRouterConfig(%s) error = %v", endpoint, err)
		}
	}

	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM router_config").Scan(&count); err != nil {
		t.Fatalf("count error = %v", err)
	}
	if count != 1 {
		t.Errorf("row count = %d, want 1", count)
	}

	got, err := s.GetRouterConfig(ctx)
	if err != nil {
		t.Fatalf("GetRouterConfig() error = %v", err)
	}
	if got.Endpoint != "r3" {
		t.Errorf("Endpoint = %q, want r3", got.Endpoint)
	}
}

func TestStore_WireguardConfigRoundTrip(t *testing.T) {
	s, _ := createTempStore(t, DriverModernc, nil)
	ctx := context.Background()

	got, err := s.GetWireguardConfig(ctx)
	if err != nil || got != nil {
		t.Fatalf("GetWireguardConfig() = %+v, %v, want nil, nil", got, err)
	}

	in := &WireguardConfig{
		DefaultEndpoint: "vpn.example.com",
		DefaultPort:     "51820",
		AllowedRanges:   "10.8.0.0/24",
		ClientDNS:       "1.1.1.1",
	}
	if err := s.SaveWireguardConfig(ctx, in); err != nil {
		t.Fatalf("SaveWireguardConfig() error = %v", err)
	}

	got, err = s.GetWireguardConfig(ctx)
	if err != nil {
		t.Fatalf("GetWireguardConfig() error = %v", err)
	}
	if got.DefaultEndpoint != in.DefaultEndpoint || got.DefaultPort != in.DefaultPort ||
		got.AllowedRanges != in.AllowedRanges || got.ClientDNS != in.ClientDNS {
		t.Errorf("GetWireguardConfig() = %+v, want %+v", got, in)
	}
}

func TestStore_WrongMasterKey(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "gateway.db")
	ctx := context.Background()

	s1, err := Open(Config{Path: dbPath}, newTestSealer(t, "key-one"), nil, discardLogger())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := s1.SaveRouterConfig(ctx, &RouterConfig{RouterType: "mikrotik", Endpoint: "r1", User: "admin", Password: "pw"}); err != nil {
		t.Fatalf("SaveRouterConfig() error = %v", err)
	}
	s1.Close()

	s2, err := Open(Config{Path: dbPath}, newTestSealer(t, "key-two"), nil, discardLogger())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer s2.Close()

	_, err = s2.GetRouterConfig(ctx)
	var storageErr *StorageError
	if !errors.As(err, &storageErr) {
		t.Fatalf("GetRouterConfig() error = %v, want *StorageError", err)
	}
	if storageErr.Code() != CodeStoreError {
		t.Errorf("Code() = %q, want %q", storageErr.Code(), CodeStoreError)
	}
	if !errors.Is(err, ErrInvalidCiphertext) {
		t.Errorf("error = %v, want ErrInvalidCiphertext", err)
	}
}

func TestOpen_InvalidConfig(t *testing.T) {
	sealer := newTestSealer(t, "k")
	if _, err := Open(Config{Driver: "postgres", Path: "x.db"}, sealer, nil, nil); err == nil {
		t.Error("Open(postgres) error = nil, want error")
	}
	if _, err := Open(Config{}, sealer, nil, nil); err == nil {
		t.Error("Open(empty path) error = nil, want error")
	}
	if _, err := Open(Config{Path: "x.db"}, nil, nil, nil); err == nil {
		t.Error("Open(nil sealer) error = nil, want error")
	}
}

func TestStore_Ping(t *testing.T) {
	s, _ := createTempStore(t, DriverModernc, nil)
	if err := s.Ping(context.Background()); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
	if s.Driver() != DriverModernc {
		t.Errorf("Driver() = %q, want %q", s.Driver(), DriverModernc)
	}
}
