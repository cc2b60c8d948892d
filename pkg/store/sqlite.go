package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // registers "sqlite3" (cgo)
	_ "modernc.org/sqlite"          // registers "sqlite" (pure Go)

	"wgportal/gateway/pkg/events"
)

// Supported drivers.
const (
	DriverModernc = "sqlite"
	DriverMattn   = "sqlite3"
)

// Config configures a Store.
type Config struct {
	// Driver is DriverModernc or DriverMattn.
	Driver string

	// Path is the database file path, or ":memory:".
	Path string

	// BusyTimeout is how long a locked database is retried.
	BusyTimeout time.Duration
}

// Publisher receives store events. *events.Bus implements it.
type Publisher interface {
	PublishRouterConfigSaved(events.RouterConfigSaved) error
}

// Store is the SQLite-backed settings store.
type Store struct {
	db        *sql.DB
	sealer    *Sealer
	publisher Publisher
	logger    *slog.Logger
	config    Config
}

// Open opens (creating if needed) the database at cfg.Path and migrates
// the schema. publisher may be nil.
func Open(cfg Config, sealer *Sealer, publisher Publisher, logger *slog.Logger) (*Store, error) {
	if sealer == nil {
		return nil, errors.New("sealer is required")
	}
	if cfg.Driver == "" {
		cfg.Driver = DriverModernc
	}
	if cfg.Driver != DriverModernc && cfg.Driver != DriverMattn {
		return nil, fmt.Errorf("unsupported driver %q", cfg.Driver)
	}
	if cfg.Path == "" {
		return nil, errors.New("db path cannot be empty")
	}
	if cfg.BusyTimeout == 0 {
		cfg.BusyTimeout = 5 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	if cfg.Path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o700); err != nil {
			return nil, newStorageError("mkdir", err)
		}
	}

	db, err := sql.Open(cfg.Driver, cfg.Path)
	if err != nil {
		return nil, newStorageError("open", err)
	}

	// SQLite has a single writer, and PRAGMAs are per connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	s := &Store{
		db:        db,
		sealer:    sealer,
		publisher: publisher,
		logger:    logger.With("component", "store"),
		config:    cfg,
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	s.logger.Info("settings store opened",
		"driver", cfg.Driver,
		"path", cfg.Path,
	)
	return s, nil
}

func (s *Store) initialize() error {
	if s.config.Path != ":memory:" {
		if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			return newStorageError("enable_wal", err)
		}
	}
	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", s.config.BusyTimeout.Milliseconds())); err != nil {
		return newStorageError("set_busy_timeout", err)
	}

	if _, err := s.db.Exec(Schema); err != nil {
		return newStorageError("create_schema", err)
	}
	if _, err := s.db.Exec(insertSchemaVersion, SchemaVersion); err != nil {
		return newStorageError("insert_schema_version", err)
	}

	var version int
	if err := s.db.QueryRow(getSchemaVersion).Scan(&version); err != nil {
		return newStorageError("get_schema_version", err)
	}
	if version != SchemaVersion {
		return newStorageError("schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}
	return nil
}

// GetRouterConfig returns the saved router connection with its password
// opened, or nil when none was saved.
func (s *Store) GetRouterConfig(ctx context.Context) (*RouterConfig, error) {
	const query = `
		SELECT router_type, endpoint, port, username, password_enc, use_https, updated_at
		FROM router_config
		ORDER BY updated_at DESC, id DESC
		LIMIT 1`

	var (
		rc        RouterConfig
		sealed    string
		updatedAt int64
	)
	err := s.db.QueryRowContext(ctx, query).Scan(
		&rc.RouterType, &rc.Endpoint, &rc.Port, &rc.User, &sealed, &rc.UseHTTPS, &updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, newStorageError("get_router_config", err)
	}

	rc.Password, err = s.sealer.Open(sealed)
	if err != nil {
		return nil, newStorageError("open_password", err)
	}
	rc.UpdatedAt = time.UnixMilli(updatedAt).UTC()

	return &rc, nil
}

// SaveRouterConfig replaces the saved router connection. rc.UpdatedAt is
// set to the save time.
func (s *Store) SaveRouterConfig(ctx context.Context, rc *RouterConfig) error {
	sealed, err := s.sealer.Seal(rc.Password)
	if err != nil {
		return newStorageError("seal_password", err)
	}

	now := time.Now().UTC()
	err = s.replace(ctx, "save_router_config", "router_config", `
		INSERT INTO router_config
			(router_type, endpoint, port, username, password_enc, use_https, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rc.RouterType, rc.Endpoint, rc.Port, rc.User, sealed, rc.UseHTTPS, now.UnixMilli(), now.UnixMilli(),
	)
	if err != nil {
		return err
	}
	rc.UpdatedAt = time.UnixMilli(now.UnixMilli()).UTC()

	s.logger.InfoContext(ctx, "router config saved",
		"router_type", rc.RouterType,
		"endpoint", rc.Endpoint,
	)

	if s.publisher != nil {
		if err := s.publisher.PublishRouterConfigSaved(events.RouterConfigSaved{
			RouterType: rc.RouterType,
			Endpoint:   rc.Endpoint,
			UpdatedAt:  rc.UpdatedAt,
		}); err != nil {
			s.logger.WarnContext(ctx, "router config event not delivered", "error", err)
		}
	}
	return nil
}

// GetWireguardConfig returns the saved WireGuard defaults, or nil.
func (s *Store) GetWireguardConfig(ctx context.Context) (*WireguardConfig, error) {
	const query = `
		SELECT endpoint_default, port_default, allowed_ranges, client_dns, updated_at
		FROM wireguard_config
		ORDER BY updated_at DESC, id DESC
		LIMIT 1`

	var (
		wc        WireguardConfig
		updatedAt int64
	)
	err := s.db.QueryRowContext(ctx, query).Scan(
		&wc.DefaultEndpoint, &wc.DefaultPort, &wc.AllowedRanges, &wc.ClientDNS, &updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, newStorageError("get_wireguard_config", err)
	}
	wc.UpdatedAt = time.UnixMilli(updatedAt).UTC()

	return &wc, nil
}

// SaveWireguardConfig replaces the saved WireGuard defaults.
func (s *Store) SaveWireguardConfig(ctx context.Context, wc *WireguardConfig) error {
	now := time.Now().UTC()
	err := s.replace(ctx, "save_wireguard_config", "wireguard_config", `
		INSERT INTO wireguard_config
			(endpoint_default, port_default, allowed_ranges, client_dns, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		wc.DefaultEndpoint, wc.DefaultPort, wc.AllowedRanges, wc.ClientDNS, now.UnixMilli(), now.UnixMilli(),
	)
	if err != nil {
		return err
	}
	wc.UpdatedAt = time.UnixMilli(now.UnixMilli()).UTC()

	s.logger.InfoContext(ctx, "wireguard config saved")
	return nil
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return newStorageError("ping", err)
	}
	return nil
}

// Driver returns the driver name in use.
func (s *Store) Driver() string {
	return s.config.Driver
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// replace deletes every row of table and runs insert in one transaction.
func (s *Store) replace(ctx context.Context, op, table, insert string, args ...any) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return newStorageError(op, err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after Commit

	// table is one of the package constants, never caller input.
	if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
		return newStorageError(op, err)
	}
	if _, err := tx.ExecContext(ctx, insert, args...); err != nil {
		return newStorageError(op, err)
	}
	if err := tx.Commit(); err != nil {
		return newStorageError(op, err)
	}
	return nil
}
