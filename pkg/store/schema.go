package store

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// Schema creates every table. It is idempotent. Timestamps are Unix
// milliseconds.
const Schema = `
CREATE TABLE IF NOT EXISTS router_config (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    router_type TEXT NOT NULL,
    endpoint TEXT NOT NULL,
    port TEXT NOT NULL DEFAULT '',
    username TEXT NOT NULL,
    password_enc TEXT NOT NULL,
    use_https INTEGER NOT NULL DEFAULT 0,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS wireguard_config (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    endpoint_default TEXT NOT NULL DEFAULT '',
    port_default TEXT NOT NULL DEFAULT '',
    allowed_ranges TEXT NOT NULL DEFAULT '',
    client_dns TEXT NOT NULL DEFAULT '',
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TIMESTAMP NOT NULL
);
`

const insertSchemaVersion = `
INSERT INTO schema_version (version, applied_at)
VALUES (?, datetime('now'))
ON CONFLICT(version) DO NOTHING;
`

const getSchemaVersion = `SELECT version FROM schema_version ORDER BY version DESC LIMIT 1;`
