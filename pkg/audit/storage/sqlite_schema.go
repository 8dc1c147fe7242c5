package storage

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// Schema creates the audit tables. Times are stored as Unix nanoseconds.
const Schema = `
CREATE TABLE IF NOT EXISTS audit_records (
    id TEXT PRIMARY KEY,
    request_id TEXT NOT NULL,
    recorded_at INTEGER NOT NULL,
    model_used TEXT,
    category TEXT,
    status INTEGER NOT NULL,
    attempts INTEGER NOT NULL,
    attempted_models TEXT,
    latency_ms INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_audit_recorded_at ON audit_records(recorded_at);
CREATE INDEX IF NOT EXISTS idx_audit_request_id ON audit_records(request_id);
`

// InsertSchemaVersion inserts the schema version into the schema_version table.
const InsertSchemaVersion = `
INSERT INTO schema_version (version, applied_at)
VALUES (?, datetime('now'))
ON CONFLICT(version) DO NOTHING;
`

// GetSchemaVersion retrieves the current schema version from the database.
const GetSchemaVersion = `
SELECT version FROM schema_version ORDER BY version DESC LIMIT 1;
`

const insertRecord = `
INSERT INTO audit_records (
    id, request_id, recorded_at, model_used, category,
    status, attempts, attempted_models, latency_ms
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);
`

const selectRecords = `
SELECT id, request_id, recorded_at, model_used, category,
       status, attempts, attempted_models, latency_ms
FROM audit_records
`
