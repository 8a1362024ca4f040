package storage

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// Schema creates the audit tables. Times are stored as Unix nanoseconds so
// range filters compare integers with either driver.
const Schema = `
CREATE TABLE IF NOT EXISTS audit_records (
    id TEXT PRIMARY KEY,
    request_id TEXT,

    kind TEXT NOT NULL,
    form TEXT,
    source TEXT,

    outcome TEXT NOT NULL,
    error_count INTEGER NOT NULL,
    error_keys TEXT,
    failed_rules TEXT,
    error TEXT,

    payload_hash TEXT,
    schema_version TEXT,

    validated_at INTEGER NOT NULL,
    duration_us INTEGER NOT NULL,
    recorded_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_audit_validated_at ON audit_records(validated_at);
CREATE INDEX IF NOT EXISTS idx_audit_form ON audit_records(form);
CREATE INDEX IF NOT EXISTS idx_audit_outcome ON audit_records(outcome);
CREATE INDEX IF NOT EXISTS idx_audit_request_id ON audit_records(request_id);
`

// InsertSchemaVersion records the schema version once.
const InsertSchemaVersion = `
INSERT INTO schema_version (version, applied_at)
VALUES (?, ?)
ON CONFLICT(version) DO NOTHING;
`

// GetSchemaVersion returns the newest applied schema version.
const GetSchemaVersion = `
SELECT version FROM schema_version ORDER BY version DESC LIMIT 1;
`

const insertRecord = `
INSERT INTO audit_records (
    id, request_id,
    kind, form, source,
    outcome, error_count, error_keys, failed_rules, error,
    payload_hash, schema_version,
    validated_at, duration_us, recorded_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const selectColumns = `id, request_id, kind, form, source,
    outcome, error_count, error_keys, failed_rules, error,
    payload_hash, schema_version,
    validated_at, duration_us, recorded_at`

// sortColumns maps query sort fields to columns.
var sortColumns = map[string]string{
	"validated_at": "validated_at",
	"recorded_at":  "recorded_at",
	"duration":     "duration_us",
	"error_count":  "error_count",
}
