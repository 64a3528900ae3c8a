package journal

// SchemaVersion is the current journal schema version.
const SchemaVersion = 1

// Schema creates the journal tables.
const Schema = `
CREATE TABLE IF NOT EXISTS completions (
    id TEXT PRIMARY KEY,
    request_id TEXT,
    time_ns INTEGER NOT NULL,
    provider TEXT NOT NULL,
    model TEXT,
    messages INTEGER,
    request_hash TEXT NOT NULL,
    prompt TEXT,
    response TEXT,
    latency_ms INTEGER,
    status TEXT NOT NULL,
    error TEXT,
    error_kind TEXT
);

CREATE INDEX IF NOT EXISTS idx_completions_time ON completions(time_ns);
CREATE INDEX IF NOT EXISTS idx_completions_provider ON completions(provider);
CREATE INDEX IF NOT EXISTS idx_completions_status ON completions(status);

CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY
);
`

const insertSchemaVersion = `INSERT OR IGNORE INTO schema_version (version) VALUES (?)`

const getSchemaVersion = `SELECT MAX(version) FROM schema_version`
