package journal

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteConfig configures the SQLite backend.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// MaxOpenConns is the maximum number of open connections.
	// Default: 4
	MaxOpenConns int

	// BusyTimeout is how long to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Path:         "data/journal.db",
		MaxOpenConns: 4,
		BusyTimeout:  5 * time.Second,
	}
}

// SQLiteStorage implements Storage on SQLite.
type SQLiteStorage struct {
	db     *sql.DB
	config *SQLiteConfig
	insert *sql.Stmt
	logger *slog.Logger
}

// NewSQLiteStorage opens (and if needed creates) the journal database.
func NewSQLiteStorage(config *SQLiteConfig) (*SQLiteStorage, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}
	if config.MaxOpenConns <= 0 {
		config.MaxOpenConns = 4
	}
	if config.BusyTimeout <= 0 {
		config.BusyTimeout = 5 * time.Second
	}

	logger := slog.Default().With("component", "journal.sqlite")

	db, err := sql.Open("sqlite3", config.Path)
	if err != nil {
		return nil, newStorageError("sqlite", "open", err)
	}
	db.SetMaxOpenConns(config.MaxOpenConns)

	s := &SQLiteStorage{db: db, config: config, logger: logger}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("journal storage initialized", "path", config.Path)
	return s, nil
}

func (s *SQLiteStorage) initialize() error {
	if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return newStorageError("sqlite", "enable_wal", err)
	}
	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", s.config.BusyTimeout.Milliseconds())); err != nil {
		return newStorageError("sqlite", "set_busy_timeout", err)
	}
	if _, err := s.db.Exec(Schema); err != nil {
		return newStorageError("sqlite", "create_schema", err)
	}
	if _, err := s.db.Exec(insertSchemaVersion, SchemaVersion); err != nil {
		return newStorageError("sqlite", "insert_schema_version", err)
	}

	var version int
	if err := s.db.QueryRow(getSchemaVersion).Scan(&version); err != nil {
		return newStorageError("sqlite", "get_schema_version", err)
	}
	if version != SchemaVersion {
		return newStorageError("sqlite", "schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}

	insert, err := s.db.Prepare(`
		INSERT INTO completions (
			id, request_id, time_ns, provider, model, messages, request_hash,
			prompt, response, latency_ms, status, error, error_kind
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return newStorageError("sqlite", "prepare_insert", err)
	}
	s.insert = insert

	return nil
}

// Store implements Storage.
func (s *SQLiteStorage) Store(ctx context.Context, r *Record) error {
	_, err := s.insert.ExecContext(ctx,
		r.ID, nullable(r.RequestID), r.Time.UnixNano(), r.Provider, r.Model, r.Messages, r.RequestHash,
		r.Prompt, nullable(r.Response), r.Latency.Milliseconds(), r.Status, nullable(r.Error), nullable(r.ErrorKind),
	)
	if err != nil {
		return newStorageError("sqlite", "store", err)
	}
	return nil
}

// Query implements Storage.
func (s *SQLiteStorage) Query(ctx context.Context, q *Query) ([]*Record, error) {
	where, args := buildWhereClause(q)

	query := `SELECT id, request_id, time_ns, provider, model, messages, request_hash,
		prompt, response, latency_ms, status, error, error_kind FROM completions`
	if where != "" {
		query += " WHERE " + where
	}
	query += fmt.Sprintf(" ORDER BY time_ns DESC LIMIT %d", q.limit())

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, newStorageError("sqlite", "query", err)
	}
	defer rows.Close()

	records := []*Record{}
	for rows.Next() {
		var (
			r                                    Record
			requestID, response, errMsg, errKind sql.NullString
			timeNs, latencyMs                    int64
		)
		if err := rows.Scan(&r.ID, &requestID, &timeNs, &r.Provider, &r.Model, &r.Messages, &r.RequestHash,
			&r.Prompt, &response, &latencyMs, &r.Status, &errMsg, &errKind); err != nil {
			return nil, newStorageError("sqlite", "scan", err)
		}
		r.RequestID = requestID.String
		r.Time = time.Unix(0, timeNs).UTC()
		r.Response = response.String
		r.Latency = time.Duration(latencyMs) * time.Millisecond
		r.Error = errMsg.String
		r.ErrorKind = errKind.String
		records = append(records, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, newStorageError("sqlite", "query", err)
	}

	return records, nil
}

// Count implements Storage.
func (s *SQLiteStorage) Count(ctx context.Context, q *Query) (int64, error) {
	where, args := buildWhereClause(q)

	query := "SELECT COUNT(*) FROM completions"
	if where != "" {
		query += " WHERE " + where
	}

	var count int64
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, newStorageError("sqlite", "count", err)
	}
	return count, nil
}

// DeleteBefore implements Storage.
func (s *SQLiteStorage) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM completions WHERE time_ns < ?", cutoff.UnixNano())
	if err != nil {
		return 0, newStorageError("sqlite", "delete", err)
	}
	return result.RowsAffected()
}

// DeleteOldest implements Storage.
func (s *SQLiteStorage) DeleteOldest(ctx context.Context, keep int64) (int64, error) {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM completions WHERE id NOT IN (
			SELECT id FROM completions ORDER BY time_ns DESC LIMIT ?
		)`, keep)
	if err != nil {
		return 0, newStorageError("sqlite", "delete_oldest", err)
	}
	return result.RowsAffected()
}

// Close implements Storage.
func (s *SQLiteStorage) Close() error {
	if s.insert != nil {
		s.insert.Close()
	}
	if err := s.db.Close(); err != nil {
		return newStorageError("sqlite", "close", err)
	}
	s.logger.Info("journal storage closed")
	return nil
}

func buildWhereClause(q *Query) (string, []any) {
	if q == nil {
		return "", nil
	}

	var (
		clauses []string
		args    []any
	)
	if q.Since != nil {
		clauses = append(clauses, "time_ns >= ?")
		args = append(args, q.Since.UnixNano())
	}
	if q.Until != nil {
		clauses = append(clauses, "time_ns <= ?")
		args = append(args, q.Until.UnixNano())
	}
	if q.Provider != "" {
		clauses = append(clauses, "provider = ?")
		args = append(args, q.Provider)
	}
	if q.Status != "" {
		clauses = append(clauses, "status = ?")
		args = append(args, q.Status)
	}
	return strings.Join(clauses, " AND "), args
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
