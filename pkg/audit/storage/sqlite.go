package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"frontmentor/askgate/pkg/audit"

	_ "modernc.org/sqlite"
)

// SQLiteConfig contains configuration for the SQLite storage backend.
type SQLiteConfig struct {
	// Path is the database file path. Its directory is created if missing.
	Path string

	// MaxOpenConns is the maximum number of open connections to the database.
	// Default: 4
	MaxOpenConns int

	// WALMode enables Write-Ahead Logging mode for better concurrency.
	// Default: true
	WALMode bool

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig(path string) *SQLiteConfig {
	return &SQLiteConfig{
		Path:         path,
		MaxOpenConns: 4,
		WALMode:      true,
		BusyTimeout:  5 * time.Second,
	}
}

// SQLiteStorage implements audit.Storage on SQLite through the pure-Go
// modernc.org/sqlite driver.
type SQLiteStorage struct {
	db     *sql.DB
	config *SQLiteConfig
	logger *slog.Logger
}

var _ audit.Storage = (*SQLiteStorage)(nil)

// NewSQLiteStorage opens the database, creating the schema when needed.
func NewSQLiteStorage(config *SQLiteConfig) (*SQLiteStorage, error) {
	if config == nil || config.Path == "" {
		return nil, audit.NewStorageError("sqlite", "open", errors.New("database path is required"))
	}
	if config.MaxOpenConns <= 0 {
		config.MaxOpenConns = 4
	}

	logger := slog.Default().With("component", "audit.storage.sqlite")

	if dir := filepath.Dir(config.Path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, audit.NewStorageError("sqlite", "open", err)
		}
	}

	db, err := sql.Open("sqlite", config.Path)
	if err != nil {
		return nil, audit.NewStorageError("sqlite", "open", err)
	}
	db.SetMaxOpenConns(config.MaxOpenConns)

	s := &SQLiteStorage{
		db:     db,
		config: config,
		logger: logger,
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("audit storage initialized",
		"path", config.Path,
		"wal_mode", config.WALMode,
	)

	return s, nil
}

func (s *SQLiteStorage) initialize() error {
	if s.config.WALMode {
		if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			return audit.NewStorageError("sqlite", "enable_wal", err)
		}
	}

	if s.config.BusyTimeout > 0 {
		pragma := fmt.Sprintf("PRAGMA busy_timeout=%d;", s.config.BusyTimeout.Milliseconds())
		if _, err := s.db.Exec(pragma); err != nil {
			return audit.NewStorageError("sqlite", "set_busy_timeout", err)
		}
	}

	if _, err := s.db.Exec(Schema); err != nil {
		return audit.NewStorageError("sqlite", "create_schema", err)
	}

	if _, err := s.db.Exec(InsertSchemaVersion, SchemaVersion); err != nil {
		return audit.NewStorageError("sqlite", "insert_schema_version", err)
	}

	var version int
	err := s.db.QueryRow(GetSchemaVersion).Scan(&version)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return audit.NewStorageError("sqlite", "get_schema_version", err)
	}
	if version != SchemaVersion {
		return audit.NewStorageError("sqlite", "schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}

	return nil
}

// Store persists a record.
func (s *SQLiteStorage) Store(ctx context.Context, record *audit.Record) error {
	models, err := json.Marshal(record.AttemptedModels)
	if err != nil {
		return audit.NewStorageError("sqlite", "store", err)
	}

	_, err = s.db.ExecContext(ctx, insertRecord,
		record.ID,
		record.RequestID,
		record.Time.UnixNano(),
		record.ModelUsed,
		record.Category,
		record.Status,
		record.Attempts,
		string(models),
		record.LatencyMs,
	)
	if err != nil {
		return audit.NewStorageError("sqlite", "store", err)
	}
	return nil
}

// List returns records matching q, newest first.
func (s *SQLiteStorage) List(ctx context.Context, q audit.Query) ([]*audit.Record, error) {
	var (
		sb   strings.Builder
		args []any
	)
	sb.WriteString(selectRecords)
	if !q.Since.IsZero() {
		sb.WriteString("WHERE recorded_at >= ? ")
		args = append(args, q.Since.UnixNano())
	}
	sb.WriteString("ORDER BY recorded_at DESC")
	if q.Limit > 0 {
		sb.WriteString(" LIMIT ?")
		args = append(args, q.Limit)
	}

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, audit.NewStorageError("sqlite", "list", err)
	}
	defer rows.Close()

	var records []*audit.Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, audit.NewStorageError("sqlite", "list", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, audit.NewStorageError("sqlite", "list", err)
	}
	return records, nil
}

// Count returns the number of stored records.
func (s *SQLiteStorage) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM audit_records").Scan(&n); err != nil {
		return 0, audit.NewStorageError("sqlite", "count", err)
	}
	return n, nil
}

// DeleteBefore removes records older than cutoff.
func (s *SQLiteStorage) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM audit_records WHERE recorded_at < ?", cutoff.UnixNano())
	if err != nil {
		return 0, audit.NewStorageError("sqlite", "delete", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, audit.NewStorageError("sqlite", "delete", err)
	}
	return n, nil
}

// Close closes the database.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

func scanRecord(rows *sql.Rows) (*audit.Record, error) {
	var (
		r         audit.Record
		nanos     int64
		modelUsed sql.NullString
		category  sql.NullString
		models    sql.NullString
	)
	if err := rows.Scan(
		&r.ID,
		&r.RequestID,
		&nanos,
		&modelUsed,
		&category,
		&r.Status,
		&r.Attempts,
		&models,
		&r.LatencyMs,
	); err != nil {
		return nil, err
	}

	r.Time = time.Unix(0, nanos).UTC()
	r.ModelUsed = modelUsed.String
	r.Category = category.String
	if models.Valid && models.String != "" && models.String != "null" {
		if err := json.Unmarshal([]byte(models.String), &r.AttemptedModels); err != nil {
			return nil, fmt.Errorf("decode attempted_models: %w", err)
		}
	}
	return &r, nil
}
