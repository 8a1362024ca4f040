package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	_ "github.com/mattn/go-sqlite3" // "sqlite3" driver (cgo)
	_ "modernc.org/sqlite"          // "sqlite" driver (pure Go)

	"github.com/opheus2/form-schema-validator/pkg/audit"
	"github.com/opheus2/form-schema-validator/pkg/telemetry/logging"
)

// Driver names accepted by NewSQLiteStorage.
const (
	DriverModernc = "sqlite"
	DriverCgo     = "sqlite3"
)

// SQLiteConfig contains configuration for the SQLite storage backend.
type SQLiteConfig struct {
	// Driver is DriverModernc or DriverCgo.
	// Default: DriverModernc
	Driver string

	// Path is the database file path. ":memory:" keeps a private database
	// on a single connection.
	Path string

	// MaxOpenConns is the maximum number of open connections.
	// Default: 10
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 5
	MaxIdleConns int

	// WALMode enables write-ahead logging for concurrent readers.
	// Default: true
	WALMode bool

	// BusyTimeout is how long to wait when the database is locked.
	// Default: 5s
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Driver:       DriverModernc,
		Path:         "data/audit.db",
		MaxOpenConns: 10,
		MaxIdleConns: 5,
		WALMode:      true,
		BusyTimeout:  5 * time.Second,
	}
}

// SQLiteStorage implements audit.Storage on SQLite.
type SQLiteStorage struct {
	db     *sql.DB
	config *SQLiteConfig
	logger *logging.Logger
}

// NewSQLiteStorage opens the database, creates the schema and verifies its
// version.
func NewSQLiteStorage(cfg *SQLiteConfig, logger *logging.Logger) (*SQLiteStorage, error) {
	if cfg == nil {
		cfg = DefaultSQLiteConfig()
	}
	if cfg.Driver == "" {
		cfg.Driver = DriverModernc
	}
	if cfg.Path == "" {
		return nil, audit.NewStorageError(cfg.Driver, "open", errors.New("database path is required"))
	}
	if logger == nil {
		logger = logging.Nop()
	}

	inMemory := cfg.Path == ":memory:"
	if !inMemory {
		if dir := filepath.Dir(cfg.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, audit.NewStorageError(cfg.Driver, "open", err)
			}
		}
	}

	db, err := sql.Open(cfg.Driver, dsn(cfg, inMemory))
	if err != nil {
		return nil, audit.NewStorageError(cfg.Driver, "open", err)
	}
	if inMemory {
		db.SetMaxOpenConns(1)
	} else {
		if cfg.MaxOpenConns > 0 {
			db.SetMaxOpenConns(cfg.MaxOpenConns)
		}
		if cfg.MaxIdleConns > 0 {
			db.SetMaxIdleConns(cfg.MaxIdleConns)
		}
	}

	s := &SQLiteStorage{
		db:     db,
		config: cfg,
		logger: logger.With("component", "audit.storage.sqlite"),
	}
	if err := s.initialize(inMemory); err != nil {
		db.Close()
		return nil, err
	}

	s.logger.Info("SQLite audit storage initialized",
		"driver", cfg.Driver,
		"path", cfg.Path,
		"wal_mode", cfg.WALMode && !inMemory,
	)
	return s, nil
}

func (s *SQLiteStorage) initialize(inMemory bool) error {
	if s.config.WALMode && !inMemory {
		if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			return s.fail("enable_wal", err)
		}
	}
	if s.config.BusyTimeout > 0 {
		if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", s.config.BusyTimeout.Milliseconds())); err != nil {
			return s.fail("set_busy_timeout", err)
		}
	}

	if _, err := s.db.Exec(Schema); err != nil {
		return s.fail("create_schema", err)
	}
	if _, err := s.db.Exec(InsertSchemaVersion, SchemaVersion, time.Now().UnixNano()); err != nil {
		return s.fail("insert_schema_version", err)
	}

	var version int
	if err := s.db.QueryRow(GetSchemaVersion).Scan(&version); err != nil {
		return s.fail("get_schema_version", err)
	}
	if version != SchemaVersion {
		return s.fail("schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}
	return nil
}

// Store persists a record.
func (s *SQLiteStorage) Store(ctx context.Context, record *audit.Record) error {
	errorKeys, err := sonic.MarshalString(nonNil(record.ErrorKeys))
	if err != nil {
		return s.fail("store", err)
	}
	failedRules, err := sonic.MarshalString(nonNil(record.FailedRules))
	if err != nil {
		return s.fail("store", err)
	}

	_, err = s.db.ExecContext(ctx, insertRecord,
		record.ID, nullString(record.RequestID),
		record.Kind, nullString(record.Form), nullString(record.Source),
		record.Outcome, record.ErrorCount, errorKeys, failedRules, nullString(record.Error),
		nullString(record.PayloadHash), nullString(record.SchemaVersion),
		record.ValidatedAt.UnixNano(), record.Duration.Microseconds(), record.RecordedAt.UnixNano(),
	)
	if err != nil {
		return s.fail("store", err)
	}
	return nil
}

// Query returns the records matching query.
func (s *SQLiteStorage) Query(ctx context.Context, query *audit.Query) ([]*audit.Record, error) {
	sqlQuery, args := s.selectQuery(query)

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, s.fail("query", err)
	}
	defer rows.Close()

	records := []*audit.Record{}
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, s.fail("scan", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, s.fail("query", err)
	}
	return records, nil
}

// QueryStream streams the records matching query.
func (s *SQLiteStorage) QueryStream(ctx context.Context, query *audit.Query) (<-chan *audit.Record, <-chan error, error) {
	recordsCh := make(chan *audit.Record, 100)
	errCh := make(chan error, 1)
	sqlQuery, args := s.selectQuery(query)

	go func() {
		defer close(recordsCh)
		defer close(errCh)

		rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
		if err != nil {
			errCh <- s.fail("query_stream", err)
			return
		}
		defer rows.Close()

		for rows.Next() {
			record, err := scanRecord(rows)
			if err != nil {
				errCh <- s.fail("scan", err)
				return
			}
			select {
			case <-ctx.Done():
				errCh <- ctx.Err()
				return
			case recordsCh <- record:
			}
		}
		if err := rows.Err(); err != nil {
			errCh <- s.fail("query_stream", err)
		}
	}()

	return recordsCh, errCh, nil
}

// Count returns the number of records matching the filters of query.
func (s *SQLiteStorage) Count(ctx context.Context, query *audit.Query) (int64, error) {
	where, args := buildWhereClause(query)
	var count int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM audit_records"+where, args...).Scan(&count); err != nil {
		return 0, s.fail("count", err)
	}
	return count, nil
}

// Delete removes the records matching the filters of query.
func (s *SQLiteStorage) Delete(ctx context.Context, query *audit.Query) (int64, error) {
	where, args := buildWhereClause(query)
	res, err := s.db.ExecContext(ctx, "DELETE FROM audit_records"+where, args...)
	if err != nil {
		return 0, s.fail("delete", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, s.fail("delete", err)
	}
	return n, nil
}

// Close closes the database.
func (s *SQLiteStorage) Close() error {
	if err := s.db.Close(); err != nil {
		return s.fail("close", err)
	}
	s.logger.Debug("SQLite audit storage closed")
	return nil
}

// dsn applies the busy timeout to every pooled connection. The two drivers
// spell connection pragmas differently.
func dsn(cfg *SQLiteConfig, inMemory bool) string {
	if inMemory || cfg.BusyTimeout <= 0 {
		return cfg.Path
	}
	ms := cfg.BusyTimeout.Milliseconds()
	if cfg.Driver == DriverCgo {
		return fmt.Sprintf("file:%s?_busy_timeout=%d", cfg.Path, ms)
	}
	return fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)", cfg.Path, ms)
}

func (s *SQLiteStorage) fail(operation string, err error) error {
	return audit.NewStorageError(s.config.Driver, operation, err)
}

func (s *SQLiteStorage) selectQuery(query *audit.Query) (string, []any) {
	where, args := buildWhereClause(query)

	column := sortColumns[query.SortBy]
	if column == "" {
		column = sortColumns[audit.DefaultSortBy]
	}
	order := "DESC"
	if strings.EqualFold(query.SortOrder, "asc") {
		order = "ASC"
	}

	limit := query.Limit
	if limit <= 0 {
		limit = audit.DefaultLimit
	}

	// id breaks ties so pages are stable.
	sqlQuery := fmt.Sprintf("SELECT %s FROM audit_records%s ORDER BY %s %s, id %s LIMIT %d",
		selectColumns, where, column, order, order, limit)
	if query.Offset > 0 {
		sqlQuery += fmt.Sprintf(" OFFSET %d", query.Offset)
	}
	return sqlQuery, args
}

// buildWhereClause returns " WHERE ..." (or "") and its arguments.
func buildWhereClause(query *audit.Query) (string, []any) {
	var conditions []string
	var args []any

	if query.StartTime != nil {
		conditions = append(conditions, "validated_at >= ?")
		args = append(args, query.StartTime.UnixNano())
	}
	if query.EndTime != nil {
		conditions = append(conditions, "validated_at <= ?")
		args = append(args, query.EndTime.UnixNano())
	}
	if query.Kind != "" {
		conditions = append(conditions, "kind = ?")
		args = append(args, query.Kind)
	}
	if query.Form != "" {
		conditions = append(conditions, "form = ?")
		args = append(args, query.Form)
	}
	if query.RequestID != "" {
		conditions = append(conditions, "request_id = ?")
		args = append(args, query.RequestID)
	}
	if query.Outcome != "" {
		conditions = append(conditions, "outcome = ?")
		args = append(args, query.Outcome)
	}
	if query.Rule != "" {
		// failed_rules holds a JSON array of strings.
		quoted, _ := sonic.MarshalString(query.Rule)
		conditions = append(conditions, "failed_rules LIKE ? ESCAPE '\\'")
		args = append(args, "%"+escapeLike(quoted)+"%")
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func scanRecord(rows *sql.Rows) (*audit.Record, error) {
	var (
		record                              audit.Record
		requestID, form, source, errText    sql.NullString
		payloadHash, schemaVersion          sql.NullString
		errorKeys, failedRules              sql.NullString
		validatedAt, durationUs, recordedAt int64
	)

	err := rows.Scan(
		&record.ID, &requestID, &record.Kind, &form, &source,
		&record.Outcome, &record.ErrorCount, &errorKeys, &failedRules, &errText,
		&payloadHash, &schemaVersion,
		&validatedAt, &durationUs, &recordedAt,
	)
	if err != nil {
		return nil, err
	}

	record.RequestID = requestID.String
	record.Form = form.String
	record.Source = source.String
	record.Error = errText.String
	record.PayloadHash = payloadHash.String
	record.SchemaVersion = schemaVersion.String
	record.ValidatedAt = time.Unix(0, validatedAt).UTC()
	record.Duration = time.Duration(durationUs) * time.Microsecond
	record.RecordedAt = time.Unix(0, recordedAt).UTC()

	if errorKeys.Valid && errorKeys.String != "" {
		if err := sonic.UnmarshalString(errorKeys.String, &record.ErrorKeys); err != nil {
			return nil, fmt.Errorf("error_keys: %w", err)
		}
	}
	if failedRules.Valid && failedRules.String != "" {
		if err := sonic.UnmarshalString(failedRules.String, &record.FailedRules); err != nil {
			return nil, fmt.Errorf("failed_rules: %w", err)
		}
	}
	return &record, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
