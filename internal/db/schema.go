package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS submissions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    file_name TEXT NOT NULL,
    word_count INTEGER,
    score INTEGER,
    confidence REAL,
    feedback TEXT,
    source TEXT,
    diagnostic TEXT,
    timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
);
`

const postgresSchema = `
CREATE TABLE IF NOT EXISTS submissions (
    id BIGSERIAL PRIMARY KEY,
    file_name TEXT NOT NULL,
    word_count INTEGER,
    score INTEGER,
    confidence DOUBLE PRECISION,
    feedback TEXT,
    source TEXT,
    diagnostic TEXT,
    timestamp TIMESTAMPTZ DEFAULT NOW()
);
`

// Store keeps graded submissions in SQLite or Postgres.
type Store struct {
	db      *sql.DB
	driver  string
	builder sq.StatementBuilderType
}

// Open connects to the database and applies the schema. For SQLite the
// parent directory of dsn is created when missing.
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	driver = strings.ToLower(strings.TrimSpace(driver))
	var schema string
	switch driver {
	case DriverSQLite, "sqlite3", "":
		driver = DriverSQLite
		schema = sqliteSchema
		if err := ensureParent(dsn); err != nil {
			return nil, err
		}
	case DriverPostgres, "postgresql":
		driver = DriverPostgres
		schema = postgresSchema
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}

	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if driver == DriverSQLite {
		conn.SetMaxOpenConns(1)
	}
	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	if _, err := conn.ExecContext(ctx, schema); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return newStore(conn, driver), nil
}

func newStore(conn *sql.DB, driver string) *Store {
	builder := sq.StatementBuilder.PlaceholderFormat(sq.Question)
	if driver == DriverPostgres {
		builder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	}
	return &Store{db: conn, driver: driver, builder: builder}
}

func (s *Store) Driver() string {
	return s.driver
}

func (s *Store) Close() error {
	return s.db.Close()
}

func ensureParent(dsn string) error {
	path := strings.TrimPrefix(dsn, "file:")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if path == "" || path == ":memory:" {
		return nil
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create database dir: %w", err)
	}
	return nil
}
