package database

import (
	"database/sql"
	"strings"

	sq "github.com/Masterminds/squirrel"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteDialect implements Dialect for SQLite
type SQLiteDialect struct{}

// NewSQLiteDialect creates a new SQLite dialect
func NewSQLiteDialect() *SQLiteDialect {
	return &SQLiteDialect{}
}

func (d *SQLiteDialect) DriverName() string {
	return "sqlite3"
}

// DSN turns a file path into a go-sqlite3 URI with WAL, foreign keys and a
// busy timeout, so every pooled connection gets the same pragmas.
func (d *SQLiteDialect) DSN(config DialectConfig) string {
	path := config.Path
	if path == "" || path == ":memory:" {
		return "file::memory:?cache=shared&_foreign_keys=on"
	}
	if strings.HasPrefix(path, "file:") {
		return path
	}
	return "file:" + path + "?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000"
}

func (d *SQLiteDialect) RewriteQuery(query string) string {
	return query
}

func (d *SQLiteDialect) PlaceholderFormat() sq.PlaceholderFormat {
	return sq.Question
}

func (d *SQLiteDialect) SupportsLastInsertId() bool {
	return true
}

func (d *SQLiteDialect) ConfigureConnection(db *sql.DB) error {
	// One writer at a time; readers share WAL snapshots.
	applyPool(db, poolSettings{maxOpen: 8, maxIdle: 2})
	return nil
}

func (d *SQLiteDialect) MigrationsSubdir() string {
	return "sqlite"
}

func (d *SQLiteDialect) CreateMigrationsTableQuery() string {
	return `CREATE TABLE IF NOT EXISTS migrations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		filename TEXT UNIQUE NOT NULL,
		executed_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`
}
