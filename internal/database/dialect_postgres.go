package database

import (
	"database/sql"
	"net/url"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"
)

// PostgresDialect implements Dialect for PostgreSQL
type PostgresDialect struct{}

// NewPostgresDialect creates a new PostgreSQL dialect
func NewPostgresDialect() *PostgresDialect {
	return &PostgresDialect{}
}

func (d *PostgresDialect) DriverName() string {
	return "postgres"
}

// DSN tags connections with an application name unless the URL sets one.
func (d *PostgresDialect) DSN(config DialectConfig) string {
	u, err := url.Parse(config.URL)
	if err != nil || u.Scheme == "" {
		return config.URL
	}
	q := u.Query()
	if q.Get("application_name") == "" {
		q.Set("application_name", "synonymseeker")
		u.RawQuery = q.Encode()
	}
	return u.String()
}

func (d *PostgresDialect) RewriteQuery(query string) string {
	return rewritePlaceholdersToNumbered(query)
}

func (d *PostgresDialect) PlaceholderFormat() sq.PlaceholderFormat {
	return sq.Dollar
}

func (d *PostgresDialect) SupportsLastInsertId() bool {
	// lib/pq has no LastInsertId; inserts use RETURNING id
	return false
}

func (d *PostgresDialect) ConfigureConnection(db *sql.DB) error {
	applyPool(db, poolSettings{maxOpen: 25, maxIdle: 5})
	return nil
}

func (d *PostgresDialect) MigrationsSubdir() string {
	return "postgres"
}

func (d *PostgresDialect) CreateMigrationsTableQuery() string {
	return `CREATE TABLE IF NOT EXISTS migrations (
		id BIGSERIAL PRIMARY KEY,
		filename TEXT UNIQUE NOT NULL,
		executed_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
	)`
}
