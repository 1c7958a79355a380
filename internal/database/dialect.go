package database

import (
	"database/sql"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	sq "github.com/Masterminds/squirrel"
)

// Dialect hides the differences between the supported SQL backends.
// Queries inside the repo are written with ? placeholders and rewritten here.
type Dialect interface {
	DriverName() string
	DSN(config DialectConfig) string

	// RewriteQuery turns ? placeholders into the backend's native form
	RewriteQuery(query string) string

	// PlaceholderFormat is what squirrel builders should emit
	PlaceholderFormat() sq.PlaceholderFormat

	// SupportsLastInsertId is false for postgres, which needs RETURNING
	SupportsLastInsertId() bool

	ConfigureConnection(db *sql.DB) error

	// MigrationsSubdir names the directory under migrations/ for this backend
	MigrationsSubdir() string
	CreateMigrationsTableQuery() string
}

// DialectConfig carries either a file path (sqlite) or a server URL.
type DialectConfig struct {
	Path string
	URL  string
}

// DialectFor returns the dialect registered for a DATABASE_TYPE value.
func DialectFor(dbType string) (Dialect, error) {
	switch strings.ToLower(dbType) {
	case "postgres", "postgresql":
		return NewPostgresDialect(), nil
	case "mysql":
		return NewMySQLDialect(), nil
	case "sqlite", "sqlite3", "":
		return NewSQLiteDialect(), nil
	default:
		return nil, fmt.Errorf("unsupported database type: %s", dbType)
	}
}

var questionMark = regexp.MustCompile(`\?`)

// rewritePlaceholdersToNumbered converts ? placeholders to $1, $2, ...
func rewritePlaceholdersToNumbered(query string) string {
	n := 0
	return questionMark.ReplaceAllStringFunc(query, func(string) string {
		n++
		return "$" + strconv.Itoa(n)
	})
}
