package database

import (
	"database/sql"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/go-sql-driver/mysql"
)

// MySQLDialect implements Dialect for MySQL
type MySQLDialect struct{}

// NewMySQLDialect creates a new MySQL dialect
func NewMySQLDialect() *MySQLDialect {
	return &MySQLDialect{}
}

func (d *MySQLDialect) DriverName() string {
	return "mysql"
}

// DSN accepts either a driver DSN or a mysql:// URL and forces parseTime so
// DATETIME columns scan into time.Time.
func (d *MySQLDialect) DSN(config DialectConfig) string {
	raw := strings.TrimPrefix(config.URL, "mysql://")
	cfg, err := mysql.ParseDSN(raw)
	if err != nil {
		return raw
	}
	cfg.ParseTime = true
	return cfg.FormatDSN()
}

func (d *MySQLDialect) RewriteQuery(query string) string {
	return query
}

func (d *MySQLDialect) PlaceholderFormat() sq.PlaceholderFormat {
	return sq.Question
}

func (d *MySQLDialect) SupportsLastInsertId() bool {
	return true
}

func (d *MySQLDialect) ConfigureConnection(db *sql.DB) error {
	applyPool(db, poolSettings{maxOpen: 25, maxIdle: 5})
	_, err := db.Exec("SET FOREIGN_KEY_CHECKS = 1")
	return err
}

func (d *MySQLDialect) MigrationsSubdir() string {
	return "mysql"
}

func (d *MySQLDialect) CreateMigrationsTableQuery() string {
	return `CREATE TABLE IF NOT EXISTS migrations (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		filename VARCHAR(255) UNIQUE NOT NULL,
		executed_at DATETIME(6) DEFAULT CURRENT_TIMESTAMP(6)
	)`
}
