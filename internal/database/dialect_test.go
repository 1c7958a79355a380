package database

import (
	"testing"

	sq "github.com/Masterminds/squirrel"
)

func TestDialectSQLite(t *testing.T) {
	dialect := NewSQLiteDialect()

	t.Run("DriverName", func(t *testing.T) {
		result := dialect.DriverName()
		expected := "sqlite3"
		if result != expected {
			t.Errorf("DriverName() = %v, want %v", result, expected)
		}
	})

	t.Run("SupportsLastInsertId", func(t *testing.T) {
		result := dialect.SupportsLastInsertId()
		if !result {
			t.Error("SupportsLastInsertId() should return true for SQLite")
		}
	})

	t.Run("MigrationsSubdir", func(t *testing.T) {
		result := dialect.MigrationsSubdir()
		expected := "sqlite"
		if result != expected {
			t.Errorf("MigrationsSubdir() = %v, want %v", result, expected)
		}
	})
}

func TestDialectPostgreSQL(t *testing.T) {
	dialect := NewPostgresDialect()

	t.Run("DriverName", func(t *testing.T) {
		result := dialect.DriverName()
		expected := "postgres"
		if result != expected {
			t.Errorf("DriverName() = %v, want %v", result, expected)
		}
	})

	t.Run("SupportsLastInsertId", func(t *testing.T) {
		result := dialect.SupportsLastInsertId()
		if result {
			t.Error("SupportsLastInsertId() should return false for PostgreSQL")
		}
	})

	t.Run("MigrationsSubdir", func(t *testing.T) {
		result := dialect.MigrationsSubdir()
		expected := "postgres"
		if result != expected {
			t.Errorf("MigrationsSubdir() = %v, want %v", result, expected)
		}
	})
}

func TestDialectMySQL(t *testing.T) {
	dialect := NewMySQLDialect()

	t.Run("DriverName", func(t *testing.T) {
		result := dialect.DriverName()
		expected := "mysql"
		if result != expected {
			t.Errorf("DriverName() = %v, want %v", result, expected)
		}
	})

	t.Run("SupportsLastInsertId", func(t *testing.T) {
		result := dialect.SupportsLastInsertId()
		if !result {
			t.Error("SupportsLastInsertId() should return true for MySQL")
		}
	})

	t.Run("MigrationsSubdir", func(t *testing.T) {
		result := dialect.MigrationsSubdir()
		expected := "mysql"
		if result != expected {
			t.Errorf("MigrationsSubdir() = %v, want %v", result, expected)
		}
	})
}

func TestRewriteQuery(t *testing.T) {
	tests := []struct {
		name     string
		dialect  Dialect
		query    string
		expected string
	}{
		{
			name:     "SQLite no change",
			dialect:  NewSQLiteDialect(),
			query:    "SELECT * FROM word_sets WHERE id = ?",
			expected: "SELECT * FROM word_sets WHERE id = ?",
		},
		{
			name:     "PostgreSQL single placeholder",
			dialect:  NewPostgresDialect(),
			query:    "SELECT * FROM word_sets WHERE id = ?",
			expected: "SELECT * FROM word_sets WHERE id = $1",
		},
		{
			name:     "PostgreSQL multiple placeholders",
			dialect:  NewPostgresDialect(),
			query:    "INSERT INTO word_sets (target_word, synonyms) VALUES (?, ?)",
			expected: "INSERT INTO word_sets (target_word, synonyms) VALUES ($1, $2)",
		},
		{
			name:     "MySQL no change",
			dialect:  NewMySQLDialect(),
			query:    "UPDATE word_sets SET target_word = ?, synonyms = ? WHERE id = ?",
			expected: "UPDATE word_sets SET target_word = ?, synonyms = ? WHERE id = ?",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.dialect.RewriteQuery(tt.query)
			if result != tt.expected {
				t.Errorf("RewriteQuery() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestSQLiteDSN(t *testing.T) {
	dialect := NewSQLiteDialect()

	tests := []struct {
		name     string
		path     string
		expected string
	}{
		{"empty is memory", "", "file::memory:?cache=shared&_foreign_keys=on"},
		{"explicit memory", ":memory:", "file::memory:?cache=shared&_foreign_keys=on"},
		{"file path", "./data/game.db", "file:./data/game.db?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000"},
		{"uri passthrough", "file:custom.db?mode=ro", "file:custom.db?mode=ro"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := dialect.DSN(DialectConfig{Path: tt.path}); got != tt.expected {
				t.Errorf("DSN() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestPlaceholderFormat(t *testing.T) {
	query := sq.Select("id").From("word_sets").Where(sq.Eq{"target_word": "happy"})

	tests := []struct {
		name     string
		dialect  Dialect
		expected string
	}{
		{"SQLite", NewSQLiteDialect(), "SELECT id FROM word_sets WHERE target_word = ?"},
		{"PostgreSQL", NewPostgresDialect(), "SELECT id FROM word_sets WHERE target_word = $1"},
		{"MySQL", NewMySQLDialect(), "SELECT id FROM word_sets WHERE target_word = ?"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, _, err := query.PlaceholderFormat(tt.dialect.PlaceholderFormat()).ToSql()
			if err != nil {
				t.Fatalf("ToSql() error = %v", err)
			}
			if sql != tt.expected {
				t.Errorf("ToSql() = %v, want %v", sql, tt.expected)
			}
		})
	}
}

func TestSplitStatements(t *testing.T) {
	content := `CREATE TABLE a (id INTEGER);

CREATE INDEX idx_a ON a(id);
  ;
`
	stmts := splitStatements(content)
	if len(stmts) != 2 {
		t.Fatalf("splitStatements() returned %d statements, want 2", len(stmts))
	}
	if stmts[1] != "CREATE INDEX idx_a ON a(id)" {
		t.Errorf("second statement = %q", stmts[1])
	}
}

func TestDialectFor(t *testing.T) {
	tests := []struct {
		dbType string
		driver string
	}{
		{"sqlite", "sqlite3"},
		{"", "sqlite3"},
		{"Postgres", "postgres"},
		{"postgresql", "postgres"},
		{"mysql", "mysql"},
	}

	for _, tt := range tests {
		t.Run(tt.dbType, func(t *testing.T) {
			d, err := DialectFor(tt.dbType)
			if err != nil {
				t.Fatalf("DialectFor(%q) error: %v", tt.dbType, err)
			}
			if d.DriverName() != tt.driver {
				t.Errorf("DialectFor(%q).DriverName() = %q, want %q", tt.dbType, d.DriverName(), tt.driver)
			}
		})
	}

	if _, err := DialectFor("oracle"); err == nil {
		t.Error("DialectFor(oracle) should fail")
	}
}
