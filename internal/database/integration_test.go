package database

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := Initialize(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.RunMigrations(context.Background()); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}
	return db
}

// TestDatabaseIntegration tests the complete database lifecycle
func TestDatabaseIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := openTestDB(t)
	ctx := context.Background()

	for _, table := range []string{"migrations", "word_sets", "blocked_words"} {
		var name string
		err := db.QueryRowContext(ctx, "SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("Table %s not found: %v", table, err)
		}
	}

	// Running again is a no-op.
	if err := db.RunMigrations(ctx); err != nil {
		t.Fatalf("Second migration run failed: %v", err)
	}
	var applied int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM migrations").Scan(&applied); err != nil {
		t.Fatalf("Failed to count migrations: %v", err)
	}
	if applied != 2 {
		t.Errorf("Expected 2 applied migrations, got %d", applied)
	}
}

// TestDatabaseTransactions tests transaction support
func TestDatabaseTransactions(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := openTestDB(t)
	ctx := context.Background()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		t.Fatalf("Failed to begin transaction: %v", err)
	}
	_, err = tx.ExecContext(ctx, "INSERT INTO word_sets (target_word, synonyms) VALUES (?, ?)",
		"happy", "joyful,cheerful,content,glad")
	if err != nil {
		tx.Rollback()
		t.Fatalf("Failed to insert in transaction: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("Failed to commit transaction: %v", err)
	}

	var count int
	err = db.QueryRowContext(ctx, "SELECT COUNT(*) FROM word_sets WHERE target_word = ?", "happy").Scan(&count)
	if err != nil {
		t.Fatalf("Failed to query after commit: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 word set, got %d", count)
	}

	tx2, err := db.BeginTx(ctx, nil)
	if err != nil {
		t.Fatalf("Failed to begin second transaction: %v", err)
	}
	_, err = tx2.ExecContext(ctx, "INSERT INTO word_sets (target_word, synonyms) VALUES (?, ?)",
		"sad", "unhappy,gloomy,glum,down")
	if err != nil {
		tx2.Rollback()
		t.Fatalf("Failed to insert in second transaction: %v", err)
	}
	if err := tx2.Rollback(); err != nil {
		t.Fatalf("Failed to rollback transaction: %v", err)
	}

	err = db.QueryRowContext(ctx, "SELECT COUNT(*) FROM word_sets WHERE target_word = ?", "sad").Scan(&count)
	if err != nil {
		t.Fatalf("Failed to query after rollback: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected 0 word sets after rollback, got %d", count)
	}
}

// TestConcurrentAccess tests concurrent database access
func TestConcurrentAccess(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := openTestDB(t)
	ctx := context.Background()

	_, err := db.ExecContext(ctx, "INSERT INTO word_sets (target_word, synonyms) VALUES (?, ?)",
		"fast", "quick,rapid,swift,speedy")
	if err != nil {
		t.Fatalf("Failed to create test word set: %v", err)
	}

	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func() {
			var synonyms string
			err := db.QueryRowContext(ctx, "SELECT synonyms FROM word_sets WHERE target_word = ?", "fast").Scan(&synonyms)
			if err != nil {
				t.Errorf("Concurrent read failed: %v", err)
			}
			if synonyms != "quick,rapid,swift,speedy" {
				t.Errorf("Unexpected synonyms %q", synonyms)
			}
			done <- true
		}()
	}
	for i := 0; i < 10; i++ {
		<-done
	}
}

func TestSeedBlockedWords(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		fmt.Fprint(w, "Badword\n\nbadword\nrude\n  \n")
	}))
	defer srv.Close()

	db := openTestDB(t)
	ctx := context.Background()

	if err := db.SeedBlockedWords(ctx, srv.URL); err != nil {
		t.Fatalf("SeedBlockedWords() error = %v", err)
	}
	// Already populated, so no second download.
	if err := db.SeedBlockedWords(ctx, srv.URL); err != nil {
		t.Fatalf("second SeedBlockedWords() error = %v", err)
	}
	if requests != 1 {
		t.Errorf("Expected 1 download, got %d", requests)
	}

	blocked, err := db.IsBlockedWord(ctx, " BADWORD ")
	if err != nil {
		t.Fatalf("IsBlockedWord() error = %v", err)
	}
	if !blocked {
		t.Error("Expected BADWORD to be blocked")
	}

	found, err := db.ValidateWords(ctx, []string{"happy", "rude", "glad"})
	if err != nil {
		t.Fatalf("ValidateWords() error = %v", err)
	}
	if len(found) != 1 || found[0] != "rude" {
		t.Errorf("ValidateWords() = %v, want [rude]", found)
	}
}

func TestSeedBlockedWordsBadStatus(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	db := openTestDB(t)
	if err := db.SeedBlockedWords(context.Background(), srv.URL); err == nil {
		t.Error("Expected error for non-200 response")
	}
}
