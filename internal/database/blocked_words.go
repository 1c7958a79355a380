package database

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// DefaultBlockedWordsURL is the public word list seeded when no URL is configured.
const DefaultBlockedWordsURL = "https://raw.githubusercontent.com/LDNOOBW/List-of-Dirty-Naughty-Obscene-and-Otherwise-Bad-Words/refs/heads/master/en"

// SeedBlockedWords fetches a newline separated word list and stores it.
// It does nothing when the table already has rows.
func (db *DB) SeedBlockedWords(ctx context.Context, url string) error {
	if url == "" {
		url = DefaultBlockedWordsURL
	}

	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM blocked_words").Scan(&count); err != nil {
		return fmt.Errorf("failed to check blocked words count: %w", err)
	}
	if count > 0 {
		slog.Info("blocked words already populated", "count", count)
		return nil
	}

	slog.Info("downloading blocked words list", "url", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build blocked words request: %w", err)
	}
	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download blocked words list: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bad status code from blocked words URL: %d", resp.StatusCode)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO blocked_words (word) VALUES (?)")
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	scanner := bufio.NewScanner(resp.Body)
	added := 0
	seen := make(map[string]bool)
	for scanner.Scan() {
		word := strings.TrimSpace(strings.ToLower(scanner.Text()))
		if word == "" || seen[word] {
			continue
		}
		seen[word] = true
		if _, err := stmt.ExecContext(ctx, word); err != nil {
			return fmt.Errorf("failed to insert blocked word: %w", err)
		}
		added++
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading blocked words: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	slog.Info("blocked words populated", "count", added)
	return nil
}

// IsBlockedWord checks if a word is in the blocked list
func (db *DB) IsBlockedWord(ctx context.Context, word string) (bool, error) {
	clean := strings.TrimSpace(strings.ToLower(word))

	var count int
	err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM blocked_words WHERE word = ?", clean).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check blocked word: %w", err)
	}
	return count > 0, nil
}

// ValidateWords returns the words from the list that are blocked
func (db *DB) ValidateWords(ctx context.Context, words []string) ([]string, error) {
	var blocked []string
	for _, word := range words {
		isBlocked, err := db.IsBlockedWord(ctx, word)
		if err != nil {
			return nil, err
		}
		if isBlocked {
			blocked = append(blocked, word)
		}
	}
	return blocked, nil
}
