package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"synonymseeker/internal/database"
	"synonymseeker/internal/models"
)

// ErrDuplicateTarget is returned when a word set for the target already exists
var ErrDuplicateTarget = errors.New("word set already exists for target word")

var wordSetColumns = []string{"id", "target_word", "synonyms", "created_at"}

// WordSetRepository handles database operations for word sets
type WordSetRepository struct {
	db           *sql.DB
	sb           sq.StatementBuilderType
	lastInsertID bool
}

// NewWordSetRepository creates a new word set repository
func NewWordSetRepository(db *database.DB) *WordSetRepository {
	return newWordSetRepository(db.DB, db.Dialect)
}

func newWordSetRepository(db *sql.DB, dialect database.Dialect) *WordSetRepository {
	return &WordSetRepository{
		db:           db,
		sb:           sq.StatementBuilder.PlaceholderFormat(dialect.PlaceholderFormat()),
		lastInsertID: dialect.SupportsLastInsertId(),
	}
}

// Create inserts a word set and fills in its ID and creation time
func (r *WordSetRepository) Create(ctx context.Context, ws *models.WordSet) error {
	exists, err := r.Exists(ctx, ws.TargetWord)
	if err != nil {
		return err
	}
	if exists {
		return ErrDuplicateTarget
	}

	now := time.Now().UTC()
	insert := r.sb.Insert("word_sets").
		Columns("target_word", "synonyms", "created_at").
		Values(normalize(ws.TargetWord), joinSynonyms(ws.Synonyms), now)

	if r.lastInsertID {
		query, args, err := insert.ToSql()
		if err != nil {
			return fmt.Errorf("building word set insert: %w", err)
		}
		result, err := r.db.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("failed to create word set: %w", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get word set ID: %w", err)
		}
		ws.ID = id
	} else {
		query, args, err := insert.Suffix("RETURNING id").ToSql()
		if err != nil {
			return fmt.Errorf("building word set insert: %w", err)
		}
		if err := r.db.QueryRowContext(ctx, query, args...).Scan(&ws.ID); err != nil {
			return fmt.Errorf("failed to create word set: %w", err)
		}
	}

	ws.TargetWord = normalize(ws.TargetWord)
	ws.CreatedAt = now
	return nil
}

// GetByTarget retrieves a word set by its target word
func (r *WordSetRepository) GetByTarget(ctx context.Context, target string) (*models.WordSet, error) {
	query, args, err := r.sb.Select(wordSetColumns...).
		From("word_sets").
		Where(sq.Eq{"target_word": normalize(target)}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building word set query: %w", err)
	}

	ws, err := scanWordSet(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get word set: %w", err)
	}
	return ws, nil
}

// Exists reports whether a word set for the target word is stored
func (r *WordSetRepository) Exists(ctx context.Context, target string) (bool, error) {
	query, args, err := r.sb.Select("COUNT(*)").
		From("word_sets").
		Where(sq.Eq{"target_word": normalize(target)}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("building word set count: %w", err)
	}

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check word set: %w", err)
	}
	return count > 0, nil
}

// List returns every word set ordered by target word
func (r *WordSetRepository) List(ctx context.Context) ([]models.WordSet, error) {
	query, args, err := r.sb.Select(wordSetColumns...).
		From("word_sets").
		OrderBy("target_word").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building word set list: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query word sets: %w", err)
	}
	defer func() { _ = rows.Close() }()

	sets := []models.WordSet{}
	for rows.Next() {
		ws, err := scanWordSet(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan word set: %w", err)
		}
		sets = append(sets, *ws)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating word set rows: %w", err)
	}
	return sets, nil
}

// Count returns the number of stored word sets
func (r *WordSetRepository) Count(ctx context.Context) (int, error) {
	query, args, err := r.sb.Select("COUNT(*)").From("word_sets").ToSql()
	if err != nil {
		return 0, fmt.Errorf("building word set count: %w", err)
	}

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count word sets: %w", err)
	}
	return count, nil
}

// GetAtOffset returns the word set at a position in id order, or nil past the end.
// Random selection picks the offset.
func (r *WordSetRepository) GetAtOffset(ctx context.Context, offset int) (*models.WordSet, error) {
	if offset < 0 {
		return nil, fmt.Errorf("invalid word set offset %d", offset)
	}
	query, args, err := r.sb.Select(wordSetColumns...).
		From("word_sets").
		OrderBy("id").
		Limit(1).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building word set query: %w", err)
	}

	ws, err := scanWordSet(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get word set: %w", err)
	}
	return ws, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWordSet(row rowScanner) (*models.WordSet, error) {
	var ws models.WordSet
	var synonyms string
	if err := row.Scan(&ws.ID, &ws.TargetWord, &synonyms, &ws.CreatedAt); err != nil {
		return nil, err
	}
	ws.Synonyms = splitSynonyms(synonyms)
	return &ws, nil
}

func normalize(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}

func joinSynonyms(synonyms []string) string {
	clean := make([]string, 0, len(synonyms))
	for _, s := range synonyms {
		clean = append(clean, normalize(s))
	}
	return strings.Join(clean, ",")
}

func splitSynonyms(s string) []string {
	if s == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
