package service

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"synonymseeker/internal/models"
	"synonymseeker/internal/validation"
)

const (
	minSynonymLength = 3
	maxSynonymLength = 15
)

//go:embed data/default_wordsets.yaml
var defaultWordSets []byte

// WordSetStore persists word sets
type WordSetStore interface {
	Create(ctx context.Context, ws *models.WordSet) error
	Exists(ctx context.Context, target string) (bool, error)
	List(ctx context.Context) ([]models.WordSet, error)
	Count(ctx context.Context) (int, error)
	GetAtOffset(ctx context.Context, offset int) (*models.WordSet, error)
}

// BlockedWordChecker returns the words from a list that must not be used
type BlockedWordChecker interface {
	ValidateWords(ctx context.Context, words []string) ([]string, error)
}

// ImportResult summarises a word set import
type ImportResult struct {
	Imported int
	Skipped  int
	Rejected []string
}

// WordSetService manages the stored puzzles and serves as the game's word source
type WordSetService struct {
	store   WordSetStore
	blocked BlockedWordChecker
	intN    func(n int) int
}

// NewWordSetService creates a new word set service. blocked may be nil.
func NewWordSetService(store WordSetStore, blocked BlockedWordChecker) *WordSetService {
	return &WordSetService{
		store:   store,
		blocked: blocked,
		intN:    rand.IntN,
	}
}

// GeneratePuzzle picks a random stored word set
func (s *WordSetService) GeneratePuzzle(ctx context.Context) (*models.Puzzle, error) {
	count, err := s.store.Count(ctx)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, errors.New("no word sets available")
	}

	ws, err := s.store.GetAtOffset(ctx, s.intN(count))
	if err != nil {
		return nil, err
	}
	if ws == nil {
		return nil, errors.New("word set disappeared during selection")
	}
	if err := ValidateWordSet(*ws); err != nil {
		return nil, fmt.Errorf("stored word set %q is invalid: %w", ws.TargetWord, err)
	}

	puzzle := ws.Puzzle()
	return &puzzle, nil
}

// ValidateWordSet checks that a set is playable
func ValidateWordSet(ws models.WordSet) error {
	target := strings.ToLower(strings.TrimSpace(ws.TargetWord))
	if !validation.IsLettersOnly(target) {
		return fmt.Errorf("target word %q must be a single word of letters", ws.TargetWord)
	}
	if len(ws.Synonyms) != models.SlotCount {
		return fmt.Errorf("word set must have exactly %d synonyms, got %d", models.SlotCount, len(ws.Synonyms))
	}

	seen := make(map[string]bool, len(ws.Synonyms))
	for _, syn := range ws.Synonyms {
		word := strings.ToLower(strings.TrimSpace(syn))
		if !validation.IsLettersOnly(word) {
			return fmt.Errorf("synonym %q must be a single word of letters", syn)
		}
		if n := utf8.RuneCountInString(word); n < minSynonymLength || n > maxSynonymLength {
			return fmt.Errorf("synonym %q has inappropriate length: %d", syn, n)
		}
		if word == target {
			return fmt.Errorf("synonym %q repeats the target word", syn)
		}
		if seen[word] {
			return fmt.Errorf("synonym %q is listed twice", syn)
		}
		seen[word] = true
	}
	return nil
}

// Import reads a YAML word set file and stores every new, valid set
func (s *WordSetService) Import(ctx context.Context, r io.Reader) (*ImportResult, error) {
	var file models.WordSetFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to parse word set file: %w", err)
	}

	result := &ImportResult{}
	for _, ws := range file.WordSets {
		if err := ValidateWordSet(ws); err != nil {
			result.Rejected = append(result.Rejected, fmt.Sprintf("%s: %v", ws.TargetWord, err))
			continue
		}

		if s.blocked != nil {
			words := append([]string{ws.TargetWord}, ws.Synonyms...)
			blocked, err := s.blocked.ValidateWords(ctx, words)
			if err != nil {
				return result, fmt.Errorf("failed to check blocked words: %w", err)
			}
			if len(blocked) > 0 {
				result.Rejected = append(result.Rejected, fmt.Sprintf("%s: contains blocked words", ws.TargetWord))
				continue
			}
		}

		exists, err := s.store.Exists(ctx, ws.TargetWord)
		if err != nil {
			return result, err
		}
		if exists {
			result.Skipped++
			continue
		}

		set := ws
		if err := s.store.Create(ctx, &set); err != nil {
			return result, err
		}
		result.Imported++
	}

	slog.Info("word sets imported",
		"imported", result.Imported,
		"skipped", result.Skipped,
		"rejected", len(result.Rejected))
	return result, nil
}

// Export writes every stored set as YAML
func (s *WordSetService) Export(ctx context.Context, w io.Writer) error {
	sets, err := s.store.List(ctx)
	if err != nil {
		return err
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(models.WordSetFile{WordSets: sets}); err != nil {
		return fmt.Errorf("failed to encode word sets: %w", err)
	}
	return enc.Close()
}

// List returns every stored set
func (s *WordSetService) List(ctx context.Context) ([]models.WordSet, error) {
	return s.store.List(ctx)
}

// SeedDefaultWordSets stores the built-in sets when the store is empty
func (s *WordSetService) SeedDefaultWordSets(ctx context.Context) error {
	count, err := s.store.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	result, err := s.Import(ctx, bytes.NewReader(defaultWordSets))
	if err != nil {
		return fmt.Errorf("failed to seed default word sets: %w", err)
	}
	slog.Info("default word sets seeded", "count", result.Imported)
	return nil
}
