package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"synonymseeker/internal/logging"
	"synonymseeker/internal/matcher"
	"synonymseeker/internal/models"
	"synonymseeker/internal/session"
	"synonymseeker/internal/validation"
)

// PuzzleSource produces a target word with its four synonyms
type PuzzleSource interface {
	GeneratePuzzle(ctx context.Context) (*models.Puzzle, error)
}

// HintProvider explains an incorrect guess. It must always return text.
type HintProvider interface {
	ObtainHint(ctx context.Context, guess, target string, previous []string) string
}

// GameService coordinates puzzle sessions
type GameService struct {
	store   session.Store
	source  PuzzleSource
	hints   HintProvider
	matcher *matcher.Matcher
	now     func() time.Time
}

// NewGameService creates a new game service
func NewGameService(store session.Store, source PuzzleSource, hints HintProvider, m *matcher.Matcher) *GameService {
	if m == nil {
		m = matcher.New(matcher.DefaultTolerance)
	}
	return &GameService{
		store:   store,
		source:  source,
		hints:   hints,
		matcher: m,
		now:     time.Now,
	}
}

// StartGame creates a new session from a freshly generated puzzle
func (s *GameService) StartGame(ctx context.Context) (*models.StartGameResponse, error) {
	puzzle, err := s.source.GeneratePuzzle(ctx)
	if err != nil {
		return nil, newGameError(ErrWordSourceUnavailable, err)
	}
	if err := checkPuzzle(puzzle); err != nil {
		return nil, newGameError(ErrWordSourceUnavailable, err)
	}

	sess := models.NewPuzzleSession(session.GenerateID(), *puzzle, s.now())
	if err := s.store.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	slog.Info("game started", "session_id", sess.ID, "target", sess.TargetWord)

	slots := make([]models.SlotHint, 0, models.SlotCount)
	for _, slot := range sess.Slots {
		slots = append(slots, models.SlotHint{LetterCount: slot.LetterCount})
	}
	return &models.StartGameResponse{
		SessionID:    sess.ID,
		TargetWord:   sess.TargetWord,
		SynonymSlots: slots,
		Status:       sess.Status,
	}, nil
}

// SubmitGuess validates a guess and applies it to the session.
// Hints for incorrect guesses are fetched after the session lock is released.
func (s *GameService) SubmitGuess(ctx context.Context, sessionID, rawGuess string) (*models.GuessResponse, error) {
	guess, err := validation.SanitizeGuess(rawGuess)
	if err != nil {
		return nil, err
	}

	var (
		resp     *models.GuessResponse
		target   string
		previous []string
	)
	err = s.store.Mutate(ctx, sessionID, func(sess *models.PuzzleSession) error {
		if sess.Status.IsTerminal() {
			return newGameError(ErrSessionNotActive, nil)
		}

		previous = append([]string(nil), sess.GuessedWords...)
		sess.GuessCount++
		resp = s.applyGuess(sess, guess)
		resp.Session = sess.View()
		target = sess.TargetWord
		return nil
	})
	if err != nil {
		return nil, s.sessionError(err)
	}

	if resp.Outcome == models.OutcomeIncorrect && s.hints != nil {
		hint := s.hints.ObtainHint(ctx, guess, target, previous)
		resp.Hint = &hint
	}
	return resp, nil
}

func (s *GameService) applyGuess(sess *models.PuzzleSession, guess string) *models.GuessResponse {
	if sess.HasGuessed(guess) {
		sess.RecordGuess(guess)
		return &models.GuessResponse{
			Outcome: models.OutcomeDuplicate,
			Message: fmt.Sprintf("You already guessed '%s'. Try a different word.", guess),
		}
	}
	sess.RecordGuess(guess)

	result := s.matcher.Match(guess, sess.TargetWord, sess.CanonicalSynonyms[:])
	switch {
	case result.Kind == matcher.TargetWord:
		return &models.GuessResponse{
			Outcome: models.OutcomeTargetWord,
			Message: fmt.Sprintf("You can't use the target word '%s' as a guess! Try finding words that mean the same thing.", sess.TargetWord),
		}
	case result.Matched() && sess.Slots[result.Index].Found:
		return &models.GuessResponse{
			Outcome: models.OutcomeDuplicate,
			Message: fmt.Sprintf("You already guessed '%s'. Try a different word.", sess.CanonicalSynonyms[result.Index]),
		}
	case result.Matched():
		sess.FillSlot(result.Index)
		word := sess.CanonicalSynonyms[result.Index]
		if sess.Status == models.StatusCompleted {
			return &models.GuessResponse{
				Success: true,
				Outcome: models.OutcomeCompleted,
				Message: fmt.Sprintf("Correct! '%s' is a synonym of '%s'. Congratulations! You found all synonyms!", word, sess.TargetWord),
			}
		}
		return &models.GuessResponse{
			Success: true,
			Outcome: models.OutcomeCorrect,
			Message: fmt.Sprintf("Correct! '%s' is a synonym of '%s'.", word, sess.TargetWord),
		}
	default:
		return &models.GuessResponse{
			Outcome: models.OutcomeIncorrect,
			Message: fmt.Sprintf("'%s' is not a synonym of '%s'.", guess, sess.TargetWord),
		}
	}
}

// GiveUp ends an active session and reveals every synonym
func (s *GameService) GiveUp(ctx context.Context, sessionID string) (*models.GiveUpResponse, error) {
	var view models.SessionView
	err := s.store.Mutate(ctx, sessionID, func(sess *models.PuzzleSession) error {
		if sess.Status.IsTerminal() {
			return newGameError(ErrSessionNotActive, nil)
		}
		sess.RevealAll()
		view = sess.View()
		return nil
	})
	if err != nil {
		return nil, s.sessionError(err)
	}

	slog.Info("game given up", "session_id", sessionID, "guesses", view.GuessCount)

	return &models.GiveUpResponse{
		Message: "Game ended. Here are all the synonyms:",
		Session: view,
	}, nil
}

// GetSession returns the current view of a session
func (s *GameService) GetSession(ctx context.Context, sessionID string) (*models.SessionView, error) {
	sess, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if sess == nil {
		return nil, newGameError(ErrSessionNotFound, nil)
	}
	view := sess.View()
	return &view, nil
}

func (s *GameService) sessionError(err error) error {
	var gerr *GameError
	switch {
	case errors.As(err, &gerr):
		return gerr
	case errors.Is(err, session.ErrNotFound):
		return newGameError(ErrSessionNotFound, err)
	default:
		slog.Error("session update failed", logging.KeyError, err)
		return fmt.Errorf("failed to update session: %w", err)
	}
}

func checkPuzzle(p *models.Puzzle) error {
	if p == nil || p.TargetWord == "" {
		return errors.New("word source returned an empty puzzle")
	}
	for i, syn := range p.Synonyms {
		if !validation.IsLettersOnly(syn) {
			return fmt.Errorf("synonym %d of %q is not a single word", i, p.TargetWord)
		}
	}
	return nil
}
