// Package app builds the shared game components from configuration. The game
// server and the operator CLI both assemble their dependencies here.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"synonymseeker/internal/config"
	"synonymseeker/internal/database"
	"synonymseeker/internal/hint"
	"synonymseeker/internal/logging"
	"synonymseeker/internal/matcher"
	"synonymseeker/internal/repository"
	"synonymseeker/internal/service"
	"synonymseeker/internal/session"
)

// OpenDatabase connects, migrates and returns the word-set database
func OpenDatabase(ctx context.Context, cfg *config.Config) (*database.DB, error) {
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		return nil, err
	}
	slog.Info("database connection established", "type", cfg.DatabaseType)

	if err := db.RunMigrations(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return db, nil
}

// NewWordSetService wires the repository and blocked-word list into the word source
func NewWordSetService(db *database.DB) *service.WordSetService {
	return service.NewWordSetService(repository.NewWordSetRepository(db), db)
}

// Seed loads the blocked-word list and the default word sets. Failures are
// logged, since a server with an empty blocked list can still play.
func Seed(ctx context.Context, cfg *config.Config, db *database.DB, wordSets *service.WordSetService) {
	if err := db.SeedBlockedWords(ctx, cfg.BlockedWordsURL); err != nil {
		slog.Warn("failed to seed blocked words", logging.KeyError, err)
	}
	if err := wordSets.SeedDefaultWordSets(ctx); err != nil {
		slog.Warn("failed to seed default word sets", logging.KeyError, err)
	}
}

// NewSessionStore opens the configured session backend
func NewSessionStore(ctx context.Context, cfg *config.Config) (session.Store, error) {
	switch cfg.SessionStore {
	case "redis":
		client, err := session.Connect(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		slog.Info("session store ready", "backend", "redis")
		return session.NewRedisStore(client, cfg.SessionTTL), nil
	default:
		store := session.NewMemoryStore(cfg.SessionTTL)
		store.StartCleanupRoutine(cfg.SessionCleanupInterval)
		slog.Info("session store ready", "backend", "memory", "ttl", cfg.SessionTTL)
		return store, nil
	}
}

// NewHintOrchestrator builds the remote stage chain from configuration.
// Unset URLs leave their stage out, so the local fallback may be all there is.
func NewHintOrchestrator(ctx context.Context, cfg *config.Config) *hint.Orchestrator {
	client := &http.Client{Timeout: max(cfg.HintPrimaryTimeout, cfg.HintSecondaryTimeout) + 5*time.Second}

	var stages []hint.StageConfig
	if cfg.HintAnalyzerURL != "" {
		tokens := hint.NewTokenSource(ctx, hint.TokenConfig{
			OAuthTokenURL:     cfg.HintOAuthTokenURL,
			OAuthClientID:     cfg.HintOAuthClientID,
			OAuthClientSecret: cfg.HintOAuthSecret,
			SigningKey:        cfg.HintSigningKey,
			BearerToken:       cfg.HintBearerToken,
		})
		stages = append(stages, hint.StageConfig{
			Stage:   hint.NewA2AStage(cfg.HintAnalyzerURL, client, tokens),
			Timeout: cfg.HintPrimaryTimeout,
		})
	}
	if cfg.HintDirectURL != "" {
		stages = append(stages, hint.StageConfig{
			Stage:   hint.NewDirectStage(cfg.HintDirectURL, cfg.HintAPIKey, client),
			Timeout: cfg.HintSecondaryTimeout,
		})
	}

	slog.Info("hint orchestrator ready", "remote_stages", len(stages))
	return hint.NewOrchestrator(stages...)
}

// NewMatcher applies the configured edit tolerance
func NewMatcher(cfg *config.Config) *matcher.Matcher {
	return matcher.New(matcher.Tolerance{
		ShortWordMax: cfg.MatchShortWordMax,
		ShortEdits:   cfg.MatchShortEdits,
		LongEdits:    cfg.MatchLongEdits,
	})
}

// Game holds a fully wired game engine and what it needs closed
type Game struct {
	DB       *database.DB
	Store    session.Store
	WordSets *service.WordSetService
	Games    *service.GameService
}

// NewGame wires a game engine on top of an open database
func NewGame(ctx context.Context, cfg *config.Config, db *database.DB) (*Game, error) {
	store, err := NewSessionStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	wordSets := NewWordSetService(db)
	games := service.NewGameService(store, wordSets, NewHintOrchestrator(ctx, cfg), NewMatcher(cfg))

	return &Game{DB: db, Store: store, WordSets: wordSets, Games: games}, nil
}

// Close releases the session store and the database
func (g *Game) Close() {
	if err := g.Store.Close(); err != nil {
		slog.Warn("failed to close session store", logging.KeyError, err)
	}
	if err := g.DB.Close(); err != nil {
		slog.Warn("failed to close database", logging.KeyError, err)
	}
}
