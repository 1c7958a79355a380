package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"synonymseeker/internal/app"
	"synonymseeker/internal/config"
	"synonymseeker/internal/handlers"
	"synonymseeker/internal/logging"
	"synonymseeker/internal/security"
)

const (
	guessBurst  = 20
	guessRefill = 500 * time.Millisecond
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", logging.KeyError, err)
		os.Exit(1)
	}
	logging.Setup(cfg.LogLevel, cfg.LogFormat, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("server failed", logging.KeyError, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	startup := handlers.NewStartupStatus(
		handlers.StepDatabase,
		handlers.StepMigrations,
		handlers.StepSeeding,
		handlers.StepServices,
	)

	startup.SetCurrentStep(handlers.StepDatabase)
	db, err := app.OpenDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	startup.CompleteStep(handlers.StepDatabase)
	startup.CompleteStep(handlers.StepMigrations)

	startup.SetCurrentStep(handlers.StepServices)
	game, err := app.NewGame(ctx, cfg, db)
	if err != nil {
		db.Close()
		return err
	}
	defer game.Close()
	startup.CompleteStep(handlers.StepServices)

	limiter := security.NewRateLimiter(guessBurst, guessRefill)
	go limiter.Run(ctx, 5*time.Minute)

	handler := handlers.NewRouter(handlers.NewGameHandler(game.Games), startup, limiter.Middleware)

	// Start server
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		// Guesses may wait on both remote hint stages
		WriteTimeout: cfg.HintPrimaryTimeout + cfg.HintSecondaryTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Seeding can download the blocked-word list, so the server answers
	// /healthz and a 503 /readyz while it runs.
	startup.SetCurrentStep(handlers.StepSeeding)
	app.Seed(ctx, cfg, db, game.WordSets)
	startup.CompleteStep(handlers.StepSeeding)
	startup.MarkReady()
	slog.Info("server ready")

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
