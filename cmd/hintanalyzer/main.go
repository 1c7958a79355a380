package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"synonymseeker/internal/analyzer"
	"synonymseeker/internal/config"
	"synonymseeker/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", logging.KeyError, err)
		os.Exit(1)
	}
	logging.Setup(cfg.LogLevel, cfg.LogFormat, os.Stderr)

	catalog, err := analyzer.LoadCatalog(cfg.AnalyzerCatalogFile)
	if err != nil {
		slog.Error("failed to load catalog", logging.KeyError, err)
		os.Exit(1)
	}
	if cfg.AnalyzerSigningKey == "" {
		slog.Warn("ANALYZER_SIGNING_KEY is not set; JSON-RPC requests are not authenticated")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := analyzer.NewServer(analyzer.New(catalog), analyzer.ServerConfig{
		SigningKey: cfg.AnalyzerSigningKey,
		APIKeyHash: cfg.AnalyzerAPIKeyHash,
		PublicURL:  cfg.AnalyzerPublicURL,
	})
	if err := srv.Serve(ctx, ":"+cfg.AnalyzerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("hint analyzer failed", logging.KeyError, err)
		os.Exit(1)
	}
}
