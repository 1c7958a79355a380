package analyzer

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"synonymseeker/internal/a2a"
	"synonymseeker/internal/logging"
	"synonymseeker/internal/models"
	"synonymseeker/internal/security"
	"synonymseeker/internal/validation"
)

const maxBodyBytes = 1 << 20

// ServerConfig controls authentication and the advertised URL
type ServerConfig struct {
	// SigningKey enables bearer JWT checks on the JSON-RPC endpoint
	SigningKey string
	// APIKeyHash enables X-API-Key checks on /analyze-hint
	APIKeyHash string
	// PublicURL is advertised in the agent card
	PublicURL string
}

// Server exposes the analyzer over A2A JSON-RPC and a direct JSON endpoint
type Server struct {
	analyzer *Analyzer
	cfg      ServerConfig
}

// NewServer creates the analyzer HTTP server
func NewServer(analyzer *Analyzer, cfg ServerConfig) *Server {
	return &Server{analyzer: analyzer, cfg: cfg}
}

// Router registers the analyzer routes
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(recoverMiddleware)
	r.Use(loggingMiddleware)

	r.Get("/healthz", s.healthz)
	r.Get(a2a.AgentCardPath, s.agentCard)

	r.Group(func(r chi.Router) {
		r.Use(s.bearerAuth)
		r.Post("/", s.jsonRPC)
	})

	r.Group(func(r chi.Router) {
		r.Use(s.apiKeyAuth)
		r.Post("/analyze-hint", s.analyzeHint)
	})

	return r
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) agentCard(w http.ResponseWriter, r *http.Request) {
	url := s.cfg.PublicURL
	if url == "" {
		url = security.RequestBaseURL(r)
	}

	writeJSON(w, http.StatusOK, a2a.AgentCard{
		Name:        "SynonymSeeker Hint Analyzer",
		Description: "Explains why a guess is not a synonym of the target word and nudges the player toward one.",
		URL:         url,
		Version:     "1.0.0",
		Capabilities: a2a.Capabilities{
			Streaming:         false,
			PushNotifications: false,
		},
		DefaultInputModes:  []string{"text", "data"},
		DefaultOutputModes: []string{"text"},
		Skills: []a2a.Skill{{
			ID:          "analyze-guess",
			Name:        "Analyze guess",
			Description: "Classifies an incorrect guess as a misspelling, related word, wrong form or unrelated word and returns a hint.",
			Tags:        []string{"vocabulary", "synonyms", "hints"},
		}},
	})
}

func (s *Server) jsonRPC(w http.ResponseWriter, r *http.Request) {
	var req a2a.Request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeRPCError(w, nil, a2a.CodeParseError, "Parse error")
		return
	}
	if req.JSONRPC != a2a.Version {
		writeRPCError(w, req.ID, a2a.CodeInvalidRequest, "Invalid Request")
		return
	}
	if req.Method != a2a.MethodMessageSend {
		writeRPCError(w, req.ID, a2a.CodeMethodNotFound, "Method not found")
		return
	}

	var params a2a.SendParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		writeRPCError(w, req.ID, a2a.CodeInvalidParams, "Invalid params")
		return
	}
	hintReq, ok := requestFromMessage(params.Message)
	if !ok {
		writeRPCError(w, req.ID, a2a.CodeInvalidParams, "Invalid params: guess and target_word are required")
		return
	}

	resp := s.analyzer.Analyze(hintReq)
	slog.Info("hint analyzed",
		"transport", "a2a",
		"analysis_type", resp.AnalysisType,
		"session_id", r.Header.Get(a2a.SessionHeader))

	data, _ := a2a.DataPart(resp)
	result, err := json.Marshal(a2a.Message{
		Kind:      "message",
		MessageID: uuid.NewString(),
		Role:      "agent",
		Parts:     []a2a.Part{a2a.TextPart(resp.HintText), data},
	})
	if err != nil {
		writeRPCError(w, req.ID, a2a.CodeInternalError, "Internal error")
		return
	}
	writeJSON(w, http.StatusOK, a2a.Response{JSONRPC: a2a.Version, ID: req.ID, Result: result})
}

// requestFromMessage prefers the structured data part and falls back to the text part
func requestFromMessage(msg a2a.Message) (models.HintRequest, bool) {
	var req models.HintRequest
	for _, part := range msg.Parts {
		if part.Kind == "data" && len(part.Data) > 0 {
			if err := json.Unmarshal(part.Data, &req); err == nil {
				break
			}
		}
	}
	if req.Guess == "" || req.TargetWord == "" {
		if text, ok := msg.FirstText(); ok {
			req.Guess, req.TargetWord = parsePrompt(text)
		}
	}

	req.Guess = validation.ForAnalysis(req.Guess)
	req.TargetWord = validation.ForAnalysis(req.TargetWord)
	return req, req.Guess != "" && req.TargetWord != ""
}

// parsePrompt reads "Analyze guess 'g' for target word 't'."
func parsePrompt(text string) (guess, target string) {
	parts := strings.Split(text, "'")
	if len(parts) < 5 {
		return "", ""
	}
	return parts[1], parts[3]
}

func (s *Server) analyzeHint(w http.ResponseWriter, r *http.Request) {
	var req models.HintRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}

	req.Guess = validation.ForAnalysis(req.Guess)
	req.TargetWord = validation.ForAnalysis(req.TargetWord)
	if req.Guess == "" || req.TargetWord == "" {
		writeError(w, http.StatusBadRequest, "guess and target_word are required")
		return
	}

	resp := s.analyzer.Analyze(req)
	slog.Info("hint analyzed", "transport", "direct", "analysis_type", resp.AnalysisType)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) bearerAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.SigningKey == "" {
			next.ServeHTTP(w, r)
			return
		}

		raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		if _, err := security.VerifyServiceToken(s.cfg.SigningKey, strings.TrimSpace(raw)); err != nil {
			slog.Warn("rejected analyzer token", logging.KeyError, err)
			writeError(w, http.StatusUnauthorized, "invalid bearer token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) apiKeyAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.APIKeyHash == "" {
			next.ServeHTTP(w, r)
			return
		}
		if !security.CheckAPIKey(s.cfg.APIKeyHash, r.Header.Get("X-API-Key")) {
			writeError(w, http.StatusUnauthorized, "invalid api key")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Serve runs the router until ctx is cancelled, then shuts down gracefully
func (s *Server) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("hint analyzer listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeRPCError(w http.ResponseWriter, id any, code int, message string) {
	writeJSON(w, http.StatusOK, a2a.Response{
		JSONRPC: a2a.Version,
		ID:      id,
		Error:   &a2a.Error{Code: code, Message: message},
	})
}
