package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"synonymseeker/internal/models"
)

// GameService is the game engine as seen by the HTTP layer
type GameService interface {
	StartGame(ctx context.Context) (*models.StartGameResponse, error)
	SubmitGuess(ctx context.Context, sessionID, guess string) (*models.GuessResponse, error)
	GiveUp(ctx context.Context, sessionID string) (*models.GiveUpResponse, error)
	GetSession(ctx context.Context, sessionID string) (*models.SessionView, error)
}

// GameHandler handles game HTTP requests
type GameHandler struct {
	games GameService
}

// NewGameHandler creates a new game handler
func NewGameHandler(games GameService) *GameHandler {
	return &GameHandler{games: games}
}

// StartGame begins a new puzzle session
func (h *GameHandler) StartGame(w http.ResponseWriter, r *http.Request) {
	resp, err := h.games.StartGame(r.Context())
	if err != nil {
		respondWithGameError(w, err, "Error starting game")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// SubmitGuess applies one guess to a session
func (h *GameHandler) SubmitGuess(w http.ResponseWriter, r *http.Request) {
	var req models.GuessRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.SessionID) == "" {
		respondWithError(w, http.StatusBadRequest, ErrSessionIDRequired, "", nil)
		return
	}

	resp, err := h.games.SubmitGuess(r.Context(), req.SessionID, req.Guess)
	if err != nil {
		respondWithGameError(w, err, "Error submitting guess")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// GiveUp ends a session and reveals the synonyms
func (h *GameHandler) GiveUp(w http.ResponseWriter, r *http.Request) {
	var req models.GiveUpRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.SessionID) == "" {
		respondWithError(w, http.StatusBadRequest, ErrSessionIDRequired, "", nil)
		return
	}

	resp, err := h.games.GiveUp(r.Context(), req.SessionID)
	if err != nil {
		respondWithGameError(w, err, "Error giving up")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetSession returns the current view of a session
func (h *GameHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if strings.TrimSpace(id) == "" {
		respondWithError(w, http.StatusBadRequest, ErrSessionIDRequired, "", nil)
		return
	}

	view, err := h.games.GetSession(r.Context(), id)
	if err != nil {
		respondWithGameError(w, err, "Error loading session")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// decodeBody reads a size-limited JSON body and writes the error response itself
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, MaxRequestBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondWithError(w, http.StatusRequestEntityTooLarge, ErrRequestTooLarge, "", nil)
			return false
		}
		respondWithError(w, http.StatusBadRequest, ErrInvalidJSON, "", nil)
		return false
	}
	return true
}
