package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"synonymseeker/internal/logging"
	"synonymseeker/internal/service"
	"synonymseeker/internal/validation"
)

// errorBody is the JSON shape of every error response
type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to encode response", logging.KeyError, err)
	}
}

func respondWithError(w http.ResponseWriter, status int, userMsg, logMsg string, err error) {
	respondWithCode(w, status, "", userMsg, logMsg, err)
}

func respondWithCode(w http.ResponseWriter, status int, code, userMsg, logMsg string, err error) {
	if err != nil {
		if logMsg == "" {
			logMsg = userMsg
		}
		slog.Error(logMsg, "status", status, logging.KeyError, err)
	}

	writeJSON(w, status, errorBody{Error: userMsg, Code: code})
}

// respondWithGameError maps validation and game errors to their status codes.
// Anything unrecognized is logged and reported as a 500.
func respondWithGameError(w http.ResponseWriter, err error, logMsg string) {
	var verr *validation.Error
	if errors.As(err, &verr) {
		respondWithCode(w, http.StatusBadRequest, string(verr.Kind), verr.Message, "", nil)
		return
	}

	var gerr *service.GameError
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case service.CodeSessionNotFound:
			respondWithCode(w, http.StatusNotFound, string(gerr.Code), gerr.Message, "", nil)
		case service.CodeSessionNotActive:
			respondWithCode(w, http.StatusConflict, string(gerr.Code), gerr.Message, "", nil)
		case service.CodeWordSourceUnavailable:
			respondWithCode(w, http.StatusServiceUnavailable, string(gerr.Code), gerr.Message, logMsg, err)
		default:
			respondWithCode(w, http.StatusInternalServerError, string(gerr.Code), gerr.Message, logMsg, err)
		}
		return
	}

	respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, logMsg, err)
}
