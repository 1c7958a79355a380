package service

import "errors"

// ErrorCode identifies a game-level failure
type ErrorCode string

const (
	CodeSessionNotFound       ErrorCode = "SESSION_NOT_FOUND"
	CodeSessionNotActive      ErrorCode = "SESSION_NOT_ACTIVE"
	CodeWordSourceUnavailable ErrorCode = "WORD_SOURCE_UNAVAILABLE"
)

// GameError is a session or collaborator failure.
// Message is shown to players; Err is kept for logs.
type GameError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *GameError) Error() string {
	if e.Err != nil {
		return string(e.Code) + ": " + e.Message + ": " + e.Err.Error()
	}
	return string(e.Code) + ": " + e.Message
}

func (e *GameError) Unwrap() error {
	return e.Err
}

// Is matches any GameError with the same code
func (e *GameError) Is(target error) bool {
	var other *GameError
	if !errors.As(target, &other) {
		return false
	}
	return other.Code == e.Code
}

var (
	ErrSessionNotFound       = &GameError{Code: CodeSessionNotFound, Message: "Session not found"}
	ErrSessionNotActive      = &GameError{Code: CodeSessionNotActive, Message: "Game is no longer active"}
	ErrWordSourceUnavailable = &GameError{Code: CodeWordSourceUnavailable, Message: "Unable to start a new game right now. Please try again."}
)

func newGameError(sentinel *GameError, cause error) *GameError {
	return &GameError{Code: sentinel.Code, Message: sentinel.Message, Err: cause}
}

// CodeOf returns the code carried by err, if any
func CodeOf(err error) (ErrorCode, bool) {
	var gerr *GameError
	if errors.As(err, &gerr) {
		return gerr.Code, true
	}
	return "", false
}
