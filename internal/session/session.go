// Package session provides storage for in-progress puzzle sessions.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"synonymseeker/internal/models"
)

// DefaultTTL is how long an idle session is kept
const DefaultTTL = 2 * time.Hour

// ErrNotFound is returned by Mutate for unknown or expired sessions
var ErrNotFound = errors.New("session not found")

// ErrExists is returned by Create when the id is already taken
var ErrExists = errors.New("session already exists")

// MutateFunc edits a session in place. Returning an error discards the edit.
type MutateFunc func(*models.PuzzleSession) error

// Store holds puzzle sessions. Mutations of one id are serialized while
// different ids proceed in parallel.
type Store interface {
	// Create stores a new session.
	Create(ctx context.Context, s *models.PuzzleSession) error

	// Get returns a copy of the session, or nil, nil if it is unknown or expired.
	Get(ctx context.Context, id string) (*models.PuzzleSession, error)

	// Mutate applies fn atomically to the session with the given id.
	Mutate(ctx context.Context, id string, fn MutateFunc) error

	// Cleanup removes expired sessions and returns how many were dropped.
	Cleanup(ctx context.Context) (int, error)

	// Close releases resources held by the store.
	Close() error
}

// GenerateID creates a new random session identifier
func GenerateID() string {
	return uuid.New().String()
}
