package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"synonymseeker/internal/models"
)

// MemoryStore keeps sessions in process memory with a sliding TTL.
// The map lock only guards lookup and insertion; each entry has its own
// mutex so a slow mutation never blocks other sessions.
type MemoryStore struct {
	mu       sync.RWMutex
	entries  map[string]*entry
	ttl      time.Duration
	now      func() time.Time
	cancel   context.CancelFunc
	done     chan struct{}
	closeMux sync.Mutex
}

type entry struct {
	mu        sync.Mutex
	session   *models.PuzzleSession
	expiresAt time.Time
	removed   bool
}

// NewMemoryStore creates an in-memory session store
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		entries: make(map[string]*entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Create stores a new session.
func (s *MemoryStore) Create(_ context.Context, sess *models.PuzzleSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[sess.ID]; ok && !s.expired(e) {
		return ErrExists
	}

	s.entries[sess.ID] = &entry{
		session:   sess.Clone(),
		expiresAt: s.now().Add(s.ttl),
	}
	return nil
}

// Get returns a copy of the session.
func (s *MemoryStore) Get(_ context.Context, id string) (*models.PuzzleSession, error) {
	e := s.lookup(id)
	if e == nil {
		return nil, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.removed || s.now().After(e.expiresAt) {
		return nil, nil
	}
	return e.session.Clone(), nil
}

// Mutate runs fn on a copy of the session under the session's own lock and
// commits the copy only when fn succeeds.
func (s *MemoryStore) Mutate(ctx context.Context, id string, fn MutateFunc) error {
	e := s.lookup(id)
	if e == nil {
		return ErrNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	now := s.now()
	if e.removed || now.After(e.expiresAt) {
		return ErrNotFound
	}

	working := e.session.Clone()
	if err := fn(working); err != nil {
		return err
	}

	working.UpdatedAt = now
	e.session = working
	e.expiresAt = now.Add(s.ttl)
	return nil
}

// Cleanup removes expired sessions.
func (s *MemoryStore) Cleanup(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	now := s.now()
	for id, e := range s.entries {
		e.mu.Lock()
		if now.After(e.expiresAt) {
			e.removed = true
			delete(s.entries, id)
			removed++
		}
		e.mu.Unlock()
	}
	return removed, nil
}

// Len returns the number of stored sessions, expired ones included
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// StartCleanupRoutine evicts expired sessions every interval until Close is called.
func (s *MemoryStore) StartCleanupRoutine(interval time.Duration) {
	s.closeMux.Lock()
	defer s.closeMux.Unlock()

	if s.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				n, _ := s.Cleanup(ctx)
				if n > 0 {
					slog.Debug("expired sessions removed", "count", n)
				}
			}
		}
	}()
}

// Close stops the cleanup routine, if running.
func (s *MemoryStore) Close() error {
	s.closeMux.Lock()
	defer s.closeMux.Unlock()

	if s.cancel != nil {
		s.cancel()
		<-s.done
		s.cancel = nil
	}
	return nil
}

func (s *MemoryStore) lookup(id string) *entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entries[id]
}

// expired must be called with s.mu held.
func (s *MemoryStore) expired(e *entry) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.removed || s.now().After(e.expiresAt)
}

// Verify interface compliance.
var _ Store = (*MemoryStore)(nil)
