package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"synonymseeker/internal/models"
)

const (
	redisKeyPrefix = "synonymseeker:session:"

	// A WATCH conflict means some other writer committed, so a caller racing
	// N-1 others succeeds within N attempts.
	maxWatchAttempts = 64
)

// RedisStore keeps sessions in Redis so several game servers can share them.
// Mutate uses WATCH/MULTI on the session key, so concurrent writers to one id
// retry while other ids never contend.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// Connect opens a Redis client from a redis:// URL or a host:port address
func Connect(ctx context.Context, redisURL string) (*redis.Client, error) {
	var opts *redis.Options
	if strings.Contains(redisURL, "://") {
		parsed, err := redis.ParseURL(redisURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse redis url: %w", err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: redisURL}
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

// NewRedisStore creates a Redis-backed session store
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, ttl: ttl}
}

// Create stores a new session.
func (s *RedisStore) Create(ctx context.Context, sess *models.PuzzleSession) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	ok, err := s.client.SetNX(ctx, redisKey(sess.ID), data, s.ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	if !ok {
		return ErrExists
	}
	return nil
}

// Get returns the session.
func (s *RedisStore) Get(ctx context.Context, id string) (*models.PuzzleSession, error) {
	data, err := s.client.Get(ctx, redisKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return decodeSession(data)
}

// Mutate applies fn inside an optimistic transaction on the session key.
func (s *RedisStore) Mutate(ctx context.Context, id string, fn MutateFunc) error {
	key := redisKey(id)

	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to load session: %w", err)
		}

		sess, err := decodeSession(data)
		if err != nil {
			return err
		}
		if err := fn(sess); err != nil {
			return err
		}
		sess.UpdatedAt = time.Now()

		updated, err := json.Marshal(sess)
		if err != nil {
			return fmt.Errorf("failed to encode session: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, key, updated, s.ttl)
			return nil
		})
		return err
	}

	for attempt := 0; attempt < maxWatchAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := s.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return fmt.Errorf("failed to update session %s: too much contention", id)
}

// Cleanup is a no-op; Redis expires keys on its own.
func (s *RedisStore) Cleanup(_ context.Context) (int, error) {
	return 0, nil
}

// Close closes the Redis client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func redisKey(id string) string {
	return redisKeyPrefix + id
}

func decodeSession(data []byte) (*models.PuzzleSession, error) {
	var sess models.PuzzleSession
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	if sess.GuessedWords == nil {
		sess.GuessedWords = []string{}
	}
	return &sess, nil
}

// Verify interface compliance.
var _ Store = (*RedisStore)(nil)
