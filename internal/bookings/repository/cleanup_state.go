package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const cleanupStateKey = "bookings:cleanup:last_run"

// CleanupStateStore shares the time of the last expiry sweep between replicas.
type CleanupStateStore interface {
	LastCleanupAt(ctx context.Context) (time.Time, error)
	SetLastCleanupAt(ctx context.Context, t time.Time) error
}

type redisCleanupStateStore struct {
	rdb *redis.Client
}

func NewRedisCleanupStateStore(rdb *redis.Client) CleanupStateStore {
	return &redisCleanupStateStore{rdb: rdb}
}

// LastCleanupAt returns the zero time when no sweep has been recorded.
func (s *redisCleanupStateStore) LastCleanupAt(ctx context.Context) (time.Time, error) {
	raw, err := s.rdb.Get(ctx, cleanupStateKey).Result()
	if errors.Is(err, redis.Nil) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to read cleanup state: %w", err)
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse cleanup state %q: %w", raw, err)
	}
	return t, nil
}

func (s *redisCleanupStateStore) SetLastCleanupAt(ctx context.Context, t time.Time) error {
	if err := s.rdb.Set(ctx, cleanupStateKey, t.UTC().Format(time.RFC3339Nano), 0).Err(); err != nil {
		return fmt.Errorf("failed to store cleanup state: %w", err)
	}
	return nil
}
