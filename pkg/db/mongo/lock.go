package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"snaplink/pkg/logger"
	"snaplink/pkg/model"
	"snaplink/pkg/scheduling"
)

const LockCollectionName = "Schedule_locks"

// Locker is a per-key advisory lock stored as a document with a
// deterministic _id. A second holder fails on the unique _id.
type Locker interface {
	Acquire(ctx context.Context, key string) (release func(context.Context) error, err error)
}

type mongoLocker struct {
	collection *mongo.Collection
	ttl        time.Duration
	now        func() time.Time
}

func NewLocker(db *mongo.Database, ttl time.Duration) Locker {
	return &mongoLocker{
		collection: db.Collection(LockCollectionName),
		ttl:        ttl,
		now:        time.Now,
	}
}

// Acquire inserts the lock document. A held lock yields scheduling.ErrConflict.
// A lock past its expiry is taken over even if the TTL monitor has not removed
// it yet.
func (l *mongoLocker) Acquire(ctx context.Context, key string) (func(context.Context) error, error) {
	now := l.now().UTC()
	lock := &model.ScheduleLock{
		ID:        key,
		Owner:     uuid.NewString(),
		ExpiresAt: now.Add(l.ttl),
		CreatedAt: now,
	}

	_, err := l.collection.InsertOne(ctx, lock)
	if mongo.IsDuplicateKeyError(err) {
		err = l.takeOverExpired(ctx, lock, now)
	}
	if err != nil {
		return nil, err
	}

	release := func(ctx context.Context) error {
		_, err := l.collection.DeleteOne(ctx, bson.M{"_id": lock.ID, "owner": lock.Owner})
		return err
	}
	return release, nil
}

func (l *mongoLocker) takeOverExpired(ctx context.Context, lock *model.ScheduleLock, now time.Time) error {
	filter := bson.M{"_id": lock.ID, "expires_at": bson.M{"$lte": now}}
	update := bson.M{"$set": bson.M{
		"owner":      lock.Owner,
		"expires_at": lock.ExpiresAt,
		"created_at": lock.CreatedAt,
	}}

	res, err := l.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to take over expired lock %s: %w", lock.ID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: %s is locked", scheduling.ErrConflict, lock.ID)
	}
	return nil
}

// WithLock runs fn while holding key. A failed release is only logged; the
// lock expires on its own.
func WithLock(ctx context.Context, locker Locker, key string, log *logger.Logger, fn func() error) error {
	release, err := locker.Acquire(ctx, key)
	if err != nil {
		return err
	}
	defer func() {
		relCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if relErr := release(relCtx); relErr != nil {
			log.Warn("Failed to release advisory lock", "lock_id", key, "error", relErr)
		}
	}()
	return fn()
}
