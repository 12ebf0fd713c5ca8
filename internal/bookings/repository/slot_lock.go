package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	bookingerrors "communityportal/internal/bookings/errors"
	"communityportal/pkg/config"
	"communityportal/pkg/model"
)

const LockCollectionName = "Slot_locks"

// SlotLockRepository provides the advisory locks taken around the booking
// conflict check. Acquisition is an insert against a unique _id; the
// duplicate-key rejection is what makes two concurrent holders impossible.
type SlotLockRepository interface {
	Acquire(ctx context.Context, lock *model.SlotLock) error
	Release(ctx context.Context, lockID string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type mongoSlotLockRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewSlotLockRepository(cfg *config.Config) SlotLockRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoSlotLockRepository{
		cfg:        cfg,
		collection: db.Collection(LockCollectionName),
	}
}

func (r *mongoSlotLockRepository) Acquire(ctx context.Context, lock *model.SlotLock) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	lock.CreatedAt = time.Now().UTC()

	if _, err := r.collection.InsertOne(ctx, lock); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return bookingerrors.ErrLockHeld
		}
		return fmt.Errorf("failed to acquire slot lock: %w", err)
	}
	return nil
}

func (r *mongoSlotLockRepository) Release(ctx context.Context, lockID string) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": lockID})
	return err
}

// DeleteExpired prunes locks whose holders never released them. The TTL
// index does this too; the sweep keeps the collection tidy when the TTL
// monitor lags.
func (r *mongoSlotLockRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.DeleteMany(ctx, bson.M{"expires_at": bson.M{"$lt": now}})
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired slot locks: %w", err)
	}
	return result.DeletedCount, nil
}
