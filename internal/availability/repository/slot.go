package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	availabilityerrors "snaplink/internal/availability/errors"
	"snaplink/pkg/config"
	mongotx "snaplink/pkg/db/mongo"
	"snaplink/pkg/model"
)

const (
	SlotCollectionName = "Slots"
)

type SlotRepository interface {
	Create(ctx context.Context, slot *model.Slot) error
	CreateMany(ctx context.Context, slots []model.Slot) error
	FindByID(ctx context.Context, id string) (*model.Slot, error)
	Update(ctx context.Context, slot *model.Slot) error
	Delete(ctx context.Context, id string) error
	DeleteAllForPhotographer(ctx context.Context, photographerID string) (int64, error)
	ListByPhotographer(ctx context.Context, photographerID string) ([]model.Slot, error)
	ListByPhotographerAndDay(ctx context.Context, photographerID string, day model.DayOfWeek) ([]model.Slot, error)
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoSlotRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

func NewMongoSlotRepository(cfg *config.Config) SlotRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoSlotRepository{
		cfg:        cfg,
		collection: db.Collection(SlotCollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

func (r *mongoSlotRepository) Create(ctx context.Context, slot *model.Slot) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	slot.CreatedAt, slot.UpdatedAt = now, now

	result, err := r.collection.InsertOne(ctx, slot)
	if err != nil {
		return fmt.Errorf("failed to create slot: %w", err)
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		slot.ID = oid.Hex()
	}
	return nil
}

func (r *mongoSlotRepository) CreateMany(ctx context.Context, slots []model.Slot) error {
	if len(slots) == 0 {
		return nil
	}
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	docs := make([]any, len(slots))
	for i := range slots {
		slots[i].ID = ""
		slots[i].CreatedAt, slots[i].UpdatedAt = now, now
		docs[i] = slots[i]
	}

	result, err := r.collection.InsertMany(ctx, docs)
	if err != nil {
		return fmt.Errorf("failed to create slots: %w", err)
	}
	for i, id := range result.InsertedIDs {
		if oid, ok := id.(primitive.ObjectID); ok {
			slots[i].ID = oid.Hex()
		}
	}
	return nil
}

func (r *mongoSlotRepository) FindByID(ctx context.Context, id string) (*model.Slot, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", availabilityerrors.ErrInvalidID, id)
	}

	var slot model.Slot
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&slot)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", availabilityerrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to find slot: %w", err)
	}
	return &slot, nil
}

// Update replaces the mutable fields. photographer_id is never written.
func (r *mongoSlotRepository) Update(ctx context.Context, slot *model.Slot) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(slot.ID)
	if err != nil {
		return fmt.Errorf("%w: %s", availabilityerrors.ErrInvalidID, slot.ID)
	}

	slot.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)
	update := bson.M{
		"$set": bson.M{
			"day_of_week": slot.DayOfWeek,
			"start_time":  slot.StartTime,
			"end_time":    slot.EndTime,
			"status":      slot.Status,
			"updated_at":  slot.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to update slot: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: %s", availabilityerrors.ErrNotFound, slot.ID)
	}
	return nil
}

func (r *mongoSlotRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", availabilityerrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete slot: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%w: %s", availabilityerrors.ErrNotFound, id)
	}
	return nil
}

func (r *mongoSlotRepository) DeleteAllForPhotographer(ctx context.Context, photographerID string) (int64, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.DeleteMany(ctx, bson.M{"photographer_id": photographerID})
	if err != nil {
		return 0, fmt.Errorf("failed to delete slots for photographer %s: %w", photographerID, err)
	}
	return result.DeletedCount, nil
}

func (r *mongoSlotRepository) ListByPhotographer(ctx context.Context, photographerID string) ([]model.Slot, error) {
	return r.find(ctx, bson.M{"photographer_id": photographerID})
}

func (r *mongoSlotRepository) ListByPhotographerAndDay(ctx context.Context, photographerID string, day model.DayOfWeek) ([]model.Slot, error) {
	return r.find(ctx, bson.M{"photographer_id": photographerID, "day_of_week": day})
}

func (r *mongoSlotRepository) find(ctx context.Context, filter bson.M) ([]model.Slot, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{
		{Key: "day_of_week", Value: 1},
		{Key: "start_time", Value: 1},
	})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find slots: %w", err)
	}
	defer cursor.Close(ctx)

	slots := []model.Slot{}
	if err = cursor.All(ctx, &slots); err != nil {
		return nil, fmt.Errorf("failed to decode slots: %w", err)
	}
	return slots, nil
}

func (r *mongoSlotRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
