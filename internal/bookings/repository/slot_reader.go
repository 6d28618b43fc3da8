package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"snaplink/pkg/config"
	mongotx "snaplink/pkg/db/mongo"
	"snaplink/pkg/model"
)

// SlotCollectionName is owned by the availability service; bookings only read it.
const SlotCollectionName = "Slots"

type SlotReader interface {
	ListByPhotographerAndDay(ctx context.Context, photographerID string, day model.DayOfWeek) ([]model.Slot, error)
}

type mongoSlotReader struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoSlotReader(cfg *config.Config) SlotReader {
	return &mongoSlotReader{
		cfg:        cfg,
		collection: cfg.Client.Mongo.Database(cfg.MongoDatabaseName).Collection(SlotCollectionName),
	}
}

func (r *mongoSlotReader) ListByPhotographerAndDay(ctx context.Context, photographerID string, day model.DayOfWeek) ([]model.Slot, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{"photographer_id": photographerID, "day_of_week": day})
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
