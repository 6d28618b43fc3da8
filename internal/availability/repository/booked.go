package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"snaplink/pkg/config"
	mongotx "snaplink/pkg/db/mongo"
	"snaplink/pkg/model"
)

const (
	BookedCollectionName = "Booked_intervals"
)

// BookedIntervalRepository stores the availability side copy of active
// bookings, fed from booking events.
type BookedIntervalRepository interface {
	Upsert(ctx context.Context, interval model.BookedInterval) error
	Delete(ctx context.Context, bookingID string) error
	ListForPhotographer(ctx context.Context, photographerID string, from, to time.Time) ([]model.BookedInterval, error)
}

type mongoBookedIntervalRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoBookedIntervalRepository(cfg *config.Config) BookedIntervalRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBookedIntervalRepository{
		cfg:        cfg,
		collection: db.Collection(BookedCollectionName),
	}
}

func (r *mongoBookedIntervalRepository) Upsert(ctx context.Context, interval model.BookedInterval) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	_, err := r.collection.ReplaceOne(ctx,
		bson.M{"_id": interval.BookingID},
		interval,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert booked interval %s: %w", interval.BookingID, err)
	}
	return nil
}

// Delete is idempotent; replayed events may remove an interval twice.
func (r *mongoBookedIntervalRepository) Delete(ctx context.Context, bookingID string) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if _, err := r.collection.DeleteOne(ctx, bson.M{"_id": bookingID}); err != nil {
		return fmt.Errorf("failed to delete booked interval %s: %w", bookingID, err)
	}
	return nil
}

func (r *mongoBookedIntervalRepository) ListForPhotographer(ctx context.Context, photographerID string, from, to time.Time) ([]model.BookedInterval, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"photographer_id": photographerID,
		"start_datetime":  bson.M{"$lt": to},
		"end_datetime":    bson.M{"$gt": from},
	}
	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "start_datetime", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to find booked intervals: %w", err)
	}
	defer cursor.Close(ctx)

	intervals := []model.BookedInterval{}
	if err = cursor.All(ctx, &intervals); err != nil {
		return nil, fmt.Errorf("failed to decode booked intervals: %w", err)
	}
	return intervals, nil
}
