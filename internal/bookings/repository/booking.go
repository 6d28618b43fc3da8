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

	bookingserrors "snaplink/internal/bookings/errors"
	"snaplink/pkg/config"
	mongotx "snaplink/pkg/db/mongo"
	"snaplink/pkg/model"
	"snaplink/pkg/scheduling"
)

const (
	CollectionName = "Bookings"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	FindByID(ctx context.Context, id string) (*model.Booking, error)
	ListForPhotographer(ctx context.Context, photographerID string, from, to time.Time) ([]model.Booking, error)
	FindPageForPhotographer(ctx context.Context, photographerID string, from, to time.Time, limit int, offset int64) ([]model.Booking, error)
	CountForPhotographer(ctx context.Context, photographerID string, from, to time.Time) (int64, error)
	UpdateStatus(ctx context.Context, id string, from, to model.BookingStatus) (*model.Booking, error)
	UpdateSchedule(ctx context.Context, booking *model.Booking) error
	FindPendingExpirable(ctx context.Context, createdBefore, startBefore time.Time, limit int) ([]model.Booking, error)
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoBookingRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

func NewMongoBookingRepository(cfg *config.Config) BookingRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBookingRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

func (r *mongoBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	booking.CreatedAt, booking.UpdatedAt = now, now

	result, err := r.collection.InsertOne(ctx, booking)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		booking.ID = oid.Hex()
	}
	return nil
}

func (r *mongoBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	var booking model.Booking
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", bookingserrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}
	return &booking, nil
}

// ListForPhotographer returns bookings of any status that intersect [from, to).
func (r *mongoBookingRepository) ListForPhotographer(ctx context.Context, photographerID string, from, to time.Time) ([]model.Booking, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "start_datetime", Value: 1}})

	cursor, err := r.collection.Find(ctx, overlapFilter(photographerID, from, to), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings: %w", err)
	}
	defer cursor.Close(ctx)

	bookings := []model.Booking{}
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}

func (r *mongoBookingRepository) FindPageForPhotographer(ctx context.Context, photographerID string, from, to time.Time, limit int, offset int64) ([]model.Booking, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "start_datetime", Value: 1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, overlapFilter(photographerID, from, to), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings: %w", err)
	}
	defer cursor.Close(ctx)

	bookings := []model.Booking{}
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}

func (r *mongoBookingRepository) CountForPhotographer(ctx context.Context, photographerID string, from, to time.Time) (int64, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, overlapFilter(photographerID, from, to))
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}
	return count, nil
}

func overlapFilter(photographerID string, from, to time.Time) bson.M {
	return bson.M{
		"photographer_id": photographerID,
		"start_datetime":  bson.M{"$lt": to},
		"end_datetime":    bson.M{"$gt": from},
	}
}

// UpdateStatus moves a booking from one status to another only if it is
// still in from. A booking that moved in the meantime yields
// scheduling.ErrConflict.
func (r *mongoBookingRepository) UpdateStatus(ctx context.Context, id string, from, to model.BookingStatus) (*model.Booking, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	filter := bson.M{"_id": objectID, "status": from}
	update := bson.M{"$set": bson.M{
		"status":     to,
		"updated_at": time.Now().UTC().Truncate(time.Millisecond),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var booking model.Booking
	err = r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&booking)
	if err == nil {
		return &booking, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to update booking status: %w", err)
	}

	count, err := r.collection.CountDocuments(ctx, bson.M{"_id": objectID})
	if err != nil {
		return nil, fmt.Errorf("failed to check booking existence: %w", err)
	}
	if count == 0 {
		return nil, fmt.Errorf("%w: %s", bookingserrors.ErrNotFound, id)
	}
	return nil, fmt.Errorf("%w: booking %s is no longer %s", scheduling.ErrConflict, id, from)
}

// UpdateSchedule rewrites time, location and price of a booking that is
// still Pending.
func (r *mongoBookingRepository) UpdateSchedule(ctx context.Context, booking *model.Booking) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(booking.ID)
	if err != nil {
		return fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, booking.ID)
	}

	booking.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)
	set := bson.M{
		"start_datetime": booking.StartDatetime,
		"end_datetime":   booking.EndDatetime,
		"total_price":    booking.TotalPrice,
		"updated_at":     booking.UpdatedAt,
	}
	unset := bson.M{}
	if booking.LocationID != "" {
		set["location_id"] = booking.LocationID
		unset["external_location"] = ""
	} else {
		set["external_location"] = booking.ExternalLocation
		unset["location_id"] = ""
	}

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": objectID, "status": model.StatusPending},
		bson.M{"$set": set, "$unset": unset},
	)
	if err != nil {
		return fmt.Errorf("failed to update booking schedule: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: booking %s is no longer %s", scheduling.ErrConflict, booking.ID, model.StatusPending)
	}
	return nil
}

// FindPendingExpirable returns Pending bookings created before createdBefore
// or starting before startBefore, oldest first.
func (r *mongoBookingRepository) FindPendingExpirable(ctx context.Context, createdBefore, startBefore time.Time, limit int) ([]model.Booking, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"status": model.StatusPending,
		"$or": []bson.M{
			{"created_at": bson.M{"$lte": createdBefore}},
			{"start_datetime": bson.M{"$lte": startBefore}},
		},
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find expirable bookings: %w", err)
	}
	defer cursor.Close(ctx)

	bookings := []model.Booking{}
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}

func (r *mongoBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
