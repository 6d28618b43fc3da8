package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	bookingserrors "snaplink/internal/bookings/errors"
	"snaplink/pkg/config"
	mongotx "snaplink/pkg/db/mongo"
	"snaplink/pkg/model"
)

const (
	LocationCollectionName = "Locations"
	RateCollectionName     = "Photographer_rates"
)

type LocationRepository interface {
	FindByID(ctx context.Context, id string) (*model.Location, error)
}

type RateRepository interface {
	FindByPhotographer(ctx context.Context, photographerID string) (*model.PhotographerRate, error)
}

type mongoLocationRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoLocationRepository(cfg *config.Config) LocationRepository {
	return &mongoLocationRepository{
		cfg:        cfg,
		collection: cfg.Client.Mongo.Database(cfg.MongoDatabaseName).Collection(LocationCollectionName),
	}
}

func (r *mongoLocationRepository) FindByID(ctx context.Context, id string) (*model.Location, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", bookingserrors.ErrLocationNotFound, id)
	}

	var loc model.Location
	if err := r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&loc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", bookingserrors.ErrLocationNotFound, id)
		}
		return nil, fmt.Errorf("failed to find location: %w", err)
	}
	loc.Key = model.VenueKey(loc.ID)
	return &loc, nil
}

type mongoRateRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoRateRepository(cfg *config.Config) RateRepository {
	return &mongoRateRepository{
		cfg:        cfg,
		collection: cfg.Client.Mongo.Database(cfg.MongoDatabaseName).Collection(RateCollectionName),
	}
}

func (r *mongoRateRepository) FindByPhotographer(ctx context.Context, photographerID string) (*model.PhotographerRate, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var rate model.PhotographerRate
	if err := r.collection.FindOne(ctx, bson.M{"_id": photographerID}).Decode(&rate); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", bookingserrors.ErrRateNotFound, photographerID)
		}
		return nil, fmt.Errorf("failed to find photographer rate: %w", err)
	}
	return &rate, nil
}
