package mongo

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"snaplink/internal/migrations/mongo/validators"
	"snaplink/pkg/logger"
	"snaplink/pkg/model"
)

const validationLevel = "moderate"

var (
	SlotsIndexes = []mongo.IndexModel{
		{Keys: bson.D{
			{Key: "photographer_id", Value: 1},
			{Key: "day_of_week", Value: 1},
			{Key: "start_time", Value: 1},
		}},
	}

	BookingsIndexes = []mongo.IndexModel{
		{Keys: bson.D{
			{Key: "photographer_id", Value: 1},
			{Key: "start_datetime", Value: 1},
			{Key: "end_datetime", Value: 1},
		}},
		{Keys: bson.D{
			{Key: "status", Value: 1},
			{Key: "created_at", Value: 1},
		}},
		{Keys: bson.D{
			{Key: "status", Value: 1},
			{Key: "start_datetime", Value: 1},
		}},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "start_datetime", Value: -1}}},
	}

	BookedIntervalsIndexes = []mongo.IndexModel{
		{Keys: bson.D{
			{Key: "photographer_id", Value: 1},
			{Key: "start_datetime", Value: 1},
		}},
	}

	// Locks past expires_at are reaped by the TTL monitor; Acquire also
	// takes over expired locks the monitor has not reached yet.
	ScheduleLocksIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
	}
)

type collectionDef struct {
	Indexes   []mongo.IndexModel
	Validator bson.M
}

func RunMigration(ctx context.Context, db *mongo.Database, log *logger.Logger) error {
	log.Info("Running Mongo migrations", "database", db.Name())

	collections := map[string]collectionDef{
		"Slots":              {Indexes: SlotsIndexes, Validator: validators.SlotValidator},
		"Bookings":           {Indexes: BookingsIndexes, Validator: validators.BookingValidator},
		"Locations":          {Validator: validators.LocationValidator},
		"Photographer_rates": {Validator: validators.PhotographerRateValidator},
		"Booked_intervals":   {Indexes: BookedIntervalsIndexes},
		"Schedule_locks":     {Indexes: ScheduleLocksIndexes},
	}

	for name, def := range collections {
		if err := ensureCollection(ctx, db, name, def.Validator, log); err != nil {
			return fmt.Errorf("failed to ensure collection %s: %w", name, err)
		}
		if err := ensureIndexes(ctx, db, name, def.Indexes, log); err != nil {
			return fmt.Errorf("failed to ensure indexes for %s: %w", name, err)
		}
	}

	if err := normalizeBookingStatuses(ctx, db.Collection("Bookings"), log); err != nil {
		return fmt.Errorf("failed to normalize booking statuses: %w", err)
	}

	log.Info("All migrations applied successfully")
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string, validator bson.M, log *logger.Logger) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		log.Info("Creating collection", "collection", name)
		opts := options.CreateCollection()
		if validator != nil {
			opts.SetValidator(validator).SetValidationLevel(validationLevel)
		}
		if err := db.CreateCollection(ctx, name, opts); err != nil {
			return fmt.Errorf("failed creating %s: %w", name, err)
		}
		return nil
	}

	if validator == nil {
		return nil
	}
	log.Info("Collection already exists, updating validator", "collection", name)
	command := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
		{Key: "validationLevel", Value: validationLevel},
	}
	if err := db.RunCommand(ctx, command).Err(); err != nil {
		log.Warn("Failed updating validator", "collection", name, "error", err)
	}
	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, name string, models []mongo.IndexModel, log *logger.Logger) error {
	if len(models) == 0 {
		return nil
	}
	if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
		return err
	}
	log.Info("Ensured indexes", "collection", name, "count", len(models))
	return nil
}

// normalizeBookingStatuses rewrites labels stored by older deployments
// ("CONFIRMED", "in progress", "UnderReview") to the canonical ones.
func normalizeBookingStatuses(ctx context.Context, coll *mongo.Collection, log *logger.Logger) error {
	for _, status := range model.AllBookingStatuses {
		variants := LegacyLabels(status)
		if len(variants) == 0 {
			continue
		}
		result, err := coll.UpdateMany(ctx,
			bson.M{"status": bson.M{"$in": variants}},
			bson.M{"$set": bson.M{"status": status}},
		)
		if err != nil {
			return err
		}
		if result.ModifiedCount > 0 {
			log.Info("Normalized booking status labels", "status", status, "count", result.ModifiedCount)
		}
	}
	return nil
}

// LegacyLabels lists the spellings of status that ParseBookingStatus accepts
// but that differ from the canonical label.
func LegacyLabels(status model.BookingStatus) []string {
	canonical := string(status)
	spaced := strings.ReplaceAll(canonical, "_", " ")
	joined := strings.ReplaceAll(canonical, "_", "")

	seen := map[string]bool{canonical: true}
	var out []string
	for _, v := range []string{
		strings.ToUpper(canonical), strings.ToLower(canonical),
		spaced, strings.ToUpper(spaced), strings.ToLower(spaced),
		joined, strings.ToUpper(joined), strings.ToLower(joined),
	} {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
