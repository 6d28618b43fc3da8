package service

import (
	"context"
	"errors"

	"snaplink/internal/bookings/repository"
	"snaplink/pkg/model"
)

var errNoLocation = errors.New("booking has neither a venue nor an external location")

// VenueResolver resolves venues through the location collection and
// uses external places as submitted.
type VenueResolver struct {
	locations repository.LocationRepository
}

func NewLocationResolver(locations repository.LocationRepository) *VenueResolver {
	return &VenueResolver{locations: locations}
}

func (r *VenueResolver) ResolveLocation(ctx context.Context, booking *model.Booking) (model.Location, error) {
	switch {
	case booking.LocationID != "":
		loc, err := r.locations.FindByID(ctx, booking.LocationID)
		if err != nil {
			return model.Location{}, err
		}
		return *loc, nil
	case booking.ExternalLocation != nil:
		return booking.ExternalLocation.ToLocation(), nil
	}
	return model.Location{}, errNoLocation
}
