package model

import "time"

// Location is a resolved place with coordinates, either an internal venue or
// a customer supplied external place.
type Location struct {
	ID         string   `json:"id,omitempty" bson:"_id,omitempty"`
	Key        string   `json:"-" bson:"-"`
	Name       string   `json:"name" bson:"name"`
	Address    string   `json:"address" bson:"address"`
	Latitude   float64  `json:"latitude" bson:"latitude"`
	Longitude  float64  `json:"longitude" bson:"longitude"`
	HourlyRate *float64 `json:"hourlyRate,omitempty" bson:"hourly_rate,omitempty"`

	// Unplaced is set for external places submitted without coordinates.
	Unplaced bool `json:"-" bson:"-"`
}

func (l *ExternalLocation) ToLocation() Location {
	loc := Location{
		ID:      l.ID,
		Key:     l.key(),
		Name:    l.Name,
		Address: l.Address,
	}
	if l.Latitude == nil || l.Longitude == nil {
		loc.Unplaced = true
		return loc
	}
	loc.Latitude, loc.Longitude = *l.Latitude, *l.Longitude
	return loc
}

type PhotographerRate struct {
	PhotographerID string  `json:"photographerId" bson:"_id"`
	HourlyRate     float64 `json:"hourlyRate" bson:"hourly_rate"`
}

// BookedInterval is the availability side projection of an active booking.
type BookedInterval struct {
	BookingID      string        `json:"bookingId" bson:"_id"`
	PhotographerID string        `json:"photographerId" bson:"photographer_id"`
	Start          time.Time     `json:"startDatetime" bson:"start_datetime"`
	End            time.Time     `json:"endDatetime" bson:"end_datetime"`
	Status         BookingStatus `json:"status" bson:"status"`
}
