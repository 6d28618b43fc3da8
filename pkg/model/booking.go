package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/x/bsonx/bsoncore"

	"snaplink/pkg/sanitizer"
)

type BookingStatus string

const (
	StatusPending     BookingStatus = "Pending"
	StatusConfirmed   BookingStatus = "Confirmed"
	StatusInProgress  BookingStatus = "In_Progress"
	StatusCompleted   BookingStatus = "Completed"
	StatusCancelled   BookingStatus = "Cancelled"
	StatusExpired     BookingStatus = "Expired"
	StatusUnderReview BookingStatus = "Under_Review"
)

var AllBookingStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusInProgress,
	StatusCompleted,
	StatusCancelled,
	StatusExpired,
	StatusUnderReview,
}

// ParseBookingStatus maps deployed labels and legacy spellings
// ("UNDER_REVIEW", "under review", "InProgress") to the canonical label.
func ParseBookingStatus(s string) (BookingStatus, bool) {
	key := strings.ToUpper(strings.NewReplacer("_", "", " ", "", "-", "").Replace(strings.TrimSpace(s)))
	for _, st := range AllBookingStatuses {
		if strings.ToUpper(strings.ReplaceAll(string(st), "_", "")) == key {
			return st, true
		}
	}
	return "", false
}

func (s BookingStatus) IsValid() bool {
	for _, st := range AllBookingStatuses {
		if s == st {
			return true
		}
	}
	return false
}

func (s *BookingStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if st, ok := ParseBookingStatus(raw); ok {
		*s = st
		return nil
	}
	// unknown labels are kept so the validator can report them
	*s = BookingStatus(raw)
	return nil
}

// UnmarshalBSONValue normalizes labels written by older deployments.
func (s *BookingStatus) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	if t != bsontype.String {
		return fmt.Errorf("booking status must be a string, got %s", t)
	}
	raw, _, ok := bsoncore.ReadString(data)
	if !ok {
		return fmt.Errorf("malformed booking status")
	}
	if st, ok := ParseBookingStatus(raw); ok {
		*s = st
		return nil
	}
	*s = BookingStatus(raw)
	return nil
}

type ExternalLocation struct {
	ID        string  `json:"id,omitempty" bson:"id,omitempty" validate:"omitempty,max=64"`
	Name      string  `json:"name" bson:"name" validate:"required,min=2,max=200"`
	Address   string  `json:"address" bson:"address" validate:"required,min=2,max=300"`
	Latitude  *float64 `json:"latitude,omitempty" bson:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude *float64 `json:"longitude,omitempty" bson:"longitude,omitempty" validate:"omitempty,longitude"`
}

type Booking struct {
	ID               string            `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	UserID           string            `json:"userId" bson:"user_id" validate:"required,max=64"`
	PhotographerID   string            `json:"photographerId" bson:"photographer_id" validate:"required,max=64"`
	LocationID       string            `json:"locationId,omitempty" bson:"location_id,omitempty" validate:"omitempty,mongodb"`
	ExternalLocation *ExternalLocation `json:"externalLocation,omitempty" bson:"external_location,omitempty" validate:"omitempty"`
	StartDatetime    time.Time         `json:"startDatetime" bson:"start_datetime" validate:"required"`
	EndDatetime      time.Time         `json:"endDatetime" bson:"end_datetime" validate:"required,gtfield=StartDatetime"`
	SpecialRequests  string            `json:"specialRequests,omitempty" bson:"special_requests,omitempty" validate:"omitempty,max=1000"`
	Status           BookingStatus     `json:"status" bson:"status" validate:"required,booking_status"`
	TotalPrice       float64           `json:"totalPrice" bson:"total_price" validate:"gte=0"`
	EscrowBalance    float64           `json:"escrowBalance" bson:"escrow_balance" validate:"gte=0"`
	CreatedAt        time.Time         `json:"createdAt" bson:"created_at"`
	UpdatedAt        time.Time         `json:"updatedAt" bson:"updated_at"`
}

// LocationKey identifies where a booking takes place; two bookings with the
// same key need no travel between them.
func (b *Booking) LocationKey() string {
	if b.LocationID != "" {
		return VenueKey(b.LocationID)
	}
	if b.ExternalLocation != nil {
		return b.ExternalLocation.key()
	}
	return ""
}

func VenueKey(id string) string {
	return "venue:" + id
}

func (l *ExternalLocation) key() string {
	if l.ID != "" {
		return "external:" + l.ID
	}
	return "external:" + sanitizer.SanitizeNameOrAddress(l.Name) + "|" + sanitizer.SanitizeNameOrAddress(l.Address)
}

// BookingRequest is the customer payload for quotes, creation and reschedules.
type BookingRequest struct {
	UserID           string            `json:"userId" validate:"required,max=64"`
	PhotographerID   string            `json:"photographerId" validate:"required,max=64"`
	LocationID       string            `json:"locationId,omitempty" validate:"omitempty,mongodb"`
	ExternalLocation *ExternalLocation `json:"externalLocation,omitempty" validate:"omitempty"`
	StartDatetime    time.Time         `json:"startDatetime" validate:"required"`
	EndDatetime      time.Time         `json:"endDatetime" validate:"required,gtfield=StartDatetime"`
	SpecialRequests  string            `json:"specialRequests,omitempty" validate:"omitempty,max=1000"`
}

type RescheduleRequest struct {
	LocationID       string            `json:"locationId,omitempty" validate:"omitempty,mongodb"`
	ExternalLocation *ExternalLocation `json:"externalLocation,omitempty" validate:"omitempty"`
	StartDatetime    time.Time         `json:"startDatetime" validate:"required"`
	EndDatetime      time.Time         `json:"endDatetime" validate:"required,gtfield=StartDatetime"`
}
