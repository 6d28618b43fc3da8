package model

import "time"

const (
	EventBookingCreated         = "booking.created"
	EventBookingStatusChanged   = "booking.status_changed"
	EventBookingRescheduled     = "booking.rescheduled"
	EventRefundRequested        = "wallet.refund_requested"
	EventEscrowReleaseRequested = "wallet.escrow_release_requested"

	EventSchemaVersion = "1"
)

// BookingEvent is published on every booking write. Events are keyed by
// photographer id so one photographer's events stay ordered.
type BookingEvent struct {
	BookingID      string        `json:"bookingId"`
	PhotographerID string        `json:"photographerId"`
	UserID         string        `json:"userId"`
	FromStatus     BookingStatus `json:"fromStatus,omitempty"`
	Status         BookingStatus `json:"status"`
	StartDatetime  time.Time     `json:"startDatetime"`
	EndDatetime    time.Time     `json:"endDatetime"`
	TotalPrice     float64       `json:"totalPrice"`
	OccurredAt     time.Time     `json:"occurredAt"`
}

func (e BookingEvent) Interval() BookedInterval {
	return BookedInterval{
		BookingID:      e.BookingID,
		PhotographerID: e.PhotographerID,
		Start:          e.StartDatetime,
		End:            e.EndDatetime,
		Status:         e.Status,
	}
}

// WalletEvent asks the wallet service to move money for a booking.
type WalletEvent struct {
	BookingID      string    `json:"bookingId"`
	UserID         string    `json:"userId"`
	PhotographerID string    `json:"photographerId"`
	Amount         float64   `json:"amount"`
	Reason         string    `json:"reason"`
	OccurredAt     time.Time `json:"occurredAt"`
}
