package events

import (
	"context"

	"snaplink/internal/availability/repository"
	"snaplink/pkg/kafka"
	"snaplink/pkg/logger"
	"snaplink/pkg/model"
	"snaplink/pkg/scheduling"
)

// ProjectionHandler keeps the booked interval projection in step with the
// booking events topic. Active bookings are upserted; any other status
// removes the interval.
type ProjectionHandler struct {
	repo repository.BookedIntervalRepository
	log  *logger.Logger
}

func NewProjectionHandler(repo repository.BookedIntervalRepository, log *logger.Logger) *ProjectionHandler {
	return &ProjectionHandler{
		repo: repo,
		log:  log.WithComponent("booked_projection"),
	}
}

func (h *ProjectionHandler) Handle(ctx context.Context, msg kafka.Message) error {
	switch msg.GetEventType() {
	case model.EventBookingCreated, model.EventBookingStatusChanged, model.EventBookingRescheduled:
	default:
		return nil
	}

	var event model.BookingEvent
	if err := msg.DecodeValue(&event); err != nil {
		return err
	}
	if event.BookingID == "" || event.PhotographerID == "" {
		return kafka.NewPermanentError("booking event without booking or photographer id", nil)
	}

	if scheduling.IsActive(event.Status) {
		if err := h.repo.Upsert(ctx, event.Interval()); err != nil {
			return kafka.NewTransientError("upsert booked interval", err)
		}
		h.log.Debug("Booked interval stored",
			"booking_id", event.BookingID,
			"photographer_id", event.PhotographerID,
			"status", event.Status,
		)
		return nil
	}

	if err := h.repo.Delete(ctx, event.BookingID); err != nil {
		return kafka.NewTransientError("delete booked interval", err)
	}
	h.log.Debug("Booked interval removed", "booking_id", event.BookingID, "status", event.Status)
	return nil
}
