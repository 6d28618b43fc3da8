package events

import (
	"context"
	"fmt"
	"time"

	"snaplink/pkg/kafka"
	"snaplink/pkg/logger"
	"snaplink/pkg/middleware"
	"snaplink/pkg/model"
	"snaplink/pkg/scheduling"
)

const Source = "bookings"

// Publisher writes booking events to the booking topic and money movements
// to the wallet topic. It doubles as the lifecycle transition hook.
type Publisher struct {
	bookings kafka.Publisher
	wallet   kafka.Publisher
	log      *logger.Logger
	now      func() time.Time
}

func NewPublisher(bookings, wallet kafka.Publisher, log *logger.Logger) *Publisher {
	return &Publisher{
		bookings: bookings,
		wallet:   wallet,
		log:      log.WithComponent("booking_events"),
		now:      time.Now,
	}
}

func (p *Publisher) Publish(ctx context.Context, eventType string, booking *model.Booking, from model.BookingStatus) error {
	event := model.BookingEvent{
		BookingID:      booking.ID,
		PhotographerID: booking.PhotographerID,
		UserID:         booking.UserID,
		FromStatus:     from,
		Status:         booking.Status,
		StartDatetime:  booking.StartDatetime,
		EndDatetime:    booking.EndDatetime,
		TotalPrice:     booking.TotalPrice,
		OccurredAt:     p.now().UTC(),
	}

	msg, err := kafka.NewMessage().
		WithKey(booking.PhotographerID).
		WithEventType(eventType).
		WithSchemaVersion(model.EventSchemaVersion).
		WithSource(Source).
		WithCorrelationID(middleware.RequestIDFrom(ctx)).
		WithValue(event).
		Build()
	if err != nil {
		return fmt.Errorf("build %s event: %w", eventType, err)
	}
	if err := p.bookings.Publish(ctx, msg); err != nil {
		return fmt.Errorf("publish %s event: %w", eventType, err)
	}
	return nil
}

// OnTransition publishes the status change and, when the new status moves
// money, a wallet request for the amount held in escrow.
func (p *Publisher) OnTransition(ctx context.Context, booking *model.Booking, from, to model.BookingStatus) error {
	if err := p.Publish(ctx, model.EventBookingStatusChanged, booking, from); err != nil {
		return err
	}

	var eventType string
	switch scheduling.SideEffectOf(to) {
	case scheduling.SideEffectRefund:
		eventType = model.EventRefundRequested
	case scheduling.SideEffectReleaseEscrow:
		eventType = model.EventEscrowReleaseRequested
	default:
		return nil
	}

	event := model.WalletEvent{
		BookingID:      booking.ID,
		UserID:         booking.UserID,
		PhotographerID: booking.PhotographerID,
		Amount:         booking.EscrowBalance,
		Reason:         fmt.Sprintf("%s -> %s", from, to),
		OccurredAt:     p.now().UTC(),
	}
	msg, err := kafka.NewMessage().
		WithKey(booking.ID).
		WithEventType(eventType).
		WithSchemaVersion(model.EventSchemaVersion).
		WithSource(Source).
		WithCorrelationID(middleware.RequestIDFrom(ctx)).
		WithValue(event).
		Build()
	if err != nil {
		return fmt.Errorf("build %s event: %w", eventType, err)
	}
	if err := p.wallet.Publish(ctx, msg); err != nil {
		return fmt.Errorf("publish %s event: %w", eventType, err)
	}

	p.log.Info("Wallet request published",
		"event_type", eventType,
		"booking_id", booking.ID,
		"amount", booking.EscrowBalance,
	)
	return nil
}
