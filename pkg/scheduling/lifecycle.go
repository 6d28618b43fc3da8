package scheduling

import (
	"context"
	"time"

	"snaplink/pkg/model"
)

var transitions = map[model.BookingStatus][]model.BookingStatus{
	model.StatusPending:     {model.StatusConfirmed, model.StatusCancelled, model.StatusExpired},
	model.StatusConfirmed:   {model.StatusInProgress, model.StatusUnderReview, model.StatusCancelled},
	model.StatusInProgress:  {model.StatusCompleted, model.StatusUnderReview},
	model.StatusUnderReview: {model.StatusCancelled},
	model.StatusCompleted:   {},
	model.StatusCancelled:   {},
	model.StatusExpired:     {},
}

func CanTransition(from, to model.BookingStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition returns nil when from -> to is in the lifecycle table and an
// *IllegalTransitionError otherwise.
func Transition(from, to model.BookingStatus) error {
	if !CanTransition(from, to) {
		return &IllegalTransitionError{From: from, To: to}
	}
	return nil
}

// NextStatuses lists the statuses reachable from s in one step.
func NextStatuses(s model.BookingStatus) []model.BookingStatus {
	next := make([]model.BookingStatus, len(transitions[s]))
	copy(next, transitions[s])
	return next
}

func IsTerminal(s model.BookingStatus) bool {
	next, known := transitions[s]
	return known && len(next) == 0
}

func CanCancel(s model.BookingStatus) bool {
	return s == model.StatusPending || s == model.StatusConfirmed
}

func CanComplete(s model.BookingStatus) bool {
	return s == model.StatusConfirmed || s == model.StatusInProgress
}

func CanConfirm(s model.BookingStatus) bool {
	return s == model.StatusPending
}

func CanFileComplaint(s model.BookingStatus) bool {
	return s == model.StatusConfirmed || s == model.StatusInProgress
}

func CanCancelWithRefund(s model.BookingStatus) bool {
	return s == model.StatusUnderReview
}

// CanReschedule: time and location edits are only allowed before confirmation.
func CanReschedule(s model.BookingStatus) bool {
	return s == model.StatusPending
}

// IsActive reports whether a booking in status s still holds the photographer's time.
func IsActive(s model.BookingStatus) bool {
	switch s {
	case model.StatusPending, model.StatusConfirmed, model.StatusInProgress, model.StatusUnderReview:
		return true
	}
	return false
}

type SideEffect string

const (
	SideEffectNone          SideEffect = ""
	SideEffectRefund        SideEffect = "refund"
	SideEffectReleaseEscrow SideEffect = "release_escrow"
)

// SideEffectOf names the money movement that entering status to triggers.
func SideEffectOf(to model.BookingStatus) SideEffect {
	switch to {
	case model.StatusCancelled:
		return SideEffectRefund
	case model.StatusCompleted:
		return SideEffectReleaseEscrow
	}
	return SideEffectNone
}

// TransitionHook is notified after a transition has been persisted.
type TransitionHook interface {
	OnTransition(ctx context.Context, booking *model.Booking, from, to model.BookingStatus) error
}

type TransitionHookFunc func(ctx context.Context, booking *model.Booking, from, to model.BookingStatus) error

func (f TransitionHookFunc) OnTransition(ctx context.Context, booking *model.Booking, from, to model.BookingStatus) error {
	return f(ctx, booking, from, to)
}

// IsExpired reports whether a pending booking has waited past ttl for
// confirmation or its start time has already passed.
func IsExpired(b *model.Booking, now time.Time, ttl time.Duration) bool {
	if b.Status != model.StatusPending {
		return false
	}
	if !b.StartDatetime.After(now) {
		return true
	}
	return ttl > 0 && !b.CreatedAt.IsZero() && !b.CreatedAt.Add(ttl).After(now)
}
