package scheduling

import (
	"errors"
	"fmt"
	"strings"

	"snaplink/pkg/model"
)

var (
	ErrInvalidRange      = errors.New("end time must be after start time")
	ErrTimeOverlap       = errors.New("time range overlaps an existing one")
	ErrEmptySchedule     = errors.New("at least one enabled day with a slot is required")
	ErrIllegalTransition = errors.New("illegal booking status transition")
	ErrInvalidDuration   = errors.New("duration must be greater than zero")
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("concurrent modification detected")

	ErrMissingTime   = errors.New("time is required")
	ErrMalformedTime = errors.New("time must be in HH:MM:SS format")
	ErrInvalidDay    = errors.New("day of week must be between 0 (Sunday) and 6 (Saturday)")
	ErrInvalidRate   = errors.New("hourly rate cannot be negative")
)

var kindCodes = map[error]string{
	ErrInvalidRange:  "INVALID_RANGE",
	ErrTimeOverlap:   "TIME_OVERLAP",
	ErrEmptySchedule: "EMPTY_SCHEDULE",
	ErrMissingTime:   "MISSING_TIME",
	ErrMalformedTime: "MALFORMED_TIME",
	ErrInvalidDay:    "INVALID_DAY",
}

type ValidationError struct {
	Kind      error            `json:"-"`
	Code      string           `json:"code"`
	Field     string           `json:"field,omitempty"`
	Message   string           `json:"message"`
	DayOfWeek *model.DayOfWeek `json:"dayOfWeek,omitempty"`
	SlotID    string           `json:"slotId,omitempty"`
}

func newValidationError(kind error, field, message string) ValidationError {
	return ValidationError{
		Kind:    kind,
		Code:    kindCodes[kind],
		Field:   field,
		Message: message,
	}
}

func (v ValidationError) onDay(day model.DayOfWeek) ValidationError {
	v.DayOfWeek = &day
	return v
}

func (v ValidationError) Error() string {
	if v.Field == "" {
		return v.Message
	}
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

func (v ValidationError) Unwrap() error {
	return v.Kind
}

// ValidationErrors is the full list of problems found for one submission.
// An empty list means the input is admissible.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	messages := make([]string, 0, len(v))
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

func (v ValidationErrors) Unwrap() []error {
	errs := make([]error, 0, len(v))
	for _, err := range v {
		errs = append(errs, err)
	}
	return errs
}

// Err returns nil for an empty list so callers can use the usual err != nil check.
func (v ValidationErrors) Err() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

type IllegalTransitionError struct {
	From model.BookingStatus
	To   model.BookingStatus
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("%s: %s -> %s", ErrIllegalTransition, e.From, e.To)
}

func (e *IllegalTransitionError) Unwrap() error {
	return ErrIllegalTransition
}
