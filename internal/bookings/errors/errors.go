package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	ErrLocationNotFound = errors.New("location not found")

	ErrRateNotFound = errors.New("photographer rate not found")
)
