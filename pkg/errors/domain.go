package errors

import (
	"errors"
	"net/http"

	"snaplink/pkg/scheduling"
)

// FromDomain maps scheduling engine errors onto API errors. resource names
// the entity in not-found messages.
func FromDomain(err error, resource string) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var list scheduling.ValidationErrors
	if errors.As(err, &list) {
		return Validation("validation failed", map[string]any{"errors": list})
	}
	var single scheduling.ValidationError
	if errors.As(err, &single) {
		return Validation("validation failed", map[string]any{"errors": scheduling.ValidationErrors{single}})
	}

	var illegal *scheduling.IllegalTransitionError
	if errors.As(err, &illegal) {
		return IllegalTransition(string(illegal.From), string(illegal.To), err)
	}

	switch {
	case errors.Is(err, scheduling.ErrConflict):
		return Retryable(resource+" was modified concurrently, retry the request", err)
	case errors.Is(err, scheduling.ErrNotFound):
		return Wrap(err, CodeNotFound, resource+" not found", http.StatusNotFound)
	case errors.Is(err, scheduling.ErrInvalidDuration), errors.Is(err, scheduling.ErrInvalidRate):
		return Validation(err.Error(), nil)
	}
	return Internal("An unexpected error occurred", err)
}
