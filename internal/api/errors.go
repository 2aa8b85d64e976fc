package api

import (
	"errors"
	"net/http"

	"github.com/dstreet/taskhub/internal/domain"
	"github.com/dstreet/taskhub/internal/service/auth"
	"github.com/dstreet/taskhub/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrMissingToken):
		return http.StatusUnauthorized

	// Not found errors
	case errors.Is(err, store.ErrUserNotFound),
		errors.Is(err, store.ErrTaskNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Semantic validation errors
	case errors.Is(err, store.ErrEmailExists),
		errors.Is(err, store.ErrInvalidEntity),
		isDomainValidationError(err):
		return http.StatusUnprocessableEntity

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	// Handle nil error
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrMissingToken):
		return "Invalid or expired authentication token"

	// Conflict on signup
	case errors.Is(err, store.ErrEmailExists):
		return "Email already exists"

	// Not found errors
	case errors.Is(err, store.ErrTaskNotFound):
		return "Task not found"
	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"
	case errors.Is(err, store.ErrNotFound):
		return "Resource not found"

	// Domain validation messages are already written for clients
	case isDomainValidationError(err), errors.Is(err, store.ErrInvalidEntity):
		return err.Error()

	// Default: generic message that doesn't leak internals
	default:
		return "An unexpected error occurred"
	}
}

// isDomainValidationError reports whether err is one of the domain layer's
// field validation errors.
func isDomainValidationError(err error) bool {
	validationErrors := []error{
		domain.ErrEmptyUserID,
		domain.ErrInvalidEmail,
		domain.ErrEmptyEmail,
		domain.ErrPasswordTooShort,
		domain.ErrPasswordTooLong,
		domain.ErrEmptyPassword,
		domain.ErrEmptyHashedPassword,
		domain.ErrEmptyTaskID,
		domain.ErrEmptyTaskOwner,
		domain.ErrEmptyTitle,
		domain.ErrTitleTooLong,
		domain.ErrDescriptionTooLong,
	}
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
