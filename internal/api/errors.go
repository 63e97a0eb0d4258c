package api

import (
	"errors"
	"net/http"

	"github.com/hivetech/kanban-api/internal/domain"
	"github.com/hivetech/kanban-api/internal/patch"
	"github.com/hivetech/kanban-api/internal/service"
	"github.com/hivetech/kanban-api/internal/service/auth"
	"github.com/hivetech/kanban-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status
// codes based on the error type. This prevents leaking internal error
// types or messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrUnknownSubject),
		errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized

	// Not found errors
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Stale-version conflicts on concurrent writes
	case errors.Is(err, store.ErrVersionConflict):
		return http.StatusConflict

	// Bad request errors. Duplicate account registration is a client
	// error on this surface, not a conflict.
	case errors.Is(err, store.ErrDuplicate),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, patch.ErrInvalidPatch),
		errors.Is(err, patch.ErrTestFailed):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrUnknownSubject):
		return "Authentication required"

	case errors.Is(err, service.ErrInvalidCredentials):
		return "Invalid email or password"

	case errors.Is(err, store.ErrTaskNotFound):
		return "Task not found"

	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"

	case errors.Is(err, store.ErrNotFound):
		return "Resource not found"

	case errors.Is(err, store.ErrVersionConflict):
		return "Task was modified concurrently, reload and retry"

	case errors.Is(err, store.ErrEmailExists):
		return "Email already exists"

	case errors.Is(err, patch.ErrTestFailed):
		return "Patch test operation failed"

	case errors.Is(err, patch.ErrInvalidPatch):
		return "Invalid patch format"

	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrValidation):
		return "Invalid request data"

	default:
		return "An unexpected error occurred"
	}
}
