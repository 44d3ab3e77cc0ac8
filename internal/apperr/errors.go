// Package apperr holds the error taxonomy shared by every domain package.
// Domain errors wrap one of these sentinels with %w so the HTTP edge can
// map them to a status code and a user-facing message.
package apperr

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrQuotaExceeded       = errors.New("quota exceeded")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrForbidden           = errors.New("forbidden")
	ErrTransactionConflict = errors.New("transaction conflict")
	ErrInvalidInput        = errors.New("invalid input")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrUnexpected          = errors.New("unexpected error")
)

// HTTPStatus maps an error to the response status code.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInsufficientStock), errors.Is(err, ErrQuotaExceeded):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrInvalidTransition), errors.Is(err, ErrTransactionConflict):
		return http.StatusConflict
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// IsDomain reports whether err is a validation failure whose message is
// safe to show to the caller.
func IsDomain(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrInsufficientStock) ||
		errors.Is(err, ErrQuotaExceeded) ||
		errors.Is(err, ErrInvalidTransition) ||
		errors.Is(err, ErrForbidden) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrUnauthorized)
}

// PublicMessage returns the text shown to the user. Domain errors keep
// their detail; conflicts and anything else get a generic notice.
func PublicMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case IsDomain(err):
		return err.Error()
	case errors.Is(err, ErrTransactionConflict):
		return "the data changed while your request was processed, please try again"
	default:
		return "something went wrong, please try again later"
	}
}
