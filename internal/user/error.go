package user

import (
	"fmt"

	"ration-be/internal/apperr"
)

var (
	ErrEmailExists        = fmt.Errorf("%w: email already registered", apperr.ErrInvalidInput)
	ErrInvalidCredentials = fmt.Errorf("%w: invalid email or password", apperr.ErrUnauthorized)
	ErrWeakPassword       = fmt.Errorf("%w: password must be at least 8 characters", apperr.ErrInvalidInput)
	ErrInvalidEmail       = fmt.Errorf("%w: invalid email", apperr.ErrInvalidInput)
	ErrAdminNotFound      = fmt.Errorf("admin %w", apperr.ErrNotFound)

	// -- Constants (External Systems) --
	PgUniqueViolation = "23505"
)
