package customer

import (
	"fmt"

	"ration-be/internal/apperr"
)

var (
	ErrCustomerNotFound    = fmt.Errorf("customer %w", apperr.ErrNotFound)
	ErrNationalIDExists    = fmt.Errorf("%w: national id already registered", apperr.ErrInvalidInput)
	ErrInvalidCustomer     = fmt.Errorf("%w: invalid customer", apperr.ErrInvalidInput)
	ErrCardTypeLocked      = fmt.Errorf("%w: card type cannot change once orders exist", apperr.ErrForbidden)
	ErrCustomerInUse       = fmt.Errorf("%w: customer with orders or issues cannot be deleted", apperr.ErrForbidden)
	ErrIdentityMismatch    = fmt.Errorf("%w: customer identity could not be verified", apperr.ErrUnauthorized)
	ErrUnsupportedDocument = fmt.Errorf("%w: unsupported family members document", apperr.ErrUnexpected)
	ErrConcurrentUpdate    = fmt.Errorf("customer changed concurrently: %w", apperr.ErrTransactionConflict)

	// -- Constants (External Systems) --
	PgUniqueViolation     = "23505"
	PgForeignKeyViolation = "23503"
)
