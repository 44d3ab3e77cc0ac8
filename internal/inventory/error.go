package inventory

import (
	"fmt"

	"ration-be/internal/apperr"
)

var (
	ErrItemNotFound        = fmt.Errorf("inventory item %w", apperr.ErrNotFound)
	ErrInvalidItem         = fmt.Errorf("%w: invalid inventory item", apperr.ErrInvalidInput)
	ErrUnsupportedDocument = fmt.Errorf("%w: unsupported prices document", apperr.ErrUnexpected)
	ErrConcurrentUpdate    = fmt.Errorf("inventory item changed concurrently: %w", apperr.ErrTransactionConflict)
)
