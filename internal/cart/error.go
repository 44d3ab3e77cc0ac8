package cart

import (
	"fmt"

	"ration-be/internal/apperr"
)

var (
	ErrInvalidQuantity  = fmt.Errorf("%w: invalid cart quantity", apperr.ErrInvalidInput)
	ErrCartItemNotFound = fmt.Errorf("cart item %w", apperr.ErrNotFound)
	ErrCartEmpty        = fmt.Errorf("%w: cart is empty", apperr.ErrInvalidInput)
)
