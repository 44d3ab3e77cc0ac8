package order

import (
	"fmt"

	"ration-be/internal/apperr"
)

var (
	ErrOrderNotFound      = fmt.Errorf("order %w", apperr.ErrNotFound)
	ErrCommodityNotFound  = fmt.Errorf("commodity %w", apperr.ErrNotFound)
	ErrCustomerNotFound   = fmt.Errorf("customer %w", apperr.ErrNotFound)
	ErrEmptyOrder         = fmt.Errorf("%w: order has no items", apperr.ErrInvalidInput)
	ErrInvalidLine        = fmt.Errorf("%w: invalid order line", apperr.ErrInvalidInput)
	ErrNotPriced          = fmt.Errorf("%w: commodity is not priced for this card type", apperr.ErrInvalidInput)
	ErrInsufficientStock  = fmt.Errorf("not enough stock: %w", apperr.ErrInsufficientStock)
	ErrQuotaExceeded      = fmt.Errorf("monthly quota exceeded: %w", apperr.ErrQuotaExceeded)
	ErrCardTypeMismatch   = fmt.Errorf("%w: card type does not match customer record", apperr.ErrForbidden)
	ErrNotOwner           = fmt.Errorf("%w: order belongs to another customer", apperr.ErrForbidden)
	ErrSelfServiceDenied  = fmt.Errorf("%w: only pending orders can be cancelled by the customer", apperr.ErrForbidden)
	ErrInvalidTransition  = fmt.Errorf("order %w", apperr.ErrInvalidTransition)
	ErrUnknownStatus      = fmt.Errorf("%w: unknown order status", apperr.ErrInvalidInput)
	ErrStaleInventory     = fmt.Errorf("inventory changed during transaction: %w", apperr.ErrTransactionConflict)
	ErrStaleCustomer      = fmt.Errorf("customer changed during transaction: %w", apperr.ErrTransactionConflict)
	ErrStaleStatus        = fmt.Errorf("order status changed during transaction: %w", apperr.ErrTransactionConflict)
	ErrCorruptOrderRecord = fmt.Errorf("%w: unreadable order record", apperr.ErrUnexpected)
)
