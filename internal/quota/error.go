package quota

import (
	"fmt"

	"ration-be/internal/apperr"
)

var (
	ErrQuotaNotFound = fmt.Errorf("card type quota %w", apperr.ErrNotFound)
	ErrInvalidQuota  = fmt.Errorf("%w: invalid card type quota", apperr.ErrInvalidInput)
	ErrUnknownZone   = fmt.Errorf("%w: unknown quota time zone", apperr.ErrInvalidInput)
)
