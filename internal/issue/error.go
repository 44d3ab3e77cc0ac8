package issue

import (
	"fmt"

	"ration-be/internal/apperr"
)

var (
	ErrIssueNotFound = fmt.Errorf("issue %w", apperr.ErrNotFound)
	ErrInvalidIssue  = fmt.Errorf("%w: invalid issue", apperr.ErrInvalidInput)
	ErrUnknownStatus = fmt.Errorf("%w: unknown issue status", apperr.ErrInvalidInput)
)
