package issue

import (
	"fmt"
	"strings"
	"time"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusResolved   Status = "resolved"
)

func ParseStatus(raw string) (Status, error) {
	v := strings.ToLower(strings.TrimSpace(raw))
	if v == "in_progress" {
		v = string(StatusInProgress)
	}
	switch s := Status(v); s {
	case StatusPending, StatusInProgress, StatusResolved:
		return s, nil
	}
	return "", fmt.Errorf("%w %q", ErrUnknownStatus, raw)
}

// Issue is a customer support ticket.
type Issue struct {
	ID          string    `json:"id"`
	CustomerID  string    `json:"customerId"`
	Subject     string    `json:"subject"`
	Description string    `json:"description"`
	Status      Status    `json:"status"`
	Response    *string   `json:"response,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type CreateParams struct {
	Subject     string `json:"subject"`
	Description string `json:"description"`
}

type ListFilter struct {
	CustomerID *string
	Status     *Status
	Limit      int
	Offset     int
}
