package order

import "fmt"

// transitions lists, for each non-terminal status, where an order may go
// next. Statuses with no entry are terminal.
var transitions = map[Status][]Status{
	StatusPending:  {StatusApproved, StatusRejected, StatusCancelled},
	StatusApproved: {StatusCompleted, StatusCancelled, StatusRejected},
}

func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func (s Status) Terminal() bool {
	return len(transitions[s]) == 0
}

// Next returns the statuses reachable from s.
func (s Status) Next() []Status {
	out := make([]Status, len(transitions[s]))
	copy(out, transitions[s])
	return out
}

func checkTransition(from, to Status) error {
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}

// restocks reports whether moving an order from one status to another
// returns its line quantities to inventory. Stock leaves inventory at
// placement, so undoing a pending order gives it back as well unless
// restockPending is off.
func restocks(from, to Status, restockPending bool) bool {
	if to != StatusCancelled && to != StatusRejected {
		return false
	}
	switch from {
	case StatusApproved:
		return true
	case StatusPending:
		return restockPending
	}
	return false
}

// selfServiceCancel is the one transition a customer may request.
func selfServiceCancel(o *Order, customerID string) error {
	if o.CustomerID != customerID {
		return ErrNotOwner
	}
	if o.Status != StatusPending {
		return ErrSelfServiceDenied
	}
	return nil
}
