// Package rationcard defines ration card categories. The set of valid
// categories differs per deployment and is configured at start-up.
package rationcard

import (
	"fmt"
	"strings"

	"ration-be/internal/apperr"
)

type Type string

var ErrUnknownType = fmt.Errorf("%w: unknown ration card type", apperr.ErrInvalidInput)

// DefaultTypes is used when no set is configured.
var DefaultTypes = []Type{"WHITE", "YELLOW", "GREEN", "SAFFRON", "RED"}

// Registry is the deployment's fixed set of card types.
type Registry struct {
	order []Type
	known map[Type]struct{}
}

func NewRegistry(names []string) *Registry {
	r := &Registry{known: make(map[Type]struct{})}
	for _, n := range names {
		t := Type(strings.ToUpper(strings.TrimSpace(n)))
		if t == "" {
			continue
		}
		if _, dup := r.known[t]; dup {
			continue
		}
		r.known[t] = struct{}{}
		r.order = append(r.order, t)
	}
	if len(r.order) == 0 {
		for _, t := range DefaultTypes {
			r.known[t] = struct{}{}
			r.order = append(r.order, t)
		}
	}
	return r
}

// Parse normalises raw and checks it belongs to the registry.
func (r *Registry) Parse(raw string) (Type, error) {
	t := Type(strings.ToUpper(strings.TrimSpace(raw)))
	if _, ok := r.known[t]; !ok {
		return "", fmt.Errorf("%w %q", ErrUnknownType, raw)
	}
	return t, nil
}

func (r *Registry) Valid(t Type) bool {
	_, ok := r.known[t]
	return ok
}

// Types returns the card types in configuration order.
func (r *Registry) Types() []Type {
	out := make([]Type, len(r.order))
	copy(out, r.order)
	return out
}
