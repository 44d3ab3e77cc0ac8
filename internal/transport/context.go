package transport

import (
	"context"
)

type ctxKey string

const sessionKey ctxKey = "session"

// Session is the authenticated identity of a request, built from the
// bearer token by the auth middleware and passed explicitly through the
// request context.
type Session struct {
	Subject    string
	CustomerID string
	Email      string
	Admin      bool
}

// IsCustomer reports whether the session belongs to a customer portal user.
func (s *Session) IsCustomer() bool {
	return s != nil && !s.Admin && s.CustomerID != ""
}

// Actor is the identity written to logs.
func (s *Session) Actor() string {
	switch {
	case s == nil:
		return ""
	case s.Admin:
		return "admin:" + s.Subject
	default:
		return "customer:" + s.CustomerID
	}
}

func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

func SessionFrom(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionKey).(*Session)
	return s, ok && s != nil
}
