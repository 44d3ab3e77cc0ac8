// Package handler exposes the domain services over HTTP/JSON.
package handler

import (
	"fmt"
	"net/http"
	"time"

	"ration-be/internal/apperr"
	"ration-be/internal/auth"
	"ration-be/internal/cart"
	"ration-be/internal/customer"
	"ration-be/internal/inventory"
	"ration-be/internal/issue"
	"ration-be/internal/logger"
	"ration-be/internal/order"
	"ration-be/internal/quota"
	"ration-be/internal/rationcard"
	"ration-be/internal/transport"
	"ration-be/internal/user"
	"ration-be/internal/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Customers customer.Service
	Inventory inventory.Service
	Quotas    quota.Service
	Orders    order.Service
	Carts     cart.Service
	Issues    issue.Service
	Admins    user.Service
	Issuer    *auth.Issuer
	Cards     *rationcard.Registry

	// SecureCookie marks the session cookie Secure; off for local HTTP.
	SecureCookie bool
	TokenTTL     time.Duration
}

// writeError maps err onto the taxonomy status. Unexpected errors are
// logged with detail and answered with a generic message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperr.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		logger.FromCtx(r.Context()).Error("request failed",
			zap.String("layer", "handler"),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
	utils.WriteJSONError(w, apperr.PublicMessage(err), status)
}

// customerID returns the id of the customer the session is scoped to.
// Routes using it sit behind RequireCustomer.
func customerID(r *http.Request) string {
	s, _ := transport.SessionFrom(r.Context())
	if s == nil {
		return ""
	}
	return s.CustomerID
}

// queryTime accepts either a date or an RFC 3339 timestamp.
func queryTime(r *http.Request, key string) (*time.Time, error) {
	raw := utils.QueryString(r, key)
	if raw == nil {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, *raw); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%w: %s must be a date or RFC 3339 timestamp", apperr.ErrInvalidInput, key)
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, token string) {
	ttl := h.TokenTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	http.SetCookie(w, &http.Cookie{
		Name:     auth.AccessTokenCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.SecureCookie,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(ttl.Seconds()),
	})
}

func (h *Handler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.AccessTokenCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   h.SecureCookie,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
