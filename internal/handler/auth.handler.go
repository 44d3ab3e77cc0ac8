package handler

import (
	"fmt"
	"net/http"
	"strings"

	"ration-be/internal/apperr"
	"ration-be/internal/logger"
	"ration-be/internal/transport"
	"ration-be/internal/utils"

	"go.uber.org/zap"
)

type customerTokenRequest struct {
	CustomerID string `json:"customerId"`
	NationalID string `json:"nationalId"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// CustomerToken exchanges a (customer id, national id) pair for a
// customer-scoped session token.
func (h *Handler) CustomerToken(w http.ResponseWriter, r *http.Request) {
	var req customerTokenRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if strings.TrimSpace(req.CustomerID) == "" || strings.TrimSpace(req.NationalID) == "" {
		writeError(w, r, fmt.Errorf("%w: customerId and nationalId are required", apperr.ErrInvalidInput))
		return
	}

	c, err := h.Customers.Verify(r.Context(), req.CustomerID, req.NationalID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	token, err := h.Issuer.IssueCustomerToken(c.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.setSessionCookie(w, token)
	utils.WriteJSON(w, http.StatusOK, tokenResponse{Token: token})
}

type adminLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var req adminLoginRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	token, admin, err := h.Admins.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.setSessionCookie(w, token)
	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"admin": admin,
	})
}

// Logout drops the session cookie and, for customers, the cached cart.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if s, ok := transport.SessionFrom(r.Context()); ok && s.IsCustomer() {
		h.Carts.Clear(r.Context(), s.CustomerID)
		logger.FromCtx(r.Context()).Debug("cart cleared on logout",
			zap.String("layer", "handler"),
			zap.String("customer_id", s.CustomerID),
		)
	}

	h.clearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}
