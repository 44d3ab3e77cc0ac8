package handler

import (
	"net/http"

	"ration-be/internal/utils"
)

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, h.Carts.Get(r.Context(), customerID(r)))
}

type cartItemRequest struct {
	CommodityID string `json:"commodityId"`
	Quantity    int    `json:"quantity"`
}

// SetCartItem sets the quantity of one commodity; zero removes it.
func (h *Handler) SetCartItem(w http.ResponseWriter, r *http.Request) {
	var req cartItemRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	c, err := h.Carts.SetItem(r.Context(), customerID(r), req.CommodityID, req.Quantity)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	c, err := h.Carts.RemoveItem(r.Context(), customerID(r), r.PathValue("commodityId"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	h.Carts.Clear(r.Context(), customerID(r))
	w.WriteHeader(http.StatusNoContent)
}

// Checkout places an order from the cart; the cart survives a failed
// placement so the customer can adjust it.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	o, err := h.Carts.Checkout(r.Context(), customerID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, o)
}
