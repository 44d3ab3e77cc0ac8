package handler

import (
	"net/http"

	"ration-be/internal/inventory"
	"ration-be/internal/utils"
)

func (h *Handler) ListInventory(w http.ResponseWriter, r *http.Request) {
	items, err := h.Inventory.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, items)
}

func (h *Handler) LowStock(w http.ResponseWriter, r *http.Request) {
	items, err := h.Inventory.ListLowStock(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, items)
}

func (h *Handler) GetInventory(w http.ResponseWriter, r *http.Request) {
	it, err := h.Inventory.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, it)
}

func (h *Handler) CreateInventory(w http.ResponseWriter, r *http.Request) {
	var params inventory.CreateParams
	if err := utils.DecodeJSON(r, &params); err != nil {
		writeError(w, r, err)
		return
	}

	it, err := h.Inventory.Create(r.Context(), params)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, it)
}

func (h *Handler) UpdateInventory(w http.ResponseWriter, r *http.Request) {
	var params inventory.UpdateParams
	if err := utils.DecodeJSON(r, &params); err != nil {
		writeError(w, r, err)
		return
	}

	it, err := h.Inventory.Update(r.Context(), r.PathValue("id"), params)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, it)
}

type setStockRequest struct {
	Quantity int `json:"quantity"`
}

func (h *Handler) SetStock(w http.ResponseWriter, r *http.Request) {
	var req setStockRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	it, err := h.Inventory.SetStock(r.Context(), r.PathValue("id"), req.Quantity)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, it)
}

func (h *Handler) DeleteInventory(w http.ResponseWriter, r *http.Request) {
	if err := h.Inventory.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
