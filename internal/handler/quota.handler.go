package handler

import (
	"net/http"

	"ration-be/internal/quota"
	"ration-be/internal/utils"
)

func (h *Handler) ListQuotas(w http.ResponseWriter, r *http.Request) {
	list, err := h.Quotas.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, list)
}

func (h *Handler) GetQuota(w http.ResponseWriter, r *http.Request) {
	q, err := h.Quotas.Get(r.Context(), r.PathValue("cardType"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, q)
}

// UpsertQuota overwrites the allocation table for one card type.
func (h *Handler) UpsertQuota(w http.ResponseWriter, r *http.Request) {
	var params quota.UpsertParams
	if err := utils.DecodeJSON(r, &params); err != nil {
		writeError(w, r, err)
		return
	}

	q, err := h.Quotas.Upsert(r.Context(), r.PathValue("cardType"), params)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, q)
}
