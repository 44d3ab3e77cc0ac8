package handler

import (
	"net/http"

	"ration-be/internal/order"
	"ration-be/internal/utils"
)

type dashboard struct {
	Customers  int                  `json:"customers"`
	Orders     map[order.Status]int `json:"orders"`
	LowStock   int                  `json:"lowStock"`
	OpenIssues int                  `json:"openIssues"`
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var (
		d   dashboard
		err error
	)

	if d.Customers, err = h.Customers.Count(ctx); err != nil {
		writeError(w, r, err)
		return
	}
	if d.Orders, err = h.Orders.CountByStatus(ctx); err != nil {
		writeError(w, r, err)
		return
	}
	if d.LowStock, err = h.Inventory.CountLowStock(ctx); err != nil {
		writeError(w, r, err)
		return
	}
	if d.OpenIssues, err = h.Issues.CountOpen(ctx); err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, d)
}
