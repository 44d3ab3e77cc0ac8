package handler

import (
	"net/http"

	"ration-be/internal/customer"
	"ration-be/internal/utils"
)

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	c, err := h.Customers.Get(r.Context(), customerID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, c)
}

// ListCustomers supports ?search= (name or card number), ?cardType= and
// limit/page pagination.
func (h *Handler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	limit, offset := utils.Pagination(r)
	filter := customer.ListFilter{
		Search: utils.QueryString(r, "search"),
		Limit:  limit,
		Offset: offset,
	}
	if raw := utils.QueryString(r, "cardType"); raw != nil {
		ct, err := h.Cards.Parse(*raw)
		if err != nil {
			writeError(w, r, err)
			return
		}
		filter.CardType = &ct
	}

	list, err := h.Customers.List(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, list)
}

func (h *Handler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var params customer.CreateParams
	if err := utils.DecodeJSON(r, &params); err != nil {
		writeError(w, r, err)
		return
	}

	c, err := h.Customers.Create(r.Context(), params)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, c)
}

// GetCustomer looks a customer up by id, or by national id when
// ?by=nationalId is given.
func (h *Handler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var (
		c   *customer.Customer
		err error
	)
	if r.URL.Query().Get("by") == "nationalId" {
		c, err = h.Customers.GetByNationalID(r.Context(), id)
	} else {
		c, err = h.Customers.Get(r.Context(), id)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	var params customer.UpdateParams
	if err := utils.DecodeJSON(r, &params); err != nil {
		writeError(w, r, err)
		return
	}

	c, err := h.Customers.Update(r.Context(), r.PathValue("id"), params)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, c)
}

// DeleteCustomer removes a customer with no order history and drops any
// cart they left behind.
func (h *Handler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.Customers.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	h.Carts.Clear(r.Context(), id)
	w.WriteHeader(http.StatusNoContent)
}
