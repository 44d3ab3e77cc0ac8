package handler

import (
	"net/http"

	"ration-be/internal/order"
	"ration-be/internal/utils"
)

type placeOrderRequest struct {
	CardType string       `json:"cardType"`
	Items    []order.Line `json:"items"`
}

func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	cardType, err := order.ParseCardType(h.Cards, req.CardType)
	if err != nil {
		writeError(w, r, err)
		return
	}

	o, err := h.Orders.PlaceOrder(r.Context(), order.PlaceRequest{
		CustomerID: customerID(r),
		CardType:   cardType,
		Lines:      req.Items,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, o)
}

func (h *Handler) Shop(w http.ResponseWriter, r *http.Request) {
	items, err := h.Orders.Shop(r.Context(), customerID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, items)
}

func (h *Handler) Quota(w http.ResponseWriter, r *http.Request) {
	view, err := h.Orders.RemainingQuota(r.Context(), customerID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) MyOrders(w http.ResponseWriter, r *http.Request) {
	id := customerID(r)
	filter, err := orderFilter(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	filter.CustomerID = &id

	list, err := h.Orders.List(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, list)
}

func (h *Handler) MyOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.Orders.GetForCustomer(r.Context(), customerID(r), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, o)
}

func (h *Handler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.Orders.CustomerCancel(r.Context(), customerID(r), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, o)
}

// ListOrders supports ?status=, ?customerId=, ?from=, ?to= and
// limit/page pagination.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	filter, err := orderFilter(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	filter.CustomerID = utils.QueryString(r, "customerId")

	list, err := h.Orders.List(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, list)
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.Orders.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, o)
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) SetOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	to, err := order.ParseStatus(req.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}

	o, err := h.Orders.Transition(r.Context(), r.PathValue("id"), to)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, o)
}

func orderFilter(r *http.Request) (order.ListFilter, error) {
	limit, offset := utils.Pagination(r)
	filter := order.ListFilter{Limit: limit, Offset: offset}

	if raw := utils.QueryString(r, "status"); raw != nil {
		st, err := order.ParseStatus(*raw)
		if err != nil {
			return filter, err
		}
		filter.Status = &st
	}

	var err error
	if filter.From, err = queryTime(r, "from"); err != nil {
		return filter, err
	}
	if filter.To, err = queryTime(r, "to"); err != nil {
		return filter, err
	}
	return filter, nil
}
