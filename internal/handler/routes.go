package handler

import (
	"net/http"

	"ration-be/internal/middleware"
)

// Routes registers every API route. Authentication itself happens in
// the outer middleware chain; here routes are only gated by audience.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/customer-token", h.CustomerToken)
	mux.HandleFunc("POST /api/admin/login", h.AdminLogin)
	mux.HandleFunc("POST /api/auth/logout", h.Logout)

	customerOnly := func(pattern string, fn http.HandlerFunc) {
		mux.Handle(pattern, middleware.RequireCustomer(fn))
	}
	customerOnly("GET /api/me", h.Me)
	customerOnly("GET /api/shop", h.Shop)
	customerOnly("GET /api/quota", h.Quota)
	customerOnly("GET /api/cart", h.GetCart)
	customerOnly("PUT /api/cart/items", h.SetCartItem)
	customerOnly("DELETE /api/cart/items/{commodityId}", h.RemoveCartItem)
	customerOnly("DELETE /api/cart", h.ClearCart)
	customerOnly("POST /api/checkout", h.Checkout)
	customerOnly("POST /api/orders", h.PlaceOrder)
	customerOnly("GET /api/orders", h.MyOrders)
	customerOnly("GET /api/orders/{id}", h.MyOrder)
	customerOnly("POST /api/orders/{id}/cancel", h.CancelOrder)
	customerOnly("POST /api/issues", h.CreateIssue)
	customerOnly("GET /api/issues", h.MyIssues)

	adminOnly := func(pattern string, fn http.HandlerFunc) {
		mux.Handle(pattern, middleware.RequireAdmin(fn))
	}
	adminOnly("GET /api/admin/customers", h.ListCustomers)
	adminOnly("POST /api/admin/customers", h.CreateCustomer)
	adminOnly("GET /api/admin/customers/{id}", h.GetCustomer)
	adminOnly("PUT /api/admin/customers/{id}", h.UpdateCustomer)
	adminOnly("DELETE /api/admin/customers/{id}", h.DeleteCustomer)

	adminOnly("GET /api/admin/inventory", h.ListInventory)
	adminOnly("POST /api/admin/inventory", h.CreateInventory)
	adminOnly("GET /api/admin/inventory/low-stock", h.LowStock)
	adminOnly("GET /api/admin/inventory/{id}", h.GetInventory)
	adminOnly("PUT /api/admin/inventory/{id}", h.UpdateInventory)
	adminOnly("PUT /api/admin/inventory/{id}/stock", h.SetStock)
	adminOnly("DELETE /api/admin/inventory/{id}", h.DeleteInventory)

	adminOnly("GET /api/admin/card-quotas", h.ListQuotas)
	adminOnly("GET /api/admin/card-quotas/{cardType}", h.GetQuota)
	adminOnly("PUT /api/admin/card-quotas/{cardType}", h.UpsertQuota)

	adminOnly("GET /api/admin/orders", h.ListOrders)
	adminOnly("GET /api/admin/orders/{id}", h.GetOrder)
	adminOnly("POST /api/admin/orders/{id}/status", h.SetOrderStatus)

	adminOnly("GET /api/admin/issues", h.ListIssues)
	adminOnly("PUT /api/admin/issues/{id}/status", h.SetIssueStatus)
	adminOnly("POST /api/admin/issues/{id}/response", h.RespondIssue)

	adminOnly("GET /api/admin/dashboard", h.Dashboard)

	return mux
}
