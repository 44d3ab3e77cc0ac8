package handler

import (
	"context"

	"ration-be/internal/cart"
	"ration-be/internal/customer"
	"ration-be/internal/inventory"
	"ration-be/internal/issue"
	"ration-be/internal/order"
	"ration-be/internal/user"

	"github.com/stretchr/testify/mock"
)

// --- Mocks ---
// Each mock embeds its interface so only the methods a test needs are
// spelled out; calling anything else panics.

type MockCustomers struct {
	mock.Mock
	customer.Service
}

func (m *MockCustomers) Verify(ctx context.Context, customerID, nationalID string) (*customer.Customer, error) {
	args := m.Called(ctx, customerID, nationalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.Customer), args.Error(1)
}

func (m *MockCustomers) Get(ctx context.Context, id string) (*customer.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.Customer), args.Error(1)
}

func (m *MockCustomers) List(ctx context.Context, filter customer.ListFilter) ([]*customer.Customer, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*customer.Customer), args.Error(1)
}

func (m *MockCustomers) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockCustomers) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockOrders struct {
	mock.Mock
	order.Service
}

func (m *MockOrders) PlaceOrder(ctx context.Context, req order.PlaceRequest) (*order.Order, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrders) Transition(ctx context.Context, orderID string, to order.Status) (*order.Order, error) {
	args := m.Called(ctx, orderID, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrders) CustomerCancel(ctx context.Context, customerID, orderID string) (*order.Order, error) {
	args := m.Called(ctx, customerID, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrders) List(ctx context.Context, filter order.ListFilter) ([]*order.Order, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrders) CountByStatus(ctx context.Context) (map[order.Status]int, error) {
	args := m.Called(ctx)
	return args.Get(0).(map[order.Status]int), args.Error(1)
}

type MockInventory struct {
	mock.Mock
	inventory.Service
}

func (m *MockInventory) CountLowStock(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockInventory) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockIssues struct {
	mock.Mock
	issue.Service
}

func (m *MockIssues) CountOpen(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockIssues) SetStatus(ctx context.Context, id string, status issue.Status) (*issue.Issue, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*issue.Issue), args.Error(1)
}

type MockCarts struct {
	mock.Mock
	cart.Service
}

func (m *MockCarts) Clear(ctx context.Context, customerID string) {
	m.Called(ctx, customerID)
}

func (m *MockCarts) SetItem(ctx context.Context, customerID, commodityID string, quantity int) (*cart.Cart, error) {
	args := m.Called(ctx, customerID, commodityID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Cart), args.Error(1)
}

func (m *MockCarts) Checkout(ctx context.Context, customerID string) (*order.Order, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

type MockAdmins struct {
	mock.Mock
	user.Service
}

func (m *MockAdmins) Login(ctx context.Context, email, password string) (string, *user.Admin, error) {
	args := m.Called(ctx, email, password)
	if args.Get(1) == nil {
		return "", nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*user.Admin), args.Error(2)
}
