package cart

import (
	"context"
	"errors"
	"testing"

	"ration-be/internal/apperr"
	"ration-be/internal/inventory"
	"ration-be/internal/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Mocks ---

type MockInventory struct {
	mock.Mock
	inventory.Repository
}

func (m *MockInventory) GetByID(ctx context.Context, id string) (*inventory.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.Item), args.Error(1)
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

func newTestService(t *testing.T) (Service, Repository, *MockInventory, *MockOrders) {
	t.Helper()
	repo, err := NewRepository(8)
	require.NoError(t, err)
	inv := new(MockInventory)
	orders := new(MockOrders)
	return NewService(repo, inv, orders), repo, inv, orders
}

// --- Tests ---

func TestService_SetItem(t *testing.T) {
	ctx := context.Background()

	t.Run("Add update and remove", func(t *testing.T) {
		svc, _, inv, _ := newTestService(t)
		inv.On("GetByID", ctx, "rice").Return(&inventory.Item{ID: "rice"}, nil)

		c, err := svc.SetItem(ctx, "c-1", "rice", 3)
		require.NoError(t, err)
		assert.Equal(t, []Item{{CommodityID: "rice", Quantity: 3}}, c.Items)

		c, err = svc.SetItem(ctx, "c-1", "rice", 5)
		require.NoError(t, err)
		assert.Equal(t, 5, c.Items[0].Quantity)

		c, err = svc.SetItem(ctx, "c-1", "rice", 0)
		require.NoError(t, err)
		assert.Empty(t, c.Items)
	})

	t.Run("Unknown commodity", func(t *testing.T) {
		svc, _, inv, _ := newTestService(t)
		inv.On("GetByID", ctx, "salt").Return(nil, inventory.ErrItemNotFound)

		_, err := svc.SetItem(ctx, "c-1", "salt", 1)
		assert.True(t, errors.Is(err, apperr.ErrNotFound))
		assert.Empty(t, svc.Get(ctx, "c-1").Items)
	})

	t.Run("Negative quantity", func(t *testing.T) {
		svc, _, _, _ := newTestService(t)
		_, err := svc.SetItem(ctx, "c-1", "rice", -1)
		assert.Equal(t, ErrInvalidQuantity, err)
	})
}

func TestService_RemoveItem(t *testing.T) {
	ctx := context.Background()
	svc, _, inv, _ := newTestService(t)
	inv.On("GetByID", ctx, "rice").Return(&inventory.Item{ID: "rice"}, nil)

	_, err := svc.SetItem(ctx, "c-1", "rice", 2)
	require.NoError(t, err)

	c, err := svc.RemoveItem(ctx, "c-1", "rice")
	require.NoError(t, err)
	assert.Empty(t, c.Items)

	_, err = svc.RemoveItem(ctx, "c-1", "rice")
	assert.True(t, errors.Is(err, ErrCartItemNotFound))
}

func TestService_Checkout(t *testing.T) {
	ctx := context.Background()

	t.Run("Clears cart on success", func(t *testing.T) {
		svc, repo, inv, orders := newTestService(t)
		inv.On("GetByID", ctx, mock.Anything).Return(&inventory.Item{}, nil)
		orders.On("PlaceOrder", ctx, order.PlaceRequest{
			CustomerID: "c-1",
			Lines:      []order.Line{{CommodityID: "rice", Quantity: 2}, {CommodityID: "wheat", Quantity: 1}},
		}).Return(&order.Order{ID: "o-1"}, nil)

		_, _ = svc.SetItem(ctx, "c-1", "rice", 2)
		_, _ = svc.SetItem(ctx, "c-1", "wheat", 1)

		o, err := svc.Checkout(ctx, "c-1")
		require.NoError(t, err)
		assert.Equal(t, "o-1", o.ID)
		_, ok := repo.Get("c-1")
		assert.False(t, ok)
	})

	t.Run("Keeps cart on failure", func(t *testing.T) {
		svc, repo, inv, orders := newTestService(t)
		inv.On("GetByID", ctx, mock.Anything).Return(&inventory.Item{}, nil)
		orders.On("PlaceOrder", ctx, mock.Anything).Return(nil, order.ErrQuotaExceeded)

		_, _ = svc.SetItem(ctx, "c-1", "rice", 20)

		_, err := svc.Checkout(ctx, "c-1")
		assert.True(t, errors.Is(err, apperr.ErrQuotaExceeded))
		c, ok := repo.Get("c-1")
		require.True(t, ok)
		assert.Len(t, c.Items, 1)
	})

	t.Run("Empty cart", func(t *testing.T) {
		svc, _, _, orders := newTestService(t)
		_, err := svc.Checkout(ctx, "c-1")
		assert.Equal(t, ErrCartEmpty, err)
		orders.AssertNotCalled(t, "PlaceOrder", mock.Anything, mock.Anything)
	})
}
