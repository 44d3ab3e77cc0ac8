package cart

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ration-be/internal/inventory"
	"ration-be/internal/logger"
	"ration-be/internal/order"

	"go.uber.org/zap"
)

type Service interface {
	Get(ctx context.Context, customerID string) *Cart
	// SetItem sets the quantity of one commodity; zero removes it.
	SetItem(ctx context.Context, customerID, commodityID string, quantity int) (*Cart, error)
	RemoveItem(ctx context.Context, customerID, commodityID string) (*Cart, error)
	Clear(ctx context.Context, customerID string)
	// Checkout places an order from the cart and clears it on success.
	Checkout(ctx context.Context, customerID string) (*order.Order, error)
}

type service struct {
	repo      Repository
	inventory inventory.Repository
	orders    order.Service
	now       func() time.Time
}

func NewService(repo Repository, inv inventory.Repository, orders order.Service) Service {
	return &service{repo: repo, inventory: inv, orders: orders, now: time.Now}
}

func (s *service) load(customerID string) *Cart {
	if c, ok := s.repo.Get(customerID); ok {
		return c
	}
	return newCart(customerID)
}

func (s *service) Get(ctx context.Context, customerID string) *Cart {
	return s.load(customerID)
}

func (s *service) SetItem(ctx context.Context, customerID, commodityID string, quantity int) (*Cart, error) {
	commodityID = strings.TrimSpace(commodityID)
	if commodityID == "" || quantity < 0 {
		return nil, ErrInvalidQuantity
	}

	c := s.load(customerID)
	if quantity == 0 {
		c.remove(commodityID)
	} else {
		// Only existence is checked here; stock and quota are checked
		// again inside the checkout transaction.
		if _, err := s.inventory.GetByID(ctx, commodityID); err != nil {
			return nil, err
		}
		c.set(commodityID, quantity)
	}

	c.UpdatedAt = s.now()
	s.repo.Put(c)
	return c, nil
}

func (s *service) RemoveItem(ctx context.Context, customerID, commodityID string) (*Cart, error) {
	c := s.load(customerID)
	if !c.remove(commodityID) {
		return nil, fmt.Errorf("%w: %s", ErrCartItemNotFound, commodityID)
	}
	c.UpdatedAt = s.now()
	s.repo.Put(c)
	return c, nil
}

func (s *service) Clear(ctx context.Context, customerID string) {
	s.repo.Delete(customerID)
}

func (s *service) Checkout(ctx context.Context, customerID string) (*order.Order, error) {
	c := s.load(customerID)
	if len(c.Items) == 0 {
		return nil, ErrCartEmpty
	}

	o, err := s.orders.PlaceOrder(ctx, order.PlaceRequest{
		CustomerID: customerID,
		Lines:      c.Lines(),
	})
	if err != nil {
		return nil, err
	}

	s.repo.Delete(customerID)
	logger.FromCtx(ctx).Info("cart checked out",
		zap.String("layer", "service"),
		zap.String("order_id", o.ID),
	)
	return o, nil
}
