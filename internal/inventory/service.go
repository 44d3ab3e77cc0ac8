package inventory

import (
	"context"
	"fmt"
	"strings"

	"ration-be/internal/logger"
	"ration-be/internal/rationcard"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Service interface {
	Create(ctx context.Context, params CreateParams) (*Item, error)
	Get(ctx context.Context, id string) (*Item, error)
	List(ctx context.Context) ([]*Item, error)
	ListLowStock(ctx context.Context) ([]*Item, error)
	CountLowStock(ctx context.Context) (int, error)
	Update(ctx context.Context, id string, params UpdateParams) (*Item, error)
	SetStock(ctx context.Context, id string, quantity int) (*Item, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo  Repository
	cards *rationcard.Registry
}

func NewService(repo Repository, cards *rationcard.Registry) Service {
	return &service{repo: repo, cards: cards}
}

func (s *service) Create(ctx context.Context, params CreateParams) (*Item, error) {
	prices, err := s.parsePrices(params.Prices)
	if err != nil {
		return nil, err
	}

	item := &Item{
		ID:           strings.TrimSpace(params.ID),
		Name:         strings.TrimSpace(params.Name),
		Unit:         strings.TrimSpace(params.Unit),
		Quantity:     params.Quantity,
		MinimumStock: params.MinimumStock,
		Prices:       prices,
	}
	if item.ID == "" {
		item.ID = uuid.New().String()
	}

	if err := validate(item); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}

	logger.FromCtx(ctx).Info("inventory item created",
		zap.String("layer", "service"),
		zap.String("item_id", item.ID),
		zap.Int("quantity", item.Quantity),
	)
	return item, nil
}

func (s *service) Get(ctx context.Context, id string) (*Item, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context) ([]*Item, error) {
	return s.repo.List(ctx)
}

func (s *service) ListLowStock(ctx context.Context) ([]*Item, error) {
	return s.repo.ListLowStock(ctx)
}

func (s *service) CountLowStock(ctx context.Context) (int, error) {
	return s.repo.CountLowStock(ctx)
}

func (s *service) Update(ctx context.Context, id string, params UpdateParams) (*Item, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Name != nil {
		item.Name = strings.TrimSpace(*params.Name)
	}
	if params.Unit != nil {
		item.Unit = strings.TrimSpace(*params.Unit)
	}
	if params.MinimumStock != nil {
		item.MinimumStock = *params.MinimumStock
	}
	if params.Prices != nil {
		if item.Prices, err = s.parsePrices(*params.Prices); err != nil {
			return nil, err
		}
	}

	if err := validate(item); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Delete removes a commodity. Orders keep their item snapshots.
func (s *service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	logger.FromCtx(ctx).Info("inventory item deleted",
		zap.String("layer", "service"),
		zap.String("item_id", id),
	)
	return nil
}

// SetStock overwrites the on-hand quantity, typically after a delivery or
// a stock count.
func (s *service) SetStock(ctx context.Context, id string, quantity int) (*Item, error) {
	if quantity < 0 {
		return nil, fmt.Errorf("%w: quantity must not be negative", ErrInvalidItem)
	}

	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	previous := item.Quantity
	item.Quantity = quantity
	if err := s.repo.Update(ctx, item); err != nil {
		return nil, err
	}

	logger.FromCtx(ctx).Info("stock level set",
		zap.String("layer", "service"),
		zap.String("item_id", id),
		zap.Int("from", previous),
		zap.Int("to", quantity),
	)
	return item, nil
}

func (s *service) parsePrices(in map[string]decimal.Decimal) (map[rationcard.Type]decimal.Decimal, error) {
	out := make(map[rationcard.Type]decimal.Decimal, len(in))
	for raw, price := range in {
		t, err := s.cards.Parse(raw)
		if err != nil {
			return nil, err
		}
		if price.IsNegative() {
			return nil, fmt.Errorf("%w: price for %s must not be negative", ErrInvalidItem, t)
		}
		if !price.Equal(price.Round(2)) {
			return nil, fmt.Errorf("%w: price for %s must have at most 2 decimal places", ErrInvalidItem, t)
		}
		out[t] = price.Round(2)
	}
	return out, nil
}

func validate(item *Item) error {
	switch {
	case item.Name == "":
		return fmt.Errorf("%w: name is required", ErrInvalidItem)
	case item.Unit == "":
		return fmt.Errorf("%w: unit is required", ErrInvalidItem)
	case item.Quantity < 0:
		return fmt.Errorf("%w: quantity must not be negative", ErrInvalidItem)
	case item.MinimumStock < 0:
		return fmt.Errorf("%w: minimum stock must not be negative", ErrInvalidItem)
	}
	return nil
}
