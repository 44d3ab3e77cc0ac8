package quota

import (
	"context"
	"fmt"
	"strings"

	"ration-be/internal/logger"
	"ration-be/internal/rationcard"

	"go.uber.org/zap"
)

type Service interface {
	Get(ctx context.Context, cardType string) (*CardTypeQuota, error)
	List(ctx context.Context) ([]*CardTypeQuota, error)
	Upsert(ctx context.Context, cardType string, params UpsertParams) (*CardTypeQuota, error)
}

type service struct {
	repo  Repository
	cards *rationcard.Registry
}

func NewService(repo Repository, cards *rationcard.Registry) Service {
	return &service{repo: repo, cards: cards}
}

func (s *service) Get(ctx context.Context, cardType string) (*CardTypeQuota, error) {
	t, err := s.cards.Parse(cardType)
	if err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, t)
}

func (s *service) List(ctx context.Context) ([]*CardTypeQuota, error) {
	return s.repo.List(ctx)
}

func (s *service) Upsert(ctx context.Context, cardType string, params UpsertParams) (*CardTypeQuota, error) {
	t, err := s.cards.Parse(cardType)
	if err != nil {
		return nil, err
	}

	allocation := make(map[string]int, len(params.MonthlyQuota))
	for commodityID, qty := range params.MonthlyQuota {
		commodityID = strings.TrimSpace(commodityID)
		if commodityID == "" {
			return nil, fmt.Errorf("%w: empty commodity id", ErrInvalidQuota)
		}
		if qty < 0 {
			return nil, fmt.Errorf("%w: allocation for %s must not be negative", ErrInvalidQuota, commodityID)
		}
		allocation[commodityID] = qty
	}

	q := &CardTypeQuota{
		CardType:     t,
		MonthlyQuota: allocation,
		Description:  strings.TrimSpace(params.Description),
	}
	if err := s.repo.Upsert(ctx, q); err != nil {
		return nil, err
	}

	logger.FromCtx(ctx).Info("card type quota saved",
		zap.String("layer", "service"),
		zap.String("card_type", string(t)),
		zap.Int("commodities", len(allocation)),
	)
	return q, nil
}
