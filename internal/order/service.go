package order

import (
	"context"
	"errors"
	"time"

	"ration-be/internal/apperr"
	"ration-be/internal/inventory"
	"ration-be/internal/logger"
	"ration-be/internal/metrics"
	"ration-be/internal/quota"
	"ration-be/internal/rationcard"
	"ration-be/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service interface {
	PlaceOrder(ctx context.Context, req PlaceRequest) (*Order, error)
	RemainingQuota(ctx context.Context, customerID string) (*QuotaView, error)
	Shop(ctx context.Context, customerID string) ([]ShopItem, error)

	// Transition applies an administrative status change.
	Transition(ctx context.Context, orderID string, to Status) (*Order, error)
	// CustomerCancel cancels a pending order on behalf of its owner.
	CustomerCancel(ctx context.Context, customerID, orderID string) (*Order, error)

	Get(ctx context.Context, orderID string) (*Order, error)
	GetForCustomer(ctx context.Context, customerID, orderID string) (*Order, error)
	List(ctx context.Context, filter ListFilter) ([]*Order, error)
	CountByStatus(ctx context.Context) (map[Status]int, error)
}

type Options struct {
	// RestockPendingCancel returns stock when a pending order is
	// cancelled or rejected, not only an approved one.
	RestockPendingCancel bool
}

type service struct {
	repo     Repository
	quotas   quota.Repository
	period   *quota.Period
	recorder *metrics.Recorder
	opts     Options
}

func NewService(
	repo Repository,
	quotas quota.Repository,
	period *quota.Period,
	recorder *metrics.Recorder,
	opts Options,
) Service {
	return &service{
		repo:     repo,
		quotas:   quotas,
		period:   period,
		recorder: recorder,
		opts:     opts,
	}
}

// withRetry runs fn and, if it lost an optimistic concurrency race, runs
// it exactly once more.
func (s *service) withRetry(ctx context.Context, op string, fn func() error) error {
	err := fn()
	if !errors.Is(err, apperr.ErrTransactionConflict) {
		return err
	}

	s.recorder.Conflict(op)
	logger.FromCtx(ctx).Warn("transaction conflict, retrying",
		zap.String("layer", "service"),
		zap.String("operation", op),
		zap.Error(err),
	)

	err = fn()
	if errors.Is(err, apperr.ErrTransactionConflict) {
		s.recorder.Conflict(op)
	}
	return err
}

func (s *service) PlaceOrder(ctx context.Context, req PlaceRequest) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "PlaceOrder"),
		zap.String("customer_id", req.CustomerID),
	)
	timer := metrics.StartTimer()

	lines, err := normalizeLines(req.Lines)
	if err != nil {
		s.recorder.PlacementResult(placementResult(err))
		return nil, err
	}

	var placed *Order
	err = s.withRetry(ctx, "place_order", func() error {
		var err error
		placed, err = s.placeOnce(ctx, req, lines)
		return err
	})

	s.recorder.ObservePlacement(timer.Duration())
	s.recorder.PlacementResult(placementResult(err))

	if err != nil {
		if apperr.IsDomain(err) || errors.Is(err, apperr.ErrTransactionConflict) {
			log.Info("order rejected", zap.Error(err))
		} else {
			log.Error("order placement failed", zap.Error(err))
		}
		return nil, err
	}

	log.Info("order placed",
		zap.String("order_id", placed.ID),
		zap.String("order_number", placed.OrderNumber),
		zap.String("total", placed.TotalAmount.StringFixed(2)),
	)
	return placed, nil
}

func (s *service) placeOnce(ctx context.Context, req PlaceRequest, lines []Line) (*Order, error) {
	var placed *Order

	err := s.repo.WithTx(ctx, func(tx TxRepository) error {
		cust, err := tx.Customer(ctx, req.CustomerID)
		if err != nil {
			return err
		}
		if req.CardType != "" && req.CardType != cust.CardType {
			return ErrCardTypeMismatch
		}

		allocation, err := s.quotas.Get(ctx, cust.CardType)
		if err != nil {
			return err
		}

		now := s.period.Now()
		monthStart := s.period.MonthStart(now)

		orders, err := tx.OrdersSince(ctx, cust.ID, monthStart)
		if err != nil {
			return err
		}

		ids := commodityIDs(lines)
		stock, err := tx.Inventory(ctx, ids)
		if err != nil {
			return err
		}

		remaining := RemainingQuota(allocation.MonthlyQuota, ids, orders, monthStart)
		items, err := buildItems(lines, stock, remaining, cust.CardType)
		if err != nil {
			return err
		}

		for _, d := range stockDeltas(items, -1) {
			if err := tx.AdjustStock(ctx, d.CommodityID, stock[d.CommodityID].Version, d.Delta); err != nil {
				return err
			}
		}

		// Another placement for the same customer would have bumped this
		// too, so the consumption read above is still current.
		if err := tx.BumpCustomerVersion(ctx, cust.ID, cust.Version); err != nil {
			return err
		}

		o := &Order{
			ID:          uuid.New().String(),
			OrderNumber: utils.GenerateOrderNumber(now),
			CustomerID:  cust.ID,
			CardType:    cust.CardType,
			Items:       items,
			TotalAmount: Total(items),
			Status:      StatusPending,
			OrderDate:   now,
		}
		if err := tx.Insert(ctx, o); err != nil {
			return err
		}

		placed = o
		return nil
	})

	return placed, err
}

func placementResult(err error) string {
	switch {
	case err == nil:
		return "placed"
	case errors.Is(err, apperr.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, apperr.ErrQuotaExceeded):
		return "quota_exceeded"
	case errors.Is(err, apperr.ErrTransactionConflict):
		return "conflict"
	case apperr.IsDomain(err):
		return "rejected"
	default:
		return "error"
	}
}

// snapshot is everything needed to show a customer their month.
type snapshot struct {
	customer   *CustomerRef
	monthStart time.Time
	allocation *quota.CardTypeQuota
	items      []*inventory.Item
	consumed   map[string]int
	remaining  map[string]int
}

func (s *service) loadSnapshot(ctx context.Context, customerID string) (*snapshot, error) {
	var snap snapshot

	err := s.repo.WithTx(ctx, func(tx TxRepository) error {
		cust, err := tx.Customer(ctx, customerID)
		if err != nil {
			return err
		}

		allocation, err := s.quotas.Get(ctx, cust.CardType)
		if err != nil {
			return err
		}

		monthStart := s.period.CurrentMonthStart()
		orders, err := tx.OrdersSince(ctx, cust.ID, monthStart)
		if err != nil {
			return err
		}

		items, err := tx.ListInventory(ctx)
		if err != nil {
			return err
		}

		ids := make([]string, len(items))
		for i, it := range items {
			ids[i] = it.ID
		}

		snap = snapshot{
			customer:   cust,
			monthStart: monthStart,
			allocation: allocation,
			items:      items,
			consumed:   Consumption(orders, monthStart),
			remaining:  RemainingQuota(allocation.MonthlyQuota, ids, orders, monthStart),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

func (s *service) RemainingQuota(ctx context.Context, customerID string) (*QuotaView, error) {
	snap, err := s.loadSnapshot(ctx, customerID)
	if err != nil {
		return nil, err
	}

	view := &QuotaView{
		CustomerID: snap.customer.ID,
		CardType:   snap.customer.CardType,
		MonthStart: snap.monthStart,
		Lines:      make([]QuotaLine, 0, len(snap.items)),
	}
	for _, it := range snap.items {
		view.Lines = append(view.Lines, QuotaLine{
			CommodityID: it.ID,
			Name:        it.Name,
			Unit:        it.Unit,
			Allocated:   snap.allocation.Allocated(it.ID),
			Consumed:    snap.consumed[it.ID],
			Remaining:   snap.remaining[it.ID],
		})
	}
	return view, nil
}

// Shop lists the commodities priced for the customer's card type along
// with what they may still order this month.
func (s *service) Shop(ctx context.Context, customerID string) ([]ShopItem, error) {
	snap, err := s.loadSnapshot(ctx, customerID)
	if err != nil {
		return nil, err
	}

	shop := make([]ShopItem, 0, len(snap.items))
	for _, it := range snap.items {
		price, ok := it.PriceFor(snap.customer.CardType)
		if !ok {
			continue
		}
		shop = append(shop, ShopItem{
			CommodityID: it.ID,
			Name:        it.Name,
			Unit:        it.Unit,
			Price:       price,
			InStock:     it.Quantity,
			Remaining:   snap.remaining[it.ID],
		})
	}
	return shop, nil
}

func (s *service) Transition(ctx context.Context, orderID string, to Status) (*Order, error) {
	return s.transition(ctx, orderID, to, nil)
}

func (s *service) CustomerCancel(ctx context.Context, customerID, orderID string) (*Order, error) {
	return s.transition(ctx, orderID, StatusCancelled, func(o *Order) error {
		return selfServiceCancel(o, customerID)
	})
}

func (s *service) transition(
	ctx context.Context,
	orderID string,
	to Status,
	authorize func(*Order) error,
) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Transition"),
		zap.String("order_id", orderID),
		zap.String("to", string(to)),
	)

	var (
		updated  *Order
		from     Status
		restored bool
	)

	err := s.withRetry(ctx, "transition", func() error {
		return s.repo.WithTx(ctx, func(tx TxRepository) error {
			o, err := tx.GetByID(ctx, orderID)
			if err != nil {
				return err
			}
			if authorize != nil {
				if err := authorize(o); err != nil {
					return err
				}
			}
			if err := checkTransition(o.Status, to); err != nil {
				return err
			}

			restored = restocks(o.Status, to, s.opts.RestockPendingCancel)
			if restored {
				if err := restock(ctx, tx, o.Items); err != nil {
					return err
				}
			}

			if err := tx.UpdateStatus(ctx, o.ID, o.Status, to); err != nil {
				return err
			}

			from = o.Status
			o.Status = to
			o.UpdatedAt = time.Now()
			updated = o
			return nil
		})
	})
	if err != nil {
		log.Warn("order transition refused", zap.Error(err))
		return nil, err
	}

	s.recorder.Transition(string(from), string(to))
	log.Info("order status changed",
		zap.String("from", string(from)),
		zap.Bool("restocked", restored),
	)
	return updated, nil
}

// restock returns line quantities to inventory. Commodities deleted since
// the order was placed have nowhere to go back to and are skipped.
func restock(ctx context.Context, tx TxRepository, items []OrderItem) error {
	deltas := stockDeltas(items, 1)

	ids := make([]string, len(deltas))
	for i, d := range deltas {
		ids[i] = d.CommodityID
	}
	stock, err := tx.Inventory(ctx, ids)
	if err != nil {
		return err
	}

	for _, d := range deltas {
		item, ok := stock[d.CommodityID]
		if !ok {
			logger.FromCtx(ctx).Warn("skipping restock of deleted commodity",
				zap.String("layer", "service"),
				zap.String("commodity_id", d.CommodityID),
				zap.Int("quantity", d.Delta),
			)
			continue
		}
		if err := tx.AdjustStock(ctx, d.CommodityID, item.Version, d.Delta); err != nil {
			return err
		}
	}
	return nil
}

func (s *service) Get(ctx context.Context, orderID string) (*Order, error) {
	return s.repo.GetByID(ctx, orderID)
}

func (s *service) GetForCustomer(ctx context.Context, customerID, orderID string) (*Order, error) {
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.CustomerID != customerID {
		return nil, ErrNotOwner
	}
	return o, nil
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]*Order, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) CountByStatus(ctx context.Context) (map[Status]int, error) {
	return s.repo.CountByStatus(ctx)
}

// ParseCardType is a convenience for handlers that accept an optional
// card type alongside an order.
func ParseCardType(cards *rationcard.Registry, raw string) (rationcard.Type, error) {
	if raw == "" {
		return "", nil
	}
	return cards.Parse(raw)
}
