package order

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"ration-be/internal/inventory"
	"ration-be/internal/rationcard"
)

// maxLineQuantity bounds a single merged line so quantity sums and stock
// arithmetic stay well inside int range.
const maxLineQuantity = math.MaxInt32

// normalizeLines rejects empty or non-positive lines and merges repeated
// commodities, keeping the order in which they first appear.
func normalizeLines(lines []Line) ([]Line, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyOrder
	}

	merged := make([]Line, 0, len(lines))
	index := make(map[string]int, len(lines))

	for _, l := range lines {
		id := strings.TrimSpace(l.CommodityID)
		if id == "" {
			return nil, fmt.Errorf("%w: missing commodity id", ErrInvalidLine)
		}
		if l.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity for %s must be positive", ErrInvalidLine, id)
		}
		if l.Quantity > maxLineQuantity {
			return nil, fmt.Errorf("%w: quantity for %s exceeds %d", ErrInvalidLine, id, maxLineQuantity)
		}

		if i, ok := index[id]; ok {
			if merged[i].Quantity > maxLineQuantity-l.Quantity {
				return nil, fmt.Errorf("%w: total quantity for %s exceeds %d", ErrInvalidLine, id, maxLineQuantity)
			}
			merged[i].Quantity += l.Quantity
			continue
		}
		index[id] = len(merged)
		merged = append(merged, Line{CommodityID: id, Quantity: l.Quantity})
	}

	return merged, nil
}

func commodityIDs(lines []Line) []string {
	ids := make([]string, len(lines))
	for i, l := range lines {
		ids[i] = l.CommodityID
	}
	return ids
}

// buildItems checks every line against current stock, then against the
// remaining quota, and snapshots name, unit and card-type price. Prices are
// rounded to cents so stored totals match the stored line prices. Stock is
// checked for all lines before quota so the reported failure does not
// depend on line order.
func buildItems(
	lines []Line,
	stock map[string]*inventory.Item,
	remaining map[string]int,
	cardType rationcard.Type,
) ([]OrderItem, error) {
	for _, l := range lines {
		if _, ok := stock[l.CommodityID]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrCommodityNotFound, l.CommodityID)
		}
	}

	for _, l := range lines {
		item := stock[l.CommodityID]
		if item.Quantity < l.Quantity {
			return nil, fmt.Errorf("%w: %s has %d %s, requested %d",
				ErrInsufficientStock, item.Name, item.Quantity, item.Unit, l.Quantity)
		}
	}

	for _, l := range lines {
		if left := remaining[l.CommodityID]; l.Quantity > left {
			return nil, fmt.Errorf("%w: %s allows %d more this month, requested %d",
				ErrQuotaExceeded, stock[l.CommodityID].Name, left, l.Quantity)
		}
	}

	items := make([]OrderItem, 0, len(lines))
	for _, l := range lines {
		item := stock[l.CommodityID]
		price, ok := item.PriceFor(cardType)
		if !ok {
			return nil, fmt.Errorf("%w: %s for %s", ErrNotPriced, item.Name, cardType)
		}
		items = append(items, OrderItem{
			CommodityID: item.ID,
			Name:        item.Name,
			Quantity:    l.Quantity,
			UnitPrice:   price.Round(2),
			Unit:        item.Unit,
		})
	}

	return items, nil
}

// stockDeltas folds line quantities into one signed change per commodity,
// sorted by id so concurrent transactions touch rows in the same order.
func stockDeltas(items []OrderItem, sign int) []stockDelta {
	byID := make(map[string]int, len(items))
	for _, it := range items {
		byID[it.CommodityID] += sign * it.Quantity
	}

	deltas := make([]stockDelta, 0, len(byID))
	for id, d := range byID {
		deltas = append(deltas, stockDelta{CommodityID: id, Delta: d})
	}
	sort.Slice(deltas, func(i, j int) bool { return deltas[i].CommodityID < deltas[j].CommodityID })
	return deltas
}

type stockDelta struct {
	CommodityID string
	Delta       int
}
