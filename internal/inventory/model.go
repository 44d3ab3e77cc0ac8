package inventory

import (
	"time"

	"ration-be/internal/rationcard"

	"github.com/shopspring/decimal"
)

// Item is one commodity held in stock.
type Item struct {
	ID           string                             `json:"id"`
	Name         string                             `json:"name"`
	Unit         string                             `json:"unit"`
	Quantity     int                                `json:"quantity"`
	MinimumStock int                                `json:"minimumStock"`
	Prices       map[rationcard.Type]decimal.Decimal `json:"prices"`
	Version      int64                              `json:"-"`
	LastUpdated  time.Time                          `json:"lastUpdated"`
}

// PriceFor returns the per-unit price charged to holders of the card type.
func (i *Item) PriceFor(t rationcard.Type) (decimal.Decimal, bool) {
	p, ok := i.Prices[t]
	return p, ok
}

func (i *Item) LowStock() bool {
	return i.Quantity <= i.MinimumStock
}

// CreateParams.ID is optional; a random id is assigned when empty.
type CreateParams struct {
	ID           string                     `json:"id"`
	Name         string                     `json:"name"`
	Unit         string                     `json:"unit"`
	Quantity     int                        `json:"quantity"`
	MinimumStock int                        `json:"minimumStock"`
	Prices       map[string]decimal.Decimal `json:"prices"`
}

type UpdateParams struct {
	Name         *string                     `json:"name"`
	Unit         *string                     `json:"unit"`
	MinimumStock *int                        `json:"minimumStock"`
	Prices       *map[string]decimal.Decimal `json:"prices"`
}
