package order

import (
	"fmt"
	"strings"
	"time"

	"ration-be/internal/rationcard"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// legacyStatus maps spellings found in older rows to the current set.
var legacyStatus = map[string]Status{
	"canceled": StatusCancelled,
	"accepted": StatusApproved,
}

// ParseStatus normalises a stored or requested status value.
func ParseStatus(raw string) (Status, error) {
	v := strings.ToLower(strings.TrimSpace(raw))
	switch s := Status(v); s {
	case StatusPending, StatusApproved, StatusRejected, StatusCancelled, StatusCompleted:
		return s, nil
	}
	if s, ok := legacyStatus[v]; ok {
		return s, nil
	}
	return "", fmt.Errorf("%w %q", ErrUnknownStatus, raw)
}

// CountsTowardQuota reports whether an order in this status uses up the
// customer's monthly allowance. Cancelled and rejected orders do not.
func (s Status) CountsTowardQuota() bool {
	return s != StatusCancelled && s != StatusRejected
}

type Order struct {
	ID          string          `json:"id"`
	OrderNumber string          `json:"orderNumber"`
	CustomerID  string          `json:"customerId"`
	CardType    rationcard.Type `json:"cardType"`
	Items       []OrderItem     `json:"items"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Status      Status          `json:"status"`
	OrderDate   time.Time       `json:"orderDate"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// OrderItem snapshots name, unit and price at placement so later
// inventory edits never change a historical order.
type OrderItem struct {
	CommodityID string          `json:"commodityId"`
	Name        string          `json:"name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Unit        string          `json:"unit"`
}

func (i OrderItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Total sums the line subtotals.
func Total(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal())
	}
	return total
}

// Line is one requested (commodity, quantity) pair.
type Line struct {
	CommodityID string `json:"commodityId"`
	Quantity    int    `json:"quantity"`
}

type PlaceRequest struct {
	CustomerID string
	// CardType must match the customer record when set.
	CardType rationcard.Type
	Lines    []Line
}

type ListFilter struct {
	CustomerID *string
	Status     *Status
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

// QuotaLine is one commodity of a customer's monthly allowance.
type QuotaLine struct {
	CommodityID string `json:"commodityId"`
	Name        string `json:"name"`
	Unit        string `json:"unit"`
	Allocated   int    `json:"allocated"`
	Consumed    int    `json:"consumed"`
	Remaining   int    `json:"remaining"`
}

type QuotaView struct {
	CustomerID string          `json:"customerId"`
	CardType   rationcard.Type `json:"cardType"`
	MonthStart time.Time       `json:"monthStart"`
	Lines      []QuotaLine     `json:"lines"`
}

// ShopItem is an inventory item as a particular customer sees it.
type ShopItem struct {
	CommodityID string          `json:"commodityId"`
	Name        string          `json:"name"`
	Unit        string          `json:"unit"`
	Price       decimal.Decimal `json:"price"`
	InStock     int             `json:"inStock"`
	Remaining   int             `json:"remaining"`
}

// CustomerRef is the part of a customer record placement reads and
// guards with a version check.
type CustomerRef struct {
	ID       string
	CardType rationcard.Type
	Version  int64
}
