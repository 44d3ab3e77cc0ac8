package cart

import (
	"time"

	"ration-be/internal/order"
)

// schemaVersion is bumped whenever the cached Cart shape changes;
// entries written under another version are dropped on read.
const schemaVersion = 2

// Cart is a customer's in-progress selection. It lives only in the
// server-side session cache.
type Cart struct {
	CustomerID    string    `json:"customerId"`
	SchemaVersion int       `json:"-"`
	Items         []Item    `json:"items"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type Item struct {
	CommodityID string `json:"commodityId"`
	Quantity    int    `json:"quantity"`
}

func newCart(customerID string) *Cart {
	return &Cart{
		CustomerID:    customerID,
		SchemaVersion: schemaVersion,
		Items:         []Item{},
	}
}

// Lines converts the cart into order lines.
func (c *Cart) Lines() []order.Line {
	lines := make([]order.Line, len(c.Items))
	for i, it := range c.Items {
		lines[i] = order.Line{CommodityID: it.CommodityID, Quantity: it.Quantity}
	}
	return lines
}

func (c *Cart) set(commodityID string, quantity int) {
	for i := range c.Items {
		if c.Items[i].CommodityID == commodityID {
			c.Items[i].Quantity = quantity
			return
		}
	}
	c.Items = append(c.Items, Item{CommodityID: commodityID, Quantity: quantity})
}

func (c *Cart) remove(commodityID string) bool {
	for i := range c.Items {
		if c.Items[i].CommodityID == commodityID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return true
		}
	}
	return false
}

func (c *Cart) clone() *Cart {
	cp := *c
	cp.Items = append([]Item(nil), c.Items...)
	return &cp
}
