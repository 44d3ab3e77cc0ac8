package order

import "time"

// Consumption sums, per commodity, the quantities a customer ordered on
// or after monthStart. Orders that no longer count toward the quota are
// skipped.
func Consumption(orders []*Order, monthStart time.Time) map[string]int {
	used := make(map[string]int)
	for _, o := range orders {
		if o.OrderDate.Before(monthStart) || !o.Status.CountsTowardQuota() {
			continue
		}
		for _, it := range o.Items {
			used[it.CommodityID] += it.Quantity
		}
	}
	return used
}

// RemainingQuota computes max(0, allocated - consumed) for every
// commodity id. A commodity missing from allocation is allotted zero.
func RemainingQuota(allocation map[string]int, commodityIDs []string, orders []*Order, monthStart time.Time) map[string]int {
	used := Consumption(orders, monthStart)

	remaining := make(map[string]int, len(commodityIDs))
	for _, id := range commodityIDs {
		left := allocation[id] - used[id]
		if left < 0 {
			left = 0
		}
		remaining[id] = left
	}
	return remaining
}
