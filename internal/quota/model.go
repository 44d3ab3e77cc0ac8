package quota

import (
	"time"

	"ration-be/internal/rationcard"
)

// CardTypeQuota is the monthly allocation for one card type, keyed by
// commodity id. It is overwritten in place and keeps no history.
type CardTypeQuota struct {
	CardType     rationcard.Type `json:"cardType"`
	MonthlyQuota map[string]int  `json:"monthlyQuota"`
	Description  string          `json:"description"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// Allocated returns the monthly allowance for a commodity; commodities
// absent from the table get nothing.
func (q *CardTypeQuota) Allocated(commodityID string) int {
	return q.MonthlyQuota[commodityID]
}

type UpsertParams struct {
	MonthlyQuota map[string]int `json:"monthlyQuota"`
	Description  string         `json:"description"`
}
