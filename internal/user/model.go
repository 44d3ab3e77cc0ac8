package user

import "time"

// Admin is a back-office account. Customers have no password; they sign
// in through the customer token endpoint instead.
type Admin struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}
