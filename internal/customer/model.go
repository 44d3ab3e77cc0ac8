package customer

import (
	"time"

	"ration-be/internal/rationcard"
)

type Customer struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Phone         string          `json:"phone"`
	Address       string          `json:"address"`
	NationalID    string          `json:"nationalId"`
	CardType      rationcard.Type `json:"cardType"`
	CardNumber    string          `json:"cardNumber"`
	FamilyMembers []FamilyMember  `json:"familyMembers"`
	Version       int64           `json:"-"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

type FamilyMember struct {
	Name       string `json:"name"`
	Relation   string `json:"relation"`
	Age        int    `json:"age"`
	NationalID string `json:"nationalId"`
}

type CreateParams struct {
	Name          string         `json:"name"`
	Phone         string         `json:"phone"`
	Address       string         `json:"address"`
	NationalID    string         `json:"nationalId"`
	CardType      string         `json:"cardType"`
	CardNumber    string         `json:"cardNumber"`
	FamilyMembers []FamilyMember `json:"familyMembers"`
}

// UpdateParams only touches the non-nil fields.
type UpdateParams struct {
	Name          *string         `json:"name"`
	Phone         *string         `json:"phone"`
	Address       *string         `json:"address"`
	CardType      *string         `json:"cardType"`
	CardNumber    *string         `json:"cardNumber"`
	FamilyMembers *[]FamilyMember `json:"familyMembers"`
}

type ListFilter struct {
	Search   *string
	CardType *rationcard.Type
	Limit    int
	Offset   int
}
