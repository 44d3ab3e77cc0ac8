// Package seed loads reference data (card quotas, inventory, admin and
// demo customer accounts) from a YAML file into an empty or partially
// populated database. Loading is idempotent: records that already exist
// are left alone.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"

	"ration-be/internal/customer"
	"ration-be/internal/inventory"
	"ration-be/internal/logger"
	"ration-be/internal/quota"
	"ration-be/internal/user"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type File struct {
	CardQuotas []CardQuota `yaml:"cardQuotas"`
	Inventory  []Item      `yaml:"inventory"`
	Admins     []Admin     `yaml:"admins"`
	Customers  []Customer  `yaml:"customers"`
}

type CardQuota struct {
	CardType     string         `yaml:"cardType"`
	Description  string         `yaml:"description"`
	MonthlyQuota map[string]int `yaml:"monthlyQuota"`
}

type Item struct {
	ID           string            `yaml:"id"`
	Name         string            `yaml:"name"`
	Unit         string            `yaml:"unit"`
	Quantity     int               `yaml:"quantity"`
	MinimumStock int               `yaml:"minimumStock"`
	Prices       map[string]string `yaml:"prices"`
}

type Admin struct {
	Email    string `yaml:"email"`
	Name     string `yaml:"name"`
	Password string `yaml:"password"`
}

type Customer struct {
	Name          string   `yaml:"name"`
	Phone         string   `yaml:"phone"`
	Address       string   `yaml:"address"`
	NationalID    string   `yaml:"nationalId"`
	CardType      string   `yaml:"cardType"`
	CardNumber    string   `yaml:"cardNumber"`
	FamilyMembers []Member `yaml:"familyMembers"`
}

type Member struct {
	Name       string `yaml:"name"`
	Relation   string `yaml:"relation"`
	Age        int    `yaml:"age"`
	NationalID string `yaml:"nationalId"`
}

// Parse decodes a seed file, rejecting unknown keys.
func Parse(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse seed: %w", err)
	}
	return &f, nil
}

// Loader writes a parsed File through the domain services so the same
// validation applies as for API writes.
type Loader struct {
	Quotas    quota.Service
	Inventory inventory.Service
	Admins    user.Service
	Customers customer.Service
}

type Result struct {
	CardQuotas int
	Items      int
	Admins     int
	Customers  int
	Skipped    int
}

func (l *Loader) Load(ctx context.Context, f *File) (*Result, error) {
	log := logger.FromCtx(ctx).With(zap.String("layer", "seed"))
	res := &Result{}

	for _, q := range f.CardQuotas {
		if _, err := l.Quotas.Upsert(ctx, q.CardType, quota.UpsertParams{
			MonthlyQuota: q.MonthlyQuota,
			Description:  q.Description,
		}); err != nil {
			return res, fmt.Errorf("card quota %s: %w", q.CardType, err)
		}
		res.CardQuotas++
	}

	for _, it := range f.Inventory {
		if it.ID != "" {
			if _, err := l.Inventory.Get(ctx, it.ID); err == nil {
				log.Debug("inventory item exists", zap.String("item_id", it.ID))
				res.Skipped++
				continue
			} else if !errors.Is(err, inventory.ErrItemNotFound) {
				return res, fmt.Errorf("inventory %s: %w", it.ID, err)
			}
		}

		prices, err := parsePrices(it.Prices)
		if err != nil {
			return res, fmt.Errorf("inventory %s: %w", it.Name, err)
		}
		if _, err := l.Inventory.Create(ctx, inventory.CreateParams{
			ID:           it.ID,
			Name:         it.Name,
			Unit:         it.Unit,
			Quantity:     it.Quantity,
			MinimumStock: it.MinimumStock,
			Prices:       prices,
		}); err != nil {
			return res, fmt.Errorf("inventory %s: %w", it.Name, err)
		}
		res.Items++
	}

	for _, a := range f.Admins {
		_, err := l.Admins.Register(ctx, a.Email, a.Name, a.Password)
		if errors.Is(err, user.ErrEmailExists) {
			res.Skipped++
			continue
		}
		if err != nil {
			return res, fmt.Errorf("admin %s: %w", a.Email, err)
		}
		res.Admins++
	}

	for _, c := range f.Customers {
		members := make([]customer.FamilyMember, len(c.FamilyMembers))
		for i, m := range c.FamilyMembers {
			members[i] = customer.FamilyMember{Name: m.Name, Relation: m.Relation, Age: m.Age, NationalID: m.NationalID}
		}

		_, err := l.Customers.Create(ctx, customer.CreateParams{
			Name:          c.Name,
			Phone:         c.Phone,
			Address:       c.Address,
			NationalID:    c.NationalID,
			CardType:      c.CardType,
			CardNumber:    c.CardNumber,
			FamilyMembers: members,
		})
		if errors.Is(err, customer.ErrNationalIDExists) {
			res.Skipped++
			continue
		}
		if err != nil {
			return res, fmt.Errorf("customer %s: %w", c.Name, err)
		}
		res.Customers++
	}

	log.Info("seed loaded",
		zap.Int("card_quotas", res.CardQuotas),
		zap.Int("items", res.Items),
		zap.Int("admins", res.Admins),
		zap.Int("customers", res.Customers),
		zap.Int("skipped", res.Skipped),
	)
	return res, nil
}

func parsePrices(in map[string]string) (map[string]decimal.Decimal, error) {
	out := make(map[string]decimal.Decimal, len(in))
	for cardType, raw := range in {
		p, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("price for %s: %w", cardType, err)
		}
		if !p.Equal(p.Round(2)) {
			return nil, fmt.Errorf("price for %s: %q has more than 2 decimal places", cardType, raw)
		}
		out[cardType] = p
	}
	return out, nil
}
