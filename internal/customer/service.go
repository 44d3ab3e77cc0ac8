package customer

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"ration-be/internal/apperr"
	"ration-be/internal/logger"
	"ration-be/internal/rationcard"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service interface {
	Create(ctx context.Context, params CreateParams) (*Customer, error)
	Get(ctx context.Context, id string) (*Customer, error)
	GetByNationalID(ctx context.Context, nationalID string) (*Customer, error)
	List(ctx context.Context, filter ListFilter) ([]*Customer, error)
	Update(ctx context.Context, id string, params UpdateParams) (*Customer, error)
	Count(ctx context.Context) (int, error)
	// Verify checks an out-of-band identity claim before a session token
	// is issued for the customer.
	Verify(ctx context.Context, customerID, nationalID string) (*Customer, error)
	// Delete removes a customer who has never placed an order.
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo  Repository
	cards *rationcard.Registry
}

func NewService(repo Repository, cards *rationcard.Registry) Service {
	return &service{repo: repo, cards: cards}
}

func (s *service) Create(ctx context.Context, params CreateParams) (*Customer, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateCustomer"),
	)

	cardType, err := s.cards.Parse(params.CardType)
	if err != nil {
		return nil, err
	}

	c := &Customer{
		ID:            uuid.New().String(),
		Name:          strings.TrimSpace(params.Name),
		Phone:         strings.TrimSpace(params.Phone),
		Address:       strings.TrimSpace(params.Address),
		NationalID:    strings.TrimSpace(params.NationalID),
		CardType:      cardType,
		CardNumber:    strings.TrimSpace(params.CardNumber),
		FamilyMembers: params.FamilyMembers,
	}

	if err := validate(c); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, c); err != nil {
		log.Warn("create customer failed", zap.Error(err))
		return nil, err
	}

	log.Info("customer created",
		zap.String("customer_id", c.ID),
		zap.String("card_type", string(c.CardType)),
	)
	return c, nil
}

func (s *service) Get(ctx context.Context, id string) (*Customer, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetByNationalID(ctx context.Context, nationalID string) (*Customer, error) {
	return s.repo.GetByNationalID(ctx, strings.TrimSpace(nationalID))
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]*Customer, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

func (s *service) Update(ctx context.Context, id string, params UpdateParams) (*Customer, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "UpdateCustomer"),
		zap.String("customer_id", id),
	)

	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Name != nil {
		c.Name = strings.TrimSpace(*params.Name)
	}
	if params.Phone != nil {
		c.Phone = strings.TrimSpace(*params.Phone)
	}
	if params.Address != nil {
		c.Address = strings.TrimSpace(*params.Address)
	}
	if params.CardNumber != nil {
		c.CardNumber = strings.TrimSpace(*params.CardNumber)
	}
	if params.FamilyMembers != nil {
		c.FamilyMembers = *params.FamilyMembers
	}

	if params.CardType != nil {
		cardType, err := s.cards.Parse(*params.CardType)
		if err != nil {
			return nil, err
		}
		if cardType != c.CardType {
			// Orders snapshot the card type; changing it afterwards would
			// split one customer's month across two quota tables.
			hasOrders, err := s.repo.HasOrders(ctx, c.ID)
			if err != nil {
				return nil, err
			}
			if hasOrders {
				log.Warn("refusing card type change",
					zap.String("from", string(c.CardType)),
					zap.String("to", string(cardType)),
				)
				return nil, ErrCardTypeLocked
			}
			c.CardType = cardType
		}
	}

	if err := validate(c); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}

	log.Info("customer updated")
	return c, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "DeleteCustomer"),
		zap.String("customer_id", id),
	)

	hasOrders, err := s.repo.HasOrders(ctx, id)
	if err != nil {
		return err
	}
	if hasOrders {
		log.Warn("refusing to delete customer with orders")
		return ErrCustomerInUse
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	log.Info("customer deleted")
	return nil
}

// nationalIDMatches compares in constant time so response timing does not
// leak how many leading digits were right.
func nationalIDMatches(stored, given string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(strings.TrimSpace(given))) == 1
}

func (s *service) Verify(ctx context.Context, customerID, nationalID string) (*Customer, error) {
	c, err := s.repo.GetByID(ctx, strings.TrimSpace(customerID))
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, ErrIdentityMismatch
	}
	if err != nil {
		return nil, err
	}

	if !nationalIDMatches(c.NationalID, nationalID) {
		logger.FromCtx(ctx).Warn("customer identity mismatch",
			zap.String("customer_id", customerID),
		)
		return nil, ErrIdentityMismatch
	}

	return c, nil
}

func validate(c *Customer) error {
	switch {
	case c.Name == "":
		return fmt.Errorf("%w: name is required", ErrInvalidCustomer)
	case !isDigits(c.NationalID):
		return fmt.Errorf("%w: national id must be numeric", ErrInvalidCustomer)
	case c.CardNumber == "":
		return fmt.Errorf("%w: card number is required", ErrInvalidCustomer)
	}

	for i, m := range c.FamilyMembers {
		if strings.TrimSpace(m.Name) == "" {
			return fmt.Errorf("%w: family member %d has no name", ErrInvalidCustomer, i)
		}
		if m.Age < 0 || m.Age > 150 {
			return fmt.Errorf("%w: family member %d has invalid age", ErrInvalidCustomer, i)
		}
		if m.NationalID != "" && !isDigits(m.NationalID) {
			return fmt.Errorf("%w: family member %d national id must be numeric", ErrInvalidCustomer, i)
		}
	}

	return nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
