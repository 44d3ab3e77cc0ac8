package customer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"ration-be/internal/logger"
	"ration-be/internal/rationcard"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	Create(ctx context.Context, c *Customer) error
	GetByID(ctx context.Context, id string) (*Customer, error)
	GetByNationalID(ctx context.Context, nationalID string) (*Customer, error)
	List(ctx context.Context, filter ListFilter) ([]*Customer, error)
	Update(ctx context.Context, c *Customer) error
	Count(ctx context.Context) (int, error)
	HasOrders(ctx context.Context, customerID string) (bool, error)
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const selectCustomer = `
	SELECT id, name, phone, address, national_id, card_type, card_number,
	       family_members, version, created_at, updated_at
	FROM customers
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCustomer(row rowScanner) (*Customer, error) {
	var (
		c        Customer
		cardType string
		family   []byte
	)

	err := row.Scan(
		&c.ID, &c.Name, &c.Phone, &c.Address, &c.NationalID, &cardType,
		&c.CardNumber, &family, &c.Version, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	c.CardType = rationcard.Type(cardType)
	if c.FamilyMembers, err = decodeFamilyMembers(family); err != nil {
		return nil, fmt.Errorf("customer %s: %w", c.ID, err)
	}

	return &c, nil
}

func (r *repository) Create(ctx context.Context, c *Customer) error {
	family, err := encodeFamilyMembers(c.FamilyMembers)
	if err != nil {
		return err
	}

	err = r.db.QueryRowContext(ctx, `
		INSERT INTO customers (
			id, name, phone, address, national_id, card_type,
			card_number, family_members
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING version, created_at, updated_at
	`,
		c.ID, c.Name, c.Phone, c.Address, c.NationalID, string(c.CardType),
		c.CardNumber, family,
	).Scan(&c.Version, &c.CreatedAt, &c.UpdatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == PgUniqueViolation {
			return ErrNationalIDExists
		}
		logger.FromCtx(ctx).Error("failed to insert customer",
			zap.String("layer", "repository"),
			zap.String("customer_id", c.ID),
			zap.Error(err),
		)
		return err
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Customer, error) {
	c, err := scanCustomer(r.db.QueryRowContext(ctx, selectCustomer+` WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCustomerNotFound
	}
	return c, err
}

func (r *repository) GetByNationalID(ctx context.Context, nationalID string) (*Customer, error) {
	c, err := scanCustomer(r.db.QueryRowContext(ctx, selectCustomer+` WHERE national_id = $1`, nationalID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCustomerNotFound
	}
	return c, err
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]*Customer, error) {
	query := selectCustomer + ` WHERE 1=1`
	args := []any{}
	argIndex := 1

	if filter.Search != nil && *filter.Search != "" {
		query += fmt.Sprintf(" AND (name ILIKE $%d OR card_number ILIKE $%d)", argIndex, argIndex)
		args = append(args, "%"+*filter.Search+"%")
		argIndex++
	}

	if filter.CardType != nil {
		query += fmt.Sprintf(" AND card_type = $%d", argIndex)
		args = append(args, string(*filter.CardType))
		argIndex++
	}

	query += fmt.Sprintf(" ORDER BY name ASC LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	customers := []*Customer{}
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}

	return customers, rows.Err()
}

// Update writes c if nobody else changed it since it was read.
func (r *repository) Update(ctx context.Context, c *Customer) error {
	family, err := encodeFamilyMembers(c.FamilyMembers)
	if err != nil {
		return err
	}

	err = r.db.QueryRowContext(ctx, `
		UPDATE customers
		SET name = $1, phone = $2, address = $3, card_type = $4,
		    card_number = $5, family_members = $6,
		    version = version + 1, updated_at = NOW()
		WHERE id = $7 AND version = $8
		RETURNING version, updated_at
	`,
		c.Name, c.Phone, c.Address, string(c.CardType),
		c.CardNumber, family, c.ID, c.Version,
	).Scan(&c.Version, &c.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return ErrConcurrentUpdate
	}
	return err
}

func (r *repository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM customers`).Scan(&n)
	return n, err
}

func (r *repository) HasOrders(ctx context.Context, customerID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM orders WHERE customer_id = $1)`, customerID,
	).Scan(&exists)
	return exists, err
}

// Delete removes a customer. Rows still referencing the customer make the
// foreign key refuse the delete, which surfaces as ErrCustomerInUse.
func (r *repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == PgForeignKeyViolation {
			return ErrCustomerInUse
		}
		logger.FromCtx(ctx).Error("failed to delete customer",
			zap.String("layer", "repository"),
			zap.String("customer_id", id),
			zap.Error(err),
		)
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrCustomerNotFound
	}
	return nil
}
