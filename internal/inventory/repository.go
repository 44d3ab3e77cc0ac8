package inventory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"ration-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	Create(ctx context.Context, item *Item) error
	GetByID(ctx context.Context, id string) (*Item, error)
	List(ctx context.Context) ([]*Item, error)
	ListLowStock(ctx context.Context) ([]*Item, error)
	CountLowStock(ctx context.Context) (int, error)
	Update(ctx context.Context, item *Item) error
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

// Columns is the select list understood by Scan.
const Columns = `id, name, unit, quantity, minimum_stock, prices, version, last_updated`

// RowScanner is satisfied by *sql.Row and *sql.Rows.
type RowScanner interface {
	Scan(dest ...any) error
}

// Scan reads one inventory row selected with Columns, upgrading the
// prices document if it was stored in the legacy shape.
func Scan(row RowScanner) (*Item, error) {
	var (
		item   Item
		prices []byte
	)

	err := row.Scan(
		&item.ID, &item.Name, &item.Unit, &item.Quantity, &item.MinimumStock,
		&prices, &item.Version, &item.LastUpdated,
	)
	if err != nil {
		return nil, err
	}

	if item.Prices, err = decodePrices(prices); err != nil {
		return nil, fmt.Errorf("inventory %s: %w", item.ID, err)
	}
	return &item, nil
}

func (r *repository) Create(ctx context.Context, item *Item) error {
	prices, err := encodePrices(item.Prices)
	if err != nil {
		return err
	}

	err = r.db.QueryRowContext(ctx, `
		INSERT INTO inventory (id, name, unit, quantity, minimum_stock, prices)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING version, last_updated
	`, item.ID, item.Name, item.Unit, item.Quantity, item.MinimumStock, prices,
	).Scan(&item.Version, &item.LastUpdated)

	if err != nil {
		logger.FromCtx(ctx).Error("failed to insert inventory item",
			zap.String("layer", "repository"),
			zap.String("item_id", item.ID),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Item, error) {
	item, err := Scan(r.db.QueryRowContext(ctx,
		`SELECT `+Columns+` FROM inventory WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrItemNotFound
	}
	return item, err
}

func (r *repository) List(ctx context.Context) ([]*Item, error) {
	return r.query(ctx, `SELECT `+Columns+` FROM inventory ORDER BY name ASC`)
}

func (r *repository) ListLowStock(ctx context.Context) ([]*Item, error) {
	return r.query(ctx, `
		SELECT `+Columns+` FROM inventory
		WHERE quantity <= minimum_stock
		ORDER BY quantity ASC, name ASC
	`)
}

func (r *repository) CountLowStock(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM inventory WHERE quantity <= minimum_stock`,
	).Scan(&n)
	return n, err
}

// Update writes every mutable column of item, including quantity, as long
// as the stored version still matches.
func (r *repository) Update(ctx context.Context, item *Item) error {
	prices, err := encodePrices(item.Prices)
	if err != nil {
		return err
	}

	err = r.db.QueryRowContext(ctx, `
		UPDATE inventory
		SET name = $1, unit = $2, quantity = $3, minimum_stock = $4, prices = $5,
		    version = version + 1, last_updated = NOW()
		WHERE id = $6 AND version = $7
		RETURNING version, last_updated
	`, item.Name, item.Unit, item.Quantity, item.MinimumStock, prices, item.ID, item.Version,
	).Scan(&item.Version, &item.LastUpdated)

	if errors.Is(err, sql.ErrNoRows) {
		return ErrConcurrentUpdate
	}
	return err
}

func (r *repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM inventory WHERE id = $1`, id)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to delete inventory item",
			zap.String("layer", "repository"),
			zap.String("item_id", id),
			zap.Error(err),
		)
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (r *repository) query(ctx context.Context, query string, args ...any) ([]*Item, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []*Item{}
	for rows.Next() {
		item, err := Scan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
