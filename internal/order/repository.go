package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"ration-be/internal/inventory"
	"ration-be/internal/logger"
	"ration-be/internal/rationcard"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	// WithTx runs fn inside one database transaction, committing only if
	// fn returns nil.
	WithTx(ctx context.Context, fn func(tx TxRepository) error) error
	GetByID(ctx context.Context, id string) (*Order, error)
	List(ctx context.Context, filter ListFilter) ([]*Order, error)
	CountByStatus(ctx context.Context) (map[Status]int, error)
}

// TxRepository is the transactional view used by placement and the
// lifecycle. Every write is conditional on a value read earlier in the
// same transaction; a mismatch returns an error wrapping
// apperr.ErrTransactionConflict.
type TxRepository interface {
	Customer(ctx context.Context, customerID string) (*CustomerRef, error)
	BumpCustomerVersion(ctx context.Context, customerID string, version int64) error
	Inventory(ctx context.Context, ids []string) (map[string]*inventory.Item, error)
	ListInventory(ctx context.Context) ([]*inventory.Item, error)
	AdjustStock(ctx context.Context, commodityID string, version int64, delta int) error
	OrdersSince(ctx context.Context, customerID string, since time.Time) ([]*Order, error)
	Insert(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id string) (*Order, error)
	UpdateStatus(ctx context.Context, id string, from, to Status) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

// querier is the subset of *sql.DB and *sql.Tx the readers need.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (r *repository) WithTx(ctx context.Context, fn func(tx TxRepository) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(&txRepository{q: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		// Postgres reports a serialization failure at commit when a
		// concurrent writer won.
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pgSerializationFailure {
			return fmt.Errorf("%w: %v", ErrStaleInventory, err)
		}
		return err
	}
	return nil
}

const pgSerializationFailure = "40001"

func (r *repository) GetByID(ctx context.Context, id string) (*Order, error) {
	return getOrder(ctx, r.db, id)
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]*Order, error) {
	query := `
		SELECT id, order_number, customer_id, card_type, total_amount,
		       status, order_date, updated_at
		FROM orders
		WHERE 1=1
	`
	args := []any{}
	argIndex := 1

	if filter.CustomerID != nil {
		query += fmt.Sprintf(" AND customer_id = $%d", argIndex)
		args = append(args, *filter.CustomerID)
		argIndex++
	}
	if filter.Status != nil {
		// Older rows may carry an upper-case status.
		query += fmt.Sprintf(" AND LOWER(status) = $%d", argIndex)
		args = append(args, string(*filter.Status))
		argIndex++
	}
	if filter.From != nil {
		query += fmt.Sprintf(" AND order_date >= $%d", argIndex)
		args = append(args, *filter.From)
		argIndex++
	}
	if filter.To != nil {
		query += fmt.Sprintf(" AND order_date < $%d", argIndex)
		args = append(args, *filter.To)
		argIndex++
	}

	query += fmt.Sprintf(" ORDER BY order_date DESC LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to query orders",
			zap.String("layer", "repository"),
			zap.Error(err),
		)
		return nil, err
	}
	defer rows.Close()

	orders := []*Order{}
	byID := map[string]*Order{}
	ids := []string{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
		byID[o.ID] = o
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return orders, nil
	}

	if err := loadItems(ctx, r.db, ids, byID); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repository) CountByStatus(ctx context.Context) (map[Status]int, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT LOWER(status), COUNT(*) FROM orders GROUP BY LOWER(status)
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[Status]int{}
	for rows.Next() {
		var (
			raw string
			n   int
		)
		if err := rows.Scan(&raw, &n); err != nil {
			return nil, err
		}
		status, err := ParseStatus(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorruptOrderRecord, err)
		}
		counts[status] += n
	}
	return counts, rows.Err()
}

type txRepository struct {
	q querier
}

func (t *txRepository) Customer(ctx context.Context, customerID string) (*CustomerRef, error) {
	var (
		ref      CustomerRef
		cardType string
	)
	err := t.q.QueryRowContext(ctx,
		`SELECT id, card_type, version FROM customers WHERE id = $1`, customerID,
	).Scan(&ref.ID, &cardType, &ref.Version)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCustomerNotFound
	}
	if err != nil {
		return nil, err
	}
	ref.CardType = rationcard.Type(cardType)
	return &ref, nil
}

func (t *txRepository) BumpCustomerVersion(ctx context.Context, customerID string, version int64) error {
	res, err := t.q.ExecContext(ctx, `
		UPDATE customers SET version = version + 1
		WHERE id = $1 AND version = $2
	`, customerID, version)
	return expectOneRow(res, err, ErrStaleCustomer)
}

func (t *txRepository) Inventory(ctx context.Context, ids []string) (map[string]*inventory.Item, error) {
	items, err := queryItems(ctx, t.q,
		`SELECT `+inventory.Columns+` FROM inventory WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*inventory.Item, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}
	return byID, nil
}

func (t *txRepository) ListInventory(ctx context.Context) ([]*inventory.Item, error) {
	return queryItems(ctx, t.q, `SELECT `+inventory.Columns+` FROM inventory ORDER BY name ASC`)
}

func (t *txRepository) AdjustStock(ctx context.Context, commodityID string, version int64, delta int) error {
	res, err := t.q.ExecContext(ctx, `
		UPDATE inventory
		SET quantity = quantity + $1, version = version + 1, last_updated = NOW()
		WHERE id = $2 AND version = $3 AND quantity + $1 >= 0
	`, delta, commodityID, version)
	return expectOneRow(res, err, ErrStaleInventory)
}

func (t *txRepository) OrdersSince(ctx context.Context, customerID string, since time.Time) ([]*Order, error) {
	rows, err := t.q.QueryContext(ctx, `
		SELECT o.id, o.status, o.order_date, i.commodity_id, i.quantity
		FROM orders o
		JOIN order_items i ON i.order_id = o.id
		WHERE o.customer_id = $1 AND o.order_date >= $2
		ORDER BY o.order_date ASC, i.line_no ASC
	`, customerID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []*Order{}
	byID := map[string]*Order{}
	for rows.Next() {
		var (
			id, rawStatus string
			date          time.Time
			item          OrderItem
		)
		if err := rows.Scan(&id, &rawStatus, &date, &item.CommodityID, &item.Quantity); err != nil {
			return nil, err
		}

		o, ok := byID[id]
		if !ok {
			status, err := ParseStatus(rawStatus)
			if err != nil {
				return nil, fmt.Errorf("%w: order %s: %v", ErrCorruptOrderRecord, id, err)
			}
			o = &Order{ID: id, CustomerID: customerID, Status: status, OrderDate: date}
			byID[id] = o
			orders = append(orders, o)
		}
		o.Items = append(o.Items, item)
	}
	return orders, rows.Err()
}

func (t *txRepository) Insert(ctx context.Context, o *Order) error {
	_, err := t.q.ExecContext(ctx, `
		INSERT INTO orders (
			id, order_number, customer_id, card_type,
			total_amount, status, order_date, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$7)
	`,
		o.ID, o.OrderNumber, o.CustomerID, string(o.CardType),
		o.TotalAmount, string(o.Status), o.OrderDate,
	)
	if err != nil {
		return err
	}

	for i, it := range o.Items {
		_, err = t.q.ExecContext(ctx, `
			INSERT INTO order_items (
				order_id, line_no, commodity_id, name,
				quantity, unit_price, unit
			) VALUES ($1,$2,$3,$4,$5,$6,$7)
		`, o.ID, i+1, it.CommodityID, it.Name, it.Quantity, it.UnitPrice, it.Unit)
		if err != nil {
			return err
		}
	}

	o.UpdatedAt = o.OrderDate
	return nil
}

func (t *txRepository) GetByID(ctx context.Context, id string) (*Order, error) {
	return getOrder(ctx, t.q, id)
}

func (t *txRepository) UpdateStatus(ctx context.Context, id string, from, to Status) error {
	// from is the normalised status; match older spellings too.
	res, err := t.q.ExecContext(ctx, `
		UPDATE orders SET status = $1, updated_at = NOW()
		WHERE id = $2 AND LOWER(status) = ANY($3)
	`, string(to), id, pq.Array(spellings(from)))
	return expectOneRow(res, err, ErrStaleStatus)
}

// spellings lists every stored value that normalises to s.
func spellings(s Status) []string {
	out := []string{string(s)}
	for legacy, current := range legacyStatus {
		if current == s {
			out = append(out, legacy)
		}
	}
	return out
}

func expectOneRow(res sql.Result, err error, conflict error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n != 1 {
		return conflict
	}
	return nil
}

func queryItems(ctx context.Context, q querier, query string, args ...any) ([]*inventory.Item, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []*inventory.Item{}
	for rows.Next() {
		item, err := inventory.Scan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*Order, error) {
	var (
		o         Order
		cardType  string
		rawStatus string
	)
	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.CustomerID, &cardType, &o.TotalAmount,
		&rawStatus, &o.OrderDate, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	o.CardType = rationcard.Type(cardType)
	if o.Status, err = ParseStatus(rawStatus); err != nil {
		return nil, fmt.Errorf("%w: order %s: %v", ErrCorruptOrderRecord, o.ID, err)
	}
	o.Items = []OrderItem{}
	return &o, nil
}

func getOrder(ctx context.Context, q querier, id string) (*Order, error) {
	o, err := scanOrder(q.QueryRowContext(ctx, `
		SELECT id, order_number, customer_id, card_type, total_amount,
		       status, order_date, updated_at
		FROM orders WHERE id = $1
	`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := loadItems(ctx, q, []string{o.ID}, map[string]*Order{o.ID: o}); err != nil {
		return nil, err
	}
	return o, nil
}

func loadItems(ctx context.Context, q querier, ids []string, byID map[string]*Order) error {
	rows, err := q.QueryContext(ctx, `
		SELECT order_id, commodity_id, name, quantity, unit_price, unit
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY order_id, line_no
	`, pq.Array(ids))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			orderID string
			it      OrderItem
		)
		if err := rows.Scan(&orderID, &it.CommodityID, &it.Name, &it.Quantity, &it.UnitPrice, &it.Unit); err != nil {
			return err
		}
		if o, ok := byID[orderID]; ok {
			o.Items = append(o.Items, it)
		}
	}
	return rows.Err()
}
