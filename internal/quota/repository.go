package quota

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"ration-be/internal/rationcard"
)

type Repository interface {
	Get(ctx context.Context, cardType rationcard.Type) (*CardTypeQuota, error)
	List(ctx context.Context) ([]*CardTypeQuota, error)
	Upsert(ctx context.Context, q *CardTypeQuota) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanQuota(row scanner) (*CardTypeQuota, error) {
	var (
		q        CardTypeQuota
		cardType string
		raw      []byte
	)
	if err := row.Scan(&cardType, &raw, &q.Description, &q.UpdatedAt); err != nil {
		return nil, err
	}

	q.CardType = rationcard.Type(cardType)
	q.MonthlyQuota = map[string]int{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &q.MonthlyQuota); err != nil {
			return nil, fmt.Errorf("quota %s: %w", cardType, err)
		}
	}
	return &q, nil
}

func (r *repository) Get(ctx context.Context, cardType rationcard.Type) (*CardTypeQuota, error) {
	q, err := scanQuota(r.db.QueryRowContext(ctx, `
		SELECT card_type, monthly_quota, description, updated_at
		FROM card_quotas WHERE card_type = $1
	`, string(cardType)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrQuotaNotFound
	}
	return q, err
}

func (r *repository) List(ctx context.Context) ([]*CardTypeQuota, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT card_type, monthly_quota, description, updated_at
		FROM card_quotas ORDER BY card_type ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	quotas := []*CardTypeQuota{}
	for rows.Next() {
		q, err := scanQuota(rows)
		if err != nil {
			return nil, err
		}
		quotas = append(quotas, q)
	}
	return quotas, rows.Err()
}

func (r *repository) Upsert(ctx context.Context, q *CardTypeQuota) error {
	raw, err := json.Marshal(q.MonthlyQuota)
	if err != nil {
		return err
	}

	return r.db.QueryRowContext(ctx, `
		INSERT INTO card_quotas (card_type, monthly_quota, description)
		VALUES ($1, $2, $3)
		ON CONFLICT (card_type) DO UPDATE
		SET monthly_quota = EXCLUDED.monthly_quota,
		    description = EXCLUDED.description,
		    updated_at = NOW()
		RETURNING updated_at
	`, string(q.CardType), raw, q.Description).Scan(&q.UpdatedAt)
}
