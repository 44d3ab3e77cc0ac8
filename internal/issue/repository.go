package issue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type Repository interface {
	Create(ctx context.Context, i *Issue) error
	GetByID(ctx context.Context, id string) (*Issue, error)
	List(ctx context.Context, filter ListFilter) ([]*Issue, error)
	// Update writes status and response and returns the refreshed row.
	Update(ctx context.Context, id string, status Status, response *string) (*Issue, error)
	CountOpen(ctx context.Context) (int, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const issueColumns = `id, customer_id, subject, description, status, response, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanIssue(row scanner) (*Issue, error) {
	var (
		i         Issue
		rawStatus string
		response  sql.NullString
	)
	err := row.Scan(&i.ID, &i.CustomerID, &i.Subject, &i.Description,
		&rawStatus, &response, &i.CreatedAt, &i.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if i.Status, err = ParseStatus(rawStatus); err != nil {
		return nil, fmt.Errorf("issue %s: %w", i.ID, err)
	}
	if response.Valid {
		i.Response = &response.String
	}
	return &i, nil
}

func (r *repository) Create(ctx context.Context, i *Issue) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO customer_issues (id, customer_id, subject, description, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`, i.ID, i.CustomerID, i.Subject, i.Description, string(i.Status),
	).Scan(&i.CreatedAt, &i.UpdatedAt)
}

func (r *repository) GetByID(ctx context.Context, id string) (*Issue, error) {
	i, err := scanIssue(r.db.QueryRowContext(ctx,
		`SELECT `+issueColumns+` FROM customer_issues WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrIssueNotFound
	}
	return i, err
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]*Issue, error) {
	query := `SELECT ` + issueColumns + ` FROM customer_issues WHERE 1=1`
	args := []any{}
	argIndex := 1

	if filter.CustomerID != nil {
		query += fmt.Sprintf(" AND customer_id = $%d", argIndex)
		args = append(args, *filter.CustomerID)
		argIndex++
	}
	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argIndex)
		args = append(args, string(*filter.Status))
		argIndex++
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	issues := []*Issue{}
	for rows.Next() {
		i, err := scanIssue(rows)
		if err != nil {
			return nil, err
		}
		issues = append(issues, i)
	}
	return issues, rows.Err()
}

func (r *repository) Update(ctx context.Context, id string, status Status, response *string) (*Issue, error) {
	i, err := scanIssue(r.db.QueryRowContext(ctx, `
		UPDATE customer_issues
		SET status = $1, response = COALESCE($2, response), updated_at = NOW()
		WHERE id = $3
		RETURNING `+issueColumns,
		string(status), response, id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrIssueNotFound
	}
	return i, err
}

func (r *repository) CountOpen(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM customer_issues WHERE status <> $1`, string(StatusResolved),
	).Scan(&n)
	return n, err
}
