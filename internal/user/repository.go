package user

import (
	"context"
	"database/sql"
	"errors"

	"ration-be/internal/logger"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	Create(ctx context.Context, a *Admin) error
	FindByEmail(ctx context.Context, email string) (*Admin, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, a *Admin) error {
	err := r.db.QueryRowContext(ctx,
		"INSERT INTO admins (email, name, password_hash) VALUES ($1, $2, $3) RETURNING id, created_at",
		a.Email, a.Name, a.PasswordHash,
	).Scan(&a.ID, &a.CreatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == PgUniqueViolation {
			return ErrEmailExists
		}
		logger.FromCtx(ctx).Error("db: failed to insert admin",
			zap.String("email", a.Email),
			zap.Error(err),
		)
	}
	return err
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*Admin, error) {
	var a Admin
	err := r.db.QueryRowContext(ctx,
		"SELECT id, email, name, password_hash, created_at FROM admins WHERE email = $1",
		email,
	).Scan(&a.ID, &a.Email, &a.Name, &a.PasswordHash, &a.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAdminNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}
