package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ration-be/internal/apperr"
	"ration-be/internal/auth"
	"ration-be/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	Register(ctx context.Context, email, name, password string) (*Admin, error)
	// Login checks the password and returns a token carrying the admin claim.
	Login(ctx context.Context, email, password string) (string, *Admin, error)
}

type service struct {
	repo   Repository
	issuer *auth.Issuer
}

func NewService(repo Repository, issuer *auth.Issuer) Service {
	return &service{repo: repo, issuer: issuer}
}

const minPasswordLength = 8

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *service) Register(ctx context.Context, email, name, password string) (*Admin, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "RegisterAdmin"),
	)

	email = normalizeEmail(email)
	if !strings.Contains(email, "@") {
		return nil, ErrInvalidEmail
	}
	if len(password) < minPasswordLength {
		return nil, ErrWeakPassword
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		log.Error("failed to hash password", zap.Error(err))
		return nil, err
	}

	a := &Admin{Email: email, Name: strings.TrimSpace(name), PasswordHash: hashed}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}

	log.Info("admin registered", zap.String("admin_id", fmt.Sprint(a.ID)))
	return a, nil
}

func (s *service) Login(ctx context.Context, email, password string) (string, *Admin, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "AdminLogin"),
	)

	a, err := s.repo.FindByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, apperr.ErrNotFound) {
		log.Warn("login for unknown admin")
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}

	if !auth.CheckPasswordHash(password, a.PasswordHash) {
		log.Warn("admin password mismatch", zap.String("admin_id", fmt.Sprint(a.ID)))
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.issuer.IssueAdminToken(a.ID, a.Email)
	if err != nil {
		log.Error("failed to issue token", zap.Error(err))
		return "", nil, err
	}

	log.Info("admin logged in", zap.String("admin_id", fmt.Sprint(a.ID)))
	return token, a, nil
}
