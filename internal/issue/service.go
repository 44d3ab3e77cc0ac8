package issue

import (
	"context"
	"fmt"
	"strings"

	"ration-be/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service interface {
	Create(ctx context.Context, customerID string, params CreateParams) (*Issue, error)
	List(ctx context.Context, filter ListFilter) ([]*Issue, error)
	SetStatus(ctx context.Context, id string, status Status) (*Issue, error)
	// Respond records the admin's answer and resolves the issue.
	Respond(ctx context.Context, id, response string) (*Issue, error)
	CountOpen(ctx context.Context) (int, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

const maxDescription = 4000

func (s *service) Create(ctx context.Context, customerID string, params CreateParams) (*Issue, error) {
	i := &Issue{
		ID:          uuid.New().String(),
		CustomerID:  customerID,
		Subject:     strings.TrimSpace(params.Subject),
		Description: strings.TrimSpace(params.Description),
		Status:      StatusPending,
	}

	if i.Description == "" {
		return nil, fmt.Errorf("%w: description is required", ErrInvalidIssue)
	}
	if len(i.Description) > maxDescription {
		return nil, fmt.Errorf("%w: description is too long", ErrInvalidIssue)
	}

	if err := s.repo.Create(ctx, i); err != nil {
		return nil, err
	}

	logger.FromCtx(ctx).Info("issue opened",
		zap.String("layer", "service"),
		zap.String("issue_id", i.ID),
	)
	return i, nil
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]*Issue, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) SetStatus(ctx context.Context, id string, status Status) (*Issue, error) {
	return s.repo.Update(ctx, id, status, nil)
}

func (s *service) Respond(ctx context.Context, id, response string) (*Issue, error) {
	response = strings.TrimSpace(response)
	if response == "" {
		return nil, fmt.Errorf("%w: response is required", ErrInvalidIssue)
	}

	i, err := s.repo.Update(ctx, id, StatusResolved, &response)
	if err != nil {
		return nil, err
	}

	logger.FromCtx(ctx).Info("issue resolved",
		zap.String("layer", "service"),
		zap.String("issue_id", id),
	)
	return i, nil
}

func (s *service) CountOpen(ctx context.Context) (int, error) {
	return s.repo.CountOpen(ctx)
}
