package issue

import (
	"context"
	"errors"
	"strings"
	"testing"

	"ration-be/internal/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, i *Issue) error {
	return m.Called(ctx, i).Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, id string) (*Issue, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Issue), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context, filter ListFilter) ([]*Issue, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Issue), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, id string, status Status, response *string) (*Issue, error) {
	args := m.Called(ctx, id, status, response)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Issue), args.Error(1)
}

func (m *MockRepository) CountOpen(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("Create", ctx, mock.MatchedBy(func(i *Issue) bool {
			return i.CustomerID == "c-1" && i.Status == StatusPending && i.Description == "No rice"
		})).Return(nil)

		i, err := NewService(repo).Create(ctx, "c-1", CreateParams{Description: " No rice "})
		require.NoError(t, err)
		assert.NotEmpty(t, i.ID)
		repo.AssertExpectations(t)
	})

	t.Run("Blank or oversized description", func(t *testing.T) {
		svc := NewService(new(MockRepository))

		_, err := svc.Create(ctx, "c-1", CreateParams{Description: "   "})
		assert.True(t, errors.Is(err, apperr.ErrInvalidInput))

		_, err = svc.Create(ctx, "c-1", CreateParams{Description: strings.Repeat("x", maxDescription+1)})
		assert.True(t, errors.Is(err, ErrInvalidIssue))
	})
}

func TestService_Respond(t *testing.T) {
	ctx := context.Background()

	t.Run("Resolves", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("Update", ctx, "i-1", StatusResolved, mock.MatchedBy(func(r *string) bool {
			return r != nil && *r == "Done"
		})).Return(&Issue{ID: "i-1", Status: StatusResolved}, nil)

		i, err := NewService(repo).Respond(ctx, "i-1", " Done ")
		require.NoError(t, err)
		assert.Equal(t, StatusResolved, i.Status)
	})

	t.Run("Empty response", func(t *testing.T) {
		repo := new(MockRepository)
		_, err := NewService(repo).Respond(ctx, "i-1", "")
		assert.True(t, errors.Is(err, ErrInvalidIssue))
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestParseStatus(t *testing.T) {
	for raw, want := range map[string]Status{
		"pending": StatusPending, "IN-PROGRESS": StatusInProgress,
		"in_progress": StatusInProgress, "Resolved": StatusResolved,
	} {
		got, err := ParseStatus(raw)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseStatus("closed")
	assert.True(t, errors.Is(err, ErrUnknownStatus))
}
