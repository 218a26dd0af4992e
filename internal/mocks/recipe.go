package mocks

import (
	"context"
	"iter"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/pageza/recipebox/backend/internal/models"
	"github.com/pageza/recipebox/backend/internal/service"
	"github.com/pageza/recipebox/backend/internal/types"
)

var _ service.IRecipeService = (*MockRecipeService)(nil)

// MockRecipeService is a mock implementation of the recipe service
type MockRecipeService struct {
	mock.Mock
}

func (m *MockRecipeService) Submit(ctx context.Context, authorID uuid.UUID, sub *types.RecipeSubmission) (*models.Recipe, error) {
	args := m.Called(ctx, authorID, sub)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *MockRecipeService) Update(ctx context.Context, authorID, id uuid.UUID, sub *types.RecipeSubmission) (*models.Recipe, error) {
	args := m.Called(ctx, authorID, id, sub)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *MockRecipeService) Delete(ctx context.Context, authorID, id uuid.UUID) error {
	args := m.Called(ctx, authorID, id)
	return args.Error(0)
}

func (m *MockRecipeService) Get(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *MockRecipeService) List(ctx context.Context, opts service.ListOptions) (*service.Page[models.Recipe], error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Page[models.Recipe]), args.Error(1)
}

// All yields the recipes given to the mock, then its error if any.
func (m *MockRecipeService) All(ctx context.Context, opts service.ListOptions) iter.Seq2[*models.Recipe, error] {
	args := m.Called(ctx, opts)
	recipes, _ := args.Get(0).([]models.Recipe)
	err := args.Error(1)
	return func(yield func(*models.Recipe, error) bool) {
		for i := range recipes {
			if !yield(&recipes[i], nil) {
				return
			}
		}
		if err != nil {
			yield(nil, err)
		}
	}
}

func (m *MockRecipeService) Like(ctx context.Context, id uuid.UUID) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}
