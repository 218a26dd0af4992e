package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/pageza/recipebox/backend/internal/models"
	"github.com/pageza/recipebox/backend/internal/service"
)

var _ service.ICollectionService = (*MockCollectionService)(nil)

// MockCollectionService is a mock implementation of the collection service
type MockCollectionService struct {
	mock.Mock
}

func (m *MockCollectionService) Create(ctx context.Context, ownerID uuid.UUID, title string) (*models.Collection, error) {
	args := m.Called(ctx, ownerID, title)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Collection), args.Error(1)
}

func (m *MockCollectionService) List(ctx context.Context, ownerID uuid.UUID) ([]models.Collection, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Collection), args.Error(1)
}

func (m *MockCollectionService) Get(ctx context.Context, ownerID, id uuid.UUID) (*models.Collection, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Collection), args.Error(1)
}

func (m *MockCollectionService) AddRecipe(ctx context.Context, ownerID, id, recipeID uuid.UUID) error {
	return m.Called(ctx, ownerID, id, recipeID).Error(0)
}

func (m *MockCollectionService) RemoveRecipe(ctx context.Context, ownerID, id, recipeID uuid.UUID) error {
	return m.Called(ctx, ownerID, id, recipeID).Error(0)
}

func (m *MockCollectionService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	return m.Called(ctx, ownerID, id).Error(0)
}
