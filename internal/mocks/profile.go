package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/pageza/recipebox/backend/internal/models"
	"github.com/pageza/recipebox/backend/internal/service"
	"github.com/pageza/recipebox/backend/internal/types"
)

var _ service.IProfileService = (*MockProfileService)(nil)

// MockProfileService is a mock implementation of the profile service
type MockProfileService struct {
	mock.Mock
}

// GetProfile mocks the GetProfile method
func (m *MockProfileService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

// UpdateProfile mocks the UpdateProfile method
func (m *MockProfileService) UpdateProfile(ctx context.Context, userID uuid.UUID, upd types.ProfileUpdate) (*models.Profile, error) {
	args := m.Called(ctx, userID, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

// GetUserRecipes mocks the GetUserRecipes method
func (m *MockProfileService) GetUserRecipes(ctx context.Context, userID uuid.UUID) ([]models.Recipe, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Recipe), args.Error(1)
}
