package service

import (
	"context"
	"iter"

	"github.com/google/uuid"

	"github.com/pageza/recipebox/backend/internal/models"
	"github.com/pageza/recipebox/backend/internal/types"
)

// IAuthService defines the interface for authentication and account operations
type IAuthService interface {
	Register(ctx context.Context, email, username, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, error)
	GenerateToken(user *models.User) (string, error)
	ValidateToken(token string) (*types.TokenClaims, error)
	DeleteAccount(ctx context.Context, userID uuid.UUID) error
}

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	Submit(ctx context.Context, authorID uuid.UUID, sub *types.RecipeSubmission) (*models.Recipe, error)
	Update(ctx context.Context, authorID, id uuid.UUID, sub *types.RecipeSubmission) (*models.Recipe, error)
	Delete(ctx context.Context, authorID, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*models.Recipe, error)
	List(ctx context.Context, opts ListOptions) (*Page[models.Recipe], error)
	All(ctx context.Context, opts ListOptions) iter.Seq2[*models.Recipe, error]
	Like(ctx context.Context, id uuid.UUID) (int, error)
}

// IProfileService defines the interface for user profile operations
type IProfileService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, upd types.ProfileUpdate) (*models.Profile, error)
	GetUserRecipes(ctx context.Context, userID uuid.UUID) ([]models.Recipe, error)
}

// ICollectionService defines the interface for collection operations
type ICollectionService interface {
	Create(ctx context.Context, ownerID uuid.UUID, title string) (*models.Collection, error)
	List(ctx context.Context, ownerID uuid.UUID) ([]models.Collection, error)
	Get(ctx context.Context, ownerID, id uuid.UUID) (*models.Collection, error)
	AddRecipe(ctx context.Context, ownerID, id, recipeID uuid.UUID) error
	RemoveRecipe(ctx context.Context, ownerID, id, recipeID uuid.UUID) error
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

var (
	_ IAuthService       = (*AuthService)(nil)
	_ IRecipeService     = (*RecipeService)(nil)
	_ ICollectionService = (*CollectionService)(nil)
)
