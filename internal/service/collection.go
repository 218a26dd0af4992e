package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/recipebox/backend/internal/database"
	"github.com/pageza/recipebox/backend/internal/logging"
	"github.com/pageza/recipebox/backend/internal/models"
)

// CollectionInput is a validated collection title.
type CollectionInput struct {
	Title string `json:"title" validate:"required,max=200"`
}

// CollectionService manages user collections. Collections reference recipes
// without owning them.
type CollectionService struct {
	db        *gorm.DB
	validator *Validator
	log       logging.Logger
}

func NewCollectionService(db *gorm.DB, log logging.Logger) *CollectionService {
	return &CollectionService{db: db, validator: NewValidator(), log: log.With("component", "collections")}
}

func (s *CollectionService) Create(ctx context.Context, ownerID uuid.UUID, title string) (*models.Collection, error) {
	in := CollectionInput{Title: strings.TrimSpace(title)}
	if fe := s.validator.Struct(in); len(fe) > 0 {
		return nil, &ValidationError{Fields: fe}
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Collection{}).
		Where("owner_id = ? AND title = ?", ownerID, in.Title).Count(&count).Error; err != nil {
		return nil, &StorageError{Op: "check collection title", Err: err}
	}
	if count > 0 {
		return nil, &ConflictError{Field: "title", Err: ErrDuplicateCollection}
	}

	c := &models.Collection{OwnerID: ownerID, Title: in.Title}
	if err := s.db.WithContext(ctx).Create(c).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return nil, &ConflictError{Field: "title", Err: ErrDuplicateCollection}
		}
		return nil, &StorageError{Op: "create collection", Err: err}
	}
	return c, nil
}

// List returns the owner's collections, newest first, without their recipes.
func (s *CollectionService) List(ctx context.Context, ownerID uuid.UUID) ([]models.Collection, error) {
	collections := []models.Collection{}
	err := s.db.WithContext(ctx).Where("owner_id = ?", ownerID).
		Order("created_at DESC, title ASC").Find(&collections).Error
	if err != nil {
		return nil, &StorageError{Op: "list collections", Err: err}
	}
	return collections, nil
}

// Get returns one collection with its recipes in listing order.
func (s *CollectionService) Get(ctx context.Context, ownerID, id uuid.UUID) (*models.Collection, error) {
	var c models.Collection
	err := s.db.WithContext(ctx).
		Preload("Recipes", func(db *gorm.DB) *gorm.DB { return db.Order(models.RecipeOrder) }).
		Where("id = ? AND owner_id = ?", id, ownerID).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCollectionNotFound
	}
	if err != nil {
		return nil, &StorageError{Op: "get collection", Err: err}
	}
	return &c, nil
}

// AddRecipe links a recipe to the collection. Adding it twice is a no-op.
func (s *CollectionService) AddRecipe(ctx context.Context, ownerID, id, recipeID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.owned(tx, ownerID, id); err != nil {
			return err
		}
		var count int64
		if err := tx.Model(&models.Recipe{}).Where("id = ?", recipeID).Count(&count).Error; err != nil {
			return &StorageError{Op: "find recipe", Err: err}
		}
		if count == 0 {
			return ErrRecipeNotFound
		}
		if err := tx.Table("collection_recipes").
			Where("collection_id = ? AND recipe_id = ?", id, recipeID).Count(&count).Error; err != nil {
			return &StorageError{Op: "find link", Err: err}
		}
		if count > 0 {
			return nil
		}
		if err := tx.Exec("INSERT INTO collection_recipes (collection_id, recipe_id) VALUES (?, ?)", id, recipeID).Error; err != nil {
			return &StorageError{Op: "add recipe", Err: err}
		}
		return nil
	})
}

// RemoveRecipe unlinks a recipe. Removing a recipe that is not there is a no-op.
func (s *CollectionService) RemoveRecipe(ctx context.Context, ownerID, id, recipeID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.owned(tx, ownerID, id); err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM collection_recipes WHERE collection_id = ? AND recipe_id = ?", id, recipeID).Error; err != nil {
			return &StorageError{Op: "remove recipe", Err: err}
		}
		return nil
	})
}

// Delete removes a collection. Its recipes are untouched.
func (s *CollectionService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.owned(tx, ownerID, id); err != nil {
			return err
		}
		if err := deleteCollections(tx, []uuid.UUID{id}); err != nil {
			return &StorageError{Op: "delete collection", Err: err}
		}
		return nil
	})
	if err == nil {
		s.log.Info(ctx, "collection deleted", "collection_id", id, "owner_id", ownerID)
	}
	return err
}

func (s *CollectionService) owned(tx *gorm.DB, ownerID, id uuid.UUID) error {
	var count int64
	if err := tx.Model(&models.Collection{}).Where("id = ? AND owner_id = ?", id, ownerID).Count(&count).Error; err != nil {
		return &StorageError{Op: "find collection", Err: err}
	}
	if count == 0 {
		return ErrCollectionNotFound
	}
	return nil
}

func deleteCollections(tx *gorm.DB, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	if err := tx.Exec("DELETE FROM collection_recipes WHERE collection_id IN ?", ids).Error; err != nil {
		return err
	}
	return tx.Where("id IN ?", ids).Delete(&models.Collection{}).Error
}
