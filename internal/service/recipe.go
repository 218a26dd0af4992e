package service

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/recipebox/backend/internal/database"
	"github.com/pageza/recipebox/backend/internal/logging"
	"github.com/pageza/recipebox/backend/internal/models"
	"github.com/pageza/recipebox/backend/internal/storage"
	"github.com/pageza/recipebox/backend/internal/types"
)

// RecipeService handles recipe operations
type RecipeService struct {
	db            *gorm.DB
	store         storage.ImageStore
	validator     *Validator
	log           logging.Logger
	maxUploadSize int64
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(db *gorm.DB, store storage.ImageStore, log logging.Logger, maxUploadSize int64) *RecipeService {
	return &RecipeService{
		db:            db,
		store:         store,
		validator:     NewValidator(),
		log:           log.With("component", "recipes"),
		maxUploadSize: maxUploadSize,
	}
}

// ListOptions narrows a recipe listing. Ordering is always created_at DESC, title ASC.
type ListOptions struct {
	Page         int
	PageSize     int
	AuthorID     *uuid.UUID
	FeaturedOnly bool
}

// checkedSubmission is a submission that passed validation.
type checkedSubmission struct {
	recipe       RecipeInput
	nutrition    NutritionInput
	ingredients  []models.Ingredient
	contentTypes []string
}

// Submit validates a submission and stores the whole recipe aggregate in one
// transaction: recipe, nutrition, merged ingredients and images. On failure
// nothing is left behind, including uploaded image objects.
func (s *RecipeService) Submit(ctx context.Context, authorID uuid.UUID, sub *types.RecipeSubmission) (*models.Recipe, error) {
	checked, err := s.check(ctx, authorID, uuid.Nil, sub)
	if err != nil {
		return nil, err
	}

	recipe := &models.Recipe{ID: uuid.New(), AuthorID: authorID}
	checked.recipe.apply(recipe)

	var written []string
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(recipe).Error; err != nil {
			return err
		}
		if err := writeChildren(tx, recipe.ID, checked); err != nil {
			return err
		}
		keys, err := s.storeImages(ctx, tx, authorID, recipe.ID, sub.Images, checked.contentTypes, nil)
		written = keys
		return err
	})
	if err != nil {
		s.discard(ctx, written)
		return nil, s.writeError("create recipe", err)
	}

	s.log.Info(ctx, "recipe created",
		"recipe_id", recipe.ID,
		"author_id", authorID,
		"ingredients", len(checked.ingredients),
		"images", len(written),
	)
	return s.Get(ctx, recipe.ID)
}

// Update re-validates a full submission for an existing recipe owned by authorID.
// Nutrition and ingredients are replaced; new images are added to the existing ones.
func (s *RecipeService) Update(ctx context.Context, authorID, id uuid.UUID, sub *types.RecipeSubmission) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).Where("id = ? AND author_id = ?", id, authorID).First(&recipe).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, &StorageError{Op: "load recipe", Err: err}
	}

	checked, err := s.check(ctx, authorID, id, sub)
	if err != nil {
		return nil, err
	}
	checked.recipe.apply(&recipe)

	var taken []string
	if err := s.db.WithContext(ctx).Model(&models.RecipeImage{}).Where("recipe_id = ?", id).Pluck("key", &taken).Error; err != nil {
		return nil, &StorageError{Op: "load images", Err: err}
	}

	var written []string
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&recipe).Where("author_id = ?", authorID).Select(
			"title", "category", "cuisine", "difficulty", "servings",
			"prep_time", "total_time", "instructions", "featured", "updated_at",
		).Updates(&recipe)
		if res.Error != nil {
			return res.Error
		}
		// deleted since it was loaded
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.Nutrition{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.Ingredient{}).Error; err != nil {
			return err
		}
		if err := writeChildren(tx, id, checked); err != nil {
			return err
		}
		keys, err := s.storeImages(ctx, tx, authorID, id, sub.Images, checked.contentTypes, taken)
		written = keys
		return err
	})
	if err != nil {
		s.discard(ctx, written)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, s.writeError("update recipe", err)
	}

	s.log.Info(ctx, "recipe updated", "recipe_id", id, "author_id", authorID)
	return s.Get(ctx, id)
}

// Delete removes a recipe owned by authorID with everything it owns, then its
// stored images.
func (s *RecipeService) Delete(ctx context.Context, authorID, id uuid.UUID) error {
	var keys []string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := tx.Select("id").Where("id = ? AND author_id = ?", id, authorID).First(&recipe).Error; err != nil {
			return err
		}
		var err error
		keys, err = deleteRecipes(tx, []uuid.UUID{id})
		return err
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrRecipeNotFound
	}
	if err != nil {
		return &StorageError{Op: "delete recipe", Err: err}
	}

	s.discard(ctx, keys)
	s.log.Info(ctx, "recipe deleted", "recipe_id", id, "author_id", authorID)
	return nil
}

// Get loads a recipe with its nutrition, ingredients, images (newest first) and author.
func (s *RecipeService) Get(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).Scopes(withAggregate).First(&recipe, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRecipeNotFound
	}
	if err != nil {
		return nil, &StorageError{Op: "get recipe", Err: err}
	}
	return &recipe, nil
}

// List returns one page of recipes in listing order.
func (s *RecipeService) List(ctx context.Context, opts ListOptions) (*Page[models.Recipe], error) {
	page, err := Paginate[models.Recipe](ctx, s.listQuery(ctx, opts), opts.Page, opts.PageSize, withSummary)
	if err != nil {
		return nil, &StorageError{Op: "list recipes", Err: err}
	}
	return page, nil
}

// All lazily walks every recipe matching opts in listing order, one page at a
// time. Each range over the sequence starts again from the first recipe.
func (s *RecipeService) All(ctx context.Context, opts ListOptions) iter.Seq2[*models.Recipe, error] {
	_, size := normalizePage(1, opts.PageSize)
	return func(yield func(*models.Recipe, error) bool) {
		for offset := 0; ; offset += size {
			var batch []models.Recipe
			err := s.listQuery(ctx, opts).Scopes(withSummary).Offset(offset).Limit(size).Find(&batch).Error
			if err != nil {
				yield(nil, &StorageError{Op: "list recipes", Err: err})
				return
			}
			for i := range batch {
				if !yield(&batch[i], nil) {
					return
				}
			}
			if len(batch) < size {
				return
			}
		}
	}
}

// ListByAuthor returns every recipe of one author in listing order.
func (s *RecipeService) ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]models.Recipe, error) {
	recipes := []models.Recipe{}
	for r, err := range s.All(ctx, ListOptions{AuthorID: &authorID, PageSize: MaxPageSize}) {
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, *r)
	}
	return recipes, nil
}

// Like increments the like counter and returns the new count.
func (s *RecipeService) Like(ctx context.Context, id uuid.UUID) (int, error) {
	var likes int
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Recipe{}).Where("id = ?", id).UpdateColumn("likes", gorm.Expr("likes + ?", 1))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Model(&models.Recipe{}).Where("id = ?", id).Pluck("likes", &likes).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, ErrRecipeNotFound
	}
	if err != nil {
		return 0, &StorageError{Op: "like recipe", Err: err}
	}
	return likes, nil
}

func (s *RecipeService) listQuery(ctx context.Context, opts ListOptions) *gorm.DB {
	q := s.db.WithContext(ctx).Model(&models.Recipe{}).Order(models.RecipeOrder)
	if opts.AuthorID != nil {
		q = q.Where("author_id = ?", *opts.AuthorID)
	}
	if opts.FeaturedOnly {
		q = q.Where("featured = ?", true)
	}
	return q
}

// check runs every validation rule and reports all failures together. exclude is
// the recipe being edited, if any, for the duplicate title rule.
func (s *RecipeService) check(ctx context.Context, authorID, exclude uuid.UUID, sub *types.RecipeSubmission) (*checkedSubmission, error) {
	fe := FieldErrors{}

	recipeIn, errs := s.validator.RecipeForm(sub.Recipe)
	fe.Merge(errs)
	nutritionIn, errs := s.validator.NutritionForm(sub.Nutrition)
	fe.Merge(errs)

	var cause error
	ingredients, errs := MergeIngredients(sub.Ingredients)
	fe.Merge(errs)
	if !hasIngredientName(sub.Ingredients) {
		fe.Add("ingredients", "Add at least one ingredient.")
		cause = ErrEmptyIngredientList
	}

	contentTypes, errs := s.validator.Uploads(sub.Images, s.maxUploadSize)
	fe.Merge(errs)

	duplicate := false
	if recipeIn.Title != "" && !fe.Has("title") {
		var err error
		if duplicate, err = s.titleTaken(ctx, authorID, recipeIn.Title, exclude); err != nil {
			return nil, &StorageError{Op: "check title", Err: err}
		}
	}

	if len(fe) > 0 {
		if duplicate {
			fe.Merge((&ConflictError{Field: "title", Err: ErrDuplicateTitle}).Fields())
		}
		return nil, &ValidationError{Fields: fe, Err: cause}
	}
	if duplicate {
		return nil, &ConflictError{Field: "title", Err: ErrDuplicateTitle}
	}

	return &checkedSubmission{
		recipe:       recipeIn,
		nutrition:    nutritionIn,
		ingredients:  ingredients,
		contentTypes: contentTypes,
	}, nil
}

func (s *RecipeService) titleTaken(ctx context.Context, authorID uuid.UUID, title string, exclude uuid.UUID) (bool, error) {
	q := s.db.WithContext(ctx).Model(&models.Recipe{}).Where("author_id = ? AND title = ?", authorID, title)
	if exclude != uuid.Nil {
		q = q.Where("id <> ?", exclude)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// storeImages uploads every image and records it. It returns the keys written so
// far even on error so the caller can remove them.
func (s *RecipeService) storeImages(ctx context.Context, tx *gorm.DB, authorID, recipeID uuid.UUID, uploads []types.Upload, contentTypes, taken []string) ([]string, error) {
	used := make(map[string]bool, len(taken)+len(uploads))
	for _, k := range taken {
		used[k] = true
	}

	written := make([]string, 0, len(uploads))
	for i, up := range uploads {
		key := storage.RecipeImageKey(authorID, recipeID, up.Filename)
		for n := 2; used[key]; n++ {
			key = storage.RecipeImageKey(authorID, recipeID, fmt.Sprintf("%d_%s", n, up.Filename))
		}
		used[key] = true

		url, err := s.store.Put(ctx, key, contentTypes[i], up.Data)
		if err != nil {
			return written, fmt.Errorf("store image %s: %w", up.Filename, err)
		}
		written = append(written, key)

		img := &models.RecipeImage{
			RecipeID:    recipeID,
			Key:         key,
			URL:         url,
			Filename:    up.Filename,
			ContentType: contentTypes[i],
			Size:        int64(len(up.Data)),
		}
		if err := tx.Create(img).Error; err != nil {
			return written, err
		}
	}
	return written, nil
}

// discard removes image objects whose rows no longer exist. Failures only leave
// unreferenced objects behind, so they are logged and otherwise ignored.
func (s *RecipeService) discard(ctx context.Context, keys []string) {
	for _, key := range keys {
		if err := s.store.Delete(context.WithoutCancel(ctx), key); err != nil {
			s.log.Warn(ctx, "failed to remove image", "key", key, "error", err)
		}
	}
}

func (s *RecipeService) writeError(op string, err error) error {
	if database.IsUniqueViolation(err) {
		return &ConflictError{Field: "title", Err: ErrDuplicateTitle}
	}
	return &StorageError{Op: op, Err: err}
}

func (in RecipeInput) apply(r *models.Recipe) {
	r.Title = in.Title
	r.Category = in.Category
	r.Cuisine = in.Cuisine
	r.Difficulty = in.Difficulty
	r.Servings = in.Servings
	r.PrepTime = in.PrepTime
	r.TotalTime = in.TotalTime
	r.Instructions = in.Instructions
	r.Featured = in.Featured
}

func (in NutritionInput) model(recipeID uuid.UUID) *models.Nutrition {
	return &models.Nutrition{
		RecipeID:      recipeID,
		Calories:      in.Calories,
		Protein:       in.Protein,
		Fat:           in.Fat,
		Sugar:         in.Sugar,
		Fiber:         in.Fiber,
		Carbohydrates: in.Carbohydrates,
	}
}

func writeChildren(tx *gorm.DB, recipeID uuid.UUID, checked *checkedSubmission) error {
	if err := tx.Create(checked.nutrition.model(recipeID)).Error; err != nil {
		return err
	}
	for i := range checked.ingredients {
		checked.ingredients[i].RecipeID = recipeID
	}
	if len(checked.ingredients) == 0 {
		return nil
	}
	return tx.Create(&checked.ingredients).Error
}

// deleteRecipes removes recipes and everything they own inside tx and returns
// the image keys that must be removed from the store afterwards.
func deleteRecipes(tx *gorm.DB, ids []uuid.UUID) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var keys []string
	if err := tx.Model(&models.RecipeImage{}).Where("recipe_id IN ?", ids).Pluck("key", &keys).Error; err != nil {
		return nil, err
	}
	if err := tx.Exec("DELETE FROM collection_recipes WHERE recipe_id IN ?", ids).Error; err != nil {
		return nil, err
	}
	for _, child := range []any{&models.RecipeImage{}, &models.Ingredient{}, &models.Nutrition{}} {
		if err := tx.Where("recipe_id IN ?", ids).Delete(child).Error; err != nil {
			return nil, err
		}
	}
	if err := tx.Where("id IN ?", ids).Delete(&models.Recipe{}).Error; err != nil {
		return nil, err
	}
	return keys, nil
}

func hasIngredientName(rows []types.IngredientRow) bool {
	for _, row := range rows {
		if strings.TrimSpace(row.Name) != "" {
			return true
		}
	}
	return false
}

func withAggregate(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Nutrition").
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Scopes(withSummary)
}

func withSummary(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC, id ASC") }).
		Preload("Author", func(db *gorm.DB) *gorm.DB { return db.Select("id", "username", "created_at", "updated_at") })
}
