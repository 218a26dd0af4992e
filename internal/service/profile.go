package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/recipebox/backend/internal/logging"
	"github.com/pageza/recipebox/backend/internal/models"
	"github.com/pageza/recipebox/backend/internal/storage"
	"github.com/pageza/recipebox/backend/internal/types"
)

// ProfileInput holds the editable text fields of a profile.
type ProfileInput struct {
	Bio      string `json:"bio" validate:"max=1000"`
	Location string `json:"location" validate:"max=100"`
}

// ProfileService handles user profile operations
type ProfileService struct {
	db            *gorm.DB
	store         storage.ImageStore
	recipes       *RecipeService
	validator     *Validator
	log           logging.Logger
	maxUploadSize int64
}

// Ensure ProfileService implements IProfileService
var _ IProfileService = (*ProfileService)(nil)

// NewProfileService creates a new ProfileService instance
func NewProfileService(db *gorm.DB, store storage.ImageStore, recipes *RecipeService, log logging.Logger, maxUploadSize int64) *ProfileService {
	return &ProfileService{
		db:            db,
		store:         store,
		recipes:       recipes,
		validator:     NewValidator(),
		log:           log.With("component", "profiles"),
		maxUploadSize: maxUploadSize,
	}
}

// GetProfile retrieves a user's profile
func (s *ProfileService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, &StorageError{Op: "get profile", Err: err}
	}
	return &profile, nil
}

// UpdateProfile applies the non-nil fields of upd. A new picture replaces the old
// one, which is removed from the store once the profile row is saved.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID uuid.UUID, upd types.ProfileUpdate) (*models.Profile, error) {
	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	in := ProfileInput{Bio: profile.Bio, Location: profile.Location}
	if upd.Bio != nil {
		in.Bio = strings.TrimSpace(*upd.Bio)
	}
	if upd.Location != nil {
		in.Location = strings.TrimSpace(*upd.Location)
	}
	fe := s.validator.Struct(in)

	var contentType string
	if upd.Picture != nil {
		cts, errs := s.validator.Uploads([]types.Upload{*upd.Picture}, s.maxUploadSize)
		if msgs := errs["images"]; len(msgs) > 0 {
			fe["picture"] = msgs
		}
		contentType = cts[0]
	}
	if len(fe) > 0 {
		return nil, &ValidationError{Fields: fe}
	}

	oldKey := profile.PictureKey
	var newKey string
	if upd.Picture != nil {
		newKey = storage.ProfilePictureKey(userID, upd.Picture.Filename)
		url, err := s.store.Put(ctx, newKey, contentType, upd.Picture.Data)
		if err != nil {
			return nil, &StorageError{Op: "store picture", Err: err}
		}
		profile.PictureKey = newKey
		profile.PictureURL = url
	}
	profile.Bio = in.Bio
	profile.Location = in.Location

	if err := s.db.WithContext(ctx).Save(profile).Error; err != nil {
		if newKey != "" && newKey != oldKey {
			_ = s.store.Delete(context.WithoutCancel(ctx), newKey)
		}
		return nil, &StorageError{Op: "update profile", Err: err}
	}

	if newKey != "" && oldKey != "" && oldKey != newKey {
		if err := s.store.Delete(ctx, oldKey); err != nil {
			s.log.Warn(ctx, "failed to remove old picture", "key", oldKey, "error", err)
		}
	}
	return profile, nil
}

// GetUserRecipes retrieves a user's recipes in listing order
func (s *ProfileService) GetUserRecipes(ctx context.Context, userID uuid.UUID) ([]models.Recipe, error) {
	recipes, err := s.recipes.ListByAuthor(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list user recipes: %w", err)
	}
	return recipes, nil
}
