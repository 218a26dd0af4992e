package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/pageza/recipebox/backend/internal/database"
	"github.com/pageza/recipebox/backend/internal/logging"
	"github.com/pageza/recipebox/backend/internal/models"
	"github.com/pageza/recipebox/backend/internal/storage"
	"github.com/pageza/recipebox/backend/internal/types"
)

const tokenIssuer = "recipebox"

type AuthService struct {
	db        *gorm.DB
	store     storage.ImageStore
	log       logging.Logger
	jwtSecret []byte
	tokenTTL  time.Duration
}

func NewAuthService(db *gorm.DB, store storage.ImageStore, log logging.Logger, jwtSecret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		db:        db,
		store:     store,
		log:       log.With("component", "auth"),
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
	}
}

// Register creates a user and its empty profile in one transaction.
func (s *AuthService) Register(ctx context.Context, email, username, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	username = strings.TrimSpace(username)

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{Email: email, Username: username, PasswordHash: string(hash)}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return &ConflictError{Field: "email", Err: ErrEmailTaken}
		}
		if err := tx.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return &ConflictError{Field: "username", Err: ErrUsernameTaken}
		}

		if err := tx.Create(user).Error; err != nil {
			return err
		}
		return tx.Create(&models.Profile{UserID: user.ID}).Error
	})

	var conflict *ConflictError
	switch {
	case errors.As(err, &conflict):
		return nil, conflict
	case database.IsUniqueViolation(err):
		// lost a race with a concurrent registration
		if strings.Contains(err.Error(), "username") {
			return nil, &ConflictError{Field: "username", Err: ErrUsernameTaken}
		}
		return nil, &ConflictError{Field: "email", Err: ErrEmailTaken}
	case err != nil:
		return nil, &StorageError{Op: "register", Err: err}
	}

	s.log.Info(ctx, "user registered", "user_id", user.ID)
	return user, nil
}

// Login checks credentials and returns the user.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, &StorageError{Op: "login", Err: err}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

// GenerateToken signs an HS256 token for user.
func (s *AuthService) GenerateToken(user *models.User) (string, error) {
	now := time.Now()
	claims := &types.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
		UserID:   user.ID,
		Username: user.Username,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func (s *AuthService) ValidateToken(tokenString string) (*types.TokenClaims, error) {
	claims := &types.TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(tokenIssuer))
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.UserID == uuid.Nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// DeleteAccount removes a user with their recipes, collections and profile, then
// the images those owned.
func (s *AuthService) DeleteAccount(ctx context.Context, userID uuid.UUID) error {
	var keys []string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Preload("Profile").First(&user, "id = ?", userID).Error; err != nil {
			return err
		}

		var recipeIDs []uuid.UUID
		if err := tx.Model(&models.Recipe{}).Where("author_id = ?", userID).Pluck("id", &recipeIDs).Error; err != nil {
			return err
		}
		var err error
		if keys, err = deleteRecipes(tx, recipeIDs); err != nil {
			return err
		}

		var collectionIDs []uuid.UUID
		if err := tx.Model(&models.Collection{}).Where("owner_id = ?", userID).Pluck("id", &collectionIDs).Error; err != nil {
			return err
		}
		if err := deleteCollections(tx, collectionIDs); err != nil {
			return err
		}

		if user.Profile != nil && user.Profile.PictureKey != "" {
			keys = append(keys, user.Profile.PictureKey)
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.Profile{}).Error; err != nil {
			return err
		}
		return tx.Delete(&user).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return &StorageError{Op: "delete account", Err: err}
	}

	for _, key := range keys {
		if err := s.store.Delete(context.WithoutCancel(ctx), key); err != nil {
			s.log.Warn(ctx, "failed to remove image", "key", key, "error", err)
		}
	}
	s.log.Info(ctx, "account deleted", "user_id", userID, "images", len(keys))
	return nil
}
