package api

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/pageza/recipebox/backend/internal/logging"
	"github.com/pageza/recipebox/backend/internal/middleware"
	"github.com/pageza/recipebox/backend/internal/service"
)

// Deps are the services and settings the routes are built from. Redis and
// MediaRoot are optional.
type Deps struct {
	DB          *gorm.DB
	Redis       *redis.Client
	Auth        service.IAuthService
	Recipes     service.IRecipeService
	Profiles    service.IProfileService
	Collections service.ICollectionService
	Log         logging.Logger

	MaxUploadSize   int64
	RecipeRateLimit int
	// MediaRoot is served under MediaPrefix when images are stored locally.
	MediaRoot   string
	MediaPrefix string
}

// RegisterRoutes registers all API routes
func RegisterRoutes(router *gin.Engine, deps Deps) {
	health := NewHealthHandler(deps.DB, deps.Redis)
	router.GET("/health", health.HealthCheck)

	v1 := router.Group("/api/v1")
	v1.GET("/health", health.HealthCheck)

	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(deps.Auth))

	creation := middleware.NewRecipeCreationRateLimiter(deps.Redis, deps.RecipeRateLimit, deps.Log)
	modification := middleware.NewRecipeModificationRateLimiter(deps.Redis, deps.Log)

	NewAuthHandler(deps.Auth).RegisterRoutes(v1, protected)
	NewRecipeHandler(deps.Recipes, deps.MaxUploadSize).RegisterRoutes(v1, protected,
		[]gin.HandlerFunc{creation.RateLimitMiddleware()},
		[]gin.HandlerFunc{modification.PerRecipeRateLimitMiddleware()},
	)
	NewProfileHandler(deps.Profiles, deps.MaxUploadSize).RegisterRoutes(protected)
	NewCollectionHandler(deps.Collections).RegisterRoutes(protected)

	if deps.MediaRoot != "" {
		RegisterMedia(router, deps.MediaPrefix, deps.MediaRoot)
	}
}
