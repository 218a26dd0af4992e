package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/recipebox/backend/internal/service"
	"github.com/pageza/recipebox/backend/internal/types"
)

type CollectionHandler struct {
	collections service.ICollectionService
}

func NewCollectionHandler(collections service.ICollectionService) *CollectionHandler {
	return &CollectionHandler{collections: collections}
}

func (h *CollectionHandler) RegisterRoutes(protected *gin.RouterGroup) {
	collections := protected.Group("/collections")
	{
		collections.GET("", h.ListCollections)
		collections.POST("", h.CreateCollection)
		collections.GET("/:id", h.GetCollection)
		collections.DELETE("/:id", h.DeleteCollection)
		collections.POST("/:id/recipes/:recipe_id", h.AddRecipe)
		collections.DELETE("/:id/recipes/:recipe_id", h.RemoveRecipe)
	}
}

func (h *CollectionHandler) ListCollections(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	collections, err := h.collections.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "failed to list collections")
		return
	}
	c.JSON(http.StatusOK, gin.H{"collections": collections})
}

func (h *CollectionHandler) CreateCollection(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req types.CreateCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	collection, err := h.collections.Create(c.Request.Context(), userID, req.Title)
	if err != nil {
		respondError(c, err, "failed to create collection")
		return
	}
	c.Header("Location", "/api/v1/collections/"+collection.ID.String())
	c.JSON(http.StatusCreated, collection)
}

func (h *CollectionHandler) GetCollection(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	collection, err := h.collections.Get(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, err, "failed to get collection")
		return
	}
	c.JSON(http.StatusOK, collection)
}

func (h *CollectionHandler) DeleteCollection(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.collections.Delete(c.Request.Context(), userID, id); err != nil {
		respondError(c, err, "failed to delete collection")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CollectionHandler) AddRecipe(c *gin.Context) {
	h.changeRecipe(c, h.collections.AddRecipe, "failed to add recipe")
}

func (h *CollectionHandler) RemoveRecipe(c *gin.Context) {
	h.changeRecipe(c, h.collections.RemoveRecipe, "failed to remove recipe")
}

type linkFunc = func(ctx context.Context, ownerID, id, recipeID uuid.UUID) error

func (h *CollectionHandler) changeRecipe(c *gin.Context, link linkFunc, fallback string) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	recipeID, ok := pathID(c, "recipe_id")
	if !ok {
		return
	}
	if err := link(c.Request.Context(), userID, id, recipeID); err != nil {
		respondError(c, err, fallback)
		return
	}
	c.Status(http.StatusNoContent)
}
