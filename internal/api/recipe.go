package api

import (
	"errors"
	"net/http"
	"slices"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/recipebox/backend/internal/middleware"
	"github.com/pageza/recipebox/backend/internal/service"
)

type RecipeHandler struct {
	recipes   service.IRecipeService
	maxUpload int64
}

func NewRecipeHandler(recipes service.IRecipeService, maxUpload int64) *RecipeHandler {
	return &RecipeHandler{recipes: recipes, maxUpload: maxUpload}
}

// RegisterRoutes mounts the public recipe routes on public and the rest on
// protected. create and modify are extra middleware, typically rate limiters.
func (h *RecipeHandler) RegisterRoutes(public, protected *gin.RouterGroup, create, modify []gin.HandlerFunc) {
	recipes := public.Group("/recipes")
	{
		recipes.GET("", h.ListRecipes)
		recipes.GET("/:id", h.GetRecipe)
	}

	owned := protected.Group("/recipes")
	{
		owned.POST("", append(slices.Clip(create), h.CreateRecipe)...)
		owned.PUT("/:id", append(slices.Clip(modify), h.UpdateRecipe)...)
		owned.DELETE("/:id", h.DeleteRecipe)
		owned.POST("/:id/like", h.LikeRecipe)
	}
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	opts := service.ListOptions{
		Page:         queryInt(c, "page", 1),
		PageSize:     queryInt(c, "page_size", service.DefaultPageSize),
		FeaturedOnly: c.Query("featured") == "true" || c.Query("featured") == "1",
	}
	if author := c.Query("author"); author != "" {
		id, err := uuid.Parse(author)
		if err != nil {
			badRequest(c, "invalid author id")
			return
		}
		opts.AuthorID = &id
	}

	page, err := h.recipes.List(c.Request.Context(), opts)
	if err != nil {
		respondError(c, err, "failed to fetch recipes")
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	recipe, err := h.recipes.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "failed to fetch recipe")
		return
	}
	c.JSON(http.StatusOK, recipe)
}

// CreateRecipe accepts the recipe form: scalar fields, ingredient arrays and images.
func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	limitBody(c, h.maxUpload)
	sub, err := readSubmission(c, h.maxUpload)
	if err != nil {
		formError(c, err)
		return
	}

	recipe, err := h.recipes.Submit(c.Request.Context(), userID, sub)
	if err != nil {
		respondError(c, err, "failed to create recipe")
		return
	}

	c.Header("Location", "/api/v1/recipes/"+recipe.ID.String())
	c.JSON(http.StatusCreated, gin.H{
		"message": "Recipe created successfully",
		"recipe":  recipe,
	})
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	limitBody(c, h.maxUpload)
	sub, err := readSubmission(c, h.maxUpload)
	if err != nil {
		formError(c, err)
		return
	}

	recipe, err := h.recipes.Update(c.Request.Context(), userID, id, sub)
	if err != nil {
		respondError(c, err, "failed to update recipe")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Recipe updated successfully",
		"recipe":  recipe,
	})
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.recipes.Delete(c.Request.Context(), userID, id); err != nil {
		respondError(c, err, "failed to delete recipe")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) LikeRecipe(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	likes, err := h.recipes.Like(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "failed to like recipe")
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "likes": likes})
}

func currentUser(c *gin.Context) (uuid.UUID, bool) {
	id, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "user not authenticated"})
	}
	return id, ok
}

func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		badRequest(c, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

func queryInt(c *gin.Context, name string, def int) int {
	n, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return def
	}
	return n
}

func formError(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: "request body too large"})
		return
	}
	badRequest(c, "invalid form data")
}
