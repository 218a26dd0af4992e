package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipebox/backend/internal/service"
	"github.com/pageza/recipebox/backend/internal/types"
)

type ProfileHandler struct {
	profiles  service.IProfileService
	maxUpload int64
}

func NewProfileHandler(profiles service.IProfileService, maxUpload int64) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, maxUpload: maxUpload}
}

func (h *ProfileHandler) RegisterRoutes(protected *gin.RouterGroup) {
	profile := protected.Group("/profile")
	{
		profile.GET("", h.GetProfile)
		profile.PUT("", h.UpdateProfile)
		profile.GET("/recipes", h.GetUserRecipes)
	}
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	profile, err := h.profiles.GetProfile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "failed to get profile")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"profile":  profile,
		"username": c.GetString("username"),
	})
}

// UpdateProfile takes a form with optional bio, location and picture fields.
// Fields that are absent stay unchanged.
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	limitBody(c, h.maxUpload)
	var upd types.ProfileUpdate
	if bio, ok := c.GetPostForm("bio"); ok {
		upd.Bio = &bio
	}
	if location, ok := c.GetPostForm("location"); ok {
		upd.Location = &location
	}
	pictures, err := readFiles(c, h.maxUpload, "picture")
	if err != nil {
		formError(c, err)
		return
	}
	if len(pictures) > 0 {
		upd.Picture = &pictures[0]
	}

	profile, err := h.profiles.UpdateProfile(c.Request.Context(), userID, upd)
	if err != nil {
		respondError(c, err, "failed to update profile")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"profile": profile,
	})
}

func (h *ProfileHandler) GetUserRecipes(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	recipes, err := h.profiles.GetUserRecipes(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "failed to get recipes")
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}
