package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/pageza/recipebox/backend/internal/models"
	"github.com/pageza/recipebox/backend/internal/service"
	"github.com/pageza/recipebox/backend/internal/types"
)

type AuthHandler struct {
	auth service.IAuthService
}

func NewAuthHandler(auth service.IAuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

func (h *AuthHandler) RegisterRoutes(public, protected *gin.RouterGroup) {
	auth := public.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
	}
	protected.DELETE("/account", h.DeleteAccount)
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req types.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	user, err := h.auth.Register(c.Request.Context(), req.Email, req.Username, req.Password)
	if err != nil {
		respondError(c, err, "failed to register")
		return
	}
	h.respondToken(c, http.StatusCreated, user)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req types.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	user, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err, "failed to log in")
		return
	}
	h.respondToken(c, http.StatusOK, user)
}

// DeleteAccount removes the caller with everything they own.
func (h *AuthHandler) DeleteAccount(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	if err := h.auth.DeleteAccount(c.Request.Context(), userID); err != nil {
		respondError(c, err, "failed to delete account")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) respondToken(c *gin.Context, status int, user *models.User) {
	token, err := h.auth.GenerateToken(user)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to generate token"})
		return
	}
	c.JSON(status, types.AuthResponse{Token: token, UserID: user.ID, Username: user.Username})
}

// bindError reports binding failures per field when the validator produced them.
func bindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		badRequest(c, "invalid request body")
		return
	}
	fe := service.FieldErrors{}
	for _, e := range verrs {
		field := strings.ToLower(e.Field())
		switch e.Tag() {
		case "required":
			fe.Add(field, "This field is required.")
		case "email":
			fe.Add(field, "Enter a valid email address.")
		case "min":
			fe.Add(field, fmt.Sprintf("Ensure this field has at least %s characters.", e.Param()))
		case "max":
			fe.Add(field, fmt.Sprintf("Ensure this field has no more than %s characters.", e.Param()))
		default:
			fe.Add(field, "Enter a valid value.")
		}
	}
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Errors: fe})
}
