package api

import (
	"bytes"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipebox/backend/internal/models"
	"github.com/pageza/recipebox/backend/internal/service"
	"github.com/pageza/recipebox/backend/internal/testhelpers"
	"github.com/pageza/recipebox/backend/internal/types"
)

func TestGetProfile(t *testing.T) {
	a := setupAPI(t)
	a.profiles.On("GetProfile", mock.Anything, a.userID).
		Return(&models.Profile{UserID: a.userID, Bio: "Cook"}, nil).Once()

	w := a.do(http.MethodGet, "/api/v1/profile", nil, "", testToken)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "alice", body["username"])
	assert.Equal(t, "Cook", body["profile"].(map[string]any)["bio"])
}

func TestGetProfileUnknownUser(t *testing.T) {
	a := setupAPI(t)
	a.profiles.On("GetProfile", mock.Anything, a.userID).Return(nil, service.ErrUserNotFound).Once()

	w := a.do(http.MethodGet, "/api/v1/profile", nil, "", testToken)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateProfile(t *testing.T) {
	a := setupAPI(t)
	a.profiles.On("UpdateProfile", mock.Anything, a.userID, mock.MatchedBy(func(upd types.ProfileUpdate) bool {
		return upd.Bio != nil && *upd.Bio == "Home cook" &&
			upd.Location == nil &&
			upd.Picture != nil &&
			upd.Picture.Filename == "me.png" &&
			bytes.Equal(upd.Picture.Data, testhelpers.PNG)
	})).Return(&models.Profile{UserID: a.userID, Bio: "Home cook"}, nil).Once()

	body, ct := multipartForm(t, [][2]string{{"bio", "Home cook"}}, formFile{"picture", "me.png", testhelpers.PNG})
	w := a.do(http.MethodPut, "/api/v1/profile", body, ct, testToken)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Profile updated successfully", decode(t, w)["message"])
}

func TestUpdateProfileValidation(t *testing.T) {
	a := setupAPI(t)
	a.profiles.On("UpdateProfile", mock.Anything, a.userID, mock.Anything).
		Return(nil, &service.ValidationError{Fields: service.FieldErrors{"location": {"Ensure this field has no more than 100 characters."}}}).Once()

	body, ct := multipartForm(t, [][2]string{{"location", "far away"}})
	w := a.do(http.MethodPut, "/api/v1/profile", body, ct, testToken)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w)["errors"], "location")
}

func TestGetUserRecipes(t *testing.T) {
	a := setupAPI(t)
	a.profiles.On("GetUserRecipes", mock.Anything, a.userID).
		Return([]models.Recipe{{ID: uuid.New(), Title: "Soup"}, {ID: uuid.New(), Title: "Stew"}}, nil).Once()

	w := a.do(http.MethodGet, "/api/v1/profile/recipes", nil, "", testToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["recipes"], 2)
}
