package api

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipebox/backend/internal/logging"
	"github.com/pageza/recipebox/backend/internal/mocks"
	"github.com/pageza/recipebox/backend/internal/testhelpers"
	"github.com/pageza/recipebox/backend/internal/types"
)

const testToken = "test-token"

func init() {
	gin.SetMode(gin.TestMode)
}

type testAPI struct {
	router      *gin.Engine
	userID      uuid.UUID
	auth        *mocks.MockAuthService
	recipes     *mocks.MockRecipeService
	profiles    *mocks.MockProfileService
	collections *mocks.MockCollectionService
}

func setupAPI(t *testing.T, modify ...func(*Deps)) *testAPI {
	t.Helper()
	a := &testAPI{
		router:      gin.New(),
		userID:      uuid.New(),
		auth:        new(mocks.MockAuthService),
		recipes:     new(mocks.MockRecipeService),
		profiles:    new(mocks.MockProfileService),
		collections: new(mocks.MockCollectionService),
	}
	a.auth.On("ValidateToken", testToken).
		Return(&types.TokenClaims{UserID: a.userID, Username: "alice"}, nil).Maybe()

	deps := Deps{
		DB:              testhelpers.NewSQLiteDB(t),
		Auth:            a.auth,
		Recipes:         a.recipes,
		Profiles:        a.profiles,
		Collections:     a.collections,
		Log:             logging.Discard(),
		MaxUploadSize:   1 << 20,
		RecipeRateLimit: 100,
	}
	for _, m := range modify {
		m(&deps)
	}
	RegisterRoutes(a.router, deps)

	t.Cleanup(func() {
		a.auth.AssertExpectations(t)
		a.recipes.AssertExpectations(t)
		a.profiles.AssertExpectations(t)
		a.collections.AssertExpectations(t)
	})
	return a
}

// do sends a request, authenticated unless token is empty.
func (a *testAPI) do(method, path string, body io.Reader, contentType, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testAPI) doJSON(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	return a.do(method, path, &buf, "application/json", testToken)
}

type formFile struct {
	field, name string
	data        []byte
}

// multipartForm encodes values (repeated keys allowed) and files.
func multipartForm(t *testing.T, values [][2]string, files ...formFile) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, kv := range values {
		require.NoError(t, mw.WriteField(kv[0], kv[1]))
	}
	for _, f := range files {
		w, err := mw.CreateFormFile(f.field, f.name)
		require.NoError(t, err)
		_, err = w.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func TestHealthCheck(t *testing.T) {
	a := setupAPI(t)

	for _, path := range []string{"/health", "/api/v1/health"} {
		w := a.do(http.MethodGet, path, nil, "", "")
		require.Equal(t, http.StatusOK, w.Code)
		body := decode(t, w)
		require.Equal(t, "healthy", body["status"])
		require.Equal(t, map[string]any{"database": "ok", "redis": "disabled"}, body["checks"])
	}
}
