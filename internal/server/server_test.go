package server

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipebox/backend/config"
	"github.com/pageza/recipebox/backend/internal/api"
	"github.com/pageza/recipebox/backend/internal/logging"
	"github.com/pageza/recipebox/backend/internal/service"
	"github.com/pageza/recipebox/backend/internal/testhelpers"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const maxUpload = 1 << 20

func newTestServer(t *testing.T) (http.Handler, *testhelpers.MemoryStore) {
	t.Helper()
	db := testhelpers.NewSQLiteDB(t)
	store := testhelpers.NewMemoryStore()
	log := logging.Discard()

	recipes := service.NewRecipeService(db, store, log, maxUpload)
	deps := api.Deps{
		DB:              db,
		Auth:            service.NewAuthService(db, store, log, "test-secret", time.Hour),
		Recipes:         recipes,
		Profiles:        service.NewProfileService(db, store, recipes, log, maxUpload),
		Collections:     service.NewCollectionService(db, log),
		Log:             log,
		MaxUploadSize:   maxUpload,
		RecipeRateLimit: 10,
	}
	cfg := &config.Config{Env: config.Test, ServerHost: "localhost", ServerPort: "0"}
	return New(cfg, deps).Handler(), store
}

func send(t *testing.T, h http.Handler, req *http.Request) (int, map[string]any) {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	var body map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	}
	return w.Code, body
}

func register(t *testing.T, h http.Handler) string {
	t.Helper()
	payload, _ := json.Marshal(map[string]string{
		"email":    "cook@example.com",
		"username": "cook",
		"password": "password123",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	code, body := send(t, h, req)
	require.Equal(t, http.StatusCreated, code, body)
	return body["token"].(string)
}

func recipeRequest(t *testing.T, token, title string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, kv := range [][2]string{
		{"title", title},
		{"category", "Vegan"},
		{"cuisine", "Italian"},
		{"difficulty", "easy"},
		{"servings", "2"},
		{"prep_time", "10"},
		{"total_time", "25"},
		{"instructions", "Chop and simmer."},
		{"calories", "250"},
		{"ingredient_name[]", "Tomato"},
		{"ingredient_quantity[]", "100"},
		{"ingredient_unit[]", "g"},
		{"ingredient_name[]", " tomato "},
		{"ingredient_quantity[]", "50"},
		{"ingredient_unit[]", "g"},
	} {
		require.NoError(t, mw.WriteField(kv[0], kv[1]))
	}
	fw, err := mw.CreateFormFile("images", "Sauce Pot.PNG")
	require.NoError(t, err)
	_, err = fw.Write(testhelpers.PNG)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/recipes", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestSubmitRecipeEndToEnd(t *testing.T) {
	h, store := newTestServer(t)
	token := register(t, h)

	code, body := send(t, h, recipeRequest(t, token, "Tomato Sauce"))
	require.Equal(t, http.StatusCreated, code, body)
	recipe := body["recipe"].(map[string]any)
	id := recipe["id"].(string)

	assert.Len(t, store.Keys(), 1)
	assert.Contains(t, store.Keys()[0], "/recipe/"+id+"/Sauce_Pot.png")

	code, body = send(t, h, httptest.NewRequest(http.MethodGet, "/api/v1/recipes/"+id, nil))
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "vegan", body["category"])
	ingredients := body["ingredients"].([]any)
	require.Len(t, ingredients, 1)
	assert.Equal(t, "150", ingredients[0].(map[string]any)["quantity"])
	assert.Equal(t, "gram", ingredients[0].(map[string]any)["unit"])

	code, body = send(t, h, recipeRequest(t, token, "Tomato Sauce"))
	assert.Equal(t, http.StatusConflict, code)
	assert.Contains(t, body["errors"], "title")
	assert.Len(t, store.Keys(), 1)
}

func TestSubmitRecipeNeedsToken(t *testing.T) {
	h, store := newTestServer(t)

	code, _ := send(t, h, recipeRequest(t, "forged", "Tomato Sauce"))
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Empty(t, store.Keys())
}

func TestCORSPreflight(t *testing.T) {
	db := testhelpers.NewSQLiteDB(t)
	cfg := &config.Config{CORSOrigins: []string{"https://app.example"}}
	h := New(cfg, api.Deps{DB: db, Log: logging.Discard(), Auth: service.NewAuthService(db, testhelpers.NewMemoryStore(), logging.Discard(), "s", time.Hour)}).Handler()

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/recipes", nil)
	req.Header.Set("Origin", "https://app.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.example", w.Header().Get("Access-Control-Allow-Origin"))
}
