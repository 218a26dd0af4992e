package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipebox/backend/internal/logging"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func limitedRouter(rl *RateLimiter, userID uuid.UUID) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if userID != uuid.Nil {
			c.Set(userIDKey, userID)
		}
	})
	r.POST("/recipes", rl.RateLimitMiddleware(), func(c *gin.Context) { c.Status(http.StatusCreated) })
	r.PUT("/recipes/:id", rl.PerRecipeRateLimitMiddleware(), func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func do(r http.Handler, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestRateLimiterRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	rl := NewRecipeCreationRateLimiter(client, 2, logging.Discard())
	user := uuid.New()
	r := limitedRouter(rl, user)

	w := do(r, http.MethodPost, "/recipes")
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Remaining"))

	assert.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/recipes").Code)

	w = do(r, http.MethodPost, "/recipes")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "rate limit exceeded")

	// other users have their own budget
	assert.Equal(t, http.StatusCreated, do(limitedRouter(rl, uuid.New()), http.MethodPost, "/recipes").Code)

	keys := mr.Keys()
	require.Len(t, keys, 2)
	assert.Contains(t, keys[0], "rate_limit:recipe_creation:")
	ttl := mr.TTL(keys[0])
	assert.True(t, ttl > 0 && ttl <= time.Hour)
}

func TestRateLimiterFallsBackWhenRedisFails(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	mr.Close()

	rl := NewRecipeCreationRateLimiter(client, 1, logging.Discard())
	r := limitedRouter(rl, uuid.New())

	assert.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/recipes").Code)
	assert.Equal(t, http.StatusTooManyRequests, do(r, http.MethodPost, "/recipes").Code)
}

func TestRateLimiterLocalRefills(t *testing.T) {
	rl := NewRateLimiter(nil, RateLimitConfig{Window: time.Hour, Limit: 2}, logging.Discard())
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	allowed, remaining, _ := rl.Allow(t.Context(), "u")
	assert.True(t, allowed)
	assert.Equal(t, 1, remaining)
	allowed, _, _ = rl.Allow(t.Context(), "u")
	assert.True(t, allowed)
	allowed, remaining, reset := rl.Allow(t.Context(), "u")
	assert.False(t, allowed)
	assert.Equal(t, 0, remaining)
	assert.Equal(t, now.Add(30*time.Minute), reset)

	now = now.Add(30 * time.Minute)
	allowed, _, _ = rl.Allow(t.Context(), "u")
	assert.True(t, allowed)
}

func TestPerRecipeRateLimit(t *testing.T) {
	rl := NewRecipeModificationRateLimiter(nil, logging.Discard())
	r := limitedRouter(rl, uuid.New())

	for range 10 {
		require.Equal(t, http.StatusOK, do(r, http.MethodPut, "/recipes/a").Code)
	}
	assert.Equal(t, http.StatusTooManyRequests, do(r, http.MethodPut, "/recipes/a").Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodPut, "/recipes/b").Code)
}

func TestRateLimitRequiresUser(t *testing.T) {
	rl := NewRecipeCreationRateLimiter(nil, 5, logging.Discard())
	w := do(limitedRouter(rl, uuid.Nil), http.MethodPost, "/recipes")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
