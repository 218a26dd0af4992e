package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/pageza/recipebox/backend/internal/logging"
)

// RateLimitConfig defines configuration for rate limiting
type RateLimitConfig struct {
	// Window is the time window for rate limiting
	Window time.Duration
	// Limit is the maximum number of requests allowed in the window
	Limit int
	// Key prefix for Redis keys
	KeyPrefix string
}

// visitorTTL is how long an idle in-process bucket is kept.
const visitorTTL = 2 * time.Hour

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter counts requests per key in fixed Redis windows. Without Redis, or
// while Redis fails, it falls back to an in-process token bucket per key with
// the same budget.
type RateLimiter struct {
	redis  *redis.Client
	config RateLimitConfig
	log    logging.Logger

	mu       sync.Mutex
	visitors map[string]*visitor
	now      func() time.Time
}

// NewRateLimiter creates a new rate limiter instance. redisClient may be nil.
func NewRateLimiter(redisClient *redis.Client, config RateLimitConfig, log logging.Logger) *RateLimiter {
	return &RateLimiter{
		redis:    redisClient,
		config:   config,
		log:      log,
		visitors: make(map[string]*visitor),
		now:      time.Now,
	}
}

// NewRecipeCreationRateLimiter allows limit recipe submissions per user per hour.
func NewRecipeCreationRateLimiter(redisClient *redis.Client, limit int, log logging.Logger) *RateLimiter {
	return NewRateLimiter(redisClient, RateLimitConfig{
		Window:    time.Hour,
		Limit:     limit,
		KeyPrefix: "rate_limit:recipe_creation",
	}, log)
}

// NewRecipeModificationRateLimiter allows 10 edits per recipe per user per hour.
func NewRecipeModificationRateLimiter(redisClient *redis.Client, log logging.Logger) *RateLimiter {
	return NewRateLimiter(redisClient, RateLimitConfig{
		Window:    time.Hour,
		Limit:     10,
		KeyPrefix: "rate_limit:recipe_modification",
	}, log)
}

// RateLimitMiddleware limits each authenticated user.
func (rl *RateLimiter) RateLimitMiddleware() gin.HandlerFunc {
	return rl.handler(func(c *gin.Context, userID string) (string, bool) {
		return userID, true
	}, "requests")
}

// PerRecipeRateLimitMiddleware limits each user separately for every recipe id.
func (rl *RateLimiter) PerRecipeRateLimitMiddleware() gin.HandlerFunc {
	return rl.handler(func(c *gin.Context, userID string) (string, bool) {
		recipeID := c.Param("id")
		if recipeID == "" {
			return "", false
		}
		return userID + ":" + recipeID, true
	}, "modifications per recipe")
}

func (rl *RateLimiter) handler(key func(*gin.Context, string) (string, bool), what string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := UserID(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "user not authenticated"})
			return
		}
		k, ok := key(c, userID.String())
		if !ok {
			c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: "recipe ID is required"})
			return
		}

		allowed, remaining, resetTime := rl.Allow(c.Request.Context(), k)

		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.config.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

		if !allowed {
			retry := max(int(resetTime.Sub(rl.now()).Seconds()), 1)
			c.Header("Retry-After", strconv.Itoa(retry))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":                "rate limit exceeded",
				"message":              fmt.Sprintf("You have exceeded the rate limit of %d %s per %v", rl.config.Limit, what, rl.config.Window),
				"rate_limit_remaining": remaining,
				"rate_limit_reset":     resetTime.Unix(),
				"retry_after":          retry,
			})
			return
		}

		c.Next()
	}
}

// Allow counts one request for key.
// Returns: allowed, remaining requests, reset time
func (rl *RateLimiter) Allow(ctx context.Context, key string) (bool, int, time.Time) {
	if rl.redis != nil {
		allowed, remaining, reset, err := rl.IsAllowed(ctx, key)
		if err == nil {
			return allowed, remaining, reset
		}
		rl.log.Warn(ctx, "rate limit check failed, using local limiter", "key", key, "error", err)
	}
	return rl.allowLocal(key)
}

// IsAllowed checks if a request for the given key is allowed using Redis.
// Returns: allowed, remaining requests, reset time, error
func (rl *RateLimiter) IsAllowed(ctx context.Context, key string) (bool, int, time.Time, error) {
	windowStart := rl.now().Truncate(rl.config.Window)
	redisKey := fmt.Sprintf("%s:%s:%d", rl.config.KeyPrefix, key, windowStart.Unix())

	// Use Redis pipeline for atomic operations
	pipe := rl.redis.Pipeline()
	incrCmd := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, rl.config.Window)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, time.Time{}, err
	}

	count := int(incrCmd.Val())
	remaining := max(rl.config.Limit-count, 0)
	return count <= rl.config.Limit, remaining, windowStart.Add(rl.config.Window), nil
}

func (rl *RateLimiter) allowLocal(key string) (bool, int, time.Time) {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for k, v := range rl.visitors {
		if now.Sub(v.lastSeen) > visitorTTL {
			delete(rl.visitors, k)
		}
	}

	v, ok := rl.visitors[key]
	if !ok {
		every := rl.config.Window / time.Duration(max(rl.config.Limit, 1))
		v = &visitor{limiter: rate.NewLimiter(rate.Every(every), rl.config.Limit)}
		rl.visitors[key] = v
	}
	v.lastSeen = now

	allowed := v.limiter.AllowN(now, 1)
	tokens := v.limiter.TokensAt(now)
	remaining := max(int(tokens), 0)

	// reset is when the next token is back
	missing := 1 - (tokens - float64(remaining))
	reset := now.Add(time.Duration(missing * float64(rl.config.Window) / float64(max(rl.config.Limit, 1))))
	return allowed, remaining, reset
}
