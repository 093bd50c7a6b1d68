package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hsh-clinic/clinic-backend/internal/config"
	"github.com/hsh-clinic/clinic-backend/internal/response"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RateLimiter is a fixed-window per-IP limiter whose counters live in
// Redis, so every replica shares the same budget.
type RateLimiter struct {
	rdb    *redis.Client
	scope  string
	limit  int
	window time.Duration
	now    func() time.Time
	log    zerolog.Logger
}

// NewRateLimiter allows limit requests per window for each client IP in scope.
func NewRateLimiter(rdb *redis.Client, scope string, limit int, window time.Duration, log zerolog.Logger) *RateLimiter {
	return &RateLimiter{
		rdb:    rdb,
		scope:  scope,
		limit:  limit,
		window: window,
		now:    time.Now,
		log:    log.With().Str("component", "rate_limiter").Logger(),
	}
}

// Middleware returns a Gin middleware that rate-limits requests by IP.
// If Redis is unavailable requests are let through.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		now := rl.now()
		slot := now.UnixNano() / int64(rl.window)
		key := config.CacheKey.RateLimitKey(rl.scope, c.ClientIP(), slot)

		pipe := rl.rdb.TxPipeline()
		incr := pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, rl.window)
		if _, err := pipe.Exec(ctx); err != nil {
			rl.log.Warn().Err(err).Msg("Rate limiter unavailable")
			c.Next()
			return
		}

		remaining := rl.limit - int(incr.Val())
		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(max(remaining, 0)))

		if remaining < 0 {
			reset := time.Unix(0, (slot+1)*int64(rl.window)).Sub(now)
			c.Header("Retry-After", strconv.Itoa(int(reset.Seconds())+1))
			response.AbortFail(c, http.StatusTooManyRequests, response.ErrRateLimitExceeded)
			return
		}
		c.Next()
	}
}
