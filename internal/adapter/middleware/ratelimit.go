package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/Muhadev/lendsqr-wallet-service-sub000/internal/core/security"
)

// RateLimit gates requests with a fixed window counter in redis, keyed by
// the caller's API key (hashed, to keep keys out of redis) or IP when
// unauthenticated. Fails open on redis errors: a rate-limiter outage must
// not take the wallet down with it.
func RateLimit(rdb *redis.Client, limit int, window time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity := c.IP()
		if authHeader := c.Get("Authorization"); authHeader != "" {
			identity = security.HashKey(authHeader)
		}
		key := fmt.Sprintf("ratelimit:%s", identity)

		count, err := rdb.Incr(c.Context(), key).Result()
		if err != nil {
			slog.Warn("rate limiter unavailable, letting request through", "error", err)
			return c.Next()
		}
		if count == 1 {
			if err := rdb.Expire(c.Context(), key, window).Err(); err != nil {
				slog.Warn("failed to set rate limit window", "error", err)
			}
		}

		if count > int64(limit) {
			return c.Status(http.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, slow down",
			})
		}
		return c.Next()
	}
}
