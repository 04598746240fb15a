package middlewares

import (
	"partyhub.app/configs"
	"partyhub.app/pkg/responses"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// RateLimiter throttles clients per IP. The storage argument accepts any
// fiber.Storage implementation (redis, memcache, ...) so the limit table
// lives in an externally owned, TTL'd store instead of process memory;
// nil falls back to the in-memory store for single-instance deployments.
func RateLimiter(storage fiber.Storage) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        configs.RateLimitMax(),
		Expiration: configs.RateLimitWindow(),
		Storage:    storage,
		LimitReached: func(c *fiber.Ctx) error {
			return responses.Error(c, fiber.StatusTooManyRequests, "too many requests")
		},
	})
}
