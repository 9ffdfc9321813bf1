package middlewares

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	helper "volunteerhub_backend/internals/helpers"
)

func newIPLimiter(max int, window time.Duration, message string) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return helper.JsonError(c, fiber.StatusTooManyRequests, message)
		},
	})
}

// Global limiter for every route
func GlobalRateLimiter() fiber.Handler {
	return newIPLimiter(120, time.Minute, "Too many requests. Please try again later.")
}

// Organizer login
func LoginRateLimiter() fiber.Handler {
	return newIPLimiter(5, time.Minute, "Too many login attempts. Please wait a moment.")
}

// Public event registration and self-service token routes. The token routes take
// a bearer secret in the body, so they share the tighter budget against guessing.
func RegisterRateLimiter() fiber.Handler {
	return newIPLimiter(10, 5*time.Minute, "Too many registration attempts. Please wait a few minutes.")
}
