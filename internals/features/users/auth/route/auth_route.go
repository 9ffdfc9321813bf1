package route

import (
	"github.com/gofiber/fiber/v2"

	"volunteerhub_backend/internals/features/users/auth/controller"
	"volunteerhub_backend/internals/features/users/auth/service"
	rateLimiter "volunteerhub_backend/internals/middlewares"
)

// AuthRoutes: /api/auth
func AuthRoutes(app *fiber.App, svc *service.AuthService) {
	ctl := controller.NewAuthController(svc)
	baseAuth := app.Group("/api/auth")
	baseAuth.Post("/login", rateLimiter.LoginRateLimiter(), ctl.Login)

	// Terminal for anything else under /api/auth. Without it the request falls
	// through to the /api/a group, whose prefix match also covers /api/auth/*.
	baseAuth.Use(func(c *fiber.Ctx) error {
		return fiber.ErrNotFound
	})
}
