package details

import (
	"github.com/gofiber/fiber/v2"

	authRoute "volunteerhub_backend/internals/features/users/auth/route"
	authService "volunteerhub_backend/internals/features/users/auth/service"
)

func AuthRoutes(app *fiber.App, svc *authService.AuthService) {
	authRoute.AuthRoutes(app, svc)
}
