package auth

import (
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"volunteerhub_backend/internals/constants"
	helperAuth "volunteerhub_backend/internals/helpers/auth"
)

// OnlyRoles rejects actors whose role is not in roles.
func OnlyRoles(customMessage string, roles ...string) fiber.Handler {
	if customMessage == "" {
		customMessage = "Forbidden: you are not authorized to access this resource"
	}
	return func(c *fiber.Ctx) error {
		actor := helperAuth.ActorFrom(c)
		if actor.Role == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized: missing role information")
		}
		for _, allowed := range roles {
			if actor.Role == allowed {
				return c.Next()
			}
		}
		log.WithFields(log.Fields{"user_id": actor.ID, "role": actor.Role, "path": c.Path()}).Debug("role rejected")
		return fiber.NewError(fiber.StatusForbidden, customMessage)
	}
}

func RequireOrganizer() fiber.Handler {
	return OnlyRoles(constants.RoleErrorOrganizer("this resource"), constants.OrganizerRoles...)
}
