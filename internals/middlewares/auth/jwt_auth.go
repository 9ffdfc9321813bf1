package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	helper "volunteerhub_backend/internals/helpers"
	helperAuth "volunteerhub_backend/internals/helpers/auth"
)

type AuthJWTOpts struct {
	Secret              string
	AllowCookieFallback bool // use cookie access_token when no Bearer header
}

// AuthJWT verifies the access token and stores the Actor in Locals.
func AuthJWT(o AuthJWTOpts) fiber.Handler {
	secret := strings.TrimSpace(o.Secret)

	return func(c *fiber.Ctx) error {
		if secret == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
		}

		raw := helper.GetRawAccessToken(c)
		if raw == "" || (!o.AllowCookieFallback && c.Get(fiber.HeaderAuthorization) == "") {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
		}

		actor, err := helperAuth.ParseToken(secret, raw)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
		}

		c.Locals(helperAuth.LocActor, actor)
		c.Locals(helperAuth.LocUserID, actor.ID.String())
		return c.Next()
	}
}
