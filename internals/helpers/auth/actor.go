package helper

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"volunteerhub_backend/internals/constants"
	"volunteerhub_backend/internals/helpers/apperr"
)

// Locals keys hydrated by the JWT middleware.
const (
	LocActor  = "actor"
	LocUserID = "user_id"
)

// Actor is the acting identity passed explicitly into organizer-only operations.
// The zero value is an anonymous token holder.
type Actor struct {
	ID    uuid.UUID
	Email string
	Role  string
}

func (a Actor) IsOrganizer() bool {
	return a.ID != uuid.Nil && a.Role == constants.RoleOrganizer
}

// RequireOrganizer returns apperr.ErrForbidden unless a is an organizer.
func RequireOrganizer(a Actor) error {
	if !a.IsOrganizer() {
		return apperr.ErrForbidden
	}
	return nil
}

// ActorFrom reads the actor set by the auth middleware; anonymous when absent.
func ActorFrom(c *fiber.Ctx) Actor {
	if a, ok := c.Locals(LocActor).(Actor); ok {
		return a
	}
	return Actor{}
}
