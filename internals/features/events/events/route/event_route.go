package route

import (
	"github.com/gofiber/fiber/v2"

	"volunteerhub_backend/internals/features/events/events/controller"
	"volunteerhub_backend/internals/features/events/events/repository"
)

// EventPublicRoutes: /api/public/events (read-only, archived hidden)
func EventPublicRoutes(r fiber.Router, repo *repository.EventRepository) {
	ctl := controller.NewEventController(repo)
	grp := r.Group("/events")
	grp.Get("/", ctl.PublicList)
	grp.Get("/:id", ctl.PublicGet)
}

// EventOrganizerRoutes: /api/a/events
func EventOrganizerRoutes(r fiber.Router, repo *repository.EventRepository) {
	ctl := controller.NewEventController(repo)
	grp := r.Group("/events")
	grp.Post("/", ctl.Create)
	grp.Get("/", ctl.List)
	grp.Get("/:id", ctl.Get)
	grp.Patch("/:id", ctl.Patch)
	grp.Patch("/:id/archive", ctl.Archive)
	grp.Delete("/:id", ctl.Delete)
}
