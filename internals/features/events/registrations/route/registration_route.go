package route

import (
	"github.com/gofiber/fiber/v2"

	"volunteerhub_backend/internals/features/events/registrations/controller"
	"volunteerhub_backend/internals/features/events/registrations/service"
	rateLimiter "volunteerhub_backend/internals/middlewares"
)

// RegistrationPublicRoutes: /api/public
func RegistrationPublicRoutes(r fiber.Router, ledger *service.Ledger) {
	ctl := controller.NewRegistrationController(ledger)

	r.Post("/events/:id/registrations", rateLimiter.RegisterRateLimiter(), ctl.Register)

	reg := r.Group("/registrations", rateLimiter.RegisterRateLimiter())
	reg.Post("/lookup", ctl.Lookup)
	reg.Post("/status", ctl.ChangeStatus)
}

// RegistrationOrganizerRoutes: /api/a (JWT + organizer)
func RegistrationOrganizerRoutes(r fiber.Router, ledger *service.Ledger) {
	ctl := controller.NewRegistrationController(ledger)

	r.Get("/events/:id/registrations", ctl.ListByEvent)
	r.Get("/events/:id/stats", ctl.Stats)
	r.Delete("/events/:id/registrations/:token", ctl.Delete)

	reg := r.Group("/registrations/:token")
	reg.Patch("/status", ctl.OverrideStatus)
	reg.Post("/comments", ctl.AddComment)
}
