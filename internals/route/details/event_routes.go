package details

import (
	"github.com/gofiber/fiber/v2"

	dashboardRoute "volunteerhub_backend/internals/features/events/dashboard/route"
	dashboardService "volunteerhub_backend/internals/features/events/dashboard/service"
	eventRepo "volunteerhub_backend/internals/features/events/events/repository"
	eventRoute "volunteerhub_backend/internals/features/events/events/route"
	regRoute "volunteerhub_backend/internals/features/events/registrations/route"
	regService "volunteerhub_backend/internals/features/events/registrations/service"
)

// EventPublicRoutes mounts the volunteer facing routes on /api/public.
func EventPublicRoutes(r fiber.Router, events *eventRepo.EventRepository, ledger *regService.Ledger) {
	eventRoute.EventPublicRoutes(r, events)
	regRoute.RegistrationPublicRoutes(r, ledger)
}

// EventOrganizerRoutes mounts the organizer routes on /api/a.
func EventOrganizerRoutes(r fiber.Router, events *eventRepo.EventRepository, ledger *regService.Ledger, dash *dashboardService.DashboardService) {
	eventRoute.EventOrganizerRoutes(r, events)
	regRoute.RegistrationOrganizerRoutes(r, ledger)
	dashboardRoute.DashboardRoutes(r, dash)
}
