package route

import (
	"github.com/gofiber/fiber/v2"

	"volunteerhub_backend/internals/features/events/dashboard/controller"
	"volunteerhub_backend/internals/features/events/dashboard/service"
)

// DashboardRoutes: /api/a/dashboard
func DashboardRoutes(r fiber.Router, svc *service.DashboardService) {
	ctl := controller.NewDashboardController(svc)
	grp := r.Group("/dashboard")
	grp.Get("/overview", ctl.Overview)
	grp.Get("/participation", ctl.Participation)
	grp.Get("/volunteers", ctl.Volunteers)
}
