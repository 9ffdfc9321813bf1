package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"volunteerhub_backend/internals/features/events/dashboard/service"
	helper "volunteerhub_backend/internals/helpers"
)

type DashboardController struct {
	Svc *service.DashboardService
}

func NewDashboardController(svc *service.DashboardService) *DashboardController {
	return &DashboardController{Svc: svc}
}

// GET /api/a/dashboard/overview
func (ctl *DashboardController) Overview(c *fiber.Ctx) error {
	o, err := ctl.Svc.Overview(c.UserContext())
	if err != nil {
		return helper.WriteError(c, err)
	}
	return helper.JsonOK(c, "ok", o)
}

// GET /api/a/dashboard/participation?months=6
func (ctl *DashboardController) Participation(c *fiber.Ctx) error {
	months := c.QueryInt("months", 6)
	if months < 1 || months > 24 {
		return helper.JsonValidationError(c, "", map[string][]string{"months": {"min=1", "max=24"}})
	}
	rows, err := ctl.Svc.Participation(c.UserContext(), months)
	if err != nil {
		return helper.WriteError(c, err)
	}
	return helper.JsonOK(c, "ok", rows)
}

// GET /api/a/dashboard/volunteers?q=&sort=name|events|date&order=asc|desc
func (ctl *DashboardController) Volunteers(c *fiber.Ctx) error {
	sortBy := strings.ToLower(strings.TrimSpace(c.Query("sort", service.SortByName)))
	switch sortBy {
	case service.SortByName, service.SortByEvents, service.SortByDate:
	default:
		return helper.JsonValidationError(c, "", map[string][]string{"sort": {"oneof=name events date"}})
	}
	desc := strings.EqualFold(strings.TrimSpace(c.Query("order")), "desc")

	vs, err := ctl.Svc.Volunteers(c.UserContext(), c.Query("q"), sortBy, desc)
	if err != nil {
		return helper.WriteError(c, err)
	}
	return helper.JsonOK(c, "ok", vs)
}
