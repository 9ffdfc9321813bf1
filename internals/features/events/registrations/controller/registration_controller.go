package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"volunteerhub_backend/internals/features/events/registrations/dto"
	"volunteerhub_backend/internals/features/events/registrations/service"
	helper "volunteerhub_backend/internals/helpers"
	helperAuth "volunteerhub_backend/internals/helpers/auth"
)

type RegistrationController struct {
	Ledger    *service.Ledger
	Validator *validator.Validate
}

func NewRegistrationController(ledger *service.Ledger) *RegistrationController {
	return &RegistrationController{
		Ledger:    ledger,
		Validator: helper.NewValidator(),
	}
}

/* =========================
   Public
   ========================= */

// POST /api/public/events/:id/registrations
// The token appears in this response only; it cannot be recovered later.
func (ctl *RegistrationController) Register(c *fiber.Ctx) error {
	eventID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.WriteError(c, err)
	}
	var req dto.RegisterRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return helper.WriteError(c, err)
	}
	req.Normalize()
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.WriteError(c, err)
	}

	tok, reg, err := ctl.Ledger.Register(c.UserContext(), eventID, req.HolderInfo, req.Status)
	if err != nil {
		return helper.WriteError(c, err)
	}
	c.Set(fiber.HeaderCacheControl, "no-store")
	return helper.JsonCreated(c, "registered, keep this token to manage your registration", dto.RegisteredResponse{
		Token:        tok,
		Registration: dto.FromModelPublic(reg),
	})
}

// POST /api/public/registrations/lookup
func (ctl *RegistrationController) Lookup(c *fiber.Ctx) error {
	var req dto.TokenRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return helper.WriteError(c, err)
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.WriteError(c, err)
	}
	reg, err := ctl.Ledger.GetByToken(c.UserContext(), req.Token)
	if err != nil {
		return helper.WriteError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromModelPublic(reg))
}

// POST /api/public/registrations/status
func (ctl *RegistrationController) ChangeStatus(c *fiber.Ctx) error {
	var req dto.ChangeStatusRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return helper.WriteError(c, err)
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.WriteError(c, err)
	}
	reg, err := ctl.Ledger.ChangeStatus(c.UserContext(), req.Token, req.Status)
	if err != nil {
		return helper.WriteError(c, err)
	}
	return helper.JsonUpdated(c, "status updated", dto.FromModelPublic(reg))
}

/* =========================
   Organizer
   ========================= */

// GET /api/a/events/:id/registrations
func (ctl *RegistrationController) ListByEvent(c *fiber.Ctx) error {
	eventID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.WriteError(c, err)
	}
	rows, err := ctl.Ledger.ListByEvent(c.UserContext(), eventID)
	if err != nil {
		return helper.WriteError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromModelsForOrganizer(rows))
}

// GET /api/a/events/:id/stats
func (ctl *RegistrationController) Stats(c *fiber.Ctx) error {
	eventID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.WriteError(c, err)
	}
	stats, err := ctl.Ledger.EventStats(c.UserContext(), eventID)
	if err != nil {
		return helper.WriteError(c, err)
	}
	return helper.JsonOK(c, "ok", stats)
}

// DELETE /api/a/events/:id/registrations/:token
func (ctl *RegistrationController) Delete(c *fiber.Ctx) error {
	eventID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.WriteError(c, err)
	}
	if err := ctl.Ledger.DeleteRegistration(c.UserContext(), helperAuth.ActorFrom(c), eventID, c.Params("token")); err != nil {
		return helper.WriteError(c, err)
	}
	return helper.JsonDeleted(c, "registration deleted", nil)
}

// PATCH /api/a/registrations/:token/status
func (ctl *RegistrationController) OverrideStatus(c *fiber.Ctx) error {
	var req dto.OverrideStatusRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return helper.WriteError(c, err)
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.WriteError(c, err)
	}
	reg, err := ctl.Ledger.OverrideStatus(c.UserContext(), helperAuth.ActorFrom(c), c.Params("token"), req.Status)
	if err != nil {
		return helper.WriteError(c, err)
	}
	return helper.JsonUpdated(c, "status updated", dto.FromModel(reg))
}

// POST /api/a/registrations/:token/comments
func (ctl *RegistrationController) AddComment(c *fiber.Ctx) error {
	var req dto.AddCommentRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return helper.WriteError(c, err)
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.WriteError(c, err)
	}
	reg, err := ctl.Ledger.AddComment(c.UserContext(), helperAuth.ActorFrom(c), c.Params("token"), req.Content)
	if err != nil {
		return helper.WriteError(c, err)
	}
	return helper.JsonCreated(c, "comment added", dto.FromModel(reg))
}
