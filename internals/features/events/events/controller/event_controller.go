package controller

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"volunteerhub_backend/internals/features/events/events/dto"
	"volunteerhub_backend/internals/features/events/events/repository"
	helper "volunteerhub_backend/internals/helpers"
	"volunteerhub_backend/internals/helpers/apperr"
)

type EventController struct {
	Repo      *repository.EventRepository
	Validator *validator.Validate
}

func NewEventController(repo *repository.EventRepository) *EventController {
	return &EventController{
		Repo:      repo,
		Validator: helper.NewValidator(),
	}
}

/* =========================
   Query parsing
   ========================= */

var (
	windows      = map[string]bool{"": true, repository.WindowUpcoming: true, repository.WindowPast: true, repository.WindowAll: true}
	archivedOpts = map[string]bool{"": true, repository.ArchivedExclude: true, repository.ArchivedOnly: true, repository.ArchivedAll: true}
	availability = map[string]bool{"": true, repository.AvailabilityFull: true, repository.AvailabilityAvailable: true}
)

// parseFilter reads ?window=&archived=&availability=&q=&sort=&page=&per_page=.
// Public callers never see archived events.
func (ctl *EventController) parseFilter(c *fiber.Ctx, organizer bool) (repository.ListFilter, helper.Params, error) {
	f := repository.ListFilter{
		Window:       strings.ToLower(strings.TrimSpace(c.Query("window"))),
		Archived:     strings.ToLower(strings.TrimSpace(c.Query("archived"))),
		Availability: strings.ToLower(strings.TrimSpace(c.Query("availability"))),
		Q:            c.Query("q"),
		Sort:         strings.ToLower(strings.TrimSpace(c.Query("sort"))),
	}
	fields := map[string][]string{}
	if !windows[f.Window] {
		fields["window"] = []string{"oneof=upcoming past all"}
	}
	if !archivedOpts[f.Archived] {
		fields["archived"] = []string{"oneof=false true all"}
	}
	if !availability[f.Availability] {
		fields["availability"] = []string{"oneof=full available"}
	}
	if !repository.IsValidSort(f.Sort) {
		fields["sort"] = []string{"oneof=date -date popularity fill_ratio"}
	}
	if len(fields) > 0 {
		return f, helper.Params{}, apperr.ValidationFields(fields)
	}
	if !organizer {
		f.Archived = repository.ArchivedExclude
	}

	opts := helper.DefaultOpts
	if organizer {
		opts = helper.AdminOpts
	}
	p := helper.ParseFiber(c, opts)
	f.Limit, f.Offset = p.Limit(), p.Offset()
	return f, p, nil
}

/* =========================
   Public
   ========================= */

// GET /api/public/events
func (ctl *EventController) PublicList(c *fiber.Ctx) error { return ctl.list(c, false) }

// GET /api/public/events/:id (archived events are hidden)
func (ctl *EventController) PublicGet(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.WriteError(c, err)
	}
	ev, err := ctl.Repo.Get(c.UserContext(), id)
	if err != nil {
		return helper.WriteError(c, err)
	}
	if ev.EventIsArchived {
		return helper.WriteError(c, repository.ErrEventNotFound)
	}
	return helper.JsonOK(c, "ok", dto.FromModel(ev, ctl.Repo.Today()))
}

/* =========================
   Organizer
   ========================= */

// GET /api/a/events
func (ctl *EventController) List(c *fiber.Ctx) error { return ctl.list(c, true) }

func (ctl *EventController) list(c *fiber.Ctx, organizer bool) error {
	f, p, err := ctl.parseFilter(c, organizer)
	if err != nil {
		return helper.WriteError(c, err)
	}
	rows, total, err := ctl.Repo.List(c.UserContext(), f)
	if err != nil {
		return helper.WriteError(c, err)
	}
	meta := helper.BuildMeta(total, p)
	return helper.JsonList(c, "ok", dto.FromModels(rows, ctl.Repo.Today()), &meta)
}

// GET /api/a/events/:id
func (ctl *EventController) Get(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.WriteError(c, err)
	}
	ev, err := ctl.Repo.Get(c.UserContext(), id)
	if err != nil {
		return helper.WriteError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromModel(ev, ctl.Repo.Today()))
}

// POST /api/a/events
func (ctl *EventController) Create(c *fiber.Ctx) error {
	var req dto.CreateEventRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return helper.WriteError(c, err)
	}
	req.Normalize()
	if err := req.Validate(ctl.Validator); err != nil {
		return helper.WriteError(c, err)
	}
	m, err := req.ToModel()
	if err != nil {
		return helper.WriteError(c, err)
	}
	if err := ctl.Repo.Create(c.UserContext(), m); err != nil {
		return helper.WriteError(c, err)
	}
	return helper.JsonCreated(c, "event created", dto.FromModel(m, ctl.Repo.Today()))
}

// PATCH /api/a/events/:id
func (ctl *EventController) Patch(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.WriteError(c, err)
	}
	var req dto.PatchEventRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return helper.WriteError(c, err)
	}
	req.Normalize()
	if err := req.ValidatePartial(ctl.Validator); err != nil {
		return helper.WriteError(c, err)
	}
	ev, err := ctl.Repo.Update(c.UserContext(), id, req.ApplyPatch)
	if err != nil {
		return helper.WriteError(c, err)
	}
	return helper.JsonUpdated(c, "event updated", dto.FromModel(ev, ctl.Repo.Today()))
}

// PATCH /api/a/events/:id/archive
func (ctl *EventController) Archive(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.WriteError(c, err)
	}
	var req dto.ArchiveRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return helper.WriteError(c, err)
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.WriteError(c, err)
	}
	ev, err := ctl.Repo.SetArchived(c.UserContext(), id, *req.Archived)
	if err != nil {
		return helper.WriteError(c, err)
	}
	return helper.JsonUpdated(c, "event archive flag updated", dto.FromModel(ev, ctl.Repo.Today()))
}

// DELETE /api/a/events/:id
func (ctl *EventController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.WriteError(c, err)
	}
	if err := ctl.Repo.Delete(c.UserContext(), id); err != nil {
		return helper.WriteError(c, err)
	}
	return helper.JsonDeleted(c, "event deleted", fiber.Map{"id": id})
}
