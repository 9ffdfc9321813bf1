package dto

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"volunteerhub_backend/internals/features/events/events/model"
	"volunteerhub_backend/internals/helpers/apperr"
	"volunteerhub_backend/internals/helpers/dbtime"
)

/* =========================================================
   Shared helpers
   ========================================================= */

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func todPtr(s *string) (*dbtime.Tod, error) {
	if s == nil {
		return nil, nil
	}
	t, err := dbtime.Parse(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

/* =========================================================
   PatchField (tri-state): absent | null | value
   ========================================================= */

type PatchField[T any] struct {
	Present bool
	Value   *T
}

func (p *PatchField[T]) UnmarshalJSON(b []byte) error {
	p.Present = true
	if string(b) == "null" {
		p.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	p.Value = &v
	return nil
}

func (p PatchField[T]) Get() (*T, bool) { return p.Value, p.Present }

/* =========================================================
   Requests: CREATE
   ========================================================= */

type CreateEventRequest struct {
	Title           string  `json:"title" validate:"required,max=160"`
	Description     *string `json:"description" validate:"omitempty,max=5000"`
	Location        string  `json:"location" validate:"required,max=200"`
	Date            string  `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime       *string `json:"start_time" validate:"omitempty"`
	EndTime         *string `json:"end_time" validate:"omitempty"`
	ImageURL        *string `json:"image_url" validate:"omitempty,url,max=2000"`
	MaxParticipants int     `json:"max_participants" validate:"required,min=1"`
}

func (r *CreateEventRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Location = strings.TrimSpace(r.Location)
	r.Date = strings.TrimSpace(r.Date)
	r.Description = trimPtr(r.Description)
	r.StartTime = trimPtr(r.StartTime)
	r.EndTime = trimPtr(r.EndTime)
	r.ImageURL = trimPtr(r.ImageURL)
}

func (r *CreateEventRequest) Validate(v *validator.Validate) error {
	if err := v.Struct(r); err != nil {
		return err
	}
	return validateTimes(r.StartTime, r.EndTime)
}

func (r *CreateEventRequest) ToModel() (*model.EventModel, error) {
	day, ok := dbtime.ParseDate(r.Date)
	if !ok {
		return nil, fieldError("date", "datetime=2006-01-02")
	}
	start, err := todPtr(r.StartTime)
	if err != nil {
		return nil, fieldError("start_time", "HH:MM")
	}
	end, err := todPtr(r.EndTime)
	if err != nil {
		return nil, fieldError("end_time", "HH:MM")
	}
	return &model.EventModel{
		EventTitle:           r.Title,
		EventDescription:     r.Description,
		EventLocation:        r.Location,
		EventDate:            datatypes.Date(day),
		EventStartTime:       start,
		EventEndTime:         end,
		EventImageURL:        r.ImageURL,
		EventMaxParticipants: r.MaxParticipants,
	}, nil
}

func validateTimes(start, end *string) error {
	if start != nil && !dbtime.ValidHHMM(*start) {
		return fieldError("start_time", "HH:MM")
	}
	if end != nil && !dbtime.ValidHHMM(*end) {
		return fieldError("end_time", "HH:MM")
	}
	return nil
}

func fieldError(field, msg string) error {
	return apperr.ValidationFields(map[string][]string{field: {msg}})
}

/* =========================================================
   Requests: PATCH (partial)
   ========================================================= */

type PatchEventRequest struct {
	Title           PatchField[string] `json:"title"`
	Description     PatchField[string] `json:"description"`
	Location        PatchField[string] `json:"location"`
	Date            PatchField[string] `json:"date"`
	StartTime       PatchField[string] `json:"start_time"`
	EndTime         PatchField[string] `json:"end_time"`
	ImageURL        PatchField[string] `json:"image_url"`
	MaxParticipants PatchField[int]    `json:"max_participants"`
}

func (p *PatchEventRequest) Normalize() {
	for _, f := range []*PatchField[string]{&p.Title, &p.Location, &p.Date} {
		if f.Present && f.Value != nil {
			v := strings.TrimSpace(*f.Value)
			f.Value = &v
		}
	}
	for _, f := range []*PatchField[string]{&p.Description, &p.StartTime, &p.EndTime, &p.ImageURL} {
		if f.Present {
			f.Value = trimPtr(f.Value)
		}
	}
}

// ValidatePartial checks only the fields that were sent. Required columns
// cannot be cleared with null.
func (p *PatchEventRequest) ValidatePartial(v *validator.Validate) error {
	fields := map[string][]string{}
	req := func(name string, f PatchField[string]) {
		if f.Present && (f.Value == nil || *f.Value == "") {
			fields[name] = append(fields[name], "required")
		}
	}
	req("title", p.Title)
	req("location", p.Location)
	req("date", p.Date)

	if p.Title.Value != nil && len(*p.Title.Value) > 160 {
		fields["title"] = append(fields["title"], "max=160")
	}
	if p.Location.Value != nil && len(*p.Location.Value) > 200 {
		fields["location"] = append(fields["location"], "max=200")
	}
	if p.Date.Value != nil && *p.Date.Value != "" {
		if _, ok := dbtime.ParseDate(*p.Date.Value); !ok {
			fields["date"] = append(fields["date"], "datetime=2006-01-02")
		}
	}
	if p.StartTime.Value != nil && !dbtime.ValidHHMM(*p.StartTime.Value) {
		fields["start_time"] = append(fields["start_time"], "HH:MM")
	}
	if p.EndTime.Value != nil && !dbtime.ValidHHMM(*p.EndTime.Value) {
		fields["end_time"] = append(fields["end_time"], "HH:MM")
	}
	if p.ImageURL.Value != nil {
		if err := v.Var(*p.ImageURL.Value, "url,max=2000"); err != nil {
			fields["image_url"] = append(fields["image_url"], "url")
		}
	}
	if p.MaxParticipants.Present {
		if p.MaxParticipants.Value == nil {
			fields["max_participants"] = append(fields["max_participants"], "required")
		} else if *p.MaxParticipants.Value < 1 {
			fields["max_participants"] = append(fields["max_participants"], "min=1")
		}
	}
	if len(fields) > 0 {
		return apperr.ValidationFields(fields)
	}
	return nil
}

// ApplyPatch changes m in place for every Present field. Call ValidatePartial first.
func (p *PatchEventRequest) ApplyPatch(m *model.EventModel) {
	if v, ok := p.Title.Get(); ok && v != nil {
		m.EventTitle = *v
	}
	if v, ok := p.Description.Get(); ok {
		m.EventDescription = v
	}
	if v, ok := p.Location.Get(); ok && v != nil {
		m.EventLocation = *v
	}
	if v, ok := p.Date.Get(); ok && v != nil {
		if day, ok := dbtime.ParseDate(*v); ok {
			m.EventDate = datatypes.Date(day)
		}
	}
	if v, ok := p.StartTime.Get(); ok {
		m.EventStartTime, _ = todPtr(v)
	}
	if v, ok := p.EndTime.Get(); ok {
		m.EventEndTime, _ = todPtr(v)
	}
	if v, ok := p.ImageURL.Get(); ok {
		m.EventImageURL = v
	}
	if v, ok := p.MaxParticipants.Get(); ok && v != nil {
		m.EventMaxParticipants = *v
	}
}

type ArchiveRequest struct {
	Archived *bool `json:"archived" validate:"required"`
}

/* =========================================================
   Response
   ========================================================= */

type EventResponse struct {
	ID                  uuid.UUID `json:"id"`
	Title               string    `json:"title"`
	Description         *string   `json:"description,omitempty"`
	Location            string    `json:"location"`
	Date                string    `json:"date"`
	StartTime           *string   `json:"start_time,omitempty"`
	EndTime             *string   `json:"end_time,omitempty"`
	ImageURL            *string   `json:"image_url,omitempty"`
	MaxParticipants     int       `json:"max_participants"`
	CurrentParticipants int       `json:"current_participants"`
	SpotsLeft           int       `json:"spots_left"`
	FillRatio           float64   `json:"fill_ratio"`
	IsFull              bool      `json:"is_full"`
	IsPast              bool      `json:"is_past"`
	IsArchived          bool      `json:"is_archived"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

func FromModel(m *model.EventModel, today time.Time) EventResponse {
	out := EventResponse{
		ID:                  m.EventID,
		Title:               m.EventTitle,
		Description:         m.EventDescription,
		Location:            m.EventLocation,
		Date:                m.Day().Format(dbtime.DateLayout),
		ImageURL:            m.EventImageURL,
		MaxParticipants:     m.EventMaxParticipants,
		CurrentParticipants: m.EventCurrentParticipants,
		FillRatio:           m.FillRatio(),
		IsFull:              m.IsFull(),
		IsPast:              m.IsPast(today),
		IsArchived:          m.EventIsArchived,
		CreatedAt:           m.EventCreatedAt,
		UpdatedAt:           m.EventUpdatedAt,
	}
	if left := m.EventMaxParticipants - m.EventCurrentParticipants; left > 0 {
		out.SpotsLeft = left
	}
	if m.EventStartTime != nil {
		s := m.EventStartTime.String()
		out.StartTime = &s
	}
	if m.EventEndTime != nil {
		s := m.EventEndTime.String()
		out.EndTime = &s
	}
	return out
}

func FromModels(rows []model.EventModel, today time.Time) []EventResponse {
	out := make([]EventResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i], today))
	}
	return out
}
