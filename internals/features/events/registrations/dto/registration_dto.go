package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"volunteerhub_backend/internals/features/events/registrations/model"
)

/* =========================================================
   Holder info
   ========================================================= */

// HolderInfo identifies the person behind a registration. At least one of
// email or phone is required; phone is ten digits once separators are removed.
type HolderInfo struct {
	FirstName string  `json:"first_name" validate:"required,max=80"`
	LastName  string  `json:"last_name" validate:"required,max=80"`
	Email     *string `json:"email" validate:"required_without=Phone,omitempty,email,max=160"`
	Phone     *string `json:"phone" validate:"required_without=Email,omitempty,numeric,len=10"`
}

func (h *HolderInfo) Normalize() {
	h.FirstName = strings.TrimSpace(h.FirstName)
	h.LastName = strings.TrimSpace(h.LastName)
	if h.Email != nil {
		v := strings.ToLower(strings.TrimSpace(*h.Email))
		h.Email = nilIfEmpty(v)
	}
	if h.Phone != nil {
		h.Phone = nilIfEmpty(digitsOnly(*h.Phone))
	}
}

// HolderKey is the canonical identity used for duplicate detection and the
// volunteer history: lowercased email, else phone digits.
func (h HolderInfo) HolderKey() string {
	if h.Email != nil && *h.Email != "" {
		return strings.ToLower(*h.Email)
	}
	if h.Phone != nil {
		return digitsOnly(*h.Phone)
	}
	return ""
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

/* =========================================================
   Requests
   ========================================================= */

type RegisterRequest struct {
	HolderInfo
	Status string `json:"status" validate:"required,oneof=present absent undecided"`
}

func (r *RegisterRequest) Normalize() {
	r.HolderInfo.Normalize()
	r.Status = strings.ToLower(strings.TrimSpace(r.Status))
}

// TokenRequest carries the bearer token in the body so it never lands in URLs or access logs.
type TokenRequest struct {
	Token string `json:"token" validate:"required"`
}

type ChangeStatusRequest struct {
	Token  string `json:"token" validate:"required"`
	Status string `json:"status" validate:"required,oneof=present absent undecided"`
}

type OverrideStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=present absent undecided"`
}

type AddCommentRequest struct {
	Content string `json:"content" validate:"required,max=2000"`
}

/* =========================================================
   Responses
   ========================================================= */

type CommentResponse struct {
	ID        uuid.UUID  `json:"id"`
	AuthorID  *uuid.UUID `json:"author_id,omitempty"`
	Content   string     `json:"content"`
	CreatedAt time.Time  `json:"created_at"`
}

// RegistrationResponse never carries the token; it is returned once by RegisteredResponse.
type RegistrationResponse struct {
	ID               uuid.UUID         `json:"id"`
	EventID          uuid.UUID         `json:"event_id"`
	FirstName        string            `json:"first_name"`
	LastName         string            `json:"last_name"`
	Email            *string           `json:"email,omitempty"`
	Phone            *string           `json:"phone,omitempty"`
	Status           string            `json:"status"`
	RegistrationDate time.Time         `json:"registration_date"`
	UpdatedAt        time.Time         `json:"updated_at"`
	Comments         []CommentResponse `json:"comments"`
}

// OrganizerRegistrationResponse adds the token for organizer roster views, where
// it is the handle for delete, override and comment.
type OrganizerRegistrationResponse struct {
	RegistrationResponse
	Token string `json:"token"`
}

// PublicRegistrationResponse is what a token holder sees: their own details and
// status. Organizer comments are never part of it.
type PublicRegistrationResponse struct {
	ID               uuid.UUID `json:"id"`
	EventID          uuid.UUID `json:"event_id"`
	FirstName        string    `json:"first_name"`
	LastName         string    `json:"last_name"`
	Email            *string   `json:"email,omitempty"`
	Phone            *string   `json:"phone,omitempty"`
	Status           string    `json:"status"`
	RegistrationDate time.Time `json:"registration_date"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type RegisteredResponse struct {
	Token        string                     `json:"token"`
	Registration PublicRegistrationResponse `json:"registration"`
}

type StatsResponse struct {
	EventID         uuid.UUID `json:"event_id"`
	Total           int64     `json:"total"`
	Present         int64     `json:"present"`
	Absent          int64     `json:"absent"`
	Undecided       int64     `json:"undecided"`
	MaxParticipants int       `json:"max_participants"`
	StoredPresent   int       `json:"stored_present"`
}

func FromModel(m *model.RegistrationModel) RegistrationResponse {
	out := RegistrationResponse{
		ID:               m.RegistrationID,
		EventID:          m.RegistrationEventID,
		FirstName:        m.RegistrationFirstName,
		LastName:         m.RegistrationLastName,
		Email:            m.RegistrationEmail,
		Phone:            m.RegistrationPhone,
		Status:           m.RegistrationStatus,
		RegistrationDate: m.RegistrationDate,
		UpdatedAt:        m.RegistrationUpdatedAt,
		Comments:         make([]CommentResponse, 0, len(m.Comments)),
	}
	for _, c := range m.Comments {
		out.Comments = append(out.Comments, CommentResponse{
			ID:        c.RegistrationCommentID,
			AuthorID:  c.RegistrationCommentAuthorID,
			Content:   c.RegistrationCommentContent,
			CreatedAt: c.RegistrationCommentCreatedAt,
		})
	}
	return out
}

func FromModelPublic(m *model.RegistrationModel) PublicRegistrationResponse {
	return PublicRegistrationResponse{
		ID:               m.RegistrationID,
		EventID:          m.RegistrationEventID,
		FirstName:        m.RegistrationFirstName,
		LastName:         m.RegistrationLastName,
		Email:            m.RegistrationEmail,
		Phone:            m.RegistrationPhone,
		Status:           m.RegistrationStatus,
		RegistrationDate: m.RegistrationDate,
		UpdatedAt:        m.RegistrationUpdatedAt,
	}
}

func FromModelsForOrganizer(rows []model.RegistrationModel) []OrganizerRegistrationResponse {
	out := make([]OrganizerRegistrationResponse, 0, len(rows))
	for i := range rows {
		out = append(out, OrganizerRegistrationResponse{
			RegistrationResponse: FromModel(&rows[i]),
			Token:                rows[i].RegistrationToken,
		})
	}
	return out
}
