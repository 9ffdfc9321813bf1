package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"volunteerhub_backend/internals/constants"
)

type RegistrationModel struct {
	RegistrationID      uuid.UUID `gorm:"type:uuid;primaryKey;column:registration_id" json:"registration_id"`
	RegistrationEventID uuid.UUID `gorm:"type:uuid;not null;column:registration_event_id;uniqueIndex:uq_registrations_event_holder,priority:1;index:ix_registrations_event_status,priority:1" json:"registration_event_id"`
	RegistrationToken   string    `gorm:"type:varchar(32);not null;column:registration_token;uniqueIndex:uq_registrations_token" json:"-"`

	RegistrationFirstName string  `gorm:"type:varchar(80);not null;column:registration_first_name" json:"registration_first_name"`
	RegistrationLastName  string  `gorm:"type:varchar(80);not null;column:registration_last_name" json:"registration_last_name"`
	RegistrationEmail     *string `gorm:"type:varchar(160);column:registration_email" json:"registration_email,omitempty"`
	RegistrationPhone     *string `gorm:"type:varchar(32);column:registration_phone" json:"registration_phone,omitempty"`
	// HolderKey identifies the person across events: lowercased email, else phone digits.
	RegistrationHolderKey string `gorm:"type:varchar(160);not null;column:registration_holder_key;uniqueIndex:uq_registrations_event_holder,priority:2" json:"-"`

	RegistrationStatus    string    `gorm:"type:varchar(16);not null;column:registration_status;index:ix_registrations_event_status,priority:2" json:"registration_status"`
	RegistrationDate      time.Time `gorm:"column:registration_date;autoCreateTime" json:"registration_date"`
	RegistrationUpdatedAt time.Time `gorm:"column:registration_updated_at;autoUpdateTime" json:"registration_updated_at"`

	Comments []RegistrationCommentModel `gorm:"foreignKey:RegistrationCommentRegistrationID;references:RegistrationID;constraint:OnDelete:CASCADE" json:"comments,omitempty"`
}

func (RegistrationModel) TableName() string { return "registrations" }

func (m *RegistrationModel) BeforeCreate(*gorm.DB) error {
	if m.RegistrationID == uuid.Nil {
		m.RegistrationID = uuid.New()
	}
	return nil
}

func (m *RegistrationModel) IsPresent() bool {
	return m.RegistrationStatus == constants.StatusPresent
}

type RegistrationCommentModel struct {
	RegistrationCommentID             uuid.UUID  `gorm:"type:uuid;primaryKey;column:registration_comment_id" json:"registration_comment_id"`
	RegistrationCommentRegistrationID uuid.UUID  `gorm:"type:uuid;not null;column:registration_comment_registration_id;index:ix_registration_comments_registration" json:"registration_comment_registration_id"`
	RegistrationCommentAuthorID       *uuid.UUID `gorm:"type:uuid;column:registration_comment_author_id" json:"registration_comment_author_id,omitempty"`
	RegistrationCommentContent        string     `gorm:"type:text;not null;column:registration_comment_content" json:"registration_comment_content"`
	RegistrationCommentCreatedAt      time.Time  `gorm:"column:registration_comment_created_at;autoCreateTime" json:"registration_comment_created_at"`
}

func (RegistrationCommentModel) TableName() string { return "registration_comments" }

func (m *RegistrationCommentModel) BeforeCreate(*gorm.DB) error {
	if m.RegistrationCommentID == uuid.Nil {
		m.RegistrationCommentID = uuid.New()
	}
	return nil
}
