package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrganizerModel struct {
	OrganizerID           uuid.UUID `gorm:"type:uuid;primaryKey;column:organizer_id" json:"organizer_id"`
	OrganizerEmail        string    `gorm:"type:varchar(160);not null;uniqueIndex:uq_organizers_email;column:organizer_email" json:"organizer_email"`
	OrganizerName         string    `gorm:"type:varchar(120);not null;column:organizer_name" json:"organizer_name"`
	OrganizerPasswordHash string    `gorm:"type:varchar(120);not null;column:organizer_password_hash" json:"-"`
	OrganizerCreatedAt    time.Time `gorm:"column:organizer_created_at;autoCreateTime" json:"organizer_created_at"`
	OrganizerUpdatedAt    time.Time `gorm:"column:organizer_updated_at;autoUpdateTime" json:"organizer_updated_at"`
}

func (OrganizerModel) TableName() string { return "organizers" }

func (m *OrganizerModel) BeforeCreate(*gorm.DB) error {
	if m.OrganizerID == uuid.Nil {
		m.OrganizerID = uuid.New()
	}
	return nil
}
