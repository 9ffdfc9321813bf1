package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"volunteerhub_backend/internals/helpers/dbtime"
)

type EventModel struct {
	EventID          uuid.UUID      `gorm:"type:uuid;primaryKey;column:event_id" json:"event_id"`
	EventTitle       string         `gorm:"type:varchar(160);not null;column:event_title" json:"event_title"`
	EventDescription *string        `gorm:"type:text;column:event_description" json:"event_description,omitempty"`
	EventLocation    string         `gorm:"type:varchar(200);not null;column:event_location" json:"event_location"`
	EventDate        datatypes.Date `gorm:"not null;column:event_date;index:ix_events_date" json:"event_date"`
	EventStartTime   *dbtime.Tod    `gorm:"type:time;column:event_start_time" json:"event_start_time,omitempty"`
	EventEndTime     *dbtime.Tod    `gorm:"type:time;column:event_end_time" json:"event_end_time,omitempty"`
	EventImageURL    *string        `gorm:"type:text;column:event_image_url" json:"event_image_url,omitempty"`

	// Capacity. CurrentParticipants is the present-count and is only written by the
	// registration ledger after creation.
	EventMaxParticipants     int `gorm:"not null;column:event_max_participants;check:ck_events_max_min,event_max_participants >= 1" json:"event_max_participants"`
	EventCurrentParticipants int `gorm:"not null;default:0;column:event_current_participants;check:ck_events_present_count,event_current_participants >= 0 AND event_current_participants <= event_max_participants" json:"event_current_participants"`

	EventIsArchived bool `gorm:"not null;default:false;column:event_is_archived" json:"event_is_archived"`

	EventCreatedAt time.Time `gorm:"column:event_created_at;autoCreateTime" json:"event_created_at"`
	EventUpdatedAt time.Time `gorm:"column:event_updated_at;autoUpdateTime" json:"event_updated_at"`
}

func (EventModel) TableName() string { return "events" }

func (m *EventModel) BeforeCreate(*gorm.DB) error {
	if m.EventID == uuid.Nil {
		m.EventID = uuid.New()
	}
	return nil
}

// Day returns the event date as UTC midnight.
func (m *EventModel) Day() time.Time {
	y, mo, d := time.Time(m.EventDate).Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
}

// IsFull uses the non-strict rule: present >= max.
func (m *EventModel) IsFull() bool {
	return m.EventCurrentParticipants >= m.EventMaxParticipants
}

func (m *EventModel) IsPast(today time.Time) bool {
	return m.Day().Before(today)
}

// FillRatio is present/max in [0,1].
func (m *EventModel) FillRatio() float64 {
	if m.EventMaxParticipants <= 0 {
		return 0
	}
	return float64(m.EventCurrentParticipants) / float64(m.EventMaxParticipants)
}
