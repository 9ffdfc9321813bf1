package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"volunteerhub_backend/internals/features/events/events/model"
	"volunteerhub_backend/internals/helpers/apperr"
	"volunteerhub_backend/internals/helpers/dbtime"
)

const (
	colCurrent = "event_current_participants"
	colMax     = "event_max_participants"
)

var ErrEventNotFound = apperr.NotFound("event not found")

// EventRepository is CRUD over events. It never writes the present-count after
// Create; the registration ledger owns that column.
type EventRepository struct {
	db  *gorm.DB
	loc *time.Location
	now func() time.Time
}

func NewEventRepository(db *gorm.DB, loc *time.Location) *EventRepository {
	if loc == nil {
		loc = time.UTC
	}
	return &EventRepository{db: db, loc: loc, now: time.Now}
}

// WithClock replaces the time source; used by tests.
func (r *EventRepository) WithClock(now func() time.Time) *EventRepository {
	cp := *r
	cp.now = now
	return &cp
}

func (r *EventRepository) Today() time.Time { return dbtime.Today(r.now(), r.loc) }

/* ===================== Locking ===================== */

// LockForUpdate loads the event row with SELECT ... FOR UPDATE inside tx.
// Every mutation touching the present-count takes this lock first.
func LockForUpdate(tx *gorm.DB, id uuid.UUID) (*model.EventModel, error) {
	var ev model.EventModel
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("event_id = ?", id).
		First(&ev).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, apperr.Storage(err, "lock event")
	}
	return &ev, nil
}

/* ===================== Validation ===================== */

func validateEvent(m *model.EventModel) error {
	fields := map[string][]string{}
	if strings.TrimSpace(m.EventTitle) == "" {
		fields["title"] = append(fields["title"], "required")
	}
	if strings.TrimSpace(m.EventLocation) == "" {
		fields["location"] = append(fields["location"], "required")
	}
	if time.Time(m.EventDate).IsZero() {
		fields["date"] = append(fields["date"], "required")
	}
	if m.EventMaxParticipants < 1 {
		fields["max_participants"] = append(fields["max_participants"], "min=1")
	}
	if m.EventStartTime != nil && m.EventEndTime != nil && m.EventEndTime.Before(m.EventStartTime.Time) {
		fields["end_time"] = append(fields["end_time"], "gtefield=start_time")
	}
	if len(fields) > 0 {
		return apperr.ValidationFields(fields)
	}
	return nil
}

/* ===================== CRUD ===================== */

func (r *EventRepository) Create(ctx context.Context, m *model.EventModel) error {
	m.EventCurrentParticipants = 0
	m.EventIsArchived = false
	if err := validateEvent(m); err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return apperr.Storage(err, "create event")
	}
	log.WithFields(log.Fields{"event_id": m.EventID, "max": m.EventMaxParticipants}).Info("event created")
	return nil
}

func (r *EventRepository) Get(ctx context.Context, id uuid.UUID) (*model.EventModel, error) {
	var ev model.EventModel
	err := r.db.WithContext(ctx).Where("event_id = ?", id).First(&ev).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, apperr.Storage(err, "get event")
	}
	return &ev, nil
}

// Update applies a partial change under the event row lock. Lowering the
// capacity below the current present-count is rejected and nothing is written.
func (r *EventRepository) Update(ctx context.Context, id uuid.UUID, apply func(*model.EventModel)) (*model.EventModel, error) {
	var out *model.EventModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ev, err := LockForUpdate(tx, id)
		if err != nil {
			return err
		}
		present := ev.EventCurrentParticipants
		next := *ev
		apply(&next)
		// present-count and archive flag are not editable here
		next.EventCurrentParticipants = present
		next.EventIsArchived = ev.EventIsArchived

		if err := validateEvent(&next); err != nil {
			return err
		}
		if next.EventMaxParticipants < present {
			return apperr.ValidationFields(map[string][]string{
				"max_participants": {fmt.Sprintf("cannot be lower than the current present count (%d)", present)},
			})
		}

		err = tx.Model(&model.EventModel{}).
			Where("event_id = ?", id).
			Updates(map[string]any{
				"event_title":       next.EventTitle,
				"event_description": next.EventDescription,
				"event_location":    next.EventLocation,
				"event_date":        next.EventDate,
				"event_start_time":  next.EventStartTime,
				"event_end_time":    next.EventEndTime,
				"event_image_url":   next.EventImageURL,
				colMax:              next.EventMaxParticipants,
			}).Error
		if err != nil {
			return apperr.Storage(err, "update event")
		}
		out, err = reload(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SetArchived toggles visibility only; registrations are untouched.
func (r *EventRepository) SetArchived(ctx context.Context, id uuid.UUID, archived bool) (*model.EventModel, error) {
	var out *model.EventModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := LockForUpdate(tx, id); err != nil {
			return err
		}
		if err := tx.Model(&model.EventModel{}).
			Where("event_id = ?", id).
			Update("event_is_archived", archived).Error; err != nil {
			return apperr.Storage(err, "archive event")
		}
		var err error
		out, err = reload(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{"event_id": id, "archived": archived}).Info("event archive flag set")
	return out, nil
}

// Delete removes the event together with its registrations and their comments.
func (r *EventRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := LockForUpdate(tx, id); err != nil {
			return err
		}
		regIDs := tx.Table("registrations").
			Select("registration_id").
			Where("registration_event_id = ?", id)
		if err := tx.Exec("DELETE FROM registration_comments WHERE registration_comment_registration_id IN (?)", regIDs).Error; err != nil {
			return apperr.Storage(err, "delete event comments")
		}
		if err := tx.Exec("DELETE FROM registrations WHERE registration_event_id = ?", id).Error; err != nil {
			return apperr.Storage(err, "delete event registrations")
		}
		if err := tx.Where("event_id = ?", id).Delete(&model.EventModel{}).Error; err != nil {
			return apperr.Storage(err, "delete event")
		}
		return nil
	})
	if err != nil {
		return err
	}
	log.WithField("event_id", id).Info("event deleted")
	return nil
}

func reload(tx *gorm.DB, id uuid.UUID) (*model.EventModel, error) {
	var ev model.EventModel
	if err := tx.Where("event_id = ?", id).First(&ev).Error; err != nil {
		return nil, apperr.Storage(err, "reload event")
	}
	return &ev, nil
}
