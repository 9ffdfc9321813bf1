package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"volunteerhub_backend/internals/constants"
	eventModel "volunteerhub_backend/internals/features/events/events/model"
	eventRepo "volunteerhub_backend/internals/features/events/events/repository"
	"volunteerhub_backend/internals/features/events/registrations/model"
	"volunteerhub_backend/internals/helpers/apperr"
)

// Drift is one event whose stored present-count disagreed with a live count.
type Drift struct {
	EventID uuid.UUID `json:"event_id"`
	Stored  int       `json:"stored"`
	Live    int64     `json:"live"`
	Fixed   bool      `json:"fixed"`
}

// Reconcile recounts present registrations per event and repairs the stored
// counter where it drifted. Each event is fixed in its own transaction under
// the event lock. A live count above capacity is reported but left alone.
func (l *Ledger) Reconcile(ctx context.Context) ([]Drift, error) {
	var ids []uuid.UUID
	if err := l.db.WithContext(ctx).Model(&eventModel.EventModel{}).Pluck("event_id", &ids).Error; err != nil {
		return nil, apperr.Storage(err, "list event ids")
	}

	var drifts []Drift
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return drifts, err
		}
		d, err := l.reconcileEvent(ctx, id)
		if err != nil {
			if errors.Is(err, eventRepo.ErrEventNotFound) {
				continue // deleted meanwhile
			}
			return drifts, err
		}
		if d != nil {
			drifts = append(drifts, *d)
		}
	}
	return drifts, nil
}

func (l *Ledger) reconcileEvent(ctx context.Context, id uuid.UUID) (*Drift, error) {
	var out *Drift
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ev, err := eventRepo.LockForUpdate(tx, id)
		if err != nil {
			return err
		}
		var live int64
		if err := tx.Model(&model.RegistrationModel{}).
			Where("registration_event_id = ? AND registration_status = ?", id, constants.StatusPresent).
			Count(&live).Error; err != nil {
			return apperr.Storage(err, "count present")
		}
		if live == int64(ev.EventCurrentParticipants) {
			return nil
		}

		out = &Drift{EventID: id, Stored: ev.EventCurrentParticipants, Live: live}
		entry := log.WithFields(log.Fields{"event_id": id, "stored": ev.EventCurrentParticipants, "live": live})
		if live > int64(ev.EventMaxParticipants) {
			entry.Error("present registrations exceed capacity, manual review needed")
			return nil
		}
		if err := tx.Model(&eventModel.EventModel{}).
			Where("event_id = ?", id).
			Update("event_current_participants", live).Error; err != nil {
			return apperr.Storage(err, "repair present count")
		}
		out.Fixed = true
		entry.Warn("present count repaired")
		return nil
	})
	return out, err
}
