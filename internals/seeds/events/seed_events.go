package events

import (
	"context"
	"encoding/json"
	"os"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"volunteerhub_backend/internals/features/events/events/model"
	"volunteerhub_backend/internals/features/events/events/repository"
	"volunteerhub_backend/internals/helpers/dbtime"
)

// EventSeed is one demo event. Dates are relative so the data stays upcoming.
type EventSeed struct {
	Title           string  `json:"title"`
	Description     *string `json:"description"`
	Location        string  `json:"location"`
	DaysFromToday   int     `json:"days_from_today"`
	StartTime       *string `json:"start_time"`
	EndTime         *string `json:"end_time"`
	MaxParticipants int     `json:"max_participants"`
}

// SeedEventsFromJSON creates the events listed in filePath. An event with the
// same title on the same day is skipped, so re-running is harmless.
func SeedEventsFromJSON(ctx context.Context, db *gorm.DB, repo *repository.EventRepository, filePath string) (int, error) {
	log.WithField("file", filePath).Info("[SEED] reading events")

	raw, err := os.ReadFile(filePath)
	if err != nil {
		return 0, errors.Wrap(err, "read seed file")
	}
	var inputs []EventSeed
	if err := json.Unmarshal(raw, &inputs); err != nil {
		return 0, errors.Wrap(err, "decode seed file")
	}

	today := repo.Today()
	created := 0
	for _, in := range inputs {
		day := today.AddDate(0, 0, in.DaysFromToday)

		var n int64
		if err := db.WithContext(ctx).Model(&model.EventModel{}).
			Where("event_title = ? AND event_date = ?", in.Title, datatypes.Date(day)).
			Count(&n).Error; err != nil {
			return created, errors.Wrap(err, "check existing event")
		}
		if n > 0 {
			log.WithField("title", in.Title).Debug("[SEED] event exists, skipped")
			continue
		}

		ev := &model.EventModel{
			EventTitle:           in.Title,
			EventDescription:     in.Description,
			EventLocation:        in.Location,
			EventDate:            datatypes.Date(day),
			EventMaxParticipants: in.MaxParticipants,
		}
		if ev.EventStartTime, err = parseTod(in.StartTime); err != nil {
			return created, errors.Wrapf(err, "seed %q start_time", in.Title)
		}
		if ev.EventEndTime, err = parseTod(in.EndTime); err != nil {
			return created, errors.Wrapf(err, "seed %q end_time", in.Title)
		}
		if err := repo.Create(ctx, ev); err != nil {
			return created, errors.Wrapf(err, "seed %q", in.Title)
		}
		created++
	}

	log.WithFields(log.Fields{"created": created, "total": len(inputs)}).Info("[SEED] events done")
	return created, nil
}

func parseTod(s *string) (*dbtime.Tod, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := dbtime.Parse(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
