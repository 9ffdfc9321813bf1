package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"volunteerhub_backend/internals/constants"
	eventModel "volunteerhub_backend/internals/features/events/events/model"
	eventRepo "volunteerhub_backend/internals/features/events/events/repository"
	"volunteerhub_backend/internals/features/events/registrations/dto"
	"volunteerhub_backend/internals/features/events/registrations/model"
	"volunteerhub_backend/internals/features/events/registrations/token"
	"volunteerhub_backend/internals/helpers/apperr"
	helperAuth "volunteerhub_backend/internals/helpers/auth"
	"volunteerhub_backend/internals/helpers/dbtime"
)

var (
	// One message for unknown and malformed tokens alike.
	ErrRegistrationNotFound = apperr.NotFound("registration not found")
	ErrEventClosed          = apperr.Validation("event is closed for registration")
	ErrAlreadyRegistered    = apperr.Conflict("this person is already registered for the event")
)

// Ledger owns registrations and keeps each event's present-count equal to the
// number of its registrations in status present.
//
// Every mutation is one transaction that locks the event row first, then the
// registration row. The counter only moves through a guarded UPDATE, so two
// concurrent registrants can never both take the last seat.
type Ledger struct {
	db       *gorm.DB
	loc      *time.Location
	now      func() time.Time
	newToken func() (string, error)
}

func NewLedger(db *gorm.DB, loc *time.Location) *Ledger {
	if loc == nil {
		loc = time.UTC
	}
	return &Ledger{db: db, loc: loc, now: time.Now, newToken: token.New}
}

// WithClock replaces the time source; used by tests.
func (l *Ledger) WithClock(now func() time.Time) *Ledger {
	cp := *l
	cp.now = now
	return &cp
}

// WithTokenSource replaces the token generator; used by tests.
func (l *Ledger) WithTokenSource(fn func() (string, error)) *Ledger {
	cp := *l
	cp.newToken = fn
	return &cp
}

/* ===================== Counter primitives ===================== */

// takeSeat increments the present-count only while it is below capacity.
func takeSeat(tx *gorm.DB, eventID uuid.UUID) error {
	res := tx.Model(&eventModel.EventModel{}).
		Where("event_id = ? AND event_current_participants < event_max_participants", eventID).
		Update("event_current_participants", gorm.Expr("event_current_participants + 1"))
	if res.Error != nil {
		return apperr.Storage(res.Error, "increment present count")
	}
	if res.RowsAffected == 0 {
		return apperr.ErrCapacity
	}
	return nil
}

// releaseSeat decrements the present-count, clamped at zero.
func releaseSeat(tx *gorm.DB, eventID uuid.UUID) error {
	err := tx.Model(&eventModel.EventModel{}).
		Where("event_id = ?", eventID).
		Update("event_current_participants",
			gorm.Expr("CASE WHEN event_current_participants > 0 THEN event_current_participants - 1 ELSE 0 END")).
		Error
	return apperr.Storage(err, "decrement present count")
}

func lockRegistration(tx *gorm.DB, id uuid.UUID) (*model.RegistrationModel, error) {
	var reg model.RegistrationModel
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("registration_id = ?", id).
		First(&reg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRegistrationNotFound
	}
	if err != nil {
		return nil, apperr.Storage(err, "lock registration")
	}
	return &reg, nil
}

func findByToken(tx *gorm.DB, tok string) (*model.RegistrationModel, error) {
	tok = token.Normalize(tok)
	if !token.Valid(tok) {
		return nil, ErrRegistrationNotFound
	}
	var reg model.RegistrationModel
	err := tx.Where("registration_token = ?", tok).First(&reg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRegistrationNotFound
	}
	if err != nil {
		return nil, apperr.Storage(err, "find registration")
	}
	return &reg, nil
}

// tokenAttempts bounds how often a colliding token is redrawn.
const tokenAttempts = 2

// unusedToken draws a token no stored registration carries yet.
func (l *Ledger) unusedToken(tx *gorm.DB) (string, error) {
	for i := 0; i < tokenAttempts; i++ {
		tok, err := l.newToken()
		if err != nil {
			return "", err
		}
		var n int64
		if err := tx.Model(&model.RegistrationModel{}).
			Where("registration_token = ?", tok).
			Count(&n).Error; err != nil {
			return "", apperr.Storage(err, "check token")
		}
		if n == 0 {
			return tok, nil
		}
		log.WithField("attempt", i+1).Warn("registration token collision, drawing again")
	}
	return "", errors.New("registration token collided on every attempt")
}

func withComments(tx *gorm.DB) *gorm.DB {
	return tx.Preload("Comments", func(db *gorm.DB) *gorm.DB {
		return db.Order("registration_comment_created_at ASC")
	})
}

func (l *Ledger) reload(tx *gorm.DB, id uuid.UUID) (*model.RegistrationModel, error) {
	var reg model.RegistrationModel
	if err := withComments(tx).Where("registration_id = ?", id).First(&reg).Error; err != nil {
		return nil, apperr.Storage(err, "reload registration")
	}
	return &reg, nil
}

/* ===================== Operations ===================== */

// Register appends a registration and returns its token. A present registration
// takes a seat in the same transaction; when the event is full nothing is written.
func (l *Ledger) Register(ctx context.Context, eventID uuid.UUID, holder dto.HolderInfo, status string) (string, *model.RegistrationModel, error) {
	holder.Normalize()
	if !constants.IsRegistrationStatus(status) {
		return "", nil, apperr.ValidationFields(map[string][]string{"status": {"oneof=present absent undecided"}})
	}
	if holder.FirstName == "" || holder.LastName == "" || holder.HolderKey() == "" {
		return "", nil, apperr.ValidationFields(map[string][]string{"holder": {"first_name, last_name and email or phone are required"}})
	}

	var (
		tok string
		out *model.RegistrationModel
	)
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ev, err := eventRepo.LockForUpdate(tx, eventID)
		if err != nil {
			return err
		}
		if ev.EventIsArchived || ev.IsPast(dbtime.Today(l.now(), l.loc)) {
			return ErrEventClosed
		}

		var dup int64
		if err := tx.Model(&model.RegistrationModel{}).
			Where("registration_event_id = ? AND registration_holder_key = ?", eventID, holder.HolderKey()).
			Count(&dup).Error; err != nil {
			return apperr.Storage(err, "check duplicate registration")
		}
		if dup > 0 {
			return ErrAlreadyRegistered
		}

		if tok, err = l.unusedToken(tx); err != nil {
			return err
		}

		if status == constants.StatusPresent {
			if err := takeSeat(tx, eventID); err != nil {
				return err
			}
		}

		reg := &model.RegistrationModel{
			RegistrationEventID:   eventID,
			RegistrationToken:     tok,
			RegistrationFirstName: holder.FirstName,
			RegistrationLastName:  holder.LastName,
			RegistrationEmail:     holder.Email,
			RegistrationPhone:     holder.Phone,
			RegistrationHolderKey: holder.HolderKey(),
			RegistrationStatus:    status,
		}
		if err := tx.Create(reg).Error; err != nil {
			// the token was checked free above, so the holder index is what fired
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyRegistered
			}
			return apperr.Storage(err, "create registration")
		}
		out = reg
		return nil
	})
	if err != nil {
		logRejected("register", eventID, status, err)
		return "", nil, err
	}
	out.Comments = []model.RegistrationCommentModel{}
	log.WithFields(log.Fields{"event_id": eventID, "status": status}).Info("registration created")
	return tok, out, nil
}

// ChangeStatus is the self-service path: the token is the only credential.
// Setting the current status again succeeds without touching the counter.
func (l *Ledger) ChangeStatus(ctx context.Context, tok, status string) (*model.RegistrationModel, error) {
	return l.changeStatus(ctx, tok, status)
}

// OverrideStatus lets an organizer set any registration's status, under the same capacity rule.
func (l *Ledger) OverrideStatus(ctx context.Context, actor helperAuth.Actor, tok, status string) (*model.RegistrationModel, error) {
	if err := helperAuth.RequireOrganizer(actor); err != nil {
		return nil, err
	}
	return l.changeStatus(ctx, tok, status)
}

func (l *Ledger) changeStatus(ctx context.Context, tok, status string) (*model.RegistrationModel, error) {
	if !constants.IsRegistrationStatus(status) {
		return nil, apperr.ValidationFields(map[string][]string{"status": {"oneof=present absent undecided"}})
	}

	var out *model.RegistrationModel
	var from string
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := findByToken(tx, tok)
		if err != nil {
			return err
		}
		// event first, then the registration row, re-read under lock
		if _, err := eventRepo.LockForUpdate(tx, found.RegistrationEventID); err != nil {
			return err
		}
		reg, err := lockRegistration(tx, found.RegistrationID)
		if err != nil {
			return err
		}
		from = reg.RegistrationStatus

		if from != status {
			switch {
			case status == constants.StatusPresent:
				if err := takeSeat(tx, reg.RegistrationEventID); err != nil {
					return err
				}
			case from == constants.StatusPresent:
				if err := releaseSeat(tx, reg.RegistrationEventID); err != nil {
					return err
				}
			}
			if err := tx.Model(&model.RegistrationModel{}).
				Where("registration_id = ?", reg.RegistrationID).
				Update("registration_status", status).Error; err != nil {
				return apperr.Storage(err, "update registration status")
			}
		}

		out, err = l.reload(tx, reg.RegistrationID)
		return err
	})
	if err != nil {
		logRejected("change_status", uuid.Nil, status, err)
		return nil, err
	}
	log.WithFields(log.Fields{"event_id": out.RegistrationEventID, "from": from, "status": status}).Info("registration status changed")
	return out, nil
}

// DeleteRegistration removes the registration identified by tok under eventID.
// A token from another event is reported as not found.
func (l *Ledger) DeleteRegistration(ctx context.Context, actor helperAuth.Actor, eventID uuid.UUID, tok string) error {
	if err := helperAuth.RequireOrganizer(actor); err != nil {
		return err
	}

	var wasPresent bool
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := findByToken(tx, tok)
		if err != nil {
			return err
		}
		if found.RegistrationEventID != eventID {
			return ErrRegistrationNotFound
		}
		if _, err := eventRepo.LockForUpdate(tx, eventID); err != nil {
			return err
		}
		reg, err := lockRegistration(tx, found.RegistrationID)
		if err != nil {
			return err
		}
		wasPresent = reg.IsPresent()

		if err := tx.Where("registration_comment_registration_id = ?", reg.RegistrationID).
			Delete(&model.RegistrationCommentModel{}).Error; err != nil {
			return apperr.Storage(err, "delete registration comments")
		}
		if err := tx.Where("registration_id = ?", reg.RegistrationID).
			Delete(&model.RegistrationModel{}).Error; err != nil {
			return apperr.Storage(err, "delete registration")
		}
		if wasPresent {
			return releaseSeat(tx, eventID)
		}
		return nil
	})
	if err != nil {
		logRejected("delete", eventID, "", err)
		return err
	}
	log.WithFields(log.Fields{"event_id": eventID, "was_present": wasPresent, "by": actor.ID}).Info("registration deleted")
	return nil
}

// AddComment appends an organizer note. Capacity is not involved.
func (l *Ledger) AddComment(ctx context.Context, actor helperAuth.Actor, tok, content string) (*model.RegistrationModel, error) {
	if err := helperAuth.RequireOrganizer(actor); err != nil {
		return nil, err
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperr.ValidationFields(map[string][]string{"content": {"required"}})
	}

	var out *model.RegistrationModel
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reg, err := findByToken(tx, tok)
		if err != nil {
			return err
		}
		author := actor.ID
		c := &model.RegistrationCommentModel{
			RegistrationCommentRegistrationID: reg.RegistrationID,
			RegistrationCommentAuthorID:       &author,
			RegistrationCommentContent:        content,
		}
		if err := tx.Create(c).Error; err != nil {
			return apperr.Storage(err, "create comment")
		}
		out, err = l.reload(tx, reg.RegistrationID)
		return err
	})
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{"event_id": out.RegistrationEventID, "by": actor.ID}).Info("registration comment added")
	return out, nil
}

/* ===================== Reads ===================== */

// ListByEvent returns the event's registrations in registration order with their comments.
func (l *Ledger) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]model.RegistrationModel, error) {
	db := l.db.WithContext(ctx)
	var n int64
	if err := db.Model(&eventModel.EventModel{}).Where("event_id = ?", eventID).Count(&n).Error; err != nil {
		return nil, apperr.Storage(err, "check event")
	}
	if n == 0 {
		return nil, eventRepo.ErrEventNotFound
	}

	var rows []model.RegistrationModel
	if err := withComments(db).
		Where("registration_event_id = ?", eventID).
		Order("registration_date ASC, registration_id ASC").
		Find(&rows).Error; err != nil {
		return nil, apperr.Storage(err, "list registrations")
	}
	return rows, nil
}

func (l *Ledger) GetByToken(ctx context.Context, tok string) (*model.RegistrationModel, error) {
	db := l.db.WithContext(ctx)
	reg, err := findByToken(db, tok)
	if err != nil {
		return nil, err
	}
	return l.reload(db, reg.RegistrationID)
}

// All returns every registration without comments; dashboard input.
func (l *Ledger) All(ctx context.Context) ([]model.RegistrationModel, error) {
	var rows []model.RegistrationModel
	if err := l.db.WithContext(ctx).Order("registration_date ASC").Find(&rows).Error; err != nil {
		return nil, apperr.Storage(err, "load registrations")
	}
	return rows, nil
}

// EventStats counts the event's registrations per status from a live scan.
func (l *Ledger) EventStats(ctx context.Context, eventID uuid.UUID) (*dto.StatsResponse, error) {
	db := l.db.WithContext(ctx)
	var ev eventModel.EventModel
	if err := db.Where("event_id = ?", eventID).First(&ev).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, eventRepo.ErrEventNotFound
		}
		return nil, apperr.Storage(err, "get event")
	}

	var groups []struct {
		Status string
		N      int64
	}
	if err := db.Model(&model.RegistrationModel{}).
		Select("registration_status AS status, COUNT(*) AS n").
		Where("registration_event_id = ?", eventID).
		Group("registration_status").
		Scan(&groups).Error; err != nil {
		return nil, apperr.Storage(err, "count registrations")
	}

	out := &dto.StatsResponse{
		EventID:         eventID,
		MaxParticipants: ev.EventMaxParticipants,
		StoredPresent:   ev.EventCurrentParticipants,
	}
	for _, g := range groups {
		out.Total += g.N
		switch g.Status {
		case constants.StatusPresent:
			out.Present = g.N
		case constants.StatusAbsent:
			out.Absent = g.N
		case constants.StatusUndecided:
			out.Undecided = g.N
		}
	}
	return out, nil
}

func logRejected(op string, eventID uuid.UUID, status string, err error) {
	entry := log.WithFields(log.Fields{"op": op, "status": status})
	if eventID != uuid.Nil {
		entry = entry.WithField("event_id", eventID)
	}
	switch apperr.KindOf(err) {
	case "":
		entry.WithError(err).Error("ledger operation failed")
	case apperr.KindTransient:
		entry.WithError(err).Warn("ledger operation failed")
	default:
		entry.WithField("reason", err.Error()).Debug("ledger operation rejected")
	}
}
