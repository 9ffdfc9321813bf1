package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"volunteerhub_backend/internals/features/events/events/model"
	"volunteerhub_backend/internals/helpers/apperr"
)

// Filter values accepted by List. Empty strings take the defaults noted below.
const (
	WindowUpcoming = "upcoming"
	WindowPast     = "past"
	WindowAll      = "all" // default

	ArchivedExclude = "false" // default
	ArchivedOnly    = "true"
	ArchivedAll     = "all"

	AvailabilityFull      = "full"
	AvailabilityAvailable = "available"

	SortDate       = "date" // default, ascending
	SortDateDesc   = "-date"
	SortPopularity = "popularity"
	SortFillRatio  = "fill_ratio"
)

type ListFilter struct {
	Window       string
	Archived     string
	Availability string
	Q            string
	Sort         string
	Limit        int // 0 = no limit
	Offset       int
}

var orderClauses = map[string]string{
	SortDate:       "event_date ASC, event_start_time ASC, event_id ASC",
	SortDateDesc:   "event_date DESC, event_start_time DESC, event_id ASC",
	SortPopularity: colCurrent + " DESC, event_date ASC, event_id ASC",
	SortFillRatio:  "CAST(" + colCurrent + " AS REAL) / " + colMax + " DESC, event_date ASC, event_id ASC",
}

func IsValidSort(s string) bool {
	_, ok := orderClauses[s]
	return ok || s == ""
}

// List returns one page of events and the total matching count. Upcoming means
// the event day is today or later in the application timezone.
func (r *EventRepository) List(ctx context.Context, f ListFilter) ([]model.EventModel, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.EventModel{})
	q = r.applyFilter(q, f)

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, apperr.Storage(err, "count events")
	}

	order, ok := orderClauses[f.Sort]
	if !ok {
		order = orderClauses[SortDate]
	}
	q = q.Order(order)
	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}

	var rows []model.EventModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, 0, apperr.Storage(err, "list events")
	}
	return rows, total, nil
}

// All returns every event, archived included; dashboard input.
func (r *EventRepository) All(ctx context.Context) ([]model.EventModel, error) {
	var rows []model.EventModel
	if err := r.db.WithContext(ctx).Order(orderClauses[SortDate]).Find(&rows).Error; err != nil {
		return nil, apperr.Storage(err, "load events")
	}
	return rows, nil
}

func (r *EventRepository) applyFilter(q *gorm.DB, f ListFilter) *gorm.DB {
	today := r.Today()
	switch f.Window {
	case WindowUpcoming:
		q = q.Where("event_date >= ?", today)
	case WindowPast:
		q = q.Where("event_date < ?", today)
	}

	switch f.Archived {
	case ArchivedOnly:
		q = q.Where("event_is_archived = ?", true)
	case ArchivedAll:
	default:
		q = q.Where("event_is_archived = ?", false)
	}

	switch f.Availability {
	case AvailabilityFull:
		q = q.Where(colCurrent + " >= " + colMax)
	case AvailabilityAvailable:
		q = q.Where(colCurrent + " < " + colMax)
	}

	if s := strings.ToLower(strings.TrimSpace(f.Q)); s != "" {
		like := "%" + escapeLike(s) + "%"
		q = q.Where(
			`(LOWER(event_title) LIKE ? ESCAPE '\' OR LOWER(event_location) LIKE ? ESCAPE '\' OR LOWER(COALESCE(event_description, '')) LIKE ? ESCAPE '\')`,
			like, like, like,
		)
	}
	return q
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
