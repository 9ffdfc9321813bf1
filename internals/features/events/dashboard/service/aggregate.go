package service

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"volunteerhub_backend/internals/constants"
	eventModel "volunteerhub_backend/internals/features/events/events/model"
	regModel "volunteerhub_backend/internals/features/events/registrations/model"
	"volunteerhub_backend/internals/helpers/dbtime"
)

// Hours credited per present registration when the event has no start/end time.
const defaultEventHours = 3.0

type Overview struct {
	TotalEvents            int     `json:"total_events"`
	UpcomingEvents         int     `json:"upcoming_events"`
	PastEvents             int     `json:"past_events"`
	ActiveEvents           int     `json:"active_events"`
	ArchivedEvents         int     `json:"archived_events"`
	FullEvents             int     `json:"full_events"`
	WeeklyEvents           int     `json:"weekly_events"`
	TotalRegistrations     int     `json:"total_registrations"`
	TotalPresent           int     `json:"total_present"`
	UniqueVolunteers       int     `json:"unique_volunteers"`
	AveragePresentPerEvent float64 `json:"average_present_per_event"`
	ParticipationRate      float64 `json:"participation_rate"`
	VolunteerHours         float64 `json:"volunteer_hours"`
}

type MonthRate struct {
	Month    string  `json:"month"` // YYYY-MM
	Events   int     `json:"events"`
	Present  int     `json:"present"`
	Capacity int     `json:"capacity"`
	Rate     float64 `json:"rate"` // percent
}

type HistoryEntry struct {
	EventID      uuid.UUID `json:"event_id"`
	Title        string    `json:"title"`
	Date         string    `json:"date"`
	Status       string    `json:"status"`
	RegisteredAt time.Time `json:"registered_at"`
}

type Volunteer struct {
	Key               string         `json:"key"`
	FirstName         string         `json:"first_name"`
	LastName          string         `json:"last_name"`
	Email             *string        `json:"email,omitempty"`
	Phone             *string        `json:"phone,omitempty"`
	TotalEvents       int            `json:"total_events"`
	Present           int            `json:"present"`
	Absent            int            `json:"absent"`
	Undecided         int            `json:"undecided"`
	FirstRegistration time.Time      `json:"first_registration"`
	Events            []HistoryEntry `json:"events"`
}

func (v Volunteer) FullName() string {
	return strings.TrimSpace(v.FirstName + " " + v.LastName)
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

func indexEvents(events []eventModel.EventModel) map[uuid.UUID]*eventModel.EventModel {
	idx := make(map[uuid.UUID]*eventModel.EventModel, len(events))
	for i := range events {
		idx[events[i].EventID] = &events[i]
	}
	return idx
}

func eventHours(ev *eventModel.EventModel) float64 {
	if ev.EventStartTime == nil || ev.EventEndTime == nil {
		return defaultEventHours
	}
	d := ev.EventEndTime.Sub(ev.EventStartTime.Time)
	if d <= 0 {
		return defaultEventHours
	}
	return d.Hours()
}

// Aggregate computes the organizer overview. Present counts come from the
// registrations themselves; a registration whose event is not in events is
// ignored, so a partial load never inflates totals.
func Aggregate(events []eventModel.EventModel, regs []regModel.RegistrationModel, today time.Time) Overview {
	var o Overview
	idx := indexEvents(events)
	weekAgo := today.AddDate(0, 0, -7)

	capacity := 0
	for i := range events {
		ev := &events[i]
		o.TotalEvents++
		capacity += ev.EventMaxParticipants
		if ev.IsPast(today) {
			o.PastEvents++
		} else {
			o.UpcomingEvents++
			if !ev.EventIsArchived {
				o.ActiveEvents++
			}
		}
		if ev.EventIsArchived {
			o.ArchivedEvents++
		}
		if ev.IsFull() {
			o.FullEvents++
		}
		if d := ev.Day(); !d.Before(weekAgo) && !d.After(today) {
			o.WeeklyEvents++
		}
	}

	volunteers := map[string]struct{}{}
	for i := range regs {
		r := &regs[i]
		ev, ok := idx[r.RegistrationEventID]
		if !ok {
			continue
		}
		o.TotalRegistrations++
		if r.RegistrationStatus != constants.StatusPresent {
			continue
		}
		o.TotalPresent++
		o.VolunteerHours += eventHours(ev)
		volunteers[r.RegistrationHolderKey] = struct{}{}
	}
	o.UniqueVolunteers = len(volunteers)
	o.VolunteerHours = round(o.VolunteerHours, 1)

	if o.TotalEvents > 0 {
		o.AveragePresentPerEvent = round(float64(o.TotalPresent)/float64(o.TotalEvents), 2)
	}
	if capacity > 0 {
		o.ParticipationRate = round(float64(o.TotalPresent)/float64(capacity)*100, 1)
	}
	return o
}

// MonthlyParticipation returns present/capacity per calendar month for the last
// `months` months up to and including the month of today, oldest first.
func MonthlyParticipation(events []eventModel.EventModel, regs []regModel.RegistrationModel, today time.Time, months int) []MonthRate {
	if months < 1 {
		months = 1
	}
	current := dbtime.MonthStart(today)
	first := current.AddDate(0, -(months - 1), 0)

	out := make([]MonthRate, months)
	slot := make(map[string]int, months)
	for i := 0; i < months; i++ {
		key := first.AddDate(0, i, 0).Format("2006-01")
		out[i].Month = key
		slot[key] = i
	}

	eventSlot := make(map[uuid.UUID]int, len(events))
	for i := range events {
		ev := &events[i]
		s, ok := slot[ev.Day().Format("2006-01")]
		if !ok {
			continue
		}
		eventSlot[ev.EventID] = s
		out[s].Events++
		out[s].Capacity += ev.EventMaxParticipants
	}
	for i := range regs {
		r := &regs[i]
		if r.RegistrationStatus != constants.StatusPresent {
			continue
		}
		if s, ok := eventSlot[r.RegistrationEventID]; ok {
			out[s].Present++
		}
	}
	for i := range out {
		if out[i].Capacity > 0 {
			out[i].Rate = round(float64(out[i].Present)/float64(out[i].Capacity)*100, 1)
		}
	}
	return out
}

// VolunteerHistory groups registrations by holder key. Name and contact come
// from the holder's earliest registration.
func VolunteerHistory(events []eventModel.EventModel, regs []regModel.RegistrationModel) []Volunteer {
	idx := indexEvents(events)
	byKey := map[string]*Volunteer{}
	order := []string{}

	for i := range regs {
		r := &regs[i]
		ev, ok := idx[r.RegistrationEventID]
		if !ok {
			continue
		}
		v, ok := byKey[r.RegistrationHolderKey]
		if !ok {
			v = &Volunteer{Key: r.RegistrationHolderKey, FirstRegistration: r.RegistrationDate}
			byKey[r.RegistrationHolderKey] = v
			order = append(order, r.RegistrationHolderKey)
		}
		if !ok || r.RegistrationDate.Before(v.FirstRegistration) || v.FirstName == "" {
			v.FirstName, v.LastName = r.RegistrationFirstName, r.RegistrationLastName
			v.Email, v.Phone = r.RegistrationEmail, r.RegistrationPhone
		}
		if r.RegistrationDate.Before(v.FirstRegistration) {
			v.FirstRegistration = r.RegistrationDate
		}

		v.TotalEvents++
		switch r.RegistrationStatus {
		case constants.StatusPresent:
			v.Present++
		case constants.StatusAbsent:
			v.Absent++
		case constants.StatusUndecided:
			v.Undecided++
		}
		v.Events = append(v.Events, HistoryEntry{
			EventID:      ev.EventID,
			Title:        ev.EventTitle,
			Date:         ev.Day().Format(dbtime.DateLayout),
			Status:       r.RegistrationStatus,
			RegisteredAt: r.RegistrationDate,
		})
	}

	out := make([]Volunteer, 0, len(order))
	for _, k := range order {
		v := byKey[k]
		sort.SliceStable(v.Events, func(i, j int) bool { return v.Events[i].Date > v.Events[j].Date })
		out = append(out, *v)
	}
	return out
}

// Volunteer list sort keys.
const (
	SortByName   = "name"
	SortByEvents = "events"
	SortByDate   = "date"
)

// FilterVolunteers keeps volunteers whose name, email or phone contains q.
func FilterVolunteers(vs []Volunteer, q string) []Volunteer {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return vs
	}
	out := vs[:0:0]
	for _, v := range vs {
		if strings.Contains(strings.ToLower(v.FullName()), q) ||
			(v.Email != nil && strings.Contains(*v.Email, q)) ||
			(v.Phone != nil && strings.Contains(*v.Phone, q)) {
			out = append(out, v)
		}
	}
	return out
}

// SortVolunteers orders vs in place by name, events or first registration date.
func SortVolunteers(vs []Volunteer, by string, desc bool) {
	less := func(a, b Volunteer) bool {
		switch by {
		case SortByEvents:
			return a.TotalEvents < b.TotalEvents
		case SortByDate:
			return a.FirstRegistration.Before(b.FirstRegistration)
		default:
			return strings.ToLower(a.FullName()) < strings.ToLower(b.FullName())
		}
	}
	sort.SliceStable(vs, func(i, j int) bool {
		if desc {
			return less(vs[j], vs[i])
		}
		return less(vs[i], vs[j])
	})
}
