package service

import (
	"context"
	"time"

	eventModel "volunteerhub_backend/internals/features/events/events/model"
	regModel "volunteerhub_backend/internals/features/events/registrations/model"
	"volunteerhub_backend/internals/helpers/dbtime"
)

type EventSource interface {
	All(ctx context.Context) ([]eventModel.EventModel, error)
}

type RegistrationSource interface {
	All(ctx context.Context) ([]regModel.RegistrationModel, error)
}

// DashboardService loads a snapshot and runs the read-only aggregations over it.
type DashboardService struct {
	events EventSource
	regs   RegistrationSource
	loc    *time.Location
	now    func() time.Time
}

func NewDashboardService(events EventSource, regs RegistrationSource, loc *time.Location) *DashboardService {
	if loc == nil {
		loc = time.UTC
	}
	return &DashboardService{events: events, regs: regs, loc: loc, now: time.Now}
}

func (s *DashboardService) WithClock(now func() time.Time) *DashboardService {
	cp := *s
	cp.now = now
	return &cp
}

func (s *DashboardService) today() time.Time { return dbtime.Today(s.now(), s.loc) }

func (s *DashboardService) load(ctx context.Context) ([]eventModel.EventModel, []regModel.RegistrationModel, error) {
	events, err := s.events.All(ctx)
	if err != nil {
		return nil, nil, err
	}
	regs, err := s.regs.All(ctx)
	if err != nil {
		return nil, nil, err
	}
	return events, regs, nil
}

func (s *DashboardService) Overview(ctx context.Context) (Overview, error) {
	events, regs, err := s.load(ctx)
	if err != nil {
		return Overview{}, err
	}
	return Aggregate(events, regs, s.today()), nil
}

func (s *DashboardService) Participation(ctx context.Context, months int) ([]MonthRate, error) {
	events, regs, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return MonthlyParticipation(events, regs, s.today(), months), nil
}

func (s *DashboardService) Volunteers(ctx context.Context, q, sortBy string, desc bool) ([]Volunteer, error) {
	events, regs, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	vs := FilterVolunteers(VolunteerHistory(events, regs), q)
	SortVolunteers(vs, sortBy, desc)
	return vs, nil
}
