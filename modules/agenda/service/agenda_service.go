package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"calctl/core/constants"
	"calctl/core/errors"
	"calctl/modules/agenda/dto"
	eventdto "calctl/modules/event/dto"
	"calctl/modules/event/entity"
	"calctl/modules/event/repository"
)

// AgendaService answers all read queries over the event store: date-range
// filters, text search and agenda views. Every operation works on a snapshot
// and never mutates state.
type AgendaService struct {
	repo      repository.EventRepositoryInterface
	weekStart string
}

// AgendaServiceInterface defines the query contract.
type AgendaServiceInterface interface {
	FilterByRange(ctx context.Context, from, to string) ([]eventdto.EventResponse, *errors.AppError)
	FilterToday(ctx context.Context, ref string) ([]eventdto.EventResponse, *errors.AppError)
	FilterWeek(ctx context.Context, ref string) ([]eventdto.EventResponse, *errors.AppError)
	ListUpcoming(ctx context.Context, ref string) ([]eventdto.EventResponse, *errors.AppError)
	Search(ctx context.Context, query string, titleOnly bool) ([]eventdto.EventResponse, *errors.AppError)
	DayAgenda(ctx context.Context, date string) (*dto.DayAgendaResponse, *errors.AppError)
	WeekAgenda(ctx context.Context, ref string) (*dto.WeekAgendaResponse, *errors.AppError)
	WeekWindow(ref string) (string, string, error)
}

// NewAgendaService builds the query engine. weekStart is "monday" or
// "sunday" and controls which 7-day window contains a reference date.
func NewAgendaService(repo repository.EventRepositoryInterface, weekStart string) AgendaServiceInterface {
	return &AgendaService{
		repo:      repo,
		weekStart: weekStart,
	}
}

// FilterByRange returns events with from <= date <= to, sorted ascending by
// (date, start_time). Empty bounds are open ends.
func (s *AgendaService) FilterByRange(ctx context.Context, from, to string) ([]eventdto.EventResponse, *errors.AppError) {
	if from != "" {
		if _, err := parseDate(from); err != nil {
			return nil, errors.NewAppError(errors.ErrValidation, "from date must be in YYYY-MM-DD format", err)
		}
	}
	if to != "" {
		if _, err := parseDate(to); err != nil {
			return nil, errors.NewAppError(errors.ErrValidation, "to date must be in YYYY-MM-DD format", err)
		}
	}

	events, appErr := s.snapshot(ctx)
	if appErr != nil {
		return nil, appErr
	}

	filtered := filterEvents(events, func(e *entity.Event) bool {
		if from != "" && e.Date < from {
			return false
		}
		if to != "" && e.Date > to {
			return false
		}
		return true
	})
	sortBySchedule(filtered)
	return eventdto.ToEventResponses(filtered), nil
}

// FilterToday is FilterByRange(ref, ref).
func (s *AgendaService) FilterToday(ctx context.Context, ref string) ([]eventdto.EventResponse, *errors.AppError) {
	if ref == "" {
		ref = today()
	}
	return s.FilterByRange(ctx, ref, ref)
}

// FilterWeek returns the 7-day window containing ref, starting at the
// configured week start.
func (s *AgendaService) FilterWeek(ctx context.Context, ref string) ([]eventdto.EventResponse, *errors.AppError) {
	from, to, err := s.WeekWindow(ref)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrValidation, "reference date must be in YYYY-MM-DD format", err)
	}
	return s.FilterByRange(ctx, from, to)
}

// ListUpcoming returns events from ref (today when empty) onward.
func (s *AgendaService) ListUpcoming(ctx context.Context, ref string) ([]eventdto.EventResponse, *errors.AppError) {
	if ref == "" {
		ref = today()
	}
	return s.FilterByRange(ctx, ref, "")
}

// Search matches the query case-insensitively as a substring of the title,
// or of title, description and location when titleOnly is false. An empty
// query matches nothing.
func (s *AgendaService) Search(ctx context.Context, query string, titleOnly bool) ([]eventdto.EventResponse, *errors.AppError) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return []eventdto.EventResponse{}, nil
	}

	events, appErr := s.snapshot(ctx)
	if appErr != nil {
		return nil, appErr
	}

	filtered := filterEvents(events, func(e *entity.Event) bool {
		if strings.Contains(strings.ToLower(e.Title), q) {
			return true
		}
		if titleOnly {
			return false
		}
		if e.Description != nil && strings.Contains(strings.ToLower(*e.Description), q) {
			return true
		}
		if e.Location != nil && strings.Contains(strings.ToLower(*e.Location), q) {
			return true
		}
		return false
	})
	sortBySchedule(filtered)
	return eventdto.ToEventResponses(filtered), nil
}

// DayAgenda returns the agenda for one date (today when empty), sorted by
// start time.
func (s *AgendaService) DayAgenda(ctx context.Context, date string) (*dto.DayAgendaResponse, *errors.AppError) {
	if date == "" {
		date = today()
	}
	events, appErr := s.FilterByRange(ctx, date, date)
	if appErr != nil {
		return nil, appErr
	}

	return &dto.DayAgendaResponse{
		Type:        "day",
		Date:        date,
		Events:      events,
		TotalEvents: len(events),
	}, nil
}

// WeekAgenda returns the week containing ref grouped by date.
func (s *AgendaService) WeekAgenda(ctx context.Context, ref string) (*dto.WeekAgendaResponse, *errors.AppError) {
	from, to, err := s.WeekWindow(ref)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrValidation, "reference date must be in YYYY-MM-DD format", err)
	}

	events, appErr := s.FilterByRange(ctx, from, to)
	if appErr != nil {
		return nil, appErr
	}

	byDate := make(map[string][]eventdto.EventResponse)
	for _, e := range events {
		byDate[e.Date] = append(byDate[e.Date], e)
	}

	return &dto.WeekAgendaResponse{
		Type:         "week",
		From:         from,
		To:           to,
		EventsByDate: byDate,
		TotalEvents:  len(events),
	}, nil
}

// WeekWindow computes the inclusive [from, to] dates of the week containing
// ref (today when empty).
func (s *AgendaService) WeekWindow(ref string) (string, string, error) {
	var t time.Time
	var err error
	if ref == "" {
		t = time.Now()
	} else {
		t, err = parseDate(ref)
		if err != nil {
			return "", "", err
		}
	}

	var offset int
	if s.weekStart == constants.WeekStartSunday {
		offset = int(t.Weekday())
	} else {
		offset = (int(t.Weekday()) + 6) % 7
	}

	start := t.AddDate(0, 0, -offset)
	end := start.AddDate(0, 0, 6)
	return start.Format(constants.DateFormat), end.Format(constants.DateFormat), nil
}

func (s *AgendaService) snapshot(ctx context.Context) ([]entity.Event, *errors.AppError) {
	events, err := s.repo.List(ctx)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrStorage, "Failed to load events", err)
	}
	return events, nil
}

func filterEvents(events []entity.Event, keep func(*entity.Event) bool) []entity.Event {
	out := make([]entity.Event, 0, len(events))
	for i := range events {
		if keep(&events[i]) {
			out = append(out, events[i])
		}
	}
	return out
}

// sortBySchedule orders ascending by (date, start_time). The sort is stable
// so events at the same instant keep their insertion order.
func sortBySchedule(events []entity.Event) {
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].Date != events[j].Date {
			return events[i].Date < events[j].Date
		}
		return events[i].StartTime < events[j].StartTime
	})
}

func parseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(constants.DateFormat, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

func today() string {
	return time.Now().Format(constants.DateFormat)
}
