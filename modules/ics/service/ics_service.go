package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"calctl/core/constants"
	"calctl/core/errors"
	eventdto "calctl/modules/event/dto"
	"calctl/modules/event/repository"
	eventservice "calctl/modules/event/service"

	ical "github.com/arran4/golang-ical"
	"github.com/gosimple/slug"
)

// ICSService converts between the event store and RFC 5545 iCalendar
// documents.
type ICSService struct {
	repo         repository.EventRepositoryInterface
	events       eventservice.EventServiceInterface
	calendarName string
}

// ExportResult is a rendered calendar document.
type ExportResult struct {
	Filename string `json:"filename"`
	Count    int    `json:"count"`
	Data     []byte `json:"-"`
}

// SkippedVEvent reports one VEVENT that could not be imported.
type SkippedVEvent struct {
	Summary string `json:"summary"`
	Reason  string `json:"reason"`
}

// ImportResult reports an import run.
type ImportResult struct {
	Imported []eventdto.EventResponse `json:"imported"`
	Skipped  []SkippedVEvent          `json:"skipped,omitempty"`
}

// ICSServiceInterface defines the conversion contract.
type ICSServiceInterface interface {
	Export(ctx context.Context, from, to string) (*ExportResult, *errors.AppError)
	Import(ctx context.Context, data []byte, force bool) (*ImportResult, *errors.AppError)
}

func NewICSService(repo repository.EventRepositoryInterface, events eventservice.EventServiceInterface, calendarName string) ICSServiceInterface {
	return &ICSService{
		repo:         repo,
		events:       events,
		calendarName: calendarName,
	}
}

// Export renders the store (optionally limited to an inclusive date range)
// as a VCALENDAR. The default filename is the slugified calendar name.
func (s *ICSService) Export(ctx context.Context, from, to string) (*ExportResult, *errors.AppError) {
	events, err := s.repo.List(ctx)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrStorage, "Failed to load events", err)
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//calctl//calctl " + constants.AppVersion + "//EN")
	cal.SetXWRCalName(s.calendarName)

	count := 0
	for i := range events {
		e := &events[i]
		if from != "" && e.Date < from {
			continue
		}
		if to != "" && e.Date > to {
			continue
		}

		span, serr := e.Span()
		if serr != nil {
			continue
		}

		ve := cal.AddEvent(e.ID + "@calctl")
		ve.SetCreatedTime(e.CreatedAt)
		ve.SetDtStampTime(e.UpdatedAt)
		ve.SetStartAt(span.Start)
		ve.SetEndAt(span.End)
		ve.SetSummary(e.Title)
		if e.Location != nil {
			ve.SetLocation(*e.Location)
		}
		if e.Description != nil {
			ve.SetDescription(*e.Description)
		}
		count++
	}

	return &ExportResult{
		Filename: slug.Make(s.calendarName) + ".ics",
		Count:    count,
		Data:     []byte(cal.Serialize()),
	}, nil
}

// Import parses a VCALENDAR and adds each VEVENT as a new event (fresh ids;
// foreign UIDs are not preserved). VEVENTs that fail validation or conflict
// are skipped with a reason and never abort the rest of the import.
func (s *ICSService) Import(ctx context.Context, data []byte, force bool) (*ImportResult, *errors.AppError) {
	cal, err := ical.ParseCalendar(bytes.NewReader(data))
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Not a valid iCalendar document", err)
	}

	result := &ImportResult{}
	for _, ve := range cal.Events() {
		req, reason := s.toCreateRequest(ve, force)
		if req == nil {
			result.Skipped = append(result.Skipped, SkippedVEvent{
				Summary: summaryOf(ve),
				Reason:  reason,
			})
			continue
		}

		created, appErr := s.events.Create(ctx, req)
		if appErr != nil {
			result.Skipped = append(result.Skipped, SkippedVEvent{
				Summary: req.Title,
				Reason:  appErr.Message,
			})
			continue
		}
		result.Imported = append(result.Imported, created.Event)
	}
	return result, nil
}

func (s *ICSService) toCreateRequest(ve *ical.VEvent, force bool) (*eventdto.CreateEventRequest, string) {
	start, err := ve.GetStartAt()
	if err != nil {
		return nil, "missing or unparsable DTSTART"
	}
	end, err := ve.GetEndAt()
	if err != nil {
		return nil, "missing or unparsable DTEND"
	}

	duration := int(end.Sub(start) / time.Minute)
	if duration <= 0 {
		return nil, fmt.Sprintf("non-positive duration (%s - %s)", start, end)
	}

	local := start.In(time.Local)
	req := &eventdto.CreateEventRequest{
		Title:           summaryOf(ve),
		Date:            local.Format(constants.DateFormat),
		StartTime:       local.Format(constants.TimeFormat),
		DurationMinutes: duration,
		Force:           force,
	}
	if p := ve.GetProperty(ical.ComponentPropertyLocation); p != nil {
		req.Location = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertyDescription); p != nil {
		req.Description = p.Value
	}
	return req, ""
}

func summaryOf(ve *ical.VEvent) string {
	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		return p.Value
	}
	return ""
}
