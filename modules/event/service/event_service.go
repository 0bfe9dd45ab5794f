package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"calctl/core/constants"
	"calctl/core/errors"
	"calctl/core/utils"
	"calctl/modules/event/dto"
	"calctl/modules/event/entity"
	"calctl/modules/event/repository"
)

// EventService owns event mutations: creation, partial updates, deletion.
// Every mutation runs conflict detection first unless the caller forces it.
type EventService struct {
	repo     repository.EventRepositoryInterface
	detector *ConflictDetector
}

// EventServiceInterface defines the service contract.
type EventServiceInterface interface {
	Create(ctx context.Context, req *dto.CreateEventRequest) (*dto.EventWithConflicts, *errors.AppError)
	Get(ctx context.Context, id string) (*dto.EventWithConflicts, *errors.AppError)
	List(ctx context.Context) ([]dto.EventResponse, *errors.AppError)
	Update(ctx context.Context, id string, req *dto.UpdateEventRequest) (*dto.EventWithConflicts, *errors.AppError)
	Delete(ctx context.Context, id string) (*dto.EventResponse, *errors.AppError)
	DeleteByDate(ctx context.Context, date string) (*dto.DeleteByDateResponse, *errors.AppError)
}

func NewEventService(repo repository.EventRepositoryInterface) EventServiceInterface {
	return &EventService{
		repo:     repo,
		detector: NewConflictDetector(repo),
	}
}

// Create validates and inserts a new event. Without Force a detected overlap
// blocks the insert; with Force the event is scheduled anyway and the
// conflicts are reported back.
func (s *EventService) Create(ctx context.Context, req *dto.CreateEventRequest) (*dto.EventWithConflicts, *errors.AppError) {
	now := time.Now()
	event := &entity.Event{
		Title:           req.Title,
		Date:            req.Date,
		StartTime:       req.StartTime,
		DurationMinutes: req.DurationMinutes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if req.Location != "" {
		event.Location = &req.Location
	}
	if req.Description != "" {
		event.Description = &req.Description
	}

	event.Normalize()
	if err := event.Validate(); err != nil {
		return nil, errors.NewAppError(errors.ErrValidation, err.Error(), err)
	}

	span, err := event.Span()
	if err != nil {
		return nil, errors.NewAppError(errors.ErrValidation, err.Error(), err)
	}

	conflicts, err := s.detector.FindConflicts(ctx, span, "")
	if err != nil {
		return nil, errors.NewAppError(errors.ErrStorage, "Failed to check conflicts", err)
	}
	if len(conflicts) > 0 && !req.Force {
		msg := fmt.Sprintf("Event conflicts with %s. Use --force to schedule anyway", conflictSummary(conflicts))
		return nil, errors.NewAppError(errors.ErrConflict, msg, nil)
	}

	event.ID, err = s.nextID(ctx)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrStorage, "Failed to assign event id", err)
	}

	if err := s.repo.Insert(ctx, event); err != nil {
		return nil, errors.NewAppError(errors.ErrStorage, "Failed to save event", err)
	}

	return &dto.EventWithConflicts{
		Event:     dto.ToEventResponse(event),
		Conflicts: dto.ToEventResponses(conflicts),
	}, nil
}

// Get returns one event together with its current conflicts.
func (s *EventService) Get(ctx context.Context, id string) (*dto.EventWithConflicts, *errors.AppError) {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrStorage, "Failed to load event", err)
	}
	if event == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, fmt.Sprintf("Event %s not found", id), nil)
	}

	span, serr := event.Span()
	if serr != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Stored event is unreadable", serr)
	}
	conflicts, err := s.detector.FindConflicts(ctx, span, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrStorage, "Failed to check conflicts", err)
	}

	return &dto.EventWithConflicts{
		Event:     dto.ToEventResponse(event),
		Conflicts: dto.ToEventResponses(conflicts),
	}, nil
}

// List returns every stored event in insertion order.
func (s *EventService) List(ctx context.Context) ([]dto.EventResponse, *errors.AppError) {
	events, err := s.repo.List(ctx)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrStorage, "Failed to load events", err)
	}
	return dto.ToEventResponses(events), nil
}

// Update applies a partial update atomically: all requested fields validate
// together against a copy, and only the validated copy is committed. On any
// failure the stored record is untouched.
func (s *EventService) Update(ctx context.Context, id string, req *dto.UpdateEventRequest) (*dto.EventWithConflicts, *errors.AppError) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrStorage, "Failed to load event", err)
	}
	if current == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, fmt.Sprintf("Event %s not found", id), nil)
	}

	updated := current.Clone()
	if req.Title != nil {
		updated.Title = *req.Title
	}
	if req.Date != nil {
		updated.Date = *req.Date
	}
	if req.StartTime != nil {
		updated.StartTime = *req.StartTime
	}
	if req.DurationMinutes != nil {
		updated.DurationMinutes = *req.DurationMinutes
	}
	if req.Location != nil {
		updated.Location = req.Location
	}
	if req.Description != nil {
		updated.Description = req.Description
	}

	updated.Normalize()
	if err := updated.Validate(); err != nil {
		return nil, errors.NewAppError(errors.ErrValidation, err.Error(), err)
	}

	span, serr := updated.Span()
	if serr != nil {
		return nil, errors.NewAppError(errors.ErrValidation, serr.Error(), serr)
	}

	conflicts, err := s.detector.FindConflicts(ctx, span, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrStorage, "Failed to check conflicts", err)
	}
	if len(conflicts) > 0 && !req.Force {
		msg := fmt.Sprintf("Edit would create conflicts with %s", conflictSummary(conflicts))
		return nil, errors.NewAppError(errors.ErrConflict, msg, nil)
	}

	updated.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, updated); err != nil {
		return nil, errors.NewAppError(errors.ErrStorage, "Failed to save event", err)
	}

	return &dto.EventWithConflicts{
		Event:     dto.ToEventResponse(updated),
		Conflicts: dto.ToEventResponses(conflicts),
	}, nil
}

// Delete removes one event and returns it.
func (s *EventService) Delete(ctx context.Context, id string) (*dto.EventResponse, *errors.AppError) {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrStorage, "Failed to load event", err)
	}
	if event == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, fmt.Sprintf("Event %s not found", id), nil)
	}

	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrStorage, "Failed to delete event", err)
	}
	if !removed {
		return nil, errors.NewAppError(errors.ErrNotFound, fmt.Sprintf("Event %s not found", id), nil)
	}

	resp := dto.ToEventResponse(event)
	return &resp, nil
}

// DeleteByDate removes every event on one date.
func (s *EventService) DeleteByDate(ctx context.Context, date string) (*dto.DeleteByDateResponse, *errors.AppError) {
	if _, err := time.ParseInLocation(constants.DateFormat, date, time.Local); err != nil {
		return nil, errors.NewAppError(errors.ErrValidation, "date must be in YYYY-MM-DD format", err)
	}

	deleted, err := s.repo.DeleteByDate(ctx, date)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrStorage, "Failed to delete events", err)
	}

	return &dto.DeleteByDateResponse{
		Date:    date,
		Deleted: dto.ToEventResponses(deleted),
		Count:   len(deleted),
	}, nil
}

// nextID assigns a fresh short id, regenerating on the rare collision.
func (s *EventService) nextID(ctx context.Context) (string, error) {
	events, err := s.repo.List(ctx)
	if err != nil {
		return "", err
	}

	taken := make(map[string]bool, len(events))
	for i := range events {
		taken[events[i].ID] = true
	}
	return utils.UniqueEventID(taken), nil
}

// conflictSummary renders conflicts as `"Title" (10:00 - 11:00)` entries.
func conflictSummary(conflicts []entity.Event) string {
	details := make([]string, 0, len(conflicts))
	for i := range conflicts {
		c := &conflicts[i]
		details = append(details, fmt.Sprintf("%q (%s - %s)", c.Title, c.StartTime, c.EndTime()))
	}
	return strings.Join(details, ", ")
}
