package service

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"calctl/core/errors"
	"calctl/core/storage"
	"calctl/core/utils"
	"calctl/modules/event/dto"
	"calctl/modules/event/repository"
)

func newTestService(t *testing.T) EventServiceInterface {
	t.Helper()
	repo, err := repository.NewJSONEventRepository(
		storage.NewDocumentFile(filepath.Join(t.TempDir(), "events.json")),
	)
	if err != nil {
		t.Fatalf("repository: %v", err)
	}
	return NewEventService(repo)
}

func createReq(title, date, start string, duration int) *dto.CreateEventRequest {
	return &dto.CreateEventRequest{
		Title:           title,
		Date:            date,
		StartTime:       start,
		DurationMinutes: duration,
	}
}

func mustCreate(t *testing.T, svc EventServiceInterface, req *dto.CreateEventRequest) dto.EventResponse {
	t.Helper()
	result, appErr := svc.Create(context.Background(), req)
	if appErr != nil {
		t.Fatalf("Create(%q): %v", req.Title, appErr)
	}
	return result.Event
}

func TestCreateAssignsID(t *testing.T) {
	svc := newTestService(t)
	created := mustCreate(t, svc, createReq("Standup", "2026-09-01", "10:00", 30))

	if !utils.ValidEventID(created.ID) {
		t.Errorf("ID = %q, want evt-xxxx form", created.ID)
	}
	if created.EndTime != "10:30" {
		t.Errorf("EndTime = %q, want 10:30", created.EndTime)
	}
}

func TestCreateRejectsInvalid(t *testing.T) {
	svc := newTestService(t)

	_, appErr := svc.Create(context.Background(), createReq("", "2026-09-01", "10:00", 30))
	if !errors.Is(appErr, errors.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", appErr)
	}
}

func TestCreateConflict(t *testing.T) {
	svc := newTestService(t)
	mustCreate(t, svc, createReq("Standup", "2026-09-01", "10:00", 60))

	_, appErr := svc.Create(context.Background(), createReq("Review", "2026-09-01", "10:30", 60))
	if !errors.Is(appErr, errors.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", appErr)
	}
	want := `Event conflicts with "Standup" (10:00 - 11:00). Use --force to schedule anyway`
	if appErr.Message != want {
		t.Errorf("message = %q, want %q", appErr.Message, want)
	}

	events, listErr := svc.List(context.Background())
	if listErr != nil {
		t.Fatalf("List: %v", listErr)
	}
	if len(events) != 1 {
		t.Errorf("blocked create still stored: %d events", len(events))
	}
}

func TestCreateBackToBackDoesNotConflict(t *testing.T) {
	svc := newTestService(t)
	mustCreate(t, svc, createReq("Standup", "2026-09-01", "10:00", 60))
	mustCreate(t, svc, createReq("Review", "2026-09-01", "11:00", 60))
}

func TestCreateForceSchedulesAnyway(t *testing.T) {
	svc := newTestService(t)
	first := mustCreate(t, svc, createReq("Standup", "2026-09-01", "10:00", 60))

	req := createReq("Review", "2026-09-01", "10:30", 60)
	req.Force = true
	result, appErr := svc.Create(context.Background(), req)
	if appErr != nil {
		t.Fatalf("forced Create: %v", appErr)
	}
	if len(result.Conflicts) != 1 || result.Conflicts[0].ID != first.ID {
		t.Errorf("Conflicts = %+v, want the blocking event reported", result.Conflicts)
	}
}

func TestConflictAcrossMidnight(t *testing.T) {
	svc := newTestService(t)
	mustCreate(t, svc, createReq("Late show", "2026-09-01", "23:30", 60))

	_, appErr := svc.Create(context.Background(), createReq("Early call", "2026-09-02", "00:15", 30))
	if !errors.Is(appErr, errors.ErrConflict) {
		t.Fatalf("event spilling past midnight should conflict, got %v", appErr)
	}
}

func TestGetNotFound(t *testing.T) {
	svc := newTestService(t)

	_, appErr := svc.Get(context.Background(), "evt-none")
	if !errors.Is(appErr, errors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", appErr)
	}
}

func TestUpdatePartialFields(t *testing.T) {
	svc := newTestService(t)
	created := mustCreate(t, svc, createReq("Standup", "2026-09-01", "10:00", 30))

	title := "Daily standup"
	result, appErr := svc.Update(context.Background(), created.ID, &dto.UpdateEventRequest{Title: &title})
	if appErr != nil {
		t.Fatalf("Update: %v", appErr)
	}
	if result.Event.Title != "Daily standup" {
		t.Errorf("Title = %q", result.Event.Title)
	}
	if result.Event.Date != "2026-09-01" || result.Event.StartTime != "10:00" {
		t.Errorf("untouched fields changed: %+v", result.Event)
	}
}

func TestUpdateInvalidLeavesStoredRecord(t *testing.T) {
	svc := newTestService(t)
	created := mustCreate(t, svc, createReq("Standup", "2026-09-01", "10:00", 30))

	title := "Renamed"
	badDuration := -5
	_, appErr := svc.Update(context.Background(), created.ID, &dto.UpdateEventRequest{
		Title:           &title,
		DurationMinutes: &badDuration,
	})
	if !errors.Is(appErr, errors.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", appErr)
	}

	stored, getErr := svc.Get(context.Background(), created.ID)
	if getErr != nil {
		t.Fatalf("Get: %v", getErr)
	}
	if stored.Event.Title != "Standup" || stored.Event.DurationMinutes != 30 {
		t.Errorf("failed update mutated the record: %+v", stored.Event)
	}
}

func TestUpdateConflict(t *testing.T) {
	svc := newTestService(t)
	mustCreate(t, svc, createReq("Standup", "2026-09-01", "10:00", 60))
	target := mustCreate(t, svc, createReq("Review", "2026-09-01", "14:00", 60))

	start := "10:30"
	_, appErr := svc.Update(context.Background(), target.ID, &dto.UpdateEventRequest{StartTime: &start})
	if !errors.Is(appErr, errors.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", appErr)
	}
	if !strings.HasPrefix(appErr.Message, "Edit would create conflicts with ") {
		t.Errorf("message = %q", appErr.Message)
	}
}

func TestUpdateDoesNotConflictWithItself(t *testing.T) {
	svc := newTestService(t)
	created := mustCreate(t, svc, createReq("Standup", "2026-09-01", "10:00", 30))

	duration := 45
	if _, appErr := svc.Update(context.Background(), created.ID, &dto.UpdateEventRequest{DurationMinutes: &duration}); appErr != nil {
		t.Fatalf("extending an event over its own slot should not conflict: %v", appErr)
	}
}

func TestDelete(t *testing.T) {
	svc := newTestService(t)
	created := mustCreate(t, svc, createReq("Standup", "2026-09-01", "10:00", 30))

	deleted, appErr := svc.Delete(context.Background(), created.ID)
	if appErr != nil {
		t.Fatalf("Delete: %v", appErr)
	}
	if deleted.ID != created.ID {
		t.Errorf("Delete returned %q, want %q", deleted.ID, created.ID)
	}

	if _, appErr := svc.Delete(context.Background(), created.ID); !errors.Is(appErr, errors.ErrNotFound) {
		t.Fatalf("second delete: expected ErrNotFound, got %v", appErr)
	}
}

func TestDeleteByDate(t *testing.T) {
	svc := newTestService(t)
	mustCreate(t, svc, createReq("Standup", "2026-09-01", "10:00", 30))
	mustCreate(t, svc, createReq("Review", "2026-09-01", "14:00", 30))
	keep := mustCreate(t, svc, createReq("Planning", "2026-09-02", "10:00", 30))

	result, appErr := svc.DeleteByDate(context.Background(), "2026-09-01")
	if appErr != nil {
		t.Fatalf("DeleteByDate: %v", appErr)
	}
	if result.Count != 2 || len(result.Deleted) != 2 {
		t.Errorf("Count = %d, Deleted = %d, want 2", result.Count, len(result.Deleted))
	}

	events, listErr := svc.List(context.Background())
	if listErr != nil {
		t.Fatalf("List: %v", listErr)
	}
	if len(events) != 1 || events[0].ID != keep.ID {
		t.Errorf("remaining = %+v, want only %q", events, keep.ID)
	}
}

func TestDeleteByDateRejectsBadDate(t *testing.T) {
	svc := newTestService(t)

	_, appErr := svc.DeleteByDate(context.Background(), "tomorrow")
	if !errors.Is(appErr, errors.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", appErr)
	}
}
