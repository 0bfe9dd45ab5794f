package service

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"calctl/core/storage"
	"calctl/modules/event/dto"
	"calctl/modules/event/repository"
	eventservice "calctl/modules/event/service"
)

func newTestICS(t *testing.T) (ICSServiceInterface, eventservice.EventServiceInterface) {
	t.Helper()
	repo, err := repository.NewJSONEventRepository(
		storage.NewDocumentFile(filepath.Join(t.TempDir(), "events.json")),
	)
	if err != nil {
		t.Fatalf("repository: %v", err)
	}
	events := eventservice.NewEventService(repo)
	return NewICSService(repo, events, "My Calendar"), events
}

func addEvent(t *testing.T, events eventservice.EventServiceInterface, title, date, start string, duration int) dto.EventResponse {
	t.Helper()
	result, appErr := events.Create(context.Background(), &dto.CreateEventRequest{
		Title:           title,
		Date:            date,
		StartTime:       start,
		DurationMinutes: duration,
		Location:        "Room 4",
		Description:     "Weekly sync",
	})
	if appErr != nil {
		t.Fatalf("Create(%q): %v", title, appErr)
	}
	return result.Event
}

func TestExport(t *testing.T) {
	svc, events := newTestICS(t)
	created := addEvent(t, events, "Standup", "2026-09-01", "10:00", 30)

	result, appErr := svc.Export(context.Background(), "", "")
	if appErr != nil {
		t.Fatalf("Export: %v", appErr)
	}

	if result.Filename != "my-calendar.ics" {
		t.Errorf("Filename = %q", result.Filename)
	}
	if result.Count != 1 {
		t.Errorf("Count = %d, want 1", result.Count)
	}

	doc := string(result.Data)
	for _, want := range []string{
		"BEGIN:VCALENDAR",
		"BEGIN:VEVENT",
		"UID:" + created.ID + "@calctl",
		"SUMMARY:Standup",
		"LOCATION:Room 4",
		"DESCRIPTION:Weekly sync",
		"END:VCALENDAR",
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("document missing %q:\n%s", want, doc)
		}
	}
}

func TestExportRangeFilter(t *testing.T) {
	svc, events := newTestICS(t)
	addEvent(t, events, "In range", "2026-09-01", "10:00", 30)
	addEvent(t, events, "Out of range", "2026-10-01", "10:00", 30)

	result, appErr := svc.Export(context.Background(), "2026-09-01", "2026-09-30")
	if appErr != nil {
		t.Fatalf("Export: %v", appErr)
	}
	if result.Count != 1 {
		t.Errorf("Count = %d, want 1", result.Count)
	}
	if strings.Contains(string(result.Data), "Out of range") {
		t.Error("out-of-range event exported")
	}
}

func TestImportRoundTrip(t *testing.T) {
	source, sourceEvents := newTestICS(t)
	addEvent(t, sourceEvents, "Standup", "2026-09-01", "10:00", 30)
	addEvent(t, sourceEvents, "Review", "2026-09-02", "14:00", 60)

	exported, appErr := source.Export(context.Background(), "", "")
	if appErr != nil {
		t.Fatalf("Export: %v", appErr)
	}

	target, targetEvents := newTestICS(t)
	result, appErr := target.Import(context.Background(), exported.Data, false)
	if appErr != nil {
		t.Fatalf("Import: %v", appErr)
	}
	if len(result.Imported) != 2 || len(result.Skipped) != 0 {
		t.Fatalf("Imported = %d, Skipped = %+v", len(result.Imported), result.Skipped)
	}

	got, listErr := targetEvents.List(context.Background())
	if listErr != nil {
		t.Fatalf("List: %v", listErr)
	}
	if len(got) != 2 {
		t.Fatalf("target store has %d events", len(got))
	}
	if got[0].Title != "Standup" || got[0].Date != "2026-09-01" || got[0].StartTime != "10:00" || got[0].DurationMinutes != 30 {
		t.Errorf("first import = %+v", got[0])
	}
	if got[0].Location != "Room 4" || got[0].Description != "Weekly sync" {
		t.Errorf("optional fields lost: %+v", got[0])
	}
}

func TestImportAssignsFreshIDs(t *testing.T) {
	source, sourceEvents := newTestICS(t)
	created := addEvent(t, sourceEvents, "Standup", "2026-09-01", "10:00", 30)

	exported, appErr := source.Export(context.Background(), "", "")
	if appErr != nil {
		t.Fatalf("Export: %v", appErr)
	}

	target, _ := newTestICS(t)
	result, appErr := target.Import(context.Background(), exported.Data, false)
	if appErr != nil {
		t.Fatalf("Import: %v", appErr)
	}
	if result.Imported[0].ID == created.ID {
		t.Errorf("import preserved foreign id %q", created.ID)
	}
}

func TestImportSkipsConflicts(t *testing.T) {
	source, sourceEvents := newTestICS(t)
	addEvent(t, sourceEvents, "Standup", "2026-09-01", "10:00", 30)

	exported, appErr := source.Export(context.Background(), "", "")
	if appErr != nil {
		t.Fatalf("Export: %v", appErr)
	}

	target, targetEvents := newTestICS(t)
	addEvent(t, targetEvents, "Blocker", "2026-09-01", "10:00", 60)

	result, appErr := target.Import(context.Background(), exported.Data, false)
	if appErr != nil {
		t.Fatalf("Import: %v", appErr)
	}
	if len(result.Imported) != 0 || len(result.Skipped) != 1 {
		t.Fatalf("Imported = %d, Skipped = %d", len(result.Imported), len(result.Skipped))
	}
	if result.Skipped[0].Summary != "Standup" {
		t.Errorf("Skipped = %+v", result.Skipped[0])
	}

	forced, appErr := target.Import(context.Background(), exported.Data, true)
	if appErr != nil {
		t.Fatalf("forced Import: %v", appErr)
	}
	if len(forced.Imported) != 1 {
		t.Errorf("forced import brought in %d events", len(forced.Imported))
	}
}

func TestImportRejectsGarbage(t *testing.T) {
	svc, _ := newTestICS(t)

	if _, appErr := svc.Import(context.Background(), []byte("not a calendar"), false); appErr == nil {
		t.Fatal("garbage accepted as iCalendar")
	}
}
