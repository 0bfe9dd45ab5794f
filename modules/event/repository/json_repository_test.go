package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"calctl/core/storage"
	"calctl/modules/event/entity"
)

func newTestRepo(t *testing.T) (*JSONEventRepository, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "events.json")
	repo, err := NewJSONEventRepository(storage.NewDocumentFile(path))
	if err != nil {
		t.Fatalf("NewJSONEventRepository: %v", err)
	}
	return repo, path
}

func testEvent(id, title, date, start string) *entity.Event {
	now := time.Now()
	return &entity.Event{
		ID:              id,
		Title:           title,
		Date:            date,
		StartTime:       start,
		DurationMinutes: 30,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func TestMissingFileIsEmptyStore(t *testing.T) {
	repo, _ := newTestRepo(t)

	events, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("fresh store has %d events", len(events))
	}
}

func TestRoundTrip(t *testing.T) {
	repo, path := newTestRepo(t)
	ctx := context.Background()

	if err := repo.Insert(ctx, testEvent("evt-ab12", "Standup", "2026-09-01", "10:00")); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := repo.Insert(ctx, testEvent("evt-cd34", "Review", "2026-09-01", "14:00")); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	// A second repository on the same file sees the persisted state.
	reloaded, err := NewJSONEventRepository(storage.NewDocumentFile(path))
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	events, err := reloaded.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(events) != 2 || events[0].ID != "evt-ab12" || events[1].ID != "evt-cd34" {
		t.Errorf("reloaded = %+v", events)
	}
}

func TestInsertRejectsDuplicateID(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	if err := repo.Insert(ctx, testEvent("evt-ab12", "Standup", "2026-09-01", "10:00")); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := repo.Insert(ctx, testEvent("evt-ab12", "Clone", "2026-09-02", "10:00")); err == nil {
		t.Fatal("duplicate id accepted")
	}
}

func TestListPreservesInsertionOrder(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	// Deliberately out of chronological order.
	ids := []string{"evt-zz99", "evt-aa11", "evt-mm55"}
	dates := []string{"2026-09-03", "2026-09-01", "2026-09-02"}
	for i, id := range ids {
		if err := repo.Insert(ctx, testEvent(id, "Event", dates[i], "10:00")); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}

	events, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	for i, id := range ids {
		if events[i].ID != id {
			t.Fatalf("position %d = %q, want %q", i, events[i].ID, id)
		}
	}
}

func TestGetByIDAbsentIsNilNil(t *testing.T) {
	repo, _ := newTestRepo(t)

	event, err := repo.GetByID(context.Background(), "evt-none")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if event != nil {
		t.Errorf("got %+v, want nil", event)
	}
}

func TestReturnedEventsAreCopies(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	if err := repo.Insert(ctx, testEvent("evt-ab12", "Standup", "2026-09-01", "10:00")); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	got, err := repo.GetByID(ctx, "evt-ab12")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	got.Title = "Mutated"

	again, err := repo.GetByID(ctx, "evt-ab12")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if again.Title != "Standup" {
		t.Errorf("stored title = %q, caller mutation leaked in", again.Title)
	}
}

func TestUpdateMissingEvent(t *testing.T) {
	repo, _ := newTestRepo(t)

	err := repo.Update(context.Background(), testEvent("evt-none", "Ghost", "2026-09-01", "10:00"))
	if err == nil {
		t.Fatal("update of missing event succeeded")
	}
}

func TestDelete(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	if err := repo.Insert(ctx, testEvent("evt-ab12", "Standup", "2026-09-01", "10:00")); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	removed, err := repo.Delete(ctx, "evt-ab12")
	if err != nil || !removed {
		t.Fatalf("Delete = (%v, %v), want (true, nil)", removed, err)
	}
	removed, err = repo.Delete(ctx, "evt-ab12")
	if err != nil || removed {
		t.Fatalf("second Delete = (%v, %v), want (false, nil)", removed, err)
	}
}

func TestDeleteByDate(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	if err := repo.Insert(ctx, testEvent("evt-ab12", "Standup", "2026-09-01", "10:00")); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := repo.Insert(ctx, testEvent("evt-cd34", "Review", "2026-09-01", "14:00")); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := repo.Insert(ctx, testEvent("evt-ef56", "Planning", "2026-09-02", "10:00")); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	deleted, err := repo.DeleteByDate(ctx, "2026-09-01")
	if err != nil {
		t.Fatalf("DeleteByDate: %v", err)
	}
	if len(deleted) != 2 || deleted[0].ID != "evt-ab12" || deleted[1].ID != "evt-cd34" {
		t.Errorf("deleted = %+v", deleted)
	}

	events, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(events) != 1 || events[0].ID != "evt-ef56" {
		t.Errorf("remaining = %+v", events)
	}

	deleted, err = repo.DeleteByDate(ctx, "2026-09-01")
	if err != nil || len(deleted) != 0 {
		t.Errorf("repeat DeleteByDate = (%v, %v), want nothing", deleted, err)
	}
}

func TestLoadSkipsBadRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.json")
	doc := `[
		{"id": "evt-ab12", "title": "Standup", "date": "2026-09-01", "start_time": "10:00", "duration_minutes": 30},
		{"id": "evt-bad1", "title": "", "date": "2026-09-01", "start_time": "11:00", "duration_minutes": 30},
		{"id": "evt-bad2", "title": "No when", "date": "not-a-date", "start_time": "12:00", "duration_minutes": 30},
		{"id": "evt-cd34", "title": "Review", "date": "2026-09-01", "start_time": "14:00", "duration_minutes": 30}
	]`
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	repo, err := NewJSONEventRepository(storage.NewDocumentFile(path))
	if err != nil {
		t.Fatalf("NewJSONEventRepository: %v", err)
	}

	if got := repo.SkippedRecords(); got != 2 {
		t.Errorf("SkippedRecords = %d, want 2", got)
	}
	events, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(events) != 2 || events[0].ID != "evt-ab12" || events[1].ID != "evt-cd34" {
		t.Errorf("loaded = %+v", events)
	}
}
