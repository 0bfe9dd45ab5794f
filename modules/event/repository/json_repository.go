package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"calctl/core/logger"
	"calctl/core/storage"
	"calctl/modules/event/entity"
)

// JSONEventRepository keeps the full event collection in memory and mirrors
// every mutation to a JSON document file. A single mutex serializes writers
// so a long-lived process (serve mode) never exposes partial updates.
type JSONEventRepository struct {
	file *storage.DocumentFile

	mu      sync.RWMutex
	events  []*entity.Event
	skipped int
}

// NewJSONEventRepository loads the document file. Malformed records are
// rejected one by one — logged with their position — and never abort the
// load of the remaining valid records.
func NewJSONEventRepository(file *storage.DocumentFile) (*JSONEventRepository, error) {
	records, err := file.ReadRecords()
	if err != nil {
		return nil, err
	}

	repo := &JSONEventRepository{file: file}
	for i, raw := range records {
		var e entity.Event
		if err := json.Unmarshal(raw, &e); err != nil {
			logger.Error("EventRepository:Load: malformed record", "index", i, "error", err)
			repo.skipped++
			continue
		}
		if err := e.Validate(); err != nil {
			logger.Error("EventRepository:Load: invalid record", "index", i, "id", e.ID, "error", err)
			repo.skipped++
			continue
		}
		repo.events = append(repo.events, &e)
	}

	if repo.skipped > 0 {
		logger.Warn("EventRepository:Load: skipped records", "skipped", repo.skipped, "loaded", len(repo.events))
	}
	return repo, nil
}

// SkippedRecords reports how many stored records were rejected at load time.
func (r *JSONEventRepository) SkippedRecords() int {
	return r.skipped
}

func (r *JSONEventRepository) Insert(ctx context.Context, event *entity.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.events {
		if e.ID == event.ID {
			return fmt.Errorf("event %s already exists", event.ID)
		}
	}

	r.events = append(r.events, event.Clone())
	if err := r.persist(); err != nil {
		r.events = r.events[:len(r.events)-1]
		return err
	}
	return nil
}

func (r *JSONEventRepository) GetByID(ctx context.Context, id string) (*entity.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, e := range r.events {
		if e.ID == id {
			return e.Clone(), nil
		}
	}
	return nil, nil
}

func (r *JSONEventRepository) Update(ctx context.Context, event *entity.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, e := range r.events {
		if e.ID == event.ID {
			previous := r.events[i]
			r.events[i] = event.Clone()
			if err := r.persist(); err != nil {
				r.events[i] = previous
				return err
			}
			return nil
		}
	}
	return fmt.Errorf("event %s not found", event.ID)
}

func (r *JSONEventRepository) Delete(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, e := range r.events {
		if e.ID == id {
			removed := r.events[i]
			r.events = append(r.events[:i], r.events[i+1:]...)
			if err := r.persist(); err != nil {
				r.events = append(r.events[:i], append([]*entity.Event{removed}, r.events[i:]...)...)
				return false, err
			}
			return true, nil
		}
	}
	return false, nil
}

func (r *JSONEventRepository) DeleteByDate(ctx context.Context, date string) ([]entity.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var deleted []entity.Event
	remaining := make([]*entity.Event, 0, len(r.events))
	for _, e := range r.events {
		if e.Date == date {
			deleted = append(deleted, *e.Clone())
		} else {
			remaining = append(remaining, e)
		}
	}

	if len(deleted) == 0 {
		return nil, nil
	}

	previous := r.events
	r.events = remaining
	if err := r.persist(); err != nil {
		r.events = previous
		return nil, err
	}
	return deleted, nil
}

func (r *JSONEventRepository) List(ctx context.Context) ([]entity.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]entity.Event, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, *e.Clone())
	}
	return out, nil
}

// persist rewrites the document file. Callers hold the write lock.
func (r *JSONEventRepository) persist() error {
	if err := r.file.WriteRecords(r.events); err != nil {
		logger.Error("EventRepository:persist", err)
		return err
	}
	return nil
}
