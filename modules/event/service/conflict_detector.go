package service

import (
	"context"

	"calctl/core/logger"
	"calctl/modules/event/entity"
	"calctl/modules/event/repository"
)

// ConflictDetector finds stored events whose intervals overlap a candidate
// span. Overlap is half-open on absolute instants, so events on different
// dates never conflict unless one actually runs past midnight into the other.
type ConflictDetector struct {
	repo repository.EventRepositoryInterface
}

func NewConflictDetector(repo repository.EventRepositoryInterface) *ConflictDetector {
	return &ConflictDetector{repo: repo}
}

// FindConflicts returns every stored event overlapping span, in stored
// order. excludeID skips one event — used when checking an edit against
// everything but itself.
func (d *ConflictDetector) FindConflicts(ctx context.Context, span entity.TimeSpan, excludeID string) ([]entity.Event, error) {
	events, err := d.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	var conflicts []entity.Event
	for i := range events {
		e := &events[i]
		if excludeID != "" && e.ID == excludeID {
			continue
		}

		existing, err := e.Span()
		if err != nil {
			// Stored events are validated at every boundary; an unparsable
			// record here means the store was tampered with.
			logger.Warn("ConflictDetector: unparsable stored event", "id", e.ID, "error", err)
			continue
		}

		if span.Overlaps(existing) {
			conflicts = append(conflicts, *e)
		}
	}
	return conflicts, nil
}

// HasConflict reports whether any stored event overlaps span.
func (d *ConflictDetector) HasConflict(ctx context.Context, span entity.TimeSpan, excludeID string) (bool, error) {
	conflicts, err := d.FindConflicts(ctx, span, excludeID)
	if err != nil {
		return false, err
	}
	return len(conflicts) > 0, nil
}
