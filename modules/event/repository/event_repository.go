package repository

import (
	"context"
	"fmt"

	"calctl/core/config"
	"calctl/core/constants"
	"calctl/core/database"
	"calctl/core/storage"
	"calctl/modules/event/entity"
)

// EventRepositoryInterface is the event store contract. Implementations own
// every stored record: callers always receive copies, and a failed mutation
// leaves the stored collection unchanged.
type EventRepositoryInterface interface {
	// Insert adds a validated event. The id must already be assigned.
	Insert(ctx context.Context, event *entity.Event) error
	// GetByID returns a copy of the event, or (nil, nil) when absent.
	GetByID(ctx context.Context, id string) (*entity.Event, error)
	// Update replaces the stored record with the same id.
	Update(ctx context.Context, event *entity.Event) error
	// Delete removes one event and reports whether the id existed.
	Delete(ctx context.Context, id string) (bool, error)
	// DeleteByDate removes every event on the given date and returns the
	// removed records in their stored order.
	DeleteByDate(ctx context.Context, date string) ([]entity.Event, error)
	// List returns a snapshot of all events in insertion order.
	List(ctx context.Context) ([]entity.Event, error)
}

// NewFromConfig builds the repository for the configured storage driver and
// returns it with a close function.
func NewFromConfig(cfg *config.Config) (EventRepositoryInterface, func() error, error) {
	switch cfg.Storage.Driver {
	case constants.StorageDriverJSON:
		repo, err := NewJSONEventRepository(storage.NewDocumentFile(cfg.Storage.Path))
		if err != nil {
			return nil, nil, err
		}
		return repo, func() error { return nil }, nil

	case constants.StorageDriverSQLite, constants.StorageDriverPostgres:
		db, err := database.Open(cfg.Storage)
		if err != nil {
			return nil, nil, err
		}
		return NewSQLEventRepository(db), db.Close, nil

	default:
		return nil, nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}
}
