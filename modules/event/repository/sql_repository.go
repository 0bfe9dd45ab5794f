package repository

import (
	"context"
	"database/sql"
	"errors"

	"calctl/core/database"
	"calctl/core/logger"
	"calctl/modules/event/entity"
)

// SQLEventRepository stores events in the sqlite or postgres backend. Rows
// are ordered by the seq column, which matches insertion order.
type SQLEventRepository struct {
	DB database.IDatabase
}

func NewSQLEventRepository(db database.IDatabase) *SQLEventRepository {
	return &SQLEventRepository{DB: db}
}

const eventColumns = `id, title, date, start_time, duration_minutes, location, description, created_at, updated_at`

func (r *SQLEventRepository) Insert(ctx context.Context, event *entity.Event) error {
	query := `
		INSERT INTO events (` + eventColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	err := r.DB.ExecContext(ctx, query,
		event.ID, event.Title, event.Date, event.StartTime, event.DurationMinutes,
		event.Location, event.Description, event.CreatedAt, event.UpdatedAt)
	if err != nil {
		logger.Error("SQLEventRepository:Insert", err)
		return err
	}
	return nil
}

func (r *SQLEventRepository) GetByID(ctx context.Context, id string) (*entity.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = ?`

	var event entity.Event
	err := r.DB.GetContext(ctx, &event, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		logger.Error("SQLEventRepository:GetByID", err)
		return nil, err
	}
	return &event, nil
}

func (r *SQLEventRepository) Update(ctx context.Context, event *entity.Event) error {
	query := `
		UPDATE events
		SET title = ?, date = ?, start_time = ?, duration_minutes = ?,
		    location = ?, description = ?, updated_at = ?
		WHERE id = ?
	`

	err := r.DB.ExecContext(ctx, query,
		event.Title, event.Date, event.StartTime, event.DurationMinutes,
		event.Location, event.Description, event.UpdatedAt, event.ID)
	if err != nil {
		logger.Error("SQLEventRepository:Update", err)
		return err
	}
	return nil
}

func (r *SQLEventRepository) Delete(ctx context.Context, id string) (bool, error) {
	existing, err := r.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	if existing == nil {
		return false, nil
	}

	if err := r.DB.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id); err != nil {
		logger.Error("SQLEventRepository:Delete", err)
		return false, err
	}
	return true, nil
}

func (r *SQLEventRepository) DeleteByDate(ctx context.Context, date string) ([]entity.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE date = ? ORDER BY seq`

	var doomed []entity.Event
	if err := r.DB.SelectContext(ctx, &doomed, query, date); err != nil {
		logger.Error("SQLEventRepository:DeleteByDate", err)
		return nil, err
	}
	if len(doomed) == 0 {
		return nil, nil
	}

	if err := r.DB.ExecContext(ctx, `DELETE FROM events WHERE date = ?`, date); err != nil {
		logger.Error("SQLEventRepository:DeleteByDate", err)
		return nil, err
	}
	return doomed, nil
}

func (r *SQLEventRepository) List(ctx context.Context) ([]entity.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events ORDER BY seq`

	var events []entity.Event
	if err := r.DB.SelectContext(ctx, &events, query); err != nil {
		logger.Error("SQLEventRepository:List", err)
		return nil, err
	}
	return events, nil
}
