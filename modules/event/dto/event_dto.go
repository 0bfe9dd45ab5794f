package dto

import (
	"time"

	"calctl/modules/event/entity"
)

// ===================== Request DTOs =====================

// CreateEventRequest for adding a new event.
type CreateEventRequest struct {
	Title           string `json:"title"`
	Date            string `json:"date"`       // YYYY-MM-DD
	StartTime       string `json:"start_time"` // HH:MM
	DurationMinutes int    `json:"duration_minutes"`
	Location        string `json:"location"`
	Description     string `json:"description"`
	// Force schedules the event even when it overlaps existing ones.
	Force bool `json:"force"`
}

// UpdateEventRequest is a partial update: nil fields are left untouched.
// All requested changes validate together or none are applied.
type UpdateEventRequest struct {
	Title           *string `json:"title"`
	Date            *string `json:"date"`
	StartTime       *string `json:"start_time"`
	DurationMinutes *int    `json:"duration_minutes"`
	Location        *string `json:"location"`
	Description     *string `json:"description"`
	Force           bool    `json:"force"`
}

// ===================== Response DTOs =====================

// EventResponse is the serializable shape of one event.
type EventResponse struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Date            string    `json:"date"`
	StartTime       string    `json:"start_time"`
	EndTime         string    `json:"end_time"`
	DurationMinutes int       `json:"duration_minutes"`
	Location        string    `json:"location,omitempty"`
	Description     string    `json:"description,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// EventWithConflicts pairs an event with the events it overlaps. Conflicts
// are only populated on forced mutations and detail views.
type EventWithConflicts struct {
	Event     EventResponse   `json:"event"`
	Conflicts []EventResponse `json:"conflicts,omitempty"`
}

// DeleteByDateResponse reports a bulk delete.
type DeleteByDateResponse struct {
	Date    string          `json:"date"`
	Deleted []EventResponse `json:"deleted"`
	Count   int             `json:"count"`
}

// ===================== Mapper Functions =====================

// ToEventResponse maps entity to DTO.
func ToEventResponse(e *entity.Event) EventResponse {
	resp := EventResponse{
		ID:              e.ID,
		Title:           e.Title,
		Date:            e.Date,
		StartTime:       e.StartTime,
		EndTime:         e.EndTime(),
		DurationMinutes: e.DurationMinutes,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
	if e.Location != nil {
		resp.Location = *e.Location
	}
	if e.Description != nil {
		resp.Description = *e.Description
	}
	return resp
}

// ToEventResponses maps a slice of entities.
func ToEventResponses(events []entity.Event) []EventResponse {
	out := make([]EventResponse, 0, len(events))
	for i := range events {
		out = append(out, ToEventResponse(&events[i]))
	}
	return out
}
