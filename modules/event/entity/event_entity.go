package entity

import (
	"errors"
	"strings"
	"time"

	"calctl/core/constants"
)

// Event is one calendar entry. Date and StartTime stay in their wire form
// ("2006-01-02" / "15:04"); both combine into a single naive local instant
// for all comparisons.
type Event struct {
	ID              string    `db:"id" json:"id"`
	Title           string    `db:"title" json:"title"`
	Date            string    `db:"date" json:"date"`
	StartTime       string    `db:"start_time" json:"start_time"`
	DurationMinutes int       `db:"duration_minutes" json:"duration_minutes"`
	Location        *string   `db:"location" json:"location,omitempty"`
	Description     *string   `db:"description" json:"description,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// Validate checks the record invariants. It does not mutate the event.
func (e *Event) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return errors.New("event title cannot be empty")
	}
	if e.DurationMinutes <= 0 {
		return errors.New("event duration must be positive")
	}
	if _, err := time.ParseInLocation(constants.DateFormat, e.Date, time.Local); err != nil {
		return errors.New("event date must be in YYYY-MM-DD format")
	}
	if _, err := time.ParseInLocation(constants.TimeFormat, e.StartTime, time.Local); err != nil {
		return errors.New("event start time must be in HH:MM format")
	}
	return nil
}

// Normalize trims text fields and drops empty optionals.
func (e *Event) Normalize() {
	e.Title = strings.TrimSpace(e.Title)
	e.Location = trimOptional(e.Location)
	e.Description = trimOptional(e.Description)
}

// Span returns the [start, end) interval of the event. It fails only on
// records that never passed Validate.
func (e *Event) Span() (TimeSpan, error) {
	start, err := time.ParseInLocation(
		constants.DateFormat+" "+constants.TimeFormat,
		e.Date+" "+e.StartTime,
		time.Local,
	)
	if err != nil {
		return TimeSpan{}, err
	}
	return TimeSpan{
		Start: start,
		End:   start.Add(time.Duration(e.DurationMinutes) * time.Minute),
	}, nil
}

// EndTime returns the wall-clock end of the event ("HH:MM"), empty on
// unvalidated records.
func (e *Event) EndTime() string {
	span, err := e.Span()
	if err != nil {
		return ""
	}
	return span.End.Format(constants.TimeFormat)
}

// Clone returns an independent copy, so callers never hold references into
// the store.
func (e *Event) Clone() *Event {
	clone := *e
	if e.Location != nil {
		v := *e.Location
		clone.Location = &v
	}
	if e.Description != nil {
		v := *e.Description
		clone.Description = &v
	}
	return &clone
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
