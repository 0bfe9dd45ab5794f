package dto

import (
	eventdto "calctl/modules/event/dto"
)

// ListRequest mirrors the `calctl list` filters. At most one of Today/Week
// or the From/To pair applies; with nothing set the listing starts today.
type ListRequest struct {
	From  string `query:"from"`
	To    string `query:"to"`
	Today bool   `query:"today"`
	Week  bool   `query:"week"`
}

// DayAgendaResponse is the agenda for a single date.
type DayAgendaResponse struct {
	Type        string                   `json:"type"`
	Date        string                   `json:"date"`
	Events      []eventdto.EventResponse `json:"events"`
	TotalEvents int                      `json:"total_events"`
}

// WeekAgendaResponse groups a week of events by date.
type WeekAgendaResponse struct {
	Type         string                              `json:"type"`
	From         string                              `json:"from"`
	To           string                              `json:"to"`
	EventsByDate map[string][]eventdto.EventResponse `json:"events_by_date"`
	TotalEvents  int                                 `json:"total_events"`
}
