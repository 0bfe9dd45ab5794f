package entity

import "time"

// TimeSpan is a half-open interval [Start, End).
type TimeSpan struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether two spans intersect. Touching endpoints do not
// overlap: an event ending at 11:00 does not conflict with one starting
// at 11:00.
func (s TimeSpan) Overlaps(other TimeSpan) bool {
	return s.Start.Before(other.End) && s.End.After(other.Start)
}
