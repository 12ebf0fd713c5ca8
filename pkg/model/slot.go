package model

import "time"

// Slot is a candidate, not-yet-committed start time for a booking of a given
// duration. Slots are derived fresh on every availability request and never
// persisted.
type Slot struct {
	StartHour     int       `json:"start_hour"`
	DurationHours int       `json:"duration_hours"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
}
