package model

import (
	"time"
)

// Booking is a confirmed reservation of one resource by one user for a
// contiguous time interval. There is no update-in-place; a change is modeled
// as cancel + recreate.
type Booking struct {
	ID         string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,uuid4"`
	ResourceID string    `json:"resource_id" bson:"resource_id" validate:"required,min=1,max=64"`
	UserID     string    `json:"user_id" bson:"user_id" validate:"required,min=1,max=128"`
	StartTime  time.Time `json:"start_time" bson:"start_time" validate:"required"`
	EndTime    time.Time `json:"end_time" bson:"end_time" validate:"required"`
	Purpose    string    `json:"purpose" bson:"purpose" validate:"required,min=2,max=200"`
	Attendees  int       `json:"attendees" bson:"attendees" validate:"required,min=1"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// Overlaps reports whether the booking's [StartTime, EndTime) interval shares
// at least one instant with [start, end).
func (b *Booking) Overlaps(start, end time.Time) bool {
	return b.StartTime.Before(end) && b.EndTime.After(start)
}
