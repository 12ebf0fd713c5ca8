package service

import (
	"time"

	apperrors "communityportal/pkg/errors"
	"communityportal/pkg/model"
)

// OpenSlots computes the bookable start times for one resource on one
// calendar day. Slots start on the whole hour in [openHour, closeHour) and
// must end by closeHour. A slot is dropped when it would end at or before
// now, or when it overlaps any booking in the snapshot. The result is
// ascending by start hour; empty means no availability, which is not an
// error.
//
// The function is pure over its inputs: passing a past day simply yields an
// empty result.
func OpenSlots(existing []*model.Booking, day time.Time, durationHours, openHour, closeHour int, now time.Time) ([]model.Slot, error) {
	if durationHours <= 0 {
		return nil, apperrors.InvalidInput("duration must be a positive number of hours")
	}

	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())

	var slots []model.Slot
	for hour := openHour; hour+durationHours <= closeHour; hour++ {
		start := dayStart.Add(time.Duration(hour) * time.Hour)
		end := start.Add(time.Duration(durationHours) * time.Hour)

		if !end.After(now) {
			continue
		}

		if overlapsAny(existing, start, end) {
			continue
		}

		slots = append(slots, model.Slot{
			StartHour:     hour,
			DurationHours: durationHours,
			StartTime:     start,
			EndTime:       end,
		})
	}

	return slots, nil
}

func overlapsAny(bookings []*model.Booking, start, end time.Time) bool {
	for _, b := range bookings {
		if b.Overlaps(start, end) {
			return true
		}
	}
	return false
}
