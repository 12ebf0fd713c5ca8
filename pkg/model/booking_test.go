package model

import (
	"testing"
	"time"
)

func TestBookingOverlaps(t *testing.T) {
	base := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	hour := func(h int) time.Time { return base.Add(time.Duration(h) * time.Hour) }

	booking := &Booking{StartTime: hour(10), EndTime: hour(12)}

	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  bool
	}{
		{"identical window", hour(10), hour(12), true},
		{"contained", hour(10), hour(11), true},
		{"containing", hour(9), hour(13), true},
		{"overlaps start", hour(9), hour(11), true},
		{"overlaps end", hour(11), hour(13), true},
		{"ends exactly at start", hour(8), hour(10), false},
		{"starts exactly at end", hour(12), hour(14), false},
		{"well before", hour(6), hour(8), false},
		{"well after", hour(14), hour(16), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := booking.Overlaps(tt.start, tt.end); got != tt.want {
				t.Errorf("Overlaps(%s, %s) = %v, want %v", tt.start, tt.end, got, tt.want)
			}
		})
	}
}
