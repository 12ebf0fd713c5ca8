// Package events emits the booking event stream consumed by the portal's
// notification side. Publishing is best-effort: a broker outage must never
// fail a booking request.
package events

import (
	"context"
	"time"

	"communityportal/pkg/kafka"
	"communityportal/pkg/logger"
	"communityportal/pkg/model"
)

const (
	EventBookingCreated   = "booking.created"
	EventBookingCancelled = "booking.cancelled"
	EventBookingsExpired  = "booking.expired"

	source = "bookings-service"
)

type Publisher interface {
	BookingCreated(ctx context.Context, booking *model.Booking)
	BookingCancelled(ctx context.Context, booking *model.Booking)
	BookingsExpired(ctx context.Context, removed int64, sweptAt time.Time)
}

type bookingEvent struct {
	BookingID  string    `json:"booking_id"`
	ResourceID string    `json:"resource_id"`
	UserID     string    `json:"user_id"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
}

type expiryEvent struct {
	Removed int64     `json:"removed"`
	SweptAt time.Time `json:"swept_at"`
}

type kafkaPublisher struct {
	producer *kafka.Producer
	log      *logger.Logger
}

func NewKafkaPublisher(producer *kafka.Producer, log *logger.Logger) Publisher {
	return &kafkaPublisher{
		producer: producer,
		log:      log,
	}
}

func (p *kafkaPublisher) BookingCreated(ctx context.Context, booking *model.Booking) {
	p.publish(ctx, EventBookingCreated, booking)
}

func (p *kafkaPublisher) BookingCancelled(ctx context.Context, booking *model.Booking) {
	p.publish(ctx, EventBookingCancelled, booking)
}

func (p *kafkaPublisher) publish(ctx context.Context, eventType string, booking *model.Booking) {
	msg, err := kafka.NewMessage(eventType, booking.ResourceID, bookingEvent{
		BookingID:  booking.ID,
		ResourceID: booking.ResourceID,
		UserID:     booking.UserID,
		StartTime:  booking.StartTime,
		EndTime:    booking.EndTime,
	}, source)
	if err != nil {
		p.log.Error("Failed to build booking event", "event_type", eventType, "error", err)
		return
	}

	if err := p.producer.Publish(ctx, msg); err != nil {
		p.log.Error("Failed to publish booking event",
			"event_type", eventType,
			"booking_id", booking.ID,
			"error", err,
		)
	}
}

func (p *kafkaPublisher) BookingsExpired(ctx context.Context, removed int64, sweptAt time.Time) {
	if removed == 0 {
		return
	}

	msg, err := kafka.NewMessage(EventBookingsExpired, "expiry-sweep", expiryEvent{
		Removed: removed,
		SweptAt: sweptAt,
	}, source)
	if err != nil {
		p.log.Error("Failed to build expiry event", "error", err)
		return
	}

	if err := p.producer.Publish(ctx, msg); err != nil {
		p.log.Error("Failed to publish expiry event", "removed", removed, "error", err)
	}
}

// NoopPublisher is wired when no Kafka brokers are configured.
type NoopPublisher struct{}

func (NoopPublisher) BookingCreated(context.Context, *model.Booking)    {}
func (NoopPublisher) BookingCancelled(context.Context, *model.Booking)  {}
func (NoopPublisher) BookingsExpired(context.Context, int64, time.Time) {}
