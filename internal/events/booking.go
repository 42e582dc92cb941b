// Package events publishes booking lifecycle events for downstream
// consumers (notifications, analytics). Publishing is best effort: a broker
// outage never fails the booking request that triggered the event.
package events

import (
	"context"
	"time"

	"nomadhub/pkg/kafka"
	"nomadhub/pkg/logger"
	"nomadhub/pkg/model"
)

const (
	TypeBookingCreated   = "booking.created"
	TypeBookingCancelled = "booking.cancelled"

	source = "nomadhub-api"
)

type BookingEvent struct {
	BookingID  string    `json:"booking_id"`
	RoomID     string    `json:"room_id"`
	GuestEmail string    `json:"guest_email"`
	HostEmail  string    `json:"host_email"`
	Price      string    `json:"price"`
	Date       time.Time `json:"date"`
}

type producer interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

// BookingPublisher emits booking events keyed by room id so events for one
// room stay ordered. A nil publisher is valid and publishes nothing.
type BookingPublisher struct {
	producer producer
	log      *logger.Logger
}

func NewBookingPublisher(p *kafka.Producer, log *logger.Logger) *BookingPublisher {
	if p == nil {
		return nil
	}
	return &BookingPublisher{producer: p, log: log}
}

func (p *BookingPublisher) BookingCreated(ctx context.Context, booking *model.Booking) {
	p.publish(ctx, TypeBookingCreated, booking)
}

func (p *BookingPublisher) BookingCancelled(ctx context.Context, booking *model.Booking) {
	p.publish(ctx, TypeBookingCancelled, booking)
}

func (p *BookingPublisher) publish(ctx context.Context, eventType string, booking *model.Booking) {
	if p == nil {
		return
	}

	msg, err := kafka.NewMessage(booking.RoomID, eventType, source, BookingEvent{
		BookingID:  booking.ID,
		RoomID:     booking.RoomID,
		GuestEmail: booking.GuestEmail,
		HostEmail:  booking.Host.Email,
		Price:      booking.Price,
		Date:       booking.Date,
	})
	if err != nil {
		p.log.Error("Failed to encode booking event", "event_type", eventType, "booking_id", booking.ID, "error", err)
		return
	}

	if err := p.producer.Publish(ctx, msg); err != nil {
		p.log.Error("Failed to publish booking event", "event_type", eventType, "booking_id", booking.ID, "error", err)
	}
}
