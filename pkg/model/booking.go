package model

import "time"

// Booking is a confirmed reservation of a room. It is append-only: the only
// mutation after creation is deletion on cancellation.
type Booking struct {
	ID         string    `json:"id,omitempty" bson:"_id,omitempty"`
	RoomID     string    `json:"room_id" bson:"room_id"`
	RoomTitle  string    `json:"room_title" bson:"room_title"`
	Host       HostInfo  `json:"host" bson:"host"`
	GuestEmail string    `json:"guest_email" bson:"guest_email"`
	GuestName  string    `json:"guest_name,omitempty" bson:"guest_name,omitempty"`
	Date       time.Time `json:"date" bson:"date"`
	Price      string    `json:"price" bson:"price"`
	PaymentRef string    `json:"payment_ref" bson:"payment_ref"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
}

// BookingRequest is the payload a guest submits to reserve a room. Fields are
// validated before any side effect.
type BookingRequest struct {
	RoomID string    `json:"room_id" validate:"required,mongodb"`
	Date   time.Time `json:"date" validate:"required"`
	Price  string    `json:"price" validate:"required"`
}
