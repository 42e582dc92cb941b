package model

import "time"

// RoomStatus is the availability flag of a listing. It only ever changes
// through the room repository's guarded status update, never from raw
// client input.
type RoomStatus string

const (
	RoomAvailable RoomStatus = "Available"
	RoomBooked    RoomStatus = "Booked"
)

// HostInfo is the owner identity embedded in rooms and denormalized into
// bookings for query convenience.
type HostInfo struct {
	Email string `json:"email" bson:"email" validate:"required,email"`
	Name  string `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Photo string `json:"photo,omitempty" bson:"photo,omitempty" validate:"omitempty,url"`
}

type Room struct {
	ID          string     `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Title       string     `json:"title" bson:"title" validate:"required,min=2,max=120"`
	Category    string     `json:"category" bson:"category" validate:"required,min=2,max=60"`
	Location    string     `json:"location" bson:"location" validate:"required,min=2,max=120"`
	Description string     `json:"description,omitempty" bson:"description,omitempty" validate:"omitempty,max=2000"`
	Image       string     `json:"image,omitempty" bson:"image,omitempty" validate:"omitempty,url"`
	Price       string     `json:"price" bson:"price" validate:"required"`
	Status      RoomStatus `json:"status" bson:"status" validate:"omitempty,oneof=Available Booked"`
	Host        HostInfo   `json:"host" bson:"host"`
	CreatedAt   time.Time  `json:"created_at" bson:"created_at"`
}
