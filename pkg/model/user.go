package model

import "time"

const (
	RoleGuest = "guest"
	RoleHost  = "host"
	RoleAdmin = "admin"

	// StatusRequested marks a guest who asked to become a host and is
	// waiting for an admin to flip their role.
	StatusRequested = "Requested"
	StatusVerified  = "Verified"
)

type User struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty"`
	Email     string    `json:"email" bson:"email" validate:"required,email"`
	Name      string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Photo     string    `json:"photo,omitempty" bson:"photo,omitempty" validate:"omitempty,url"`
	Role      string    `json:"role" bson:"role" validate:"omitempty,oneof=guest host admin"`
	Status    string    `json:"status,omitempty" bson:"status,omitempty" validate:"omitempty,oneof=Requested Verified"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}

// Identity is the verified caller identity injected by the gateway. The
// service trusts it and never re-verifies credentials.
type Identity struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Role  string `json:"role"`
}
