package validator

import (
	"strings"
	"testing"

	"nomadhub/pkg/model"
)

func validRoom() *model.Room {
	return &model.Room{
		Title:    "Cozy Loft",
		Category: "loft",
		Location: "Lisbon, Portugal",
		Price:    "125.00",
		Status:   model.RoomAvailable,
		Host: model.HostInfo{
			Email: "host@example.com",
			Name:  "Ana Silva",
		},
	}
}

func TestValidate_ValidRoom(t *testing.T) {
	v := NewRoomValidator()
	if err := v.Validate(validRoom()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_PriceRules(t *testing.T) {
	tests := []struct {
		name  string
		price string
		valid bool
	}{
		{"plain integer", "80", true},
		{"two decimals", "99.99", true},
		{"zero", "0", false},
		{"negative", "-10", false},
		{"non numeric", "cheap", false},
		{"empty", "", false},
	}

	v := NewRoomValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			room := validRoom()
			room.Price = tt.price
			err := v.Validate(room)
			if tt.valid && err != nil {
				t.Errorf("expected valid, got %v", err)
			}
			if !tt.valid && err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestValidate_MissingFields(t *testing.T) {
	v := NewRoomValidator()
	room := validRoom()
	room.Title = ""
	room.Host.Email = "not-an-email"

	err := v.Validate(room)
	if err == nil {
		t.Fatal("expected validation error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "Title") || !strings.Contains(msg, "Email") {
		t.Errorf("expected both Title and Email errors, got: %s", msg)
	}
}
