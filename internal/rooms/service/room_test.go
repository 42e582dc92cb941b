package service

import (
	"context"
	"testing"

	roomserrors "nomadhub/internal/rooms/errors"
	"nomadhub/internal/rooms/validator"
	"nomadhub/pkg/config"
	mongotx "nomadhub/pkg/db/mongo"
	apperrors "nomadhub/pkg/errors"
	"nomadhub/pkg/logger"
	"nomadhub/pkg/model"
)

type mockRoomRepository struct {
	createFn          func(ctx context.Context, room *model.Room) error
	findByIDFn        func(ctx context.Context, id string) (*model.Room, error)
	findAllFn         func(ctx context.Context, category string, limit int, offset int64) ([]*model.Room, error)
	findByHostFn      func(ctx context.Context, hostEmail string) ([]*model.Room, error)
	deleteFn          func(ctx context.Context, id string) error
	countFn           func(ctx context.Context) (int64, error)
	countByCategoryFn func(ctx context.Context, category string) (int64, error)
	countByHostFn     func(ctx context.Context, hostEmail string) (int64, error)
	updateStatusFn    func(ctx context.Context, id string, expected, next model.RoomStatus) error
}

func (m *mockRoomRepository) Create(ctx context.Context, room *model.Room) error {
	return m.createFn(ctx, room)
}

func (m *mockRoomRepository) FindByID(ctx context.Context, id string) (*model.Room, error) {
	return m.findByIDFn(ctx, id)
}

func (m *mockRoomRepository) FindAll(ctx context.Context, category string, limit int, offset int64) ([]*model.Room, error) {
	return m.findAllFn(ctx, category, limit, offset)
}

func (m *mockRoomRepository) FindByHost(ctx context.Context, hostEmail string) ([]*model.Room, error) {
	return m.findByHostFn(ctx, hostEmail)
}

func (m *mockRoomRepository) Delete(ctx context.Context, id string) error {
	return m.deleteFn(ctx, id)
}

func (m *mockRoomRepository) Count(ctx context.Context) (int64, error) {
	return m.countFn(ctx)
}

func (m *mockRoomRepository) CountByCategory(ctx context.Context, category string) (int64, error) {
	return m.countByCategoryFn(ctx, category)
}

func (m *mockRoomRepository) CountByHost(ctx context.Context, hostEmail string) (int64, error) {
	return m.countByHostFn(ctx, hostEmail)
}

func (m *mockRoomRepository) UpdateStatus(ctx context.Context, id string, expected, next model.RoomStatus) error {
	return m.updateStatusFn(ctx, id, expected, next)
}

func (m *mockRoomRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

func testConfig() *config.Config {
	return &config.Config{Log: logger.Discard()}
}

func validRoom() *model.Room {
	return &model.Room{
		Title:    "Loft by the canal",
		Category: "city",
		Location: "Amsterdam, NL",
		Price:    "120.00",
		Host:     model.HostInfo{Email: "host@example.com", Name: "Host"},
	}
}

func hostIdentity() model.Identity {
	return model.Identity{Email: "Host@Example.com", Name: "Host", Role: model.RoleHost}
}

func TestRoomServiceCreate(t *testing.T) {
	repo := &mockRoomRepository{
		createFn: func(ctx context.Context, room *model.Room) error {
			room.ID = "room-1"
			return nil
		},
	}
	svc := NewRoomService(repo, validator.NewRoomValidator(), testConfig())

	room := validRoom()
	room.Status = model.RoomBooked // must be ignored

	if err := svc.Create(context.Background(), hostIdentity(), room); err != nil {
		t.Fatalf("expected create to succeed, got %v", err)
	}
	if room.Status != model.RoomAvailable {
		t.Errorf("expected new room status %q, got %q", model.RoomAvailable, room.Status)
	}
	if room.Host.Email != "host@example.com" {
		t.Errorf("expected host email from identity, got %q", room.Host.Email)
	}
	if room.ID != "room-1" {
		t.Errorf("expected assigned ID, got %q", room.ID)
	}
}

func TestRoomServiceCreateValidationFailure(t *testing.T) {
	called := false
	repo := &mockRoomRepository{
		createFn: func(ctx context.Context, room *model.Room) error {
			called = true
			return nil
		},
	}
	svc := NewRoomService(repo, validator.NewRoomValidator(), testConfig())

	room := validRoom()
	room.Price = "-5.00"

	err := svc.Create(context.Background(), hostIdentity(), room)
	if !apperrors.HasCode(err, apperrors.CodeValidation) {
		t.Fatalf("expected %s, got %v", apperrors.CodeValidation, err)
	}
	if called {
		t.Error("repository should not be called when validation fails")
	}
}

func TestRoomServiceGetByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		repo := &mockRoomRepository{
			findByIDFn: func(ctx context.Context, id string) (*model.Room, error) {
				return &model.Room{ID: id, Title: "Loft"}, nil
			},
		}
		svc := NewRoomService(repo, validator.NewRoomValidator(), testConfig())

		room, err := svc.GetByID(context.Background(), "room-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if room.ID != "room-1" {
			t.Errorf("expected room-1, got %q", room.ID)
		}
	})

	t.Run("not found", func(t *testing.T) {
		repo := &mockRoomRepository{
			findByIDFn: func(ctx context.Context, id string) (*model.Room, error) {
				return nil, roomserrors.ErrNotFound
			},
		}
		svc := NewRoomService(repo, validator.NewRoomValidator(), testConfig())

		_, err := svc.GetByID(context.Background(), "missing")
		if !apperrors.HasCode(err, apperrors.CodeNotFound) {
			t.Fatalf("expected %s, got %v", apperrors.CodeNotFound, err)
		}
	})

	t.Run("invalid id", func(t *testing.T) {
		repo := &mockRoomRepository{
			findByIDFn: func(ctx context.Context, id string) (*model.Room, error) {
				return nil, roomserrors.ErrInvalidID
			},
		}
		svc := NewRoomService(repo, validator.NewRoomValidator(), testConfig())

		_, err := svc.GetByID(context.Background(), "!!!")
		if !apperrors.HasCode(err, apperrors.CodeInvalidInput) {
			t.Fatalf("expected %s, got %v", apperrors.CodeInvalidInput, err)
		}
	})
}

func TestRoomServiceGetAll(t *testing.T) {
	repo := &mockRoomRepository{
		countByCategoryFn: func(ctx context.Context, category string) (int64, error) {
			if category != "beach" {
				t.Errorf("expected normalized category, got %q", category)
			}
			return 2, nil
		},
		findAllFn: func(ctx context.Context, category string, limit int, offset int64) ([]*model.Room, error) {
			return []*model.Room{{ID: "a"}, {ID: "b"}}, nil
		},
	}
	svc := NewRoomService(repo, validator.NewRoomValidator(), testConfig())

	rooms, total, err := svc.GetAll(context.Background(), "  Beach ", 10, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 2 || len(rooms) != 2 {
		t.Errorf("expected 2 rooms and total 2, got %d rooms, total %d", len(rooms), total)
	}
}

func TestRoomServiceDelete(t *testing.T) {
	booked := &model.Room{
		ID:     "room-1",
		Status: model.RoomBooked,
		Host:   model.HostInfo{Email: "host@example.com"},
	}
	available := &model.Room{
		ID:     "room-1",
		Status: model.RoomAvailable,
		Host:   model.HostInfo{Email: "host@example.com"},
	}

	t.Run("booked room is rejected", func(t *testing.T) {
		repo := &mockRoomRepository{
			findByIDFn: func(ctx context.Context, id string) (*model.Room, error) {
				return booked, nil
			},
		}
		svc := NewRoomService(repo, validator.NewRoomValidator(), testConfig())

		err := svc.Delete(context.Background(), hostIdentity(), "room-1")
		if !apperrors.HasCode(err, apperrors.CodeRoomUnavailable) {
			t.Fatalf("expected %s, got %v", apperrors.CodeRoomUnavailable, err)
		}
	})

	t.Run("foreign host is rejected", func(t *testing.T) {
		repo := &mockRoomRepository{
			findByIDFn: func(ctx context.Context, id string) (*model.Room, error) {
				return available, nil
			},
		}
		svc := NewRoomService(repo, validator.NewRoomValidator(), testConfig())

		other := model.Identity{Email: "other@example.com", Role: model.RoleHost}
		err := svc.Delete(context.Background(), other, "room-1")
		if !apperrors.HasCode(err, apperrors.CodeNotAuthorized) {
			t.Fatalf("expected %s, got %v", apperrors.CodeNotAuthorized, err)
		}
	})

	t.Run("admin may delete any available room", func(t *testing.T) {
		deleted := false
		repo := &mockRoomRepository{
			findByIDFn: func(ctx context.Context, id string) (*model.Room, error) {
				return available, nil
			},
			deleteFn: func(ctx context.Context, id string) error {
				deleted = true
				return nil
			},
		}
		svc := NewRoomService(repo, validator.NewRoomValidator(), testConfig())

		admin := model.Identity{Email: "admin@example.com", Role: model.RoleAdmin}
		if err := svc.Delete(context.Background(), admin, "room-1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !deleted {
			t.Error("expected repository delete to be called")
		}
	})
}
