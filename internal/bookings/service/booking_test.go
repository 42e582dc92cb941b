package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	bookingserrors "nomadhub/internal/bookings/errors"
	"nomadhub/internal/bookings/validator"
	"nomadhub/internal/payments"
	roomserrors "nomadhub/internal/rooms/errors"
	"nomadhub/pkg/config"
	mongotx "nomadhub/pkg/db/mongo"
	apperrors "nomadhub/pkg/errors"
	"nomadhub/pkg/logger"
	"nomadhub/pkg/model"
)

// memRoomRepo holds rooms behind a mutex so the conditional status update is
// atomic, the same guarantee the database gives the real repository.
type memRoomRepo struct {
	mu    sync.Mutex
	rooms map[string]*model.Room
}

func newMemRoomRepo(rooms ...*model.Room) *memRoomRepo {
	m := &memRoomRepo{rooms: make(map[string]*model.Room)}
	for _, r := range rooms {
		copied := *r
		m.rooms[r.ID] = &copied
	}
	return m
}

func (m *memRoomRepo) Create(ctx context.Context, room *model.Room) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *room
	m.rooms[room.ID] = &copied
	return nil
}

func (m *memRoomRepo) FindByID(ctx context.Context, id string) (*model.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	room, ok := m.rooms[id]
	if !ok {
		return nil, roomserrors.ErrNotFound
	}
	copied := *room
	return &copied, nil
}

func (m *memRoomRepo) FindAll(ctx context.Context, category string, limit int, offset int64) ([]*model.Room, error) {
	return nil, nil
}

func (m *memRoomRepo) FindByHost(ctx context.Context, hostEmail string) ([]*model.Room, error) {
	return nil, nil
}

func (m *memRoomRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rooms, id)
	return nil
}

func (m *memRoomRepo) Count(ctx context.Context) (int64, error) { return 0, nil }

func (m *memRoomRepo) CountByCategory(ctx context.Context, category string) (int64, error) {
	return 0, nil
}

func (m *memRoomRepo) CountByHost(ctx context.Context, hostEmail string) (int64, error) {
	return 0, nil
}

func (m *memRoomRepo) UpdateStatus(ctx context.Context, id string, expected, next model.RoomStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	room, ok := m.rooms[id]
	if !ok {
		return roomserrors.ErrNotFound
	}
	if room.Status != expected {
		return roomserrors.ErrStatusConflict
	}
	room.Status = next
	return nil
}

func (m *memRoomRepo) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

func (m *memRoomRepo) status(id string) model.RoomStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rooms[id].Status
}

type memBookingRepo struct {
	mu       sync.Mutex
	bookings map[string]*model.Booking
	nextID   int
}

func newMemBookingRepo() *memBookingRepo {
	return &memBookingRepo{bookings: make(map[string]*model.Booking)}
}

func (m *memBookingRepo) Create(ctx context.Context, booking *model.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	booking.ID = fmt.Sprintf("booking-%d", m.nextID)
	booking.CreatedAt = time.Now().UTC()
	copied := *booking
	m.bookings[booking.ID] = &copied
	return nil
}

func (m *memBookingRepo) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	booking, ok := m.bookings[id]
	if !ok {
		return nil, bookingserrors.ErrNotFound
	}
	copied := *booking
	return &copied, nil
}

func (m *memBookingRepo) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Booking
	for _, b := range m.bookings {
		copied := *b
		out = append(out, &copied)
	}
	return out, nil
}

func (m *memBookingRepo) FindByGuest(ctx context.Context, guestEmail string) ([]*model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Booking
	for _, b := range m.bookings {
		if b.GuestEmail == guestEmail {
			copied := *b
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *memBookingRepo) FindByHost(ctx context.Context, hostEmail string) ([]*model.Booking, error) {
	return nil, nil
}

func (m *memBookingRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.bookings[id]; !ok {
		return bookingserrors.ErrNotFound
	}
	delete(m.bookings, id)
	return nil
}

func (m *memBookingRepo) Count(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.bookings)), nil
}

func (m *memBookingRepo) CountByHost(ctx context.Context, hostEmail string) (int64, error) {
	return 0, nil
}

func (m *memBookingRepo) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

func (m *memBookingRepo) size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.bookings)
}

type fakeAuthorizer struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeAuthorizer) Authorize(ctx context.Context, amount int64, metadata map[string]string) (*payments.Authorization, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return &payments.Authorization{Reference: "pi_test", ClientSecret: "pi_test_secret"}, nil
}

func (f *fakeAuthorizer) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

const roomID = "68b1c0ffee0000000000a001"

func availableRoom() *model.Room {
	return &model.Room{
		ID:     roomID,
		Title:  "Cabin in the woods",
		Price:  "100.00",
		Status: model.RoomAvailable,
		Host:   model.HostInfo{Email: "host@example.com", Name: "Host"},
	}
}

func guestIdentity() model.Identity {
	return model.Identity{Email: "guest@example.com", Name: "Guest", Role: model.RoleGuest}
}

func bookingRequest(price string) *model.BookingRequest {
	return &model.BookingRequest{
		RoomID: roomID,
		Date:   time.Date(2026, 6, 3, 0, 0, 0, 0, time.UTC),
		Price:  price,
	}
}

func newTestService(rooms *memRoomRepo, bookings *memBookingRepo, auth *fakeAuthorizer) BookingService {
	cfg := &config.Config{Log: logger.Discard()}
	return NewBookingService(bookings, rooms, validator.NewBookingValidator(), auth, nil, cfg)
}

func TestBookingCreate(t *testing.T) {
	rooms := newMemRoomRepo(availableRoom())
	bookings := newMemBookingRepo()
	auth := &fakeAuthorizer{}
	svc := newTestService(rooms, bookings, auth)

	confirmation, err := svc.Create(context.Background(), guestIdentity(), bookingRequest("100.00"))
	if err != nil {
		t.Fatalf("expected create to succeed, got %v", err)
	}

	if confirmation.ClientSecret != "pi_test_secret" {
		t.Errorf("expected client secret to be surfaced, got %q", confirmation.ClientSecret)
	}
	if confirmation.Booking.PaymentRef != "pi_test" {
		t.Errorf("expected payment reference on booking, got %q", confirmation.Booking.PaymentRef)
	}
	if confirmation.Booking.Price != "100.00" {
		t.Errorf("expected normalized price, got %q", confirmation.Booking.Price)
	}
	if rooms.status(roomID) != model.RoomBooked {
		t.Errorf("expected room to be booked, got %q", rooms.status(roomID))
	}
	if bookings.size() != 1 {
		t.Errorf("expected one stored booking, got %d", bookings.size())
	}
}

func TestBookingCreateRejectsNonPositivePrice(t *testing.T) {
	for _, price := range []string{"0", "0.00", "-10.50"} {
		t.Run(price, func(t *testing.T) {
			rooms := newMemRoomRepo(availableRoom())
			bookings := newMemBookingRepo()
			auth := &fakeAuthorizer{}
			svc := newTestService(rooms, bookings, auth)

			_, err := svc.Create(context.Background(), guestIdentity(), bookingRequest(price))
			if !apperrors.HasCode(err, apperrors.CodeInvalidAmount) {
				t.Fatalf("expected %s, got %v", apperrors.CodeInvalidAmount, err)
			}
			if auth.callCount() != 0 {
				t.Error("authorizer must not be called for a non-positive amount")
			}
			if bookings.size() != 0 {
				t.Error("no booking may be written for a non-positive amount")
			}
			if rooms.status(roomID) != model.RoomAvailable {
				t.Error("room must stay available")
			}
		})
	}
}

func TestBookingCreateRejectsPriceMismatch(t *testing.T) {
	rooms := newMemRoomRepo(availableRoom())
	bookings := newMemBookingRepo()
	auth := &fakeAuthorizer{}
	svc := newTestService(rooms, bookings, auth)

	_, err := svc.Create(context.Background(), guestIdentity(), bookingRequest("99.00"))
	if !apperrors.HasCode(err, apperrors.CodeInvalidAmount) {
		t.Fatalf("expected %s, got %v", apperrors.CodeInvalidAmount, err)
	}
	if auth.callCount() != 0 {
		t.Error("authorizer must not be called when the price does not match the listing")
	}
}

func TestBookingCreateAuthorizationFailure(t *testing.T) {
	rooms := newMemRoomRepo(availableRoom())
	bookings := newMemBookingRepo()
	auth := &fakeAuthorizer{err: apperrors.AuthorizationFailed("card declined", errors.New("declined"))}
	svc := newTestService(rooms, bookings, auth)

	_, err := svc.Create(context.Background(), guestIdentity(), bookingRequest("100.00"))
	if !apperrors.HasCode(err, apperrors.CodeAuthorizationFailed) {
		t.Fatalf("expected %s, got %v", apperrors.CodeAuthorizationFailed, err)
	}
	if bookings.size() != 0 {
		t.Error("no booking may be written when authorization fails")
	}
	if rooms.status(roomID) != model.RoomAvailable {
		t.Error("room must stay available when authorization fails")
	}
}

func TestBookingCreateUnknownRoom(t *testing.T) {
	rooms := newMemRoomRepo()
	bookings := newMemBookingRepo()
	svc := newTestService(rooms, bookings, &fakeAuthorizer{})

	_, err := svc.Create(context.Background(), guestIdentity(), bookingRequest("100.00"))
	if !apperrors.HasCode(err, apperrors.CodeNotFound) {
		t.Fatalf("expected %s, got %v", apperrors.CodeNotFound, err)
	}
}

func TestBookingCreateBookedRoom(t *testing.T) {
	room := availableRoom()
	room.Status = model.RoomBooked
	rooms := newMemRoomRepo(room)
	bookings := newMemBookingRepo()
	auth := &fakeAuthorizer{}
	svc := newTestService(rooms, bookings, auth)

	_, err := svc.Create(context.Background(), guestIdentity(), bookingRequest("100.00"))
	if !apperrors.HasCode(err, apperrors.CodeRoomUnavailable) {
		t.Fatalf("expected %s, got %v", apperrors.CodeRoomUnavailable, err)
	}
	if auth.callCount() != 0 {
		t.Error("authorizer must not be called for a room that is already booked")
	}
}

// Two guests race for the same room. Exactly one booking must be written;
// the loser gets a conflict even though both passed the availability read.
func TestBookingCreateConcurrentSameRoom(t *testing.T) {
	rooms := newMemRoomRepo(availableRoom())
	bookings := newMemBookingRepo()
	svc := newTestService(rooms, bookings, &fakeAuthorizer{})

	const racers = 8
	results := make(chan error, racers)
	var wg sync.WaitGroup
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Create(context.Background(), guestIdentity(), bookingRequest("100.00"))
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var wins, conflicts int
	for err := range results {
		switch {
		case err == nil:
			wins++
		case apperrors.HasCode(err, apperrors.CodeRoomUnavailable):
			conflicts++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}

	if wins != 1 {
		t.Errorf("expected exactly one winner, got %d", wins)
	}
	if conflicts != racers-1 {
		t.Errorf("expected %d conflicts, got %d", racers-1, conflicts)
	}
	if bookings.size() != 1 {
		t.Errorf("expected exactly one stored booking, got %d", bookings.size())
	}
	if rooms.status(roomID) != model.RoomBooked {
		t.Errorf("expected room booked after the race, got %q", rooms.status(roomID))
	}
}

func TestBookingCancel(t *testing.T) {
	rooms := newMemRoomRepo(availableRoom())
	bookings := newMemBookingRepo()
	svc := newTestService(rooms, bookings, &fakeAuthorizer{})

	confirmation, err := svc.Create(context.Background(), guestIdentity(), bookingRequest("100.00"))
	if err != nil {
		t.Fatalf("setup create failed: %v", err)
	}

	if err := svc.Cancel(context.Background(), guestIdentity(), confirmation.Booking.ID); err != nil {
		t.Fatalf("expected cancel to succeed, got %v", err)
	}
	if rooms.status(roomID) != model.RoomAvailable {
		t.Errorf("expected room released, got %q", rooms.status(roomID))
	}
	if bookings.size() != 0 {
		t.Errorf("expected booking removed, got %d", bookings.size())
	}

	// Cancelling again reports the booking gone; nothing double-releases.
	err = svc.Cancel(context.Background(), guestIdentity(), confirmation.Booking.ID)
	if !apperrors.HasCode(err, apperrors.CodeNotFound) {
		t.Fatalf("expected %s on repeat cancel, got %v", apperrors.CodeNotFound, err)
	}
}

func TestBookingCancelForeignGuest(t *testing.T) {
	rooms := newMemRoomRepo(availableRoom())
	bookings := newMemBookingRepo()
	svc := newTestService(rooms, bookings, &fakeAuthorizer{})

	confirmation, err := svc.Create(context.Background(), guestIdentity(), bookingRequest("100.00"))
	if err != nil {
		t.Fatalf("setup create failed: %v", err)
	}

	other := model.Identity{Email: "other@example.com", Role: model.RoleGuest}
	err = svc.Cancel(context.Background(), other, confirmation.Booking.ID)
	if !apperrors.HasCode(err, apperrors.CodeNotAuthorized) {
		t.Fatalf("expected %s, got %v", apperrors.CodeNotAuthorized, err)
	}
	if bookings.size() != 1 {
		t.Error("booking must survive an unauthorized cancel")
	}
	if rooms.status(roomID) != model.RoomBooked {
		t.Error("room must stay booked after an unauthorized cancel")
	}
}

func TestBookingCancelThenRebook(t *testing.T) {
	rooms := newMemRoomRepo(availableRoom())
	bookings := newMemBookingRepo()
	svc := newTestService(rooms, bookings, &fakeAuthorizer{})

	first, err := svc.Create(context.Background(), guestIdentity(), bookingRequest("100.00"))
	if err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	if err := svc.Cancel(context.Background(), guestIdentity(), first.Booking.ID); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	second, err := svc.Create(context.Background(), guestIdentity(), bookingRequest("100.00"))
	if err != nil {
		t.Fatalf("expected rebooking after cancellation to succeed, got %v", err)
	}
	if second.Booking.ID == first.Booking.ID {
		t.Error("rebooking must produce a new booking")
	}
}

func TestBookingCancelRoomAlreadyGone(t *testing.T) {
	rooms := newMemRoomRepo(availableRoom())
	bookings := newMemBookingRepo()
	svc := newTestService(rooms, bookings, &fakeAuthorizer{})

	confirmation, err := svc.Create(context.Background(), guestIdentity(), bookingRequest("100.00"))
	if err != nil {
		t.Fatalf("setup create failed: %v", err)
	}

	if err := rooms.Delete(context.Background(), roomID); err != nil {
		t.Fatalf("setup delete failed: %v", err)
	}

	if err := svc.Cancel(context.Background(), guestIdentity(), confirmation.Booking.ID); err != nil {
		t.Fatalf("cancel must tolerate a missing room, got %v", err)
	}
	if bookings.size() != 0 {
		t.Error("expected booking removed even with the room gone")
	}
}
