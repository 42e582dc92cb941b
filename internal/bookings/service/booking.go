package service

import (
	"context"
	"errors"
	"strings"

	bookingserrors "nomadhub/internal/bookings/errors"
	"nomadhub/internal/bookings/repository"
	"nomadhub/internal/bookings/validator"
	"nomadhub/internal/events"
	"nomadhub/internal/payments"
	roomserrors "nomadhub/internal/rooms/errors"
	roomsrepo "nomadhub/internal/rooms/repository"
	"nomadhub/pkg/config"
	apperrors "nomadhub/pkg/errors"
	"nomadhub/pkg/model"
	"nomadhub/pkg/sanitizer"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/mongo"
)

// BookingConfirmation is what the guest gets back from a successful create:
// the persisted booking plus the payment client secret needed to complete
// the authorization on their side. The secret is never stored.
type BookingConfirmation struct {
	Booking      *model.Booking `json:"booking"`
	ClientSecret string         `json:"client_secret"`
}

type BookingService interface {
	Create(ctx context.Context, guest model.Identity, req *model.BookingRequest) (*BookingConfirmation, error)
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error)
	GetByGuest(ctx context.Context, guestEmail string) ([]*model.Booking, error)
	GetByHost(ctx context.Context, hostEmail string) ([]*model.Booking, error)
	Cancel(ctx context.Context, requester model.Identity, id string) error
}

type bookingService struct {
	repo       repository.BookingRepository
	rooms      roomsrepo.RoomRepository
	validator  *validator.BookingValidator
	authorizer payments.Authorizer
	publisher  *events.BookingPublisher
	cfg        *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	rooms roomsrepo.RoomRepository,
	v *validator.BookingValidator,
	authorizer payments.Authorizer,
	publisher *events.BookingPublisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:       repo,
		rooms:      rooms,
		validator:  v,
		authorizer: authorizer,
		publisher:  publisher,
		cfg:        cfg,
	}
}

// Create runs the booking workflow: authorize payment first, then flip the
// room to booked and insert the booking in one transaction. The conditional
// status write is what serializes two guests racing for the same room; the
// loser sees a status conflict and the room stays booked exactly once.
func (s *bookingService) Create(ctx context.Context, guest model.Identity, req *model.BookingRequest) (*BookingConfirmation, error) {
	price, err := s.validator.Validate(req)
	if err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return nil, apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}
	if !price.IsPositive() {
		return nil, apperrors.InvalidAmount("price must be greater than zero")
	}

	room, err := s.rooms.FindByID(ctx, req.RoomID)
	if err != nil {
		return nil, s.mapRoomError(err, req.RoomID)
	}

	roomPrice, err := decimal.NewFromString(room.Price)
	if err != nil || !price.Equal(roomPrice) {
		s.cfg.Log.Warn("Booking price does not match listing price",
			"room_id", req.RoomID, "submitted", req.Price, "listed", room.Price)
		return nil, apperrors.InvalidAmount("price does not match the listed room price")
	}

	if room.Status != model.RoomAvailable {
		return nil, apperrors.RoomUnavailable(req.RoomID)
	}

	auth, err := s.authorizer.Authorize(ctx, payments.MinorUnits(price), map[string]string{
		"room_id":     req.RoomID,
		"guest_email": guest.Email,
	})
	if err != nil {
		return nil, err
	}

	booking := &model.Booking{
		RoomID:     req.RoomID,
		RoomTitle:  room.Title,
		Host:       room.Host,
		GuestEmail: sanitizer.NormalizeEmail(guest.Email),
		GuestName:  sanitizer.NormalizeName(guest.Name),
		Date:       req.Date.UTC(),
		Price:      price.StringFixed(2),
		PaymentRef: auth.Reference,
	}

	err = s.repo.ExecuteTransaction(ctx, func(sc mongo.SessionContext) error {
		if err := s.rooms.UpdateStatus(sc, req.RoomID, model.RoomAvailable, model.RoomBooked); err != nil {
			return err
		}
		return s.repo.Create(sc, booking)
	})
	if err != nil {
		switch {
		case errors.Is(err, roomserrors.ErrStatusConflict):
			return nil, apperrors.RoomUnavailable(req.RoomID)
		case errors.Is(err, roomserrors.ErrNotFound):
			return nil, apperrors.NotFoundWithID("Room", req.RoomID)
		default:
			s.cfg.Log.Error("Failed to persist booking", "room_id", req.RoomID, "error", err)
			return nil, apperrors.StoreUnavailable(err)
		}
	}

	s.cfg.Log.Info("Booking created",
		"id", booking.ID, "room_id", booking.RoomID, "guest", booking.GuestEmail, "price", booking.Price)
	s.publisher.BookingCreated(ctx, booking)

	return &BookingConfirmation{Booking: booking, ClientSecret: auth.ClientSecret}, nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapBookingError(err, id)
	}
	return booking, nil
}

func (s *bookingService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to count bookings", "error", err)
		return nil, 0, apperrors.StoreUnavailable(err)
	}

	bookings, err := s.repo.FindAll(ctx, limit, offset)
	if err != nil {
		s.cfg.Log.Error("Failed to list bookings", "error", err)
		return nil, 0, apperrors.StoreUnavailable(err)
	}

	return bookings, count, nil
}

func (s *bookingService) GetByGuest(ctx context.Context, guestEmail string) ([]*model.Booking, error) {
	guestEmail = sanitizer.NormalizeEmail(guestEmail)
	if guestEmail == "" {
		return nil, apperrors.InvalidInput("Guest email cannot be empty")
	}

	bookings, err := s.repo.FindByGuest(ctx, guestEmail)
	if err != nil {
		s.cfg.Log.Error("Failed to list guest bookings", "guest", guestEmail, "error", err)
		return nil, apperrors.StoreUnavailable(err)
	}
	return bookings, nil
}

func (s *bookingService) GetByHost(ctx context.Context, hostEmail string) ([]*model.Booking, error) {
	hostEmail = sanitizer.NormalizeEmail(hostEmail)
	if hostEmail == "" {
		return nil, apperrors.InvalidInput("Host email cannot be empty")
	}

	bookings, err := s.repo.FindByHost(ctx, hostEmail)
	if err != nil {
		s.cfg.Log.Error("Failed to list host bookings", "host", hostEmail, "error", err)
		return nil, apperrors.StoreUnavailable(err)
	}
	return bookings, nil
}

// Cancel deletes the booking and releases the room in one transaction. The
// release tolerates a room that was deleted or already available: the booking
// removal is the part that must not be lost.
func (s *bookingService) Cancel(ctx context.Context, requester model.Identity, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return s.mapBookingError(err, id)
	}

	if requester.Role != model.RoleAdmin && !strings.EqualFold(booking.GuestEmail, requester.Email) {
		return apperrors.NotAuthorized("booking belongs to another guest")
	}

	err = s.repo.ExecuteTransaction(ctx, func(sc mongo.SessionContext) error {
		if err := s.repo.Delete(sc, id); err != nil {
			return err
		}

		err := s.rooms.UpdateStatus(sc, booking.RoomID, model.RoomBooked, model.RoomAvailable)
		switch {
		case errors.Is(err, roomserrors.ErrNotFound):
			// Room was removed after booking; nothing left to release.
			return nil
		case errors.Is(err, roomserrors.ErrStatusConflict):
			s.cfg.Log.Warn("Room already available on cancellation",
				"booking_id", id, "room_id", booking.RoomID)
			return nil
		}
		return err
	})
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Booking", id)
		}
		s.cfg.Log.Error("Failed to cancel booking", "id", id, "error", err)
		return apperrors.StoreUnavailable(err)
	}

	s.cfg.Log.Info("Booking cancelled", "id", id, "room_id", booking.RoomID, "guest", booking.GuestEmail)
	s.publisher.BookingCancelled(ctx, booking)

	return nil
}

func (s *bookingService) mapRoomError(err error, id string) error {
	switch {
	case errors.Is(err, roomserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Room", id)
	case errors.Is(err, roomserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid room ID format")
	default:
		s.cfg.Log.Error("Failed to retrieve room", "id", id, "error", err)
		return apperrors.StoreUnavailable(err)
	}
}

func (s *bookingService) mapBookingError(err error, id string) error {
	switch {
	case errors.Is(err, bookingserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Booking", id)
	case errors.Is(err, bookingserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid booking ID format")
	default:
		s.cfg.Log.Error("Failed to retrieve booking", "id", id, "error", err)
		return apperrors.StoreUnavailable(err)
	}
}
