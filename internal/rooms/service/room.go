package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	roomserrors "nomadhub/internal/rooms/errors"
	"nomadhub/internal/rooms/repository"
	"nomadhub/internal/rooms/validator"
	"nomadhub/pkg/config"
	apperrors "nomadhub/pkg/errors"
	"nomadhub/pkg/model"
	"nomadhub/pkg/sanitizer"
)

type RoomService interface {
	Create(ctx context.Context, host model.Identity, room *model.Room) error
	GetByID(ctx context.Context, id string) (*model.Room, error)
	GetAll(ctx context.Context, category string, limit int, offset int64) ([]*model.Room, int64, error)
	GetByHost(ctx context.Context, hostEmail string) ([]*model.Room, error)
	Delete(ctx context.Context, requester model.Identity, id string) error
}

type roomService struct {
	repo      repository.RoomRepository
	validator *validator.RoomValidator
	cfg       *config.Config
}

func NewRoomService(repo repository.RoomRepository, v *validator.RoomValidator, cfg *config.Config) RoomService {
	return &roomService{repo: repo, validator: v, cfg: cfg}
}

func (s *roomService) Create(ctx context.Context, host model.Identity, room *model.Room) error {
	// New listings always start available; the flag never comes from input.
	room.ID = ""
	room.Status = model.RoomAvailable
	room.Host = model.HostInfo{
		Email: sanitizer.NormalizeEmail(host.Email),
		Name:  sanitizer.NormalizeName(host.Name),
		Photo: room.Host.Photo,
	}
	s.sanitize(room)

	if err := s.validator.Validate(room); err != nil {
		s.cfg.Log.Warn("Room validation failed", "error", err)
		return apperrors.Validation("Room validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Create(ctx, room); err != nil {
		s.cfg.Log.Error("Failed to create room", "error", err)
		return apperrors.StoreUnavailable(err)
	}

	s.cfg.Log.Info("Room created", "id", room.ID, "host", room.Host.Email, "category", room.Category)
	return nil
}

func (s *roomService) GetByID(ctx context.Context, id string) (*model.Room, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Room ID cannot be empty")
	}

	room, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapFindError(err, id)
	}
	return room, nil
}

func (s *roomService) GetAll(ctx context.Context, category string, limit int, offset int64) ([]*model.Room, int64, error) {
	category = sanitizer.NormalizeCategory(category)

	var count int64
	var rooms []*model.Room
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		if category == "" {
			count, errCount = s.repo.Count(ctx)
		} else {
			count, errCount = s.repo.CountByCategory(ctx, category)
		}
		if errCount != nil {
			s.cfg.Log.Error("Failed to count rooms", "error", errCount)
			errCount = apperrors.StoreUnavailable(errCount)
		}
	}()

	go func() {
		defer wg.Done()
		rooms, errFind = s.repo.FindAll(ctx, category, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list rooms", "error", errFind)
			errFind = apperrors.StoreUnavailable(errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return rooms, count, nil
}

func (s *roomService) GetByHost(ctx context.Context, hostEmail string) ([]*model.Room, error) {
	hostEmail = sanitizer.NormalizeEmail(hostEmail)
	if hostEmail == "" {
		return nil, apperrors.InvalidInput("Host email cannot be empty")
	}

	rooms, err := s.repo.FindByHost(ctx, hostEmail)
	if err != nil {
		s.cfg.Log.Error("Failed to list host rooms", "host", hostEmail, "error", err)
		return nil, apperrors.StoreUnavailable(err)
	}
	return rooms, nil
}

// Delete removes a listing. A booked room cannot be deleted: the live
// booking still references it, so the host must wait for cancellation.
func (s *roomService) Delete(ctx context.Context, requester model.Identity, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Room ID cannot be empty")
	}

	room, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return s.mapFindError(err, id)
	}

	if requester.Role != model.RoleAdmin && !strings.EqualFold(room.Host.Email, requester.Email) {
		return apperrors.NotAuthorized("room belongs to another host")
	}
	if room.Status == model.RoomBooked {
		return apperrors.RoomUnavailable(id)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, roomserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Room", id)
		}
		s.cfg.Log.Error("Failed to delete room", "id", id, "error", err)
		return apperrors.StoreUnavailable(err)
	}

	s.cfg.Log.Info("Room deleted", "id", id, "host", room.Host.Email)
	return nil
}

func (s *roomService) sanitize(room *model.Room) {
	room.Title = sanitizer.NormalizeName(room.Title)
	room.Category = sanitizer.NormalizeCategory(room.Category)
	room.Location = sanitizer.TrimAndNormalize(room.Location)
}

func (s *roomService) mapFindError(err error, id string) error {
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
