package service

import (
	"context"
	"errors"
	"sync"

	userserrors "nomadhub/internal/users/errors"
	"nomadhub/internal/users/repository"
	"nomadhub/pkg/config"
	apperrors "nomadhub/pkg/errors"
	"nomadhub/pkg/model"
	"nomadhub/pkg/sanitizer"

	"github.com/go-playground/validator/v10"
)

type UserService interface {
	// Upsert registers the caller on login and returns the stored record.
	// Submitting status Requested is how a guest asks to become a host.
	Upsert(ctx context.Context, user *model.User) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.User, int64, error)
	UpdateRole(ctx context.Context, requester model.Identity, email, role string) error
}

type userService struct {
	repo     repository.UserRepository
	validate *validator.Validate
	cfg      *config.Config
}

func NewUserService(repo repository.UserRepository, cfg *config.Config) UserService {
	return &userService{repo: repo, validate: validator.New(), cfg: cfg}
}

func (s *userService) Upsert(ctx context.Context, user *model.User) (*model.User, error) {
	user.ID = ""
	user.Email = sanitizer.NormalizeEmail(user.Email)
	user.Name = sanitizer.NormalizeName(user.Name)
	if user.Role == "" {
		user.Role = model.RoleGuest
	}

	if err := s.validate.Struct(user); err != nil {
		s.cfg.Log.Warn("User validation failed", "error", err)
		return nil, apperrors.Validation("User validation failed", map[string]any{"error": err.Error()})
	}

	stored, err := s.repo.Upsert(ctx, user)
	if err != nil {
		s.cfg.Log.Error("Failed to upsert user", "email", user.Email, "error", err)
		return nil, apperrors.StoreUnavailable(err)
	}

	if stored.Status == model.StatusRequested {
		s.cfg.Log.Info("Host request recorded", "email", stored.Email)
	}
	return stored, nil
}

func (s *userService) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	email = sanitizer.NormalizeEmail(email)
	if email == "" {
		return nil, apperrors.InvalidInput("Email cannot be empty")
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, userserrors.ErrNotFound) {
			return nil, apperrors.NotFound("User")
		}
		s.cfg.Log.Error("Failed to retrieve user", "email", email, "error", err)
		return nil, apperrors.StoreUnavailable(err)
	}
	return user, nil
}

func (s *userService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.User, int64, error) {
	var count int64
	var users []*model.User
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count users", "error", errCount)
			errCount = apperrors.StoreUnavailable(errCount)
		}
	}()

	go func() {
		defer wg.Done()
		users, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list users", "error", errFind)
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

	return users, count, nil
}

// UpdateRole resolves a host request. Promotion to host also marks the user
// verified so the request no longer shows as pending.
func (s *userService) UpdateRole(ctx context.Context, requester model.Identity, email, role string) error {
	if requester.Role != model.RoleAdmin {
		return apperrors.NotAuthorized("admin role required")
	}

	email = sanitizer.NormalizeEmail(email)
	if email == "" {
		return apperrors.InvalidInput("Email cannot be empty")
	}
	if role != model.RoleGuest && role != model.RoleHost && role != model.RoleAdmin {
		return apperrors.InvalidInput("Role must be one of: guest, host, admin")
	}

	status := ""
	if role == model.RoleHost {
		status = model.StatusVerified
	}

	if err := s.repo.UpdateRole(ctx, email, role, status); err != nil {
		if errors.Is(err, userserrors.ErrNotFound) {
			return apperrors.NotFound("User")
		}
		s.cfg.Log.Error("Failed to update user role", "email", email, "error", err)
		return apperrors.StoreUnavailable(err)
	}

	s.cfg.Log.Info("User role updated", "email", email, "role", role, "by", requester.Email)
	return nil
}
