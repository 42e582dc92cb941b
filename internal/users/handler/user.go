package handler

import (
	"encoding/json"
	"net/http"

	"nomadhub/internal/users/service"
	apperrors "nomadhub/pkg/errors"
	httputil "nomadhub/pkg/http"
	"nomadhub/pkg/logger"
	"nomadhub/pkg/middleware"
	"nomadhub/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type UserHandler struct {
	service service.UserService
	log     *logger.Logger
}

func NewUserHandler(service service.UserService, log *logger.Logger) *UserHandler {
	return &UserHandler{service: service, log: log}
}

// Upsert registers the caller after gateway login. The email always comes
// from the verified identity, never from the body.
func (h *UserHandler) Upsert(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		h.writeError(w, "Upsert", apperrors.NotAuthorized("caller identity is required"))
		return
	}

	var user model.User
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		h.writeError(w, "Upsert", apperrors.InvalidInput("Invalid request body"))
		return
	}
	user.Email = identity.Email
	if user.Name == "" {
		user.Name = identity.Name
	}

	stored, err := h.service.Upsert(r.Context(), &user)
	if err != nil {
		h.writeError(w, "Upsert", err)
		return
	}

	if err := httputil.WriteSuccess(w, stored); err != nil {
		h.log.Error("failed to write success response", "handler", "Upsert", "error", err)
	}
}

func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		h.writeError(w, "GetMe", apperrors.NotAuthorized("caller identity is required"))
		return
	}

	user, err := h.service.GetByEmail(r.Context(), identity.Email)
	if err != nil {
		h.writeError(w, "GetMe", err)
		return
	}

	if err := httputil.WriteSuccess(w, user); err != nil {
		h.log.Error("failed to write success response", "handler", "GetMe", "error", err)
	}
}

func (h *UserHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok || identity.Role != model.RoleAdmin {
		h.writeError(w, "GetAll", apperrors.NotAuthorized("admin role required"))
		return
	}

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	users, total, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	if err := httputil.WritePaginated(w, users, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "error", err)
	}
}

type updateRoleRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (h *UserHandler) UpdateRole(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		h.writeError(w, "UpdateRole", apperrors.NotAuthorized("caller identity is required"))
		return
	}

	var req updateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "UpdateRole", apperrors.InvalidInput("Invalid request body"))
		return
	}

	if err := h.service.UpdateRole(r.Context(), identity, req.Email, req.Role); err != nil {
		h.writeError(w, "UpdateRole", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *UserHandler) writeError(w http.ResponseWriter, handlerName string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handlerName, "error", writeErr)
	}
}

func (h *UserHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/users", h.Upsert)
	router.GET("/api/v1/users", h.GetAll)
	router.GET("/api/v1/users/me", h.GetMe)
	router.PUT("/api/v1/users/role", h.UpdateRole)
}
