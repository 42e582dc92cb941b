package handler

import (
	"net/http"

	"nomadhub/internal/stats/service"
	apperrors "nomadhub/pkg/errors"
	httputil "nomadhub/pkg/http"
	"nomadhub/pkg/logger"
	"nomadhub/pkg/middleware"
	"nomadhub/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type StatsHandler struct {
	service service.StatsService
	log     *logger.Logger
}

func NewStatsHandler(service service.StatsService, log *logger.Logger) *StatsHandler {
	return &StatsHandler{service: service, log: log}
}

func (h *StatsHandler) AdminOverview(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok || identity.Role != model.RoleAdmin {
		h.writeError(w, "AdminOverview", apperrors.NotAuthorized("admin role required"))
		return
	}

	report, err := h.service.AdminOverview(r.Context())
	if err != nil {
		h.writeError(w, "AdminOverview", err)
		return
	}

	if err := httputil.WriteSuccess(w, report); err != nil {
		h.log.Error("failed to write success response", "handler", "AdminOverview", "error", err)
	}
}

func (h *StatsHandler) HostOverview(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		h.writeError(w, "HostOverview", apperrors.NotAuthorized("caller identity is required"))
		return
	}

	report, err := h.service.HostOverview(r.Context(), identity.Email)
	if err != nil {
		h.writeError(w, "HostOverview", err)
		return
	}

	if err := httputil.WriteSuccess(w, report); err != nil {
		h.log.Error("failed to write success response", "handler", "HostOverview", "error", err)
	}
}

func (h *StatsHandler) writeError(w http.ResponseWriter, handlerName string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handlerName, "error", writeErr)
	}
}

func (h *StatsHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/stats/admin", h.AdminOverview)
	router.GET("/api/v1/stats/host", h.HostOverview)
}
