package verify_technician

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ServiceConnect/internal/api/handlers"
	"github.com/m04kA/SMC-ServiceConnect/internal/api/middleware"
	"github.com/m04kA/SMC-ServiceConnect/internal/domain"
	"github.com/m04kA/SMC-ServiceConnect/internal/service/catalog"
	"github.com/m04kA/SMC-ServiceConnect/internal/service/catalog/models"
)

const (
	msgUnauthorized = "требуется авторизация"
	msgNotFound     = "мастер не найден"
	msgForbidden    = "доступно только администратору"
)

type action func(ctx context.Context, identity domain.Identity, technicianID string) (*models.Technician, error)

type Handler struct {
	service CatalogService
	logger  Logger
}

func NewHandler(service CatalogService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// HandleApprove POST /api/v1/technicians/{id}/approve
func (h *Handler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, "approve", h.service.Approve)
}

// HandleReject POST /api/v1/technicians/{id}/reject
func (h *Handler) HandleReject(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, "reject", h.service.Reject)
}

func (h *Handler) handle(w http.ResponseWriter, r *http.Request, name string, do action) {
	technicianID := mux.Vars(r)["id"]

	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	result, err := do(r.Context(), identity, technicianID)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrTechnicianNotFound):
			h.logger.Warn("POST /technicians/{id}/%s - Technician not found: technician_id=%s", name, technicianID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, catalog.ErrAccessDenied):
			h.logger.Warn("POST /technicians/{id}/%s - Access denied: user_id=%s", name, identity.UserID())
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("POST /technicians/{id}/%s - Failed: technician_id=%s, error=%v", name, technicianID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /technicians/{id}/%s - Done: technician_id=%s, verified=%t", name, technicianID, result.Verified)
	handlers.RespondJSON(w, http.StatusOK, result)
}
