package get_technician_by_user

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ServiceConnect/internal/api/handlers"
	"github.com/m04kA/SMC-ServiceConnect/internal/api/middleware"
	"github.com/m04kA/SMC-ServiceConnect/internal/service/catalog"
)

const (
	msgUnauthorized = "требуется авторизация"
	msgNotFound     = "мастер не найден"
	msgForbidden    = "доступ запрещен"
)

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

// Handle GET /api/v1/technicians/by-user/{userId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	result, err := h.service.GetTechnicianByUserID(r.Context(), identity, userID)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrTechnicianNotFound):
			h.logger.Warn("GET /technicians/by-user/{id} - Technician not found: user_id=%s", userID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, catalog.ErrAccessDenied):
			h.logger.Warn("GET /technicians/by-user/{id} - Access denied: user_id=%s, caller=%s", userID, identity.UserID())
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /technicians/by-user/{id} - Failed to get technician: user_id=%s, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
