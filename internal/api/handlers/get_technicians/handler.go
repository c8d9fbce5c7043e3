package get_technicians

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ServiceConnect/internal/api/handlers"
	"github.com/m04kA/SMC-ServiceConnect/internal/api/middleware"
	"github.com/m04kA/SMC-ServiceConnect/internal/service/catalog"
)

const (
	msgUnauthorized  = "требуется авторизация"
	msgInvalidStatus = "статус мастера должен быть pending или verified"
	msgForbidden     = "доступ запрещен"
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

// Handle GET /api/v1/technicians?status=pending|verified
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var status *string
	if v := r.URL.Query().Get("status"); v != "" {
		status = &v
	}

	result, err := h.service.ListTechnicians(r.Context(), identity, status)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrInvalidInput):
			h.logger.Warn("GET /technicians - Invalid status filter: %v", err)
			handlers.RespondBadRequest(w, msgInvalidStatus)

		case errors.Is(err, catalog.ErrAccessDenied):
			h.logger.Warn("GET /technicians - Access denied: user_id=%s", identity.UserID())
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /technicians - Failed to list technicians: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
