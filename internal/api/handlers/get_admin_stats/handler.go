package get_admin_stats

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ServiceConnect/internal/api/handlers"
	"github.com/m04kA/SMC-ServiceConnect/internal/api/middleware"
	"github.com/m04kA/SMC-ServiceConnect/internal/service/bookings"
)

const (
	msgUnauthorized = "требуется авторизация"
	msgForbidden    = "доступно только администратору"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/admin/stats
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	result, err := h.service.AdminStats(r.Context(), identity)
	if err != nil {
		if errors.Is(err, bookings.ErrAccessDenied) {
			h.logger.Warn("GET /admin/stats - Access denied: user_id=%s, role=%s", identity.UserID(), identity.Role())
			handlers.RespondForbidden(w, msgForbidden)
			return
		}
		h.logger.Error("GET /admin/stats - Failed to get stats: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
