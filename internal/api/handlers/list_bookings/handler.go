package list_bookings

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ServiceConnect/internal/api/handlers"
	"github.com/m04kA/SMC-ServiceConnect/internal/api/middleware"
	"github.com/m04kA/SMC-ServiceConnect/internal/service/bookings"
)

const (
	msgUnauthorized  = "требуется авторизация"
	msgInvalidFilter = "некорректный фильтр бронирований"
	msgForbidden     = "доступ запрещен"
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

// Handle GET /api/v1/bookings
// Фильтр всегда сужается до бронирований текущего пользователя
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	result, err := h.service.List(r.Context(), identity, queryFilter(r.URL.Query()))
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /bookings - Invalid filter: %v", err)
			handlers.RespondBadRequest(w, msgInvalidFilter)

		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("GET /bookings - Access denied: user_id=%s", identity.UserID())
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /bookings - Failed to list bookings: user_id=%s, error=%v", identity.UserID(), err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /bookings - Bookings retrieved successfully: user_id=%s, count=%d", identity.UserID(), len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result)
}
