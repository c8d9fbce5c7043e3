package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ServiceConnect/internal/api/handlers"
	"github.com/m04kA/SMC-ServiceConnect/internal/api/middleware"
	createBooking "github.com/m04kA/SMC-ServiceConnect/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgUnauthorized       = "требуется авторизация"
	msgInvalidInput       = "некорректные данные бронирования"
	msgServiceNotFound    = "услуга не найдена"
	msgCustomerNotFound   = "клиент не найден"
	msgTechnicianNotFound = "мастер не найден"
	msgForbidden          = "доступ запрещен"
	msgInvalidTransition  = "операция недоступна для вашей роли"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if err := handlers.Validate(&req); err != nil {
		h.logger.Warn("POST /bookings - Validation failed: %v", err)
		handlers.RespondBadRequest(w, handlers.ValidationMessage(err))
		return
	}

	result, err := h.useCase.Execute(r.Context(), identity, req.ToUseCaseRequest(identity.UserID()))
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: user_id=%s, error=%v", identity.UserID(), err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, createBooking.ErrTechnicianNotFound):
			h.logger.Warn("POST /bookings - Technician not found: user_id=%s", identity.UserID())
			handlers.RespondBadRequest(w, msgTechnicianNotFound)

		case errors.Is(err, createBooking.ErrServiceNotFound):
			h.logger.Warn("POST /bookings - Service not found: service_id=%s", req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createBooking.ErrCustomerNotFound):
			h.logger.Warn("POST /bookings - Customer not found: customer_id=%s", req.CustomerID)
			handlers.RespondNotFound(w, msgCustomerNotFound)

		case errors.Is(err, createBooking.ErrAccessDenied):
			h.logger.Warn("POST /bookings - Access denied: user_id=%s, customer_id=%s", identity.UserID(), req.CustomerID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, createBooking.ErrInvalidTransition):
			h.logger.Warn("POST /bookings - Invalid transition: role=%s", identity.Role())
			handlers.RespondUnprocessableEntity(w, msgInvalidTransition)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: user_id=%s, error=%v", identity.UserID(), err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%s, user_id=%s", result.ID, identity.UserID())
	handlers.RespondJSON(w, http.StatusCreated, result)
}
