package create_booking

import (
	createBooking "github.com/m04kA/SMC-ServiceConnect/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	ServiceID    string  `json:"serviceId" validate:"required"`
	CustomerID   string  `json:"customerId"` // пусто - бронирование для текущего пользователя
	Date         string  `json:"date" validate:"required"` // ISO 8601
	Location     string  `json:"location" validate:"required,max=500"`
	TechnicianID *string `json:"technicianId,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(currentUserID string) *createBooking.Request {
	customerID := r.CustomerID
	if customerID == "" {
		customerID = currentUserID
	}

	return &createBooking.Request{
		ServiceID:    r.ServiceID,
		CustomerID:   customerID,
		Date:         r.Date,
		Location:     r.Location,
		TechnicianID: r.TechnicianID,
	}
}
