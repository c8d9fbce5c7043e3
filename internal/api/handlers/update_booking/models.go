package update_booking

import (
	updateBooking "github.com/m04kA/SMC-ServiceConnect/internal/usecase/update_booking"
)

// UpdateBookingRequest HTTP request model, отсутствующие поля не меняются
type UpdateBookingRequest struct {
	Date           *string `json:"date,omitempty"`
	Location       *string `json:"location,omitempty" validate:"omitempty,max=500"`
	Status         *string `json:"status,omitempty"`
	Rating         *int    `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
	Review         *string `json:"review,omitempty" validate:"omitempty,max=2000"`
	ExpectedStatus *string `json:"expectedStatus,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *UpdateBookingRequest) ToUseCaseRequest(bookingID string) *updateBooking.Request {
	return &updateBooking.Request{
		BookingID:      bookingID,
		Date:           r.Date,
		Location:       r.Location,
		Status:         r.Status,
		Rating:         r.Rating,
		Review:         r.Review,
		ExpectedStatus: r.ExpectedStatus,
	}
}
