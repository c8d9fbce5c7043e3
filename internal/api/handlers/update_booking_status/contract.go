package update_booking_status

import (
	"context"

	"github.com/m04kA/SMC-ServiceConnect/internal/domain"
	"github.com/m04kA/SMC-ServiceConnect/internal/service/bookings/models"
)

type UpdateBookingUseCase interface {
	UpdateStatus(ctx context.Context, identity domain.Identity, bookingID, status string, expectedStatus *string) (*models.Booking, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
