package create_booking

import (
	"context"

	"github.com/m04kA/SMC-ServiceConnect/internal/domain"
	"github.com/m04kA/SMC-ServiceConnect/internal/service/bookings/models"
	createBooking "github.com/m04kA/SMC-ServiceConnect/internal/usecase/create_booking"
)

type CreateBookingUseCase interface {
	Execute(ctx context.Context, identity domain.Identity, req *createBooking.Request) (*models.Booking, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
