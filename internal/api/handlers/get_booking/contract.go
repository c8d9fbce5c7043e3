package get_booking

import (
	"context"

	"github.com/m04kA/SMC-ServiceConnect/internal/domain"
	"github.com/m04kA/SMC-ServiceConnect/internal/service/bookings/models"
)

type BookingService interface {
	GetByID(ctx context.Context, identity domain.Identity, id string) (*models.Booking, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
