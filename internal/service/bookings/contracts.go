package bookings

import (
	"context"

	"github.com/m04kA/SMC-ServiceConnect/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	List(ctx context.Context, filter domain.BookingFilter) ([]*domain.Booking, error)
	Stats(ctx context.Context) (*domain.BookingStats, error)
}

// AccessGuard проверка доступа к бронированиям
type AccessGuard interface {
	CanView(ctx context.Context, identity domain.Identity, booking *domain.Booking) error
	ScopeFilter(ctx context.Context, identity domain.Identity, filter domain.BookingFilter) (domain.BookingFilter, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
