package update_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ServiceConnect/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	UpdateStatus(ctx context.Context, id string, expected, next domain.BookingStatus) error
	UpdateSchedule(ctx context.Context, id string, expected domain.BookingStatus, scheduledAt *time.Time, location *string) error
	SetRating(ctx context.Context, id string, rating int, review *string) error
	AverageRatingForTechnician(ctx context.Context, technicianID string) (float64, error)
}

// TechnicianRepository изменение показателей мастера
type TechnicianRepository interface {
	AddTechnicianEarnings(ctx context.Context, id string, amount float64) error
	SetTechnicianRating(ctx context.Context, id string, rating float64) error
}

// AccessGuard проверка права действовать над бронированием
type AccessGuard interface {
	CanAct(ctx context.Context, identity domain.Identity, booking *domain.Booking, op domain.Operation) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventPublisher публикует снимок бронирования в push-канал
type EventPublisher interface {
	PublishBookingUpdate(ctx context.Context, booking *domain.Booking) error
}

// TransitionRecorder учёт операций в метриках
type TransitionRecorder interface {
	RecordTransition(operation, status string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
