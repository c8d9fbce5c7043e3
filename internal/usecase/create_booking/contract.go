package create_booking

import (
	"context"

	"github.com/m04kA/SMC-ServiceConnect/internal/domain"
	"github.com/m04kA/SMC-ServiceConnect/internal/service/bookings/models"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
}

// CatalogRepository справочники услуг, пользователей и мастеров
type CatalogRepository interface {
	GetService(ctx context.Context, id string) (*domain.Service, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetTechnician(ctx context.Context, id string) (*domain.Technician, error)
}

// Matcher подбор мастера для неназначенного бронирования
type Matcher interface {
	Match(ctx context.Context, serviceID string) (*domain.Technician, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventPublisher публикует снимок бронирования в push-канал
type EventPublisher interface {
	PublishBookingUpdate(ctx context.Context, booking *domain.Booking) error
}

// Mailer отправка письма-подтверждения
type Mailer interface {
	SendBookingConfirmation(ctx context.Context, to string, booking *models.Booking) error
}

// TransitionRecorder учёт операций в метриках
type TransitionRecorder interface {
	RecordTransition(operation, status string)
}

// IDGenerator генератор ID бронирований
type IDGenerator func() string

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
