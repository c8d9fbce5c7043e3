package catalog

import (
	"context"

	"github.com/m04kA/SMC-ServiceConnect/internal/domain"
)

// Repository интерфейс справочника услуг и мастеров
type Repository interface {
	ListServices(ctx context.Context) ([]*domain.Service, error)
	GetTechnician(ctx context.Context, id string) (*domain.Technician, error)
	GetTechnicianByUserID(ctx context.Context, userID string) (*domain.Technician, error)
	ListTechnicians(ctx context.Context, verified *bool) ([]*domain.Technician, error)
	SetTechnicianVerified(ctx context.Context, id string, verified bool) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
