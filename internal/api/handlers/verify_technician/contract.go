package verify_technician

import (
	"context"

	"github.com/m04kA/SMC-ServiceConnect/internal/domain"
	"github.com/m04kA/SMC-ServiceConnect/internal/service/catalog/models"
)

type CatalogService interface {
	Approve(ctx context.Context, identity domain.Identity, technicianID string) (*models.Technician, error)
	Reject(ctx context.Context, identity domain.Identity, technicianID string) (*models.Technician, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
