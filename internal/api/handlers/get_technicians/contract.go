package get_technicians

import (
	"context"

	"github.com/m04kA/SMC-ServiceConnect/internal/domain"
	"github.com/m04kA/SMC-ServiceConnect/internal/service/catalog/models"
)

type CatalogService interface {
	ListTechnicians(ctx context.Context, identity domain.Identity, status *string) (*models.TechnicianListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
