package get_technician_by_user

import (
	"context"

	"github.com/m04kA/SMC-ServiceConnect/internal/domain"
	"github.com/m04kA/SMC-ServiceConnect/internal/service/catalog/models"
)

type CatalogService interface {
	GetTechnicianByUserID(ctx context.Context, identity domain.Identity, userID string) (*models.Technician, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
