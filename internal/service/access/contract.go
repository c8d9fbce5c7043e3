package access

import (
	"context"

	"github.com/m04kA/SMC-ServiceConnect/internal/domain"
)

// TechnicianResolver находит запись мастера по пользователю
type TechnicianResolver interface {
	GetTechnicianByUserID(ctx context.Context, userID string) (*domain.Technician, error)
}
