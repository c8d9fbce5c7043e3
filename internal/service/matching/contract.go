package matching

import (
	"context"

	"github.com/m04kA/SMC-ServiceConnect/internal/domain"
)

// TechnicianRepository источник кандидатов для подбора
type TechnicianRepository interface {
	ListVerifiedTechniciansByService(ctx context.Context, serviceID string) ([]*domain.Technician, error)
}
