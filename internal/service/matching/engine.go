package matching

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-ServiceConnect/internal/domain"
)

// Engine подбирает мастера для неназначенного бронирования
type Engine struct {
	technicians TechnicianRepository
}

// NewEngine создает движок подбора
func NewEngine(technicians TechnicianRepository) *Engine {
	return &Engine{technicians: technicians}
}

// Match возвращает лучшего подтверждённого мастера услуги
// Если кандидатов нет, возвращает nil без ошибки
func (e *Engine) Match(ctx context.Context, serviceID string) (*domain.Technician, error) {
	candidates, err := e.technicians.ListVerifiedTechniciansByService(ctx, serviceID)
	if err != nil {
		return nil, fmt.Errorf("%w: Match - service %s: %v", ErrLoadCandidates, serviceID, err)
	}
	return Pick(candidates), nil
}

// Pick выбирает мастера с максимальным рейтингом среди подходящих
// При равном рейтинге побеждает меньший ID
func Pick(candidates []*domain.Technician) *domain.Technician {
	var best *domain.Technician
	for _, c := range candidates {
		if c == nil || !c.CanBeMatched() {
			continue
		}
		if best == nil || c.Rating > best.Rating || (c.Rating == best.Rating && c.ID < best.ID) {
			best = c
		}
	}
	return best
}
