package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ServiceConnect/internal/domain"
	catalogRepo "github.com/m04kA/SMC-ServiceConnect/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-ServiceConnect/internal/service/catalog/models"
)

// Service справочник услуг и мастеров
type Service struct {
	repo   Repository
	logger Logger
}

// NewService создает новый экземпляр сервиса справочника
func NewService(repo Repository, logger Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// ListServices список услуг с разбивкой стоимости
func (s *Service) ListServices(ctx context.Context) (*models.ServiceListResponse, error) {
	services, err := s.repo.ListServices(ctx)
	if err != nil {
		s.logger.Error("ListServices: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListServices - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainServiceList(services), nil
}

// ListTechnicians список мастеров
// Неподтверждённых мастеров видит только администратор, остальным отдаются подтверждённые
func (s *Service) ListTechnicians(ctx context.Context, identity domain.Identity, status *string) (*models.TechnicianListResponse, error) {
	_, isAdmin := identity.(domain.Admin)

	var verified *bool
	if status != nil && *status != "" {
		v, err := models.ParseTechnicianStatus(*status)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		verified = &v
	}
	if !isAdmin {
		if verified != nil && !*verified {
			return nil, ErrAccessDenied
		}
		v := true
		verified = &v
	}

	technicians, err := s.repo.ListTechnicians(ctx, verified)
	if err != nil {
		s.logger.Error("ListTechnicians: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListTechnicians - repository error: %v", ErrInternal, err)
	}

	resp := &models.TechnicianListResponse{Technicians: make([]models.Technician, 0, len(technicians))}
	for _, t := range technicians {
		resp.Technicians = append(resp.Technicians, *models.FromDomainTechnician(t, isAdmin))
	}
	return resp, nil
}

// GetTechnicianByUserID карточка мастера по пользователю, доступна самому мастеру и администратору
func (s *Service) GetTechnicianByUserID(ctx context.Context, identity domain.Identity, userID string) (*models.Technician, error) {
	switch id := identity.(type) {
	case domain.Admin:
	case domain.TechnicianUser:
		if id.ID != userID {
			return nil, ErrAccessDenied
		}
	default:
		return nil, ErrAccessDenied
	}

	technician, err := s.repo.GetTechnicianByUserID(ctx, userID)
	if err != nil {
		return nil, s.repoError("GetTechnicianByUserID", err)
	}
	return models.FromDomainTechnician(technician, true), nil
}

// Approve подтверждает мастера, только для администратора
func (s *Service) Approve(ctx context.Context, identity domain.Identity, technicianID string) (*models.Technician, error) {
	return s.setVerified(ctx, identity, technicianID, true)
}

// Reject снимает подтверждение с мастера, только для администратора
func (s *Service) Reject(ctx context.Context, identity domain.Identity, technicianID string) (*models.Technician, error) {
	return s.setVerified(ctx, identity, technicianID, false)
}

func (s *Service) setVerified(ctx context.Context, identity domain.Identity, technicianID string, verified bool) (*models.Technician, error) {
	if _, ok := identity.(domain.Admin); !ok {
		return nil, ErrAccessDenied
	}

	if err := s.repo.SetTechnicianVerified(ctx, technicianID, verified); err != nil {
		return nil, s.repoError("SetVerified", err)
	}

	technician, err := s.repo.GetTechnician(ctx, technicianID)
	if err != nil {
		return nil, s.repoError("SetVerified", err)
	}

	s.logger.Info("SetVerified: admin %s set technician %s verified=%t", identity.UserID(), technicianID, verified)
	return models.FromDomainTechnician(technician, true), nil
}

func (s *Service) repoError(op string, err error) error {
	if errors.Is(err, catalogRepo.ErrTechnicianNotFound) {
		s.logger.Warn("%s: %v", op, err)
		return ErrTechnicianNotFound
	}
	s.logger.Error("%s: repository error: %v", op, err)
	return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
}
