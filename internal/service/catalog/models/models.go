package models

import (
	"errors"

	"github.com/m04kA/SMC-ServiceConnect/internal/domain"
	"github.com/m04kA/SMC-ServiceConnect/internal/service/pricing"
)

// ErrInvalidTechnicianStatus неизвестный фильтр статуса мастера
var ErrInvalidTechnicianStatus = errors.New("invalid technician status")

const (
	TechnicianStatusPending  = "pending"
	TechnicianStatusVerified = "verified"
)

// ParseTechnicianStatus pending -> не подтверждён, verified -> подтверждён
func ParseTechnicianStatus(status string) (bool, error) {
	switch status {
	case TechnicianStatusPending:
		return false, nil
	case TechnicianStatusVerified:
		return true, nil
	default:
		return false, ErrInvalidTechnicianStatus
	}
}

// Service услуга с разбивкой стоимости
type Service struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	BasePrice   float64 `json:"basePrice"`
	TotalCost   float64 `json:"totalCost"`
	PlatformFee float64 `json:"platformFee"`
	ServiceFee  float64 `json:"serviceFee"`
}

// ServiceListResponse список услуг
type ServiceListResponse struct {
	Services []Service `json:"services"`
}

// Technician карточка мастера
type Technician struct {
	ID          string  `json:"id"`
	UserID      string  `json:"userId"`
	Name        string  `json:"name"`
	ServiceID   string  `json:"serviceId"`
	ServiceName string  `json:"serviceName"`
	Rating      float64 `json:"rating"`
	Verified    bool    `json:"verified"`
	Earnings    float64 `json:"earnings"`
}

// TechnicianListResponse список мастеров
type TechnicianListResponse struct {
	Technicians []Technician `json:"technicians"`
}

// FromDomainService конвертирует услугу
func FromDomainService(s *domain.Service) Service {
	quote := pricing.ForService(s)
	return Service{
		ID:          s.ID,
		Name:        s.Name,
		BasePrice:   s.BasePrice,
		TotalCost:   quote.TotalCost,
		PlatformFee: quote.PlatformFee,
		ServiceFee:  quote.ServiceFee,
	}
}

// FromDomainServiceList конвертирует список услуг
func FromDomainServiceList(services []*domain.Service) *ServiceListResponse {
	resp := &ServiceListResponse{Services: make([]Service, 0, len(services))}
	for _, s := range services {
		resp.Services = append(resp.Services, FromDomainService(s))
	}
	return resp
}

// FromDomainTechnician конвертирует мастера
// Заработок виден только самому мастеру и администратору
func FromDomainTechnician(t *domain.Technician, withEarnings bool) *Technician {
	resp := &Technician{
		ID:          t.ID,
		UserID:      t.UserID,
		Name:        t.Name,
		ServiceID:   t.ServiceID,
		ServiceName: t.ServiceName,
		Rating:      t.Rating,
		Verified:    t.Verified,
	}
	if withEarnings {
		resp.Earnings = t.Earnings
	}
	return resp
}
