package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ServiceConnect/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ServiceConnect/internal/infra/storage/booking"
	"github.com/m04kA/SMC-ServiceConnect/internal/service/access"
	"github.com/m04kA/SMC-ServiceConnect/internal/service/bookings/models"
)

// Service чтение бронирований с учётом прав пользователя
type Service struct {
	bookingRepo BookingRepository
	guard       AccessGuard
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(bookingRepo BookingRepository, guard AccessGuard, logger Logger) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		guard:       guard,
		logger:      logger,
	}
}

// GetByID получает бронирование по ID
// Чужое бронирование не отдаётся ни в каком виде
func (s *Service) GetByID(ctx context.Context, identity domain.Identity, id string) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%s not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if err := s.guard.CanView(ctx, identity, booking); err != nil {
		return nil, s.accessError("GetByID", err)
	}

	return models.FromDomainBooking(booking), nil
}

// List возвращает бронирования, видимые пользователю
// Фильтр сужается на сервере: клиент видит только свои бронирования, мастер только назначенные ему
func (s *Service) List(ctx context.Context, identity domain.Identity, req *models.ListBookingsRequest) (*models.BookingListResponse, error) {
	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("List: invalid filter: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	filter, err = s.guard.ScopeFilter(ctx, identity, filter)
	if err != nil {
		return nil, s.accessError("List", err)
	}

	bookings, err := s.bookingRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: %s %s fetched %d bookings", identity.Role(), identity.UserID(), len(bookings))
	return models.FromDomainBookingList(bookings), nil
}

// AdminStats агрегаты по всем бронированиям, только для администратора
func (s *Service) AdminStats(ctx context.Context, identity domain.Identity) (*models.StatsResponse, error) {
	if _, ok := identity.(domain.Admin); !ok {
		return nil, ErrAccessDenied
	}

	stats, err := s.bookingRepo.Stats(ctx)
	if err != nil {
		s.logger.Error("AdminStats: repository error: %v", err)
		return nil, fmt.Errorf("%w: AdminStats - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainStats(stats), nil
}

func (s *Service) accessError(op string, err error) error {
	if errors.Is(err, access.ErrAccessDenied) {
		s.logger.Warn("%s: %v", op, err)
		return ErrAccessDenied
	}
	s.logger.Error("%s: access check failed: %v", op, err)
	return fmt.Errorf("%w: %s - access check: %v", ErrInternal, op, err)
}
