package update_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ServiceConnect/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ServiceConnect/internal/infra/storage/booking"
	"github.com/m04kA/SMC-ServiceConnect/internal/service/access"
	"github.com/m04kA/SMC-ServiceConnect/internal/service/bookings/models"
	"github.com/m04kA/SMC-ServiceConnect/pkg/txmanager"
)

// UseCase изменение бронирования: перенос, смена статуса, оценка
type UseCase struct {
	bookingRepo    BookingRepository
	technicianRepo TechnicianRepository
	guard          AccessGuard
	txManager      TransactionManager
	publisher      EventPublisher
	recorder       TransitionRecorder
	logger         Logger
}

// NewUseCase создает новый экземпляр use case
// recorder может быть nil
func NewUseCase(
	bookingRepo BookingRepository,
	technicianRepo TechnicianRepository,
	guard AccessGuard,
	txManager TransactionManager,
	publisher EventPublisher,
	recorder TransitionRecorder,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:    bookingRepo,
		technicianRepo: technicianRepo,
		guard:          guard,
		txManager:      txManager,
		publisher:      publisher,
		recorder:       recorder,
		logger:         logger,
	}
}

// UpdateStatus переводит бронирование в status
func (uc *UseCase) UpdateStatus(ctx context.Context, identity domain.Identity, bookingID, status string, expectedStatus *string) (*models.Booking, error) {
	return uc.Execute(ctx, identity, &Request{
		BookingID:      bookingID,
		Status:         &status,
		ExpectedStatus: expectedStatus,
	})
}

// Execute применяет изменения в порядке: перенос, смена статуса, оценка
// Всё выполняется в одной транзакции: при любой ошибке бронирование не меняется
func (uc *UseCase) Execute(ctx context.Context, identity domain.Identity, req *Request) (*models.Booking, error) {
	uc.logger.Info("UpdateBooking: booking=%s", req.BookingID)

	c, err := parseRequest(req)
	if err != nil {
		uc.logger.Warn("UpdateBooking: validation failed for booking=%s: %v", req.BookingID, err)
		return nil, err
	}
	if identity == nil {
		return nil, ErrAccessDenied
	}

	var (
		result  *domain.Booking
		applied []domain.Operation
	)

	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		applied = applied[:0]

		// 1. Блокируем строку
		booking, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			return uc.repoError("load booking", err)
		}

		// 2. Доступ проверяется до сравнения статусов: чужой не узнаёт статус по ответу
		if err := uc.authorize(txCtx, identity, booking, c.firstOperation()); err != nil {
			return err
		}

		// 3. Ожидаемый статус
		if c.expected != nil && *c.expected != booking.Status {
			return fmt.Errorf("%w: booking %s changed since expected %s", ErrStatusConflict, booking.ID, *c.expected)
		}

		current := booking.Status
		role := identity.Role()

		// 4. Перенос проверяется относительно текущего статуса
		if c.reschedules() {
			if err := uc.authorize(txCtx, identity, booking, domain.OpReschedule); err != nil {
				return err
			}
			if _, err := domain.CheckTransition(role, domain.OpReschedule, current); err != nil {
				return fmt.Errorf("%w: %v", ErrInvalidTransition, err)
			}
			if err := uc.bookingRepo.UpdateSchedule(txCtx, booking.ID, current, c.scheduledAt, c.location); err != nil {
				return uc.repoError("reschedule", err)
			}
			applied = append(applied, domain.OpReschedule)
		}

		// 5. Смена статуса по таблице переходов
		if c.status != nil {
			if err := uc.authorize(txCtx, identity, booking, c.operation); err != nil {
				return err
			}
			next, err := domain.CheckTransition(role, c.operation, current)
			if err != nil {
				return fmt.Errorf("%w: %v", ErrInvalidTransition, err)
			}
			if err := uc.bookingRepo.UpdateStatus(txCtx, booking.ID, current, next); err != nil {
				return uc.repoError("update status", err)
			}
			current = next

			if c.operation == domain.OpComplete && booking.IsAssigned() {
				if err := uc.technicianRepo.AddTechnicianEarnings(txCtx, *booking.TechnicianID, booking.ServiceFee); err != nil {
					return fmt.Errorf("%w: add earnings: %w", ErrInternal, err)
				}
			}
			applied = append(applied, c.operation)
		}

		// 6. Оценка проверяется относительно статуса после перехода
		if c.rating != nil {
			if err := uc.authorize(txCtx, identity, booking, domain.OpRate); err != nil {
				return err
			}
			if _, err := domain.CheckTransition(role, domain.OpRate, current); err != nil {
				return fmt.Errorf("%w: %v", ErrInvalidTransition, err)
			}
			if booking.IsRated() {
				return fmt.Errorf("%w: booking %s is already rated", ErrInvalidTransition, booking.ID)
			}
			if err := uc.bookingRepo.SetRating(txCtx, booking.ID, *c.rating, c.review); err != nil {
				return uc.repoError("rate", err)
			}
			if booking.IsAssigned() {
				if err := uc.refreshTechnicianRating(txCtx, *booking.TechnicianID); err != nil {
					return err
				}
			}
			applied = append(applied, domain.OpRate)
		}

		updated, err := uc.bookingRepo.GetByID(txCtx, booking.ID)
		if err != nil {
			return uc.repoError("reload booking", err)
		}
		result = updated
		return nil
	})
	if txmanager.IsSerializationFailure(err) {
		err = fmt.Errorf("%w: concurrent update of booking %s", ErrStatusConflict, req.BookingID)
	}
	if err != nil {
		if errors.Is(err, ErrInternal) {
			uc.logger.Error("UpdateBooking: booking=%s: %v", req.BookingID, err)
		} else {
			uc.logger.Warn("UpdateBooking: booking=%s: %v", req.BookingID, err)
		}
		return nil, err
	}

	uc.logger.Info("UpdateBooking: booking=%s applied %v, status=%s", result.ID, applied, result.Status)

	if uc.recorder != nil {
		for _, op := range applied {
			uc.recorder.RecordTransition(string(op), string(result.Status))
		}
	}

	if err := uc.publisher.PublishBookingUpdate(ctx, result); err != nil {
		uc.logger.Error("UpdateBooking: failed to publish booking id=%s: %v", result.ID, err)
	}

	return models.FromDomainBooking(result), nil
}

func (uc *UseCase) authorize(ctx context.Context, identity domain.Identity, booking *domain.Booking, op domain.Operation) error {
	if err := uc.guard.CanAct(ctx, identity, booking, op); err != nil {
		if errors.Is(err, access.ErrAccessDenied) {
			return fmt.Errorf("%w: %v", ErrAccessDenied, err)
		}
		return fmt.Errorf("%w: access check: %v", ErrInternal, err)
	}
	return nil
}

// refreshTechnicianRating пересчитывает рейтинг мастера как среднее его оценок
func (uc *UseCase) refreshTechnicianRating(ctx context.Context, technicianID string) error {
	avg, err := uc.bookingRepo.AverageRatingForTechnician(ctx, technicianID)
	if err != nil {
		return fmt.Errorf("%w: average rating: %w", ErrInternal, err)
	}
	if err := uc.technicianRepo.SetTechnicianRating(ctx, technicianID, avg); err != nil {
		return fmt.Errorf("%w: set technician rating: %w", ErrInternal, err)
	}
	return nil
}

func (uc *UseCase) repoError(step string, err error) error {
	switch {
	case errors.Is(err, bookingRepo.ErrBookingNotFound):
		return ErrBookingNotFound
	case errors.Is(err, bookingRepo.ErrStatusConflict):
		return fmt.Errorf("%w: %s", ErrStatusConflict, step)
	case errors.Is(err, bookingRepo.ErrAlreadyRated):
		return fmt.Errorf("%w: already rated", ErrInvalidTransition)
	default:
		return fmt.Errorf("%w: %s: %w", ErrInternal, step, err)
	}
}
