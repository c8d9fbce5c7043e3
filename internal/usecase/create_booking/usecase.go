package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/m04kA/SMC-ServiceConnect/internal/domain"
	catalogRepo "github.com/m04kA/SMC-ServiceConnect/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-ServiceConnect/internal/service/bookings/models"
	"github.com/m04kA/SMC-ServiceConnect/internal/service/pricing"
)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo BookingRepository
	catalogRepo CatalogRepository
	matcher     Matcher
	txManager   TransactionManager
	publisher   EventPublisher
	mailer      Mailer
	recorder    TransitionRecorder
	newID       IDGenerator
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
// recorder может быть nil
func NewUseCase(
	bookingRepo BookingRepository,
	catalogRepo CatalogRepository,
	matcher Matcher,
	txManager TransactionManager,
	publisher EventPublisher,
	mailer Mailer,
	recorder TransitionRecorder,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo: bookingRepo,
		catalogRepo: catalogRepo,
		matcher:     matcher,
		txManager:   txManager,
		publisher:   publisher,
		mailer:      mailer,
		recorder:    recorder,
		newID:       uuid.NewString,
		logger:      logger,
	}
}

// Execute выполняет use case создания бронирования
// Стоимость считается один раз и сохраняется вместе с бронированием
func (uc *UseCase) Execute(ctx context.Context, identity domain.Identity, req *Request) (*models.Booking, error) {
	uc.logger.Info("CreateBooking: service=%s, customer=%s, date=%s", req.ServiceID, req.CustomerID, req.Date)

	// 1. Валидация входных данных
	scheduledAt, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Создавать может только клиент и только для себя
	if identity == nil {
		return nil, ErrAccessDenied
	}
	if _, err := domain.CheckTransition(identity.Role(), domain.OpCreate, ""); err != nil {
		uc.logger.Warn("CreateBooking: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidTransition, err)
	}
	if identity.UserID() != req.CustomerID {
		uc.logger.Warn("CreateBooking: user=%s tried to book for customer=%s", identity.UserID(), req.CustomerID)
		return nil, ErrAccessDenied
	}

	// 3. Параллельно получаем услугу и клиента
	var (
		service  *domain.Service
		customer *domain.User
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s, err := uc.catalogRepo.GetService(gctx, req.ServiceID)
		if err != nil {
			if errors.Is(err, catalogRepo.ErrServiceNotFound) {
				return ErrServiceNotFound
			}
			return fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
		}
		service = s
		return nil
	})
	g.Go(func() error {
		u, err := uc.catalogRepo.GetUser(gctx, req.CustomerID)
		if err != nil {
			if errors.Is(err, catalogRepo.ErrUserNotFound) {
				return ErrCustomerNotFound
			}
			return fmt.Errorf("%w: failed to get customer: %v", ErrInternal, err)
		}
		customer = u
		return nil
	})
	if err := g.Wait(); err != nil {
		uc.logFailure("load references", err)
		return nil, err
	}

	// 4. Указанный мастер должен существовать и выполнять эту услугу
	var technician *domain.Technician
	if req.TechnicianID != nil {
		technician, err = uc.catalogRepo.GetTechnician(ctx, *req.TechnicianID)
		if err != nil {
			if errors.Is(err, catalogRepo.ErrTechnicianNotFound) {
				uc.logger.Warn("CreateBooking: technician id=%s not found", *req.TechnicianID)
				return nil, ErrTechnicianNotFound
			}
			uc.logger.Error("CreateBooking: failed to get technician id=%s: %v", *req.TechnicianID, err)
			return nil, fmt.Errorf("%w: failed to get technician: %v", ErrInternal, err)
		}
		if technician.ServiceID != service.ID {
			uc.logger.Warn("CreateBooking: technician id=%s does not provide service id=%s", technician.ID, service.ID)
			return nil, fmt.Errorf("%w: technician does not provide this service", ErrInvalidInput)
		}
	}

	quote := pricing.ForService(service)

	var result *domain.Booking

	// 5. Подбор мастера и сохранение в одной сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		assigned := technician
		if assigned == nil {
			matched, err := uc.matcher.Match(txCtx, service.ID)
			if err != nil {
				return fmt.Errorf("%w: failed to match technician: %w", ErrInternal, err)
			}
			if matched == nil {
				uc.logger.Info("CreateBooking: no verified technician for service=%s, booking stays unassigned", service.ID)
			}
			assigned = matched
		}

		booking := &domain.Booking{
			ID:           uc.newID(),
			ServiceID:    service.ID,
			CustomerID:   customer.ID,
			ScheduledAt:  scheduledAt,
			Location:     req.Location,
			Status:       domain.StatusPending,
			ServiceName:  service.Name,
			CustomerName: customer.Name,
			BasePrice:    service.BasePrice,
			TotalCost:    quote.TotalCost,
			PlatformFee:  quote.PlatformFee,
			ServiceFee:   quote.ServiceFee,
		}
		if assigned != nil {
			booking.TechnicianID = &assigned.ID
			booking.TechnicianName = &assigned.Name
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			return fmt.Errorf("%w: failed to create booking: %w", ErrInternal, err)
		}

		result = created
		return nil
	})
	if err != nil {
		uc.logFailure("save booking", err)
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%s, technician=%v", result.ID, result.TechnicianID)

	if uc.recorder != nil {
		uc.recorder.RecordTransition(string(domain.OpCreate), string(result.Status))
	}

	// 6. Побочные эффекты после фиксации: ошибки только логируются
	if err := uc.publisher.PublishBookingUpdate(ctx, result); err != nil {
		uc.logger.Error("CreateBooking: failed to publish booking id=%s: %v", result.ID, err)
	}

	snapshot := models.FromDomainBooking(result)
	if err := uc.mailer.SendBookingConfirmation(ctx, customer.Email, snapshot); err != nil {
		uc.logger.Warn("CreateBooking: failed to send confirmation for booking id=%s: %v", result.ID, err)
	}

	return snapshot, nil
}

func (uc *UseCase) logFailure(step string, err error) {
	if errors.Is(err, ErrInternal) {
		uc.logger.Error("CreateBooking: %s: %v", step, err)
		return
	}
	uc.logger.Warn("CreateBooking: %s: %v", step, err)
}
