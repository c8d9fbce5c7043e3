package access

import (
	"context"
	"fmt"
	"sync"

	"github.com/m04kA/SMC-ServiceConnect/internal/domain"
)

// NotFound отличает отсутствие записи мастера от прочих ошибок резолвера
type NotFound func(err error) bool

// Guard проверяет, может ли пользователь видеть бронирование или действовать над ним
type Guard struct {
	technicians TechnicianResolver
	isNotFound  NotFound

	mu    sync.RWMutex
	cache map[string]string // userID -> technicianID
}

// NewGuard создает проверку доступа
func NewGuard(technicians TechnicianResolver, isNotFound NotFound) *Guard {
	return &Guard{
		technicians: technicians,
		isNotFound:  isNotFound,
		cache:       make(map[string]string),
	}
}

// TechnicianID возвращает ID мастера для пользователя-мастера
// Связь пользователь-мастер неизменна, поэтому найденный ID кешируется; промах не кешируется
func (g *Guard) TechnicianID(ctx context.Context, userID string) (string, error) {
	g.mu.RLock()
	id, ok := g.cache[userID]
	g.mu.RUnlock()
	if ok {
		return id, nil
	}

	technician, err := g.technicians.GetTechnicianByUserID(ctx, userID)
	if err != nil {
		if g.isNotFound != nil && g.isNotFound(err) {
			return "", fmt.Errorf("%w: user %s has no technician record", ErrAccessDenied, userID)
		}
		return "", fmt.Errorf("%w: user %s: %v", ErrResolveTechnician, userID, err)
	}

	g.mu.Lock()
	g.cache[userID] = technician.ID
	g.mu.Unlock()

	return technician.ID, nil
}

// CanView возвращает ErrAccessDenied, если бронирование не относится к пользователю
func (g *Guard) CanView(ctx context.Context, identity domain.Identity, booking *domain.Booking) error {
	return g.checkParty(ctx, identity, booking, "view")
}

// CanAct проверяет право выполнить операцию над бронированием
// Допустимость самой операции проверяет таблица переходов
func (g *Guard) CanAct(ctx context.Context, identity domain.Identity, booking *domain.Booking, op domain.Operation) error {
	return g.checkParty(ctx, identity, booking, string(op))
}

// ScopeFilter ограничивает фильтр списка бронированиями пользователя
// Явный фильтр по чужому ID запрещён
func (g *Guard) ScopeFilter(ctx context.Context, identity domain.Identity, filter domain.BookingFilter) (domain.BookingFilter, error) {
	switch id := identity.(type) {
	case domain.Admin:
		return filter, nil
	case domain.Customer:
		if filter.CustomerID != nil && *filter.CustomerID != id.ID {
			return filter, fmt.Errorf("%w: customer %s cannot list bookings of %s", ErrAccessDenied, id.ID, *filter.CustomerID)
		}
		filter.CustomerID = &id.ID
		return filter, nil
	case domain.TechnicianUser:
		technicianID, err := g.TechnicianID(ctx, id.ID)
		if err != nil {
			return filter, err
		}
		if filter.TechnicianID != nil && *filter.TechnicianID != technicianID {
			return filter, fmt.Errorf("%w: technician %s cannot list bookings of %s", ErrAccessDenied, technicianID, *filter.TechnicianID)
		}
		filter.TechnicianID = &technicianID
		return filter, nil
	default:
		return filter, ErrAccessDenied
	}
}

func (g *Guard) checkParty(ctx context.Context, identity domain.Identity, booking *domain.Booking, action string) error {
	switch id := identity.(type) {
	case domain.Admin:
		return nil
	case domain.Customer:
		if IsParty(id, "", booking.CustomerID, booking.TechnicianID) {
			return nil
		}
	case domain.TechnicianUser:
		technicianID, err := g.TechnicianID(ctx, id.ID)
		if err != nil {
			return err
		}
		if IsParty(id, technicianID, booking.CustomerID, booking.TechnicianID) {
			return nil
		}
	}
	return fmt.Errorf("%w: %s cannot %s booking %s", ErrAccessDenied, describe(identity), action, booking.ID)
}

// IsParty чистая проверка участия в бронировании
// technicianID используется только для мастера и должен быть уже разрешён
func IsParty(identity domain.Identity, technicianID, customerID string, bookingTechnicianID *string) bool {
	switch id := identity.(type) {
	case domain.Admin:
		return true
	case domain.Customer:
		return customerID == id.ID
	case domain.TechnicianUser:
		return technicianID != "" && bookingTechnicianID != nil && *bookingTechnicianID == technicianID
	default:
		return false
	}
}

func describe(identity domain.Identity) string {
	if identity == nil {
		return "anonymous"
	}
	return fmt.Sprintf("%s %s", identity.Role(), identity.UserID())
}
