package update_booking

import (
	"time"

	"github.com/m04kA/SMC-ServiceConnect/internal/domain"
)

// Request изменения бронирования, nil-поля не меняются
type Request struct {
	BookingID      string
	Date           *string // ISO 8601
	Location       *string
	Status         *string
	Rating         *int
	Review         *string
	ExpectedStatus *string // если указан и не совпадает с текущим, запрос отклоняется
}

// changes разобранный и провалидированный запрос
type changes struct {
	scheduledAt *time.Time
	location    *string
	status      *domain.BookingStatus
	operation   domain.Operation
	rating      *int
	review      *string
	expected    *domain.BookingStatus
}

func (c *changes) reschedules() bool {
	return c.scheduledAt != nil || c.location != nil
}

// firstOperation первая операция запроса в порядке применения
func (c *changes) firstOperation() domain.Operation {
	switch {
	case c.reschedules():
		return domain.OpReschedule
	case c.status != nil:
		return c.operation
	default:
		return domain.OpRate
	}
}
