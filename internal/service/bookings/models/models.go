package models

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-ServiceConnect/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")

	// ErrInvalidDate возвращается, если дата не в формате ISO 8601
	ErrInvalidDate = errors.New("invalid booking date")
)

// EventBookingUpdate имя события push-канала
const EventBookingUpdate = "booking:update"

// Request модели

// ListBookingsRequest фильтр списка, пустые поля не ограничивают выборку
type ListBookingsRequest struct {
	ID           *string `json:"id,omitempty"`
	CustomerID   *string `json:"customerId,omitempty"`
	TechnicianID *string `json:"technicianId,omitempty"`
	Status       *string `json:"status,omitempty"`
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListBookingsRequest) ToDomainFilter() (domain.BookingFilter, error) {
	filter := domain.BookingFilter{
		ID:           r.ID,
		CustomerID:   r.CustomerID,
		TechnicianID: r.TechnicianID,
	}

	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// Booking снимок бронирования: тело ответов API и полезная нагрузка booking:update
type Booking struct {
	ID             string  `json:"id"`
	ServiceID      string  `json:"serviceId"`
	ServiceName    string  `json:"serviceName"`
	CustomerID     string  `json:"customerId"`
	CustomerName   string  `json:"customerName"`
	TechnicianID   *string `json:"technicianId"`
	TechnicianName *string `json:"technicianName"`
	Date           string  `json:"date"` // ISO 8601, UTC
	Location       string  `json:"location"`
	Status         string  `json:"status"`
	Rating         *int    `json:"rating"`
	Review         *string `json:"review"`
	TotalCost      float64 `json:"totalCost"`
	ServiceFee     float64 `json:"serviceFee"`
	PlatformFee    float64 `json:"platformFee"`
	CreatedAt      string  `json:"createdAt"`
	UpdatedAt      string  `json:"updatedAt"`
}

// Event конверт сообщения push-канала
type Event struct {
	Event string  `json:"event"`
	Data  Booking `json:"data"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []Booking `json:"bookings"`
}

// StatsResponse агрегаты для панели администратора
type StatsResponse struct {
	TotalRevenue   float64 `json:"totalRevenue"`
	PendingCount   int     `json:"pendingCount"`
	ActiveCount    int     `json:"activeCount"`
	CompletedCount int     `json:"completedCount"`
	CancelledCount int     `json:"cancelledCount"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в снимок
func FromDomainBooking(b *domain.Booking) *Booking {
	if b == nil {
		return nil
	}

	return &Booking{
		ID:             b.ID,
		ServiceID:      b.ServiceID,
		ServiceName:    b.ServiceName,
		CustomerID:     b.CustomerID,
		CustomerName:   b.CustomerName,
		TechnicianID:   b.TechnicianID,
		TechnicianName: b.TechnicianName,
		Date:           FormatTime(b.ScheduledAt),
		Location:       b.Location,
		Status:         string(b.Status),
		Rating:         b.Rating,
		Review:         b.Review,
		TotalCost:      b.TotalCost,
		ServiceFee:     b.ServiceFee,
		PlatformFee:    b.PlatformFee,
		CreatedAt:      FormatTime(b.CreatedAt),
		UpdatedAt:      FormatTime(b.UpdatedAt),
	}
}

// FromDomainBookingList конвертирует список domain моделей
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]Booking, 0, len(bookings)),
	}
	for _, b := range bookings {
		resp.Bookings = append(resp.Bookings, *FromDomainBooking(b))
	}
	return resp
}

// FromDomainStats конвертирует агрегаты
func FromDomainStats(s *domain.BookingStats) *StatsResponse {
	return &StatsResponse{
		TotalRevenue:   s.TotalRevenue,
		PendingCount:   s.PendingCount,
		ActiveCount:    s.ActiveCount,
		CompletedCount: s.CompletedCount,
		CancelledCount: s.CancelledCount,
	}
}

// NewEvent заворачивает снимок в конверт booking:update
func NewEvent(b *domain.Booking) Event {
	return Event{Event: EventBookingUpdate, Data: *FromDomainBooking(b)}
}

// ToDomainBookingStatus конвертирует строку в статус
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(status)
	if !s.IsValid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}

// FormatTime форматирует время в ISO 8601 (UTC, миллисекунды)
func FormatTime(t time.Time) string {
	return t.UTC().Format(domain.DateTimeFormat)
}

// ParseTime разбирает дату в ISO 8601 / RFC 3339
func ParseTime(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t.UTC(), nil
}
