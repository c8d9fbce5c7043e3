package domain

import "time"

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending    BookingStatus = "pending"
	StatusAccepted   BookingStatus = "accepted"
	StatusRejected   BookingStatus = "rejected"
	StatusCancelled  BookingStatus = "cancelled"
	StatusInProgress BookingStatus = "in_progress"
	StatusCompleted  BookingStatus = "completed"
)

// IsValid reports whether s is one of the known statuses
func (s BookingStatus) IsValid() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// IsTerminal returns true for statuses no operation can leave
func (s BookingStatus) IsTerminal() bool {
	return s == StatusRejected || s == StatusCancelled || s == StatusCompleted
}

// Booking represents a service engagement between a customer and a technician
type Booking struct {
	ID           string
	ServiceID    string
	CustomerID   string
	TechnicianID *string // nil только пока статус pending
	ScheduledAt  time.Time
	Location     string
	Status       BookingStatus
	Rating       *int
	Review       *string

	// Denormalized data captured at creation
	ServiceName    string
	CustomerName   string
	TechnicianName *string

	// Fee snapshot, frozen at creation
	BasePrice   float64
	TotalCost   float64
	PlatformFee float64
	ServiceFee  float64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsAssigned returns true if a technician is attached to the booking
func (b *Booking) IsAssigned() bool {
	return b.TechnicianID != nil && *b.TechnicianID != ""
}

// IsRated returns true if the customer already left a rating
func (b *Booking) IsRated() bool {
	return b.Rating != nil
}

// IsActive returns true while the booking still expects work
func (b *Booking) IsActive() bool {
	return b.Status == StatusAccepted || b.Status == StatusInProgress
}

// BookingFilter фильтр списка бронирований
// Пустые поля не ограничивают выборку
type BookingFilter struct {
	ID           *string
	CustomerID   *string
	TechnicianID *string
	Status       *BookingStatus
}

// BookingStats агрегаты для панели администратора
type BookingStats struct {
	TotalRevenue   float64
	PendingCount   int
	ActiveCount    int
	CompletedCount int
	CancelledCount int
}
