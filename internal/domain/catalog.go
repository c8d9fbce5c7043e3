package domain

import "time"

// Service is immutable reference data used for fee computation
type Service struct {
	ID        string
	Name      string
	BasePrice float64
}

// Technician is a user registered to perform one service
type Technician struct {
	ID        string
	UserID    string
	ServiceID string
	Rating    float64 // 0..5
	Verified  bool
	Earnings  float64

	// Denormalized for listings
	Name        string
	ServiceName string
}

// CanBeMatched returns true if the technician is eligible for auto-match
func (t *Technician) CanBeMatched() bool {
	return t.Verified
}

// User учётная запись (хранится во внешнем хранилище пользователей)
type User struct {
	ID        string
	Name      string
	Email     string
	Role      Role
	CreatedAt time.Time
}
