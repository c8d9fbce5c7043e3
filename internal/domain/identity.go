package domain

// Role роль пользователя
type Role string

const (
	RoleCustomer   Role = "customer"
	RoleTechnician Role = "technician"
	RoleAdmin      Role = "admin"
)

// IsValid reports whether r is a known role
func (r Role) IsValid() bool {
	return r == RoleCustomer || r == RoleTechnician || r == RoleAdmin
}

// Identity is the authenticated caller. It is a closed set: only
// Customer, Technician and Admin implement it, so a type switch over an
// Identity with a denying default branch covers every case.
type Identity interface {
	UserID() string
	Role() Role
	identity()
}

// Customer books services
type Customer struct{ ID string }

// TechnicianUser performs bookings assigned to its technician record
type TechnicianUser struct{ ID string }

// Admin may view and act on any booking
type Admin struct{ ID string }

func (c Customer) UserID() string { return c.ID }
func (c Customer) Role() Role     { return RoleCustomer }
func (Customer) identity()        {}

func (t TechnicianUser) UserID() string { return t.ID }
func (t TechnicianUser) Role() Role     { return RoleTechnician }
func (TechnicianUser) identity()        {}

func (a Admin) UserID() string { return a.ID }
func (a Admin) Role() Role     { return RoleAdmin }
func (Admin) identity()        {}

// NewIdentity builds an Identity from a role claim
func NewIdentity(userID string, role Role) (Identity, error) {
	if userID == "" {
		return nil, ErrUnknownRole
	}
	switch role {
	case RoleCustomer:
		return Customer{ID: userID}, nil
	case RoleTechnician:
		return TechnicianUser{ID: userID}, nil
	case RoleAdmin:
		return Admin{ID: userID}, nil
	default:
		return nil, ErrUnknownRole
	}
}
