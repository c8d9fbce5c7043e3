package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTransition operation is not allowed for this actor or status
	ErrInvalidTransition = errors.New("domain: invalid booking transition")

	// ErrUnknownRole role claim is not one of customer, technician, admin
	ErrUnknownRole = errors.New("domain: unknown role")
)

// Operation is a booking lifecycle operation
type Operation string

const (
	OpCreate     Operation = "create"
	OpAccept     Operation = "accept"
	OpReject     Operation = "reject"
	OpCancel     Operation = "cancel"
	OpStart      Operation = "start"
	OpComplete   Operation = "complete"
	OpRate       Operation = "rate"
	OpReschedule Operation = "reschedule"
)

// Transition is one row of the lifecycle table.
// Target is empty for operations that keep the status unchanged.
type Transition struct {
	Actors []Role
	From   []BookingStatus
	Target BookingStatus
}

// Transitions is the complete lifecycle table. Anything not listed is illegal.
var Transitions = map[Operation]Transition{
	OpCreate: {
		Actors: []Role{RoleCustomer},
		Target: StatusPending,
	},
	OpAccept: {
		Actors: []Role{RoleTechnician},
		From:   []BookingStatus{StatusPending},
		Target: StatusAccepted,
	},
	OpReject: {
		Actors: []Role{RoleTechnician},
		From:   []BookingStatus{StatusPending},
		Target: StatusRejected,
	},
	OpCancel: {
		Actors: []Role{RoleCustomer, RoleAdmin},
		From:   []BookingStatus{StatusPending, StatusAccepted, StatusInProgress},
		Target: StatusCancelled,
	},
	OpStart: {
		Actors: []Role{RoleTechnician},
		From:   []BookingStatus{StatusAccepted},
		Target: StatusInProgress,
	},
	OpComplete: {
		Actors: []Role{RoleTechnician},
		From:   []BookingStatus{StatusAccepted, StatusInProgress},
		Target: StatusCompleted,
	},
	OpRate: {
		Actors: []Role{RoleCustomer},
		From:   []BookingStatus{StatusCompleted},
	},
	OpReschedule: {
		Actors: []Role{RoleCustomer},
		From:   []BookingStatus{StatusPending, StatusAccepted, StatusInProgress},
	},
}

// CheckTransition validates op performed by role on a booking in status from
// and returns the resulting status. Create ignores from.
func CheckTransition(role Role, op Operation, from BookingStatus) (BookingStatus, error) {
	t, ok := Transitions[op]
	if !ok {
		return from, fmt.Errorf("%w: unknown operation %q", ErrInvalidTransition, op)
	}

	if !containsRole(t.Actors, role) {
		return from, fmt.Errorf("%w: %s cannot %s", ErrInvalidTransition, role, op)
	}

	if op != OpCreate && !containsStatus(t.From, from) {
		return from, fmt.Errorf("%w: cannot %s a booking in status %s", ErrInvalidTransition, op, from)
	}

	if t.Target == "" {
		return from, nil
	}
	return t.Target, nil
}

// StatusOperation maps a requested target status to the operation that
// produces it. Pending is never a valid target.
func StatusOperation(target BookingStatus) (Operation, error) {
	switch target {
	case StatusAccepted:
		return OpAccept, nil
	case StatusRejected:
		return OpReject, nil
	case StatusCancelled:
		return OpCancel, nil
	case StatusInProgress:
		return OpStart, nil
	case StatusCompleted:
		return OpComplete, nil
	default:
		return "", fmt.Errorf("%w: status %q cannot be requested", ErrInvalidTransition, target)
	}
}

func containsRole(roles []Role, role Role) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

func containsStatus(statuses []BookingStatus, status BookingStatus) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}
