package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckTransition(t *testing.T) {
	tests := []struct {
		name    string
		role    Role
		op      Operation
		from    BookingStatus
		want    BookingStatus
		wantErr bool
	}{
		{name: "customer creates", role: RoleCustomer, op: OpCreate, want: StatusPending},
		{name: "admin cannot create", role: RoleAdmin, op: OpCreate, wantErr: true},
		{name: "technician accepts pending", role: RoleTechnician, op: OpAccept, from: StatusPending, want: StatusAccepted},
		{name: "technician rejects pending", role: RoleTechnician, op: OpReject, from: StatusPending, want: StatusRejected},
		{name: "customer cannot accept", role: RoleCustomer, op: OpAccept, from: StatusPending, wantErr: true},
		{name: "accept twice", role: RoleTechnician, op: OpAccept, from: StatusAccepted, wantErr: true},
		{name: "customer cancels accepted", role: RoleCustomer, op: OpCancel, from: StatusAccepted, want: StatusCancelled},
		{name: "admin cancels in progress", role: RoleAdmin, op: OpCancel, from: StatusInProgress, want: StatusCancelled},
		{name: "technician cannot cancel", role: RoleTechnician, op: OpCancel, from: StatusPending, wantErr: true},
		{name: "cancel completed", role: RoleCustomer, op: OpCancel, from: StatusCompleted, wantErr: true},
		{name: "technician starts accepted", role: RoleTechnician, op: OpStart, from: StatusAccepted, want: StatusInProgress},
		{name: "start pending", role: RoleTechnician, op: OpStart, from: StatusPending, wantErr: true},
		{name: "complete accepted", role: RoleTechnician, op: OpComplete, from: StatusAccepted, want: StatusCompleted},
		{name: "complete in progress", role: RoleTechnician, op: OpComplete, from: StatusInProgress, want: StatusCompleted},
		{name: "complete pending", role: RoleTechnician, op: OpComplete, from: StatusPending, wantErr: true},
		{name: "customer rates completed", role: RoleCustomer, op: OpRate, from: StatusCompleted, want: StatusCompleted},
		{name: "rate accepted", role: RoleCustomer, op: OpRate, from: StatusAccepted, wantErr: true},
		{name: "reschedule keeps status", role: RoleCustomer, op: OpReschedule, from: StatusInProgress, want: StatusInProgress},
		{name: "reschedule rejected", role: RoleCustomer, op: OpReschedule, from: StatusRejected, wantErr: true},
		{name: "unknown operation", role: RoleAdmin, op: Operation("delete"), from: StatusPending, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CheckTransition(tt.role, tt.op, tt.from)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidTransition)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTerminalStatusesHaveNoExit(t *testing.T) {
	terminal := []BookingStatus{StatusRejected, StatusCancelled}
	for _, status := range terminal {
		for op := range Transitions {
			if op == OpCreate {
				continue
			}
			for _, role := range []Role{RoleCustomer, RoleTechnician, RoleAdmin} {
				_, err := CheckTransition(role, op, status)
				assert.ErrorIs(t, err, ErrInvalidTransition, "%s %s from %s", role, op, status)
			}
		}
	}
}

func TestStatusOperation(t *testing.T) {
	op, err := StatusOperation(StatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, OpStart, op)

	_, err = StatusOperation(StatusPending)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = StatusOperation(BookingStatus("archived"))
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestNewIdentity(t *testing.T) {
	id, err := NewIdentity("u-1", RoleTechnician)
	require.NoError(t, err)
	assert.Equal(t, TechnicianUser{ID: "u-1"}, id)

	_, err = NewIdentity("u-1", Role("root"))
	assert.ErrorIs(t, err, ErrUnknownRole)

	_, err = NewIdentity("", RoleAdmin)
	assert.ErrorIs(t, err, ErrUnknownRole)
}
