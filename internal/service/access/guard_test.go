package access

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ServiceConnect/internal/domain"
	"github.com/m04kA/SMC-ServiceConnect/pkg/ptr"
)

var errNoTechnician = errors.New("technician not found")

type mockResolver struct {
	mock.Mock
}

func (m *mockResolver) GetTechnicianByUserID(ctx context.Context, userID string) (*domain.Technician, error) {
	args := m.Called(ctx, userID)
	if v := args.Get(0); v != nil {
		return v.(*domain.Technician), args.Error(1)
	}
	return nil, args.Error(1)
}

func newGuard() (*Guard, *mockResolver) {
	resolver := new(mockResolver)
	return NewGuard(resolver, func(err error) bool { return errors.Is(err, errNoTechnician) }), resolver
}

func TestGuard_TechnicianOfAnotherBooking(t *testing.T) {
	guard, resolver := newGuard()
	resolver.On("GetTechnicianByUserID", mock.Anything, "u-2").Return(&domain.Technician{ID: "T2"}, nil)

	booking := &domain.Booking{ID: "b-1", CustomerID: "c-1", TechnicianID: ptr.Ptr("T1"), Status: domain.StatusPending}
	technician := domain.TechnicianUser{ID: "u-2"}

	assert.ErrorIs(t, guard.CanView(context.Background(), technician, booking), ErrAccessDenied)
	assert.ErrorIs(t, guard.CanAct(context.Background(), technician, booking, domain.OpAccept), ErrAccessDenied)

	// один запрос к резолверу на пользователя
	resolver.AssertNumberOfCalls(t, "GetTechnicianByUserID", 1)
}

func TestGuard_Parties(t *testing.T) {
	guard, resolver := newGuard()
	resolver.On("GetTechnicianByUserID", mock.Anything, "u-1").Return(&domain.Technician{ID: "T1"}, nil)

	booking := &domain.Booking{ID: "b-1", CustomerID: "c-1", TechnicianID: ptr.Ptr("T1")}
	ctx := context.Background()

	assert.NoError(t, guard.CanView(ctx, domain.Customer{ID: "c-1"}, booking))
	assert.NoError(t, guard.CanView(ctx, domain.TechnicianUser{ID: "u-1"}, booking))
	assert.NoError(t, guard.CanAct(ctx, domain.Admin{ID: "a-1"}, booking, domain.OpCancel))
	assert.ErrorIs(t, guard.CanView(ctx, domain.Customer{ID: "c-2"}, booking), ErrAccessDenied)
	assert.ErrorIs(t, guard.CanView(ctx, nil, booking), ErrAccessDenied)
}

func TestGuard_UnassignedBookingHiddenFromTechnicians(t *testing.T) {
	guard, resolver := newGuard()
	resolver.On("GetTechnicianByUserID", mock.Anything, "u-1").Return(&domain.Technician{ID: "T1"}, nil)

	booking := &domain.Booking{ID: "b-1", CustomerID: "c-1"}
	assert.ErrorIs(t, guard.CanView(context.Background(), domain.TechnicianUser{ID: "u-1"}, booking), ErrAccessDenied)
}

func TestGuard_MissIsNotCached(t *testing.T) {
	guard, resolver := newGuard()
	resolver.On("GetTechnicianByUserID", mock.Anything, "u-9").Return(nil, errNoTechnician).Twice()

	for i := 0; i < 2; i++ {
		_, err := guard.TechnicianID(context.Background(), "u-9")
		assert.ErrorIs(t, err, ErrAccessDenied)
	}
	resolver.AssertExpectations(t)
}

func TestGuard_ResolverFailure(t *testing.T) {
	guard, resolver := newGuard()
	resolver.On("GetTechnicianByUserID", mock.Anything, "u-1").Return(nil, errors.New("db down"))

	_, err := guard.TechnicianID(context.Background(), "u-1")
	assert.ErrorIs(t, err, ErrResolveTechnician)
}

func TestGuard_ScopeFilter(t *testing.T) {
	guard, resolver := newGuard()
	resolver.On("GetTechnicianByUserID", mock.Anything, "u-1").Return(&domain.Technician{ID: "T1"}, nil)
	ctx := context.Background()

	t.Run("customer forced to own id", func(t *testing.T) {
		filter, err := guard.ScopeFilter(ctx, domain.Customer{ID: "c-1"}, domain.BookingFilter{})
		require.NoError(t, err)
		assert.Equal(t, ptr.Ptr("c-1"), filter.CustomerID)
	})

	t.Run("customer asking for another customer", func(t *testing.T) {
		_, err := guard.ScopeFilter(ctx, domain.Customer{ID: "c-1"}, domain.BookingFilter{CustomerID: ptr.Ptr("c-2")})
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("technician forced to resolved id", func(t *testing.T) {
		filter, err := guard.ScopeFilter(ctx, domain.TechnicianUser{ID: "u-1"}, domain.BookingFilter{ID: ptr.Ptr("b-1")})
		require.NoError(t, err)
		assert.Equal(t, ptr.Ptr("T1"), filter.TechnicianID)
		assert.Equal(t, ptr.Ptr("b-1"), filter.ID)
	})

	t.Run("technician asking for another technician", func(t *testing.T) {
		_, err := guard.ScopeFilter(ctx, domain.TechnicianUser{ID: "u-1"}, domain.BookingFilter{TechnicianID: ptr.Ptr("T2")})
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("admin unchanged", func(t *testing.T) {
		in := domain.BookingFilter{CustomerID: ptr.Ptr("c-7")}
		filter, err := guard.ScopeFilter(ctx, domain.Admin{ID: "a-1"}, in)
		require.NoError(t, err)
		assert.Equal(t, in, filter)
	})
}
