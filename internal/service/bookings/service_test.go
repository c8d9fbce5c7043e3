package bookings

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ServiceConnect/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ServiceConnect/internal/infra/storage/booking"
	"github.com/m04kA/SMC-ServiceConnect/internal/service/access"
	"github.com/m04kA/SMC-ServiceConnect/internal/service/bookings/models"
	"github.com/m04kA/SMC-ServiceConnect/pkg/logger"
	"github.com/m04kA/SMC-ServiceConnect/pkg/ptr"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*domain.Booking), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepo) List(ctx context.Context, filter domain.BookingFilter) ([]*domain.Booking, error) {
	args := m.Called(ctx, filter)
	if v := args.Get(0); v != nil {
		return v.([]*domain.Booking), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepo) Stats(ctx context.Context) (*domain.BookingStats, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.(*domain.BookingStats), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockGuard struct {
	mock.Mock
}

func (m *mockGuard) CanView(ctx context.Context, identity domain.Identity, booking *domain.Booking) error {
	return m.Called(ctx, identity, booking).Error(0)
}

func (m *mockGuard) ScopeFilter(ctx context.Context, identity domain.Identity, filter domain.BookingFilter) (domain.BookingFilter, error) {
	args := m.Called(ctx, identity, filter)
	return args.Get(0).(domain.BookingFilter), args.Error(1)
}

func sampleBooking() *domain.Booking {
	at := time.Date(2026, 6, 1, 9, 30, 0, 0, time.UTC)
	return &domain.Booking{
		ID:          "b-1",
		ServiceID:   "s-1",
		ServiceName: "Plumbing",
		CustomerID:  "c-1",
		ScheduledAt: at,
		Location:    "Main st. 1",
		Status:      domain.StatusPending,
		TotalCost:   100,
		PlatformFee: 10,
		ServiceFee:  90,
		CreatedAt:   at,
		UpdatedAt:   at,
	}
}

func TestService_GetByID(t *testing.T) {
	repo, guard := new(mockRepo), new(mockGuard)
	svc := NewService(repo, guard, logger.Nop())
	customer := domain.Customer{ID: "c-1"}
	booking := sampleBooking()

	repo.On("GetByID", mock.Anything, "b-1").Return(booking, nil)
	guard.On("CanView", mock.Anything, customer, booking).Return(nil)

	got, err := svc.GetByID(context.Background(), customer, "b-1")
	require.NoError(t, err)
	assert.Equal(t, "2026-06-01T09:30:00.000Z", got.Date)
	assert.Equal(t, 90.0, got.ServiceFee)
}

func TestService_GetByID_Errors(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		repo, guard := new(mockRepo), new(mockGuard)
		repo.On("GetByID", mock.Anything, "b-404").Return(nil, bookingRepo.ErrBookingNotFound)

		_, err := NewService(repo, guard, logger.Nop()).GetByID(context.Background(), domain.Admin{ID: "a"}, "b-404")
		assert.ErrorIs(t, err, ErrBookingNotFound)
	})

	t.Run("forbidden", func(t *testing.T) {
		repo, guard := new(mockRepo), new(mockGuard)
		repo.On("GetByID", mock.Anything, "b-1").Return(sampleBooking(), nil)
		guard.On("CanView", mock.Anything, mock.Anything, mock.Anything).
			Return(fmt.Errorf("%w: nope", access.ErrAccessDenied))

		got, err := NewService(repo, guard, logger.Nop()).GetByID(context.Background(), domain.Customer{ID: "c-2"}, "b-1")
		assert.ErrorIs(t, err, ErrAccessDenied)
		assert.Nil(t, got)
	})
}

func TestService_List_UsesScopedFilter(t *testing.T) {
	repo, guard := new(mockRepo), new(mockGuard)
	svc := NewService(repo, guard, logger.Nop())
	technician := domain.TechnicianUser{ID: "u-1"}
	scoped := domain.BookingFilter{TechnicianID: ptr.Ptr("T1")}

	guard.On("ScopeFilter", mock.Anything, technician, domain.BookingFilter{}).Return(scoped, nil)
	repo.On("List", mock.Anything, scoped).Return([]*domain.Booking{sampleBooking()}, nil)

	resp, err := svc.List(context.Background(), technician, &models.ListBookingsRequest{})
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 1)
	repo.AssertExpectations(t)
}

func TestService_List_InvalidStatus(t *testing.T) {
	svc := NewService(new(mockRepo), new(mockGuard), logger.Nop())

	_, err := svc.List(context.Background(), domain.Admin{ID: "a"}, &models.ListBookingsRequest{Status: ptr.Ptr("archived")})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_AdminStats(t *testing.T) {
	repo := new(mockRepo)
	svc := NewService(repo, new(mockGuard), logger.Nop())
	repo.On("Stats", mock.Anything).Return(&domain.BookingStats{TotalRevenue: 300, CompletedCount: 3}, nil)

	_, err := svc.AdminStats(context.Background(), domain.Customer{ID: "c-1"})
	assert.ErrorIs(t, err, ErrAccessDenied)

	stats, err := svc.AdminStats(context.Background(), domain.Admin{ID: "a-1"})
	require.NoError(t, err)
	assert.Equal(t, 300.0, stats.TotalRevenue)
	assert.Equal(t, 3, stats.CompletedCount)
}
