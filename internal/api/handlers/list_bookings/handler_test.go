package list_bookings

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/SMC-ServiceConnect/internal/api/middleware"
	"github.com/m04kA/SMC-ServiceConnect/internal/domain"
	"github.com/m04kA/SMC-ServiceConnect/internal/service/bookings"
	"github.com/m04kA/SMC-ServiceConnect/internal/service/bookings/models"
	"github.com/m04kA/SMC-ServiceConnect/pkg/logger"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) List(ctx context.Context, identity domain.Identity, req *models.ListBookingsRequest) (*models.BookingListResponse, error) {
	args := m.Called(ctx, identity, req)
	if v := args.Get(0); v != nil {
		return v.(*models.BookingListResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func serve(svc BookingService, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req = req.WithContext(middleware.WithIdentity(req.Context(), domain.Customer{ID: "u1"}))
	rec := httptest.NewRecorder()
	NewHandler(svc, logger.Nop()).Handle(rec, req)
	return rec
}

func TestHandle_PassesQueryFilter(t *testing.T) {
	svc := &mockService{}
	svc.On("List", mock.Anything, domain.Customer{ID: "u1"}, mock.MatchedBy(func(req *models.ListBookingsRequest) bool {
		return req.Status != nil && *req.Status == "pending" && req.ID == nil && req.TechnicianID == nil
	})).Return(&models.BookingListResponse{Bookings: []models.Booking{{ID: "bk1"}}}, nil)

	rec := serve(svc, "/api/v1/bookings?status=pending")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"bookings":[{"id":"bk1"`)
}

func TestHandle_ForeignFilterForbidden(t *testing.T) {
	svc := &mockService{}
	svc.On("List", mock.Anything, mock.Anything, mock.Anything).Return(nil, bookings.ErrAccessDenied)

	rec := serve(svc, "/api/v1/bookings?customerId=u2")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.NotContains(t, rec.Body.String(), "bookings")
}

func TestHandle_InvalidStatus(t *testing.T) {
	svc := &mockService{}
	svc.On("List", mock.Anything, mock.Anything, mock.Anything).Return(nil, bookings.ErrInvalidInput)

	assert.Equal(t, http.StatusBadRequest, serve(svc, "/api/v1/bookings?status=archived").Code)
}
