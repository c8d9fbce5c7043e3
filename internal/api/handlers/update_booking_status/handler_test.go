package update_booking_status

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/SMC-ServiceConnect/internal/api/middleware"
	"github.com/m04kA/SMC-ServiceConnect/internal/domain"
	"github.com/m04kA/SMC-ServiceConnect/internal/service/bookings/models"
	updateBooking "github.com/m04kA/SMC-ServiceConnect/internal/usecase/update_booking"
	"github.com/m04kA/SMC-ServiceConnect/pkg/logger"
)

type mockUseCase struct {
	mock.Mock
}

func (m *mockUseCase) UpdateStatus(ctx context.Context, identity domain.Identity, bookingID, status string, expectedStatus *string) (*models.Booking, error) {
	args := m.Called(ctx, identity, bookingID, status, expectedStatus)
	if v := args.Get(0); v != nil {
		return v.(*models.Booking), args.Error(1)
	}
	return nil, args.Error(1)
}

func serve(uc UpdateBookingUseCase, body string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/api/v1/bookings/{bookingId}/status", NewHandler(uc, logger.Nop()).Handle).Methods(http.MethodPatch)

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/bookings/bk1/status", strings.NewReader(body))
	req = req.WithContext(middleware.WithIdentity(req.Context(), domain.TechnicianUser{ID: "tu1"}))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandle_Accept(t *testing.T) {
	uc := &mockUseCase{}
	expected := "pending"
	uc.On("UpdateStatus", mock.Anything, domain.TechnicianUser{ID: "tu1"}, "bk1", "accepted", &expected).
		Return(&models.Booking{ID: "bk1", Status: "accepted"}, nil)

	rec := serve(uc, `{"status":"accepted","expectedStatus":"pending"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"accepted"`)
}

func TestHandle_RejectsPendingTarget(t *testing.T) {
	rec := serve(&mockUseCase{}, `{"status":"pending"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{err: updateBooking.ErrInvalidInput, want: http.StatusBadRequest},
		{err: updateBooking.ErrBookingNotFound, want: http.StatusNotFound},
		{err: updateBooking.ErrAccessDenied, want: http.StatusForbidden},
		{err: updateBooking.ErrInvalidTransition, want: http.StatusUnprocessableEntity},
		{err: updateBooking.ErrStatusConflict, want: http.StatusConflict},
		{err: updateBooking.ErrInternal, want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			uc := &mockUseCase{}
			uc.On("UpdateStatus", mock.Anything, mock.Anything, "bk1", "completed", (*string)(nil)).Return(nil, tt.err)

			assert.Equal(t, tt.want, serve(uc, `{"status":"completed"}`).Code)
		})
	}
}
