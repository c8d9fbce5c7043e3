package pushclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/m04kA/SMC-ServiceConnect/internal/service/bookings/models"
)

type technicianResponse struct {
	ID string `json:"id"`
}

// listBookings забирает бронирования, видимые текущему пользователю
func (s *Session) listBookings(ctx context.Context) ([]models.Booking, error) {
	var resp models.BookingListResponse
	if err := s.getJSON(ctx, "/api/v1/bookings", &resp); err != nil {
		return nil, err
	}
	return resp.Bookings, nil
}

// resolveTechnician находит technicianId текущего пользователя
func (s *Session) resolveTechnician(ctx context.Context, userID string) (string, error) {
	var resp technicianResponse
	if err := s.getJSON(ctx, "/api/v1/technicians/by-user/"+url.PathEscape(userID), &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

func (s *Session) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.BaseURL+path, nil)
	if err != nil {
		return fmt.Errorf("%w: GET %s: %v", ErrResync, path, err)
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.Token)
	req.Header.Set("Accept", "application/json")

	resp, err := s.cfg.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: GET %s: %v", ErrResync, path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("%w: GET %s: status %d", ErrResync, path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: GET %s: decode: %v", ErrResync, path, err)
	}
	return nil
}
