package update_booking

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/m04kA/SMC-ServiceConnect/internal/domain"
	"github.com/m04kA/SMC-ServiceConnect/internal/service/bookings/models"
)

// parseRequest валидирует формат полей, допустимость переходов проверяется позже
func parseRequest(req *Request) (*changes, error) {
	if strings.TrimSpace(req.BookingID) == "" {
		return nil, fmt.Errorf("%w: booking id is required", ErrInvalidInput)
	}

	if req.Date == nil && req.Location == nil && req.Status == nil && req.Rating == nil && req.Review == nil {
		return nil, fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}

	c := &changes{review: req.Review}

	if req.Date != nil {
		at, err := models.ParseTime(*req.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: date must be ISO 8601", ErrInvalidInput)
		}
		c.scheduledAt = &at
	}

	if req.Location != nil {
		location := *req.Location
		if strings.TrimSpace(location) == "" {
			return nil, fmt.Errorf("%w: location must not be empty", ErrInvalidInput)
		}
		if utf8.RuneCountInString(location) > domain.MaxLocationLength {
			return nil, fmt.Errorf("%w: location is longer than %d characters", ErrInvalidInput, domain.MaxLocationLength)
		}
		c.location = &location
	}

	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *req.Status)
		}
		op, err := domain.StatusOperation(status)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidTransition, err)
		}
		c.status = &status
		c.operation = op
	}

	if req.Review != nil && req.Rating == nil {
		return nil, fmt.Errorf("%w: review requires a rating", ErrInvalidInput)
	}
	if req.Review != nil && utf8.RuneCountInString(*req.Review) > domain.MaxReviewLength {
		return nil, fmt.Errorf("%w: review is longer than %d characters", ErrInvalidInput, domain.MaxReviewLength)
	}

	if req.Rating != nil {
		if *req.Rating < domain.MinRating || *req.Rating > domain.MaxRating {
			return nil, fmt.Errorf("%w: rating must be between %d and %d", ErrInvalidInput, domain.MinRating, domain.MaxRating)
		}
		c.rating = req.Rating
	}

	if req.ExpectedStatus != nil {
		expected, err := models.ToDomainBookingStatus(*req.ExpectedStatus)
		if err != nil {
			return nil, fmt.Errorf("%w: unknown expected status %q", ErrInvalidInput, *req.ExpectedStatus)
		}
		c.expected = &expected
	}

	return c, nil
}
