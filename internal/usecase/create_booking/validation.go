package create_booking

import (
	"fmt"
	"strings"
	"unicode/utf8"
	"time"

	"github.com/m04kA/SMC-ServiceConnect/internal/domain"
	"github.com/m04kA/SMC-ServiceConnect/internal/service/bookings/models"
)

// validateRequest валидирует входные данные и возвращает время визита
func validateRequest(req *Request) (time.Time, error) {
	if strings.TrimSpace(req.ServiceID) == "" {
		return time.Time{}, fmt.Errorf("%w: serviceId is required", ErrInvalidInput)
	}

	if strings.TrimSpace(req.CustomerID) == "" {
		return time.Time{}, fmt.Errorf("%w: customerId is required", ErrInvalidInput)
	}

	if err := validateLocation(req.Location); err != nil {
		return time.Time{}, err
	}

	if req.TechnicianID != nil && strings.TrimSpace(*req.TechnicianID) == "" {
		return time.Time{}, fmt.Errorf("%w: technicianId must not be empty", ErrInvalidInput)
	}

	if strings.TrimSpace(req.Date) == "" {
		return time.Time{}, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	scheduledAt, err := models.ParseTime(req.Date)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date must be ISO 8601: %v", ErrInvalidInput, err)
	}

	return scheduledAt, nil
}

func validateLocation(location string) error {
	if strings.TrimSpace(location) == "" {
		return fmt.Errorf("%w: location is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(location) > domain.MaxLocationLength {
		return fmt.Errorf("%w: location is longer than %d characters", ErrInvalidInput, domain.MaxLocationLength)
	}
	return nil
}
