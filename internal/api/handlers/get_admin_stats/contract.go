package get_admin_stats

import (
	"context"

	"github.com/m04kA/SMC-ServiceConnect/internal/domain"
	"github.com/m04kA/SMC-ServiceConnect/internal/service/bookings/models"
)

type BookingService interface {
	AdminStats(ctx context.Context, identity domain.Identity) (*models.StatsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
