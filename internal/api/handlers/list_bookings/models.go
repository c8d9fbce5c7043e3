package list_bookings

import (
	"net/url"

	"github.com/m04kA/SMC-ServiceConnect/internal/service/bookings/models"
)

// queryFilter фильтр из query-параметров, пустые параметры игнорируются
func queryFilter(q url.Values) *models.ListBookingsRequest {
	return &models.ListBookingsRequest{
		ID:           optional(q, "id"),
		CustomerID:   optional(q, "customerId"),
		TechnicianID: optional(q, "technicianId"),
		Status:       optional(q, "status"),
	}
}

func optional(q url.Values, key string) *string {
	v := q.Get(key)
	if v == "" {
		return nil
	}
	return &v
}
