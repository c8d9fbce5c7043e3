package pricing

import (
	"math"

	"github.com/m04kA/SMC-ServiceConnect/internal/domain"
)

// Quote разбивка стоимости бронирования
type Quote struct {
	TotalCost   float64
	PlatformFee float64
	ServiceFee  float64
}

// Calculate считает стоимость по базовой цене услуги
// Все суммы округляются до копеек
func Calculate(basePrice float64) Quote {
	total := Round2(basePrice)
	platformFee := Round2(basePrice * domain.PlatformFeeRate)
	return Quote{
		TotalCost:   total,
		PlatformFee: platformFee,
		ServiceFee:  Round2(total - platformFee),
	}
}

// ForService считает стоимость для услуги
func ForService(service *domain.Service) Quote {
	return Calculate(service.BasePrice)
}

// Round2 округляет до двух знаков, половина от нуля
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
