package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-ServiceConnect/internal/domain"
)

func TestCalculate(t *testing.T) {
	tests := []struct {
		name string
		base float64
		want Quote
	}{
		{name: "round base", base: 100, want: Quote{TotalCost: 100, PlatformFee: 10, ServiceFee: 90}},
		{name: "cents", base: 49.99, want: Quote{TotalCost: 49.99, PlatformFee: 5, ServiceFee: 44.99}},
		{name: "half rounds away from zero", base: 0.25, want: Quote{TotalCost: 0.25, PlatformFee: 0.03, ServiceFee: 0.22}},
		{name: "free", base: 0, want: Quote{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Calculate(tt.base))
		})
	}
}

func TestForService_Stable(t *testing.T) {
	service := &domain.Service{ID: "s-1", BasePrice: 100}

	first := ForService(service)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, ForService(service))
	}
	assert.Equal(t, 10.0, first.PlatformFee)
	assert.Equal(t, 90.0, first.ServiceFee)
	assert.Equal(t, 100.0, first.TotalCost)
}
