package inventory

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCostCalculator_PromedioPonderado(t *testing.T) {
	d := decimal.RequireFromString
	tests := []struct {
		name                        string
		stock, cost, qty, entryCost string
		want                        string
	}{
		{"sin existencias toma el costo de entrada", "0", "0", "10", "1500", "1500"},
		{"promedio ponderado", "10", "1000", "10", "2000", "1500"},
		{"redondeo a 4 decimales", "3", "10", "1", "11", "10.25"},
		{"existencias negativas", "-2", "800", "5", "900", "900"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CostCalculator(d(tt.stock), d(tt.cost), d(tt.qty), d(tt.entryCost))
			assert.True(t, got.Equal(d(tt.want)), "got %s want %s", got, tt.want)
		})
	}
}
