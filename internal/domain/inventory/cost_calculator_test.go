package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/NextWave-98/api-sub002/internal/domain/inventory"
)

func d(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func TestWeightedAverageCost(t *testing.T) {
	cases := []struct {
		name                       string
		currentQty, currentCost    string
		inQty, inCost              string
		want                       string
	}{
		{"entrada sobre stock existente", "10", "100", "10", "200", "150"},
		{"primer ingreso toma el costo de entrada", "0", "0", "5", "40", "40"},
		{"mismo costo no mueve el promedio", "8", "25", "4", "25", "25"},
		{"costos con decimales", "3", "10.50", "1", "14.50", "11.5"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := inventory.WeightedAverageCost(d(tc.currentQty), d(tc.currentCost), d(tc.inQty), d(tc.inCost))
			assert.True(t, got.Equal(d(tc.want)), "got %s, want %s", got, tc.want)
		})
	}
}

func TestWeightedAverageCost_SinCantidades(t *testing.T) {
	// división por cero: sin unidades el promedio es cero
	got := inventory.WeightedAverageCost(decimal.Zero, d("99"), decimal.Zero, d("50"))
	assert.True(t, got.Equal(decimal.Zero))
}
