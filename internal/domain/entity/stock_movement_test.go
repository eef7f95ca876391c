package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NextWave-98/api-sub002/internal/domain"
	"github.com/NextWave-98/api-sub002/internal/domain/entity"
)

func TestMovementTypeDirection(t *testing.T) {
	entradas := []entity.MovementType{
		entity.MovementPurchase, entity.MovementAdjustmentIn, entity.MovementTransferIn,
		entity.MovementReturnFromCustomer, entity.MovementFound,
	}
	salidas := []entity.MovementType{
		entity.MovementSales, entity.MovementAdjustmentOut, entity.MovementTransferOut,
		entity.MovementReturnToSupplier, entity.MovementDamaged, entity.MovementStolen,
	}
	for _, mt := range entradas {
		assert.Equal(t, int64(1), mt.Direction(), "entrada: %s", mt)
		assert.True(t, mt.Valid())
	}
	for _, mt := range salidas {
		assert.Equal(t, int64(-1), mt.Direction(), "salida: %s", mt)
		assert.True(t, mt.Valid())
	}
	assert.Equal(t, int64(0), entity.MovementType("INVENTADO").Direction())
	assert.False(t, entity.MovementType("INVENTADO").Valid())
}

func TestMovementTypeForIntent(t *testing.T) {
	cases := []struct {
		intent   entity.StockIntent
		quantity int64
		want     entity.MovementType
	}{
		{entity.IntentStockIn, 5, entity.MovementPurchase},
		{entity.IntentStockOut, -3, entity.MovementSales},
		{entity.IntentReturn, 2, entity.MovementReturnFromCustomer},
		{entity.IntentDamage, -1, entity.MovementDamaged},
		{entity.IntentFound, 4, entity.MovementFound},
		{entity.IntentStolen, -2, entity.MovementStolen},
		{entity.IntentCorrection, 7, entity.MovementAdjustmentIn},
		{entity.IntentCorrection, -7, entity.MovementAdjustmentOut},
	}
	for _, tc := range cases {
		got, err := entity.MovementTypeForIntent(tc.intent, tc.quantity)
		require.NoError(t, err, "%s con %d", tc.intent, tc.quantity)
		assert.Equal(t, tc.want, got)
	}
}

// El signo debe ser coherente con la dirección de la intención.
func TestMovementTypeForIntent_SignoIncoherente(t *testing.T) {
	_, err := entity.MovementTypeForIntent(entity.IntentStockIn, -5)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = entity.MovementTypeForIntent(entity.IntentDamage, 5)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = entity.MovementTypeForIntent(entity.IntentStockIn, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = entity.MovementTypeForIntent(entity.StockIntent("OTRA"), 5)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReferenceTypeValid(t *testing.T) {
	for _, rt := range []entity.ReferenceType{
		entity.ReferenceAdjustment, entity.ReferenceTransfer,
		entity.ReferenceStockRelease, entity.ReferencePurchaseOrder,
	} {
		assert.True(t, rt.Valid(), "%s", rt)
	}
	assert.False(t, entity.ReferenceType("FACTURA").Valid())
	assert.False(t, entity.ReferenceType("").Valid())
}

func TestStockMovementConsistent(t *testing.T) {
	m := &entity.StockMovement{
		Type:           entity.MovementPurchase,
		Quantity:       10,
		QuantityBefore: 5,
		QuantityAfter:  15,
	}
	assert.True(t, m.Consistent())

	m.Type = entity.MovementSales
	m.QuantityBefore = 15
	m.QuantityAfter = 5
	assert.True(t, m.Consistent())

	m.QuantityAfter = 6 // no cuadra con before - quantity
	assert.False(t, m.Consistent())

	m.Quantity = 0
	assert.False(t, m.Consistent())
}

func TestInventoryRecordSetQuantities(t *testing.T) {
	rec := &entity.InventoryRecord{ProductID: "p", LocationID: "l"}

	require.NoError(t, rec.SetQuantities(10, 4))
	assert.Equal(t, int64(10), rec.Quantity)
	assert.Equal(t, int64(4), rec.ReservedQuantity)
	assert.Equal(t, int64(6), rec.AvailableQuantity)

	// cantidad negativa
	err := rec.SetQuantities(-1, 0)
	assert.ErrorIs(t, err, domain.ErrInvariantViolation)

	// reservado mayor que la cantidad deja disponible negativo
	err = rec.SetQuantities(3, 5)
	assert.ErrorIs(t, err, domain.ErrInvariantViolation)

	// el registro no cambió tras los rechazos
	assert.Equal(t, int64(10), rec.Quantity)
	assert.Equal(t, int64(6), rec.AvailableQuantity)
}
