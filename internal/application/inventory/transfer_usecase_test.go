package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NextWave-98/api-sub002/internal/application/inventory"
	"github.com/NextWave-98/api-sub002/internal/domain"
	"github.com/NextWave-98/api-sub002/internal/domain/entity"
	"github.com/NextWave-98/api-sub002/internal/testutil"
)

func newTransferFixture(t *testing.T) (*inventory.TransferUseCase, *testutil.MemStore) {
	t.Helper()
	store := testutil.NewMemStore()
	store.SeedProduct(productA, "PANT-IP13", "Pantalla iPhone 13")
	store.SeedProduct(productB, "BAT-S22", "Batería Galaxy S22")
	store.SeedLocation(bodega, "BOD-01", "Bodega Central")
	store.SeedLocation(sucursal, "SUC-01", "Sucursal Norte")
	uc := inventory.NewTransferUseCase(
		testutil.NewMemTxRunner(store),
		testutil.NewMemProductRepo(store),
		testutil.NewMemLocationRepo(store),
	)
	return uc, store
}

func TestTransfer_ParDeMovimientosYConservacion(t *testing.T) {
	uc, store := newTransferFixture(t)
	store.SeedInventory(productA, bodega, 10, 0)

	result, err := uc.Transfer(context.Background(), inventory.TransferInput{
		ProductID:      productA,
		FromLocationID: bodega,
		ToLocationID:   sucursal,
		Quantity:       4,
		UserID:         usuarioID,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(6), result.From.Quantity)
	assert.Equal(t, int64(4), result.To.Quantity)

	// conservación: el total entre ubicaciones no cambia
	total := store.Record(productA, bodega).Quantity + store.Record(productA, sucursal).Quantity
	assert.Equal(t, int64(10), total)

	// el libro tiene el par TRANSFER_OUT / TRANSFER_IN con la misma referencia
	require.Len(t, store.Movements, 2)
	out, in := store.Movements[0], store.Movements[1]
	assert.Equal(t, entity.MovementTransferOut, out.Type)
	assert.Equal(t, entity.MovementTransferIn, in.Type)
	assert.Equal(t, bodega, out.LocationID)
	assert.Equal(t, sucursal, in.LocationID)
	assert.Equal(t, entity.ReferenceTransfer, out.ReferenceType)
	assert.Equal(t, out.ReferenceID, in.ReferenceID, "ambas patas comparten la referencia del traslado")
	assert.Equal(t, result.TransferID, out.ReferenceID)
	assert.True(t, out.Consistent())
	assert.True(t, in.Consistent())
}

func TestTransfer_MismaUbicacion(t *testing.T) {
	uc, _ := newTransferFixture(t)
	_, err := uc.Transfer(context.Background(), inventory.TransferInput{
		ProductID:      productA,
		FromLocationID: bodega,
		ToLocationID:   bodega,
		Quantity:       1,
		UserID:         usuarioID,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidTransfer)
}

func TestTransfer_SinStockSuficiente(t *testing.T) {
	uc, store := newTransferFixture(t)
	store.SeedInventory(productA, bodega, 3, 0)

	_, err := uc.Transfer(context.Background(), inventory.TransferInput{
		ProductID:      productA,
		FromLocationID: bodega,
		ToLocationID:   sucursal,
		Quantity:       5,
		UserID:         usuarioID,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(3), store.Record(productA, bodega).Quantity)
	assert.Nil(t, store.Record(productA, sucursal))
	assert.Empty(t, store.Movements)
}

func TestBulkTransfer_TodasLasLineas(t *testing.T) {
	uc, store := newTransferFixture(t)
	store.SeedInventory(productA, bodega, 10, 0)
	store.SeedInventory(productB, bodega, 8, 0)

	result, err := uc.BulkTransfer(context.Background(), inventory.BulkTransferInput{
		FromLocationID: bodega,
		ToLocationID:   sucursal,
		Items: []inventory.BulkTransferItem{
			{ProductID: productA, Quantity: 4},
			{ProductID: productB, Quantity: 8},
		},
		UserID: usuarioID,
	})
	require.NoError(t, err)
	require.Len(t, result.Lines, 2)

	assert.Equal(t, int64(6), store.Record(productA, bodega).Quantity)
	assert.Equal(t, int64(4), store.Record(productA, sucursal).Quantity)
	assert.Equal(t, int64(0), store.Record(productB, bodega).Quantity)
	assert.Equal(t, int64(8), store.Record(productB, sucursal).Quantity)

	// dos patas por línea, todas con la misma referencia del traslado masivo
	require.Len(t, store.Movements, 4)
	for _, m := range store.Movements {
		assert.Equal(t, result.TransferID, m.ReferenceID)
	}
}

// Atomicidad: si una línea no tiene stock, ninguna se aplica.
func TestBulkTransfer_UnaLineaFallaNingunaSeAplica(t *testing.T) {
	uc, store := newTransferFixture(t)
	store.SeedInventory(productA, bodega, 10, 0)
	store.SeedInventory(productB, bodega, 2, 0)

	_, err := uc.BulkTransfer(context.Background(), inventory.BulkTransferInput{
		FromLocationID: bodega,
		ToLocationID:   sucursal,
		Items: []inventory.BulkTransferItem{
			{ProductID: productA, Quantity: 4},
			{ProductID: productB, Quantity: 5}, // insuficiente
		},
		UserID: usuarioID,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Equal(t, int64(10), store.Record(productA, bodega).Quantity)
	assert.Equal(t, int64(2), store.Record(productB, bodega).Quantity)
	assert.Nil(t, store.Record(productA, sucursal))
	assert.Nil(t, store.Record(productB, sucursal))
	assert.Empty(t, store.Movements)
}

func TestBulkTransfer_Duplicados(t *testing.T) {
	uc, store := newTransferFixture(t)
	store.SeedInventory(productA, bodega, 10, 0)

	// mismo producto dos veces en el lote: las dos líneas se aplican en orden
	result, err := uc.BulkTransfer(context.Background(), inventory.BulkTransferInput{
		FromLocationID: bodega,
		ToLocationID:   sucursal,
		Items: []inventory.BulkTransferItem{
			{ProductID: productA, Quantity: 4},
			{ProductID: productA, Quantity: 3},
		},
		UserID: usuarioID,
	})
	require.NoError(t, err)
	require.Len(t, result.Lines, 2)
	assert.Equal(t, int64(3), store.Record(productA, bodega).Quantity)
	assert.Equal(t, int64(7), store.Record(productA, sucursal).Quantity)
}
