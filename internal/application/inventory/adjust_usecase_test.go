package inventory_test

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NextWave-98/api-sub002/internal/application/inventory"
	"github.com/NextWave-98/api-sub002/internal/domain"
	"github.com/NextWave-98/api-sub002/internal/domain/entity"
	"github.com/NextWave-98/api-sub002/internal/domain/repository"
	"github.com/NextWave-98/api-sub002/internal/testutil"
)

const (
	productA  = "00000000-0000-0000-0000-00000000000a"
	productB  = "00000000-0000-0000-0000-00000000000b"
	bodega    = "00000000-0000-0000-0000-0000000000b1"
	sucursal  = "00000000-0000-0000-0000-0000000000b2"
	usuarioID = "00000000-0000-0000-0000-0000000000u1"
)

func newAdjustFixture(t *testing.T) (*inventory.AdjustUseCase, *testutil.MemStore) {
	t.Helper()
	store := testutil.NewMemStore()
	store.SeedProduct(productA, "PANT-IP13", "Pantalla iPhone 13")
	store.SeedProduct(productB, "BAT-S22", "Batería Galaxy S22")
	store.SeedLocation(bodega, "BOD-01", "Bodega Central")
	store.SeedLocation(sucursal, "SUC-01", "Sucursal Norte")
	uc := inventory.NewAdjustUseCase(
		testutil.NewMemTxRunner(store),
		testutil.NewMemProductRepo(store),
		testutil.NewMemLocationRepo(store),
	)
	return uc, store
}

func TestAdjust_EntradaCreaFilaYMovimiento(t *testing.T) {
	uc, store := newAdjustFixture(t)
	cost := decimal.NewFromInt(50)

	record, err := uc.Adjust(context.Background(), inventory.AdjustInput{
		ProductID:  productA,
		LocationID: bodega,
		Quantity:   10,
		Intent:     entity.IntentStockIn,
		UnitCost:   &cost,
		UserID:     usuarioID,
	})
	require.NoError(t, err)

	// la fila se creó perezosamente con la cantidad de la entrada
	assert.Equal(t, int64(10), record.Quantity)
	assert.Equal(t, int64(0), record.ReservedQuantity)
	assert.Equal(t, int64(10), record.AvailableQuantity)

	// el libro tiene exactamente una entrada PURCHASE con snapshot antes/después
	require.Len(t, store.Movements, 1)
	m := store.Movements[0]
	assert.Equal(t, entity.MovementPurchase, m.Type)
	assert.Equal(t, int64(10), m.Quantity)
	assert.Equal(t, int64(0), m.QuantityBefore)
	assert.Equal(t, int64(10), m.QuantityAfter)
	assert.True(t, m.Consistent())
	assert.True(t, m.TotalCost.Equal(decimal.NewFromInt(500)))

	// entrada con costo declarado recalcula el promedio ponderado
	assert.True(t, store.Products[productA].Cost.Equal(cost))
}

func TestAdjust_SalidaSinStockNoMutaNada(t *testing.T) {
	uc, store := newAdjustFixture(t)
	store.SeedInventory(productA, bodega, 5, 0)

	_, err := uc.Adjust(context.Background(), inventory.AdjustInput{
		ProductID:  productA,
		LocationID: bodega,
		Quantity:   -8,
		Intent:     entity.IntentStockOut,
		UserID:     usuarioID,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, int64(5), insufficient.Available)
	assert.Equal(t, int64(8), insufficient.Requested)

	// rollback total: ni la fila ni el libro cambiaron
	assert.Equal(t, int64(5), store.Record(productA, bodega).Quantity)
	assert.Empty(t, store.Movements)
}

// La salida descuenta del disponible, no del total: unidades reservadas no salen.
func TestAdjust_SalidaRespetaReservas(t *testing.T) {
	uc, store := newAdjustFixture(t)
	store.SeedInventory(productA, bodega, 10, 7)

	_, err := uc.Adjust(context.Background(), inventory.AdjustInput{
		ProductID:  productA,
		LocationID: bodega,
		Quantity:   -5,
		Intent:     entity.IntentStockOut,
		UserID:     usuarioID,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	record, err := uc.Adjust(context.Background(), inventory.AdjustInput{
		ProductID:  productA,
		LocationID: bodega,
		Quantity:   -3,
		Intent:     entity.IntentStockOut,
		UserID:     usuarioID,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), record.Quantity)
	assert.Equal(t, int64(7), record.ReservedQuantity)
	assert.Equal(t, int64(0), record.AvailableQuantity)
}

func TestAdjust_ProductoInexistente(t *testing.T) {
	uc, _ := newAdjustFixture(t)
	_, err := uc.Adjust(context.Background(), inventory.AdjustInput{
		ProductID:  "00000000-0000-0000-0000-0000000000ff",
		LocationID: bodega,
		Quantity:   5,
		Intent:     entity.IntentStockIn,
		UserID:     usuarioID,
	})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestAdjust_CorreccionUsaSigno(t *testing.T) {
	uc, store := newAdjustFixture(t)
	store.SeedInventory(productA, bodega, 10, 0)

	_, err := uc.Adjust(context.Background(), inventory.AdjustInput{
		ProductID:  productA,
		LocationID: bodega,
		Quantity:   -4,
		Intent:     entity.IntentCorrection,
		UserID:     usuarioID,
	})
	require.NoError(t, err)
	require.Len(t, store.Movements, 1)
	assert.Equal(t, entity.MovementAdjustmentOut, store.Movements[0].Type)
	assert.Equal(t, int64(6), store.Record(productA, bodega).Quantity)
}

// La referencia del movimiento pertenece a un vocabulario cerrado: una cadena
// arbitraria del caller no entra al libro.
func TestAdjust_ReferenciaFueraDelVocabulario(t *testing.T) {
	uc, store := newAdjustFixture(t)

	_, err := uc.Adjust(context.Background(), inventory.AdjustInput{
		ProductID:     productA,
		LocationID:    bodega,
		Quantity:      5,
		Intent:        entity.IntentStockIn,
		ReferenceType: entity.ReferenceType("FACTURA"),
		UserID:        usuarioID,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, store.Movements)
}

// Dos entradas simultáneas que estrenan el mismo par producto+ubicación suman
// ambas: la fila se materializa y bloquea antes de calcular cantidades, así que
// ninguna transacción trabaja sobre un cero que otra ya dejó atrás.
func TestAdjust_EstrenoConcurrenteDelPar(t *testing.T) {
	uc, store := newAdjustFixture(t)

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.Adjust(context.Background(), inventory.AdjustInput{
				ProductID:  productA,
				LocationID: bodega,
				Quantity:   10,
				Intent:     entity.IntentStockIn,
				UserID:     usuarioID,
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(20), store.Record(productA, bodega).Quantity)

	// el libro encadena 0→10→20: ninguna entrada pisó a la otra
	require.Len(t, store.Movements, 2)
	assert.Equal(t, int64(0), store.Movements[0].QuantityBefore)
	assert.Equal(t, int64(10), store.Movements[0].QuantityAfter)
	assert.Equal(t, int64(10), store.Movements[1].QuantityBefore)
	assert.Equal(t, int64(20), store.Movements[1].QuantityAfter)
}

func TestReserve_SubeReservadoSinTocarElLibro(t *testing.T) {
	uc, store := newAdjustFixture(t)
	store.SeedInventory(productA, bodega, 10, 0)

	record, err := uc.Reserve(context.Background(), inventory.ReserveInput{
		ProductID:  productA,
		LocationID: bodega,
		Quantity:   4,
		UserID:     usuarioID,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(10), record.Quantity)
	assert.Equal(t, int64(4), record.ReservedQuantity)
	assert.Equal(t, int64(6), record.AvailableQuantity)
	assert.Empty(t, store.Movements, "reservar no escribe en el libro: la cantidad en mano no cambia")

	// reservar más del disponible falla
	_, err = uc.Reserve(context.Background(), inventory.ReserveInput{
		ProductID:  productA,
		LocationID: bodega,
		Quantity:   7,
		UserID:     usuarioID,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	// liberar la reserva devuelve el disponible
	record, err = uc.ReleaseReservation(context.Background(), inventory.ReserveInput{
		ProductID:  productA,
		LocationID: bodega,
		Quantity:   4,
		UserID:     usuarioID,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), record.ReservedQuantity)
	assert.Equal(t, int64(10), record.AvailableQuantity)
}

func TestReceivePurchaseOrder_PromedioPonderado(t *testing.T) {
	uc, store := newAdjustFixture(t)
	store.SeedInventory(productA, bodega, 10, 0)
	store.Products[productA].Cost = decimal.NewFromInt(100)

	err := uc.ReceivePurchaseOrder(context.Background(), "PO-77", bodega, []inventory.PurchaseReceiptLine{
		{ProductID: productA, Quantity: 10, UnitCost: decimal.NewFromInt(200)},
		{ProductID: productB, Quantity: 5, UnitCost: decimal.NewFromInt(40)},
	}, usuarioID)
	require.NoError(t, err)

	// (10*100 + 10*200) / 20 = 150
	assert.True(t, store.Products[productA].Cost.Equal(decimal.NewFromInt(150)),
		"cost = %s", store.Products[productA].Cost)
	assert.True(t, store.Products[productB].Cost.Equal(decimal.NewFromInt(40)))

	assert.Equal(t, int64(20), store.Record(productA, bodega).Quantity)
	assert.Equal(t, int64(5), store.Record(productB, bodega).Quantity)

	require.Len(t, store.Movements, 2)
	for _, m := range store.Movements {
		assert.Equal(t, entity.MovementPurchase, m.Type)
		assert.Equal(t, entity.ReferencePurchaseOrder, m.ReferenceType)
		assert.Equal(t, "PO-77", m.ReferenceID)
	}
}

// Reconstruir el estado re-aplicando el libro en orden llega a la misma cantidad final.
func TestLedgerReplay(t *testing.T) {
	uc, store := newAdjustFixture(t)

	cost := decimal.NewFromInt(10)
	steps := []inventory.AdjustInput{
		{ProductID: productA, LocationID: bodega, Quantity: 20, Intent: entity.IntentStockIn, UnitCost: &cost, UserID: usuarioID},
		{ProductID: productA, LocationID: bodega, Quantity: -6, Intent: entity.IntentStockOut, UserID: usuarioID},
		{ProductID: productA, LocationID: bodega, Quantity: -2, Intent: entity.IntentDamage, UserID: usuarioID},
		{ProductID: productA, LocationID: bodega, Quantity: 3, Intent: entity.IntentReturn, UserID: usuarioID},
	}
	for _, s := range steps {
		_, err := uc.Adjust(context.Background(), s)
		require.NoError(t, err)
	}

	var replayed int64
	movs, err := testutil.NewMemMovementRepo(store).List(context.Background(), repository.MovementFilter{ProductID: productA}, 100, 0)
	require.NoError(t, err)
	// List devuelve del más reciente al más antiguo; re-aplicar en orden cronológico
	for i := len(movs) - 1; i >= 0; i-- {
		m := movs[i]
		assert.Equal(t, replayed, m.QuantityBefore, "cada entrada arranca donde terminó la anterior")
		replayed += m.Type.Direction() * m.Quantity
		assert.Equal(t, replayed, m.QuantityAfter)
	}
	assert.Equal(t, store.Record(productA, bodega).Quantity, replayed)
	assert.Equal(t, int64(15), replayed)
}
