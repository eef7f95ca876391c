package release_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NextWave-98/api-sub002/internal/application/release"
	"github.com/NextWave-98/api-sub002/internal/domain"
	"github.com/NextWave-98/api-sub002/internal/domain/entity"
	"github.com/NextWave-98/api-sub002/internal/testutil"
)

const (
	productA    = "00000000-0000-0000-0000-00000000000a"
	productB    = "00000000-0000-0000-0000-00000000000b"
	bodega      = "00000000-0000-0000-0000-0000000000b1"
	sucursal    = "00000000-0000-0000-0000-0000000000b2"
	solicitante = "00000000-0000-0000-0000-0000000000u1"
	aprobador   = "00000000-0000-0000-0000-0000000000u2"
	bodeguero   = "00000000-0000-0000-0000-0000000000u3"
)

func newReleaseFixture(t *testing.T) (*release.UseCase, *testutil.MemStore) {
	t.Helper()
	store := testutil.NewMemStore()
	store.SeedProduct(productA, "PANT-IP13", "Pantalla iPhone 13")
	store.SeedProduct(productB, "BAT-S22", "Batería Galaxy S22")
	store.SeedLocation(bodega, "BOD-01", "Bodega Central")
	store.SeedLocation(sucursal, "SUC-01", "Sucursal Norte")
	uc := release.NewUseCase(
		testutil.NewMemTxRunner(store),
		testutil.NewMemStockReleaseRepo(store),
		testutil.NewMemProductRepo(store),
		testutil.NewMemLocationRepo(store),
	)
	return uc, store
}

func createPending(t *testing.T, uc *release.UseCase, relType entity.ReleaseType, toLocation string, qty int64) *entity.StockRelease {
	t.Helper()
	rel, err := uc.Create(context.Background(), release.CreateInput{
		Type:           relType,
		FromLocationID: bodega,
		ToLocationID:   toLocation,
		RequestedBy:    solicitante,
		Items:          []release.ItemInput{{ProductID: productA, Quantity: qty}},
	})
	require.NoError(t, err)
	return rel
}

func TestCreate_NumeroConsecutivoYEstadoPending(t *testing.T) {
	uc, _ := newReleaseFixture(t)

	rel1 := createPending(t, uc, entity.ReleaseJobUsage, "", 3)
	rel2 := createPending(t, uc, entity.ReleaseJobUsage, "", 1)

	assert.Equal(t, "SR-0001", rel1.ReleaseNumber)
	assert.Equal(t, "SR-0002", rel2.ReleaseNumber)
	assert.Equal(t, entity.ReleasePending, rel1.Status)
	require.Len(t, rel1.Items, 1)
	assert.Nil(t, rel1.Items[0].ReleasedQuantity, "nada liberado al crear")
}

func TestCreate_ReglasDeDestino(t *testing.T) {
	uc, _ := newReleaseFixture(t)

	// traslado sin destino
	_, err := uc.Create(context.Background(), release.CreateInput{
		Type:           entity.ReleaseBranchTransfer,
		FromLocationID: bodega,
		RequestedBy:    solicitante,
		Items:          []release.ItemInput{{ProductID: productA, Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// traslado a la misma ubicación
	_, err = uc.Create(context.Background(), release.CreateInput{
		Type:           entity.ReleaseBranchTransfer,
		FromLocationID: bodega,
		ToLocationID:   bodega,
		RequestedBy:    solicitante,
		Items:          []release.ItemInput{{ProductID: productA, Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidTransfer)

	// destino en un tipo que no lo admite
	_, err = uc.Create(context.Background(), release.CreateInput{
		Type:           entity.ReleaseJobUsage,
		FromLocationID: bodega,
		ToLocationID:   sucursal,
		RequestedBy:    solicitante,
		Items:          []release.ItemInput{{ProductID: productA, Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestApprove_YDobleAprobacion(t *testing.T) {
	uc, _ := newReleaseFixture(t)
	rel := createPending(t, uc, entity.ReleaseJobUsage, "", 3)

	approved, err := uc.Approve(context.Background(), rel.ID, aprobador, "")
	require.NoError(t, err)
	assert.Equal(t, entity.ReleaseApproved, approved.Status)
	assert.Equal(t, aprobador, approved.ApprovedBy)
	require.NotNil(t, approved.ApprovedAt)

	// el segundo aprobador pierde la carrera del CAS
	_, err = uc.Approve(context.Background(), rel.ID, aprobador, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)

	var invalid *domain.InvalidTransitionError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, string(entity.ReleaseApproved), invalid.From)
}

// La nota de una transición se agrega a la del solicitante, no la reemplaza.
func TestApprove_NotaSeAgregaALaOriginal(t *testing.T) {
	uc, _ := newReleaseFixture(t)

	rel, err := uc.Create(context.Background(), release.CreateInput{
		Type:           entity.ReleaseJobUsage,
		FromLocationID: bodega,
		RequestedBy:    solicitante,
		Notes:          "para la orden de trabajo 88",
		Items:          []release.ItemInput{{ProductID: productA, Quantity: 1}},
	})
	require.NoError(t, err)

	approved, err := uc.Approve(context.Background(), rel.ID, aprobador, "aprobada con cargo al taller")
	require.NoError(t, err)
	assert.Contains(t, approved.Notes, "para la orden de trabajo 88")
	assert.Contains(t, approved.Notes, "aprobada con cargo al taller")
}

func TestApprove_NoExiste(t *testing.T) {
	uc, _ := newReleaseFixture(t)
	_, err := uc.Approve(context.Background(), "00000000-0000-0000-0000-0000000000ff", aprobador, "")
	assert.ErrorIs(t, err, domain.ErrReleaseNotFound)
}

func TestRelease_FlujoCompletoSinDestino(t *testing.T) {
	uc, store := newReleaseFixture(t)
	store.SeedInventory(productA, bodega, 10, 0)

	rel := createPending(t, uc, entity.ReleaseJobUsage, "", 3)
	_, err := uc.Approve(context.Background(), rel.ID, aprobador, "")
	require.NoError(t, err)

	released, err := uc.Release(context.Background(), rel.ID, bodeguero, nil, "")
	require.NoError(t, err)

	// sin destino no hay recepción: terminal en la misma transacción
	assert.Equal(t, entity.ReleaseCompleted, released.Status)
	assert.Equal(t, bodeguero, released.ReleasedBy)
	require.NotNil(t, released.Items[0].ReleasedQuantity)
	assert.Equal(t, int64(3), *released.Items[0].ReleasedQuantity)

	// el stock salió del origen y el libro registró la salida como SALES
	assert.Equal(t, int64(7), store.Record(productA, bodega).Quantity)
	require.Len(t, store.Movements, 1)
	m := store.Movements[0]
	assert.Equal(t, entity.MovementSales, m.Type)
	assert.Equal(t, entity.ReferenceStockRelease, m.ReferenceType)
	assert.Equal(t, rel.ID, m.ReferenceID)
	assert.True(t, m.Consistent())
}

func TestRelease_SobrePendingNoMutaNada(t *testing.T) {
	uc, store := newReleaseFixture(t)
	store.SeedInventory(productA, bodega, 10, 0)
	rel := createPending(t, uc, entity.ReleaseJobUsage, "", 3)

	_, err := uc.Release(context.Background(), rel.ID, bodeguero, nil, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)

	assert.Equal(t, int64(10), store.Record(productA, bodega).Quantity)
	assert.Empty(t, store.Movements)
	current, err := uc.GetByID(context.Background(), rel.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ReleasePending, current.Status)
	assert.Nil(t, current.Items[0].ReleasedQuantity)
}

func TestRelease_SinStockHaceRollbackCompleto(t *testing.T) {
	uc, store := newReleaseFixture(t)
	store.SeedInventory(productA, bodega, 2, 0)

	rel := createPending(t, uc, entity.ReleaseJobUsage, "", 5)
	_, err := uc.Approve(context.Background(), rel.ID, aprobador, "")
	require.NoError(t, err)

	_, err = uc.Release(context.Background(), rel.ID, bodeguero, nil, "")
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	// rollback: sigue APPROVED, sin cantidades liberadas ni movimientos
	current, err := uc.GetByID(context.Background(), rel.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ReleaseApproved, current.Status)
	assert.Nil(t, current.Items[0].ReleasedQuantity)
	assert.Equal(t, int64(2), store.Record(productA, bodega).Quantity)
	assert.Empty(t, store.Movements)
}

func TestRelease_OverrideMenorALoSolicitado(t *testing.T) {
	uc, store := newReleaseFixture(t)
	store.SeedInventory(productA, bodega, 10, 0)

	rel := createPending(t, uc, entity.ReleaseJobUsage, "", 5)
	_, err := uc.Approve(context.Background(), rel.ID, aprobador, "")
	require.NoError(t, err)

	itemID := rel.Items[0].ID
	released, err := uc.Release(context.Background(), rel.ID, bodeguero, map[string]int64{itemID: 3}, "")
	require.NoError(t, err)
	assert.Equal(t, int64(3), *released.Items[0].ReleasedQuantity)
	assert.Equal(t, int64(5), released.Items[0].RequestedQuantity)
	assert.Equal(t, int64(7), store.Record(productA, bodega).Quantity)

	// liberar más de lo solicitado se rechaza
	rel2 := createPending(t, uc, entity.ReleaseJobUsage, "", 2)
	_, err = uc.Approve(context.Background(), rel2.ID, aprobador, "")
	require.NoError(t, err)
	_, err = uc.Release(context.Background(), rel2.ID, bodeguero, map[string]int64{rel2.Items[0].ID: 4}, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRelease_TrasladoYRecepcion(t *testing.T) {
	uc, store := newReleaseFixture(t)
	store.SeedInventory(productA, bodega, 10, 0)

	rel := createPending(t, uc, entity.ReleaseBranchTransfer, sucursal, 4)
	_, err := uc.Approve(context.Background(), rel.ID, aprobador, "")
	require.NoError(t, err)

	released, err := uc.Release(context.Background(), rel.ID, bodeguero, nil, "")
	require.NoError(t, err)
	// el traslado espera recepción: no es terminal todavía
	assert.Equal(t, entity.ReleaseReleased, released.Status)
	assert.Equal(t, int64(6), store.Record(productA, bodega).Quantity)
	assert.Nil(t, store.Record(productA, sucursal), "el destino se acredita al recibir, no al liberar")

	received, err := uc.Receive(context.Background(), rel.ID, solicitante, "")
	require.NoError(t, err)
	assert.Equal(t, entity.ReleaseCompleted, received.Status)
	assert.Equal(t, solicitante, received.ReceivedBy)
	assert.Equal(t, int64(4), store.Record(productA, sucursal).Quantity)

	// conservación: salida TRANSFER_OUT en origen + entrada TRANSFER_IN en destino
	require.Len(t, store.Movements, 2)
	assert.Equal(t, entity.MovementTransferOut, store.Movements[0].Type)
	assert.Equal(t, entity.MovementTransferIn, store.Movements[1].Type)
	total := store.Record(productA, bodega).Quantity + store.Record(productA, sucursal).Quantity
	assert.Equal(t, int64(10), total)
}

func TestReceive_SoloTrasladosLiberados(t *testing.T) {
	uc, store := newReleaseFixture(t)
	store.SeedInventory(productA, bodega, 10, 0)

	// recibir un JOB_USAGE liberado (sin destino) es transición inválida
	rel := createPending(t, uc, entity.ReleaseJobUsage, "", 2)
	_, err := uc.Approve(context.Background(), rel.ID, aprobador, "")
	require.NoError(t, err)
	_, err = uc.Release(context.Background(), rel.ID, bodeguero, nil, "")
	require.NoError(t, err)
	_, err = uc.Receive(context.Background(), rel.ID, solicitante, "")
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)

	// recibir un traslado aún APPROVED también
	rel2 := createPending(t, uc, entity.ReleaseBranchTransfer, sucursal, 2)
	_, err = uc.Approve(context.Background(), rel2.ID, aprobador, "")
	require.NoError(t, err)
	_, err = uc.Receive(context.Background(), rel2.ID, solicitante, "")
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
}

func TestCancel_SoloAntesDeLiberar(t *testing.T) {
	uc, store := newReleaseFixture(t)
	store.SeedInventory(productA, bodega, 10, 0)

	// desde PENDING
	rel := createPending(t, uc, entity.ReleaseJobUsage, "", 2)
	cancelled, err := uc.Cancel(context.Background(), rel.ID, solicitante, "ya no se necesita")
	require.NoError(t, err)
	assert.Equal(t, entity.ReleaseCancelled, cancelled.Status)

	// desde APPROVED
	rel2 := createPending(t, uc, entity.ReleaseJobUsage, "", 2)
	_, err = uc.Approve(context.Background(), rel2.ID, aprobador, "")
	require.NoError(t, err)
	_, err = uc.Cancel(context.Background(), rel2.ID, solicitante, "")
	require.NoError(t, err)

	// una vez liberada, ya no: el stock ya salió
	rel3 := createPending(t, uc, entity.ReleaseJobUsage, "", 2)
	_, err = uc.Approve(context.Background(), rel3.ID, aprobador, "")
	require.NoError(t, err)
	_, err = uc.Release(context.Background(), rel3.ID, bodeguero, nil, "")
	require.NoError(t, err)
	_, err = uc.Cancel(context.Background(), rel3.ID, solicitante, "")
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)

	// cancelar no tocó el inventario
	assert.Equal(t, int64(8), store.Record(productA, bodega).Quantity, "solo la liberación descontó")
}
