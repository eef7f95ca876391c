package testutil_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NextWave-98/api-sub002/internal/domain/repository"
	"github.com/NextWave-98/api-sub002/internal/testutil"
)

// El par (producto, ubicación) se materializa en cero al bloquearlo, igual que
// el adaptador de Postgres: el caller nunca calcula deltas sobre una fila que
// no existe, y dos lectores del mismo par ven la misma fila.
func TestGetForUpdate_MaterializaLaFila(t *testing.T) {
	store := testutil.NewMemStore()
	repo := testutil.NewMemInventoryRepo(store)

	rec, err := repo.GetForUpdate(context.Background(), "p1", "l1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), rec.Quantity)
	assert.NotEmpty(t, rec.ID)
	require.NotNil(t, store.Record("p1", "l1"), "la fila queda creada antes de que el caller mute cantidades")

	again, err := repo.GetForUpdate(context.Background(), "p1", "l1")
	require.NoError(t, err)
	assert.Equal(t, rec.ID, again.ID, "el segundo lector encuentra la fila del primero, no un cero suelto")
}

// Si la transacción que estrenó la fila falla, el rollback también la deshace.
func TestGetForUpdate_RollbackDeshaceLaFilaNueva(t *testing.T) {
	store := testutil.NewMemStore()
	runner := testutil.NewMemTxRunner(store)

	err := runner.Run(context.Background(), func(
		invRepo repository.InventoryRepository,
		_ repository.MovementRepository,
		_ repository.StockReleaseRepository,
		_ repository.ProductRepository,
	) error {
		if _, err := invRepo.GetForUpdate(context.Background(), "p1", "l1"); err != nil {
			return err
		}
		return assert.AnError
	})
	require.Error(t, err)
	assert.Nil(t, store.Record("p1", "l1"), "la fila materializada no sobrevive al rollback")
}
