package repository

import (
	"context"

	"github.com/NextWave-98/api-sub002/internal/domain/entity"
)

// InventoryRepository define el puerto de persistencia para las filas de inventario
// por (producto, ubicación). Los escritores deben usar GetForUpdate dentro de una
// transacción (SELECT FOR UPDATE) para evitar lost updates.
type InventoryRepository interface {
	// Find devuelve la fila o nil si no existe (superficie de consulta).
	Find(ctx context.Context, productID, locationID string) (*entity.InventoryRecord, error)
	// GetForUpdate bloquea la fila; si no existe devuelve un registro en cero
	// que se materializa con Upsert (creación perezosa dentro de la misma tx).
	GetForUpdate(ctx context.Context, productID, locationID string) (*entity.InventoryRecord, error)
	// Upsert inserta o actualiza cantidades por (producto, ubicación).
	Upsert(ctx context.Context, record *entity.InventoryRecord) error
	ListByLocation(ctx context.Context, locationID string, limit, offset int) ([]*entity.InventoryRecord, error)
	ListByProduct(ctx context.Context, productID string) ([]*entity.InventoryRecord, error)
	// ListBelowReorderLevel lista filas en o bajo su punto de reorden (señal de compra).
	ListBelowReorderLevel(ctx context.Context, locationID string) ([]*entity.InventoryRecord, error)
}
