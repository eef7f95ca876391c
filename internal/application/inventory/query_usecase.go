package inventory

import (
	"context"

	"github.com/NextWave-98/api-sub002/internal/domain"
	"github.com/NextWave-98/api-sub002/internal/domain/entity"
	"github.com/NextWave-98/api-sub002/internal/domain/repository"
)

// QueryUseCase lecturas del inventario y del libro de movimientos.
// Solo consultas; no abre transacciones.
type QueryUseCase struct {
	invRepo repository.InventoryRepository
	movRepo repository.MovementRepository
}

// NewQueryUseCase construye el caso de uso con repos atados al pool.
func NewQueryUseCase(invRepo repository.InventoryRepository, movRepo repository.MovementRepository) *QueryUseCase {
	return &QueryUseCase{invRepo: invRepo, movRepo: movRepo}
}

// GetLevel devuelve la fila de inventario de un producto en una ubicación.
func (uc *QueryUseCase) GetLevel(ctx context.Context, productID, locationID string) (*entity.InventoryRecord, error) {
	record, err := uc.invRepo.Find(ctx, productID, locationID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, domain.ErrNotFound
	}
	return record, nil
}

// ListLevelsByLocation lista las filas de una ubicación.
func (uc *QueryUseCase) ListLevelsByLocation(ctx context.Context, locationID string, limit, offset int) ([]*entity.InventoryRecord, error) {
	return uc.invRepo.ListByLocation(ctx, locationID, limit, offset)
}

// ListLevelsByProduct lista las filas de un producto en todas las ubicaciones.
func (uc *QueryUseCase) ListLevelsByProduct(ctx context.Context, productID string) ([]*entity.InventoryRecord, error) {
	return uc.invRepo.ListByProduct(ctx, productID)
}

// ListBelowReorderLevel lista filas en o bajo su punto de reorden.
// locationID vacío considera todas las ubicaciones.
func (uc *QueryUseCase) ListBelowReorderLevel(ctx context.Context, locationID string) ([]*entity.InventoryRecord, error) {
	return uc.invRepo.ListBelowReorderLevel(ctx, locationID)
}

// ListMovements consulta el libro (más recientes primero).
func (uc *QueryUseCase) ListMovements(ctx context.Context, filter repository.MovementFilter, limit, offset int) ([]*entity.StockMovement, error) {
	return uc.movRepo.List(ctx, filter, limit, offset)
}
