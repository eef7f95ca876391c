package inventory

import (
	"context"

	"github.com/NextWave-98/api-sub002/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios
// atados a esa tx. Es la única frontera de unidad de trabajo del motor: los casos de
// uso nunca abren transacciones anidadas; un error hace rollback de todo.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		invRepo repository.InventoryRepository,
		movRepo repository.MovementRepository,
		releaseRepo repository.StockReleaseRepository,
		productRepo repository.ProductRepository,
	) error) error
}
