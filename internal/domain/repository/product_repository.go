package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/NextWave-98/api-sub002/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	// UpdateCost actualiza el costo promedio ponderado (se llama dentro de la
	// transacción de la entrada de stock que lo recalculó).
	UpdateCost(ctx context.Context, id string, cost decimal.Decimal) error
	List(ctx context.Context, limit, offset int) ([]*entity.Product, error)
}
