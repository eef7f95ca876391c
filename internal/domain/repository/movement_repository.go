package repository

import (
	"context"
	"time"

	"github.com/NextWave-98/api-sub002/internal/domain/entity"
)

// MovementFilter filtros opcionales para consultar el libro de movimientos.
type MovementFilter struct {
	ProductID  string
	LocationID string
	From       *time.Time
	To         *time.Time
}

// MovementRepository define el puerto de persistencia del libro de movimientos.
// Solo inserta y consulta: las entradas son inmutables (rastro de auditoría).
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	GetByID(ctx context.Context, id string) (*entity.StockMovement, error)
	// List devuelve movimientos del más reciente al más antiguo; finito, re-consultar
	// para ver entradas nuevas.
	List(ctx context.Context, filter MovementFilter, limit, offset int) ([]*entity.StockMovement, error)
}
