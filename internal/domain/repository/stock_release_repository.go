package repository

import (
	"context"
	"time"

	"github.com/NextWave-98/api-sub002/internal/domain/entity"
)

// StatusPatch campos de auditoría que acompañan un cambio de estado.
type StatusPatch struct {
	Actor string
	At    time.Time
	Notes string
}

// StockReleaseRepository define el puerto de persistencia del flujo de liberaciones.
type StockReleaseRepository interface {
	// Create persiste cabecera y líneas en una sola operación.
	Create(ctx context.Context, release *entity.StockRelease) error
	// GetByID devuelve la liberación con sus líneas, o nil si no existe.
	GetByID(ctx context.Context, id string) (*entity.StockRelease, error)
	// GetByIDForUpdate bloquea la cabecera (SELECT FOR UPDATE) para serializar
	// la ejecución de liberar/recibir.
	GetByIDForUpdate(ctx context.Context, id string) (*entity.StockRelease, error)
	// NextReleaseNumber devuelve el siguiente consecutivo del documento.
	NextReleaseNumber(ctx context.Context) (int64, error)
	// UpdateStatus hace compare-and-swap sobre el estado: solo actualiza si el
	// estado actual es from. Devuelve false si otra transacción ganó la carrera.
	UpdateStatus(ctx context.Context, id string, from, to entity.ReleaseStatus, patch StatusPatch) (bool, error)
	// SetItemReleasedQuantity fija la cantidad liberada de una línea una única vez.
	// Devuelve false si la línea ya había sido liberada.
	SetItemReleasedQuantity(ctx context.Context, itemID string, quantity int64) (bool, error)
	ListByStatus(ctx context.Context, status entity.ReleaseStatus, limit, offset int) ([]*entity.StockRelease, error)
	ListByLocation(ctx context.Context, locationID string, limit, offset int) ([]*entity.StockRelease, error)
}
