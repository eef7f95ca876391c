package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/NextWave-98/api-sub002/internal/domain"
	"github.com/NextWave-98/api-sub002/internal/domain/entity"
	"github.com/NextWave-98/api-sub002/internal/domain/repository"
)

// MovementParams describe una mutación elemental de inventario: un delta sobre una
// fila más su entrada en el libro. Quantity es magnitud positiva; la dirección la da Type.
type MovementParams struct {
	ProductID     string
	LocationID    string
	Type          entity.MovementType
	Quantity      int64
	UnitCost      decimal.Decimal
	ReferenceType entity.ReferenceType
	ReferenceID   string
	Notes         string
	Actor         string
	At            time.Time
}

// ApplyMovementInTx aplica el delta sobre la fila de inventario y escribe la entrada
// del libro, usando los repositorios atados a la transacción del caller.
//
// Bloquea la fila (SELECT FOR UPDATE), valida que la salida no exceda el disponible,
// persiste las nuevas cantidades y registra el movimiento con las instantáneas
// before/after tomadas bajo el mismo bloqueo. Es la primitiva compartida por el
// Adjustment Processor, el Transfer Coordinator y la ejecución de liberaciones.
func ApplyMovementInTx(
	ctx context.Context,
	invRepo repository.InventoryRepository,
	movRepo repository.MovementRepository,
	p MovementParams,
) (*entity.InventoryRecord, error) {
	if !p.Type.Valid() || p.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}

	record, err := invRepo.GetForUpdate(ctx, p.ProductID, p.LocationID)
	if err != nil {
		return nil, err
	}

	direction := p.Type.Direction()
	if direction < 0 && p.Quantity > record.AvailableQuantity {
		return nil, &domain.InsufficientStockError{
			ProductID:  p.ProductID,
			LocationID: p.LocationID,
			Available:  record.AvailableQuantity,
			Requested:  p.Quantity,
		}
	}

	before := record.Quantity
	after := before + direction*p.Quantity
	// Defensivo: inalcanzable si el chequeo de disponible pasó primero.
	if err := record.SetQuantities(after, record.ReservedQuantity); err != nil {
		return nil, err
	}
	record.UpdatedAt = p.At
	if err := invRepo.Upsert(ctx, record); err != nil {
		return nil, err
	}

	movement := &entity.StockMovement{
		ID:             uuid.New().String(),
		ProductID:      p.ProductID,
		LocationID:     p.LocationID,
		Type:           p.Type,
		Quantity:       p.Quantity,
		QuantityBefore: before,
		QuantityAfter:  after,
		UnitCost:       p.UnitCost,
		TotalCost:      p.UnitCost.Mul(decimal.NewFromInt(p.Quantity)),
		ReferenceType:  p.ReferenceType,
		ReferenceID:    p.ReferenceID,
		Notes:          p.Notes,
		CreatedBy:      p.Actor,
		CreatedAt:      p.At,
	}
	if err := movRepo.Create(ctx, movement); err != nil {
		return nil, err
	}
	return record, nil
}
