package entity

import (
	"time"

	"github.com/NextWave-98/api-sub002/internal/domain"
)

// InventoryRecord representa el stock de un producto en una ubicación.
// Fila única por (ProductID, LocationID); se crea de forma perezosa en la primera
// entrada o traslado entrante, y nunca se elimina mientras tenga cantidad o historial.
//
// Invariantes: Quantity >= 0, ReservedQuantity >= 0 y
// AvailableQuantity = Quantity - ReservedQuantity >= 0.
type InventoryRecord struct {
	ID                string
	ProductID         string
	LocationID        string
	Quantity          int64 // unidades en mano
	ReservedQuantity  int64 // unidades apartadas pero no retiradas
	AvailableQuantity int64 // derivado: Quantity - ReservedQuantity
	MinStockLevel     int64
	MaxStockLevel     int64
	ReorderLevel      int64
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// SetQuantities fija cantidad y reservado, recalculando el disponible.
// Rechaza cualquier combinación que deje cantidad, reservado o disponible negativos.
func (r *InventoryRecord) SetQuantities(quantity, reserved int64) error {
	if quantity < 0 || reserved < 0 || quantity-reserved < 0 {
		return &domain.InvariantViolationError{
			ProductID:  r.ProductID,
			LocationID: r.LocationID,
			Quantity:   quantity,
			Reserved:   reserved,
		}
	}
	r.Quantity = quantity
	r.ReservedQuantity = reserved
	r.AvailableQuantity = quantity - reserved
	return nil
}

// IsBelowReorderLevel indica si el stock está en o por debajo del punto de reorden.
// ReorderLevel en cero desactiva la señal.
func (r *InventoryRecord) IsBelowReorderLevel() bool {
	return r.ReorderLevel > 0 && r.Quantity <= r.ReorderLevel
}
