package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o repuesto del catálogo (multi-ubicación).
// Cost es promedio ponderado calculado desde entradas; el stock se maneja por
// ubicación en InventoryRecord.
type Product struct {
	ID          string
	SKU         string // código único
	Name        string
	Description string
	Price       decimal.Decimal // precio de venta
	Cost        decimal.Decimal // costo promedio ponderado (inicia en 0)
	UnitMeasure string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
