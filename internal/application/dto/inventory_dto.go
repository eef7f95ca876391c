package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/NextWave-98/api-sub002/internal/domain/entity"
)

// AdjustStockRequest body para POST /api/inventory/adjustments.
// quantity lleva signo; intent se traduce al vocabulario del libro en el motor.
type AdjustStockRequest struct {
	ProductID     string           `json:"product_id" validate:"required,uuid4"`
	LocationID    string           `json:"location_id" validate:"required,uuid4"`
	Quantity      int64            `json:"quantity" validate:"required"`
	Intent        string           `json:"intent" validate:"required"`
	UnitCost      *decimal.Decimal `json:"unit_cost,omitempty"`
	ReferenceType string           `json:"reference_type,omitempty"`
	ReferenceID   string           `json:"reference_id,omitempty"`
	Notes         string           `json:"notes,omitempty"`
}

// ReserveStockRequest body para reservar o liberar reserva.
type ReserveStockRequest struct {
	ProductID  string `json:"product_id" validate:"required,uuid4"`
	LocationID string `json:"location_id" validate:"required,uuid4"`
	Quantity   int64  `json:"quantity" validate:"required,gt=0"`
}

// TransferRequest body para POST /api/inventory/transfers.
type TransferRequest struct {
	ProductID      string `json:"product_id" validate:"required,uuid4"`
	FromLocationID string `json:"from_location_id" validate:"required,uuid4"`
	ToLocationID   string `json:"to_location_id" validate:"required,uuid4"`
	Quantity       int64  `json:"quantity" validate:"required,gt=0"`
	Notes          string `json:"notes,omitempty"`
}

// BulkTransferItemRequest línea de un traslado masivo.
type BulkTransferItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid4"`
	Quantity  int64  `json:"quantity" validate:"required,gt=0"`
}

// BulkTransferRequest body para POST /api/inventory/transfers/bulk.
type BulkTransferRequest struct {
	FromLocationID string                    `json:"from_location_id" validate:"required,uuid4"`
	ToLocationID   string                    `json:"to_location_id" validate:"required,uuid4"`
	Items          []BulkTransferItemRequest `json:"items" validate:"required,min=1,dive"`
	Notes          string                    `json:"notes,omitempty"`
}

// PurchaseReceiptLineRequest línea recibida de una orden de compra.
type PurchaseReceiptLineRequest struct {
	ProductID string          `json:"product_id" validate:"required,uuid4"`
	Quantity  int64           `json:"quantity" validate:"required,gt=0"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
}

// ReceivePurchaseOrderRequest body para POST /api/purchase-orders/:id/receive.
type ReceivePurchaseOrderRequest struct {
	LocationID string                       `json:"location_id" validate:"required,uuid4"`
	Lines      []PurchaseReceiptLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// InventoryRecordResponse fila de inventario en respuestas.
type InventoryRecordResponse struct {
	ProductID         string    `json:"product_id"`
	LocationID        string    `json:"location_id"`
	Quantity          int64     `json:"quantity"`
	ReservedQuantity  int64     `json:"reserved_quantity"`
	AvailableQuantity int64     `json:"available_quantity"`
	MinStockLevel     int64     `json:"min_stock_level"`
	MaxStockLevel     int64     `json:"max_stock_level"`
	ReorderLevel      int64     `json:"reorder_level"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// FromInventoryRecord mapea la entidad a la respuesta.
func FromInventoryRecord(r *entity.InventoryRecord) InventoryRecordResponse {
	return InventoryRecordResponse{
		ProductID:         r.ProductID,
		LocationID:        r.LocationID,
		Quantity:          r.Quantity,
		ReservedQuantity:  r.ReservedQuantity,
		AvailableQuantity: r.AvailableQuantity,
		MinStockLevel:     r.MinStockLevel,
		MaxStockLevel:     r.MaxStockLevel,
		ReorderLevel:      r.ReorderLevel,
		UpdatedAt:         r.UpdatedAt,
	}
}

// MovementResponse entrada del libro en respuestas.
type MovementResponse struct {
	ID             string          `json:"id"`
	ProductID      string          `json:"product_id"`
	LocationID     string          `json:"location_id"`
	Type           string          `json:"type"`
	Quantity       int64           `json:"quantity"`
	QuantityBefore int64           `json:"quantity_before"`
	QuantityAfter  int64           `json:"quantity_after"`
	UnitCost       decimal.Decimal `json:"unit_cost"`
	TotalCost      decimal.Decimal `json:"total_cost"`
	ReferenceType  string          `json:"reference_type"`
	ReferenceID    string          `json:"reference_id"`
	Notes          string          `json:"notes,omitempty"`
	CreatedBy      string          `json:"created_by,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// FromMovement mapea la entidad a la respuesta.
func FromMovement(m *entity.StockMovement) MovementResponse {
	return MovementResponse{
		ID:             m.ID,
		ProductID:      m.ProductID,
		LocationID:     m.LocationID,
		Type:           string(m.Type),
		Quantity:       m.Quantity,
		QuantityBefore: m.QuantityBefore,
		QuantityAfter:  m.QuantityAfter,
		UnitCost:       m.UnitCost,
		TotalCost:      m.TotalCost,
		ReferenceType:  string(m.ReferenceType),
		ReferenceID:    m.ReferenceID,
		Notes:          m.Notes,
		CreatedBy:      m.CreatedBy,
		CreatedAt:      m.CreatedAt,
	}
}
