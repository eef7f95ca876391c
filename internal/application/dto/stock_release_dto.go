package dto

import (
	"time"

	"github.com/NextWave-98/api-sub002/internal/domain/entity"
)

// StockReleaseItemRequest línea solicitada.
type StockReleaseItemRequest struct {
	ProductID    string `json:"product_id" validate:"required,uuid4"`
	Quantity     int64  `json:"quantity" validate:"required,gt=0"`
	BatchNumber  string `json:"batch_number,omitempty"`
	SerialNumber string `json:"serial_number,omitempty"`
	Notes        string `json:"notes,omitempty"`
}

// CreateStockReleaseRequest body para POST /api/stock-releases.
type CreateStockReleaseRequest struct {
	Type           string                    `json:"type" validate:"required"`
	FromLocationID string                    `json:"from_location_id" validate:"required,uuid4"`
	ToLocationID   string                    `json:"to_location_id,omitempty" validate:"omitempty,uuid4"`
	Notes          string                    `json:"notes,omitempty"`
	Items          []StockReleaseItemRequest `json:"items" validate:"required,min=1,dive"`
}

// TransitionRequest body para aprobar/recibir/cancelar.
type TransitionRequest struct {
	Notes string `json:"notes,omitempty"`
}

// ReleaseOverrideRequest cantidad liberada por línea (<= solicitada).
type ReleaseOverrideRequest struct {
	ItemID   string `json:"item_id" validate:"required,uuid4"`
	Quantity int64  `json:"quantity" validate:"required,gt=0"`
}

// ReleaseStockRequest body para POST /api/stock-releases/:id/release.
type ReleaseStockRequest struct {
	Notes     string                   `json:"notes,omitempty"`
	Overrides []ReleaseOverrideRequest `json:"overrides,omitempty" validate:"omitempty,dive"`
}

// StockReleaseItemResponse línea en respuestas.
type StockReleaseItemResponse struct {
	ID                string `json:"id"`
	ProductID         string `json:"product_id"`
	RequestedQuantity int64  `json:"requested_quantity"`
	ReleasedQuantity  *int64 `json:"released_quantity,omitempty"`
	BatchNumber       string `json:"batch_number,omitempty"`
	SerialNumber      string `json:"serial_number,omitempty"`
	Notes             string `json:"notes,omitempty"`
}

// StockReleaseResponse cabecera con líneas en respuestas.
type StockReleaseResponse struct {
	ID             string                     `json:"id"`
	ReleaseNumber  string                     `json:"release_number"`
	Type           string                     `json:"type"`
	Status         string                     `json:"status"`
	FromLocationID string                     `json:"from_location_id"`
	ToLocationID   string                     `json:"to_location_id,omitempty"`
	RequestedBy    string                     `json:"requested_by"`
	ApprovedBy     string                     `json:"approved_by,omitempty"`
	ReleasedBy     string                     `json:"released_by,omitempty"`
	ReceivedBy     string                     `json:"received_by,omitempty"`
	RequestedAt    time.Time                  `json:"requested_at"`
	ApprovedAt     *time.Time                 `json:"approved_at,omitempty"`
	ReleasedAt     *time.Time                 `json:"released_at,omitempty"`
	ReceivedAt     *time.Time                 `json:"received_at,omitempty"`
	Notes          string                     `json:"notes,omitempty"`
	Items          []StockReleaseItemResponse `json:"items"`
}

// FromStockRelease mapea la entidad a la respuesta.
func FromStockRelease(r *entity.StockRelease) StockReleaseResponse {
	resp := StockReleaseResponse{
		ID:             r.ID,
		ReleaseNumber:  r.ReleaseNumber,
		Type:           string(r.Type),
		Status:         string(r.Status),
		FromLocationID: r.FromLocationID,
		ToLocationID:   r.ToLocationID,
		RequestedBy:    r.RequestedBy,
		ApprovedBy:     r.ApprovedBy,
		ReleasedBy:     r.ReleasedBy,
		ReceivedBy:     r.ReceivedBy,
		RequestedAt:    r.RequestedAt,
		ApprovedAt:     r.ApprovedAt,
		ReleasedAt:     r.ReleasedAt,
		ReceivedAt:     r.ReceivedAt,
		Notes:          r.Notes,
	}
	for _, item := range r.Items {
		resp.Items = append(resp.Items, StockReleaseItemResponse{
			ID:                item.ID,
			ProductID:         item.ProductID,
			RequestedQuantity: item.RequestedQuantity,
			ReleasedQuantity:  item.ReleasedQuantity,
			BatchNumber:       item.BatchNumber,
			SerialNumber:      item.SerialNumber,
			Notes:             item.Notes,
		})
	}
	return resp
}
