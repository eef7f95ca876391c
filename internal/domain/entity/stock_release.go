package entity

import "time"

// ReleaseStatus estado del flujo de liberación de stock.
type ReleaseStatus string

const (
	ReleasePending   ReleaseStatus = "PENDING"
	ReleaseApproved  ReleaseStatus = "APPROVED"
	ReleaseReleased  ReleaseStatus = "RELEASED"
	ReleaseReceived  ReleaseStatus = "RECEIVED"
	ReleaseCompleted ReleaseStatus = "COMPLETED"
	ReleaseCancelled ReleaseStatus = "CANCELLED"
)

// releaseTransitions transiciones permitidas del flujo:
// PENDING -> APPROVED -> RELEASED -> RECEIVED -> COMPLETED,
// con CANCELLED alcanzable solo desde PENDING o APPROVED (una vez liberado,
// el stock ya salió del origen y solo un ajuste compensatorio lo revierte).
var releaseTransitions = map[ReleaseStatus][]ReleaseStatus{
	ReleasePending:  {ReleaseApproved, ReleaseCancelled},
	ReleaseApproved: {ReleaseReleased, ReleaseCancelled},
	ReleaseReleased: {ReleaseReceived, ReleaseCompleted},
	ReleaseReceived: {ReleaseCompleted},
}

// CanTransitionTo indica si la transición s -> next está permitida.
func (s ReleaseStatus) CanTransitionTo(next ReleaseStatus) bool {
	for _, allowed := range releaseTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal indica si el estado no admite más transiciones.
func (s ReleaseStatus) Terminal() bool {
	return len(releaseTransitions[s]) == 0
}

// ReleaseType clasifica el propósito de la liberación.
type ReleaseType string

const (
	ReleaseJobUsage       ReleaseType = "JOB_USAGE"       // consumo en orden de trabajo
	ReleaseBranchTransfer ReleaseType = "BRANCH_TRANSFER" // traslado entre sucursales
	ReleaseInternalUse    ReleaseType = "INTERNAL_USE"
	ReleaseSample         ReleaseType = "SAMPLE"
	ReleasePromotion      ReleaseType = "PROMOTION"
	ReleaseDisposal       ReleaseType = "DISPOSAL"
	ReleaseOther          ReleaseType = "OTHER"
)

// Valid indica si el tipo de liberación pertenece al vocabulario.
func (t ReleaseType) Valid() bool {
	switch t {
	case ReleaseJobUsage, ReleaseBranchTransfer, ReleaseInternalUse,
		ReleaseSample, ReleasePromotion, ReleaseDisposal, ReleaseOther:
		return true
	}
	return false
}

// RequiresDestination indica si el tipo exige ubicación destino (solo traslados).
func (t ReleaseType) RequiresDestination() bool { return t == ReleaseBranchTransfer }

// MovementType devuelve el tipo de movimiento de salida que corresponde a la
// liberación. Tabla fija: el vocabulario del libro queda cerrado.
func (t ReleaseType) MovementType() MovementType {
	switch t {
	case ReleaseJobUsage:
		return MovementSales
	case ReleaseBranchTransfer:
		return MovementTransferOut
	case ReleaseDisposal:
		return MovementDamaged
	case ReleaseInternalUse, ReleaseSample, ReleasePromotion, ReleaseOther:
		return MovementAdjustmentOut
	}
	return MovementAdjustmentOut
}

// StockRelease es la cabecera de una solicitud de liberación de stock.
// Las marcas de actor/fecha por transición forman el rastro de auditoría del flujo.
type StockRelease struct {
	ID             string
	ReleaseNumber  string // secuencial, ej. "SR-0001"
	Type           ReleaseType
	Status         ReleaseStatus
	FromLocationID string
	ToLocationID   string // vacío salvo BRANCH_TRANSFER
	RequestedBy    string
	ApprovedBy     string
	ReleasedBy     string
	ReceivedBy     string
	RequestedAt    time.Time
	ApprovedAt     *time.Time
	ReleasedAt     *time.Time
	ReceivedAt     *time.Time
	Notes          string
	Items          []*StockReleaseItem
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// StockReleaseItem es una línea de la liberación.
// ReleasedQuantity queda nil hasta el momento de liberar; una vez fijada, la
// línea no puede liberarse de nuevo (guard contra doble liberación).
type StockReleaseItem struct {
	ID                string
	ReleaseID         string
	ProductID         string
	RequestedQuantity int64
	ReleasedQuantity  *int64 // <= RequestedQuantity
	BatchNumber       string
	SerialNumber      string
	Notes             string
}
