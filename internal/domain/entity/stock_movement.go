package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/NextWave-98/api-sub002/internal/domain"
)

// MovementType es el vocabulario cerrado del libro de movimientos.
// Cada tipo tiene una dirección fija; el libro nunca recibe tipos arbitrarios del caller.
type MovementType string

const (
	MovementPurchase           MovementType = "PURCHASE"
	MovementSales              MovementType = "SALES"
	MovementAdjustmentIn       MovementType = "ADJUSTMENT_IN"
	MovementAdjustmentOut      MovementType = "ADJUSTMENT_OUT"
	MovementTransferIn         MovementType = "TRANSFER_IN"
	MovementTransferOut        MovementType = "TRANSFER_OUT"
	MovementReturnFromCustomer MovementType = "RETURN_FROM_CUSTOMER"
	MovementReturnToSupplier   MovementType = "RETURN_TO_SUPPLIER"
	MovementDamaged            MovementType = "DAMAGED"
	MovementFound              MovementType = "FOUND"
	MovementStolen             MovementType = "STOLEN"
)

// Direction devuelve +1 para entradas y -1 para salidas. Switch exhaustivo:
// un tipo fuera del vocabulario devuelve 0 y debe rechazarse antes de llegar aquí.
func (t MovementType) Direction() int64 {
	switch t {
	case MovementPurchase, MovementAdjustmentIn, MovementTransferIn,
		MovementReturnFromCustomer, MovementFound:
		return 1
	case MovementSales, MovementAdjustmentOut, MovementTransferOut,
		MovementReturnToSupplier, MovementDamaged, MovementStolen:
		return -1
	}
	return 0
}

// Valid indica si el tipo pertenece al vocabulario del libro.
func (t MovementType) Valid() bool { return t.Direction() != 0 }

// StockIntent es la intención declarada por el caller del Adjustment Processor.
// Se traduce al vocabulario del libro mediante una tabla fija (no controlada por el caller).
type StockIntent string

const (
	IntentStockIn    StockIntent = "STOCK_IN"
	IntentStockOut   StockIntent = "STOCK_OUT"
	IntentReturn     StockIntent = "RETURN"
	IntentDamage     StockIntent = "DAMAGE"
	IntentFound      StockIntent = "FOUND"
	IntentStolen     StockIntent = "STOLEN"
	IntentCorrection StockIntent = "CORRECTION"
)

// intentMovements tabla fija intención -> tipo de movimiento.
// CORRECTION no aparece: su tipo depende del signo y se resuelve en MovementTypeForIntent.
var intentMovements = map[StockIntent]MovementType{
	IntentStockIn:  MovementPurchase,
	IntentStockOut: MovementSales,
	IntentReturn:   MovementReturnFromCustomer,
	IntentDamage:   MovementDamaged,
	IntentFound:    MovementFound,
	IntentStolen:   MovementStolen,
}

// MovementTypeForIntent traduce la intención del caller a un tipo del libro.
// El signo de signedQuantity debe ser coherente con la dirección del tipo resultante.
func MovementTypeForIntent(intent StockIntent, signedQuantity int64) (MovementType, error) {
	if signedQuantity == 0 {
		return "", domain.ErrInvalidInput
	}
	if intent == IntentCorrection {
		if signedQuantity > 0 {
			return MovementAdjustmentIn, nil
		}
		return MovementAdjustmentOut, nil
	}
	mt, ok := intentMovements[intent]
	if !ok {
		return "", domain.ErrInvalidInput
	}
	if mt.Direction() > 0 != (signedQuantity > 0) {
		return "", domain.ErrInvalidInput
	}
	return mt, nil
}

// ReferenceType identifica la operación que originó un movimiento.
type ReferenceType string

const (
	ReferenceAdjustment    ReferenceType = "ADJUSTMENT"
	ReferenceTransfer      ReferenceType = "TRANSFER"
	ReferenceStockRelease  ReferenceType = "STOCK_RELEASE"
	ReferencePurchaseOrder ReferenceType = "PURCHASE_ORDER"
)

// Valid indica si el tipo de referencia pertenece al vocabulario cerrado.
func (rt ReferenceType) Valid() bool {
	switch rt {
	case ReferenceAdjustment, ReferenceTransfer, ReferenceStockRelease, ReferencePurchaseOrder:
		return true
	}
	return false
}

// StockMovement es una entrada inmutable del libro de movimientos (append-only).
// Quantity es siempre magnitud positiva; la dirección la da el tipo.
// QuantityBefore/QuantityAfter son instantáneas de la fila de inventario tomadas
// en la misma transacción que la mutación.
type StockMovement struct {
	ID             string
	ProductID      string
	LocationID     string
	Type           MovementType
	Quantity       int64
	QuantityBefore int64
	QuantityAfter  int64
	UnitCost       decimal.Decimal
	TotalCost      decimal.Decimal
	ReferenceType  ReferenceType
	ReferenceID    string
	Notes          string
	CreatedBy      string
	CreatedAt      time.Time
}

// Consistent verifica QuantityAfter = QuantityBefore ± Quantity según la dirección del tipo.
func (m *StockMovement) Consistent() bool {
	return m.Quantity > 0 &&
		m.QuantityAfter == m.QuantityBefore+m.Type.Direction()*m.Quantity
}
