package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/NextWave-98/api-sub002/internal/domain"
	"github.com/NextWave-98/api-sub002/internal/domain/entity"
	costing "github.com/NextWave-98/api-sub002/internal/domain/inventory"
	"github.com/NextWave-98/api-sub002/internal/domain/repository"
)

// AdjustUseCase es el Adjustment Processor: aplica un delta con signo sobre una fila
// de inventario y escribe la entrada correspondiente del libro, todo en una transacción.
// También maneja reservas y la recepción de órdenes de compra (que es una entrada
// PURCHASE por línea con referencia a la orden).
type AdjustUseCase struct {
	txRunner     TxRunner
	productRepo  repository.ProductRepository
	locationRepo repository.LocationRepository
}

// NewAdjustUseCase construye el caso de uso.
func NewAdjustUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	locationRepo repository.LocationRepository,
) *AdjustUseCase {
	return &AdjustUseCase{
		txRunner:     txRunner,
		productRepo:  productRepo,
		locationRepo: locationRepo,
	}
}

// AdjustInput entrada para un ajuste manual, daño, hallazgo o entrada directa.
// Quantity lleva signo: positivo suma al stock, negativo resta. La intención se
// traduce al vocabulario del libro con la tabla fija de entity (no la controla el caller).
type AdjustInput struct {
	ProductID     string
	LocationID    string
	Quantity      int64 // con signo, distinto de cero
	Intent        entity.StockIntent
	UnitCost      *decimal.Decimal // opcional; entradas con costo recalculan promedio
	ReferenceType entity.ReferenceType
	ReferenceID   string
	Notes         string
	UserID        string
}

// Adjust ejecuta el ajuste y devuelve la fila actualizada.
// Valida producto y ubicación defensivamente, abre una transacción, bloquea la fila,
// verifica que el resultado no quede negativo y persiste fila + movimiento.
func (uc *AdjustUseCase) Adjust(ctx context.Context, input AdjustInput) (*entity.InventoryRecord, error) {
	if input.Quantity == 0 || input.ProductID == "" || input.LocationID == "" {
		return nil, domain.ErrInvalidInput
	}
	movType, err := entity.MovementTypeForIntent(input.Intent, input.Quantity)
	if err != nil {
		return nil, err
	}

	product, err := uc.requireProduct(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if _, err := uc.requireLocation(ctx, input.LocationID); err != nil {
		return nil, err
	}

	magnitude := input.Quantity
	if magnitude < 0 {
		magnitude = -magnitude
	}
	unitCost := decimal.Zero
	if input.UnitCost != nil {
		if input.UnitCost.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		unitCost = *input.UnitCost
	}
	refType := input.ReferenceType
	refID := input.ReferenceID
	if refType == "" {
		refType = entity.ReferenceAdjustment
	}
	// El vocabulario de referencias es cerrado, igual que el de movimientos.
	if !refType.Valid() {
		return nil, domain.ErrInvalidInput
	}
	if refID == "" {
		refID = uuid.New().String()
	}
	now := time.Now()

	var updated *entity.InventoryRecord
	err = uc.txRunner.Run(ctx, func(
		invRepo repository.InventoryRepository,
		movRepo repository.MovementRepository,
		_ repository.StockReleaseRepository,
		productRepo repository.ProductRepository,
	) error {
		record, err := ApplyMovementInTx(ctx, invRepo, movRepo, MovementParams{
			ProductID:     input.ProductID,
			LocationID:    input.LocationID,
			Type:          movType,
			Quantity:      magnitude,
			UnitCost:      unitCost,
			ReferenceType: refType,
			ReferenceID:   refID,
			Notes:         input.Notes,
			Actor:         input.UserID,
			At:            now,
		})
		if err != nil {
			return err
		}
		// Entradas con costo declarado recalculan el costo promedio ponderado del producto.
		if movType.Direction() > 0 && input.UnitCost != nil {
			before := record.Quantity - magnitude
			newCost := costing.WeightedAverageCost(
				decimal.NewFromInt(before), product.Cost,
				decimal.NewFromInt(magnitude), unitCost,
			)
			if err := productRepo.UpdateCost(ctx, product.ID, newCost); err != nil {
				return err
			}
		}
		updated = record
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// ReserveInput entrada para apartar o devolver unidades reservadas.
type ReserveInput struct {
	ProductID  string
	LocationID string
	Quantity   int64 // magnitud positiva
	UserID     string
}

// Reserve aparta unidades sin retirarlas: sube ReservedQuantity bajo el mismo
// bloqueo de fila. No escribe en el libro porque la cantidad en mano no cambia.
func (uc *AdjustUseCase) Reserve(ctx context.Context, input ReserveInput) (*entity.InventoryRecord, error) {
	return uc.mutateReservation(ctx, input, input.Quantity)
}

// ReleaseReservation libera unidades previamente apartadas.
func (uc *AdjustUseCase) ReleaseReservation(ctx context.Context, input ReserveInput) (*entity.InventoryRecord, error) {
	return uc.mutateReservation(ctx, input, -input.Quantity)
}

func (uc *AdjustUseCase) mutateReservation(ctx context.Context, input ReserveInput, delta int64) (*entity.InventoryRecord, error) {
	if input.Quantity <= 0 || input.ProductID == "" || input.LocationID == "" {
		return nil, domain.ErrInvalidInput
	}
	if _, err := uc.requireProduct(ctx, input.ProductID); err != nil {
		return nil, err
	}
	if _, err := uc.requireLocation(ctx, input.LocationID); err != nil {
		return nil, err
	}

	var updated *entity.InventoryRecord
	err := uc.txRunner.Run(ctx, func(
		invRepo repository.InventoryRepository,
		_ repository.MovementRepository,
		_ repository.StockReleaseRepository,
		_ repository.ProductRepository,
	) error {
		record, err := invRepo.GetForUpdate(ctx, input.ProductID, input.LocationID)
		if err != nil {
			return err
		}
		newReserved := record.ReservedQuantity + delta
		if delta > 0 && delta > record.AvailableQuantity {
			return &domain.InsufficientStockError{
				ProductID:  input.ProductID,
				LocationID: input.LocationID,
				Available:  record.AvailableQuantity,
				Requested:  delta,
			}
		}
		if newReserved < 0 {
			return domain.ErrInvalidInput
		}
		if err := record.SetQuantities(record.Quantity, newReserved); err != nil {
			return err
		}
		record.UpdatedAt = time.Now()
		if err := invRepo.Upsert(ctx, record); err != nil {
			return err
		}
		updated = record
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// PurchaseReceiptLine línea recibida de una orden de compra.
type PurchaseReceiptLine struct {
	ProductID string
	Quantity  int64
	UnitCost  decimal.Decimal
}

// ReceivePurchaseOrder registra la recepción de una orden de compra: una entrada
// PURCHASE por línea, con referencia a la orden, todas en la misma transacción.
func (uc *AdjustUseCase) ReceivePurchaseOrder(
	ctx context.Context,
	purchaseOrderID, locationID string,
	lines []PurchaseReceiptLine,
	userID string,
) error {
	if purchaseOrderID == "" || locationID == "" || len(lines) == 0 {
		return domain.ErrInvalidInput
	}
	if _, err := uc.requireLocation(ctx, locationID); err != nil {
		return err
	}
	products := make(map[string]*entity.Product, len(lines))
	for _, line := range lines {
		if line.Quantity <= 0 || line.UnitCost.LessThan(decimal.Zero) {
			return domain.ErrInvalidInput
		}
		if _, ok := products[line.ProductID]; ok {
			continue
		}
		p, err := uc.requireProduct(ctx, line.ProductID)
		if err != nil {
			return err
		}
		products[line.ProductID] = p
	}
	now := time.Now()

	return uc.txRunner.Run(ctx, func(
		invRepo repository.InventoryRepository,
		movRepo repository.MovementRepository,
		_ repository.StockReleaseRepository,
		productRepo repository.ProductRepository,
	) error {
		for _, line := range lines {
			record, err := ApplyMovementInTx(ctx, invRepo, movRepo, MovementParams{
				ProductID:     line.ProductID,
				LocationID:    locationID,
				Type:          entity.MovementPurchase,
				Quantity:      line.Quantity,
				UnitCost:      line.UnitCost,
				ReferenceType: entity.ReferencePurchaseOrder,
				ReferenceID:   purchaseOrderID,
				Notes:         fmt.Sprintf("Recepción orden de compra %s", purchaseOrderID),
				Actor:         userID,
				At:            now,
			})
			if err != nil {
				return err
			}
			product := products[line.ProductID]
			before := record.Quantity - line.Quantity
			newCost := costing.WeightedAverageCost(
				decimal.NewFromInt(before), product.Cost,
				decimal.NewFromInt(line.Quantity), line.UnitCost,
			)
			if err := productRepo.UpdateCost(ctx, product.ID, newCost); err != nil {
				return err
			}
			product.Cost = newCost
		}
		return nil
	})
}

func (uc *AdjustUseCase) requireProduct(ctx context.Context, id string) (*entity.Product, error) {
	p, err := uc.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrProductNotFound
	}
	return p, nil
}

func (uc *AdjustUseCase) requireLocation(ctx context.Context, id string) (*entity.Location, error) {
	l, err := uc.locationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, domain.ErrLocationNotFound
	}
	return l, nil
}
