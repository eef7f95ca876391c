package inventory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/NextWave-98/api-sub002/internal/domain"
	"github.com/NextWave-98/api-sub002/internal/domain/entity"
	"github.com/NextWave-98/api-sub002/internal/domain/repository"
)

// TransferUseCase es el Transfer Coordinator: mueve cantidad de un producto entre
// dos ubicaciones de forma atómica, con dos entradas en el libro (OUT en origen,
// IN en destino) que se cruzan en las notas para auditoría humana.
//
// Un traslado no es idempotente: cada llamada mueve stock de nuevo. El dedupe de
// reintentos es responsabilidad del caller.
type TransferUseCase struct {
	txRunner     TxRunner
	productRepo  repository.ProductRepository
	locationRepo repository.LocationRepository
}

// NewTransferUseCase construye el caso de uso.
func NewTransferUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	locationRepo repository.LocationRepository,
) *TransferUseCase {
	return &TransferUseCase{
		txRunner:     txRunner,
		productRepo:  productRepo,
		locationRepo: locationRepo,
	}
}

// TransferInput entrada para un traslado de un solo producto.
type TransferInput struct {
	ProductID      string
	FromLocationID string
	ToLocationID   string
	Quantity       int64 // magnitud positiva
	Notes          string
	UserID         string
}

// TransferResult resultado de un traslado: filas origen y destino ya actualizadas.
type TransferResult struct {
	TransferID string
	From       *entity.InventoryRecord
	To         *entity.InventoryRecord
	Quantity   int64
}

// Transfer ejecuta el traslado en una transacción: bloquea la fila origen, valida
// stock suficiente, descuenta, crea (si hace falta) e incrementa la fila destino y
// escribe los dos movimientos con sus instantáneas propias.
func (uc *TransferUseCase) Transfer(ctx context.Context, input TransferInput) (*TransferResult, error) {
	if input.ProductID == "" || input.FromLocationID == "" || input.ToLocationID == "" || input.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	if input.FromLocationID == input.ToLocationID {
		return nil, domain.ErrInvalidTransfer
	}
	product, err := uc.requireProduct(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	fromLoc, err := uc.requireLocation(ctx, input.FromLocationID)
	if err != nil {
		return nil, err
	}
	toLoc, err := uc.requireLocation(ctx, input.ToLocationID)
	if err != nil {
		return nil, err
	}

	transferID := uuid.New().String()
	now := time.Now()
	result := &TransferResult{TransferID: transferID, Quantity: input.Quantity}

	err = uc.txRunner.Run(ctx, func(
		invRepo repository.InventoryRepository,
		movRepo repository.MovementRepository,
		_ repository.StockReleaseRepository,
		_ repository.ProductRepository,
	) error {
		from, to, err := uc.moveOne(ctx, invRepo, movRepo, moveParams{
			product:    product,
			fromLoc:    fromLoc,
			toLoc:      toLoc,
			quantity:   input.Quantity,
			notes:      input.Notes,
			userID:     input.UserID,
			transferID: transferID,
			at:         now,
		})
		if err != nil {
			return err
		}
		result.From = from
		result.To = to
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// BulkTransferItem línea de un traslado masivo.
type BulkTransferItem struct {
	ProductID string
	Quantity  int64
}

// BulkTransferInput entrada para trasladar varios productos entre las mismas dos ubicaciones.
type BulkTransferInput struct {
	FromLocationID string
	ToLocationID   string
	Items          []BulkTransferItem
	Notes          string
	UserID         string
}

// BulkTransferResult resultado del traslado masivo.
type BulkTransferResult struct {
	TransferID string
	Lines      []*TransferResult
}

// BulkTransfer valida el stock de TODAS las líneas antes de mutar cualquier fila
// (fail-fast) y aplica todas dentro de la misma transacción: o todas las líneas
// quedan movidas o ninguna.
func (uc *TransferUseCase) BulkTransfer(ctx context.Context, input BulkTransferInput) (*BulkTransferResult, error) {
	if input.FromLocationID == "" || input.ToLocationID == "" || len(input.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if input.FromLocationID == input.ToLocationID {
		return nil, domain.ErrInvalidTransfer
	}
	fromLoc, err := uc.requireLocation(ctx, input.FromLocationID)
	if err != nil {
		return nil, err
	}
	toLoc, err := uc.requireLocation(ctx, input.ToLocationID)
	if err != nil {
		return nil, err
	}
	products := make(map[string]*entity.Product, len(input.Items))
	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
		if _, ok := products[item.ProductID]; ok {
			continue
		}
		p, err := uc.requireProduct(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		products[item.ProductID] = p
	}

	// Orden estable de bloqueo entre traslados masivos concurrentes.
	items := make([]BulkTransferItem, len(input.Items))
	copy(items, input.Items)
	sort.Slice(items, func(i, j int) bool { return items[i].ProductID < items[j].ProductID })

	transferID := uuid.New().String()
	now := time.Now()
	result := &BulkTransferResult{TransferID: transferID}

	err = uc.txRunner.Run(ctx, func(
		invRepo repository.InventoryRepository,
		movRepo repository.MovementRepository,
		_ repository.StockReleaseRepository,
		_ repository.ProductRepository,
	) error {
		// Primera pasada: bloquear y validar cada línea sin mutar nada.
		for _, item := range items {
			record, err := invRepo.GetForUpdate(ctx, item.ProductID, input.FromLocationID)
			if err != nil {
				return err
			}
			if item.Quantity > record.AvailableQuantity {
				return &domain.InsufficientStockError{
					ProductID:  item.ProductID,
					LocationID: input.FromLocationID,
					Available:  record.AvailableQuantity,
					Requested:  item.Quantity,
				}
			}
		}
		// Segunda pasada: aplicar; las filas ya están bloqueadas por esta tx.
		for _, item := range items {
			from, to, err := uc.moveOne(ctx, invRepo, movRepo, moveParams{
				product:    products[item.ProductID],
				fromLoc:    fromLoc,
				toLoc:      toLoc,
				quantity:   item.Quantity,
				notes:      input.Notes,
				userID:     input.UserID,
				transferID: transferID,
				at:         now,
			})
			if err != nil {
				return err
			}
			result.Lines = append(result.Lines, &TransferResult{
				TransferID: transferID,
				From:       from,
				To:         to,
				Quantity:   item.Quantity,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

type moveParams struct {
	product    *entity.Product
	fromLoc    *entity.Location
	toLoc      *entity.Location
	quantity   int64
	notes      string
	userID     string
	transferID string
	at         time.Time
}

// moveOne descuenta en origen y suma en destino, con una entrada del libro por lado.
func (uc *TransferUseCase) moveOne(
	ctx context.Context,
	invRepo repository.InventoryRepository,
	movRepo repository.MovementRepository,
	p moveParams,
) (from, to *entity.InventoryRecord, err error) {
	outNotes := fmt.Sprintf("Traslado a %s (%s)", p.toLoc.Name, p.toLoc.Code)
	inNotes := fmt.Sprintf("Traslado desde %s (%s)", p.fromLoc.Name, p.fromLoc.Code)
	if p.notes != "" {
		outNotes += " — " + p.notes
		inNotes += " — " + p.notes
	}

	from, err = ApplyMovementInTx(ctx, invRepo, movRepo, MovementParams{
		ProductID:     p.product.ID,
		LocationID:    p.fromLoc.ID,
		Type:          entity.MovementTransferOut,
		Quantity:      p.quantity,
		UnitCost:      p.product.Cost,
		ReferenceType: entity.ReferenceTransfer,
		ReferenceID:   p.transferID,
		Notes:         outNotes,
		Actor:         p.userID,
		At:            p.at,
	})
	if err != nil {
		return nil, nil, err
	}
	to, err = ApplyMovementInTx(ctx, invRepo, movRepo, MovementParams{
		ProductID:     p.product.ID,
		LocationID:    p.toLoc.ID,
		Type:          entity.MovementTransferIn,
		Quantity:      p.quantity,
		UnitCost:      p.product.Cost,
		ReferenceType: entity.ReferenceTransfer,
		ReferenceID:   p.transferID,
		Notes:         inNotes,
		Actor:         p.userID,
		At:            p.at,
	})
	if err != nil {
		return nil, nil, err
	}
	return from, to, nil
}

func (uc *TransferUseCase) requireProduct(ctx context.Context, id string) (*entity.Product, error) {
	p, err := uc.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrProductNotFound
	}
	return p, nil
}

func (uc *TransferUseCase) requireLocation(ctx context.Context, id string) (*entity.Location, error) {
	l, err := uc.locationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, domain.ErrLocationNotFound
	}
	return l, nil
}
