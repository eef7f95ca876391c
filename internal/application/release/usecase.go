// Package release implementa el flujo de liberación de stock:
// solicitud -> aprobación -> liberación -> recepción (o cancelación).
//
// La aprobación no mueve stock; solo la liberación descuenta del origen (vía la
// primitiva transaccional del motor de inventario) y, para traslados entre
// sucursales, la recepción acredita el destino. Cada transición valida el estado
// actual con compare-and-swap dentro de la misma transacción que la actualiza.
package release

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/NextWave-98/api-sub002/internal/application/inventory"
	"github.com/NextWave-98/api-sub002/internal/domain"
	"github.com/NextWave-98/api-sub002/internal/domain/entity"
	"github.com/NextWave-98/api-sub002/internal/domain/repository"
)

// UseCase orquesta el flujo de liberaciones sobre las primitivas del motor.
type UseCase struct {
	txRunner     inventory.TxRunner
	releaseRepo  repository.StockReleaseRepository // atado al pool, para lecturas
	productRepo  repository.ProductRepository
	locationRepo repository.LocationRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	txRunner inventory.TxRunner,
	releaseRepo repository.StockReleaseRepository,
	productRepo repository.ProductRepository,
	locationRepo repository.LocationRepository,
) *UseCase {
	return &UseCase{
		txRunner:     txRunner,
		releaseRepo:  releaseRepo,
		productRepo:  productRepo,
		locationRepo: locationRepo,
	}
}

// ItemInput línea solicitada.
type ItemInput struct {
	ProductID    string
	Quantity     int64 // magnitud positiva
	BatchNumber  string
	SerialNumber string
	Notes        string
}

// CreateInput entrada para crear una solicitud de liberación.
type CreateInput struct {
	Type           entity.ReleaseType
	FromLocationID string
	ToLocationID   string // obligatorio solo para BRANCH_TRANSFER
	Notes          string
	RequestedBy    string
	Items          []ItemInput
}

// Create crea la solicitud en PENDING con su número consecutivo (SR-0001, ...).
func (uc *UseCase) Create(ctx context.Context, input CreateInput) (*entity.StockRelease, error) {
	if !input.Type.Valid() || input.FromLocationID == "" || input.RequestedBy == "" || len(input.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if input.Type.RequiresDestination() {
		if input.ToLocationID == "" {
			return nil, domain.ErrInvalidInput
		}
		if input.ToLocationID == input.FromLocationID {
			return nil, domain.ErrInvalidTransfer
		}
	} else if input.ToLocationID != "" {
		return nil, domain.ErrInvalidInput
	}
	if _, err := uc.requireLocation(ctx, input.FromLocationID); err != nil {
		return nil, err
	}
	if input.ToLocationID != "" {
		if _, err := uc.requireLocation(ctx, input.ToLocationID); err != nil {
			return nil, err
		}
	}
	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
		if _, err := uc.requireProduct(ctx, item.ProductID); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	rel := &entity.StockRelease{
		ID:             uuid.New().String(),
		Type:           input.Type,
		Status:         entity.ReleasePending,
		FromLocationID: input.FromLocationID,
		ToLocationID:   input.ToLocationID,
		RequestedBy:    input.RequestedBy,
		RequestedAt:    now,
		Notes:          input.Notes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	for _, item := range input.Items {
		rel.Items = append(rel.Items, &entity.StockReleaseItem{
			ID:                uuid.New().String(),
			ReleaseID:         rel.ID,
			ProductID:         item.ProductID,
			RequestedQuantity: item.Quantity,
			BatchNumber:       item.BatchNumber,
			SerialNumber:      item.SerialNumber,
			Notes:             item.Notes,
		})
	}

	err := uc.txRunner.Run(ctx, func(
		_ repository.InventoryRepository,
		_ repository.MovementRepository,
		releaseRepo repository.StockReleaseRepository,
		_ repository.ProductRepository,
	) error {
		n, err := releaseRepo.NextReleaseNumber(ctx)
		if err != nil {
			return err
		}
		rel.ReleaseNumber = fmt.Sprintf("SR-%04d", n)
		return releaseRepo.Create(ctx, rel)
	})
	if err != nil {
		return nil, err
	}
	return rel, nil
}

// Approve transiciona PENDING -> APPROVED con compare-and-swap: de dos aprobaciones
// concurrentes sobre la misma solicitud, exactamente una gana.
func (uc *UseCase) Approve(ctx context.Context, id, approver, notes string) (*entity.StockRelease, error) {
	if id == "" || approver == "" {
		return nil, domain.ErrInvalidInput
	}
	err := uc.txRunner.Run(ctx, func(
		_ repository.InventoryRepository,
		_ repository.MovementRepository,
		releaseRepo repository.StockReleaseRepository,
		_ repository.ProductRepository,
	) error {
		ok, err := releaseRepo.UpdateStatus(ctx, id, entity.ReleasePending, entity.ReleaseApproved,
			repository.StatusPatch{Actor: approver, At: time.Now(), Notes: notes})
		if err != nil {
			return err
		}
		if !ok {
			return uc.transitionError(ctx, releaseRepo, id, entity.ReleaseApproved)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return uc.GetByID(ctx, id)
}

// Release ejecuta la liberación APPROVED -> RELEASED: descuenta cada línea del
// origen, fija releasedQuantity (una sola vez por línea) y escribe los movimientos,
// todo bajo el bloqueo de la cabecera. Los tipos que no son traslado quedan
// COMPLETED en esta misma transacción.
//
// overrides permite liberar menos de lo solicitado, por línea (nunca más).
func (uc *UseCase) Release(ctx context.Context, id, releaser string, overrides map[string]int64, notes string) (*entity.StockRelease, error) {
	if id == "" || releaser == "" {
		return nil, domain.ErrInvalidInput
	}
	err := uc.txRunner.Run(ctx, func(
		invRepo repository.InventoryRepository,
		movRepo repository.MovementRepository,
		releaseRepo repository.StockReleaseRepository,
		_ repository.ProductRepository,
	) error {
		rel, err := releaseRepo.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if rel == nil {
			return domain.ErrReleaseNotFound
		}
		if rel.Status != entity.ReleaseApproved {
			return &domain.InvalidTransitionError{
				ReleaseID: id,
				From:      string(rel.Status),
				To:        string(entity.ReleaseReleased),
			}
		}

		movType := rel.Type.MovementType()
		now := time.Now()
		for _, item := range rel.Items {
			qty := item.RequestedQuantity
			if override, ok := overrides[item.ID]; ok {
				if override <= 0 || override > item.RequestedQuantity {
					return domain.ErrInvalidInput
				}
				qty = override
			}
			if item.ReleasedQuantity != nil {
				return &domain.DuplicateReleaseError{ReleaseID: id, ItemID: item.ID}
			}
			ok, err := releaseRepo.SetItemReleasedQuantity(ctx, item.ID, qty)
			if err != nil {
				return err
			}
			if !ok {
				return &domain.DuplicateReleaseError{ReleaseID: id, ItemID: item.ID}
			}
			if _, err := inventory.ApplyMovementInTx(ctx, invRepo, movRepo, inventory.MovementParams{
				ProductID:     item.ProductID,
				LocationID:    rel.FromLocationID,
				Type:          movType,
				Quantity:      qty,
				ReferenceType: entity.ReferenceStockRelease,
				ReferenceID:   rel.ID,
				Notes:         fmt.Sprintf("Liberación %s (%s)", rel.ReleaseNumber, rel.Type),
				Actor:         releaser,
				At:            now,
			}); err != nil {
				return err
			}
		}

		patch := repository.StatusPatch{Actor: releaser, At: now, Notes: notes}
		ok, err := releaseRepo.UpdateStatus(ctx, id, entity.ReleaseApproved, entity.ReleaseReleased, patch)
		if err != nil {
			return err
		}
		if !ok {
			// Inalcanzable: la cabecera está bloqueada por esta transacción.
			return domain.ErrInvalidStateTransition
		}
		if !rel.Type.RequiresDestination() {
			// Sin destino no hay recepción: terminal aquí.
			if _, err := releaseRepo.UpdateStatus(ctx, id, entity.ReleaseReleased, entity.ReleaseCompleted, patch); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return uc.GetByID(ctx, id)
}

// Receive acredita el destino de un traslado RELEASED -> RECEIVED -> COMPLETED:
// una entrada TRANSFER_IN por línea liberada, espejo de lo descontado al liberar.
func (uc *UseCase) Receive(ctx context.Context, id, receiver, notes string) (*entity.StockRelease, error) {
	if id == "" || receiver == "" {
		return nil, domain.ErrInvalidInput
	}
	err := uc.txRunner.Run(ctx, func(
		invRepo repository.InventoryRepository,
		movRepo repository.MovementRepository,
		releaseRepo repository.StockReleaseRepository,
		_ repository.ProductRepository,
	) error {
		rel, err := releaseRepo.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if rel == nil {
			return domain.ErrReleaseNotFound
		}
		if rel.Status != entity.ReleaseReleased || rel.ToLocationID == "" {
			return &domain.InvalidTransitionError{
				ReleaseID: id,
				From:      string(rel.Status),
				To:        string(entity.ReleaseReceived),
			}
		}

		now := time.Now()
		for _, item := range rel.Items {
			if item.ReleasedQuantity == nil || *item.ReleasedQuantity <= 0 {
				continue
			}
			if _, err := inventory.ApplyMovementInTx(ctx, invRepo, movRepo, inventory.MovementParams{
				ProductID:     item.ProductID,
				LocationID:    rel.ToLocationID,
				Type:          entity.MovementTransferIn,
				Quantity:      *item.ReleasedQuantity,
				ReferenceType: entity.ReferenceStockRelease,
				ReferenceID:   rel.ID,
				Notes:         fmt.Sprintf("Recepción %s", rel.ReleaseNumber),
				Actor:         receiver,
				At:            now,
			}); err != nil {
				return err
			}
		}

		patch := repository.StatusPatch{Actor: receiver, At: now, Notes: notes}
		ok, err := releaseRepo.UpdateStatus(ctx, id, entity.ReleaseReleased, entity.ReleaseReceived, patch)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrInvalidStateTransition
		}
		// La recepción acreditó el destino en esta misma tx: cerrar el flujo.
		if _, err := releaseRepo.UpdateStatus(ctx, id, entity.ReleaseReceived, entity.ReleaseCompleted, patch); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return uc.GetByID(ctx, id)
}

// Cancel transiciona PENDING/APPROVED -> CANCELLED. Sin impacto en inventario:
// nada fue liberado todavía.
func (uc *UseCase) Cancel(ctx context.Context, id, userID, notes string) (*entity.StockRelease, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	err := uc.txRunner.Run(ctx, func(
		_ repository.InventoryRepository,
		_ repository.MovementRepository,
		releaseRepo repository.StockReleaseRepository,
		_ repository.ProductRepository,
	) error {
		rel, err := releaseRepo.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if rel == nil {
			return domain.ErrReleaseNotFound
		}
		if !rel.Status.CanTransitionTo(entity.ReleaseCancelled) {
			return &domain.InvalidTransitionError{
				ReleaseID: id,
				From:      string(rel.Status),
				To:        string(entity.ReleaseCancelled),
			}
		}
		cancelNotes := notes
		if userID != "" {
			cancelNotes = fmt.Sprintf("cancelada por %s. %s", userID, notes)
		}
		ok, err := releaseRepo.UpdateStatus(ctx, id, rel.Status, entity.ReleaseCancelled,
			repository.StatusPatch{At: time.Now(), Notes: cancelNotes})
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrInvalidStateTransition
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return uc.GetByID(ctx, id)
}

// GetByID devuelve la liberación con sus líneas.
func (uc *UseCase) GetByID(ctx context.Context, id string) (*entity.StockRelease, error) {
	rel, err := uc.releaseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rel == nil {
		return nil, domain.ErrReleaseNotFound
	}
	return rel, nil
}

// ListByStatus lista liberaciones por estado.
func (uc *UseCase) ListByStatus(ctx context.Context, status entity.ReleaseStatus, limit, offset int) ([]*entity.StockRelease, error) {
	return uc.releaseRepo.ListByStatus(ctx, status, limit, offset)
}

// ListByLocation lista liberaciones cuyo origen o destino es la ubicación.
func (uc *UseCase) ListByLocation(ctx context.Context, locationID string, limit, offset int) ([]*entity.StockRelease, error) {
	return uc.releaseRepo.ListByLocation(ctx, locationID, limit, offset)
}

// transitionError distingue "no existe" de "estado equivocado" cuando el CAS falla.
func (uc *UseCase) transitionError(ctx context.Context, releaseRepo repository.StockReleaseRepository, id string, to entity.ReleaseStatus) error {
	rel, err := releaseRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if rel == nil {
		return domain.ErrReleaseNotFound
	}
	return &domain.InvalidTransitionError{ReleaseID: id, From: string(rel.Status), To: string(to)}
}

func (uc *UseCase) requireProduct(ctx context.Context, id string) (*entity.Product, error) {
	p, err := uc.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrProductNotFound
	}
	return p, nil
}

func (uc *UseCase) requireLocation(ctx context.Context, id string) (*entity.Location, error) {
	l, err := uc.locationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, domain.ErrLocationNotFound
	}
	return l, nil
}
