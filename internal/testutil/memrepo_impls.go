package testutil

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/NextWave-98/api-sub002/internal/domain"
	"github.com/NextWave-98/api-sub002/internal/domain/entity"
	"github.com/NextWave-98/api-sub002/internal/domain/repository"
)

var (
	_ repository.InventoryRepository    = (*MemInventoryRepo)(nil)
	_ repository.MovementRepository     = (*MemMovementRepo)(nil)
	_ repository.StockReleaseRepository = (*MemStockReleaseRepo)(nil)
	_ repository.ProductRepository      = (*MemProductRepo)(nil)
	_ repository.LocationRepository     = (*MemLocationRepo)(nil)
)

// ── Inventario ────────────────────────────────────────────────────────────────

// MemInventoryRepo implementa repository.InventoryRepository en memoria.
type MemInventoryRepo struct {
	store *MemStore
}

// NewMemInventoryRepo construye el repo sobre el store.
func NewMemInventoryRepo(store *MemStore) *MemInventoryRepo {
	return &MemInventoryRepo{store: store}
}

func (r *MemInventoryRepo) Find(_ context.Context, productID, locationID string) (*entity.InventoryRecord, error) {
	rec, ok := r.store.Inventory[invKey(productID, locationID)]
	if !ok {
		return nil, nil
	}
	return copyRecord(rec), nil
}

// GetForUpdate materializa la fila en cero si no existe, igual que el adaptador
// de Postgres (INSERT ... ON CONFLICT DO NOTHING antes del SELECT FOR UPDATE):
// el caller siempre trabaja sobre una fila que existe. Si la transacción falla,
// el snapshot del MemTxRunner revierte la fila recién creada.
func (r *MemInventoryRepo) GetForUpdate(_ context.Context, productID, locationID string) (*entity.InventoryRecord, error) {
	rec, ok := r.store.Inventory[invKey(productID, locationID)]
	if !ok {
		rec = &entity.InventoryRecord{ID: uuid.NewString(), ProductID: productID, LocationID: locationID}
		r.store.Inventory[invKey(productID, locationID)] = rec
	}
	return copyRecord(rec), nil
}

func (r *MemInventoryRepo) Upsert(_ context.Context, record *entity.InventoryRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	r.store.Inventory[invKey(record.ProductID, record.LocationID)] = copyRecord(record)
	return nil
}

func (r *MemInventoryRepo) ListByLocation(_ context.Context, locationID string, limit, offset int) ([]*entity.InventoryRecord, error) {
	var list []*entity.InventoryRecord
	for _, rec := range r.store.Inventory {
		if rec.LocationID == locationID {
			list = append(list, copyRecord(rec))
		}
	}
	return paginate(list, limit, offset), nil
}

func (r *MemInventoryRepo) ListByProduct(_ context.Context, productID string) ([]*entity.InventoryRecord, error) {
	var list []*entity.InventoryRecord
	for _, rec := range r.store.Inventory {
		if rec.ProductID == productID {
			list = append(list, copyRecord(rec))
		}
	}
	return list, nil
}

func (r *MemInventoryRepo) ListBelowReorderLevel(_ context.Context, locationID string) ([]*entity.InventoryRecord, error) {
	var list []*entity.InventoryRecord
	for _, rec := range r.store.Inventory {
		if locationID != "" && rec.LocationID != locationID {
			continue
		}
		if rec.IsBelowReorderLevel() {
			list = append(list, copyRecord(rec))
		}
	}
	return list, nil
}

// ── Movimientos ───────────────────────────────────────────────────────────────

// MemMovementRepo implementa repository.MovementRepository en memoria.
type MemMovementRepo struct {
	store *MemStore
}

// NewMemMovementRepo construye el repo sobre el store.
func NewMemMovementRepo(store *MemStore) *MemMovementRepo {
	return &MemMovementRepo{store: store}
}

func (r *MemMovementRepo) Create(_ context.Context, movement *entity.StockMovement) error {
	if movement.ID == "" {
		movement.ID = uuid.NewString()
	}
	c := *movement
	r.store.Movements = append(r.store.Movements, &c)
	return nil
}

func (r *MemMovementRepo) GetByID(_ context.Context, id string) (*entity.StockMovement, error) {
	for _, m := range r.store.Movements {
		if m.ID == id {
			c := *m
			return &c, nil
		}
	}
	return nil, nil
}

func (r *MemMovementRepo) List(_ context.Context, filter repository.MovementFilter, limit, offset int) ([]*entity.StockMovement, error) {
	var list []*entity.StockMovement
	// del más reciente al más antiguo: inserción invertida
	for i := len(r.store.Movements) - 1; i >= 0; i-- {
		m := r.store.Movements[i]
		if filter.ProductID != "" && m.ProductID != filter.ProductID {
			continue
		}
		if filter.LocationID != "" && m.LocationID != filter.LocationID {
			continue
		}
		if filter.From != nil && m.CreatedAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && m.CreatedAt.After(*filter.To) {
			continue
		}
		c := *m
		list = append(list, &c)
	}
	return paginate(list, limit, offset), nil
}

// ── Liberaciones ──────────────────────────────────────────────────────────────

// MemStockReleaseRepo implementa repository.StockReleaseRepository en memoria.
type MemStockReleaseRepo struct {
	store *MemStore
}

// NewMemStockReleaseRepo construye el repo sobre el store.
func NewMemStockReleaseRepo(store *MemStore) *MemStockReleaseRepo {
	return &MemStockReleaseRepo{store: store}
}

func (r *MemStockReleaseRepo) Create(_ context.Context, release *entity.StockRelease) error {
	if release.ID == "" {
		release.ID = uuid.NewString()
	}
	for _, item := range release.Items {
		if item.ID == "" {
			item.ID = uuid.NewString()
		}
		item.ReleaseID = release.ID
	}
	r.store.Releases[release.ID] = copyRelease(release)
	return nil
}

func (r *MemStockReleaseRepo) GetByID(_ context.Context, id string) (*entity.StockRelease, error) {
	rel, ok := r.store.Releases[id]
	if !ok {
		return nil, nil
	}
	return copyRelease(rel), nil
}

func (r *MemStockReleaseRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.StockRelease, error) {
	return r.GetByID(ctx, id)
}

func (r *MemStockReleaseRepo) NextReleaseNumber(_ context.Context) (int64, error) {
	r.store.releaseSeq++
	return r.store.releaseSeq, nil
}

func (r *MemStockReleaseRepo) UpdateStatus(_ context.Context, id string, from, to entity.ReleaseStatus, patch repository.StatusPatch) (bool, error) {
	rel, ok := r.store.Releases[id]
	if !ok || rel.Status != from {
		return false, nil
	}
	rel.Status = to
	switch to {
	case entity.ReleaseApproved:
		rel.ApprovedBy = patch.Actor
		at := patch.At
		rel.ApprovedAt = &at
	case entity.ReleaseReleased:
		rel.ReleasedBy = patch.Actor
		at := patch.At
		rel.ReleasedAt = &at
	case entity.ReleaseReceived:
		rel.ReceivedBy = patch.Actor
		at := patch.At
		rel.ReceivedAt = &at
	}
	if patch.Notes != "" {
		// se agrega a la nota existente, como el concat_ws del adaptador de Postgres
		if rel.Notes != "" {
			rel.Notes += "\n" + patch.Notes
		} else {
			rel.Notes = patch.Notes
		}
	}
	rel.UpdatedAt = patch.At
	return true, nil
}

func (r *MemStockReleaseRepo) SetItemReleasedQuantity(_ context.Context, itemID string, quantity int64) (bool, error) {
	for _, rel := range r.store.Releases {
		for _, item := range rel.Items {
			if item.ID == itemID {
				if item.ReleasedQuantity != nil {
					return false, nil
				}
				q := quantity
				item.ReleasedQuantity = &q
				return true, nil
			}
		}
	}
	return false, nil
}

func (r *MemStockReleaseRepo) ListByStatus(_ context.Context, status entity.ReleaseStatus, limit, offset int) ([]*entity.StockRelease, error) {
	var list []*entity.StockRelease
	for _, rel := range r.store.Releases {
		if rel.Status == status {
			list = append(list, copyRelease(rel))
		}
	}
	return paginate(list, limit, offset), nil
}

func (r *MemStockReleaseRepo) ListByLocation(_ context.Context, locationID string, limit, offset int) ([]*entity.StockRelease, error) {
	var list []*entity.StockRelease
	for _, rel := range r.store.Releases {
		if rel.FromLocationID == locationID || rel.ToLocationID == locationID {
			list = append(list, copyRelease(rel))
		}
	}
	return paginate(list, limit, offset), nil
}

// ── Catálogo ──────────────────────────────────────────────────────────────────

// MemProductRepo implementa repository.ProductRepository en memoria.
type MemProductRepo struct {
	store *MemStore
}

// NewMemProductRepo construye el repo sobre el store.
func NewMemProductRepo(store *MemStore) *MemProductRepo {
	return &MemProductRepo{store: store}
}

func (r *MemProductRepo) Create(_ context.Context, product *entity.Product) error {
	for _, p := range r.store.Products {
		if p.SKU == product.SKU {
			return domain.ErrDuplicate
		}
	}
	c := *product
	r.store.Products[product.ID] = &c
	return nil
}

func (r *MemProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	p, ok := r.store.Products[id]
	if !ok {
		return nil, nil
	}
	c := *p
	return &c, nil
}

func (r *MemProductRepo) GetBySKU(_ context.Context, sku string) (*entity.Product, error) {
	for _, p := range r.store.Products {
		if p.SKU == sku {
			c := *p
			return &c, nil
		}
	}
	return nil, nil
}

func (r *MemProductRepo) Update(_ context.Context, product *entity.Product) error {
	if _, ok := r.store.Products[product.ID]; !ok {
		return domain.ErrProductNotFound
	}
	c := *product
	r.store.Products[product.ID] = &c
	return nil
}

func (r *MemProductRepo) UpdateCost(_ context.Context, id string, cost decimal.Decimal) error {
	p, ok := r.store.Products[id]
	if !ok {
		return domain.ErrProductNotFound
	}
	p.Cost = cost
	return nil
}

func (r *MemProductRepo) List(_ context.Context, limit, offset int) ([]*entity.Product, error) {
	var list []*entity.Product
	for _, p := range r.store.Products {
		c := *p
		list = append(list, &c)
	}
	return paginate(list, limit, offset), nil
}

// MemLocationRepo implementa repository.LocationRepository en memoria.
type MemLocationRepo struct {
	store *MemStore
}

// NewMemLocationRepo construye el repo sobre el store.
func NewMemLocationRepo(store *MemStore) *MemLocationRepo {
	return &MemLocationRepo{store: store}
}

func (r *MemLocationRepo) Create(_ context.Context, location *entity.Location) error {
	for _, l := range r.store.Locations {
		if l.Code == location.Code {
			return domain.ErrDuplicate
		}
	}
	c := *location
	r.store.Locations[location.ID] = &c
	return nil
}

func (r *MemLocationRepo) GetByID(_ context.Context, id string) (*entity.Location, error) {
	l, ok := r.store.Locations[id]
	if !ok {
		return nil, nil
	}
	c := *l
	return &c, nil
}

func (r *MemLocationRepo) Update(_ context.Context, location *entity.Location) error {
	if _, ok := r.store.Locations[location.ID]; !ok {
		return domain.ErrLocationNotFound
	}
	c := *location
	r.store.Locations[location.ID] = &c
	return nil
}

func (r *MemLocationRepo) List(_ context.Context, limit, offset int) ([]*entity.Location, error) {
	var list []*entity.Location
	for _, l := range r.store.Locations {
		c := *l
		list = append(list, &c)
	}
	return paginate(list, limit, offset), nil
}

func paginate[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
