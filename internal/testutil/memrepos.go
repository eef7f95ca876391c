// Package testutil provee repositorios en memoria y un TxRunner con
// semántica de rollback por snapshot, para probar los casos de uso sin PostgreSQL.
package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/NextWave-98/api-sub002/internal/domain/entity"
	"github.com/NextWave-98/api-sub002/internal/domain/repository"
)

// MemStore estado compartido de los repositorios en memoria.
type MemStore struct {
	mu         sync.Mutex
	Products   map[string]*entity.Product
	Locations  map[string]*entity.Location
	Inventory  map[string]*entity.InventoryRecord // key: productID|locationID
	Movements  []*entity.StockMovement
	Releases   map[string]*entity.StockRelease
	releaseSeq int64
}

// NewMemStore crea un store vacío.
func NewMemStore() *MemStore {
	return &MemStore{
		Products:  make(map[string]*entity.Product),
		Locations: make(map[string]*entity.Location),
		Inventory: make(map[string]*entity.InventoryRecord),
		Releases:  make(map[string]*entity.StockRelease),
	}
}

func invKey(productID, locationID string) string { return productID + "|" + locationID }

// SeedProduct registra un producto con ID dado.
func (s *MemStore) SeedProduct(id, sku, name string) *entity.Product {
	p := &entity.Product{ID: id, SKU: sku, Name: name, IsActive: true, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	s.Products[id] = p
	return p
}

// SeedLocation registra una ubicación con ID dado.
func (s *MemStore) SeedLocation(id, code, name string) *entity.Location {
	l := &entity.Location{ID: id, Code: code, Name: name, IsActive: true, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	s.Locations[id] = l
	return l
}

// SeedInventory deja una fila de inventario con la cantidad dada.
func (s *MemStore) SeedInventory(productID, locationID string, quantity, reserved int64) *entity.InventoryRecord {
	rec := &entity.InventoryRecord{
		ID:                uuid.NewString(),
		ProductID:         productID,
		LocationID:        locationID,
		Quantity:          quantity,
		ReservedQuantity:  reserved,
		AvailableQuantity: quantity - reserved,
		CreatedAt:         time.Now(),
		UpdatedAt:         time.Now(),
	}
	s.Inventory[invKey(productID, locationID)] = rec
	return rec
}

// Record devuelve la fila de inventario actual o nil.
func (s *MemStore) Record(productID, locationID string) *entity.InventoryRecord {
	return s.Inventory[invKey(productID, locationID)]
}

// snapshot copia profunda del estado mutable (el consecutivo no se restaura,
// igual que una secuencia de Postgres).
type snapshot struct {
	inventory map[string]*entity.InventoryRecord
	movements []*entity.StockMovement
	releases  map[string]*entity.StockRelease
	products  map[string]*entity.Product
}

func copyRecord(r *entity.InventoryRecord) *entity.InventoryRecord {
	c := *r
	return &c
}

func copyRelease(r *entity.StockRelease) *entity.StockRelease {
	c := *r
	c.Items = make([]*entity.StockReleaseItem, 0, len(r.Items))
	for _, item := range r.Items {
		ci := *item
		if item.ReleasedQuantity != nil {
			q := *item.ReleasedQuantity
			ci.ReleasedQuantity = &q
		}
		c.Items = append(c.Items, &ci)
	}
	return &c
}

func (s *MemStore) take() snapshot {
	snap := snapshot{
		inventory: make(map[string]*entity.InventoryRecord, len(s.Inventory)),
		movements: append([]*entity.StockMovement(nil), s.Movements...),
		releases:  make(map[string]*entity.StockRelease, len(s.Releases)),
		products:  make(map[string]*entity.Product, len(s.Products)),
	}
	for k, v := range s.Inventory {
		snap.inventory[k] = copyRecord(v)
	}
	for k, v := range s.Releases {
		snap.releases[k] = copyRelease(v)
	}
	for k, v := range s.Products {
		c := *v
		snap.products[k] = &c
	}
	return snap
}

func (s *MemStore) restore(snap snapshot) {
	s.Inventory = snap.inventory
	s.Movements = snap.movements
	s.Releases = snap.releases
	s.Products = snap.products
}

// ── TxRunner ──────────────────────────────────────────────────────────────────

// MemTxRunner implementa inventory.TxRunner sobre el MemStore: toma un snapshot
// al entrar y lo restaura si fn devuelve error (rollback).
type MemTxRunner struct {
	Store *MemStore
}

// NewMemTxRunner construye el runner.
func NewMemTxRunner(store *MemStore) *MemTxRunner {
	return &MemTxRunner{Store: store}
}

// Run ejecuta fn con repos atados al store; error = rollback total.
func (r *MemTxRunner) Run(ctx context.Context, fn func(
	invRepo repository.InventoryRepository,
	movRepo repository.MovementRepository,
	releaseRepo repository.StockReleaseRepository,
	productRepo repository.ProductRepository,
) error) error {
	r.Store.mu.Lock()
	defer r.Store.mu.Unlock()

	snap := r.Store.take()
	err := fn(
		&MemInventoryRepo{store: r.Store},
		&MemMovementRepo{store: r.Store},
		&MemStockReleaseRepo{store: r.Store},
		&MemProductRepo{store: r.Store},
	)
	if err != nil {
		r.Store.restore(snap)
		return err
	}
	return nil
}
