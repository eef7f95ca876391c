package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/NextWave-98/api-sub002/internal/domain/entity"
	"github.com/NextWave-98/api-sub002/internal/domain/repository"
)

var _ repository.InventoryRepository = (*InventoryRepo)(nil)

const inventoryColumns = `id, product_id, location_id, quantity, reserved_quantity,
	available_quantity, min_stock_level, max_stock_level, reorder_level, created_at, updated_at`

// InventoryRepo implementación de InventoryRepository sobre PostgreSQL (usable con pool o tx).
type InventoryRepo struct {
	q Querier
}

// NewInventoryRepository construye el adaptador de inventario. Pasar pool o tx (Querier).
func NewInventoryRepository(q Querier) *InventoryRepo {
	return &InventoryRepo{q: q}
}

func scanInventoryRecord(row pgx.Row) (*entity.InventoryRecord, error) {
	var r entity.InventoryRecord
	err := row.Scan(
		&r.ID, &r.ProductID, &r.LocationID, &r.Quantity, &r.ReservedQuantity,
		&r.AvailableQuantity, &r.MinStockLevel, &r.MaxStockLevel, &r.ReorderLevel,
		&r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// Find devuelve la fila de inventario o nil si no existe.
func (r *InventoryRepo) Find(ctx context.Context, productID, locationID string) (*entity.InventoryRecord, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM inventory_records
		WHERE product_id = $1 AND location_id = $2`, inventoryColumns)
	rec, err := scanInventoryRecord(r.q.QueryRow(ctx, query, productID, locationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find inventory record: %w", err)
	}
	return rec, nil
}

// GetForUpdate bloquea la fila (SELECT FOR UPDATE). Si no existe la materializa
// primero en cero con ON CONFLICT DO NOTHING y recién entonces la bloquea: dos
// transacciones que estrenan el mismo par (producto, ubicación) compiten por el
// mismo candado de fila en vez de leer cada una un cero sin bloquear y pisarse
// las cantidades al confirmar.
func (r *InventoryRepo) GetForUpdate(ctx context.Context, productID, locationID string) (*entity.InventoryRecord, error) {
	insert := `
		INSERT INTO inventory_records
			(id, product_id, location_id, quantity, reserved_quantity, available_quantity,
			 min_stock_level, max_stock_level, reorder_level, created_at, updated_at)
		VALUES ($1, $2, $3, 0, 0, 0, 0, 0, 0, now(), now())
		ON CONFLICT (product_id, location_id) DO NOTHING`
	if _, err := r.q.Exec(ctx, insert, uuid.NewString(), productID, locationID); err != nil {
		return nil, fmt.Errorf("materialize inventory record: %w", err)
	}
	query := fmt.Sprintf(`
		SELECT %s FROM inventory_records
		WHERE product_id = $1 AND location_id = $2
		FOR UPDATE`, inventoryColumns)
	rec, err := scanInventoryRecord(r.q.QueryRow(ctx, query, productID, locationID))
	if err != nil {
		return nil, fmt.Errorf("get inventory record for update: %w", err)
	}
	return rec, nil
}

// Upsert inserta o actualiza cantidades por (producto, ubicación).
func (r *InventoryRepo) Upsert(ctx context.Context, record *entity.InventoryRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	query := `
		INSERT INTO inventory_records
			(id, product_id, location_id, quantity, reserved_quantity, available_quantity,
			 min_stock_level, max_stock_level, reorder_level, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now(), now())
		ON CONFLICT (product_id, location_id)
		DO UPDATE SET
			quantity = EXCLUDED.quantity,
			reserved_quantity = EXCLUDED.reserved_quantity,
			available_quantity = EXCLUDED.available_quantity,
			updated_at = now()`
	_, err := r.q.Exec(ctx, query,
		record.ID, record.ProductID, record.LocationID,
		record.Quantity, record.ReservedQuantity, record.AvailableQuantity,
		record.MinStockLevel, record.MaxStockLevel, record.ReorderLevel,
	)
	if err != nil {
		return fmt.Errorf("upsert inventory record: %w", err)
	}
	return nil
}

// ListByLocation lista el inventario de una ubicación.
func (r *InventoryRepo) ListByLocation(ctx context.Context, locationID string, limit, offset int) ([]*entity.InventoryRecord, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM inventory_records
		WHERE location_id = $1
		ORDER BY product_id
		LIMIT $2 OFFSET $3`, inventoryColumns)
	rows, err := r.q.Query(ctx, query, locationID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list inventory by location: %w", err)
	}
	defer rows.Close()
	return collectInventoryRecords(rows)
}

// ListByProduct lista el inventario de un producto en todas las ubicaciones.
func (r *InventoryRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.InventoryRecord, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM inventory_records
		WHERE product_id = $1
		ORDER BY location_id`, inventoryColumns)
	rows, err := r.q.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("list inventory by product: %w", err)
	}
	defer rows.Close()
	return collectInventoryRecords(rows)
}

// ListBelowReorderLevel lista filas en o bajo su punto de reorden (señal de compra).
// reorder_level en cero desactiva la señal.
func (r *InventoryRepo) ListBelowReorderLevel(ctx context.Context, locationID string) ([]*entity.InventoryRecord, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM inventory_records
		WHERE reorder_level > 0 AND quantity <= reorder_level`, inventoryColumns)
	args := []any{}
	if locationID != "" {
		query += " AND location_id = $1"
		args = append(args, locationID)
	}
	query += " ORDER BY location_id, product_id"

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list below reorder level: %w", err)
	}
	defer rows.Close()
	return collectInventoryRecords(rows)
}

func collectInventoryRecords(rows pgx.Rows) ([]*entity.InventoryRecord, error) {
	var list []*entity.InventoryRecord
	for rows.Next() {
		rec, err := scanInventoryRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inventory record: %w", err)
		}
		list = append(list, rec)
	}
	return list, rows.Err()
}
