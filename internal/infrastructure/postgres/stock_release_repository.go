package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/NextWave-98/api-sub002/internal/domain"
	"github.com/NextWave-98/api-sub002/internal/domain/entity"
	"github.com/NextWave-98/api-sub002/internal/domain/repository"
)

var _ repository.StockReleaseRepository = (*StockReleaseRepo)(nil)

const releaseColumns = `id, release_number, type, status, from_location_id, to_location_id,
	requested_by, approved_by, released_by, received_by,
	requested_at, approved_at, released_at, received_at,
	notes, created_at, updated_at`

// StockReleaseRepo implementación del flujo de liberaciones sobre PostgreSQL.
type StockReleaseRepo struct {
	q Querier
}

// NewStockReleaseRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockReleaseRepository(q Querier) *StockReleaseRepo {
	return &StockReleaseRepo{q: q}
}

// Create persiste cabecera y líneas. Se asume que el llamador está dentro de una tx.
func (r *StockReleaseRepo) Create(ctx context.Context, release *entity.StockRelease) error {
	if release.ID == "" {
		release.ID = uuid.NewString()
	}
	query := `
		INSERT INTO stock_releases
			(id, release_number, type, status, from_location_id, to_location_id,
			 requested_by, requested_at, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8, $9, now(), now())`
	_, err := r.q.Exec(ctx, query,
		release.ID, release.ReleaseNumber, release.Type, release.Status,
		release.FromLocationID, release.ToLocationID,
		release.RequestedBy, release.RequestedAt, release.Notes,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: número de liberación %s", domain.ErrDuplicate, release.ReleaseNumber)
		}
		return fmt.Errorf("create stock release: %w", err)
	}

	itemQuery := `
		INSERT INTO stock_release_items
			(id, release_id, product_id, requested_quantity, batch_number, serial_number, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	for _, item := range release.Items {
		if item.ID == "" {
			item.ID = uuid.NewString()
		}
		item.ReleaseID = release.ID
		if _, err := r.q.Exec(ctx, itemQuery,
			item.ID, item.ReleaseID, item.ProductID, item.RequestedQuantity,
			item.BatchNumber, item.SerialNumber, item.Notes,
		); err != nil {
			return fmt.Errorf("create stock release item: %w", err)
		}
	}
	return nil
}

func scanRelease(row pgx.Row) (*entity.StockRelease, error) {
	var rel entity.StockRelease
	var toLocation, approvedBy, releasedBy, receivedBy *string
	err := row.Scan(
		&rel.ID, &rel.ReleaseNumber, &rel.Type, &rel.Status,
		&rel.FromLocationID, &toLocation,
		&rel.RequestedBy, &approvedBy, &releasedBy, &receivedBy,
		&rel.RequestedAt, &rel.ApprovedAt, &rel.ReleasedAt, &rel.ReceivedAt,
		&rel.Notes, &rel.CreatedAt, &rel.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if toLocation != nil {
		rel.ToLocationID = *toLocation
	}
	if approvedBy != nil {
		rel.ApprovedBy = *approvedBy
	}
	if releasedBy != nil {
		rel.ReleasedBy = *releasedBy
	}
	if receivedBy != nil {
		rel.ReceivedBy = *receivedBy
	}
	return &rel, nil
}

func (r *StockReleaseRepo) loadItems(ctx context.Context, release *entity.StockRelease) error {
	query := `
		SELECT id, release_id, product_id, requested_quantity, released_quantity,
		       batch_number, serial_number, notes
		FROM stock_release_items
		WHERE release_id = $1
		ORDER BY product_id`
	rows, err := r.q.Query(ctx, query, release.ID)
	if err != nil {
		return fmt.Errorf("load release items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var item entity.StockReleaseItem
		if err := rows.Scan(
			&item.ID, &item.ReleaseID, &item.ProductID,
			&item.RequestedQuantity, &item.ReleasedQuantity,
			&item.BatchNumber, &item.SerialNumber, &item.Notes,
		); err != nil {
			return fmt.Errorf("scan release item: %w", err)
		}
		release.Items = append(release.Items, &item)
	}
	return rows.Err()
}

// GetByID devuelve la liberación con sus líneas, o nil si no existe.
func (r *StockReleaseRepo) GetByID(ctx context.Context, id string) (*entity.StockRelease, error) {
	query := fmt.Sprintf(`SELECT %s FROM stock_releases WHERE id = $1`, releaseColumns)
	rel, err := scanRelease(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock release: %w", err)
	}
	if err := r.loadItems(ctx, rel); err != nil {
		return nil, err
	}
	return rel, nil
}

// GetByIDForUpdate bloquea la cabecera (SELECT FOR UPDATE) para serializar
// liberar/recibir sobre la misma liberación.
func (r *StockReleaseRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.StockRelease, error) {
	query := fmt.Sprintf(`SELECT %s FROM stock_releases WHERE id = $1 FOR UPDATE`, releaseColumns)
	rel, err := scanRelease(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock release for update: %w", err)
	}
	if err := r.loadItems(ctx, rel); err != nil {
		return nil, err
	}
	return rel, nil
}

// NextReleaseNumber devuelve el siguiente consecutivo del documento.
func (r *StockReleaseRepo) NextReleaseNumber(ctx context.Context) (int64, error) {
	var n int64
	err := r.q.QueryRow(ctx, `SELECT nextval('stock_release_number_seq')`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("next release number: %w", err)
	}
	return n, nil
}

// UpdateStatus hace compare-and-swap sobre el estado: UPDATE ... WHERE status = from.
// Devuelve false si otra transacción ganó la carrera o la liberación no existe.
// Según el estado destino se fijan las columnas de auditoría correspondientes.
func (r *StockReleaseRepo) UpdateStatus(ctx context.Context, id string, from, to entity.ReleaseStatus, patch repository.StatusPatch) (bool, error) {
	set := "status = $1, updated_at = now()"
	args := []any{to}
	pos := 2

	switch to {
	case entity.ReleaseApproved:
		set += fmt.Sprintf(", approved_by = $%d, approved_at = $%d", pos, pos+1)
		args = append(args, patch.Actor, patch.At)
		pos += 2
	case entity.ReleaseReleased:
		set += fmt.Sprintf(", released_by = $%d, released_at = $%d", pos, pos+1)
		args = append(args, patch.Actor, patch.At)
		pos += 2
	case entity.ReleaseReceived:
		set += fmt.Sprintf(", received_by = $%d, received_at = $%d", pos, pos+1)
		args = append(args, patch.Actor, patch.At)
		pos += 2
	}
	if patch.Notes != "" {
		// La nota de la transición se agrega; la nota original del solicitante se conserva.
		set += fmt.Sprintf(", notes = concat_ws(E'\n', NULLIF(notes, ''), $%d::text)", pos)
		args = append(args, patch.Notes)
		pos++
	}

	query := fmt.Sprintf(`UPDATE stock_releases SET %s WHERE id = $%d AND status = $%d`, set, pos, pos+1)
	args = append(args, id, from)

	tag, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("update release status: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// SetItemReleasedQuantity fija la cantidad liberada de una línea una única vez.
// Devuelve false si la línea ya había sido liberada o no existe.
func (r *StockReleaseRepo) SetItemReleasedQuantity(ctx context.Context, itemID string, quantity int64) (bool, error) {
	query := `
		UPDATE stock_release_items
		SET released_quantity = $1
		WHERE id = $2 AND released_quantity IS NULL`
	tag, err := r.q.Exec(ctx, query, quantity, itemID)
	if err != nil {
		return false, fmt.Errorf("set item released quantity: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *StockReleaseRepo) listReleases(ctx context.Context, query string, args ...any) ([]*entity.StockRelease, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock releases: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockRelease
	for rows.Next() {
		rel, err := scanRelease(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock release: %w", err)
		}
		list = append(list, rel)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, rel := range list {
		if err := r.loadItems(ctx, rel); err != nil {
			return nil, err
		}
	}
	return list, nil
}

// ListByStatus lista liberaciones por estado, de la más reciente a la más antigua.
func (r *StockReleaseRepo) ListByStatus(ctx context.Context, status entity.ReleaseStatus, limit, offset int) ([]*entity.StockRelease, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM stock_releases
		WHERE status = $1
		ORDER BY requested_at DESC
		LIMIT $2 OFFSET $3`, releaseColumns)
	return r.listReleases(ctx, query, status, limit, offset)
}

// ListByLocation lista liberaciones que tocan una ubicación (origen o destino).
func (r *StockReleaseRepo) ListByLocation(ctx context.Context, locationID string, limit, offset int) ([]*entity.StockRelease, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM stock_releases
		WHERE from_location_id = $1 OR to_location_id = $1
		ORDER BY requested_at DESC
		LIMIT $2 OFFSET $3`, releaseColumns)
	return r.listReleases(ctx, query, locationID, limit, offset)
}
