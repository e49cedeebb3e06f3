package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/aajcs/backend-taller-template-web-sub003/internal/domain"
	"github.com/aajcs/backend-taller-template-web-sub003/internal/domain/entity"
	"github.com/aajcs/backend-taller-template-web-sub003/internal/domain/repository"
)

var _ repository.StockRecordRepository = (*StockRecordRepo)(nil)

// StockRecordRepo implementación de StockRecordRepository sobre PostgreSQL.
// Toda mutación pasa por TryAdjust: un único UPDATE condicional por registro,
// sin SELECT FOR UPDATE ni transacciones multi-fila.
type StockRecordRepo struct {
	q Querier
}

// NewStockRecordRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockRecordRepository(q Querier) *StockRecordRepo {
	return &StockRecordRepo{q: q}
}

// Get devuelve el registro de stock de un item en una bodega, o nil si no existe.
func (r *StockRecordRepo) Get(ctx context.Context, itemID, warehouseID string) (*entity.StockRecord, error) {
	query := `
		SELECT item_id, warehouse_id, on_hand, reserved, bin, updated_at
		FROM stock_records WHERE item_id = $1 AND warehouse_id = $2`
	var s entity.StockRecord
	err := r.q.QueryRow(ctx, query, itemID, warehouseID).Scan(
		&s.ItemID, &s.WarehouseID, &s.OnHand, &s.Reserved, &s.Bin, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock record: %w", err)
	}
	return &s, nil
}

// GetOrCreate devuelve el registro, creándolo en cero si no existe. El INSERT
// usa ON CONFLICT DO NOTHING: dos callers concurrentes convergen en la misma fila.
func (r *StockRecordRepo) GetOrCreate(ctx context.Context, itemID, warehouseID string) (*entity.StockRecord, error) {
	insert := `
		INSERT INTO stock_records (item_id, warehouse_id, on_hand, reserved, updated_at)
		VALUES ($1, $2, 0, 0, now())
		ON CONFLICT (item_id, warehouse_id) DO NOTHING`
	if _, err := r.q.Exec(ctx, insert, itemID, warehouseID); err != nil {
		return nil, fmt.Errorf("create stock record: %w", err)
	}
	rec, err := r.Get(ctx, itemID, warehouseID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, fmt.Errorf("stock record %s/%s: %w", itemID, warehouseID, domain.ErrNotFound)
	}
	return rec, nil
}

// TryAdjust aplica ambos deltas en un único UPDATE condicional. La precondición
// (0 <= reserved' <= onHand') vive en el WHERE: si la fila actual no la cumple
// al momento de aplicar, el UPDATE no toca nada y se devuelve ErrStaleWrite.
func (r *StockRecordRepo) TryAdjust(ctx context.Context, itemID, warehouseID string, onHandDelta, reservedDelta int64) (*entity.StockRecord, error) {
	query := `
		UPDATE stock_records
		SET on_hand = on_hand + $3, reserved = reserved + $4, updated_at = now()
		WHERE item_id = $1 AND warehouse_id = $2
		  AND on_hand + $3 >= 0
		  AND reserved + $4 >= 0
		  AND reserved + $4 <= on_hand + $3
		RETURNING item_id, warehouse_id, on_hand, reserved, bin, updated_at`
	var s entity.StockRecord
	err := r.q.QueryRow(ctx, query, itemID, warehouseID, onHandDelta, reservedDelta).Scan(
		&s.ItemID, &s.WarehouseID, &s.OnHand, &s.Reserved, &s.Bin, &s.UpdatedAt,
	)
	if err == nil {
		return &s, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("adjust stock record: %w", err)
	}
	// Cero filas: distinguir registro inexistente de precondición fallida.
	existing, gerr := r.Get(ctx, itemID, warehouseID)
	if gerr != nil {
		return nil, gerr
	}
	if existing == nil {
		return nil, domain.ErrNotFound
	}
	return nil, domain.ErrStaleWrite
}

// TotalsByItem suma onHand y reserved de un item entre todas las bodegas.
func (r *StockRecordRepo) TotalsByItem(ctx context.Context, itemID string) (int64, int64, error) {
	query := `
		SELECT COALESCE(SUM(on_hand), 0), COALESCE(SUM(reserved), 0)
		FROM stock_records WHERE item_id = $1`
	var onHand, reserved int64
	if err := r.q.QueryRow(ctx, query, itemID).Scan(&onHand, &reserved); err != nil {
		return 0, 0, fmt.Errorf("totals by item: %w", err)
	}
	return onHand, reserved, nil
}

// ListByWarehouse devuelve los registros de stock de una bodega.
func (r *StockRecordRepo) ListByWarehouse(ctx context.Context, warehouseID string, limit, offset int) ([]*entity.StockRecord, error) {
	query := `
		SELECT item_id, warehouse_id, on_hand, reserved, bin, updated_at
		FROM stock_records WHERE warehouse_id = $1
		ORDER BY item_id
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, warehouseID, normalizeLimit(limit), offset)
	if err != nil {
		return nil, fmt.Errorf("list stock records: %w", err)
	}
	defer rows.Close()
	var out []*entity.StockRecord
	for rows.Next() {
		var s entity.StockRecord
		if err := rows.Scan(&s.ItemID, &s.WarehouseID, &s.OnHand, &s.Reserved, &s.Bin, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock record: %w", err)
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}

func normalizeLimit(limit int) int {
	if limit <= 0 || limit > 500 {
		return 100
	}
	return limit
}
