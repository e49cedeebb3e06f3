package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/aajcs/backend-taller-template-web-sub003/internal/domain/entity"
	"github.com/aajcs/backend-taller-template-web-sub003/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación de MovementRepository sobre PostgreSQL. La tabla
// es append-only: no hay UPDATE ni DELETE sobre movements.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// idempotency_key es NULL cuando el movimiento no trae clave (el índice único es parcial).
const movementColumns = `id, tipo, item_id, qty, unit_cost, warehouse_from, warehouse_to,
	reservation_id, COALESCE(idempotency_key, ''), resultado_cantidad, resultado_reservado, created_at`

func scanMovement(row pgx.Row) (*entity.Movement, error) {
	var m entity.Movement
	err := row.Scan(
		&m.ID, &m.Tipo, &m.ItemID, &m.Qty, &m.UnitCost, &m.WarehouseFrom, &m.WarehouseTo,
		&m.ReservationID, &m.IdempotencyKey, &m.ResultadoCantidad, &m.ResultadoReservado, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Append inserta el movimiento. La idempotencia se apoya en el índice único
// parcial sobre idempotency_key: ante una violación se devuelve el movimiento
// original con replayed=true, sin ventana de carrera entre chequeo e inserción.
func (r *MovementRepo) Append(ctx context.Context, m *entity.Movement) (*entity.Movement, bool, error) {
	query := `
		INSERT INTO movements (id, tipo, item_id, qty, unit_cost, warehouse_from, warehouse_to,
			reservation_id, idempotency_key, resultado_cantidad, resultado_reservado, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, ''), $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.Tipo, m.ItemID, m.Qty, m.UnitCost, m.WarehouseFrom, m.WarehouseTo,
		m.ReservationID, m.IdempotencyKey, m.ResultadoCantidad, m.ResultadoReservado, m.CreatedAt,
	)
	if err == nil {
		return m, false, nil
	}
	if m.IdempotencyKey != "" && isUniqueViolation(err) {
		original, gerr := r.GetByIdempotencyKey(ctx, m.IdempotencyKey)
		if gerr != nil {
			return nil, false, gerr
		}
		if original != nil {
			return original, true, nil
		}
	}
	return nil, false, fmt.Errorf("append movement: %w", err)
}

// GetByIdempotencyKey devuelve el movimiento con esa clave o nil.
func (r *MovementRepo) GetByIdempotencyKey(ctx context.Context, key string) (*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM movements WHERE idempotency_key = $1`
	m, err := scanMovement(r.q.QueryRow(ctx, query, key))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement by key: %w", err)
	}
	return m, nil
}

// ListByItem devuelve los movimientos de un item, más recientes primero, con
// filtro opcional por rango de fechas.
func (r *MovementRepo) ListByItem(ctx context.Context, itemID string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM movements
		WHERE item_id = $1
		  AND ($2::timestamptz IS NULL OR created_at >= $2)
		  AND ($3::timestamptz IS NULL OR created_at < $3)
		ORDER BY created_at DESC
		LIMIT $4 OFFSET $5`
	return r.list(ctx, query, itemID, from, to, limit, offset)
}

// ListByWarehouse devuelve los movimientos que tocan una bodega (origen o destino).
func (r *MovementRepo) ListByWarehouse(ctx context.Context, warehouseID string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM movements
		WHERE (warehouse_from = $1 OR warehouse_to = $1)
		  AND ($2::timestamptz IS NULL OR created_at >= $2)
		  AND ($3::timestamptz IS NULL OR created_at < $3)
		ORDER BY created_at DESC
		LIMIT $4 OFFSET $5`
	return r.list(ctx, query, warehouseID, from, to, limit, offset)
}

func (r *MovementRepo) list(ctx context.Context, query, id string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error) {
	rows, err := r.q.Query(ctx, query, id, from, to, normalizeLimit(limit), offset)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var out []*entity.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
