package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/aajcs/backend-taller-template-web-sub003/internal/domain/entity"
	"github.com/aajcs/backend-taller-template-web-sub003/internal/domain/repository"
)

var _ repository.SalesOrderRepository = (*SalesOrderRepo)(nil)

// SalesOrderRepo implementación de SalesOrderRepository sobre PostgreSQL.
// El estado solo se muta vía TransitionState (UPDATE condicional).
type SalesOrderRepo struct {
	q Querier
}

// NewSalesOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSalesOrderRepository(q Querier) *SalesOrderRepo {
	return &SalesOrderRepo{q: q}
}

// Create persiste la orden en borrador junto con sus líneas.
func (r *SalesOrderRepo) Create(ctx context.Context, o *entity.SalesOrder) error {
	insertOrder := `
		INSERT INTO sales_orders (id, estado, warehouse_id, created_at, updated_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5)`
	if _, err := r.q.Exec(ctx, insertOrder, o.ID, o.Estado, o.WarehouseID, o.CreatedAt, o.UpdatedAt); err != nil {
		return fmt.Errorf("create sales order: %w", err)
	}
	insertLine := `
		INSERT INTO sales_order_lines (id, order_id, item_id, qty)
		VALUES ($1, $2, $3, $4)`
	for _, line := range o.Lines {
		if _, err := r.q.Exec(ctx, insertLine, line.ID, o.ID, line.ItemID, line.Qty); err != nil {
			return fmt.Errorf("create sales order line: %w", err)
		}
	}
	return nil
}

// GetByID devuelve la orden con sus líneas, o nil si no existe.
func (r *SalesOrderRepo) GetByID(ctx context.Context, id string) (*entity.SalesOrder, error) {
	query := `
		SELECT id, estado, COALESCE(warehouse_id, ''), created_at, updated_at
		FROM sales_orders WHERE id = $1`
	var o entity.SalesOrder
	err := r.q.QueryRow(ctx, query, id).Scan(&o.ID, &o.Estado, &o.WarehouseID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sales order: %w", err)
	}
	lines, err := r.lines(ctx, id)
	if err != nil {
		return nil, err
	}
	o.Lines = lines
	return &o, nil
}

// List devuelve órdenes ordenadas por creación descendente, opcionalmente
// filtradas por estado. Las líneas se cargan por orden.
func (r *SalesOrderRepo) List(ctx context.Context, estado string, limit, offset int) ([]*entity.SalesOrder, error) {
	query := `
		SELECT id, estado, COALESCE(warehouse_id, ''), created_at, updated_at
		FROM sales_orders
		WHERE ($1 = '' OR estado = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, estado, normalizeLimit(limit), offset)
	if err != nil {
		return nil, fmt.Errorf("list sales orders: %w", err)
	}
	defer rows.Close()
	var out []*entity.SalesOrder
	for rows.Next() {
		var o entity.SalesOrder
		if err := rows.Scan(&o.ID, &o.Estado, &o.WarehouseID, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan sales order: %w", err)
		}
		out = append(out, &o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, o := range out {
		lines, err := r.lines(ctx, o.ID)
		if err != nil {
			return nil, err
		}
		o.Lines = lines
	}
	return out, nil
}

// TransitionState hace CAS sobre el estado: devuelve false si la fila ya no
// estaba en from (carrera perdida o reintento).
func (r *SalesOrderRepo) TransitionState(ctx context.Context, id, from, to string) (bool, error) {
	query := `
		UPDATE sales_orders SET estado = $3, updated_at = now()
		WHERE id = $1 AND estado = $2`
	tag, err := r.q.Exec(ctx, query, id, from, to)
	if err != nil {
		return false, fmt.Errorf("transition sales order: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// SetWarehouse fija la bodega contra la que se confirma la orden.
func (r *SalesOrderRepo) SetWarehouse(ctx context.Context, id, warehouseID string) error {
	query := `UPDATE sales_orders SET warehouse_id = $2, updated_at = now() WHERE id = $1`
	if _, err := r.q.Exec(ctx, query, id, warehouseID); err != nil {
		return fmt.Errorf("set order warehouse: %w", err)
	}
	return nil
}

func (r *SalesOrderRepo) lines(ctx context.Context, orderID string) ([]*entity.SalesOrderLine, error) {
	query := `SELECT id, order_id, item_id, qty FROM sales_order_lines WHERE order_id = $1 ORDER BY id`
	rows, err := r.q.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order lines: %w", err)
	}
	defer rows.Close()
	var out []*entity.SalesOrderLine
	for rows.Next() {
		var l entity.SalesOrderLine
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ItemID, &l.Qty); err != nil {
			return nil, fmt.Errorf("scan order line: %w", err)
		}
		out = append(out, &l)
	}
	return out, rows.Err()
}
