package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/aajcs/backend-taller-template-web-sub003/internal/domain/repository"
)

var _ repository.StockLevelRepository = (*StockLevelRepo)(nil)

// StockLevelRepo modelo de lectura para alertas: items con umbral configurado y
// su stock agregado entre bodegas. Solo lectura, nunca muta stock_records.
type StockLevelRepo struct {
	q Querier
}

func NewStockLevelRepository(q Querier) *StockLevelRepo {
	return &StockLevelRepo{q: q}
}

const levelQuery = `
	SELECT i.id, i.name, i.stock_minimo, i.cost,
	       COALESCE(SUM(s.on_hand), 0), COALESCE(SUM(s.reserved), 0)
	FROM items i
	LEFT JOIN stock_records s ON s.item_id = i.id
	%s
	GROUP BY i.id, i.name, i.stock_minimo, i.cost`

// ListWithMinimum devuelve los items con stock_minimo > 0 y su stock agregado.
func (r *StockLevelRepo) ListWithMinimum(ctx context.Context, limit, offset int) ([]*repository.ItemStockLevel, error) {
	query := fmt.Sprintf(levelQuery, "WHERE i.stock_minimo > 0") + `
	ORDER BY i.name
	LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, normalizeLimit(limit), offset)
	if err != nil {
		return nil, fmt.Errorf("list stock levels: %w", err)
	}
	defer rows.Close()
	var out []*repository.ItemStockLevel
	for rows.Next() {
		var l repository.ItemStockLevel
		if err := rows.Scan(&l.ItemID, &l.Name, &l.StockMinimo, &l.Cost, &l.OnHand, &l.Reserved); err != nil {
			return nil, fmt.Errorf("scan stock level: %w", err)
		}
		out = append(out, &l)
	}
	return out, rows.Err()
}

// GetByItem devuelve el nivel agregado de un item, o nil si no existe.
func (r *StockLevelRepo) GetByItem(ctx context.Context, itemID string) (*repository.ItemStockLevel, error) {
	query := fmt.Sprintf(levelQuery, "WHERE i.id = $1")
	var l repository.ItemStockLevel
	err := r.q.QueryRow(ctx, query, itemID).Scan(
		&l.ItemID, &l.Name, &l.StockMinimo, &l.Cost, &l.OnHand, &l.Reserved,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock level: %w", err)
	}
	return &l, nil
}
