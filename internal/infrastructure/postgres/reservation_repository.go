package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/aajcs/backend-taller-template-web-sub003/internal/domain/entity"
	"github.com/aajcs/backend-taller-template-web-sub003/internal/domain/repository"
)

var _ repository.ReservationRepository = (*ReservationRepo)(nil)

// ReservationRepo implementación de ReservationRepository sobre PostgreSQL.
type ReservationRepo struct {
	q Querier
}

// NewReservationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReservationRepository(q Querier) *ReservationRepo {
	return &ReservationRepo{q: q}
}

const reservationColumns = `id, item_id, warehouse_id, qty, estado, origin, order_id, line_id, created_at, updated_at`

func scanReservation(row pgx.Row) (*entity.Reservation, error) {
	var r entity.Reservation
	err := row.Scan(
		&r.ID, &r.ItemID, &r.WarehouseID, &r.Qty, &r.Estado,
		&r.Origin, &r.OrderID, &r.LineID, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// Create persiste una reserva recién creada (estado activo).
func (r *ReservationRepo) Create(ctx context.Context, res *entity.Reservation) error {
	query := `
		INSERT INTO reservations (id, item_id, warehouse_id, qty, estado, origin, order_id, line_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)`
	_, err := r.q.Exec(ctx, query,
		res.ID, res.ItemID, res.WarehouseID, res.Qty, res.Estado,
		res.Origin, res.OrderID, res.LineID, res.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create reservation: %w", err)
	}
	return nil
}

// GetByID devuelve la reserva o nil si no existe.
func (r *ReservationRepo) GetByID(ctx context.Context, id string) (*entity.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`
	res, err := scanReservation(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get reservation: %w", err)
	}
	return res, nil
}

// TransitionFromActivo pasa la reserva de activo a to en un único UPDATE
// condicional. Devuelve nil si la reserva ya no estaba activa: es la compuerta
// de idempotencia de release y consume.
func (r *ReservationRepo) TransitionFromActivo(ctx context.Context, id, to string) (*entity.Reservation, error) {
	query := `
		UPDATE reservations SET estado = $2, updated_at = now()
		WHERE id = $1 AND estado = $3
		RETURNING ` + reservationColumns
	res, err := scanReservation(r.q.QueryRow(ctx, query, id, to, entity.ReservationActivo))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("transition reservation: %w", err)
	}
	return res, nil
}

// ListByOrder devuelve todas las reservas asociadas a una orden.
func (r *ReservationRepo) ListByOrder(ctx context.Context, orderID string) ([]*entity.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE order_id = $1 ORDER BY created_at`
	rows, err := r.q.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	defer rows.Close()
	var out []*entity.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reservation: %w", err)
		}
		out = append(out, res)
	}
	return out, rows.Err()
}
