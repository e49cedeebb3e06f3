package repository

import (
	"context"

	"github.com/aajcs/backend-taller-template-web-sub003/internal/domain/entity"
)

// ReservationRepository define el puerto de persistencia para reservas.
type ReservationRepository interface {
	Create(ctx context.Context, r *entity.Reservation) error
	GetByID(ctx context.Context, id string) (*entity.Reservation, error)

	// TransitionFromActivo hace CAS sobre el estado de la reserva:
	// UPDATE ... SET estado = to WHERE id = $1 AND estado = 'activo'.
	// Devuelve la reserva actualizada, o nil si la reserva ya no estaba activa
	// (otro caller ganó la carrera o ya era terminal). Es la compuerta de
	// idempotencia de release/consume.
	TransitionFromActivo(ctx context.Context, id, to string) (*entity.Reservation, error)

	// ListByOrder devuelve todas las reservas asociadas a una orden.
	ListByOrder(ctx context.Context, orderID string) ([]*entity.Reservation, error)
}
