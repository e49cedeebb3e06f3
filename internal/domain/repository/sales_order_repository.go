package repository

import (
	"context"

	"github.com/aajcs/backend-taller-template-web-sub003/internal/domain/entity"
)

// SalesOrderRepository define el puerto de persistencia para órdenes de venta.
type SalesOrderRepository interface {
	// Create persiste la orden en borrador junto con sus líneas.
	Create(ctx context.Context, o *entity.SalesOrder) error

	// GetByID devuelve la orden con sus líneas, o nil si no existe.
	GetByID(ctx context.Context, id string) (*entity.SalesOrder, error)

	// List devuelve órdenes, opcionalmente filtradas por estado ("" = todas).
	List(ctx context.Context, estado string, limit, offset int) ([]*entity.SalesOrder, error)

	// TransitionState hace CAS sobre el estado de la orden:
	// UPDATE ... SET estado = to WHERE id = $1 AND estado = from.
	// Devuelve false si el estado ya no era from (carrera perdida o replay).
	TransitionState(ctx context.Context, id, from, to string) (bool, error)

	// SetWarehouse fija la bodega contra la que se confirma la orden.
	SetWarehouse(ctx context.Context, id, warehouseID string) error
}
