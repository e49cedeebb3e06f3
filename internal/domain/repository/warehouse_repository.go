package repository

import (
	"context"

	"github.com/aajcs/backend-taller-template-web-sub003/internal/domain/entity"
)

// WarehouseRepository define el puerto de lectura de bodegas (dato de referencia).
type WarehouseRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Warehouse, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Warehouse, error)
}
