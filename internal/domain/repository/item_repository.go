package repository

import (
	"context"

	"github.com/aajcs/backend-taller-template-web-sub003/internal/domain/entity"
)

// ItemRepository define el puerto de lectura del catálogo de items.
// El catálogo es administrado fuera de este motor; aquí solo se consulta.
type ItemRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Item, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Item, error)
}
