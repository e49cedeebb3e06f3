package repository

import (
	"context"
	"time"

	"github.com/aajcs/backend-taller-template-web-sub003/internal/domain/entity"
)

// MovementRepository define el puerto del libro mayor de movimientos (append-only).
type MovementRepository interface {
	// Append inserta el movimiento. Si trae clave de idempotencia y ya existe un
	// movimiento con esa clave, devuelve el original con replayed=true sin
	// insertar nada: la detección se apoya en el índice único (no en un chequeo
	// previo) para cerrar la ventana de carrera.
	Append(ctx context.Context, m *entity.Movement) (mov *entity.Movement, replayed bool, err error)

	// GetByIdempotencyKey devuelve el movimiento con esa clave o nil.
	GetByIdempotencyKey(ctx context.Context, key string) (*entity.Movement, error)

	ListByItem(ctx context.Context, itemID string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error)
	ListByWarehouse(ctx context.Context, warehouseID string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error)
}
