package repository

import (
	"context"

	"github.com/aajcs/backend-taller-template-web-sub003/internal/domain/entity"
)

// StockRecordRepository define el puerto del libro de stock: una fila por
// (item, bodega) mutada únicamente mediante TryAdjust.
type StockRecordRepository interface {
	// Get devuelve el registro o nil si no existe.
	Get(ctx context.Context, itemID, warehouseID string) (*entity.StockRecord, error)

	// GetOrCreate devuelve el registro, creándolo en cero si no existe
	// (creación perezosa con el primer movimiento hacia la bodega).
	GetOrCreate(ctx context.Context, itemID, warehouseID string) (*entity.StockRecord, error)

	// TryAdjust aplica onHandDelta y reservedDelta en un único UPDATE condicional
	// atómico. La precondición (0 <= reserved' <= onHand' tras aplicar) vive en el
	// WHERE: si no se cumple al momento de aplicar, no se modifica nada y se
	// devuelve domain.ErrStaleWrite; si el registro no existe, domain.ErrNotFound.
	// Nunca bloquea más de un registro.
	TryAdjust(ctx context.Context, itemID, warehouseID string, onHandDelta, reservedDelta int64) (*entity.StockRecord, error)

	// TotalsByItem suma onHand y reserved de un item entre todas las bodegas.
	TotalsByItem(ctx context.Context, itemID string) (onHand, reserved int64, err error)

	// ListByWarehouse devuelve los registros de una bodega paginados por item.
	ListByWarehouse(ctx context.Context, warehouseID string, limit, offset int) ([]*entity.StockRecord, error)
}
