// Package stock implementa el motor de reservas y el libro mayor de movimientos:
// toda mutación de stock es un único UPDATE condicional atómico sobre un
// StockRecord más un efecto secundario idempotente (movimiento con clave única,
// escritura de estado de reserva). No se usa ninguna transacción multi-registro.
package stock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/aajcs/backend-taller-template-web-sub003/internal/domain"
	"github.com/aajcs/backend-taller-template-web-sub003/internal/domain/entity"
	"github.com/aajcs/backend-taller-template-web-sub003/internal/domain/repository"
	"github.com/aajcs/backend-taller-template-web-sub003/pkg/metrics"
)

// MovementRecorder agrega filas inmutables al libro mayor de movimientos.
// Con clave de idempotencia, un replay devuelve el movimiento original sin
// efectos adicionales.
type MovementRecorder struct {
	movements repository.MovementRepository
}

// NewMovementRecorder construye el recorder.
func NewMovementRecorder(movements repository.MovementRepository) *MovementRecorder {
	return &MovementRecorder{movements: movements}
}

// AppendInput datos para agregar un movimiento al libro mayor.
type AppendInput struct {
	Tipo           string
	ItemID         string
	Qty            int64
	UnitCost       decimal.Decimal
	WarehouseFrom  string
	WarehouseTo    string
	ReservationID  string
	IdempotencyKey string // "" = sin clave (no reintentable)
	// Fotografía del StockRecord ya ajustado.
	ResultadoCantidad  int64
	ResultadoReservado int64
}

// Append agrega el movimiento. Si la clave de idempotencia ya fue usada,
// devuelve el movimiento original y replayed=true: el caller sabe que el efecto
// de stock de este reintento debe deshacerse o ya estaba hecho.
func (rec *MovementRecorder) Append(ctx context.Context, in AppendInput) (*entity.Movement, bool, error) {
	if !entity.ValidMovementType(in.Tipo) || in.ItemID == "" || in.Qty < 0 {
		return nil, false, domain.ErrInvalidInput
	}

	m := &entity.Movement{
		ID:                 uuid.New().String(),
		Tipo:               in.Tipo,
		ItemID:             in.ItemID,
		Qty:                in.Qty,
		UnitCost:           in.UnitCost,
		WarehouseFrom:      in.WarehouseFrom,
		WarehouseTo:        in.WarehouseTo,
		ReservationID:      in.ReservationID,
		IdempotencyKey:     in.IdempotencyKey,
		ResultadoCantidad:  in.ResultadoCantidad,
		ResultadoReservado: in.ResultadoReservado,
		CreatedAt:          time.Now().UTC(),
	}

	mov, replayed, err := rec.movements.Append(ctx, m)
	if err != nil {
		return nil, false, err
	}
	if replayed {
		metrics.MovementsReplayed.Inc()
		return mov, true, nil
	}
	metrics.MovementsAppended.WithLabelValues(in.Tipo).Inc()
	return mov, false, nil
}

// FindByKey devuelve el movimiento con esa clave de idempotencia, o nil.
func (rec *MovementRecorder) FindByKey(ctx context.Context, key string) (*entity.Movement, error) {
	if key == "" {
		return nil, nil
	}
	return rec.movements.GetByIdempotencyKey(ctx, key)
}
