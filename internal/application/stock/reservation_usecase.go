package stock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/aajcs/backend-taller-template-web-sub003/internal/domain"
	"github.com/aajcs/backend-taller-template-web-sub003/internal/domain/entity"
	"github.com/aajcs/backend-taller-template-web-sub003/internal/domain/repository"
	"github.com/aajcs/backend-taller-template-web-sub003/pkg/metrics"
)

// ReservationUseCase gestiona el ciclo de vida de las reservas contra el libro
// de stock. Orden de escrituras:
//
//   - reserve: ajuste atómico del StockRecord primero (es el chequeo de
//     disponible), luego la reserva en "activo".
//   - release/consume: CAS del estado de la reserva primero (compuerta de
//     idempotencia), luego el ajuste del StockRecord y, en consume, el
//     movimiento con clave de idempotencia.
type ReservationUseCase struct {
	stockRepo       repository.StockRecordRepository
	reservationRepo repository.ReservationRepository
	itemRepo        repository.ItemRepository
	warehouseRepo   repository.WarehouseRepository
	recorder        *MovementRecorder
}

// NewReservationUseCase construye el caso de uso.
func NewReservationUseCase(
	stockRepo repository.StockRecordRepository,
	reservationRepo repository.ReservationRepository,
	itemRepo repository.ItemRepository,
	warehouseRepo repository.WarehouseRepository,
	recorder *MovementRecorder,
) *ReservationUseCase {
	return &ReservationUseCase{
		stockRepo:       stockRepo,
		reservationRepo: reservationRepo,
		itemRepo:        itemRepo,
		warehouseRepo:   warehouseRepo,
		recorder:        recorder,
	}
}

// ReserveInput datos para crear una reserva.
type ReserveInput struct {
	ItemID      string
	WarehouseID string
	Qty         int64
	Origin      string // referencia de origen, ej. "orden:<id>"
	OrderID     string
	LineID      string
}

// Reserve chequea disponible >= qty e incrementa reserved en un único paso
// atómico; si gana la carrera persiste la reserva en "activo". Ante disponible
// insuficiente devuelve InsufficientStockError con el disponible vigente: el
// caller decide si reintenta con menos o aborta, nunca a ciegas.
func (uc *ReservationUseCase) Reserve(ctx context.Context, in ReserveInput) (*entity.Reservation, error) {
	if in.ItemID == "" || in.WarehouseID == "" || in.Qty <= 0 {
		return nil, domain.ErrInvalidInput
	}

	// Item y bodega deben existir en el catálogo antes de crear el registro.
	if item, err := uc.itemRepo.GetByID(ctx, in.ItemID); err != nil {
		return nil, err
	} else if item == nil {
		return nil, domain.ErrNotFound
	}
	if wh, err := uc.warehouseRepo.GetByID(ctx, in.WarehouseID); err != nil {
		return nil, err
	} else if wh == nil {
		return nil, domain.ErrNotFound
	}

	// Creación perezosa: reservar contra una bodega sin registro equivale a
	// disponible 0 y falla limpio en el TryAdjust.
	if _, err := uc.stockRepo.GetOrCreate(ctx, in.ItemID, in.WarehouseID); err != nil {
		return nil, err
	}

	if _, err := uc.stockRepo.TryAdjust(ctx, in.ItemID, in.WarehouseID, 0, in.Qty); err != nil {
		if errors.Is(err, domain.ErrStaleWrite) {
			// El perdedor de la carrera observa el disponible vigente.
			current, gerr := uc.stockRepo.Get(ctx, in.ItemID, in.WarehouseID)
			if gerr != nil {
				return nil, gerr
			}
			available := int64(0)
			if current != nil {
				available = current.Available()
			}
			metrics.ReservationsRejected.WithLabelValues("insufficient_stock").Inc()
			return nil, &domain.InsufficientStockError{
				ItemID:      in.ItemID,
				WarehouseID: in.WarehouseID,
				Solicitado:  in.Qty,
				Disponible:  available,
			}
		}
		return nil, err
	}

	now := time.Now().UTC()
	res := &entity.Reservation{
		ID:          uuid.New().String(),
		ItemID:      in.ItemID,
		WarehouseID: in.WarehouseID,
		Qty:         in.Qty,
		Estado:      entity.ReservationActivo,
		Origin:      in.Origin,
		OrderID:     in.OrderID,
		LineID:      in.LineID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.reservationRepo.Create(ctx, res); err != nil {
		// Compensación: el incremento de reserved quedó huérfano, revertirlo.
		if _, aerr := uc.stockRepo.TryAdjust(ctx, in.ItemID, in.WarehouseID, 0, -in.Qty); aerr != nil {
			return nil, fmt.Errorf("crear reserva: %w (compensación fallida: %v)", err, aerr)
		}
		return nil, fmt.Errorf("crear reserva: %w", err)
	}

	metrics.ReservationsCreated.Inc()
	return res, nil
}

// Release libera una reserva: decrementa reserved (onHand intacto) y pasa a
// "liberado". Invocarlo dos veces es inocuo: si la reserva ya es terminal
// devuelve su estado actual sin tocar el stock, gracias al CAS sobre el estado.
func (uc *ReservationUseCase) Release(ctx context.Context, reservationID string) (*entity.Reservation, error) {
	res, err := uc.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, domain.ErrNotFound
	}
	if res.IsTerminal() {
		return res, nil
	}

	updated, err := uc.reservationRepo.TransitionFromActivo(ctx, reservationID, entity.ReservationLiberado)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		// Otro caller ganó la carrera: releer y devolver el estado vigente.
		return uc.reservationRepo.GetByID(ctx, reservationID)
	}

	if _, err := uc.stockRepo.TryAdjust(ctx, res.ItemID, res.WarehouseID, 0, -res.Qty); err != nil {
		return nil, fmt.Errorf("liberar reserva %s: revertir reserved: %w", reservationID, err)
	}

	metrics.ReservationsReleased.Inc()
	return updated, nil
}

// ConsumeContext contexto del movimiento generado al consumir una reserva.
type ConsumeContext struct {
	Tipo           string // venta o consumo; "" = venta
	UnitCost       decimal.Decimal
	IdempotencyKey string
}

// Consume descuenta onHand y reserved por la cantidad de la reserva (el stock
// sale físicamente), pasa la reserva a "consumido" y agrega el movimiento
// venta/consumo al libro mayor. Falla con AlreadyTerminal si la reserva no está
// activa.
func (uc *ReservationUseCase) Consume(ctx context.Context, reservationID string, mc ConsumeContext) (*entity.Reservation, error) {
	res, err := uc.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, domain.ErrNotFound
	}
	if res.IsTerminal() {
		return nil, domain.ErrAlreadyTerminal
	}

	tipo := mc.Tipo
	if tipo == "" {
		tipo = entity.MovementVenta
	}
	if tipo != entity.MovementVenta && tipo != entity.MovementConsumo {
		return nil, domain.ErrInvalidInput
	}

	// Sin costo explícito el movimiento se valoriza al costo del catálogo.
	if mc.UnitCost.IsZero() {
		if item, ierr := uc.itemRepo.GetByID(ctx, res.ItemID); ierr == nil && item != nil {
			mc.UnitCost = item.Cost
		}
	}

	updated, err := uc.reservationRepo.TransitionFromActivo(ctx, reservationID, entity.ReservationConsumido)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, domain.ErrAlreadyTerminal
	}

	rec, err := uc.stockRepo.TryAdjust(ctx, res.ItemID, res.WarehouseID, -res.Qty, -res.Qty)
	if err != nil {
		return nil, fmt.Errorf("consumir reserva %s: descontar stock: %w", reservationID, err)
	}

	if _, _, err := uc.recorder.Append(ctx, AppendInput{
		Tipo:               tipo,
		ItemID:             res.ItemID,
		Qty:                res.Qty,
		UnitCost:           mc.UnitCost,
		WarehouseFrom:      res.WarehouseID,
		ReservationID:      res.ID,
		IdempotencyKey:     mc.IdempotencyKey,
		ResultadoCantidad:  rec.OnHand,
		ResultadoReservado: rec.Reserved,
	}); err != nil {
		// El stock ya salió; el movimiento es reintentable por su clave única,
		// no se revierte el descuento.
		return nil, fmt.Errorf("consumir reserva %s: registrar movimiento: %w", reservationID, err)
	}

	metrics.ReservationsConsumed.Inc()
	return updated, nil
}
