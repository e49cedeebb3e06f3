package stock

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/aajcs/backend-taller-template-web-sub003/internal/domain"
	"github.com/aajcs/backend-taller-template-web-sub003/internal/domain/entity"
	"github.com/aajcs/backend-taller-template-web-sub003/internal/domain/repository"
)

// RegisterMovementUseCase registra movimientos directos de inventario
// (entrada, compra, salida, ajuste, transferencia) sin pasar por reservas.
//
// Cada registro es: chequeo de replay por clave de idempotencia, un ajuste
// atómico por StockRecord y el movimiento en el libro mayor. Si dos peticiones
// con la misma clave pasan el chequeo a la vez, el índice único del libro mayor
// detecta a la segunda y su ajuste de stock se compensa con el delta inverso.
type RegisterMovementUseCase struct {
	stockRepo     repository.StockRecordRepository
	itemRepo      repository.ItemRepository
	warehouseRepo repository.WarehouseRepository
	recorder      *MovementRecorder
}

// NewRegisterMovementUseCase construye el caso de uso.
func NewRegisterMovementUseCase(
	stockRepo repository.StockRecordRepository,
	itemRepo repository.ItemRepository,
	warehouseRepo repository.WarehouseRepository,
	recorder *MovementRecorder,
) *RegisterMovementUseCase {
	return &RegisterMovementUseCase{
		stockRepo:     stockRepo,
		itemRepo:      itemRepo,
		warehouseRepo: warehouseRepo,
		recorder:      recorder,
	}
}

// MovementInput entrada para registrar un movimiento directo.
// Para entrada/compra: WarehouseTo y UnitCost. Para salida: WarehouseFrom.
// Para ajuste: WarehouseTo y Qty con signo (positivo suma, negativo resta).
// Para transferencia: WarehouseFrom y WarehouseTo.
type MovementInput struct {
	Tipo           string
	ItemID         string
	Qty            int64
	UnitCost       decimal.Decimal
	WarehouseFrom  string
	WarehouseTo    string
	IdempotencyKey string
}

// Register valida y aplica el movimiento. Devuelve la fila del libro mayor
// (la original, si la clave de idempotencia ya había sido usada).
func (uc *RegisterMovementUseCase) Register(ctx context.Context, in MovementInput) (*entity.Movement, error) {
	if err := uc.validate(ctx, in); err != nil {
		return nil, err
	}

	// Replay detectado antes de tocar stock: devolver el resultado original.
	if existing, err := uc.recorder.FindByKey(ctx, in.IdempotencyKey); err != nil {
		return nil, err
	} else if existing != nil {
		return existing, nil
	}

	switch in.Tipo {
	case entity.MovementEntrada, entity.MovementCompra:
		return uc.registerInbound(ctx, in)
	case entity.MovementSalida:
		return uc.registerOutbound(ctx, in)
	case entity.MovementAjuste:
		return uc.registerAdjustment(ctx, in)
	case entity.MovementTransferencia:
		return uc.registerTransfer(ctx, in)
	}
	return nil, domain.ErrInvalidInput
}

func (uc *RegisterMovementUseCase) validate(ctx context.Context, in MovementInput) error {
	switch in.Tipo {
	case entity.MovementEntrada, entity.MovementCompra:
		if in.ItemID == "" || in.WarehouseTo == "" || in.Qty <= 0 || in.UnitCost.LessThan(decimal.Zero) {
			return domain.ErrInvalidInput
		}
	case entity.MovementSalida:
		if in.ItemID == "" || in.WarehouseFrom == "" || in.Qty <= 0 {
			return domain.ErrInvalidInput
		}
	case entity.MovementAjuste:
		if in.ItemID == "" || in.WarehouseTo == "" || in.Qty == 0 {
			return domain.ErrInvalidInput
		}
	case entity.MovementTransferencia:
		if in.ItemID == "" || in.WarehouseFrom == "" || in.WarehouseTo == "" ||
			in.WarehouseFrom == in.WarehouseTo || in.Qty <= 0 {
			return domain.ErrInvalidInput
		}
	default:
		return domain.ErrInvalidInput
	}

	// Item y bodega(s) deben existir en el catálogo (solo referencia).
	if item, err := uc.itemRepo.GetByID(ctx, in.ItemID); err != nil {
		return err
	} else if item == nil {
		return domain.ErrNotFound
	}
	for _, whID := range []string{in.WarehouseFrom, in.WarehouseTo} {
		if whID == "" {
			continue
		}
		if wh, err := uc.warehouseRepo.GetByID(ctx, whID); err != nil {
			return err
		} else if wh == nil {
			return domain.ErrNotFound
		}
	}
	return nil
}

// registerInbound suma onHand en la bodega destino (creación perezosa del registro).
func (uc *RegisterMovementUseCase) registerInbound(ctx context.Context, in MovementInput) (*entity.Movement, error) {
	if _, err := uc.stockRepo.GetOrCreate(ctx, in.ItemID, in.WarehouseTo); err != nil {
		return nil, err
	}
	rec, err := uc.stockRepo.TryAdjust(ctx, in.ItemID, in.WarehouseTo, in.Qty, 0)
	if err != nil {
		return nil, err
	}
	return uc.appendOrCompensate(ctx, in, rec, in.ItemID, in.WarehouseTo, -in.Qty, 0)
}

// registerOutbound resta onHand en la bodega origen; el UPDATE condicional
// rechaza la salida si tocaría el stock reservado (disponible < qty).
func (uc *RegisterMovementUseCase) registerOutbound(ctx context.Context, in MovementInput) (*entity.Movement, error) {
	rec, err := uc.stockRepo.TryAdjust(ctx, in.ItemID, in.WarehouseFrom, -in.Qty, 0)
	if err != nil {
		return nil, uc.mapAdjustErr(ctx, err, in.ItemID, in.WarehouseFrom, in.Qty)
	}
	return uc.appendOrCompensate(ctx, in, rec, in.ItemID, in.WarehouseFrom, in.Qty, 0)
}

// registerAdjustment aplica un delta con signo; el piso en cero lo garantiza la
// precondición del UPDATE.
func (uc *RegisterMovementUseCase) registerAdjustment(ctx context.Context, in MovementInput) (*entity.Movement, error) {
	if _, err := uc.stockRepo.GetOrCreate(ctx, in.ItemID, in.WarehouseTo); err != nil {
		return nil, err
	}
	rec, err := uc.stockRepo.TryAdjust(ctx, in.ItemID, in.WarehouseTo, in.Qty, 0)
	if err != nil {
		return nil, uc.mapAdjustErr(ctx, err, in.ItemID, in.WarehouseTo, -in.Qty)
	}
	return uc.appendOrCompensate(ctx, in, rec, in.ItemID, in.WarehouseTo, -in.Qty, 0)
}

// registerTransfer mueve onHand entre bodegas con dos pasos atómicos de un solo
// registro cada uno; si el abono en destino falla se devuelve el débito al
// origen (compensación explícita, no hay transacción que cubra ambos).
func (uc *RegisterMovementUseCase) registerTransfer(ctx context.Context, in MovementInput) (*entity.Movement, error) {
	if _, err := uc.stockRepo.TryAdjust(ctx, in.ItemID, in.WarehouseFrom, -in.Qty, 0); err != nil {
		return nil, uc.mapAdjustErr(ctx, err, in.ItemID, in.WarehouseFrom, in.Qty)
	}

	if _, err := uc.stockRepo.GetOrCreate(ctx, in.ItemID, in.WarehouseTo); err != nil {
		uc.compensate(ctx, in.ItemID, in.WarehouseFrom, in.Qty, 0)
		return nil, err
	}
	rec, err := uc.stockRepo.TryAdjust(ctx, in.ItemID, in.WarehouseTo, in.Qty, 0)
	if err != nil {
		uc.compensate(ctx, in.ItemID, in.WarehouseFrom, in.Qty, 0)
		return nil, err
	}

	// Un replay concurrente que llegó hasta aquí debe deshacer ambos lados.
	mov, replayed, err := uc.recorder.Append(ctx, AppendInput{
		Tipo:               in.Tipo,
		ItemID:             in.ItemID,
		Qty:                in.Qty,
		UnitCost:           in.UnitCost,
		WarehouseFrom:      in.WarehouseFrom,
		WarehouseTo:        in.WarehouseTo,
		IdempotencyKey:     in.IdempotencyKey,
		ResultadoCantidad:  rec.OnHand,
		ResultadoReservado: rec.Reserved,
	})
	if err != nil {
		return nil, err
	}
	if replayed {
		uc.compensate(ctx, in.ItemID, in.WarehouseTo, -in.Qty, 0)
		uc.compensate(ctx, in.ItemID, in.WarehouseFrom, in.Qty, 0)
	}
	return mov, nil
}

// appendOrCompensate agrega el movimiento; si el libro mayor detecta un replay
// concurrente (clave única), revierte el ajuste de stock con el delta inverso y
// devuelve el movimiento original.
func (uc *RegisterMovementUseCase) appendOrCompensate(
	ctx context.Context,
	in MovementInput,
	rec *entity.StockRecord,
	itemID, warehouseID string,
	inverseOnHand, inverseReserved int64,
) (*entity.Movement, error) {
	mov, replayed, err := uc.recorder.Append(ctx, AppendInput{
		Tipo:               in.Tipo,
		ItemID:             in.ItemID,
		Qty:                absQty(in.Qty),
		UnitCost:           in.UnitCost,
		WarehouseFrom:      in.WarehouseFrom,
		WarehouseTo:        in.WarehouseTo,
		IdempotencyKey:     in.IdempotencyKey,
		ResultadoCantidad:  rec.OnHand,
		ResultadoReservado: rec.Reserved,
	})
	if err != nil {
		return nil, err
	}
	if replayed {
		uc.compensate(ctx, itemID, warehouseID, inverseOnHand, inverseReserved)
	}
	return mov, nil
}

// compensate aplica el delta inverso de un ajuste que no debió quedar.
func (uc *RegisterMovementUseCase) compensate(ctx context.Context, itemID, warehouseID string, onHandDelta, reservedDelta int64) {
	if _, err := uc.stockRepo.TryAdjust(ctx, itemID, warehouseID, onHandDelta, reservedDelta); err != nil {
		// Sin transacción que lo cubra solo queda dejar rastro del fallo.
		log.Error().Err(err).
			Str("item_id", itemID).
			Str("warehouse_id", warehouseID).
			Int64("on_hand_delta", onHandDelta).
			Msg("compensación de stock fallida")
	}
}

// mapAdjustErr traduce el rechazo del UPDATE condicional a un error de dominio
// con el disponible vigente.
func (uc *RegisterMovementUseCase) mapAdjustErr(ctx context.Context, err error, itemID, warehouseID string, qty int64) error {
	if !errors.Is(err, domain.ErrStaleWrite) {
		return err
	}
	current, gerr := uc.stockRepo.Get(ctx, itemID, warehouseID)
	if gerr != nil || current == nil {
		return domain.ErrInsufficientStock
	}
	return &domain.InsufficientStockError{
		ItemID:      itemID,
		WarehouseID: warehouseID,
		Solicitado:  qty,
		Disponible:  current.Available(),
	}
}

// ListByItem delega la consulta del historial de movimientos de un item.
func (uc *RegisterMovementUseCase) ListByItem(ctx context.Context, itemID string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error) {
	return uc.recorder.movements.ListByItem(ctx, itemID, from, to, limit, offset)
}

// ListByWarehouse delega la consulta del historial de movimientos de una bodega.
func (uc *RegisterMovementUseCase) ListByWarehouse(ctx context.Context, warehouseID string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error) {
	return uc.recorder.movements.ListByWarehouse(ctx, warehouseID, from, to, limit, offset)
}

func absQty(q int64) int64 {
	if q < 0 {
		return -q
	}
	return q
}
