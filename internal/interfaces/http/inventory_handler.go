package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/aajcs/backend-taller-template-web-sub003/internal/application/dto"
	"github.com/aajcs/backend-taller-template-web-sub003/internal/application/stock"
	"github.com/aajcs/backend-taller-template-web-sub003/internal/domain"
	"github.com/aajcs/backend-taller-template-web-sub003/internal/domain/entity"
)

// StockReader lecturas de stock que expone la API.
type StockReader interface {
	Get(ctx context.Context, itemID, warehouseID string) (*entity.StockRecord, error)
	TotalsByItem(ctx context.Context, itemID string) (int64, int64, error)
	ListByWarehouse(ctx context.Context, warehouseID string, limit, offset int) ([]*entity.StockRecord, error)
}

// InventoryHandler maneja movimientos, reservas y consultas de stock.
type InventoryHandler struct {
	movements    *stock.RegisterMovementUseCase
	reservations *stock.ReservationUseCase
	stockReader  StockReader
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(movements *stock.RegisterMovementUseCase, reservations *stock.ReservationUseCase, stockReader StockReader) *InventoryHandler {
	return &InventoryHandler{movements: movements, reservations: reservations, stockReader: stockReader}
}

// RegisterMovement godoc
// @Summary      Registrar movimiento de inventario
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "tipo, item_id, qty, bodegas según tipo, idempotency_key opcional"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	mov, err := h.movements.Register(c.Context(), stock.MovementInput{
		Tipo:           in.Tipo,
		ItemID:         in.ItemID,
		Qty:            in.Qty,
		UnitCost:       in.UnitCost,
		WarehouseFrom:  in.WarehouseFrom,
		WarehouseTo:    in.WarehouseTo,
		IdempotencyKey: in.IdempotencyKey,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromMovement(mov))
}

// ListMovementsByItem godoc
// @Summary      Historial de movimientos de un item
// @Tags         inventory
// @Produce      json
// @Param        id     path   string  true   "ID del item"
// @Param        from   query  string  false  "Fecha inicial (RFC3339)"
// @Param        to     query  string  false  "Fecha final (RFC3339)"
// @Param        limit  query  int     false  "Tamaño de página"
// @Success      200  {array}  dto.MovementResponse
// @Router       /api/inventory/items/{id}/movements [get]
func (h *InventoryHandler) ListMovementsByItem(c *fiber.Ctx) error {
	from, to, err := parseDateRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "rango de fechas inválido"})
	}
	movs, err := h.movements.ListByItem(c.Context(), c.Params("id"), from, to, c.QueryInt("limit"), c.QueryInt("offset"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromMovements(movs))
}

// ListMovementsByWarehouse historial de movimientos que tocan una bodega.
func (h *InventoryHandler) ListMovementsByWarehouse(c *fiber.Ctx) error {
	from, to, err := parseDateRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "rango de fechas inválido"})
	}
	movs, err := h.movements.ListByWarehouse(c.Context(), c.Params("id"), from, to, c.QueryInt("limit"), c.QueryInt("offset"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromMovements(movs))
}

// CreateReservation godoc
// @Summary      Crear una reserva de stock
// @Tags         reservations
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReserveRequest  true  "item_id, warehouse_id, qty, origin opcional"
// @Success      201   {object}  dto.ReservationResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/reservations [post]
func (h *InventoryHandler) CreateReservation(c *fiber.Ctx) error {
	var in dto.ReserveRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	res, err := h.reservations.Reserve(c.Context(), stock.ReserveInput{
		ItemID:      in.ItemID,
		WarehouseID: in.WarehouseID,
		Qty:         in.Qty,
		Origin:      in.Origin,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromReservation(res))
}

// ReleaseReservation libera una reserva activa. Idempotente: liberar una
// reserva ya liberada devuelve su estado sin efectos.
func (h *InventoryHandler) ReleaseReservation(c *fiber.Ctx) error {
	res, err := h.reservations.Release(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromReservation(res))
}

// ConsumeReservation consume una reserva activa (el stock sale físicamente).
func (h *InventoryHandler) ConsumeReservation(c *fiber.Ctx) error {
	var in struct {
		Tipo           string `json:"tipo"`
		IdempotencyKey string `json:"idempotency_key"`
	}
	if err := c.BodyParser(&in); err != nil && len(c.Body()) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	res, err := h.reservations.Consume(c.Context(), c.Params("id"), stock.ConsumeContext{
		Tipo:           in.Tipo,
		IdempotencyKey: in.IdempotencyKey,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromReservation(res))
}

// GetStock devuelve el stock de un item en una bodega.
func (h *InventoryHandler) GetStock(c *fiber.Ctx) error {
	rec, err := h.stockReader.Get(c.Context(), c.Params("itemID"), c.Params("warehouseID"))
	if err != nil {
		return respondError(c, err)
	}
	if rec == nil {
		return respondError(c, domain.ErrNotFound)
	}
	return c.JSON(dto.FromStockRecord(rec))
}

// ListStockByWarehouse devuelve los niveles de stock de una bodega paginados.
func (h *InventoryHandler) ListStockByWarehouse(c *fiber.Ctx) error {
	recs, err := h.stockReader.ListByWarehouse(c.Context(), c.Params("id"), c.QueryInt("limit"), c.QueryInt("offset"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromStockRecords(recs))
}

// GetStockTotals devuelve el stock agregado de un item entre todas las bodegas.
func (h *InventoryHandler) GetStockTotals(c *fiber.Ctx) error {
	onHand, reserved, err := h.stockReader.TotalsByItem(c.Context(), c.Params("itemID"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"item_id":   c.Params("itemID"),
		"on_hand":   onHand,
		"reserved":  reserved,
		"available": onHand - reserved,
	})
}

func parseDateRange(c *fiber.Ctx) (*time.Time, *time.Time, error) {
	var from, to *time.Time
	if s := c.Query("from"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return nil, nil, err
		}
		from = &t
	}
	if s := c.Query("to"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return nil, nil, err
		}
		to = &t
	}
	return from, to, nil
}
