package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/aajcs/backend-taller-template-web-sub003/internal/application/dto"
	"github.com/aajcs/backend-taller-template-web-sub003/internal/application/orders"
)

// OrderHandler maneja el ciclo de vida de las órdenes de venta.
type OrderHandler struct {
	lifecycle *orders.LifecycleUseCase
}

// NewOrderHandler construye el handler.
func NewOrderHandler(lifecycle *orders.LifecycleUseCase) *OrderHandler {
	return &OrderHandler{lifecycle: lifecycle}
}

// Create godoc
// @Summary      Crear orden en borrador
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateOrderRequest  true  "líneas de la orden"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	lines := make([]orders.DraftLine, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, orders.DraftLine{ItemID: l.ItemID, Qty: l.Qty})
	}
	order, err := h.lifecycle.CreateDraft(c.Context(), lines)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromOrder(order, nil))
}

// Get devuelve la orden con sus reservas.
func (h *OrderHandler) Get(c *fiber.Ctx) error {
	res, err := h.lifecycle.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromOrder(res.Order, res.Reservations))
}

// List devuelve órdenes, opcionalmente filtradas por estado.
func (h *OrderHandler) List(c *fiber.Ctx) error {
	list, err := h.lifecycle.List(c.Context(), c.Query("estado"), c.QueryInt("limit"), c.QueryInt("offset"))
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.OrderResponse, 0, len(list))
	for _, o := range list {
		out = append(out, dto.FromOrder(o, nil))
	}
	return c.JSON(out)
}

// Confirm godoc
// @Summary      Confirmar orden (reserva stock por línea)
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id    path      string                   true  "ID de la orden"
// @Param        body  body      dto.ConfirmOrderRequest  true  "warehouse_id"
// @Success      200   {object}  dto.OrderResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/confirm [post]
func (h *OrderHandler) Confirm(c *fiber.Ctx) error {
	var in dto.ConfirmOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	res, err := h.lifecycle.Confirm(c.Context(), c.Params("id"), in.WarehouseID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromOrder(res.Order, res.Reservations))
}

// Cancel libera las reservas activas y deja la orden en cancelada. Idempotente.
func (h *OrderHandler) Cancel(c *fiber.Ctx) error {
	res, err := h.lifecycle.Cancel(c.Context(), c.Params("id"), c.Get("Idempotency-Key"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromOrder(res.Order, res.Reservations))
}

// Complete consume las reservas de una orden confirmada.
func (h *OrderHandler) Complete(c *fiber.Ctx) error {
	res, err := h.lifecycle.Complete(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromOrder(res.Order, res.Reservations))
}
