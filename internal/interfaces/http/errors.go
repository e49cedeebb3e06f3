package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/aajcs/backend-taller-template-web-sub003/internal/application/dto"
	"github.com/aajcs/backend-taller-template-web-sub003/internal/domain"
)

// respondError traduce los errores del dominio al contrato HTTP. El conflicto de
// estado y el stock insuficiente van como 409: el recurso existe pero la
// transición pedida ya no es aplicable.
func respondError(c *fiber.Ctx, err error) error {
	var insufficient *domain.InsufficientStockError
	if errors.As(err, &insufficient) {
		resp := dto.ErrorResponse{
			Code:       "INSUFFICIENT_STOCK",
			Message:    "stock insuficiente",
			ItemID:     insufficient.ItemID,
			Solicitado: insufficient.Solicitado,
			Disponible: insufficient.Disponible,
		}
		var lineErr *domain.OrderLineError
		if errors.As(err, &lineErr) {
			resp.LineID = lineErr.LineID
		}
		return c.Status(fiber.StatusConflict).JSON(resp)
	}

	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"})
	case errors.Is(err, domain.ErrAlreadyTerminal):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "ALREADY_TERMINAL", Message: "la reserva ya está en estado terminal"})
	case errors.Is(err, domain.ErrOrderStateConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "ORDER_STATE_CONFLICT", Message: "la orden no admite esa transición"})
	case errors.Is(err, domain.ErrStaleWrite):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "STALE_WRITE", Message: "el stock cambió durante la operación, reintentar"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
