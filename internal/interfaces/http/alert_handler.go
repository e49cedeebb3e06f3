package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/aajcs/backend-taller-template-web-sub003/internal/application/alerts"
	"github.com/aajcs/backend-taller-template-web-sub003/internal/application/dto"
)

// AlertHandler maneja las consultas de alertas de stock.
type AlertHandler struct {
	evaluator *alerts.EvaluatorUseCase
}

// NewAlertHandler construye el handler.
func NewAlertHandler(evaluator *alerts.EvaluatorUseCase) *AlertHandler {
	return &AlertHandler{evaluator: evaluator}
}

// Report godoc
// @Summary      Reporte de alertas por severidad
// @Tags         alerts
// @Produce      json
// @Success      200  {object}  alerts.Report
// @Router       /api/alerts/report [get]
func (h *AlertHandler) Report(c *fiber.Ctx) error {
	report, err := h.evaluator.BuildReport(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}

// BelowMinimum devuelve los items con disponible por debajo del mínimo.
func (h *AlertHandler) BelowMinimum(c *fiber.Ctx) error {
	list, err := h.evaluator.ListBelowMinimum(c.Context(), c.QueryInt("limit"), c.QueryInt("offset"))
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.AlertResponse, 0, len(list))
	for _, a := range list {
		out = append(out, dto.FromAlert(a))
	}
	return c.JSON(out)
}

// PurchaseSuggestions devuelve sugerencias de compra por el faltante.
func (h *AlertHandler) PurchaseSuggestions(c *fiber.Ctx) error {
	list, err := h.evaluator.PurchaseSuggestions(c.Context(), c.QueryInt("limit"), c.QueryInt("offset"))
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.PurchaseSuggestionResponse, 0, len(list))
	for _, s := range list {
		out = append(out, dto.FromSuggestion(s))
	}
	return c.JSON(out)
}

// ItemAlert evalúa la alerta de un item puntual.
func (h *AlertHandler) ItemAlert(c *fiber.Ctx) error {
	a, err := h.evaluator.ItemAlert(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromAlert(a))
}
