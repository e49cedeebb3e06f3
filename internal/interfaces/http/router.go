package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/aajcs/backend-taller-template-web-sub003/internal/application/alerts"
	"github.com/aajcs/backend-taller-template-web-sub003/internal/application/orders"
	"github.com/aajcs/backend-taller-template-web-sub003/internal/application/stock"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Movements    *stock.RegisterMovementUseCase
	Reservations *stock.ReservationUseCase
	StockReader  StockReader
	Orders       *orders.LifecycleUseCase
	Alerts       *alerts.EvaluatorUseCase
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Movimientos y stock
	inv := api.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.Movements, deps.Reservations, deps.StockReader)
	inv.Post("/movements", inventoryHandler.RegisterMovement)
	inv.Get("/items/:id/movements", inventoryHandler.ListMovementsByItem)
	inv.Get("/warehouses/:id/movements", inventoryHandler.ListMovementsByWarehouse)
	inv.Get("/warehouses/:id/stock", inventoryHandler.ListStockByWarehouse)
	inv.Get("/stock/:itemID", inventoryHandler.GetStockTotals)
	inv.Get("/stock/:itemID/:warehouseID", inventoryHandler.GetStock)

	// Reservas manuales
	reservations := api.Group("/reservations")
	reservations.Post("/", inventoryHandler.CreateReservation)
	reservations.Post("/:id/release", inventoryHandler.ReleaseReservation)
	reservations.Post("/:id/consume", inventoryHandler.ConsumeReservation)

	// Órdenes de venta
	ordersGroup := api.Group("/orders")
	orderHandler := NewOrderHandler(deps.Orders)
	ordersGroup.Post("/", orderHandler.Create)
	ordersGroup.Get("/", orderHandler.List)
	ordersGroup.Get("/:id", orderHandler.Get)
	ordersGroup.Post("/:id/confirm", orderHandler.Confirm)
	ordersGroup.Post("/:id/cancel", orderHandler.Cancel)
	ordersGroup.Post("/:id/complete", orderHandler.Complete)

	// Alertas de stock
	alertsGroup := api.Group("/alerts")
	alertHandler := NewAlertHandler(deps.Alerts)
	alertsGroup.Get("/report", alertHandler.Report)
	alertsGroup.Get("/below-minimum", alertHandler.BelowMinimum)
	alertsGroup.Get("/purchase-suggestions", alertHandler.PurchaseSuggestions)
	alertsGroup.Get("/items/:id", alertHandler.ItemAlert)
}
