package entity

import "time"

// Estados de una orden de venta. "completada" y "cancelada" son terminales.
const (
	OrderBorrador   = "borrador"
	OrderConfirmada = "confirmada"
	OrderCompletada = "completada"
	OrderCancelada  = "cancelada"
)

// orderTransitions tabla explícita de la máquina de estados de la orden.
// Cualquier transición fuera de la tabla se rechaza con OrderStateConflict.
var orderTransitions = map[string][]string{
	OrderBorrador:   {OrderConfirmada, OrderCancelada},
	OrderConfirmada: {OrderCompletada, OrderCancelada},
}

// CanTransitionOrder indica si la transición from -> to está permitida.
func CanTransitionOrder(from, to string) bool {
	for _, t := range orderTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// ValidOrderState indica si s es un estado de orden conocido.
func ValidOrderState(s string) bool {
	switch s {
	case OrderBorrador, OrderConfirmada, OrderCompletada, OrderCancelada:
		return true
	}
	return false
}

// SalesOrder representa una orden de venta del taller. La confirmación crea una
// reserva por línea; la cancelación libera las reservas activas; la completación
// las consume.
type SalesOrder struct {
	ID          string
	Estado      string
	WarehouseID string // bodega elegida al confirmar; vacía en borrador
	Lines       []*SalesOrderLine
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsTerminal indica si la orden ya no admite transiciones.
func (o *SalesOrder) IsTerminal() bool {
	return o.Estado == OrderCompletada || o.Estado == OrderCancelada
}

// SalesOrderLine es una línea de la orden: un item y una cantidad.
type SalesOrderLine struct {
	ID      string
	OrderID string
	ItemID  string
	Qty     int64
}
