package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Contadores del motor de reservas y del libro mayor de movimientos.
var (
	ReservationsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stock_reservations_created_total",
		Help: "Reservas creadas (estado activo)",
	})

	ReservationsReleased = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stock_reservations_released_total",
		Help: "Reservas liberadas (el stock vuelve al disponible)",
	})

	ReservationsConsumed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stock_reservations_consumed_total",
		Help: "Reservas consumidas (sale stock físico)",
	})

	ReservationsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stock_reservations_rejected_total",
		Help: "Reservas rechazadas por el chequeo atómico",
	}, []string{"reason"})

	MovementsAppended = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stock_movements_appended_total",
		Help: "Movimientos agregados al libro mayor",
	}, []string{"tipo"})

	MovementsReplayed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stock_movements_replayed_total",
		Help: "Movimientos rechazados por clave de idempotencia repetida (replay)",
	})

	OrderTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sales_order_transitions_total",
		Help: "Transiciones de estado de órdenes de venta",
	}, []string{"to"})

	OrderConfirmFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sales_order_confirm_failed_total",
		Help: "Confirmaciones de orden fallidas (con liberación compensatoria)",
	}, []string{"reason"})
)
