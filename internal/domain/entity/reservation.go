package entity

import "time"

// Estados de una reserva. "activo" es el único estado no terminal; una reserva
// nunca se reactiva después de consumirse o liberarse.
const (
	ReservationActivo    = "activo"
	ReservationConsumido = "consumido"
	ReservationLiberado  = "liberado"
)

// reservationTransitions tabla explícita de transiciones permitidas.
var reservationTransitions = map[string][]string{
	ReservationActivo: {ReservationConsumido, ReservationLiberado},
}

// ValidReservationState indica si s es un estado de reserva conocido.
func ValidReservationState(s string) bool {
	switch s {
	case ReservationActivo, ReservationConsumido, ReservationLiberado:
		return true
	}
	return false
}

// CanTransitionReservation indica si la transición from -> to está en la tabla.
func CanTransitionReservation(from, to string) bool {
	for _, t := range reservationTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// Reservation representa un apartado de stock disponible a favor de una línea de
// orden. Se crea en "activo" junto con el incremento atómico de Reserved en el
// StockRecord; termina en "consumido" (sale stock físico) o "liberado" (el stock
// vuelve al disponible).
type Reservation struct {
	ID          string
	ItemID      string
	WarehouseID string
	Qty         int64
	Estado      string
	Origin      string // referencia de origen, ej. "orden:<id>"
	OrderID     string
	LineID      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsTerminal indica si la reserva ya no admite transiciones.
func (r *Reservation) IsTerminal() bool {
	return r.Estado == ReservationConsumido || r.Estado == ReservationLiberado
}
