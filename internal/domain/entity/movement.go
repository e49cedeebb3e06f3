package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento del libro mayor de inventario.
const (
	MovementEntrada       = "entrada"
	MovementSalida        = "salida"
	MovementAjuste        = "ajuste"
	MovementVenta         = "venta"
	MovementCompra        = "compra"
	MovementTransferencia = "transferencia"
	MovementConsumo       = "consumo"
)

// ValidMovementType indica si t es un tipo de movimiento conocido.
func ValidMovementType(t string) bool {
	switch t {
	case MovementEntrada, MovementSalida, MovementAjuste, MovementVenta,
		MovementCompra, MovementTransferencia, MovementConsumo:
		return true
	}
	return false
}

// Movement es una fila inmutable del libro mayor de movimientos: sirve de
// auditoría y, vía la clave de idempotencia única, de mecanismo para que las
// operaciones que afectan stock sean reintentables sin duplicar efectos.
//
// WarehouseFrom/WarehouseTo son contextuales al tipo: entrada/compra solo usan
// destino, salida/venta/consumo solo origen, transferencia usa ambos.
type Movement struct {
	ID             string
	Tipo           string
	ItemID         string
	Qty            int64
	UnitCost       decimal.Decimal
	WarehouseFrom  string // vacío cuando no aplica
	WarehouseTo    string // vacío cuando no aplica
	ReservationID  string // vacío salvo venta/consumo originados en una reserva
	IdempotencyKey string // única cuando está presente; "" = sin clave
	// Fotografía del StockRecord afectado después de aplicar el movimiento.
	ResultadoCantidad  int64
	ResultadoReservado int64
	CreatedAt          time.Time
}
