package entity

import "time"

// StockRecord representa el stock de un item en una bodega: una fila por par
// (item, bodega). Invariante: 0 <= Reserved <= OnHand. Se crea de forma perezosa
// con el primer movimiento de entrada y nunca se borra, solo se lleva a cero.
//
// Nunca se muta por asignación directa: toda mutación pasa por la operación
// condicional atómica del repositorio (TryAdjust), que rechaza el cambio si la
// precondición no se cumple al momento de aplicar.
type StockRecord struct {
	ItemID      string
	WarehouseID string
	OnHand      int64
	Reserved    int64
	Bin         string // ubicación física opcional dentro de la bodega
	UpdatedAt   time.Time
}

// Available devuelve la cantidad que todavía puede reservarse (OnHand - Reserved).
func (s *StockRecord) Available() int64 {
	return s.OnHand - s.Reserved
}

// CanReserve indica si hay disponible suficiente para reservar qty unidades.
func (s *StockRecord) CanReserve(qty int64) bool {
	return qty > 0 && s.Available() >= qty
}
