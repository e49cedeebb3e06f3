package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrAlreadyTerminal    = errors.New("la reserva ya está en estado terminal")
	ErrStaleWrite         = errors.New("la precondición atómica falló: releer y reintentar")
	ErrOrderStateConflict = errors.New("transición de orden no permitida desde el estado actual")
)

// InsufficientStockError indica que el disponible era menor que lo solicitado al
// momento de reservar. Lleva el disponible vigente para que el caller decida
// reintentar con menos cantidad o abortar (nunca reintentar a ciegas).
type InsufficientStockError struct {
	ItemID      string
	WarehouseID string
	Solicitado  int64
	Disponible  int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para item %s en bodega %s: solicitado %d, disponible %d",
		e.ItemID, e.WarehouseID, e.Solicitado, e.Disponible)
}

// Is permite errors.Is(err, ErrInsufficientStock).
func (e *InsufficientStockError) Is(target error) bool { return target == ErrInsufficientStock }

// OrderLineError envuelve un error ocurrido al procesar una línea concreta de
// una orden (por ejemplo, la línea sin stock durante la confirmación).
type OrderLineError struct {
	OrderID string
	LineID  string
	ItemID  string
	Err     error
}

func (e *OrderLineError) Error() string {
	return fmt.Sprintf("orden %s, línea %s (item %s): %v", e.OrderID, e.LineID, e.ItemID, e.Err)
}

func (e *OrderLineError) Unwrap() error { return e.Err }
