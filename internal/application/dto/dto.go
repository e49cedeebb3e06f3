// Package dto define los contratos JSON de la API HTTP.
package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/aajcs/backend-taller-template-web-sub003/internal/domain/entity"
)

// ErrorResponse respuesta de error estándar de la API.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	// Detalle de la línea afectada cuando una confirmación falla por stock.
	LineID     string `json:"line_id,omitempty"`
	ItemID     string `json:"item_id,omitempty"`
	Solicitado int64  `json:"solicitado,omitempty"`
	Disponible int64  `json:"disponible,omitempty"`
}

// RegisterMovementRequest cuerpo para registrar un movimiento directo.
type RegisterMovementRequest struct {
	Tipo           string          `json:"tipo"`
	ItemID         string          `json:"item_id"`
	Qty            int64           `json:"qty"`
	UnitCost       decimal.Decimal `json:"unit_cost"`
	WarehouseFrom  string          `json:"warehouse_from"`
	WarehouseTo    string          `json:"warehouse_to"`
	IdempotencyKey string          `json:"idempotency_key"`
}

// MovementResponse fila del libro mayor.
type MovementResponse struct {
	ID                 string          `json:"id"`
	Tipo               string          `json:"tipo"`
	ItemID             string          `json:"item_id"`
	Qty                int64           `json:"qty"`
	UnitCost           decimal.Decimal `json:"unit_cost"`
	WarehouseFrom      string          `json:"warehouse_from,omitempty"`
	WarehouseTo        string          `json:"warehouse_to,omitempty"`
	ReservationID      string          `json:"reservation_id,omitempty"`
	IdempotencyKey     string          `json:"idempotency_key,omitempty"`
	ResultadoCantidad  int64           `json:"resultado_cantidad"`
	ResultadoReservado int64           `json:"resultado_reservado"`
	CreatedAt          time.Time       `json:"created_at"`
}

// FromMovement convierte la entidad al contrato JSON.
func FromMovement(m *entity.Movement) MovementResponse {
	return MovementResponse{
		ID:                 m.ID,
		Tipo:               m.Tipo,
		ItemID:             m.ItemID,
		Qty:                m.Qty,
		UnitCost:           m.UnitCost,
		WarehouseFrom:      m.WarehouseFrom,
		WarehouseTo:        m.WarehouseTo,
		ReservationID:      m.ReservationID,
		IdempotencyKey:     m.IdempotencyKey,
		ResultadoCantidad:  m.ResultadoCantidad,
		ResultadoReservado: m.ResultadoReservado,
		CreatedAt:          m.CreatedAt,
	}
}

// FromMovements convierte una lista de movimientos.
func FromMovements(ms []*entity.Movement) []MovementResponse {
	out := make([]MovementResponse, 0, len(ms))
	for _, m := range ms {
		out = append(out, FromMovement(m))
	}
	return out
}

// ReserveRequest cuerpo para crear una reserva manual.
type ReserveRequest struct {
	ItemID      string `json:"item_id"`
	WarehouseID string `json:"warehouse_id"`
	Qty         int64  `json:"qty"`
	Origin      string `json:"origin"`
}

// ReservationResponse estado de una reserva.
type ReservationResponse struct {
	ID          string    `json:"id"`
	ItemID      string    `json:"item_id"`
	WarehouseID string    `json:"warehouse_id"`
	Qty         int64     `json:"qty"`
	Estado      string    `json:"estado"`
	Origin      string    `json:"origin,omitempty"`
	OrderID     string    `json:"order_id,omitempty"`
	LineID      string    `json:"line_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// FromReservation convierte la entidad al contrato JSON.
func FromReservation(r *entity.Reservation) ReservationResponse {
	return ReservationResponse{
		ID:          r.ID,
		ItemID:      r.ItemID,
		WarehouseID: r.WarehouseID,
		Qty:         r.Qty,
		Estado:      r.Estado,
		Origin:      r.Origin,
		OrderID:     r.OrderID,
		LineID:      r.LineID,
		CreatedAt:   r.CreatedAt,
	}
}

// FromReservations convierte una lista de reservas.
func FromReservations(rs []*entity.Reservation) []ReservationResponse {
	out := make([]ReservationResponse, 0, len(rs))
	for _, r := range rs {
		out = append(out, FromReservation(r))
	}
	return out
}

// StockRecordResponse nivel de stock de un item en una bodega.
type StockRecordResponse struct {
	ItemID      string    `json:"item_id"`
	WarehouseID string    `json:"warehouse_id"`
	OnHand      int64     `json:"on_hand"`
	Reserved    int64     `json:"reserved"`
	Available   int64     `json:"available"`
	Bin         string    `json:"bin,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// FromStockRecord convierte la entidad al contrato JSON.
func FromStockRecord(s *entity.StockRecord) StockRecordResponse {
	return StockRecordResponse{
		ItemID:      s.ItemID,
		WarehouseID: s.WarehouseID,
		OnHand:      s.OnHand,
		Reserved:    s.Reserved,
		Available:   s.Available(),
		Bin:         s.Bin,
		UpdatedAt:   s.UpdatedAt,
	}
}

// FromStockRecords convierte la lista; nunca devuelve nil para serializar [].
func FromStockRecords(recs []*entity.StockRecord) []StockRecordResponse {
	out := make([]StockRecordResponse, 0, len(recs))
	for _, r := range recs {
		out = append(out, FromStockRecord(r))
	}
	return out
}

// CreateOrderRequest cuerpo para crear una orden en borrador.
type CreateOrderRequest struct {
	Lines []OrderLineRequest `json:"lines"`
}

// OrderLineRequest línea de la orden.
type OrderLineRequest struct {
	ItemID string `json:"item_id"`
	Qty    int64  `json:"qty"`
}

// ConfirmOrderRequest cuerpo para confirmar una orden contra una bodega.
type ConfirmOrderRequest struct {
	WarehouseID string `json:"warehouse_id"`
}

// OrderResponse estado de una orden con sus líneas y reservas.
type OrderResponse struct {
	ID           string                `json:"id"`
	Estado       string                `json:"estado"`
	WarehouseID  string                `json:"warehouse_id,omitempty"`
	Lines        []OrderLineResponse   `json:"lines"`
	Reservations []ReservationResponse `json:"reservations,omitempty"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

// OrderLineResponse línea de la orden.
type OrderLineResponse struct {
	ID     string `json:"id"`
	ItemID string `json:"item_id"`
	Qty    int64  `json:"qty"`
}

// FromOrder convierte la entidad al contrato JSON.
func FromOrder(o *entity.SalesOrder, reservations []*entity.Reservation) OrderResponse {
	lines := make([]OrderLineResponse, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, OrderLineResponse{ID: l.ID, ItemID: l.ItemID, Qty: l.Qty})
	}
	return OrderResponse{
		ID:           o.ID,
		Estado:       o.Estado,
		WarehouseID:  o.WarehouseID,
		Lines:        lines,
		Reservations: FromReservations(reservations),
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
}

// AlertResponse evaluación de escasez de un item.
type AlertResponse struct {
	ItemID      string  `json:"item_id"`
	Name        string  `json:"name"`
	StockMinimo int64   `json:"stock_minimo"`
	OnHand      int64   `json:"on_hand"`
	Reserved    int64   `json:"reserved"`
	Available   int64   `json:"available"`
	Percentage  float64 `json:"percentage"`
	Shortfall   int64   `json:"shortfall"`
	Severity    string  `json:"severity"`
}

// FromAlert convierte la entidad al contrato JSON.
func FromAlert(a *entity.ItemAlert) AlertResponse {
	return AlertResponse{
		ItemID:      a.ItemID,
		Name:        a.Name,
		StockMinimo: a.StockMinimo,
		OnHand:      a.OnHand,
		Reserved:    a.Reserved,
		Available:   a.Available,
		Percentage:  a.Percentage,
		Shortfall:   a.Shortfall,
		Severity:    a.Severity,
	}
}

// PurchaseSuggestionResponse sugerencia de compra valorizada.
type PurchaseSuggestionResponse struct {
	ItemID        string          `json:"item_id"`
	Name          string          `json:"name"`
	SuggestedQty  int64           `json:"suggested_qty"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	EstimatedCost decimal.Decimal `json:"estimated_cost"`
}

// FromSuggestion convierte la entidad al contrato JSON.
func FromSuggestion(s *entity.PurchaseSuggestion) PurchaseSuggestionResponse {
	return PurchaseSuggestionResponse{
		ItemID:        s.ItemID,
		Name:          s.Name,
		SuggestedQty:  s.SuggestedQty,
		UnitCost:      s.UnitCost,
		EstimatedCost: s.EstimatedCost,
	}
}
