// Package orders implementa la máquina de estados de la orden de venta
// (borrador → confirmada → completada/cancelada) y su coordinación con el motor
// de reservas. Sin transacciones multi-registro: los fallos parciales se
// recuperan con liberaciones compensatorias, y la cancelación converge releyendo
// el estado vigente de las reservas.
package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/aajcs/backend-taller-template-web-sub003/internal/application/stock"
	"github.com/aajcs/backend-taller-template-web-sub003/internal/domain"
	"github.com/aajcs/backend-taller-template-web-sub003/internal/domain/entity"
	"github.com/aajcs/backend-taller-template-web-sub003/internal/domain/repository"
	"github.com/aajcs/backend-taller-template-web-sub003/pkg/metrics"
)

// ReservationManager puerto hacia el motor de reservas.
type ReservationManager interface {
	Reserve(ctx context.Context, in stock.ReserveInput) (*entity.Reservation, error)
	Release(ctx context.Context, reservationID string) (*entity.Reservation, error)
	Consume(ctx context.Context, reservationID string, mc stock.ConsumeContext) (*entity.Reservation, error)
}

// EventPublisher puerto hacia el bus de eventos de órdenes. Opcional (nil = sin eventos).
type EventPublisher interface {
	PublishEvent(ctx context.Context, key string, event any) error
}

// OrderTransitionEvent evento emitido en cada transición de estado de una orden.
type OrderTransitionEvent struct {
	OrderID      string    `json:"order_id"`
	From         string    `json:"from"`
	To           string    `json:"to"`
	Reservations []string  `json:"reservations,omitempty"`
	At           time.Time `json:"at"`
}

// LifecycleUseCase coordina las transiciones de la orden contra el motor de reservas.
type LifecycleUseCase struct {
	orders       repository.SalesOrderRepository
	reservations ReservationManager
	resRepo      repository.ReservationRepository
	itemRepo     repository.ItemRepository
	publisher    EventPublisher
}

// NewLifecycleUseCase construye el coordinador. publisher puede ser nil.
func NewLifecycleUseCase(
	orders repository.SalesOrderRepository,
	reservations ReservationManager,
	resRepo repository.ReservationRepository,
	itemRepo repository.ItemRepository,
	publisher EventPublisher,
) *LifecycleUseCase {
	return &LifecycleUseCase{
		orders:       orders,
		reservations: reservations,
		resRepo:      resRepo,
		itemRepo:     itemRepo,
		publisher:    publisher,
	}
}

// Result es el estado de la orden tras una transición junto con las reservas afectadas.
type Result struct {
	Order        *entity.SalesOrder
	Reservations []*entity.Reservation
}

// DraftLine línea para crear una orden en borrador.
type DraftLine struct {
	ItemID string
	Qty    int64
}

// CreateDraft crea una orden en borrador con sus líneas. Valida que los items existan.
func (uc *LifecycleUseCase) CreateDraft(ctx context.Context, lines []DraftLine) (*entity.SalesOrder, error) {
	if len(lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now().UTC()
	order := &entity.SalesOrder{
		ID:        uuid.New().String(),
		Estado:    entity.OrderBorrador,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, l := range lines {
		if l.ItemID == "" || l.Qty <= 0 {
			return nil, domain.ErrInvalidInput
		}
		item, err := uc.itemRepo.GetByID(ctx, l.ItemID)
		if err != nil {
			return nil, err
		}
		if item == nil {
			return nil, domain.ErrNotFound
		}
		order.Lines = append(order.Lines, &entity.SalesOrderLine{
			ID:      uuid.New().String(),
			OrderID: order.ID,
			ItemID:  l.ItemID,
			Qty:     l.Qty,
		})
	}
	if err := uc.orders.Create(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// Get devuelve la orden con líneas y reservas asociadas.
func (uc *LifecycleUseCase) Get(ctx context.Context, orderID string) (*Result, error) {
	order, err := uc.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	reservations, err := uc.resRepo.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return &Result{Order: order, Reservations: reservations}, nil
}

// List devuelve órdenes filtradas opcionalmente por estado.
func (uc *LifecycleUseCase) List(ctx context.Context, estado string, limit, offset int) ([]*entity.SalesOrder, error) {
	if estado != "" && !entity.ValidOrderState(estado) {
		return nil, domain.ErrInvalidInput
	}
	return uc.orders.List(ctx, estado, limit, offset)
}

// Confirm reserva stock por cada línea de la orden. Si una línea falla, libera
// las reservas ya creadas en esta transición (compensación, no rollback) y la
// orden permanece en borrador, señalando qué línea quedó sin stock.
func (uc *LifecycleUseCase) Confirm(ctx context.Context, orderID, warehouseID string) (*Result, error) {
	if warehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	order, err := uc.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if order.Estado != entity.OrderBorrador {
		return nil, domain.ErrOrderStateConflict
	}
	if err := uc.orders.SetWarehouse(ctx, orderID, warehouseID); err != nil {
		return nil, err
	}

	created := make([]*entity.Reservation, 0, len(order.Lines))
	for _, line := range order.Lines {
		res, err := uc.reservations.Reserve(ctx, stock.ReserveInput{
			ItemID:      line.ItemID,
			WarehouseID: warehouseID,
			Qty:         line.Qty,
			Origin:      "orden:" + orderID,
			OrderID:     orderID,
			LineID:      line.ID,
		})
		if err != nil {
			uc.releaseAll(ctx, created)
			metrics.OrderConfirmFailed.WithLabelValues(confirmFailReason(err)).Inc()
			return nil, &domain.OrderLineError{OrderID: orderID, LineID: line.ID, ItemID: line.ItemID, Err: err}
		}
		created = append(created, res)
	}

	ok, err := uc.orders.TransitionState(ctx, orderID, entity.OrderBorrador, entity.OrderConfirmada)
	if err != nil {
		uc.releaseAll(ctx, created)
		return nil, err
	}
	if !ok {
		// Otro caller movió la orden mientras reservábamos: deshacer y avisar.
		uc.releaseAll(ctx, created)
		return nil, domain.ErrOrderStateConflict
	}

	order.Estado = entity.OrderConfirmada
	order.WarehouseID = warehouseID
	metrics.OrderTransitions.WithLabelValues(entity.OrderConfirmada).Inc()
	uc.publish(ctx, orderID, entity.OrderBorrador, entity.OrderConfirmada, created)
	return &Result{Order: order, Reservations: created}, nil
}

// Cancel libera todas las reservas activas de la orden y la deja en cancelada.
// Es idempotente: cancelar una orden ya cancelada devuelve su estado sin
// efectos; las reservas terminales se saltan. Las consumidas no se revierten.
func (uc *LifecycleUseCase) Cancel(ctx context.Context, orderID, idempotencyKey string) (*Result, error) {
	order, err := uc.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if order.Estado == entity.OrderCancelada {
		reservations, err := uc.resRepo.ListByOrder(ctx, orderID)
		if err != nil {
			return nil, err
		}
		return &Result{Order: order, Reservations: reservations}, nil
	}
	if !entity.CanTransitionOrder(order.Estado, entity.OrderCancelada) {
		return nil, domain.ErrOrderStateConflict
	}

	// Converge releyendo el estado vigente de cada reserva, sin memoria de
	// ninguna transición en vuelo: puede invocarse tras un confirm parcial.
	reservations, err := uc.resRepo.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	affected := make([]*entity.Reservation, 0, len(reservations))
	for _, res := range reservations {
		if res.Estado != entity.ReservationActivo {
			affected = append(affected, res)
			continue
		}
		released, err := uc.reservations.Release(ctx, res.ID)
		if err != nil {
			return nil, fmt.Errorf("cancelar orden %s: liberar reserva %s: %w", orderID, res.ID, err)
		}
		affected = append(affected, released)
	}

	from := order.Estado
	ok, err := uc.orders.TransitionState(ctx, orderID, from, entity.OrderCancelada)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Reintento o carrera: si la orden ya quedó cancelada el resultado es el mismo.
		current, gerr := uc.orders.GetByID(ctx, orderID)
		if gerr != nil {
			return nil, gerr
		}
		if current == nil || current.Estado != entity.OrderCancelada {
			return nil, domain.ErrOrderStateConflict
		}
		order = current
	} else {
		order.Estado = entity.OrderCancelada
	}

	if idempotencyKey != "" {
		log.Debug().Str("order_id", orderID).Str("idempotency_key", idempotencyKey).Msg("cancelación con clave de reintento")
	}
	metrics.OrderTransitions.WithLabelValues(entity.OrderCancelada).Inc()
	uc.publish(ctx, orderID, from, entity.OrderCancelada, affected)
	return &Result{Order: order, Reservations: affected}, nil
}

// Complete consume todas las reservas activas de la orden confirmada (sale el
// stock físico, con un movimiento de venta por línea) y la deja en completada.
// La clave de idempotencia de cada movimiento se deriva de (orden, línea,
// transición), por lo que un reintento no duplica consumos.
func (uc *LifecycleUseCase) Complete(ctx context.Context, orderID string) (*Result, error) {
	order, err := uc.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if order.Estado != entity.OrderConfirmada {
		return nil, domain.ErrOrderStateConflict
	}

	reservations, err := uc.resRepo.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	affected := make([]*entity.Reservation, 0, len(reservations))
	for _, res := range reservations {
		if res.Estado != entity.ReservationActivo {
			affected = append(affected, res)
			continue
		}
		cost := decimal.Zero
		if item, ierr := uc.itemRepo.GetByID(ctx, res.ItemID); ierr == nil && item != nil {
			cost = item.Cost
		}
		consumed, err := uc.reservations.Consume(ctx, res.ID, stock.ConsumeContext{
			Tipo:           entity.MovementVenta,
			UnitCost:       cost,
			IdempotencyKey: fmt.Sprintf("orden:%s:linea:%s:completar", orderID, res.LineID),
		})
		if err != nil {
			if errors.Is(err, domain.ErrAlreadyTerminal) {
				continue
			}
			return nil, fmt.Errorf("completar orden %s: consumir reserva %s: %w", orderID, res.ID, err)
		}
		affected = append(affected, consumed)
	}

	ok, err := uc.orders.TransitionState(ctx, orderID, entity.OrderConfirmada, entity.OrderCompletada)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrOrderStateConflict
	}

	order.Estado = entity.OrderCompletada
	metrics.OrderTransitions.WithLabelValues(entity.OrderCompletada).Inc()
	uc.publish(ctx, orderID, entity.OrderConfirmada, entity.OrderCompletada, affected)
	return &Result{Order: order, Reservations: affected}, nil
}

// releaseAll libera en orden inverso las reservas creadas durante un confirm fallido.
func (uc *LifecycleUseCase) releaseAll(ctx context.Context, created []*entity.Reservation) {
	for i := len(created) - 1; i >= 0; i-- {
		if _, err := uc.reservations.Release(ctx, created[i].ID); err != nil {
			log.Error().Err(err).Str("reservation_id", created[i].ID).Msg("liberación compensatoria fallida")
		}
	}
}

func (uc *LifecycleUseCase) publish(ctx context.Context, orderID, from, to string, reservations []*entity.Reservation) {
	if uc.publisher == nil {
		return
	}
	ids := make([]string, 0, len(reservations))
	for _, r := range reservations {
		ids = append(ids, r.ID)
	}
	ev := OrderTransitionEvent{OrderID: orderID, From: from, To: to, Reservations: ids, At: time.Now().UTC()}
	if err := uc.publisher.PublishEvent(ctx, "orden-"+orderID, ev); err != nil {
		// El evento es informativo: no afecta el estado del stock.
		log.Warn().Err(err).Str("order_id", orderID).Msg("publicar evento de orden")
	}
}

func confirmFailReason(err error) string {
	if errors.Is(err, domain.ErrInsufficientStock) {
		return "insufficient_stock"
	}
	return "error"
}
