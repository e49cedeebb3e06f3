package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// La tabla de transiciones de la orden debe permitir exactamente
// borrador→confirmada/cancelada y confirmada→completada/cancelada.
func TestCanTransitionOrder_TablaExplicita(t *testing.T) {
	casos := []struct {
		from, to string
		ok       bool
	}{
		{OrderBorrador, OrderConfirmada, true},
		{OrderBorrador, OrderCancelada, true},
		{OrderBorrador, OrderCompletada, false},
		{OrderConfirmada, OrderCompletada, true},
		{OrderConfirmada, OrderCancelada, true},
		{OrderConfirmada, OrderBorrador, false},
		{OrderCompletada, OrderCancelada, false},
		{OrderCompletada, OrderConfirmada, false},
		{OrderCancelada, OrderConfirmada, false},
		{OrderCancelada, OrderBorrador, false},
		{"desconocido", OrderConfirmada, false},
	}
	for _, c := range casos {
		assert.Equal(t, c.ok, CanTransitionOrder(c.from, c.to), "%s -> %s", c.from, c.to)
	}
}

func TestSalesOrder_IsTerminal(t *testing.T) {
	assert.False(t, (&SalesOrder{Estado: OrderBorrador}).IsTerminal())
	assert.False(t, (&SalesOrder{Estado: OrderConfirmada}).IsTerminal())
	assert.True(t, (&SalesOrder{Estado: OrderCompletada}).IsTerminal())
	assert.True(t, (&SalesOrder{Estado: OrderCancelada}).IsTerminal())
}

func TestValidOrderState(t *testing.T) {
	assert.True(t, ValidOrderState(OrderBorrador))
	assert.False(t, ValidOrderState("pendiente"))
}
