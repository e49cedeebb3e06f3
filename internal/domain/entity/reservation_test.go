package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Una reserva solo transiciona desde "activo"; los estados terminales no
// admiten ninguna transición (nunca se reactiva).
func TestCanTransitionReservation(t *testing.T) {
	assert.True(t, CanTransitionReservation(ReservationActivo, ReservationConsumido))
	assert.True(t, CanTransitionReservation(ReservationActivo, ReservationLiberado))
	assert.False(t, CanTransitionReservation(ReservationActivo, ReservationActivo))
	assert.False(t, CanTransitionReservation(ReservationConsumido, ReservationLiberado))
	assert.False(t, CanTransitionReservation(ReservationConsumido, ReservationActivo))
	assert.False(t, CanTransitionReservation(ReservationLiberado, ReservationConsumido))
	assert.False(t, CanTransitionReservation(ReservationLiberado, ReservationActivo))
}

func TestReservation_IsTerminal(t *testing.T) {
	assert.False(t, (&Reservation{Estado: ReservationActivo}).IsTerminal())
	assert.True(t, (&Reservation{Estado: ReservationConsumido}).IsTerminal())
	assert.True(t, (&Reservation{Estado: ReservationLiberado}).IsTerminal())
}

func TestStockRecord_Available(t *testing.T) {
	s := &StockRecord{OnHand: 10, Reserved: 4}
	assert.Equal(t, int64(6), s.Available())
	assert.True(t, s.CanReserve(6))
	assert.False(t, s.CanReserve(7))
	assert.False(t, s.CanReserve(0))
}
