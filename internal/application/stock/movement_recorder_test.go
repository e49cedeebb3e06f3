package stock

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aajcs/backend-taller-template-web-sub003/internal/domain"
	"github.com/aajcs/backend-taller-template-web-sub003/internal/domain/entity"
)

// Reusar una clave de idempotencia devuelve el movimiento original sin agregar
// filas: el replay es un no-op.
func TestAppend_ReplayPorClave(t *testing.T) {
	ctx := context.Background()
	movRepo := newFakeMovementRepo()
	rec := NewMovementRecorder(movRepo)

	in := AppendInput{
		Tipo:           entity.MovementEntrada,
		ItemID:         testItem,
		Qty:            5,
		UnitCost:       decimal.NewFromInt(10),
		WarehouseTo:    testWarehouse,
		IdempotencyKey: "compra:c1",
	}

	first, replayed, err := rec.Append(ctx, in)
	require.NoError(t, err)
	assert.False(t, replayed)

	second, replayed, err := rec.Append(ctx, in)
	require.NoError(t, err)
	assert.True(t, replayed)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, movRepo.count())
}

// Sin clave de idempotencia cada llamada agrega su propia fila.
func TestAppend_SinClave(t *testing.T) {
	ctx := context.Background()
	movRepo := newFakeMovementRepo()
	rec := NewMovementRecorder(movRepo)

	in := AppendInput{Tipo: entity.MovementAjuste, ItemID: testItem, Qty: 1, WarehouseTo: testWarehouse}
	_, _, err := rec.Append(ctx, in)
	require.NoError(t, err)
	_, _, err = rec.Append(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, 2, movRepo.count())
}

func TestAppend_TipoInvalido(t *testing.T) {
	rec := NewMovementRecorder(newFakeMovementRepo())
	_, _, err := rec.Append(context.Background(), AppendInput{Tipo: "prestamo", ItemID: testItem, Qty: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
