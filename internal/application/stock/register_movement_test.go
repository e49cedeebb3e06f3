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

const testWarehouse2 = "bodega-2"

func newMovementFixture(t *testing.T) (*RegisterMovementUseCase, *fakeStockRepo, *fakeMovementRepo) {
	t.Helper()
	stockRepo := newFakeStockRepo()
	movRepo := newFakeMovementRepo()
	items := newFakeItemRepo(&entity.Item{ID: testItem, Name: "filtro de aceite", Cost: decimal.NewFromInt(12)})
	warehouses := newFakeWarehouseRepo(testWarehouse, testWarehouse2)
	uc := NewRegisterMovementUseCase(stockRepo, items, warehouses, NewMovementRecorder(movRepo))
	return uc, stockRepo, movRepo
}

// Una entrada crea el registro de stock de forma perezosa y deja el movimiento
// en el libro mayor con la fotografía resultante.
func TestRegister_Entrada(t *testing.T) {
	ctx := context.Background()
	uc, stockRepo, movRepo := newMovementFixture(t)

	mov, err := uc.Register(ctx, MovementInput{
		Tipo:        entity.MovementEntrada,
		ItemID:      testItem,
		Qty:         15,
		UnitCost:    decimal.NewFromInt(12),
		WarehouseTo: testWarehouse,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.MovementEntrada, mov.Tipo)
	assert.Equal(t, int64(15), mov.ResultadoCantidad)

	rec, _ := stockRepo.Get(ctx, testItem, testWarehouse)
	require.NotNil(t, rec)
	assert.Equal(t, int64(15), rec.OnHand)
	assert.Equal(t, 1, movRepo.count())
}

// Una salida que excede el disponible se rechaza sin aplicar nada: el stock
// reservado nunca sale por un movimiento directo.
func TestRegister_SalidaInsuficiente(t *testing.T) {
	ctx := context.Background()
	uc, stockRepo, movRepo := newMovementFixture(t)
	stockRepo.seed(testItem, testWarehouse, 10, 6) // disponible 4

	_, err := uc.Register(ctx, MovementInput{
		Tipo:          entity.MovementSalida,
		ItemID:        testItem,
		Qty:           5,
		WarehouseFrom: testWarehouse,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	rec, _ := stockRepo.Get(ctx, testItem, testWarehouse)
	assert.Equal(t, int64(10), rec.OnHand)
	assert.Equal(t, int64(6), rec.Reserved)
	assert.Equal(t, 0, movRepo.count())
}

// Un ajuste negativo que dejaría onHand bajo cero se rechaza.
func TestRegister_AjusteBajoCero(t *testing.T) {
	ctx := context.Background()
	uc, stockRepo, _ := newMovementFixture(t)
	stockRepo.seed(testItem, testWarehouse, 3, 0)

	_, err := uc.Register(ctx, MovementInput{
		Tipo:        entity.MovementAjuste,
		ItemID:      testItem,
		Qty:         -5,
		WarehouseTo: testWarehouse,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

// Una transferencia debita origen, abona destino y deja una sola fila con
// ambas bodegas.
func TestRegister_Transferencia(t *testing.T) {
	ctx := context.Background()
	uc, stockRepo, movRepo := newMovementFixture(t)
	stockRepo.seed(testItem, testWarehouse, 10, 0)

	mov, err := uc.Register(ctx, MovementInput{
		Tipo:          entity.MovementTransferencia,
		ItemID:        testItem,
		Qty:           4,
		WarehouseFrom: testWarehouse,
		WarehouseTo:   testWarehouse2,
	})
	require.NoError(t, err)
	assert.Equal(t, testWarehouse, mov.WarehouseFrom)
	assert.Equal(t, testWarehouse2, mov.WarehouseTo)

	origin, _ := stockRepo.Get(ctx, testItem, testWarehouse)
	dest, _ := stockRepo.Get(ctx, testItem, testWarehouse2)
	assert.Equal(t, int64(6), origin.OnHand)
	assert.Equal(t, int64(4), dest.OnHand)
	assert.Equal(t, 1, movRepo.count())
}

// Una transferencia que excede el disponible del origen no toca ninguna bodega.
func TestRegister_TransferenciaInsuficiente(t *testing.T) {
	ctx := context.Background()
	uc, stockRepo, _ := newMovementFixture(t)
	stockRepo.seed(testItem, testWarehouse, 3, 2) // disponible 1

	_, err := uc.Register(ctx, MovementInput{
		Tipo:          entity.MovementTransferencia,
		ItemID:        testItem,
		Qty:           2,
		WarehouseFrom: testWarehouse,
		WarehouseTo:   testWarehouse2,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	origin, _ := stockRepo.Get(ctx, testItem, testWarehouse)
	assert.Equal(t, int64(3), origin.OnHand)
	dest, _ := stockRepo.Get(ctx, testItem, testWarehouse2)
	assert.Nil(t, dest)
}

// Reintentar una entrada con la misma clave devuelve el movimiento original y
// el stock se aplica una sola vez.
func TestRegister_ReplayEntrada(t *testing.T) {
	ctx := context.Background()
	uc, stockRepo, movRepo := newMovementFixture(t)

	in := MovementInput{
		Tipo:           entity.MovementCompra,
		ItemID:         testItem,
		Qty:            8,
		UnitCost:       decimal.NewFromInt(12),
		WarehouseTo:    testWarehouse,
		IdempotencyKey: "compra:oc-77",
	}

	first, err := uc.Register(ctx, in)
	require.NoError(t, err)

	second, err := uc.Register(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	rec, _ := stockRepo.Get(ctx, testItem, testWarehouse)
	assert.Equal(t, int64(8), rec.OnHand)
	assert.Equal(t, 1, movRepo.count())
}

// Un item o bodega fuera del catálogo se rechaza con NotFound.
func TestRegister_ReferenciasInvalidas(t *testing.T) {
	ctx := context.Background()
	uc, _, _ := newMovementFixture(t)

	_, err := uc.Register(ctx, MovementInput{
		Tipo: entity.MovementEntrada, ItemID: "item-fantasma", Qty: 1,
		UnitCost: decimal.NewFromInt(1), WarehouseTo: testWarehouse,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.Register(ctx, MovementInput{
		Tipo: entity.MovementEntrada, ItemID: testItem, Qty: 1,
		UnitCost: decimal.NewFromInt(1), WarehouseTo: "bodega-fantasma",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
