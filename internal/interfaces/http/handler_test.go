package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aajcs/backend-taller-template-web-sub003/internal/application/alerts"
	"github.com/aajcs/backend-taller-template-web-sub003/internal/application/orders"
	"github.com/aajcs/backend-taller-template-web-sub003/internal/application/stock"
	"github.com/aajcs/backend-taller-template-web-sub003/internal/domain"
	"github.com/aajcs/backend-taller-template-web-sub003/internal/domain/entity"
	"github.com/aajcs/backend-taller-template-web-sub003/internal/domain/repository"
)

type stubLevelRepo struct {
	levels []*repository.ItemStockLevel
}

func (s *stubLevelRepo) ListWithMinimum(_ context.Context, _, _ int) ([]*repository.ItemStockLevel, error) {
	return s.levels, nil
}

func (s *stubLevelRepo) GetByItem(_ context.Context, itemID string) (*repository.ItemStockLevel, error) {
	for _, l := range s.levels {
		if l.ItemID == itemID {
			return l, nil
		}
	}
	return nil, nil
}

type stubOrderRepo struct {
	order *entity.SalesOrder
}

func (s *stubOrderRepo) Create(_ context.Context, o *entity.SalesOrder) error { return nil }
func (s *stubOrderRepo) GetByID(_ context.Context, id string) (*entity.SalesOrder, error) {
	if s.order != nil && s.order.ID == id {
		return s.order, nil
	}
	return nil, nil
}
func (s *stubOrderRepo) List(_ context.Context, _ string, _, _ int) ([]*entity.SalesOrder, error) {
	return nil, nil
}
func (s *stubOrderRepo) TransitionState(_ context.Context, _, from, _ string) (bool, error) {
	return s.order != nil && s.order.Estado == from, nil
}
func (s *stubOrderRepo) SetWarehouse(_ context.Context, _, warehouseID string) error {
	if s.order != nil {
		s.order.WarehouseID = warehouseID
	}
	return nil
}

type stubResRepo struct{}

func (stubResRepo) Create(_ context.Context, _ *entity.Reservation) error { return nil }
func (stubResRepo) GetByID(_ context.Context, _ string) (*entity.Reservation, error) {
	return nil, nil
}
func (stubResRepo) TransitionFromActivo(_ context.Context, _, _ string) (*entity.Reservation, error) {
	return nil, nil
}
func (stubResRepo) ListByOrder(_ context.Context, _ string) ([]*entity.Reservation, error) {
	return nil, nil
}

// insufficientManager rechaza toda reserva por falta de stock.
type insufficientManager struct{}

func (insufficientManager) Reserve(_ context.Context, in stock.ReserveInput) (*entity.Reservation, error) {
	return nil, &domain.InsufficientStockError{
		ItemID: in.ItemID, WarehouseID: in.WarehouseID, Solicitado: in.Qty, Disponible: 1,
	}
}
func (insufficientManager) Release(_ context.Context, _ string) (*entity.Reservation, error) {
	return nil, nil
}
func (insufficientManager) Consume(_ context.Context, _ string, _ stock.ConsumeContext) (*entity.Reservation, error) {
	return nil, domain.ErrAlreadyTerminal
}

type stubStockReader struct {
	records []*entity.StockRecord
}

func (s *stubStockReader) Get(_ context.Context, itemID, warehouseID string) (*entity.StockRecord, error) {
	for _, r := range s.records {
		if r.ItemID == itemID && r.WarehouseID == warehouseID {
			return r, nil
		}
	}
	return nil, nil
}

func (s *stubStockReader) TotalsByItem(_ context.Context, itemID string) (int64, int64, error) {
	var onHand, reserved int64
	for _, r := range s.records {
		if r.ItemID == itemID {
			onHand += r.OnHand
			reserved += r.Reserved
		}
	}
	return onHand, reserved, nil
}

func (s *stubStockReader) ListByWarehouse(_ context.Context, warehouseID string, _, _ int) ([]*entity.StockRecord, error) {
	var out []*entity.StockRecord
	for _, r := range s.records {
		if r.WarehouseID == warehouseID {
			out = append(out, r)
		}
	}
	return out, nil
}

type stubItemRepo struct{}

func (stubItemRepo) GetByID(_ context.Context, id string) (*entity.Item, error) {
	return &entity.Item{ID: id, Cost: decimal.NewFromInt(10)}, nil
}
func (stubItemRepo) List(_ context.Context, _, _ int) ([]*entity.Item, error) { return nil, nil }

func newTestApp(t *testing.T, order *entity.SalesOrder) *fiber.App {
	t.Helper()
	app := fiber.New()
	evaluator := alerts.NewEvaluatorUseCase(&stubLevelRepo{levels: []*repository.ItemStockLevel{
		{ItemID: "filtro", Name: "Filtro de aceite", StockMinimo: 20, Cost: decimal.NewFromInt(30), OnHand: 8, Reserved: 0},
	}}, nil, 0)
	lifecycle := orders.NewLifecycleUseCase(
		&stubOrderRepo{order: order}, insufficientManager{}, stubResRepo{}, stubItemRepo{}, nil,
	)
	reader := &stubStockReader{records: []*entity.StockRecord{
		{ItemID: "filtro", WarehouseID: "bodega-1", OnHand: 8, Reserved: 2},
		{ItemID: "bujia", WarehouseID: "bodega-1", OnHand: 40, Reserved: 0},
		{ItemID: "filtro", WarehouseID: "bodega-2", OnHand: 3, Reserved: 0},
	}}
	Router(app, RouterDeps{StockReader: reader, Orders: lifecycle, Alerts: evaluator})
	return app
}

// El stock por bodega lista solo los registros de la bodega pedida.
func TestListStockByWarehouse_Endpoint(t *testing.T) {
	app := newTestApp(t, nil)

	req := httptest.NewRequest("GET", "/api/inventory/warehouses/bodega-1/stock", nil)
	resp, err := app.Test(req, 2000)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var recs []struct {
		ItemID      string `json:"item_id"`
		WarehouseID string `json:"warehouse_id"`
		Available   int64  `json:"available"`
	}
	require.NoError(t, json.Unmarshal(body, &recs))
	require.Len(t, recs, 2)
	for _, r := range recs {
		assert.Equal(t, "bodega-1", r.WarehouseID)
	}
}

func TestAlertReport_Endpoint(t *testing.T) {
	app := newTestApp(t, nil)

	req := httptest.NewRequest("GET", "/api/alerts/report", nil)
	resp, err := app.Test(req, 2000)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var report alerts.Report
	require.NoError(t, json.Unmarshal(body, &report))
	assert.Equal(t, 1, report.Urgente)
	require.Len(t, report.Items, 1)
	assert.Equal(t, entity.AlertUrgente, report.Items[0].Severity)
}

func TestItemAlert_NoEncontrado(t *testing.T) {
	app := newTestApp(t, nil)

	req := httptest.NewRequest("GET", "/api/alerts/items/fantasma", nil)
	resp, err := app.Test(req, 2000)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

// Confirmar sin stock responde 409 con el detalle de la línea afectada.
func TestConfirmOrder_StockInsuficiente(t *testing.T) {
	order := &entity.SalesOrder{
		ID:     "orden-1",
		Estado: entity.OrderBorrador,
		Lines: []*entity.SalesOrderLine{
			{ID: "linea-1", OrderID: "orden-1", ItemID: "filtro", Qty: 5},
		},
		CreatedAt: time.Now().UTC(),
	}
	app := newTestApp(t, order)

	req := httptest.NewRequest("POST", "/api/orders/orden-1/confirm",
		strings.NewReader(`{"warehouse_id":"bodega-1"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, 2000)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var errResp struct {
		Code       string `json:"code"`
		LineID     string `json:"line_id"`
		ItemID     string `json:"item_id"`
		Solicitado int64  `json:"solicitado"`
		Disponible int64  `json:"disponible"`
	}
	require.NoError(t, json.Unmarshal(body, &errResp))
	assert.Equal(t, "INSUFFICIENT_STOCK", errResp.Code)
	assert.Equal(t, "linea-1", errResp.LineID)
	assert.Equal(t, "filtro", errResp.ItemID)
	assert.EqualValues(t, 5, errResp.Solicitado)
	assert.EqualValues(t, 1, errResp.Disponible)
}

func TestConfirmOrder_NoExiste(t *testing.T) {
	app := newTestApp(t, nil)

	req := httptest.NewRequest("POST", "/api/orders/nada/confirm",
		strings.NewReader(`{"warehouse_id":"bodega-1"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, 2000)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
