package stock

import (
	"context"
	"sync"
	"time"

	"github.com/aajcs/backend-taller-template-web-sub003/internal/domain"
	"github.com/aajcs/backend-taller-template-web-sub003/internal/domain/entity"
)

// Fakes en memoria con la misma semántica atómica que los adaptadores de
// PostgreSQL: TryAdjust valida la precondición y aplica bajo un único lock,
// el libro mayor rechaza claves de idempotencia repetidas.

type fakeStockRepo struct {
	mu      sync.Mutex
	records map[string]*entity.StockRecord
}

func newFakeStockRepo() *fakeStockRepo {
	return &fakeStockRepo{records: make(map[string]*entity.StockRecord)}
}

func stockKey(itemID, warehouseID string) string { return itemID + "|" + warehouseID }

func (f *fakeStockRepo) seed(itemID, warehouseID string, onHand, reserved int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records[stockKey(itemID, warehouseID)] = &entity.StockRecord{
		ItemID: itemID, WarehouseID: warehouseID, OnHand: onHand, Reserved: reserved,
	}
}

func (f *fakeStockRepo) Get(_ context.Context, itemID, warehouseID string) (*entity.StockRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.records[stockKey(itemID, warehouseID)]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (f *fakeStockRepo) GetOrCreate(_ context.Context, itemID, warehouseID string) (*entity.StockRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := stockKey(itemID, warehouseID)
	rec, ok := f.records[key]
	if !ok {
		rec = &entity.StockRecord{ItemID: itemID, WarehouseID: warehouseID}
		f.records[key] = rec
	}
	cp := *rec
	return &cp, nil
}

func (f *fakeStockRepo) TryAdjust(_ context.Context, itemID, warehouseID string, onHandDelta, reservedDelta int64) (*entity.StockRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.records[stockKey(itemID, warehouseID)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	newOnHand := rec.OnHand + onHandDelta
	newReserved := rec.Reserved + reservedDelta
	if newOnHand < 0 || newReserved < 0 || newReserved > newOnHand {
		return nil, domain.ErrStaleWrite
	}
	rec.OnHand = newOnHand
	rec.Reserved = newReserved
	rec.UpdatedAt = time.Now()
	cp := *rec
	return &cp, nil
}

func (f *fakeStockRepo) ListByWarehouse(_ context.Context, warehouseID string, limit, offset int) ([]*entity.StockRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.StockRecord
	for _, rec := range f.records {
		if rec.WarehouseID == warehouseID {
			cp := *rec
			out = append(out, &cp)
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeStockRepo) TotalsByItem(_ context.Context, itemID string) (int64, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var onHand, reserved int64
	for _, rec := range f.records {
		if rec.ItemID == itemID {
			onHand += rec.OnHand
			reserved += rec.Reserved
		}
	}
	return onHand, reserved, nil
}

type fakeReservationRepo struct {
	mu           sync.Mutex
	reservations map[string]*entity.Reservation
}

func newFakeReservationRepo() *fakeReservationRepo {
	return &fakeReservationRepo{reservations: make(map[string]*entity.Reservation)}
}

func (f *fakeReservationRepo) Create(_ context.Context, r *entity.Reservation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *r
	f.reservations[r.ID] = &cp
	return nil
}

func (f *fakeReservationRepo) GetByID(_ context.Context, id string) (*entity.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.reservations[id]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (f *fakeReservationRepo) TransitionFromActivo(_ context.Context, id, to string) (*entity.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.reservations[id]
	if !ok || r.Estado != entity.ReservationActivo {
		return nil, nil
	}
	r.Estado = to
	r.UpdatedAt = time.Now()
	cp := *r
	return &cp, nil
}

func (f *fakeReservationRepo) ListByOrder(_ context.Context, orderID string) ([]*entity.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Reservation
	for _, r := range f.reservations {
		if r.OrderID == orderID {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeMovementRepo struct {
	mu        sync.Mutex
	movements []*entity.Movement
	byKey     map[string]*entity.Movement
}

func newFakeMovementRepo() *fakeMovementRepo {
	return &fakeMovementRepo{byKey: make(map[string]*entity.Movement)}
}

func (f *fakeMovementRepo) Append(_ context.Context, m *entity.Movement) (*entity.Movement, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if m.IdempotencyKey != "" {
		if prev, ok := f.byKey[m.IdempotencyKey]; ok {
			cp := *prev
			return &cp, true, nil
		}
	}
	cp := *m
	f.movements = append(f.movements, &cp)
	if cp.IdempotencyKey != "" {
		f.byKey[cp.IdempotencyKey] = &cp
	}
	out := cp
	return &out, false, nil
}

func (f *fakeMovementRepo) GetByIdempotencyKey(_ context.Context, key string) (*entity.Movement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if prev, ok := f.byKey[key]; ok {
		cp := *prev
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeMovementRepo) ListByItem(_ context.Context, itemID string, _, _ *time.Time, limit, offset int) ([]*entity.Movement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Movement
	for _, m := range f.movements {
		if m.ItemID == itemID {
			cp := *m
			out = append(out, &cp)
		}
	}
	return paginate(out, limit, offset), nil
}

func (f *fakeMovementRepo) ListByWarehouse(_ context.Context, warehouseID string, _, _ *time.Time, limit, offset int) ([]*entity.Movement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Movement
	for _, m := range f.movements {
		if m.WarehouseFrom == warehouseID || m.WarehouseTo == warehouseID {
			cp := *m
			out = append(out, &cp)
		}
	}
	return paginate(out, limit, offset), nil
}

func paginate(in []*entity.Movement, limit, offset int) []*entity.Movement {
	if offset >= len(in) {
		return nil
	}
	in = in[offset:]
	if limit > 0 && limit < len(in) {
		in = in[:limit]
	}
	return in
}

func (f *fakeMovementRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.movements)
}

type fakeItemRepo struct {
	mu    sync.Mutex
	items map[string]*entity.Item
}

func newFakeItemRepo(items ...*entity.Item) *fakeItemRepo {
	f := &fakeItemRepo{items: make(map[string]*entity.Item)}
	for _, it := range items {
		f.items[it.ID] = it
	}
	return f
}

func (f *fakeItemRepo) GetByID(_ context.Context, id string) (*entity.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	it, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	cp := *it
	return &cp, nil
}

func (f *fakeItemRepo) List(_ context.Context, _, _ int) ([]*entity.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Item
	for _, it := range f.items {
		cp := *it
		out = append(out, &cp)
	}
	return out, nil
}

type fakeWarehouseRepo struct {
	warehouses map[string]*entity.Warehouse
}

func newFakeWarehouseRepo(ids ...string) *fakeWarehouseRepo {
	f := &fakeWarehouseRepo{warehouses: make(map[string]*entity.Warehouse)}
	for _, id := range ids {
		f.warehouses[id] = &entity.Warehouse{ID: id, Name: "bodega " + id}
	}
	return f
}

func (f *fakeWarehouseRepo) GetByID(_ context.Context, id string) (*entity.Warehouse, error) {
	wh, ok := f.warehouses[id]
	if !ok {
		return nil, nil
	}
	cp := *wh
	return &cp, nil
}

func (f *fakeWarehouseRepo) List(_ context.Context, _, _ int) ([]*entity.Warehouse, error) {
	var out []*entity.Warehouse
	for _, wh := range f.warehouses {
		cp := *wh
		out = append(out, &cp)
	}
	return out, nil
}
