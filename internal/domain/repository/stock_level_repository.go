package repository

import (
	"context"

	"github.com/shopspring/decimal"
)

// ItemStockLevel agrega el stock de un item entre todas las bodegas junto con
// su umbral de reposición y costo (modelo de lectura para alertas).
type ItemStockLevel struct {
	ItemID      string
	Name        string
	StockMinimo int64
	Cost        decimal.Decimal
	OnHand      int64
	Reserved    int64
}

// Available devuelve OnHand - Reserved.
func (l *ItemStockLevel) Available() int64 { return l.OnHand - l.Reserved }

// StockLevelRepository define el puerto de solo lectura que alimenta el
// evaluador de alertas. Nunca muta StockRecords.
type StockLevelRepository interface {
	// ListWithMinimum devuelve los items con stock_minimo > 0 y su stock agregado.
	ListWithMinimum(ctx context.Context, limit, offset int) ([]*ItemStockLevel, error)

	// GetByItem devuelve el nivel agregado de un item, o nil si no existe.
	GetByItem(ctx context.Context, itemID string) (*ItemStockLevel, error)
}
