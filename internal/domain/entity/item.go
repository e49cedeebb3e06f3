package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item representa un repuesto o insumo del catálogo del taller.
// El catálogo es dato de referencia: este motor solo lo lee por ID.
// StockMinimo y StockMaximo son los umbrales de reposición por item.
type Item struct {
	ID          string
	Name        string
	StockMinimo int64
	StockMaximo int64
	Cost        decimal.Decimal // costo unitario de compra
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
