package entity

import "github.com/shopspring/decimal"

// Severidades de alerta de stock, de mayor a menor.
const (
	AlertCritico     = "critico"     // disponible == 0
	AlertUrgente     = "urgente"     // 0 < porcentaje < 50
	AlertAdvertencia = "advertencia" // 50 <= porcentaje < 100
	AlertOK          = "ok"          // porcentaje >= 100
)

// AlertPercentage calcula disponible / stockMinimo * 100 (0 si stockMinimo es 0).
func AlertPercentage(available, stockMinimo int64) float64 {
	if stockMinimo <= 0 {
		return 0
	}
	return float64(available) / float64(stockMinimo) * 100
}

// ClassifyAlert clasifica la severidad de escasez de un item según su disponible
// y su stock mínimo configurado. Sin umbral (stockMinimo <= 0) un item con
// disponible positivo no tiene escasez que medir: es ok.
func ClassifyAlert(available, stockMinimo int64) string {
	if available <= 0 {
		return AlertCritico
	}
	if stockMinimo <= 0 {
		return AlertOK
	}
	pct := AlertPercentage(available, stockMinimo)
	switch {
	case pct < 50:
		return AlertUrgente
	case pct < 100:
		return AlertAdvertencia
	default:
		return AlertOK
	}
}

// Shortfall devuelve stockMinimo - available con piso en 0.
func Shortfall(available, stockMinimo int64) int64 {
	d := stockMinimo - available
	if d < 0 {
		return 0
	}
	return d
}

// ItemAlert es la evaluación de escasez de un item (agregada entre bodegas).
type ItemAlert struct {
	ItemID      string
	Name        string
	StockMinimo int64
	OnHand      int64
	Reserved    int64
	Available   int64
	Percentage  float64
	Shortfall   int64
	Severity    string
}

// PurchaseSuggestion es una sugerencia de compra para un item bajo mínimo,
// valorizada al costo del item.
type PurchaseSuggestion struct {
	ItemID        string
	Name          string
	SuggestedQty  int64
	UnitCost      decimal.Decimal
	EstimatedCost decimal.Decimal
}
