// Package alerts evalúa la escasez de stock contra los umbrales de reposición.
// Es una capa de lectura pura: clasifica, nunca muta StockRecords ni reservas.
package alerts

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/aajcs/backend-taller-template-web-sub003/internal/domain"
	"github.com/aajcs/backend-taller-template-web-sub003/internal/domain/entity"
	"github.com/aajcs/backend-taller-template-web-sub003/internal/domain/repository"
)

// Cache puerto de caché para el reporte de alertas. Opcional (nil = sin caché).
type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

const reportCacheKey = "alerts:report"

// Report agrupa el conteo de items por severidad.
type Report struct {
	Critico     int         `json:"critico"`
	Urgente     int         `json:"urgente"`
	Advertencia int         `json:"advertencia"`
	OK          int         `json:"ok"`
	GeneratedAt time.Time   `json:"generated_at"`
	Items       []ItemEntry `json:"items"`
}

// ItemEntry es la fila del reporte para un item bajo observación.
type ItemEntry struct {
	ItemID     string  `json:"item_id"`
	Name       string  `json:"name"`
	Available  int64   `json:"available"`
	Minimo     int64   `json:"stock_minimo"`
	Percentage float64 `json:"percentage"`
	Severity   string  `json:"severity"`
}

// EvaluatorUseCase evalúa alertas sobre el stock agregado por item.
type EvaluatorUseCase struct {
	levels   repository.StockLevelRepository
	cache    Cache
	cacheTTL time.Duration
}

// NewEvaluatorUseCase construye el evaluador. cache puede ser nil.
func NewEvaluatorUseCase(levels repository.StockLevelRepository, cache Cache, cacheTTL time.Duration) *EvaluatorUseCase {
	if cacheTTL <= 0 {
		cacheTTL = 30 * time.Second
	}
	return &EvaluatorUseCase{levels: levels, cache: cache, cacheTTL: cacheTTL}
}

// reportPageSize tamaño de página interno del agregado; el conteo siempre
// recorre el inventario completo.
const reportPageSize = 200

// BuildReport genera el reporte de severidades sobre TODOS los items con umbral
// configurado. Es un agregado: pagina internamente hasta agotar el inventario,
// sin depender de los parámetros de paginación de la API. El resultado se
// cachea por cacheTTL; un fallo de caché degrada a recalcular, nunca a error.
func (uc *EvaluatorUseCase) BuildReport(ctx context.Context) (*Report, error) {
	if uc.cache != nil {
		var cached Report
		hit, err := uc.cache.Get(ctx, reportCacheKey, &cached)
		if err != nil {
			log.Warn().Err(err).Msg("leer caché de alertas")
		} else if hit {
			return &cached, nil
		}
	}

	report := &Report{GeneratedAt: time.Now().UTC()}
	for offset := 0; ; offset += reportPageSize {
		levels, err := uc.levels.ListWithMinimum(ctx, reportPageSize, offset)
		if err != nil {
			return nil, err
		}
		for _, l := range levels {
			sev := entity.ClassifyAlert(l.Available(), l.StockMinimo)
			switch sev {
			case entity.AlertCritico:
				report.Critico++
			case entity.AlertUrgente:
				report.Urgente++
			case entity.AlertAdvertencia:
				report.Advertencia++
			default:
				report.OK++
			}
			report.Items = append(report.Items, ItemEntry{
				ItemID:     l.ItemID,
				Name:       l.Name,
				Available:  l.Available(),
				Minimo:     l.StockMinimo,
				Percentage: entity.AlertPercentage(l.Available(), l.StockMinimo),
				Severity:   sev,
			})
		}
		if len(levels) < reportPageSize {
			break
		}
	}

	if uc.cache != nil {
		if err := uc.cache.Set(ctx, reportCacheKey, report, uc.cacheTTL); err != nil {
			log.Warn().Err(err).Msg("guardar caché de alertas")
		}
	}
	return report, nil
}

// ListBelowMinimum devuelve las alertas de los items cuyo disponible está por
// debajo del mínimo, con su faltante.
func (uc *EvaluatorUseCase) ListBelowMinimum(ctx context.Context, limit, offset int) ([]*entity.ItemAlert, error) {
	levels, err := uc.levels.ListWithMinimum(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	var out []*entity.ItemAlert
	for _, l := range levels {
		if l.Available() >= l.StockMinimo {
			continue
		}
		out = append(out, buildAlert(l))
	}
	return out, nil
}

// PurchaseSuggestions arma sugerencias de compra por el faltante de cada item
// bajo mínimo, valorizadas al costo unitario del item.
func (uc *EvaluatorUseCase) PurchaseSuggestions(ctx context.Context, limit, offset int) ([]*entity.PurchaseSuggestion, error) {
	levels, err := uc.levels.ListWithMinimum(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	var out []*entity.PurchaseSuggestion
	for _, l := range levels {
		falta := entity.Shortfall(l.Available(), l.StockMinimo)
		if falta == 0 {
			continue
		}
		out = append(out, &entity.PurchaseSuggestion{
			ItemID:        l.ItemID,
			Name:          l.Name,
			SuggestedQty:  falta,
			UnitCost:      l.Cost,
			EstimatedCost: l.Cost.Mul(decimal.NewFromInt(falta)),
		})
	}
	return out, nil
}

// ItemAlert evalúa la alerta de un item puntual.
func (uc *EvaluatorUseCase) ItemAlert(ctx context.Context, itemID string) (*entity.ItemAlert, error) {
	l, err := uc.levels.GetByItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, domain.ErrNotFound
	}
	return buildAlert(l), nil
}

func buildAlert(l *repository.ItemStockLevel) *entity.ItemAlert {
	avail := l.Available()
	return &entity.ItemAlert{
		ItemID:      l.ItemID,
		Name:        l.Name,
		StockMinimo: l.StockMinimo,
		OnHand:      l.OnHand,
		Reserved:    l.Reserved,
		Available:   avail,
		Percentage:  entity.AlertPercentage(avail, l.StockMinimo),
		Shortfall:   entity.Shortfall(avail, l.StockMinimo),
		Severity:    entity.ClassifyAlert(avail, l.StockMinimo),
	}
}
