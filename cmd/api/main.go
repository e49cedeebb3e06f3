package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aajcs/backend-taller-template-web-sub003/internal/application/alerts"
	"github.com/aajcs/backend-taller-template-web-sub003/internal/application/orders"
	"github.com/aajcs/backend-taller-template-web-sub003/internal/application/stock"
	"github.com/aajcs/backend-taller-template-web-sub003/internal/infrastructure/broker"
	"github.com/aajcs/backend-taller-template-web-sub003/internal/infrastructure/postgres"
	"github.com/aajcs/backend-taller-template-web-sub003/internal/infrastructure/rediscache"
	httpRouter "github.com/aajcs/backend-taller-template-web-sub003/internal/interfaces/http"
	"github.com/aajcs/backend-taller-template-web-sub003/pkg/config"
	"github.com/aajcs/backend-taller-template-web-sub003/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	stockRepo := postgres.NewStockRecordRepository(pool)
	reservationRepo := postgres.NewReservationRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	orderRepo := postgres.NewSalesOrderRepository(pool)
	itemRepo := postgres.NewItemRepository(pool)
	warehouseRepo := postgres.NewWarehouseRepository(pool)
	levelRepo := postgres.NewStockLevelRepository(pool)

	recorder := stock.NewMovementRecorder(movementRepo)
	reservationUC := stock.NewReservationUseCase(stockRepo, reservationRepo, itemRepo, warehouseRepo, recorder)
	movementUC := stock.NewRegisterMovementUseCase(stockRepo, itemRepo, warehouseRepo, recorder)

	// Kafka es opcional: sin brokers configurados la orden no publica eventos.
	var publisher orders.EventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer producer.Close()
		publisher = producer
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("publicador de eventos habilitado")
	}
	lifecycleUC := orders.NewLifecycleUseCase(orderRepo, reservationUC, reservationRepo, itemRepo, publisher)

	// Redis es opcional: sin dirección configurada el reporte se calcula siempre.
	var alertCache alerts.Cache
	if cfg.Redis.Addr != "" {
		cache, err := rediscache.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer cache.Close()
		alertCache = cache
		log.Info().Str("addr", cfg.Redis.Addr).Msg("caché de alertas habilitada")
	}
	alertUC := alerts.NewEvaluatorUseCase(levelRepo, alertCache, time.Duration(cfg.Redis.TTLSeconds)*time.Second)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Taller Inventario API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	httpRouter.Router(app, httpRouter.RouterDeps{
		Movements:    movementUC,
		Reservations: reservationUC,
		StockReader:  stockRepo,
		Orders:       lifecycleUC,
		Alerts:       alertUC,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
