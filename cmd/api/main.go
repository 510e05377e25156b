package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/retail-ledger/internal/application/account"
	"github.com/jhoicas/retail-ledger/internal/application/document"
	"github.com/jhoicas/retail-ledger/internal/application/inventory"
	"github.com/jhoicas/retail-ledger/internal/application/reconcile"
	"github.com/jhoicas/retail-ledger/internal/application/transfer"
	"github.com/jhoicas/retail-ledger/internal/application/usecase"
	"github.com/jhoicas/retail-ledger/internal/application/voucher"
	"github.com/jhoicas/retail-ledger/internal/infrastructure/idempotency"
	"github.com/jhoicas/retail-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/retail-ledger/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/retail-ledger/internal/interfaces/http"
	"github.com/jhoicas/retail-ledger/internal/interfaces/ws"
	"github.com/jhoicas/retail-ledger/pkg/config"
	"github.com/jhoicas/retail-ledger/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
		App:   cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("store", cfg.DB.Driver).
		Bool("strict_stock", cfg.Ledger.StrictStock).
		Msg("iniciando aplicación")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	checks := map[string]httpRouter.HealthCheck{}

	var txRunner inventory.TxRunner
	switch cfg.DB.Driver {
	case config.DriverMemory:
		log.Warn().Msg("store en memoria: los datos se pierden al reiniciar")
		txRunner = memory.NewStore()
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if cfg.DB.Migrate {
			if err := postgres.Migrate(ctx, pool); err != nil {
				log.Fatal().Err(err).Msg("migraciones")
			}
		}
		checks["postgres"] = pool.Ping
		txRunner = postgres.NewTxRunner(pool)
	}

	var idemStore idempotency.Store
	if cfg.Redis.Enabled() {
		rdb, err := idempotency.NewRedisClient(ctx, cfg.Redis.Addr)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		idemStore = idempotency.NewRedisStore(rdb, cfg.Redis.IdempotencyTTL)
	}

	hub := ws.NewHub(log.Named("ws"))
	go hub.Run(ctx)

	processor := inventory.NewStockProcessor(cfg.Ledger.StrictStock)
	ledger := account.NewBalanceLedger()

	deps := httpRouter.RouterDeps{
		BranchUC:        usecase.NewBranchUseCase(txRunner),
		ProductUC:       usecase.NewProductUseCase(txRunner),
		MovementUC:      inventory.NewMovementUseCase(txRunner, processor, hub, log.Named("inventory")),
		ReplenishmentUC: inventory.NewReplenishmentUseCase(txRunner),
		TransferUC:      transfer.NewUseCase(txRunner, processor, hub, log.Named("transfer")),
		AccountUC:       account.NewUseCase(txRunner, ledger, log.Named("account")),
		DocumentUC:      document.NewUseCase(txRunner, processor, ledger, hub, log.Named("document")),
		VoucherUC:       voucher.NewUseCase(txRunner, ledger, log.Named("voucher")),
		ReconcileUC:     reconcile.NewUseCase(txRunner),
		Idempotency:     idemStore,
		Hub:             hub,
		HealthChecks:    checks,
		JWTSecret:       cfg.JWT.Secret,
		JWTIssuer:       cfg.JWT.Issuer,
		Log:             log.Named("http"),
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI: http://localhost:<port>/docs
	if cfg.App.SwaggerEnabled {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: "./docs/swagger.json",
			Path:     "docs",
			Title:    "Retail Ledger API",
		}))
	}

	httpRouter.Router(app, deps)

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
	stop()

	log.Info().Msg("aplicación detenida")
}
