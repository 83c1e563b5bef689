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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/cartera-b2b/internal/application/billing"
	"github.com/jhoicas/cartera-b2b/internal/application/credit"
	"github.com/jhoicas/cartera-b2b/internal/application/inventory"
	"github.com/jhoicas/cartera-b2b/internal/application/purchasing"
	"github.com/jhoicas/cartera-b2b/internal/application/taxes"
	"github.com/jhoicas/cartera-b2b/internal/domain/repository"
	"github.com/jhoicas/cartera-b2b/internal/infrastructure/memory"
	"github.com/jhoicas/cartera-b2b/internal/infrastructure/metrics"
	"github.com/jhoicas/cartera-b2b/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/cartera-b2b/internal/interfaces/http"
	"github.com/jhoicas/cartera-b2b/pkg/clock"
	"github.com/jhoicas/cartera-b2b/pkg/config"
	"github.com/jhoicas/cartera-b2b/pkg/logger"
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
		Str("store", cfg.Ledger.Store).
		Msg("iniciando aplicación")

	ctx := context.Background()

	var (
		repos    repository.Repositories
		txRunner repository.TxRunner
	)
	switch cfg.Ledger.Store {
	case "memory":
		// Solo para desarrollo: los datos se pierden al reiniciar.
		store := memory.NewStore()
		repos, txRunner = store.Repos(), store
		log.Warn().Msg("usando almacenamiento en memoria")
	default:
		if err := postgres.MigrateUp(cfg.DB.ConnectionString()); err != nil {
			log.Fatal().Err(err).Msg("migraciones de base de datos")
		}
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		runner := postgres.NewTxRunner(pool, cfg.DB.TxIsolation)
		repos, txRunner = runner.Repos(), runner
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	ledgerMetrics := metrics.NewLedgerMetrics(registry)

	clk := clock.System{}
	billingCfg := billing.Config{
		InvoicePrefix:  cfg.Ledger.InvoicePrefix,
		ReceiptPrefix:  cfg.Ledger.ReceiptPrefix,
		RecentPayments: cfg.Ledger.StatementRecentPayments,
	}
	purchasingCfg := purchasing.Config{
		PurchasePrefix: cfg.Ledger.PurchasePrefix,
		PaymentPrefix:  cfg.Ledger.PurchasePaymentPrefix,
		RecentPayments: cfg.Ledger.StatementRecentPayments,
	}

	registerMovementUC := inventory.NewRegisterMovementUseCase(repos, txRunner, clk, ledgerMetrics, log)
	catalogUC := taxes.NewCatalogUseCase(repos, txRunner, clk, ledgerMetrics, log)
	customerUC := credit.NewCustomerUseCase(repos, txRunner, clk, ledgerMetrics, log)
	invoiceUC := billing.NewInvoiceUseCase(repos, txRunner, registerMovementUC, clk, ledgerMetrics, log, billingCfg)
	paymentUC := billing.NewPaymentUseCase(repos, txRunner, clk, ledgerMetrics, log, billingCfg)
	purchaseUC := purchasing.NewPurchaseUseCase(repos, txRunner, registerMovementUC, clk, ledgerMetrics, log, purchasingCfg)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat("./docs/swagger.json"); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: "./docs/swagger.json",
			Path:     "docs",
			Title:    "Cartera B2B API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	httpRouter.Router(app, httpRouter.RouterDeps{
		TaxUC:            catalogUC,
		CustomerUC:       customerUC,
		InvoiceUC:        invoiceUC,
		PaymentUC:        paymentUC,
		PurchaseUC:       purchaseUC,
		RegisterMovement: registerMovementUC,
		JWTSecret:        cfg.JWT.Secret,
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
