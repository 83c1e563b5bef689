// Command overdue ejecuta periódicamente el proceso de mora: marca facturas y compras vencidas
// y bloquea o reactiva clientes según su cartera.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jhoicas/cartera-b2b/internal/application/credit"
	"github.com/jhoicas/cartera-b2b/internal/application/ports"
	"github.com/jhoicas/cartera-b2b/internal/infrastructure/postgres"
	"github.com/jhoicas/cartera-b2b/pkg/clock"
	"github.com/jhoicas/cartera-b2b/pkg/config"
	"github.com/jhoicas/cartera-b2b/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	runner := postgres.NewTxRunner(pool, cfg.DB.TxIsolation)
	uc := credit.NewCustomerUseCase(runner.Repos(), runner, clock.System{}, ports.NopObserver{}, log)

	once := len(os.Args) > 1 && os.Args[1] == "once"
	log.Info().Dur("interval", cfg.Ledger.OverdueInterval).Bool("once", once).Msg("proceso de mora iniciado")

	run(ctx, uc, log)
	if once {
		return
	}

	ticker := time.NewTicker(cfg.Ledger.OverdueInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("proceso de mora detenido")
			return
		case <-ticker.C:
			run(ctx, uc, log)
		}
	}
}

func run(ctx context.Context, uc *credit.CustomerUseCase, log *logger.Logger) {
	res, err := uc.RefreshOverdue(ctx)
	if err != nil {
		log.Error().Err(err).Msg("actualizar mora")
		return
	}
	log.Info().
		Int("invoices_marked", res.InvoicesMarked).
		Int("purchases_marked", res.PurchasesMarked).
		Int("customers_blocked", res.CustomersBlocked).
		Int("customers_released", res.CustomersReleased).
		Msg("mora actualizada")
}
