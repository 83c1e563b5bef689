package postgres_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/jhoicas/cartera-b2b/internal/application/billing"
	"github.com/jhoicas/cartera-b2b/internal/application/credit"
	"github.com/jhoicas/cartera-b2b/internal/application/dto"
	"github.com/jhoicas/cartera-b2b/internal/application/inventory"
	"github.com/jhoicas/cartera-b2b/internal/application/ports"
	"github.com/jhoicas/cartera-b2b/internal/application/taxes"
	"github.com/jhoicas/cartera-b2b/internal/domain"
	"github.com/jhoicas/cartera-b2b/internal/domain/entity"
	"github.com/jhoicas/cartera-b2b/internal/domain/repository"
	"github.com/jhoicas/cartera-b2b/internal/infrastructure/postgres"
	"github.com/jhoicas/cartera-b2b/pkg/clock"
	"github.com/jhoicas/cartera-b2b/pkg/config"
	"github.com/jhoicas/cartera-b2b/pkg/logger"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// startPostgres levanta un PostgreSQL efímero con el esquema migrado.
func startPostgres(t *testing.T) (*postgres.TxRunner, string) {
	t.Helper()
	if testing.Short() {
		t.Skip("integración con PostgreSQL omitida en modo -short")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("cartera_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	require.NoError(t, postgres.MigrateUp(dsn))

	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: dsn, MaxConns: 20})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return postgres.NewTxRunner(pool, "read_committed"), dsn
}

type ledger struct {
	runner    *postgres.TxRunner
	repos     repository.Repositories
	customers *credit.CustomerUseCase
	catalog   *taxes.CatalogUseCase
	inventory *inventory.RegisterMovementUseCase
	invoices  *billing.InvoiceUseCase
	payments  *billing.PaymentUseCase
}

func newLedger(runner *postgres.TxRunner) *ledger {
	repos := runner.Repos()
	clk := clock.NewFakeClock(time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC))
	log := logger.Nop()
	obs := ports.NopObserver{}
	cfg := billing.Config{InvoicePrefix: "FV", ReceiptPrefix: "RC", RecentPayments: 10}
	invUC := inventory.NewRegisterMovementUseCase(repos, runner, clk, obs, log)
	return &ledger{
		runner:    runner,
		repos:     repos,
		customers: credit.NewCustomerUseCase(repos, runner, clk, obs, log),
		catalog:   taxes.NewCatalogUseCase(repos, runner, clk, obs, log),
		inventory: invUC,
		invoices:  billing.NewInvoiceUseCase(repos, runner, invUC, clk, obs, log, cfg),
		payments:  billing.NewPaymentUseCase(repos, runner, clk, obs, log, cfg),
	}
}

func (l *ledger) customer(t *testing.T, idNumber, limit string) string {
	t.Helper()
	resp, err := l.customers.RegisterCustomer(context.Background(), dto.CreateCustomerRequest{
		IDType:      "NIT",
		IDNumber:    idNumber,
		LegalName:   "Distribuidora " + idNumber,
		TaxRegime:   "LARGE_TAXPAYER",
		CreditLimit: dec(limit),
		CreditDays:  30,
	})
	require.NoError(t, err)
	return resp.ID
}

func TestPostgresLedger_Integracion(t *testing.T) {
	runner, dsn := startPostgres(t)
	ctx := context.Background()
	l := newLedger(runner)

	require.NoError(t, l.repos.Stores.Create(ctx, &entity.Store{ID: "s1", Name: "Bodega norte"}))
	require.NoError(t, l.repos.Products.Create(ctx, &entity.Product{ID: "p1", SKU: "CEM-50", Name: "Cemento 50kg", Price: dec("50000")}))
	cost := dec("30000")
	_, err := l.inventory.RegisterMovement(ctx, inventory.MovementInput{
		UserID: "u1", ProductID: "p1", StoreID: "s1", Type: entity.MovementTypeIN, Quantity: dec("100"), UnitCost: &cost,
	})
	require.NoError(t, err)

	t.Run("migraciones aplicadas", func(t *testing.T) {
		version, dirty, err := postgres.MigrationVersion(dsn)
		require.NoError(t, err)
		assert.Equal(t, uint(1), version)
		assert.False(t, dirty)
	})

	t.Run("factura, abono y anulación", func(t *testing.T) {
		cust := l.customer(t, "900100200", "1000000")
		iva, err := l.catalog.DefineTax(ctx, dto.CreateTaxRequest{Code: "IVA19", Name: "IVA 19%", Kind: "TAX", Rate: dec("19"), BaseRule: "SUBTOTAL", ApplicationOrder: 1})
		require.NoError(t, err)
		rete, err := l.catalog.DefineTax(ctx, dto.CreateTaxRequest{Code: "RETEIVA15", Name: "ReteIVA 15%", Kind: "WITHHOLDING", Rate: dec("15"), BaseRule: "TAXABLE_BASE", ApplicationOrder: 1})
		require.NoError(t, err)

		inv, err := l.invoices.CreateInvoice(ctx, "u1", dto.CreateInvoiceRequest{
			CustomerID:    cust,
			StoreID:       "s1",
			Items:         []dto.InvoiceItemRequest{{ProductID: "p1", Quantity: dec("2")}},
			PaymentMethod: "CREDIT",
			TaxIDs:        []string{iva.ID, rete.ID},
		})
		require.NoError(t, err)
		assert.Equal(t, "FV-000001", inv.InvoiceNumber)
		assert.True(t, inv.Total.Equal(dec("116150")), inv.Total.String())
		require.Len(t, inv.TaxLines, 2)

		c, err := l.customers.GetCustomer(ctx, cust)
		require.NoError(t, err)
		assert.True(t, c.CreditAvailable.Equal(dec("883850")))

		paid, err := l.payments.ApplyPayment(ctx, inv.ID, "u1", dto.ApplyPaymentRequest{Amount: dec("16150"), Method: "TRANSFER"})
		require.NoError(t, err)
		assert.Equal(t, "RC-000001", paid.Payment.ReceiptNumber)
		assert.Equal(t, "PARTIAL", paid.Invoice.PaymentStatus)

		_, err = l.invoices.CancelInvoice(ctx, inv.ID, "u1", dto.CancelRequest{Reason: "error de digitación"})
		require.NoError(t, err)

		c, err = l.customers.GetCustomer(ctx, cust)
		require.NoError(t, err)
		assert.True(t, c.CreditAvailable.Equal(dec("1000000")))

		stock, _, err := l.inventory.GetStock(ctx, "p1", "s1")
		require.NoError(t, err)
		assert.True(t, stock.Quantity.Equal(dec("100")))

		drift, err := l.customers.RecalculateCredit(ctx, cust)
		require.NoError(t, err)
		assert.True(t, drift.Drift.IsZero())
	})

	t.Run("rechazo por cupo no deja rastro", func(t *testing.T) {
		cust := l.customer(t, "900300400", "10000")
		_, err := l.invoices.CreateInvoice(ctx, "u1", dto.CreateInvoiceRequest{
			CustomerID:    cust,
			StoreID:       "s1",
			Items:         []dto.InvoiceItemRequest{{ProductID: "p1", Quantity: dec("1")}},
			PaymentMethod: "CREDIT",
		})
		var creditErr *domain.InsufficientCreditError
		require.True(t, errors.As(err, &creditErr))

		n, err := l.repos.Invoices.CountByCustomer(ctx, cust)
		require.NoError(t, err)
		assert.Zero(t, n)
		stock, _, err := l.inventory.GetStock(ctx, "p1", "s1")
		require.NoError(t, err)
		assert.True(t, stock.Quantity.Equal(dec("100")))
	})

	t.Run("compras concurrentes no sobrevenden", func(t *testing.T) {
		require.NoError(t, l.repos.Products.Create(ctx, &entity.Product{ID: "p2", Name: "Varilla 1/2", Price: dec("1000")}))
		c := dec("500")
		_, err := l.inventory.RegisterMovement(ctx, inventory.MovementInput{
			UserID: "u1", ProductID: "p2", StoreID: "s1", Type: entity.MovementTypeIN, Quantity: dec("20"), UnitCost: &c,
		})
		require.NoError(t, err)

		buyers := make([]string, 10)
		for i := range buyers {
			buyers[i] = l.customer(t, "80000000"+string(rune('0'+i)), "1000000")
		}

		var (
			wg     sync.WaitGroup
			mu     sync.Mutex
			okN    int
			stockN int
		)
		for _, cust := range buyers {
			wg.Add(1)
			go func(cust string) {
				defer wg.Done()
				_, err := l.invoices.CreateInvoice(ctx, "u1", dto.CreateInvoiceRequest{
					CustomerID:    cust,
					StoreID:       "s1",
					Items:         []dto.InvoiceItemRequest{{ProductID: "p2", Quantity: dec("3")}},
					PaymentMethod: "CREDIT",
				})
				mu.Lock()
				defer mu.Unlock()
				switch {
				case err == nil:
					okN++
				case errors.Is(err, domain.ErrInsufficientStock):
					stockN++
				default:
					t.Errorf("error inesperado: %v", err)
				}
			}(cust)
		}
		wg.Wait()

		assert.Equal(t, 6, okN)
		assert.Equal(t, 4, stockN)
		stock, _, err := l.inventory.GetStock(ctx, "p2", "s1")
		require.NoError(t, err)
		assert.True(t, stock.Quantity.Equal(dec("2")))
	})

	t.Run("consecutivo sin huecos tras rollback", func(t *testing.T) {
		boom := errors.New("boom")
		err := l.runner.RunLedger(ctx, func(repos repository.Repositories) error {
			if _, err := repos.Sequences.Next(ctx, "test"); err != nil {
				return err
			}
			return boom
		})
		require.ErrorIs(t, err, boom)

		var n int64
		err = l.runner.RunLedger(ctx, func(repos repository.Repositories) error {
			var err error
			n, err = repos.Sequences.Next(ctx, "test")
			return err
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})
}
