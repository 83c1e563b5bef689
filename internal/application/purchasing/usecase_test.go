package purchasing_test

import (
	"context"
	"testing"
	"time"

	"github.com/jhoicas/cartera-b2b/internal/application/dto"
	"github.com/jhoicas/cartera-b2b/internal/application/inventory"
	"github.com/jhoicas/cartera-b2b/internal/application/ports"
	"github.com/jhoicas/cartera-b2b/internal/application/purchasing"
	"github.com/jhoicas/cartera-b2b/internal/application/taxes"
	"github.com/jhoicas/cartera-b2b/internal/domain"
	"github.com/jhoicas/cartera-b2b/internal/domain/entity"
	"github.com/jhoicas/cartera-b2b/internal/infrastructure/memory"
	"github.com/jhoicas/cartera-b2b/pkg/clock"
	"github.com/jhoicas/cartera-b2b/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type env struct {
	uc        *purchasing.PurchaseUseCase
	inventory *inventory.RegisterMovementUseCase
	catalog   *taxes.CatalogUseCase
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newEnv(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	repos := store.Repos()
	clk := clock.NewFakeClock(time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC))
	log := logger.Nop()
	obs := ports.NopObserver{}

	require.NoError(t, repos.Stores.Create(ctx, &entity.Store{ID: "s1", Name: "Principal"}))
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{ID: "p1", SKU: "TUB-1", Name: "Tubo PVC 1\"", Price: dec("5000")}))

	invUC := inventory.NewRegisterMovementUseCase(repos, store, clk, obs, log)
	return &env{
		uc:        purchasing.NewPurchaseUseCase(repos, store, invUC, clk, obs, log, purchasing.Config{PurchasePrefix: "FC", PaymentPrefix: "CE", RecentPayments: 5}),
		inventory: invUC,
		catalog:   taxes.NewCatalogUseCase(repos, store, clk, obs, log),
	}
}

func (e *env) supplier(t *testing.T) string {
	t.Helper()
	s, err := e.uc.RegisterSupplier(context.Background(), dto.CreateSupplierRequest{
		IDType: "NIT", IDNumber: "800200300", Name: "Plásticos del Valle", TaxRegime: "COMMON_REGIME", CreditDays: 45,
	})
	require.NoError(t, err)
	return s.ID
}

func (e *env) purchase(t *testing.T, supplierID, qty, cost string, taxIDs ...string) *dto.PurchaseResponse {
	t.Helper()
	p, err := e.uc.CreatePurchase(context.Background(), "u1", dto.CreatePurchaseRequest{
		SupplierID:    supplierID,
		StoreID:       "s1",
		Items:         []dto.PurchaseItemRequest{{ProductID: "p1", Quantity: dec(qty), UnitCost: dec(cost)}},
		PaymentMethod: "CREDIT",
		TaxIDs:        taxIDs,
	})
	require.NoError(t, err)
	return p
}

func (e *env) stockAndCost(t *testing.T) (decimal.Decimal, decimal.Decimal) {
	t.Helper()
	s, p, err := e.inventory.GetStock(context.Background(), "p1", "s1")
	require.NoError(t, err)
	return s.Quantity, p.Cost
}

func TestRegisterSupplier_Duplicado(t *testing.T) {
	e := newEnv(t)
	e.supplier(t)
	_, err := e.uc.RegisterSupplier(context.Background(), dto.CreateSupplierRequest{
		IDType: "NIT", IDNumber: "800200300", Name: "Otro", TaxRegime: "COMMON_REGIME",
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateCode)
}

func TestCreatePurchase_ImpuestosPorRegimenYCostoPromedio(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	sup := e.supplier(t)
	iva, err := e.catalog.DefineTax(ctx, dto.CreateTaxRequest{Code: "IVA19", Name: "IVA", Kind: "TAX", Rate: dec("19"), BaseRule: "SUBTOTAL"})
	require.NoError(t, err)
	rete, err := e.catalog.DefineTax(ctx, dto.CreateTaxRequest{Code: "RETEFTE", Name: "Retefuente", Kind: "WITHHOLDING", Rate: dec("2.5"), BaseRule: "SUBTOTAL", Applicability: "LARGE_TAXPAYER"})
	require.NoError(t, err)

	first := e.purchase(t, sup, "10", "1000", iva.ID, rete.ID)
	assert.Equal(t, "FC-000001", first.PurchaseNumber)
	require.Len(t, first.TaxLines, 1)
	assert.Equal(t, "IVA19", first.TaxLines[0].Code)
	assert.True(t, first.Total.Equal(dec("11900")))
	require.NotNil(t, first.DueDate)

	qty, cost := e.stockAndCost(t)
	assert.True(t, qty.Equal(dec("10")))
	assert.True(t, cost.Equal(dec("1000")))

	e.purchase(t, sup, "10", "2000")
	qty, cost = e.stockAndCost(t)
	assert.True(t, qty.Equal(dec("20")))
	assert.True(t, cost.Equal(dec("1500")))
}

func TestCreatePurchase_ImpuestoEditadoNoAlteraCompraRegistrada(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	sup := e.supplier(t)
	iva, err := e.catalog.DefineTax(ctx, dto.CreateTaxRequest{Code: "IVA19", Name: "IVA", Kind: "TAX", Rate: dec("19"), BaseRule: "SUBTOTAL"})
	require.NoError(t, err)

	posted := e.purchase(t, sup, "10", "1000", iva.ID)

	five := dec("5")
	_, err = e.catalog.UpdateTax(ctx, iva.ID, dto.UpdateTaxRequest{Rate: &five})
	require.NoError(t, err)
	_, err = e.catalog.DeactivateTax(ctx, iva.ID)
	require.NoError(t, err)

	got, err := e.uc.GetPurchase(ctx, posted.ID)
	require.NoError(t, err)
	assert.True(t, got.Total.Equal(dec("11900")))
	assert.True(t, got.BalanceDue.Equal(dec("11900")))
	require.Len(t, got.TaxLines, 1)
	assert.Equal(t, "IVA19", got.TaxLines[0].Code)
	assert.True(t, got.TaxLines[0].RateApplied.Equal(dec("19")))
	assert.True(t, got.TaxLines[0].ComputedAmount.Equal(dec("1900")))
}

func TestCancelPurchase_RevierteStock(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	sup := e.supplier(t)
	first := e.purchase(t, sup, "10", "1000")
	second := e.purchase(t, sup, "10", "2000")

	cancelled, err := e.uc.CancelPurchase(ctx, second.ID, "admin", dto.CancelRequest{Reason: "mercancía rechazada"})
	require.NoError(t, err)
	assert.Equal(t, "CANCELLED", cancelled.PaymentStatus)
	qty, _ := e.stockAndCost(t)
	assert.True(t, qty.Equal(dec("10")))

	_, err = e.uc.CancelPurchase(ctx, second.ID, "admin", dto.CancelRequest{Reason: "otra vez"})
	assert.ErrorIs(t, err, domain.ErrAlreadyCancelled)

	// la mercancía de la primera compra ya se vendió en parte
	_, err = e.inventory.RegisterMovement(ctx, inventory.MovementInput{UserID: "u1", ProductID: "p1", StoreID: "s1", Type: "OUT", Quantity: dec("8")})
	require.NoError(t, err)
	_, err = e.uc.CancelPurchase(ctx, first.ID, "admin", dto.CancelRequest{Reason: "error"})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	still, err := e.uc.GetPurchase(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "PENDING", still.PaymentStatus)
	qty, _ = e.stockAndCost(t)
	assert.True(t, qty.Equal(dec("2")))
}

func TestApplyPurchasePayment_AbonosAProveedor(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	sup := e.supplier(t)
	p := e.purchase(t, sup, "10", "1000")

	_, err := e.uc.ApplyPurchasePayment(ctx, p.ID, "tesorería", dto.ApplyPaymentRequest{Amount: dec("-1"), Method: "TRANSFER"})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	partial, err := e.uc.ApplyPurchasePayment(ctx, p.ID, "tesorería", dto.ApplyPaymentRequest{Amount: dec("4000"), Method: "TRANSFER"})
	require.NoError(t, err)
	assert.Equal(t, "CE-000001", partial.Payment.PaymentNumber)
	assert.Equal(t, "PARTIAL", partial.Purchase.PaymentStatus)

	paid, err := e.uc.ApplyPurchasePayment(ctx, p.ID, "tesorería", dto.ApplyPaymentRequest{Amount: dec("6000"), Method: "CHECK"})
	require.NoError(t, err)
	assert.Equal(t, "PAID", paid.Purchase.PaymentStatus)

	st, err := e.uc.GetSupplierStatement(ctx, sup)
	require.NoError(t, err)
	assert.Zero(t, st.PendingCount)
	assert.Len(t, st.RecentPayments, 2)

	undone, err := e.uc.CancelPurchasePayment(ctx, paid.Payment.ID, "admin", dto.CancelRequest{Reason: "cheque anulado"})
	require.NoError(t, err)
	assert.Equal(t, "PARTIAL", undone.Purchase.PaymentStatus)
	assert.True(t, undone.Purchase.BalanceDue.Equal(dec("6000")))

	st, err = e.uc.GetSupplierStatement(ctx, sup)
	require.NoError(t, err)
	assert.Equal(t, 1, st.PendingCount)
	assert.True(t, st.TotalPending.Equal(dec("6000")))
	assert.Len(t, st.RecentPayments, 1)

	_, err = e.uc.CancelPurchase(ctx, p.ID, "admin", dto.CancelRequest{Reason: "devolución"})
	require.NoError(t, err)
	_, err = e.uc.ApplyPurchasePayment(ctx, p.ID, "tesorería", dto.ApplyPaymentRequest{Amount: dec("1"), Method: "CASH"})
	assert.ErrorIs(t, err, domain.ErrInvoiceCancelled)
}
