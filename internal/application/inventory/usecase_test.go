package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/jhoicas/cartera-b2b/internal/application/inventory"
	"github.com/jhoicas/cartera-b2b/internal/application/ports"
	"github.com/jhoicas/cartera-b2b/internal/domain"
	"github.com/jhoicas/cartera-b2b/internal/domain/entity"
	"github.com/jhoicas/cartera-b2b/internal/domain/repository"
	"github.com/jhoicas/cartera-b2b/internal/infrastructure/memory"
	"github.com/jhoicas/cartera-b2b/pkg/clock"
	"github.com/jhoicas/cartera-b2b/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*inventory.RegisterMovementUseCase, *memory.Store) {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	repos := store.Repos()
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{ID: "p1", SKU: "SKU-1", Name: "Cemento gris", Price: decimal.NewFromInt(30000)}))
	require.NoError(t, repos.Stores.Create(ctx, &entity.Store{ID: "s1", Name: "Principal"}))
	clk := clock.NewFakeClock(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	return inventory.NewRegisterMovementUseCase(repos, store, clk, ports.NopObserver{}, logger.Nop()), store
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ptr(d decimal.Decimal) *decimal.Decimal { return &d }

func TestRegisterMovement_EntradaActualizaCostoPromedio(t *testing.T) {
	ctx := context.Background()
	uc, _ := setup(t)

	_, err := uc.RegisterMovement(ctx, inventory.MovementInput{ProductID: "p1", StoreID: "s1", Type: "IN", Quantity: dec("10"), UnitCost: ptr(dec("1000"))})
	require.NoError(t, err)
	_, err = uc.RegisterMovement(ctx, inventory.MovementInput{ProductID: "p1", StoreID: "s1", Type: "IN", Quantity: dec("10"), UnitCost: ptr(dec("2000"))})
	require.NoError(t, err)

	stock, product, err := uc.GetStock(ctx, "p1", "s1")
	require.NoError(t, err)
	assert.True(t, stock.Quantity.Equal(dec("20")))
	assert.True(t, product.Cost.Equal(dec("1500")))
}

func TestRegisterMovement_SalidaSinStock(t *testing.T) {
	ctx := context.Background()
	uc, _ := setup(t)
	_, err := uc.RegisterMovement(ctx, inventory.MovementInput{ProductID: "p1", StoreID: "s1", Type: "IN", Quantity: dec("3"), UnitCost: ptr(dec("1000"))})
	require.NoError(t, err)

	_, err = uc.RegisterMovement(ctx, inventory.MovementInput{ProductID: "p1", StoreID: "s1", Type: "OUT", Quantity: dec("5")})
	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.True(t, stockErr.Available.Equal(dec("3")))
	assert.Equal(t, "Cemento gris", stockErr.ProductName)

	stock, _, err := uc.GetStock(ctx, "p1", "s1")
	require.NoError(t, err)
	assert.True(t, stock.Quantity.Equal(dec("3")))
}

func TestRegisterMovement_Validaciones(t *testing.T) {
	ctx := context.Background()
	uc, _ := setup(t)

	_, err := uc.RegisterMovement(ctx, inventory.MovementInput{ProductID: "p1", StoreID: "s1", Type: "IN", Quantity: dec("1")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.RegisterMovement(ctx, inventory.MovementInput{ProductID: "p1", StoreID: "s1", Type: "ADJUSTMENT", Quantity: decimal.Zero})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.RegisterMovement(ctx, inventory.MovementInput{ProductID: "p1", StoreID: "nope", Type: "OUT", Quantity: dec("1")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRegisterMovement_AjusteNegativo(t *testing.T) {
	ctx := context.Background()
	uc, _ := setup(t)
	_, err := uc.RegisterMovement(ctx, inventory.MovementInput{ProductID: "p1", StoreID: "s1", Type: "IN", Quantity: dec("10"), UnitCost: ptr(dec("1000"))})
	require.NoError(t, err)

	movs, err := uc.RegisterMovement(ctx, inventory.MovementInput{ProductID: "p1", StoreID: "s1", Type: "ADJUSTMENT", Quantity: dec("-4")})
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.SourceManual, movs[0].Source)
	assert.True(t, movs[0].Quantity.Equal(dec("-4")))
	assert.True(t, movs[0].TotalCost.Equal(dec("-4000")))

	stock, _, err := uc.GetStock(ctx, "p1", "s1")
	require.NoError(t, err)
	assert.True(t, stock.Quantity.Equal(dec("6")))
}

func TestReverseInTx_RestauraStock(t *testing.T) {
	ctx := context.Background()
	uc, store := setup(t)
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	_, err := uc.RegisterMovement(ctx, inventory.MovementInput{ProductID: "p1", StoreID: "s1", Type: "IN", Quantity: dec("10"), UnitCost: ptr(dec("1000"))})
	require.NoError(t, err)

	sale := entity.MovementRef{TransactionID: "inv-1", Source: entity.SourceInvoice, UserID: "u1", At: now}
	require.NoError(t, store.RunLedger(ctx, func(repos repository.Repositories) error {
		return uc.RegisterOUTInTx(ctx, repos, "p1", "s1", dec("7"), sale)
	}))
	stock, _, err := uc.GetStock(ctx, "p1", "s1")
	require.NoError(t, err)
	assert.True(t, stock.Quantity.Equal(dec("3")))

	reversal := entity.MovementRef{TransactionID: "inv-1", Source: entity.SourceInvoiceCancelled, UserID: "u1", At: now}
	require.NoError(t, store.RunLedger(ctx, func(repos repository.Repositories) error {
		return uc.ReverseInTx(ctx, repos, "inv-1", reversal)
	}))
	stock, product, err := uc.GetStock(ctx, "p1", "s1")
	require.NoError(t, err)
	assert.True(t, stock.Quantity.Equal(dec("10")))
	assert.True(t, product.Cost.Equal(dec("1000")))
}
