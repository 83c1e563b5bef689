package taxes_test

import (
	"context"
	"testing"
	"time"

	"github.com/jhoicas/cartera-b2b/internal/application/dto"
	"github.com/jhoicas/cartera-b2b/internal/application/ports"
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

func newCatalog(t *testing.T) (*taxes.CatalogUseCase, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	clk := clock.NewFakeClock(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	uc := taxes.NewCatalogUseCase(store.Repos(), store, clk, ports.NopObserver{}, logger.Nop())
	return uc, store
}

func seedCustomer(t *testing.T, store *memory.Store, regime entity.TaxRegime) *entity.B2BCustomer {
	t.Helper()
	c := &entity.B2BCustomer{
		ID:              "cust-1",
		IDType:          "NIT",
		IDNumber:        "900123456",
		LegalName:       "Distribuciones Andinas SAS",
		TaxRegime:       regime,
		CreditLimit:     decimal.NewFromInt(1000000),
		CreditAvailable: decimal.NewFromInt(1000000),
		Status:          entity.CustomerActive,
	}
	require.NoError(t, store.Repos().Customers.Create(context.Background(), c))
	return c
}

func defineTax(t *testing.T, uc *taxes.CatalogUseCase, code, kind, rule, applicability string, rate int64, order int) *dto.TaxResponse {
	t.Helper()
	resp, err := uc.DefineTax(context.Background(), dto.CreateTaxRequest{
		Code:             code,
		Name:             code,
		Kind:             kind,
		Rate:             decimal.NewFromInt(rate),
		BaseRule:         rule,
		Applicability:    applicability,
		ApplicationOrder: order,
	})
	require.NoError(t, err)
	return resp
}

func TestDefineTax_CodigoDuplicado(t *testing.T) {
	uc, _ := newCatalog(t)
	first := defineTax(t, uc, "IVA19", "TAX", "SUBTOTAL", "", 19, 1)
	assert.Equal(t, "ALL", first.Applicability)
	assert.True(t, first.Active)

	_, err := uc.DefineTax(context.Background(), dto.CreateTaxRequest{
		Code: "IVA19", Name: "IVA", Kind: "TAX", Rate: decimal.NewFromInt(19), BaseRule: "SUBTOTAL",
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateCode)
}

func TestDefineTax_RechazaTasaConMasDeDosDecimales(t *testing.T) {
	uc, _ := newCatalog(t)
	_, err := uc.DefineTax(context.Background(), dto.CreateTaxRequest{
		Code: "ICA", Name: "ICA", Kind: "WITHHOLDING", Rate: decimal.RequireFromString("0.966"), BaseRule: "SUBTOTAL",
	})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "rate")
}

func TestDeactivateTax_Idempotente(t *testing.T) {
	uc, _ := newCatalog(t)
	iva := defineTax(t, uc, "IVA19", "TAX", "SUBTOTAL", "", 19, 1)

	first, err := uc.DeactivateTax(context.Background(), iva.ID)
	require.NoError(t, err)
	assert.False(t, first.Active)

	second, err := uc.DeactivateTax(context.Background(), iva.ID)
	require.NoError(t, err)
	assert.False(t, second.Active)
	assert.Equal(t, first.UpdatedAt, second.UpdatedAt)

	active, err := uc.ListTaxes(context.Background(), true)
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err := uc.ListTaxes(context.Background(), false)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestDeactivateTax_NoExiste(t *testing.T) {
	uc, _ := newCatalog(t)
	_, err := uc.DeactivateTax(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSetCustomerTaxDefaults_Errores(t *testing.T) {
	uc, store := newCatalog(t)
	seedCustomer(t, store, entity.RegimeCommon)
	iva := defineTax(t, uc, "IVA19", "TAX", "SUBTOTAL", "", 19, 1)
	_, err := uc.DeactivateTax(context.Background(), iva.ID)
	require.NoError(t, err)

	t.Run("impuesto inactivo", func(t *testing.T) {
		_, err := uc.SetCustomerTaxDefaults(context.Background(), "cust-1", dto.SetCustomerTaxDefaultsRequest{
			Taxes: []dto.CustomerTaxDefaultItem{{TaxID: iva.ID}},
		})
		assert.ErrorIs(t, err, domain.ErrInvalidTaxConfiguration)
	})

	t.Run("cliente inexistente", func(t *testing.T) {
		_, err := uc.SetCustomerTaxDefaults(context.Background(), "nope", dto.SetCustomerTaxDefaultsRequest{})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("impuesto repetido", func(t *testing.T) {
		_, err := uc.SetCustomerTaxDefaults(context.Background(), "cust-1", dto.SetCustomerTaxDefaultsRequest{
			Taxes: []dto.CustomerTaxDefaultItem{{TaxID: iva.ID}, {TaxID: iva.ID}},
		})
		var verr *domain.ValidationError
		assert.ErrorAs(t, err, &verr)
	})
}

func TestResolveApplicableTaxes_PorDefectoConTasaPropia(t *testing.T) {
	ctx := context.Background()
	uc, store := newCatalog(t)
	seedCustomer(t, store, entity.RegimeCommon)
	iva := defineTax(t, uc, "IVA19", "TAX", "SUBTOTAL", "", 19, 1)
	rete := defineTax(t, uc, "RETEFTE", "WITHHOLDING", "SUBTOTAL", "", 3, 2)
	defineTax(t, uc, "RETEIVA", "WITHHOLDING", "TAXABLE_BASE", "LARGE_TAXPAYER", 15, 3)

	override := decimal.RequireFromString("2.5")
	_, err := uc.SetCustomerTaxDefaults(ctx, "cust-1", dto.SetCustomerTaxDefaultsRequest{
		Taxes: []dto.CustomerTaxDefaultItem{{TaxID: rete.ID, RateOverride: &override}, {TaxID: iva.ID}},
	})
	require.NoError(t, err)

	defaults, err := uc.GetCustomerTaxDefaults(ctx, "cust-1")
	require.NoError(t, err)
	require.Len(t, defaults, 2)

	resolved, err := uc.ResolveApplicableTaxes(ctx, "cust-1", nil)
	require.NoError(t, err)
	require.Len(t, resolved, 2)
	assert.Equal(t, "IVA19", resolved[0].Code)
	assert.Equal(t, "RETEFTE", resolved[1].Code)
	assert.True(t, resolved[1].Rate.Equal(override))
}

func TestResolveApplicableTaxes_OmiteDefectoDesactivado(t *testing.T) {
	ctx := context.Background()
	uc, store := newCatalog(t)
	seedCustomer(t, store, entity.RegimeCommon)
	iva := defineTax(t, uc, "IVA19", "TAX", "SUBTOTAL", "", 19, 1)
	rete := defineTax(t, uc, "RETEFTE", "WITHHOLDING", "SUBTOTAL", "", 3, 2)
	_, err := uc.SetCustomerTaxDefaults(ctx, "cust-1", dto.SetCustomerTaxDefaultsRequest{
		Taxes: []dto.CustomerTaxDefaultItem{{TaxID: iva.ID}, {TaxID: rete.ID}},
	})
	require.NoError(t, err)
	_, err = uc.DeactivateTax(ctx, rete.ID)
	require.NoError(t, err)

	resolved, err := uc.ResolveApplicableTaxes(ctx, "cust-1", nil)
	require.NoError(t, err)
	require.Len(t, resolved, 1)
	assert.Equal(t, "IVA19", resolved[0].Code)

	_, err = uc.ResolveApplicableTaxes(ctx, "cust-1", []string{rete.ID})
	assert.ErrorIs(t, err, domain.ErrInvalidTaxConfiguration)
}
