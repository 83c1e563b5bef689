package taxes

import (
	"context"
	"fmt"

	"github.com/jhoicas/cartera-b2b/internal/domain"
	"github.com/jhoicas/cartera-b2b/internal/domain/entity"
	"github.com/jhoicas/cartera-b2b/internal/domain/repository"
	"github.com/jhoicas/cartera-b2b/internal/domain/tax"
	"github.com/shopspring/decimal"
)

// ResolveForCustomer impuestos aplicables a una factura del cliente, ya ordenados para liquidar.
// Sin selección explícita se usan los impuestos por defecto del cliente (omitiendo los que se
// desactivaron después); la tasa particular del cliente aplica en ambos casos.
// Se llama con los repos de la transacción de la factura.
func ResolveForCustomer(ctx context.Context, repos repository.Repositories, customer *entity.B2BCustomer, selected []string) ([]tax.ResolvedTax, error) {
	defaults, err := repos.TaxDefaults.ListByCustomer(ctx, customer.ID)
	if err != nil {
		return nil, err
	}
	overrides := make(map[string]decimal.Decimal, len(defaults))
	for _, d := range defaults {
		if d.RateOverride != nil {
			overrides[d.TaxID] = *d.RateOverride
		}
	}
	if len(selected) > 0 {
		return resolve(ctx, repos, selected, overrides, customer.TaxRegime, false)
	}
	ids := make([]string, 0, len(defaults))
	for _, d := range defaults {
		ids = append(ids, d.TaxID)
	}
	return resolve(ctx, repos, ids, overrides, customer.TaxRegime, true)
}

// ResolveForParty impuestos seleccionados para un tercero sin impuestos por defecto (proveedores).
func ResolveForParty(ctx context.Context, repos repository.Repositories, regime entity.TaxRegime, selected []string) ([]tax.ResolvedTax, error) {
	return resolve(ctx, repos, selected, nil, regime, false)
}

func resolve(
	ctx context.Context,
	repos repository.Repositories,
	ids []string,
	overrides map[string]decimal.Decimal,
	regime entity.TaxRegime,
	skipInactive bool,
) ([]tax.ResolvedTax, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	found, err := repos.Taxes.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*entity.TaxDefinition, len(found))
	for _, t := range found {
		byID[t.ID] = t
	}
	defs := make([]entity.TaxDefinition, 0, len(ids))
	for _, id := range ids {
		t, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("impuesto %s: %w", id, domain.ErrNotFound)
		}
		if skipInactive && !t.Active {
			continue
		}
		defs = append(defs, *t)
	}
	return tax.Select(defs, overrides, regime)
}
