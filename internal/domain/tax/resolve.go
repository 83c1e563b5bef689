// Package tax contiene la composición de impuestos y retenciones: selección, orden y liquidación.
package tax

import (
	"sort"

	"github.com/jhoicas/cartera-b2b/internal/domain"
	"github.com/jhoicas/cartera-b2b/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ResolvedTax definición del catálogo con la tasa efectiva para un tercero.
type ResolvedTax struct {
	Definition entity.TaxDefinition
	Rate       decimal.Decimal // tasa del catálogo o la del cliente si tiene override
}

// Select filtra y ordena las definiciones para un tercero del régimen dado.
// Un impuesto inactivo es un error de configuración; uno que no aplica al régimen se omite.
// overrides: tax_id → tasa particular del cliente.
func Select(defs []entity.TaxDefinition, overrides map[string]decimal.Decimal, regime entity.TaxRegime) ([]ResolvedTax, error) {
	out := make([]ResolvedTax, 0, len(defs))
	seen := make(map[string]bool, len(defs))
	for _, d := range defs {
		if seen[d.ID] {
			continue
		}
		seen[d.ID] = true
		if !d.Active {
			return nil, &domain.TaxConfigError{TaxCode: d.Code, Reason: "impuesto inactivo"}
		}
		if !d.AppliesTo(regime) {
			continue
		}
		rate := d.Rate
		if o, ok := overrides[d.ID]; ok {
			rate = o
		}
		out = append(out, ResolvedTax{Definition: d, Rate: rate})
	}
	return Order(out), nil
}

// Order devuelve una copia ordenada: impuestos antes que retenciones, luego ApplicationOrder
// ascendente y, en empate, orden de inserción. Una retención sobre TAXABLE_BASE depende de este orden.
func Order(taxes []ResolvedTax) []ResolvedTax {
	out := make([]ResolvedTax, len(taxes))
	copy(out, taxes)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Definition, out[j].Definition
		if a.Kind != b.Kind {
			return a.Kind == entity.TaxKindTax
		}
		if a.ApplicationOrder != b.ApplicationOrder {
			return a.ApplicationOrder < b.ApplicationOrder
		}
		return a.Sequence < b.Sequence
	})
	return out
}
