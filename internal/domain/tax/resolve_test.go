package tax_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cartera-b2b/internal/domain"
	"github.com/jhoicas/cartera-b2b/internal/domain/entity"
	"github.com/jhoicas/cartera-b2b/internal/domain/tax"
)

func codes(list []tax.ResolvedTax) []string {
	out := make([]string, 0, len(list))
	for _, r := range list {
		out = append(out, r.Definition.Code)
	}
	return out
}

func TestOrder_ImpuestosAntesQueRetenciones(t *testing.T) {
	a := def("1", "RTF", entity.TaxKindWithholding, "2.5", entity.BaseSubtotal, 0, 1)
	b := def("2", "IVA", entity.TaxKindTax, "19", entity.BaseSubtotal, 5, 2)
	c := def("3", "ICO", entity.TaxKindTax, "8", entity.BaseSubtotal, 1, 3)
	d := def("4", "RIVA", entity.TaxKindWithholding, "15", entity.BaseTaxableBase, 0, 4)

	got := tax.Order(resolved(a, b, c, d))
	assert.Equal(t, []string{"ICO", "IVA", "RTF", "RIVA"}, codes(got))
}

func TestOrder_EmpateDesempataPorInsercion(t *testing.T) {
	late := def("1", "B", entity.TaxKindTax, "1", entity.BaseSubtotal, 1, 20)
	early := def("2", "A", entity.TaxKindTax, "1", entity.BaseSubtotal, 1, 10)

	got := tax.Order(resolved(late, early))
	assert.Equal(t, []string{"A", "B"}, codes(got))
}

func TestSelect_FiltraRegimenYAplicaOverride(t *testing.T) {
	iva := def("1", "IVA", entity.TaxKindTax, "19", entity.BaseSubtotal, 1, 1)
	gc := def("2", "RETE-GC", entity.TaxKindWithholding, "2.5", entity.BaseSubtotal, 1, 2)
	gc.Applicability = entity.RegimeLargeTaxpayer

	overrides := map[string]decimal.Decimal{"1": decimal.RequireFromString("5")}

	got, err := tax.Select([]entity.TaxDefinition{gc, iva}, overrides, entity.RegimeCommon)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "IVA", got[0].Definition.Code)
	assert.True(t, got[0].Rate.Equal(decimal.NewFromInt(5)))

	got, err = tax.Select([]entity.TaxDefinition{gc, iva}, nil, entity.RegimeLargeTaxpayer)
	require.NoError(t, err)
	assert.Equal(t, []string{"IVA", "RETE-GC"}, codes(got))
}

func TestSelect_ImpuestoInactivo(t *testing.T) {
	iva := def("1", "IVA", entity.TaxKindTax, "19", entity.BaseSubtotal, 1, 1)
	iva.Active = false

	_, err := tax.Select([]entity.TaxDefinition{iva}, nil, entity.RegimeCommon)
	assert.ErrorIs(t, err, domain.ErrInvalidTaxConfiguration)
}
