package tax_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cartera-b2b/internal/domain"
	"github.com/jhoicas/cartera-b2b/internal/domain/entity"
	"github.com/jhoicas/cartera-b2b/internal/domain/tax"
)

func def(id, code string, kind entity.TaxKind, rate string, rule entity.BaseRule, order int, seq int64) entity.TaxDefinition {
	return entity.TaxDefinition{
		ID:               id,
		Code:             code,
		Name:             code,
		Kind:             kind,
		Rate:             decimal.RequireFromString(rate),
		BaseRule:         rule,
		Applicability:    entity.RegimeAll,
		ApplicationOrder: order,
		Sequence:         seq,
		Active:           true,
	}
}

func resolved(defs ...entity.TaxDefinition) []tax.ResolvedTax {
	out := make([]tax.ResolvedTax, 0, len(defs))
	for _, d := range defs {
		out = append(out, tax.ResolvedTax{Definition: d, Rate: d.Rate})
	}
	return out
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ──────────────────────────────────────────────────────────────────────────────
// ReteIVA 15% sobre IVA 19%: la retención lee el IVA ya calculado, no el subtotal.
// ──────────────────────────────────────────────────────────────────────────────

func TestCompute_RetencionSobreBaseGravable(t *testing.T) {
	iva := def("t1", "IVA19", entity.TaxKindTax, "19", entity.BaseSubtotal, 1, 1)
	reteIVA := def("t2", "RETEIVA15", entity.TaxKindWithholding, "15", entity.BaseTaxableBase, 1, 2)

	res, err := tax.Compute(dec("100000"), tax.Order(resolved(reteIVA, iva)))
	require.NoError(t, err)
	require.Len(t, res.Lines, 2)

	assert.Equal(t, "IVA19", res.Lines[0].Tax.Definition.Code)
	assert.True(t, res.Lines[0].Amount.Equal(dec("19000")))
	assert.True(t, res.Lines[1].Base.Equal(dec("19000")), "la base de la retención es el IVA")
	assert.True(t, res.Lines[1].Amount.Equal(dec("2850")), "15%% × 19.000 = 2.850, obtuvo %s", res.Lines[1].Amount)
	assert.True(t, res.TaxTotal.Equal(dec("19000")))
	assert.True(t, res.WithholdingTotal.Equal(dec("2850")))
	assert.True(t, res.Total.Equal(dec("116150")))
}

func TestCompute_BaseGravableSinImpuestoPrevio(t *testing.T) {
	reteIVA := def("t2", "RETEIVA15", entity.TaxKindWithholding, "15", entity.BaseTaxableBase, 1, 2)

	_, err := tax.Compute(dec("100000"), resolved(reteIVA))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidTaxConfiguration))

	var cfgErr *domain.TaxConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "RETEIVA15", cfgErr.TaxCode)
}

func TestCompute_BaseTotalAcumulada(t *testing.T) {
	iva := def("t1", "IVA19", entity.TaxKindTax, "19", entity.BaseSubtotal, 1, 1)
	consumo := def("t2", "IMPOCONSUMO8", entity.TaxKindTax, "8", entity.BaseTotal, 2, 2)

	res, err := tax.Compute(dec("1000"), resolved(iva, consumo))
	require.NoError(t, err)
	// 8% sobre 1000 + 190 = 95.20
	assert.True(t, res.Lines[1].Base.Equal(dec("1190")))
	assert.True(t, res.Lines[1].Amount.Equal(dec("95.2")))
	assert.True(t, res.Total.Equal(dec("1285.2")))
}

func TestCompute_RedondeoMitadHaciaArriba(t *testing.T) {
	ica := def("t1", "RETEICA", entity.TaxKindWithholding, "0.5", entity.BaseSubtotal, 1, 1)

	// 0.5% de 1001 = 5.005 → 5.01
	res, err := tax.Compute(dec("1001"), resolved(ica))
	require.NoError(t, err)
	assert.Equal(t, "5.01", res.Lines[0].Amount.StringFixed(2))
}

func TestCompute_RetencionesSuperanTotal(t *testing.T) {
	rete := def("t1", "RETE150", entity.TaxKindWithholding, "150", entity.BaseSubtotal, 1, 1)

	_, err := tax.Compute(dec("100"), resolved(rete))
	assert.ErrorIs(t, err, domain.ErrInvalidTaxConfiguration)
}

func TestCompute_SinImpuestos(t *testing.T) {
	res, err := tax.Compute(dec("250.50"), nil)
	require.NoError(t, err)
	assert.Empty(t, res.Lines)
	assert.True(t, res.Total.Equal(dec("250.50")))
	assert.True(t, res.TaxTotal.IsZero())
	assert.True(t, res.WithholdingTotal.IsZero())
}

func TestCompute_InvarianteTotal(t *testing.T) {
	iva := def("t1", "IVA19", entity.TaxKindTax, "19", entity.BaseSubtotal, 1, 1)
	rtf := def("t2", "RETEFUENTE25", entity.TaxKindWithholding, "2.5", entity.BaseSubtotal, 1, 2)
	reteIVA := def("t3", "RETEIVA15", entity.TaxKindWithholding, "15", entity.BaseTaxableBase, 2, 3)

	for _, base := range []string{"0", "1", "999.99", "123456.78", "100000"} {
		res, err := tax.Compute(dec(base), resolved(iva, rtf, reteIVA))
		require.NoError(t, err)
		want := dec(base).Add(res.TaxTotal).Sub(res.WithholdingTotal)
		assert.True(t, res.Total.Equal(want), "base %s", base)
	}
}
