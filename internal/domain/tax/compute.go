package tax

import (
	"fmt"

	"github.com/jhoicas/cartera-b2b/internal/domain"
	"github.com/jhoicas/cartera-b2b/internal/domain/entity"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Line resultado de liquidar un impuesto: se persiste tal cual como línea de impuesto del documento.
type Line struct {
	Tax      ResolvedTax
	Base     decimal.Decimal
	Amount   decimal.Decimal
	Sequence int
}

// Result totales de la liquidación.
type Result struct {
	NetBase          decimal.Decimal
	Lines            []Line
	TaxTotal         decimal.Decimal
	WithholdingTotal decimal.Decimal
	Total            decimal.Decimal
}

// Compute liquida la lista ya ordenada sobre netBase (subtotal − descuento).
//
//	SUBTOTAL     → base = netBase
//	TOTAL        → base = netBase + impuestos − retenciones acumulados hasta ese punto
//	TAXABLE_BASE → base = monto del último impuesto (TAX) calculado
//
// monto = round(base × tasa / 100, 2). Una retención TAXABLE_BASE sin impuesto previo, o
// retenciones que dejen el total negativo, son errores de configuración.
func Compute(netBase decimal.Decimal, ordered []ResolvedTax) (*Result, error) {
	if netBase.IsNegative() {
		return nil, fmt.Errorf("%w: base neta negativa", domain.ErrInvalidInput)
	}
	res := &Result{
		NetBase:          netBase,
		Lines:            make([]Line, 0, len(ordered)),
		TaxTotal:         decimal.Zero,
		WithholdingTotal: decimal.Zero,
	}
	var lastTax *decimal.Decimal
	for i, t := range ordered {
		def := t.Definition
		var base decimal.Decimal
		switch def.BaseRule {
		case entity.BaseSubtotal:
			base = netBase
		case entity.BaseTotal:
			base = netBase.Add(res.TaxTotal).Sub(res.WithholdingTotal)
		case entity.BaseTaxableBase:
			if lastTax == nil {
				return nil, &domain.TaxConfigError{TaxCode: def.Code, Reason: "base gravable sin impuesto previo en la secuencia"}
			}
			base = *lastTax
		default:
			return nil, &domain.TaxConfigError{TaxCode: def.Code, Reason: "regla de base desconocida"}
		}
		amount := base.Mul(t.Rate).Div(hundred).Round(2)
		switch def.Kind {
		case entity.TaxKindTax:
			res.TaxTotal = res.TaxTotal.Add(amount)
			a := amount
			lastTax = &a
		case entity.TaxKindWithholding:
			res.WithholdingTotal = res.WithholdingTotal.Add(amount)
		default:
			return nil, &domain.TaxConfigError{TaxCode: def.Code, Reason: "tipo de impuesto desconocido"}
		}
		res.Lines = append(res.Lines, Line{Tax: t, Base: base, Amount: amount, Sequence: i + 1})
	}
	res.Total = netBase.Add(res.TaxTotal).Sub(res.WithholdingTotal)
	if res.Total.IsNegative() {
		return nil, &domain.TaxConfigError{Reason: "las retenciones superan la base más los impuestos"}
	}
	return res, nil
}
