package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// TaxKind distingue impuestos (suman al total) de retenciones (restan).
type TaxKind string

const (
	TaxKindTax         TaxKind = "TAX"
	TaxKindWithholding TaxKind = "WITHHOLDING"
)

// IsValid verifica que el tipo sea conocido.
func (k TaxKind) IsValid() bool {
	return k == TaxKindTax || k == TaxKindWithholding
}

// BaseRule indica sobre qué monto se liquida un impuesto.
type BaseRule string

const (
	BaseSubtotal    BaseRule = "SUBTOTAL"     // subtotal − descuento
	BaseTotal       BaseRule = "TOTAL"        // total acumulado hasta ese punto del pliegue
	BaseTaxableBase BaseRule = "TAXABLE_BASE" // último impuesto (TAX) calculado, ej. ReteIVA sobre IVA
)

// IsValid verifica que la regla sea conocida.
func (r BaseRule) IsValid() bool {
	switch r {
	case BaseSubtotal, BaseTotal, BaseTaxableBase:
		return true
	}
	return false
}

// TaxRegime régimen tributario del tercero; también es la aplicabilidad de un impuesto.
type TaxRegime string

const (
	RegimeAll           TaxRegime = "ALL"
	RegimeLargeTaxpayer TaxRegime = "LARGE_TAXPAYER"
	RegimeCommon        TaxRegime = "COMMON_REGIME"
	RegimeSimplified    TaxRegime = "SIMPLIFIED_REGIME"
)

// IsValid verifica que el régimen sea conocido.
func (r TaxRegime) IsValid() bool {
	switch r {
	case RegimeAll, RegimeLargeTaxpayer, RegimeCommon, RegimeSimplified:
		return true
	}
	return false
}

// TaxDefinition entrada del catálogo de impuestos y retenciones.
// Nunca se borra: se desactiva. Las facturas guardan copia de sus campos (InvoiceTaxLine).
type TaxDefinition struct {
	ID               string
	Code             string
	Name             string
	Kind             TaxKind
	Rate             decimal.Decimal // porcentaje, 2 decimales (19.00 = 19%)
	BaseRule         BaseRule
	Applicability    TaxRegime
	ApplicationOrder int
	Sequence         int64 // orden de inserción; desempata ApplicationOrder
	Active           bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// AppliesTo indica si el impuesto aplica a un tercero del régimen dado.
func (t *TaxDefinition) AppliesTo(regime TaxRegime) bool {
	return t.Applicability == RegimeAll || t.Applicability == regime
}

// CustomerTaxDefault asociación cliente-impuesto usada para precargar facturas nuevas.
type CustomerTaxDefault struct {
	CustomerID   string
	TaxID        string
	RateOverride *decimal.Decimal
	CreatedAt    time.Time
}
