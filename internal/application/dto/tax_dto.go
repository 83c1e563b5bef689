package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateTaxRequest body para POST /api/taxes.
type CreateTaxRequest struct {
	Code             string          `json:"code" validate:"required,max=30"`
	Name             string          `json:"name" validate:"required,max=120"`
	Kind             string          `json:"kind" validate:"required,oneof=TAX WITHHOLDING"`
	Rate             decimal.Decimal `json:"rate" validate:"gte=0,lte=100"`
	BaseRule         string          `json:"base_rule" validate:"required,oneof=SUBTOTAL TOTAL TAXABLE_BASE"`
	Applicability    string          `json:"applicability" validate:"omitempty,oneof=ALL LARGE_TAXPAYER COMMON_REGIME SIMPLIFIED_REGIME"`
	ApplicationOrder int             `json:"application_order" validate:"gte=0"`
}

// UpdateTaxRequest body para PUT /api/taxes/:id. Los campos nulos no se modifican.
type UpdateTaxRequest struct {
	Name             *string          `json:"name,omitempty" validate:"omitempty,min=1,max=120"`
	Rate             *decimal.Decimal `json:"rate,omitempty" validate:"omitempty,gte=0,lte=100"`
	Applicability    *string          `json:"applicability,omitempty" validate:"omitempty,oneof=ALL LARGE_TAXPAYER COMMON_REGIME SIMPLIFIED_REGIME"`
	ApplicationOrder *int             `json:"application_order,omitempty" validate:"omitempty,gte=0"`
}

// TaxResponse impuesto del catálogo en respuestas.
type TaxResponse struct {
	ID               string          `json:"id"`
	Code             string          `json:"code"`
	Name             string          `json:"name"`
	Kind             string          `json:"kind"`
	Rate             decimal.Decimal `json:"rate"`
	BaseRule         string          `json:"base_rule"`
	Applicability    string          `json:"applicability"`
	ApplicationOrder int             `json:"application_order"`
	Active           bool            `json:"active"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// CustomerTaxDefaultItem impuesto por defecto con tasa particular opcional.
type CustomerTaxDefaultItem struct {
	TaxID        string           `json:"tax_id" validate:"required"`
	RateOverride *decimal.Decimal `json:"rate_override,omitempty" validate:"omitempty,gte=0,lte=100"`
}

// SetCustomerTaxDefaultsRequest body para PUT /api/customers/:id/tax-defaults. Reemplaza el conjunto.
type SetCustomerTaxDefaultsRequest struct {
	Taxes []CustomerTaxDefaultItem `json:"taxes" validate:"dive"`
}

// CustomerTaxDefaultResponse impuesto por defecto del cliente con la tasa efectiva.
type CustomerTaxDefaultResponse struct {
	TaxID         string           `json:"tax_id"`
	Code          string           `json:"code"`
	Name          string           `json:"name"`
	Rate          decimal.Decimal  `json:"rate"`
	RateOverride  *decimal.Decimal `json:"rate_override,omitempty"`
	EffectiveRate decimal.Decimal  `json:"effective_rate"`
}

// ResolvedTaxResponse impuesto aplicable, en orden de liquidación.
type ResolvedTaxResponse struct {
	TaxID    string          `json:"tax_id"`
	Code     string          `json:"code"`
	Name     string          `json:"name"`
	Kind     string          `json:"kind"`
	BaseRule string          `json:"base_rule"`
	Rate     decimal.Decimal `json:"rate"`
}
