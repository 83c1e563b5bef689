package dto

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cartera-b2b/internal/domain"
)

func validInvoice() CreateInvoiceRequest {
	return CreateInvoiceRequest{
		CustomerID:    "c1",
		StoreID:       "s1",
		PaymentMethod: "CREDIT",
		Items: []InvoiceItemRequest{
			{ProductID: "p1", Quantity: decimal.NewFromInt(2), DiscountPercent: decimal.Zero},
		},
	}
}

func TestValidate_FacturaValida(t *testing.T) {
	assert.NoError(t, Validate(validInvoice()))
}

func TestValidate_CamposConNombreJSON(t *testing.T) {
	in := validInvoice()
	in.PaymentMethod = "CHEQUE"
	in.Items[0].Quantity = decimal.Zero
	in.Items[0].DiscountPercent = decimal.NewFromInt(120)

	err := Validate(in)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "payment_method")
	assert.Contains(t, verr.Fields, "items[0].quantity")
	assert.Contains(t, verr.Fields, "items[0].discount_percent")
}

func TestValidate_SinItems(t *testing.T) {
	in := validInvoice()
	in.Items = nil

	var verr *domain.ValidationError
	require.True(t, errors.As(Validate(in), &verr))
	assert.Contains(t, verr.Fields, "items")
}

func TestValidate_TasaOpcional(t *testing.T) {
	neg := decimal.NewFromInt(-1)
	req := SetCustomerTaxDefaultsRequest{Taxes: []CustomerTaxDefaultItem{
		{TaxID: "t1"},
		{TaxID: "t2", RateOverride: &neg},
	}}

	var verr *domain.ValidationError
	require.True(t, errors.As(Validate(req), &verr))
	assert.Len(t, verr.Fields, 1)
	assert.Contains(t, verr.Fields, "taxes[1].rate_override")
}
