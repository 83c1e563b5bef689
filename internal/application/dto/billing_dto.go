package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateInvoiceRequest body para POST /api/invoices.
// StoreID: tienda de la cual se descuenta el inventario.
// Sin tax_ids se usan los impuestos por defecto del cliente.
type CreateInvoiceRequest struct {
	CustomerID            string               `json:"customer_id" validate:"required"`
	StoreID               string               `json:"store_id" validate:"required"`
	Items                 []InvoiceItemRequest `json:"items" validate:"required,min=1,dive"`
	PaymentMethod         string               `json:"payment_method" validate:"required,oneof=CREDIT CASH TRANSFER MIXED"`
	TaxIDs                []string             `json:"tax_ids,omitempty" validate:"omitempty,unique,dive,required"`
	DiscountOverride      *decimal.Decimal     `json:"discount_override,omitempty" validate:"omitempty,gte=0"`
	ApplyCustomerDiscount bool                 `json:"apply_customer_discount"`
	Notes                 string               `json:"notes,omitempty" validate:"max=1000"`
	OriginatingOrderID    string               `json:"originating_order_id,omitempty"`
}

// InvoiceItemRequest línea de factura. Sin unit_price se usa el precio del producto.
type InvoiceItemRequest struct {
	ProductID       string           `json:"product_id" validate:"required"`
	Quantity        decimal.Decimal  `json:"quantity" validate:"gt=0"`
	UnitPrice       *decimal.Decimal `json:"unit_price,omitempty" validate:"omitempty,gte=0"`
	DiscountPercent decimal.Decimal  `json:"discount_percent" validate:"gte=0,lte=100"`
}

// InvoiceSummaryResponse cabecera de factura para listados y estados de cuenta.
type InvoiceSummaryResponse struct {
	ID               string          `json:"id"`
	InvoiceNumber    string          `json:"invoice_number"`
	CustomerID       string          `json:"customer_id"`
	StoreID          string          `json:"store_id"`
	IssueDate        time.Time       `json:"issue_date"`
	DueDate          *time.Time      `json:"due_date,omitempty"`
	PaymentMethod    string          `json:"payment_method"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	Discount         decimal.Decimal `json:"discount"`
	TaxTotal         decimal.Decimal `json:"tax_total"`
	WithholdingTotal decimal.Decimal `json:"withholding_total"`
	Total            decimal.Decimal `json:"total"`
	AmountPaid       decimal.Decimal `json:"amount_paid"`
	BalanceDue       decimal.Decimal `json:"balance_due"`
	PaymentStatus    string          `json:"payment_status"`
	OverdueDays      int             `json:"overdue_days"`
}

// InvoiceResponse factura completa para GET /api/invoices/:id.
type InvoiceResponse struct {
	InvoiceSummaryResponse
	CustomerName       string                `json:"customer_name,omitempty"`
	OriginatingOrderID string                `json:"originating_order_id,omitempty"`
	Notes              string                `json:"notes,omitempty"`
	PaidInFullDate     *time.Time            `json:"paid_in_full_date,omitempty"`
	CreatedBy          string                `json:"created_by"`
	CancelReason       string                `json:"cancel_reason,omitempty"`
	CancelledAt        *time.Time            `json:"cancelled_at,omitempty"`
	CancelledBy        string                `json:"cancelled_by,omitempty"`
	Lines              []InvoiceLineResponse `json:"lines"`
	TaxLines           []TaxLineResponse     `json:"tax_lines"`
	Payments           []PaymentResponse     `json:"payments"`
}

// InvoiceLineResponse línea de la factura.
type InvoiceLineResponse struct {
	ID              string          `json:"id"`
	ProductID       string          `json:"product_id"`
	ProductName     string          `json:"product_name"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	Discount        decimal.Decimal `json:"discount"`
	Total           decimal.Decimal `json:"total"`
}

// TaxLineResponse impuesto liquidado sobre un documento (factura o compra).
type TaxLineResponse struct {
	TaxID          string          `json:"tax_id"`
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	Kind           string          `json:"kind"`
	BaseRule       string          `json:"base_rule"`
	RateApplied    decimal.Decimal `json:"rate_applied"`
	BaseAmount     decimal.Decimal `json:"base_amount"`
	ComputedAmount decimal.Decimal `json:"computed_amount"`
	Sequence       int             `json:"sequence"`
}

// ApplyPaymentRequest body para POST /api/invoices/:id/payments.
// El monto se valida en el caso de uso (InvalidAmount) y no aquí.
type ApplyPaymentRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method" validate:"required,oneof=CASH TRANSFER CHECK CARD"`
	Reference string          `json:"reference,omitempty" validate:"max=100"`
	Bank      string          `json:"bank,omitempty" validate:"max=100"`
	ShiftID   string          `json:"shift_id,omitempty"`
}

// PaymentResponse abono en respuestas.
type PaymentResponse struct {
	ID            string          `json:"id"`
	ReceiptNumber string          `json:"receipt_number"`
	InvoiceID     string          `json:"invoice_id"`
	CustomerID    string          `json:"customer_id"`
	Amount        decimal.Decimal `json:"amount"`
	Method        string          `json:"method"`
	Reference     string          `json:"reference,omitempty"`
	Bank          string          `json:"bank,omitempty"`
	PaymentDate   time.Time       `json:"payment_date"`
	ReceivedBy    string          `json:"received_by"`
	ShiftID       string          `json:"shift_id,omitempty"`
	Status        string          `json:"status"`
	CancelReason  string          `json:"cancel_reason,omitempty"`
	CancelledAt   *time.Time      `json:"cancelled_at,omitempty"`
	CancelledBy   string          `json:"cancelled_by,omitempty"`
}

// PaymentResultResponse abono aplicado junto con el nuevo estado de la factura.
type PaymentResultResponse struct {
	Payment PaymentResponse        `json:"payment"`
	Invoice InvoiceSummaryResponse `json:"invoice"`
}
