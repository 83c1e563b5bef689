package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateSupplierRequest body para POST /api/suppliers.
type CreateSupplierRequest struct {
	IDType     string `json:"id_type" validate:"required,oneof=NIT CC CE PP"`
	IDNumber   string `json:"id_number" validate:"required,max=20"`
	Name       string `json:"name" validate:"required,max=200"`
	Email      string `json:"email,omitempty" validate:"omitempty,email"`
	Phone      string `json:"phone,omitempty" validate:"max=30"`
	TaxRegime  string `json:"tax_regime" validate:"required,oneof=LARGE_TAXPAYER COMMON_REGIME SIMPLIFIED_REGIME"`
	CreditDays int    `json:"credit_days" validate:"gte=0,lte=365"`
}

// SupplierResponse proveedor en respuestas.
type SupplierResponse struct {
	ID         string    `json:"id"`
	IDType     string    `json:"id_type"`
	IDNumber   string    `json:"id_number"`
	Name       string    `json:"name"`
	Email      string    `json:"email,omitempty"`
	Phone      string    `json:"phone,omitempty"`
	TaxRegime  string    `json:"tax_regime"`
	CreditDays int       `json:"credit_days"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

// CreatePurchaseRequest body para POST /api/purchases.
type CreatePurchaseRequest struct {
	SupplierID         string                `json:"supplier_id" validate:"required"`
	StoreID            string                `json:"store_id" validate:"required"`
	Items              []PurchaseItemRequest `json:"items" validate:"required,min=1,dive"`
	PaymentMethod      string                `json:"payment_method" validate:"required,oneof=CREDIT CASH TRANSFER MIXED"`
	TaxIDs             []string              `json:"tax_ids,omitempty" validate:"omitempty,unique,dive,required"`
	SupplierInvoiceRef string                `json:"supplier_invoice_ref,omitempty" validate:"max=60"`
	Notes              string                `json:"notes,omitempty" validate:"max=1000"`
}

// PurchaseItemRequest línea de compra con su costo unitario.
type PurchaseItemRequest struct {
	ProductID       string          `json:"product_id" validate:"required"`
	Quantity        decimal.Decimal `json:"quantity" validate:"gt=0"`
	UnitCost        decimal.Decimal `json:"unit_cost" validate:"gte=0"`
	DiscountPercent decimal.Decimal `json:"discount_percent" validate:"gte=0,lte=100"`
}

// PurchaseSummaryResponse cabecera de compra.
type PurchaseSummaryResponse struct {
	ID                 string          `json:"id"`
	PurchaseNumber     string          `json:"purchase_number"`
	SupplierID         string          `json:"supplier_id"`
	StoreID            string          `json:"store_id"`
	SupplierInvoiceRef string          `json:"supplier_invoice_ref,omitempty"`
	IssueDate          time.Time       `json:"issue_date"`
	DueDate            *time.Time      `json:"due_date,omitempty"`
	PaymentMethod      string          `json:"payment_method"`
	Subtotal           decimal.Decimal `json:"subtotal"`
	Discount           decimal.Decimal `json:"discount"`
	TaxTotal           decimal.Decimal `json:"tax_total"`
	WithholdingTotal   decimal.Decimal `json:"withholding_total"`
	Total              decimal.Decimal `json:"total"`
	AmountPaid         decimal.Decimal `json:"amount_paid"`
	BalanceDue         decimal.Decimal `json:"balance_due"`
	PaymentStatus      string          `json:"payment_status"`
	OverdueDays        int             `json:"overdue_days"`
}

// PurchaseResponse compra completa para GET /api/purchases/:id.
type PurchaseResponse struct {
	PurchaseSummaryResponse
	SupplierName string                    `json:"supplier_name,omitempty"`
	Notes        string                    `json:"notes,omitempty"`
	CreatedBy    string                    `json:"created_by"`
	CancelReason string                    `json:"cancel_reason,omitempty"`
	CancelledAt  *time.Time                `json:"cancelled_at,omitempty"`
	CancelledBy  string                    `json:"cancelled_by,omitempty"`
	Lines        []PurchaseLineResponse    `json:"lines"`
	TaxLines     []TaxLineResponse         `json:"tax_lines"`
	Payments     []PurchasePaymentResponse `json:"payments"`
}

// PurchaseLineResponse línea de compra.
type PurchaseLineResponse struct {
	ID              string          `json:"id"`
	ProductID       string          `json:"product_id"`
	ProductName     string          `json:"product_name"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitCost        decimal.Decimal `json:"unit_cost"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	Discount        decimal.Decimal `json:"discount"`
	Total           decimal.Decimal `json:"total"`
}

// PurchasePaymentResponse egreso en respuestas.
type PurchasePaymentResponse struct {
	ID            string          `json:"id"`
	PaymentNumber string          `json:"payment_number"`
	PurchaseID    string          `json:"purchase_id"`
	SupplierID    string          `json:"supplier_id"`
	Amount        decimal.Decimal `json:"amount"`
	Method        string          `json:"method"`
	Reference     string          `json:"reference,omitempty"`
	Bank          string          `json:"bank,omitempty"`
	PaymentDate   time.Time       `json:"payment_date"`
	PaidBy        string          `json:"paid_by"`
	Status        string          `json:"status"`
	CancelReason  string          `json:"cancel_reason,omitempty"`
	CancelledAt   *time.Time      `json:"cancelled_at,omitempty"`
	CancelledBy   string          `json:"cancelled_by,omitempty"`
}

// PurchasePaymentResultResponse egreso aplicado y nuevo estado de la compra.
type PurchasePaymentResultResponse struct {
	Payment  PurchasePaymentResponse `json:"payment"`
	Purchase PurchaseSummaryResponse `json:"purchase"`
}

// SupplierStatementResponse cuentas por pagar a un proveedor.
type SupplierStatementResponse struct {
	Supplier         SupplierResponse          `json:"supplier"`
	PendingPurchases []PurchaseSummaryResponse `json:"pending_purchases"`
	RecentPayments   []PurchasePaymentResponse `json:"recent_payments"`
	TotalPending     decimal.Decimal           `json:"total_pending"`
	TotalOverdue     decimal.Decimal           `json:"total_overdue"`
	PendingCount     int                       `json:"pending_count"`
	OverdueCount     int                       `json:"overdue_count"`
}
