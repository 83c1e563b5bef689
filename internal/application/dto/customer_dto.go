package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateCustomerRequest body para POST /api/customers.
type CreateCustomerRequest struct {
	IDType          string          `json:"id_type" validate:"required,oneof=NIT CC CE PP"`
	IDNumber        string          `json:"id_number" validate:"required,max=20"`
	LegalName       string          `json:"legal_name" validate:"required,max=200"`
	TradeName       string          `json:"trade_name,omitempty" validate:"max=200"`
	Email           string          `json:"email,omitempty" validate:"omitempty,email"`
	Phone           string          `json:"phone,omitempty" validate:"max=30"`
	Address         string          `json:"address,omitempty" validate:"max=300"`
	TaxRegime       string          `json:"tax_regime" validate:"required,oneof=LARGE_TAXPAYER COMMON_REGIME SIMPLIFIED_REGIME"`
	CreditLimit     decimal.Decimal `json:"credit_limit" validate:"gte=0"`
	CreditDays      int             `json:"credit_days" validate:"gte=0,lte=365"`
	DiscountPercent decimal.Decimal `json:"discount_percent" validate:"gte=0,lte=100"`
}

// CustomerResponse cliente B2B en respuestas.
type CustomerResponse struct {
	ID               string          `json:"id"`
	IDType           string          `json:"id_type"`
	IDNumber         string          `json:"id_number"`
	LegalName        string          `json:"legal_name"`
	TradeName        string          `json:"trade_name,omitempty"`
	Email            string          `json:"email,omitempty"`
	Phone            string          `json:"phone,omitempty"`
	Address          string          `json:"address,omitempty"`
	TaxRegime        string          `json:"tax_regime"`
	CreditLimit      decimal.Decimal `json:"credit_limit"`
	CreditAvailable  decimal.Decimal `json:"credit_available"`
	CreditDays       int             `json:"credit_days"`
	DiscountPercent  decimal.Decimal `json:"discount_percent"`
	Status           string          `json:"status"`
	StatusReason     string          `json:"status_reason,omitempty"`
	BlockedByOverdue bool            `json:"blocked_by_overdue"`
	TotalSales       decimal.Decimal `json:"total_sales"`
	TotalInvoices    int             `json:"total_invoices"`
	LastPurchaseDate *time.Time      `json:"last_purchase_date,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// ListCustomersRequest filtros de GET /api/customers.
type ListCustomersRequest struct {
	PageRequest
	Status string `query:"status" validate:"omitempty,oneof=ACTIVE INACTIVE SUSPENDED BLOCKED"`
	Search string `query:"q" validate:"max=100"`
}

// UpdateCustomerStatusRequest body para POST /api/customers/:id/status.
type UpdateCustomerStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=ACTIVE INACTIVE SUSPENDED BLOCKED"`
	Reason string `json:"reason" validate:"max=500"`
}

// UpdateCreditLimitRequest body para PUT /api/customers/:id/credit-limit.
type UpdateCreditLimitRequest struct {
	CreditLimit decimal.Decimal `json:"credit_limit" validate:"gte=0"`
}

// RecalculateCreditResponse resultado de recalcular el cupo desde las facturas.
type RecalculateCreditResponse struct {
	CustomerID string          `json:"customer_id"`
	Previous   decimal.Decimal `json:"previous"`
	Current    decimal.Decimal `json:"current"`
	Drift      decimal.Decimal `json:"drift"` // current − previous
}

// DeleteCustomerResponse indica si el cliente se borró o solo se inactivó.
type DeleteCustomerResponse struct {
	CustomerID  string `json:"customer_id"`
	SoftDeleted bool   `json:"soft_deleted"`
}

// CustomerStatementResponse estado de cuenta del cliente.
type CustomerStatementResponse struct {
	Customer        CustomerResponse         `json:"customer"`
	PendingInvoices []InvoiceSummaryResponse `json:"pending_invoices"`
	RecentPayments  []PaymentResponse        `json:"recent_payments"`
	Totals          StatementTotals          `json:"totals"`
}

// StatementTotals resumen numérico del estado de cuenta.
type StatementTotals struct {
	TotalPending    decimal.Decimal `json:"total_pending"`
	TotalOverdue    decimal.Decimal `json:"total_overdue"`
	CreditLimit     decimal.Decimal `json:"credit_limit"`
	CreditAvailable decimal.Decimal `json:"credit_available"`
	PendingCount    int             `json:"pending_count"`
	OverdueCount    int             `json:"overdue_count"`
}

// OverdueRefreshResult resumen de una corrida del proceso de mora.
type OverdueRefreshResult struct {
	InvoicesMarked    int `json:"invoices_marked"`
	CustomersBlocked  int `json:"customers_blocked"`
	CustomersReleased int `json:"customers_released"`
	PurchasesMarked   int `json:"purchases_marked"`
}
