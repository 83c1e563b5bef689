package ports

import (
	"time"

	"github.com/shopspring/decimal"
)

// Operaciones del libro reportadas al observador.
const (
	OpDefineTax             = "define_tax"
	OpSetTaxDefaults        = "set_tax_defaults"
	OpRegisterCustomer      = "register_customer"
	OpChangeCustomerStatus  = "change_customer_status"
	OpUpdateCreditLimit     = "update_credit_limit"
	OpRecalculateCredit     = "recalculate_credit"
	OpRefreshOverdue        = "refresh_overdue"
	OpCreateInvoice         = "create_invoice"
	OpCancelInvoice         = "cancel_invoice"
	OpApplyPayment          = "apply_payment"
	OpCancelPayment         = "cancel_payment"
	OpCreatePurchase        = "create_purchase"
	OpCancelPurchase        = "cancel_purchase"
	OpApplyPurchasePayment  = "apply_purchase_payment"
	OpCancelPurchasePayment = "cancel_purchase_payment"
	OpRegisterMovement      = "register_movement"
)

// Documentos cuyos montos se acumulan.
const (
	DocInvoice         = "invoice"
	DocPayment         = "payment"
	DocPurchase        = "purchase"
	DocPurchasePayment = "purchase_payment"
)

// LedgerObserver puerto de salida para métricas del libro. El adaptador Prometheus vive en
// infrastructure/metrics; los casos de uso solo conocen este contrato.
type LedgerObserver interface {
	// Observe registra el resultado y la duración de una operación (err nil = éxito).
	Observe(operation string, started time.Time, err error)
	// AddAmount acumula el monto de un documento confirmado.
	AddAmount(document string, amount decimal.Decimal)
}

// NopObserver descarta todo; para tests y herramientas.
type NopObserver struct{}

func (NopObserver) Observe(string, time.Time, error)  {}
func (NopObserver) AddAmount(string, decimal.Decimal) {}
