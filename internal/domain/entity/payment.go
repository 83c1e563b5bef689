package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReceiptStatus estado de un recibo de caja.
type ReceiptStatus string

const (
	ReceiptApplied   ReceiptStatus = "APPLIED"
	ReceiptCancelled ReceiptStatus = "CANCELLED"
)

// ReceiptMethod medio con el que se recibe un abono.
type ReceiptMethod string

const (
	ReceiptCash     ReceiptMethod = "CASH"
	ReceiptTransfer ReceiptMethod = "TRANSFER"
	ReceiptCheck    ReceiptMethod = "CHECK"
	ReceiptCard     ReceiptMethod = "CARD"
)

// IsValid verifica que el medio sea conocido.
func (m ReceiptMethod) IsValid() bool {
	switch m {
	case ReceiptCash, ReceiptTransfer, ReceiptCheck, ReceiptCard:
		return true
	}
	return false
}

// Payment abono (PagoB2B) aplicado a una factura. Al anularse la fila se conserva para auditoría.
type Payment struct {
	ID            string
	ReceiptNumber string
	InvoiceID     string
	CustomerID    string
	Amount        decimal.Decimal
	Method        ReceiptMethod
	Reference     string
	Bank          string
	PaymentDate   time.Time
	ReceivedBy    string
	ShiftID       string
	Status        ReceiptStatus
	CancelReason  string
	CancelledAt   *time.Time
	CancelledBy   string
	CreatedAt     time.Time
}

// IsCancelled indica si el abono fue anulado.
func (p *Payment) IsCancelled() bool {
	return p.Status == ReceiptCancelled
}

// Cancel marca el abono como anulado.
func (p *Payment) Cancel(reason, actorID string, at time.Time) {
	p.Status = ReceiptCancelled
	p.CancelReason = reason
	p.CancelledBy = actorID
	p.CancelledAt = &at
}
