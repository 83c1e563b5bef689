package entity

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus estado de cartera de una factura o compra.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentPartial   PaymentStatus = "PARTIAL"
	PaymentPaid      PaymentStatus = "PAID"
	PaymentOverdue   PaymentStatus = "OVERDUE"
	PaymentCancelled PaymentStatus = "CANCELLED"
)

// AcceptsPayments indica si se pueden registrar abonos en este estado.
func (s PaymentStatus) AcceptsPayments() bool {
	return s == PaymentPending || s == PaymentPartial || s == PaymentOverdue
}

// IsOpen indica si el documento tiene saldo exigible.
func (s PaymentStatus) IsOpen() bool {
	return s == PaymentPending || s == PaymentPartial || s == PaymentOverdue
}

// PaymentMethod forma de pago de la factura.
type PaymentMethod string

const (
	MethodCredit   PaymentMethod = "CREDIT"
	MethodCash     PaymentMethod = "CASH"
	MethodTransfer PaymentMethod = "TRANSFER"
	MethodMixed    PaymentMethod = "MIXED"
)

// IsValid verifica que la forma de pago sea conocida.
func (m PaymentMethod) IsValid() bool {
	switch m {
	case MethodCredit, MethodCash, MethodTransfer, MethodMixed:
		return true
	}
	return false
}

// UsesCredit indica si la factura consume cupo del cliente.
func (m PaymentMethod) UsesCredit() bool {
	return m == MethodCredit
}

// Settlement montos de cartera compartidos por facturas de venta y de compra.
// Invariantes: Total = Subtotal − Discount + TaxTotal − WithholdingTotal y BalanceDue = Total − AmountPaid.
type Settlement struct {
	Subtotal         decimal.Decimal
	Discount         decimal.Decimal
	TaxTotal         decimal.Decimal
	WithholdingTotal decimal.Decimal
	Total            decimal.Decimal
	AmountPaid       decimal.Decimal
	BalanceDue       decimal.Decimal
	PaymentStatus    PaymentStatus
	DueDate          *time.Time
	PaidInFullDate   *time.Time
	OverdueDays      int
}

// ApplyPayment suma un abono: PAID si el saldo llega a cero; OVERDUE se mantiene hasta quedar pagada.
func (s *Settlement) ApplyPayment(amount decimal.Decimal, at time.Time) {
	s.AmountPaid = s.AmountPaid.Add(amount)
	s.BalanceDue = s.Total.Sub(s.AmountPaid)
	switch {
	case s.BalanceDue.IsZero():
		s.PaymentStatus = PaymentPaid
		s.PaidInFullDate = &at
		s.OverdueDays = 0
	case s.PaymentStatus == PaymentOverdue:
	default:
		s.PaymentStatus = PaymentPartial
	}
}

// ReversePayment deshace un abono. Nunca pasa a OVERDUE: eso lo decide el proceso periódico.
func (s *Settlement) ReversePayment(amount decimal.Decimal) {
	s.AmountPaid = s.AmountPaid.Sub(amount)
	s.BalanceDue = s.Total.Sub(s.AmountPaid)
	s.PaidInFullDate = nil
	switch {
	case s.PaymentStatus == PaymentOverdue:
	case s.AmountPaid.IsZero():
		s.PaymentStatus = PaymentPending
	default:
		s.PaymentStatus = PaymentPartial
	}
}

// MarkOverdue marca el documento vencido si tiene saldo y pasó su fecha de vencimiento.
// Cuenta días iniciados: un documento vencido siempre tiene OverdueDays >= 1.
// Devuelve true si hubo cambio.
func (s *Settlement) MarkOverdue(now time.Time) bool {
	if s.DueDate == nil || !s.PaymentStatus.IsOpen() || !now.After(*s.DueDate) {
		return false
	}
	days := int(math.Ceil(now.Sub(*s.DueDate).Hours() / 24))
	if s.PaymentStatus == PaymentOverdue && s.OverdueDays == days {
		return false
	}
	s.PaymentStatus = PaymentOverdue
	s.OverdueDays = days
	return true
}

// Invoice factura de venta B2B (VentaB2B).
type Invoice struct {
	ID                 string
	InvoiceNumber      string
	CustomerID         string
	StoreID            string
	OriginatingOrderID string
	Settlement
	IssueDate     time.Time
	PaymentMethod PaymentMethod
	Notes         string
	CreatedBy     string
	CancelReason  string
	CancelledAt   *time.Time
	CancelledBy   string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsCancelled indica si la factura está anulada.
func (i *Invoice) IsCancelled() bool {
	return i.PaymentStatus == PaymentCancelled
}

// Cancel marca la factura como anulada con sus campos de auditoría.
func (i *Invoice) Cancel(reason, actorID string, at time.Time) {
	i.PaymentStatus = PaymentCancelled
	i.OverdueDays = 0
	i.CancelReason = reason
	i.CancelledBy = actorID
	i.CancelledAt = &at
	i.UpdatedAt = at
}

// InvoiceLineItem línea de factura; inmutable tras su creación.
type InvoiceLineItem struct {
	ID              string
	InvoiceID       string
	ProductID       string
	ProductName     string // copia al momento de facturar
	Quantity        decimal.Decimal
	UnitPrice       decimal.Decimal
	DiscountPercent decimal.Decimal
	Subtotal        decimal.Decimal // cantidad × precio
	Discount        decimal.Decimal
	Total           decimal.Decimal // subtotal − descuento
}

// InvoiceTaxLine copia congelada de un impuesto aplicado; nunca se recalcula desde el catálogo.
type InvoiceTaxLine struct {
	ID             string
	InvoiceID      string
	TaxID          string
	Code           string
	Name           string
	Kind           TaxKind
	BaseRule       BaseRule
	RateApplied    decimal.Decimal
	BaseAmount     decimal.Decimal
	ComputedAmount decimal.Decimal
	Sequence       int
}
