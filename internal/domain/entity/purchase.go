package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SupplierStatus estado de un proveedor.
type SupplierStatus string

const (
	SupplierActive   SupplierStatus = "ACTIVE"
	SupplierInactive SupplierStatus = "INACTIVE"
)

// Supplier proveedor; contraparte de B2BCustomer en compras (sin cupo).
type Supplier struct {
	ID         string
	IDType     string
	IDNumber   string
	Name       string
	Email      string
	Phone      string
	TaxRegime  TaxRegime
	CreditDays int
	Status     SupplierStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Purchase factura de compra a proveedor. Aumenta inventario en vez de consumirlo.
type Purchase struct {
	ID                 string
	PurchaseNumber     string
	SupplierID         string
	StoreID            string
	SupplierInvoiceRef string
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

// IsCancelled indica si la compra está anulada.
func (p *Purchase) IsCancelled() bool {
	return p.PaymentStatus == PaymentCancelled
}

// Cancel marca la compra como anulada.
func (p *Purchase) Cancel(reason, actorID string, at time.Time) {
	p.PaymentStatus = PaymentCancelled
	p.OverdueDays = 0
	p.CancelReason = reason
	p.CancelledBy = actorID
	p.CancelledAt = &at
	p.UpdatedAt = at
}

// PurchaseLineItem línea de compra; UnitCost alimenta el costo promedio del producto.
type PurchaseLineItem struct {
	ID              string
	PurchaseID      string
	ProductID       string
	ProductName     string
	Quantity        decimal.Decimal
	UnitCost        decimal.Decimal
	DiscountPercent decimal.Decimal
	Subtotal        decimal.Decimal
	Discount        decimal.Decimal
	Total           decimal.Decimal
}

// PurchaseTaxLine copia congelada de un impuesto aplicado a una compra.
type PurchaseTaxLine struct {
	ID             string
	PurchaseID     string
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

// PurchasePayment egreso aplicado a una compra.
type PurchasePayment struct {
	ID            string
	PaymentNumber string
	PurchaseID    string
	SupplierID    string
	Amount        decimal.Decimal
	Method        ReceiptMethod
	Reference     string
	Bank          string
	PaymentDate   time.Time
	PaidBy        string
	Status        ReceiptStatus
	CancelReason  string
	CancelledAt   *time.Time
	CancelledBy   string
	CreatedAt     time.Time
}

// IsCancelled indica si el egreso fue anulado.
func (p *PurchasePayment) IsCancelled() bool {
	return p.Status == ReceiptCancelled
}

// Cancel marca el egreso como anulado.
func (p *PurchasePayment) Cancel(reason, actorID string, at time.Time) {
	p.Status = ReceiptCancelled
	p.CancelReason = reason
	p.CancelledBy = actorID
	p.CancelledAt = &at
}
