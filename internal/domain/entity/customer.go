package entity

import (
	"time"

	"github.com/jhoicas/cartera-b2b/internal/domain"
	"github.com/shopspring/decimal"
)

// CustomerStatus estado del cliente B2B.
type CustomerStatus string

const (
	CustomerActive    CustomerStatus = "ACTIVE"
	CustomerInactive  CustomerStatus = "INACTIVE"
	CustomerSuspended CustomerStatus = "SUSPENDED"
	CustomerBlocked   CustomerStatus = "BLOCKED"
)

// IsValid verifica que el estado sea conocido.
func (s CustomerStatus) IsValid() bool {
	switch s {
	case CustomerActive, CustomerInactive, CustomerSuspended, CustomerBlocked:
		return true
	}
	return false
}

// Transiciones manuales permitidas. Desde ACTIVE se puede suspender, bloquear o inactivar;
// cualquier otro estado solo vuelve a ACTIVE.
var customerTransitions = map[CustomerStatus][]CustomerStatus{
	CustomerActive:    {CustomerSuspended, CustomerBlocked, CustomerInactive},
	CustomerSuspended: {CustomerActive},
	CustomerBlocked:   {CustomerActive},
	CustomerInactive:  {CustomerActive},
}

// CanTransitionTo indica si la transición manual es válida.
func (s CustomerStatus) CanTransitionTo(to CustomerStatus) bool {
	for _, allowed := range customerTransitions[s] {
		if allowed == to {
			return true
		}
	}
	return false
}

// B2BCustomer cliente corporativo con cupo de crédito.
// Invariante: CreditAvailable = CreditLimit − Σ saldo de facturas a crédito no anuladas.
type B2BCustomer struct {
	ID               string
	IDType           string // NIT, CC, CE...
	IDNumber         string
	LegalName        string
	TradeName        string
	Email            string
	Phone            string
	Address          string
	TaxRegime        TaxRegime
	CreditLimit      decimal.Decimal
	CreditAvailable  decimal.Decimal
	CreditDays       int
	DiscountPercent  decimal.Decimal
	Status           CustomerStatus
	StatusReason     string
	BlockedByOverdue bool
	TotalSales       decimal.Decimal
	TotalInvoices    int
	LastPurchaseDate *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Outstanding saldo consumido del cupo.
func (c *B2BCustomer) Outstanding() decimal.Decimal {
	return c.CreditLimit.Sub(c.CreditAvailable)
}

// ReserveCredit descuenta amount del cupo disponible o falla con InsufficientCreditError.
// Debe llamarse con la fila del cliente bloqueada dentro de la transacción.
func (c *B2BCustomer) ReserveCredit(amount decimal.Decimal) error {
	if amount.GreaterThan(c.CreditAvailable) {
		return &domain.InsufficientCreditError{
			CustomerID: c.ID,
			Requested:  amount,
			Available:  c.CreditAvailable,
		}
	}
	c.CreditAvailable = c.CreditAvailable.Sub(amount)
	return nil
}

// ForceReserveCredit vuelve a consumir cupo sin validar: solo para revertir una liberación previa
// (anulación de pago), que restaura un estado que ya fue válido.
func (c *B2BCustomer) ForceReserveCredit(amount decimal.Decimal) {
	c.CreditAvailable = c.CreditAvailable.Sub(amount)
}

// ReleaseCredit devuelve amount al cupo disponible.
func (c *B2BCustomer) ReleaseCredit(amount decimal.Decimal) {
	c.CreditAvailable = c.CreditAvailable.Add(amount)
}

// CanInvoice indica si el cliente puede recibir facturas nuevas.
func (c *B2BCustomer) CanInvoice() bool {
	return c.Status == CustomerActive
}

// RecordSale actualiza las estadísticas agregadas al emitir una factura.
func (c *B2BCustomer) RecordSale(total decimal.Decimal, at time.Time) {
	c.TotalSales = c.TotalSales.Add(total)
	c.TotalInvoices++
	c.LastPurchaseDate = &at
}

// ReverseSale revierte las estadísticas al anular una factura.
func (c *B2BCustomer) ReverseSale(total decimal.Decimal) {
	c.TotalSales = c.TotalSales.Sub(total)
	if c.TotalInvoices > 0 {
		c.TotalInvoices--
	}
}
