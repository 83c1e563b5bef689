package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias de infraestructura).
var (
	ErrNotFound                = errors.New("recurso no encontrado")
	ErrInvalidInput            = errors.New("entrada inválida")
	ErrDuplicateCode           = errors.New("código o identificación duplicada")
	ErrUnauthorized            = errors.New("no autorizado")
	ErrForbidden               = errors.New("acceso denegado")
	ErrConflict                = errors.New("conflicto con el estado actual")
	ErrCustomerNotEligible     = errors.New("cliente no habilitado para facturar")
	ErrInsufficientStock       = errors.New("stock insuficiente")
	ErrInsufficientCredit      = errors.New("cupo de crédito insuficiente")
	ErrInvalidAmount           = errors.New("monto inválido")
	ErrInvoiceCancelled        = errors.New("el documento está anulado")
	ErrAlreadyCancelled        = errors.New("el registro ya fue anulado")
	ErrInvalidTaxConfiguration = errors.New("configuración de impuestos inválida")
)

// InsufficientCreditError detalla un rechazo por cupo: monto solicitado vs disponible.
type InsufficientCreditError struct {
	CustomerID string
	Requested  decimal.Decimal
	Available  decimal.Decimal
}

func (e *InsufficientCreditError) Error() string {
	return fmt.Sprintf("%s: solicitado %s, disponible %s",
		ErrInsufficientCredit, e.Requested.StringFixed(2), e.Available.StringFixed(2))
}

func (e *InsufficientCreditError) Unwrap() error { return ErrInsufficientCredit }

// InsufficientStockError detalla el producto sin existencias suficientes en la tienda.
type InsufficientStockError struct {
	ProductID   string
	ProductName string
	StoreID     string
	Requested   decimal.Decimal
	Available   decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	name := e.ProductName
	if name == "" {
		name = e.ProductID
	}
	return fmt.Sprintf("%s para %q: solicitado %s, disponible %s",
		ErrInsufficientStock, name, e.Requested.String(), e.Available.String())
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// InvalidAmountError detalla un pago fuera de rango frente al saldo del documento.
type InvalidAmountError struct {
	Amount     decimal.Decimal
	BalanceDue decimal.Decimal
}

func (e *InvalidAmountError) Error() string {
	return fmt.Sprintf("%s: monto %s, saldo pendiente %s",
		ErrInvalidAmount, e.Amount.StringFixed(2), e.BalanceDue.StringFixed(2))
}

func (e *InvalidAmountError) Unwrap() error { return ErrInvalidAmount }

// TaxConfigError identifica el impuesto que vuelve inválida la composición.
type TaxConfigError struct {
	TaxCode string
	Reason  string
}

func (e *TaxConfigError) Error() string {
	if e.TaxCode == "" {
		return fmt.Sprintf("%s: %s", ErrInvalidTaxConfiguration, e.Reason)
	}
	return fmt.Sprintf("%s (%s): %s", ErrInvalidTaxConfiguration, e.TaxCode, e.Reason)
}

func (e *TaxConfigError) Unwrap() error { return ErrInvalidTaxConfiguration }

// ValidationError describe los campos rechazados antes de abrir la transacción.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %d campo(s) con error", ErrInvalidInput, len(e.Fields))
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// NewValidationError construye un ValidationError de un solo campo.
func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}
