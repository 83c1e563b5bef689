package repository

import (
	"context"
	"time"

	"github.com/jhoicas/cartera-b2b/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// InvoiceRepository define el puerto de persistencia para Invoice, sus líneas y sus líneas de impuesto.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	CreateLine(ctx context.Context, line *entity.InvoiceLineItem) error
	CreateTaxLine(ctx context.Context, line *entity.InvoiceTaxLine) error
	// Update persiste montos, estado de cartera y campos de anulación.
	Update(ctx context.Context, invoice *entity.Invoice) error
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Invoice, error)
	GetLines(ctx context.Context, invoiceID string) ([]*entity.InvoiceLineItem, error)
	GetTaxLines(ctx context.Context, invoiceID string) ([]*entity.InvoiceTaxLine, error)
	// ListOpenByCustomer facturas PENDING, PARTIAL u OVERDUE del cliente, más recientes primero.
	ListOpenByCustomer(ctx context.Context, customerID string) ([]*entity.Invoice, error)
	// ListPastDue facturas abiertas con vencimiento anterior a now.
	ListPastDue(ctx context.Context, now time.Time) ([]*entity.Invoice, error)
	// CustomerIDsWithOverdue clientes con al menos una factura OVERDUE.
	CustomerIDsWithOverdue(ctx context.Context) ([]string, error)
	CountByCustomer(ctx context.Context, customerID string) (int, error)
	// SumOpenCreditBalance Σ balance_due de facturas CREDIT no anuladas del cliente.
	SumOpenCreditBalance(ctx context.Context, customerID string) (decimal.Decimal, error)
}
