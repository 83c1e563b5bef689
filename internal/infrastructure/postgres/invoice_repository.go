package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/cartera-b2b/internal/domain"
	"github.com/jhoicas/cartera-b2b/internal/domain/entity"
	"github.com/jhoicas/cartera-b2b/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

const invoiceColumns = `id, invoice_number, customer_id, store_id, originating_order_id,
	subtotal, discount, tax_total, withholding_total, total, amount_paid, balance_due,
	payment_status, payment_method, issue_date, due_date, paid_in_full_date, overdue_days,
	notes, created_by, cancel_reason, cancelled_at, cancelled_by, created_at, updated_at`

const openStatuses = `('PENDING', 'PARTIAL', 'OVERDUE')`

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	err := row.Scan(
		&inv.ID, &inv.InvoiceNumber, &inv.CustomerID, &inv.StoreID, &inv.OriginatingOrderID,
		&inv.Subtotal, &inv.Discount, &inv.TaxTotal, &inv.WithholdingTotal, &inv.Total, &inv.AmountPaid, &inv.BalanceDue,
		&inv.PaymentStatus, &inv.PaymentMethod, &inv.IssueDate, &inv.DueDate, &inv.PaidInFullDate, &inv.OverdueDays,
		&inv.Notes, &inv.CreatedBy, &inv.CancelReason, &inv.CancelledAt, &inv.CancelledBy, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// Create persiste la cabecera de la factura. Las líneas se insertan aparte en la misma tx.
func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	query := `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25)`
	_, err := r.q.Exec(ctx, query,
		inv.ID, inv.InvoiceNumber, inv.CustomerID, inv.StoreID, inv.OriginatingOrderID,
		inv.Subtotal, inv.Discount, inv.TaxTotal, inv.WithholdingTotal, inv.Total, inv.AmountPaid, inv.BalanceDue,
		string(inv.PaymentStatus), string(inv.PaymentMethod), inv.IssueDate, inv.DueDate, inv.PaidInFullDate, inv.OverdueDays,
		inv.Notes, inv.CreatedBy, inv.CancelReason, inv.CancelledAt, inv.CancelledBy, inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateCode
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

func (r *InvoiceRepo) CreateLine(ctx context.Context, line *entity.InvoiceLineItem) error {
	query := `
		INSERT INTO invoice_line_items (id, invoice_id, product_id, product_name, quantity, unit_price,
			discount_percent, subtotal, discount, total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		line.ID, line.InvoiceID, line.ProductID, line.ProductName, line.Quantity, line.UnitPrice,
		line.DiscountPercent, line.Subtotal, line.Discount, line.Total,
	)
	if err != nil {
		return fmt.Errorf("insert invoice line: %w", err)
	}
	return nil
}

func (r *InvoiceRepo) CreateTaxLine(ctx context.Context, line *entity.InvoiceTaxLine) error {
	query := `
		INSERT INTO invoice_tax_lines (id, invoice_id, tax_id, code, name, kind, base_rule,
			rate_applied, base_amount, computed_amount, sequence)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		line.ID, line.InvoiceID, line.TaxID, line.Code, line.Name, string(line.Kind), string(line.BaseRule),
		line.RateApplied, line.BaseAmount, line.ComputedAmount, line.Sequence,
	)
	if err != nil {
		return fmt.Errorf("insert invoice tax line: %w", err)
	}
	return nil
}

// Update persiste montos, estado de cartera y campos de anulación.
func (r *InvoiceRepo) Update(ctx context.Context, inv *entity.Invoice) error {
	query := `
		UPDATE invoices SET
			amount_paid = $2, balance_due = $3, payment_status = $4, due_date = $5, paid_in_full_date = $6,
			overdue_days = $7, cancel_reason = $8, cancelled_at = $9, cancelled_by = $10, updated_at = $11
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		inv.ID, inv.AmountPaid, inv.BalanceDue, string(inv.PaymentStatus), inv.DueDate, inv.PaidInFullDate,
		inv.OverdueDays, inv.CancelReason, inv.CancelledAt, inv.CancelledBy, inv.UpdatedAt,
	)
	return expectOne(tag, err, "update invoice", domain.ErrNotFound)
}

func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	inv, err := scanInvoice(r.q.QueryRow(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id))
	return optional(inv, err, "get invoice")
}

// GetByIDForUpdate bloquea la fila de la factura hasta el fin de la transacción.
func (r *InvoiceRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1 FOR UPDATE`
	inv, err := scanInvoice(r.q.QueryRow(ctx, query, id))
	return optional(inv, err, "get invoice for update")
}

func (r *InvoiceRepo) GetLines(ctx context.Context, invoiceID string) ([]*entity.InvoiceLineItem, error) {
	query := `
		SELECT id, invoice_id, product_id, product_name, quantity, unit_price, discount_percent, subtotal, discount, total
		FROM invoice_line_items WHERE invoice_id = $1 ORDER BY position`
	rows, err := r.q.Query(ctx, query, invoiceID)
	return collect(rows, err, func(row pgx.Row) (*entity.InvoiceLineItem, error) {
		var l entity.InvoiceLineItem
		err := row.Scan(&l.ID, &l.InvoiceID, &l.ProductID, &l.ProductName, &l.Quantity, &l.UnitPrice,
			&l.DiscountPercent, &l.Subtotal, &l.Discount, &l.Total)
		return &l, err
	}, "get invoice lines")
}

func (r *InvoiceRepo) GetTaxLines(ctx context.Context, invoiceID string) ([]*entity.InvoiceTaxLine, error) {
	query := `
		SELECT id, invoice_id, tax_id, code, name, kind, base_rule, rate_applied, base_amount, computed_amount, sequence
		FROM invoice_tax_lines WHERE invoice_id = $1 ORDER BY sequence`
	rows, err := r.q.Query(ctx, query, invoiceID)
	return collect(rows, err, func(row pgx.Row) (*entity.InvoiceTaxLine, error) {
		var l entity.InvoiceTaxLine
		err := row.Scan(&l.ID, &l.InvoiceID, &l.TaxID, &l.Code, &l.Name, &l.Kind, &l.BaseRule,
			&l.RateApplied, &l.BaseAmount, &l.ComputedAmount, &l.Sequence)
		return &l, err
	}, "get invoice tax lines")
}

// ListOpenByCustomer facturas con saldo exigible, más recientes primero.
func (r *InvoiceRepo) ListOpenByCustomer(ctx context.Context, customerID string) ([]*entity.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + ` FROM invoices
		WHERE customer_id = $1 AND payment_status IN ` + openStatuses + `
		ORDER BY issue_date DESC, invoice_number DESC`
	rows, err := r.q.Query(ctx, query, customerID)
	return collect(rows, err, scanInvoice, "list open invoices")
}

func (r *InvoiceRepo) ListPastDue(ctx context.Context, now time.Time) ([]*entity.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + ` FROM invoices
		WHERE payment_status IN ` + openStatuses + ` AND due_date < $1
		ORDER BY invoice_number`
	rows, err := r.q.Query(ctx, query, now)
	return collect(rows, err, scanInvoice, "list past due invoices")
}

func (r *InvoiceRepo) CustomerIDsWithOverdue(ctx context.Context) ([]string, error) {
	query := `SELECT DISTINCT customer_id FROM invoices WHERE payment_status = 'OVERDUE' ORDER BY customer_id`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list customers with overdue: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("list customers with overdue: %w", err)
	}
	return ids, nil
}

func (r *InvoiceRepo) CountByCustomer(ctx context.Context, customerID string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM invoices WHERE customer_id = $1`, customerID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count invoices: %w", err)
	}
	return n, nil
}

// SumOpenCreditBalance Σ balance_due de facturas CREDIT no anuladas del cliente.
func (r *InvoiceRepo) SumOpenCreditBalance(ctx context.Context, customerID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(balance_due), 0) FROM invoices
		WHERE customer_id = $1 AND payment_method = 'CREDIT' AND payment_status <> 'CANCELLED'`
	var sum decimal.Decimal
	if err := r.q.QueryRow(ctx, query, customerID).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("sum open credit balance: %w", err)
	}
	return sum, nil
}
