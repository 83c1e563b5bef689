package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/cartera-b2b/internal/domain"
	"github.com/jhoicas/cartera-b2b/internal/domain/entity"
	"github.com/jhoicas/cartera-b2b/internal/domain/repository"
)

var (
	_ repository.SupplierRepository        = (*SupplierRepo)(nil)
	_ repository.PurchaseRepository        = (*PurchaseRepo)(nil)
	_ repository.PurchasePaymentRepository = (*PurchasePaymentRepo)(nil)
)

const supplierColumns = `id, id_type, id_number, name, email, phone, tax_regime, credit_days, status, created_at, updated_at`

// SupplierRepo proveedores sobre PostgreSQL.
type SupplierRepo struct {
	q Querier
}

func NewSupplierRepository(q Querier) *SupplierRepo {
	return &SupplierRepo{q: q}
}

func scanSupplier(row pgx.Row) (*entity.Supplier, error) {
	var s entity.Supplier
	err := row.Scan(&s.ID, &s.IDType, &s.IDNumber, &s.Name, &s.Email, &s.Phone, &s.TaxRegime,
		&s.CreditDays, &s.Status, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SupplierRepo) Create(ctx context.Context, s *entity.Supplier) error {
	query := `
		INSERT INTO suppliers (` + supplierColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.IDType, s.IDNumber, s.Name, s.Email, s.Phone, string(s.TaxRegime),
		s.CreditDays, string(s.Status), s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateCode
		}
		return fmt.Errorf("insert supplier: %w", err)
	}
	return nil
}

func (r *SupplierRepo) GetByID(ctx context.Context, id string) (*entity.Supplier, error) {
	s, err := scanSupplier(r.q.QueryRow(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE id = $1`, id))
	return optional(s, err, "get supplier")
}

func (r *SupplierRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Supplier, error) {
	s, err := scanSupplier(r.q.QueryRow(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE id = $1 FOR UPDATE`, id))
	return optional(s, err, "get supplier for update")
}

func (r *SupplierRepo) GetByIDNumber(ctx context.Context, idNumber string) (*entity.Supplier, error) {
	s, err := scanSupplier(r.q.QueryRow(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE id_number = $1`, idNumber))
	return optional(s, err, "get supplier by id_number")
}

const purchaseColumns = `id, purchase_number, supplier_id, store_id, supplier_invoice_ref,
	subtotal, discount, tax_total, withholding_total, total, amount_paid, balance_due,
	payment_status, payment_method, issue_date, due_date, paid_in_full_date, overdue_days,
	notes, created_by, cancel_reason, cancelled_at, cancelled_by, created_at, updated_at`

// PurchaseRepo compras a proveedores sobre PostgreSQL.
type PurchaseRepo struct {
	q Querier
}

func NewPurchaseRepository(q Querier) *PurchaseRepo {
	return &PurchaseRepo{q: q}
}

func scanPurchase(row pgx.Row) (*entity.Purchase, error) {
	var p entity.Purchase
	err := row.Scan(
		&p.ID, &p.PurchaseNumber, &p.SupplierID, &p.StoreID, &p.SupplierInvoiceRef,
		&p.Subtotal, &p.Discount, &p.TaxTotal, &p.WithholdingTotal, &p.Total, &p.AmountPaid, &p.BalanceDue,
		&p.PaymentStatus, &p.PaymentMethod, &p.IssueDate, &p.DueDate, &p.PaidInFullDate, &p.OverdueDays,
		&p.Notes, &p.CreatedBy, &p.CancelReason, &p.CancelledAt, &p.CancelledBy, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PurchaseRepo) Create(ctx context.Context, p *entity.Purchase) error {
	query := `
		INSERT INTO purchases (` + purchaseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.PurchaseNumber, p.SupplierID, p.StoreID, p.SupplierInvoiceRef,
		p.Subtotal, p.Discount, p.TaxTotal, p.WithholdingTotal, p.Total, p.AmountPaid, p.BalanceDue,
		string(p.PaymentStatus), string(p.PaymentMethod), p.IssueDate, p.DueDate, p.PaidInFullDate, p.OverdueDays,
		p.Notes, p.CreatedBy, p.CancelReason, p.CancelledAt, p.CancelledBy, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateCode
		}
		return fmt.Errorf("insert purchase: %w", err)
	}
	return nil
}

func (r *PurchaseRepo) CreateLine(ctx context.Context, line *entity.PurchaseLineItem) error {
	query := `
		INSERT INTO purchase_line_items (id, purchase_id, product_id, product_name, quantity, unit_cost,
			discount_percent, subtotal, discount, total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		line.ID, line.PurchaseID, line.ProductID, line.ProductName, line.Quantity, line.UnitCost,
		line.DiscountPercent, line.Subtotal, line.Discount, line.Total,
	)
	if err != nil {
		return fmt.Errorf("insert purchase line: %w", err)
	}
	return nil
}

func (r *PurchaseRepo) CreateTaxLine(ctx context.Context, line *entity.PurchaseTaxLine) error {
	query := `
		INSERT INTO purchase_tax_lines (id, purchase_id, tax_id, code, name, kind, base_rule,
			rate_applied, base_amount, computed_amount, sequence)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		line.ID, line.PurchaseID, line.TaxID, line.Code, line.Name, string(line.Kind), string(line.BaseRule),
		line.RateApplied, line.BaseAmount, line.ComputedAmount, line.Sequence,
	)
	if err != nil {
		return fmt.Errorf("insert purchase tax line: %w", err)
	}
	return nil
}

func (r *PurchaseRepo) Update(ctx context.Context, p *entity.Purchase) error {
	query := `
		UPDATE purchases SET
			amount_paid = $2, balance_due = $3, payment_status = $4, due_date = $5, paid_in_full_date = $6,
			overdue_days = $7, cancel_reason = $8, cancelled_at = $9, cancelled_by = $10, updated_at = $11
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		p.ID, p.AmountPaid, p.BalanceDue, string(p.PaymentStatus), p.DueDate, p.PaidInFullDate,
		p.OverdueDays, p.CancelReason, p.CancelledAt, p.CancelledBy, p.UpdatedAt,
	)
	return expectOne(tag, err, "update purchase", domain.ErrNotFound)
}

func (r *PurchaseRepo) GetByID(ctx context.Context, id string) (*entity.Purchase, error) {
	p, err := scanPurchase(r.q.QueryRow(ctx, `SELECT `+purchaseColumns+` FROM purchases WHERE id = $1`, id))
	return optional(p, err, "get purchase")
}

func (r *PurchaseRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Purchase, error) {
	p, err := scanPurchase(r.q.QueryRow(ctx, `SELECT `+purchaseColumns+` FROM purchases WHERE id = $1 FOR UPDATE`, id))
	return optional(p, err, "get purchase for update")
}

func (r *PurchaseRepo) GetLines(ctx context.Context, purchaseID string) ([]*entity.PurchaseLineItem, error) {
	query := `
		SELECT id, purchase_id, product_id, product_name, quantity, unit_cost, discount_percent, subtotal, discount, total
		FROM purchase_line_items WHERE purchase_id = $1 ORDER BY position`
	rows, err := r.q.Query(ctx, query, purchaseID)
	return collect(rows, err, func(row pgx.Row) (*entity.PurchaseLineItem, error) {
		var l entity.PurchaseLineItem
		err := row.Scan(&l.ID, &l.PurchaseID, &l.ProductID, &l.ProductName, &l.Quantity, &l.UnitCost,
			&l.DiscountPercent, &l.Subtotal, &l.Discount, &l.Total)
		return &l, err
	}, "get purchase lines")
}

func (r *PurchaseRepo) GetTaxLines(ctx context.Context, purchaseID string) ([]*entity.PurchaseTaxLine, error) {
	query := `
		SELECT id, purchase_id, tax_id, code, name, kind, base_rule, rate_applied, base_amount, computed_amount, sequence
		FROM purchase_tax_lines WHERE purchase_id = $1 ORDER BY sequence`
	rows, err := r.q.Query(ctx, query, purchaseID)
	return collect(rows, err, func(row pgx.Row) (*entity.PurchaseTaxLine, error) {
		var l entity.PurchaseTaxLine
		err := row.Scan(&l.ID, &l.PurchaseID, &l.TaxID, &l.Code, &l.Name, &l.Kind, &l.BaseRule,
			&l.RateApplied, &l.BaseAmount, &l.ComputedAmount, &l.Sequence)
		return &l, err
	}, "get purchase tax lines")
}

func (r *PurchaseRepo) ListOpenBySupplier(ctx context.Context, supplierID string) ([]*entity.Purchase, error) {
	query := `
		SELECT ` + purchaseColumns + ` FROM purchases
		WHERE supplier_id = $1 AND payment_status IN ` + openStatuses + `
		ORDER BY issue_date DESC, purchase_number DESC`
	rows, err := r.q.Query(ctx, query, supplierID)
	return collect(rows, err, scanPurchase, "list open purchases")
}

func (r *PurchaseRepo) ListPastDue(ctx context.Context, now time.Time) ([]*entity.Purchase, error) {
	query := `
		SELECT ` + purchaseColumns + ` FROM purchases
		WHERE payment_status IN ` + openStatuses + ` AND due_date < $1
		ORDER BY purchase_number`
	rows, err := r.q.Query(ctx, query, now)
	return collect(rows, err, scanPurchase, "list past due purchases")
}

const purchasePaymentColumns = `id, payment_number, purchase_id, supplier_id, amount, method, reference, bank,
	payment_date, paid_by, status, cancel_reason, cancelled_at, cancelled_by, created_at`

// PurchasePaymentRepo egresos a proveedores sobre PostgreSQL.
type PurchasePaymentRepo struct {
	q Querier
}

func NewPurchasePaymentRepository(q Querier) *PurchasePaymentRepo {
	return &PurchasePaymentRepo{q: q}
}

func scanPurchasePayment(row pgx.Row) (*entity.PurchasePayment, error) {
	var p entity.PurchasePayment
	err := row.Scan(&p.ID, &p.PaymentNumber, &p.PurchaseID, &p.SupplierID, &p.Amount, &p.Method, &p.Reference, &p.Bank,
		&p.PaymentDate, &p.PaidBy, &p.Status, &p.CancelReason, &p.CancelledAt, &p.CancelledBy, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PurchasePaymentRepo) Create(ctx context.Context, p *entity.PurchasePayment) error {
	query := `
		INSERT INTO purchase_payments (` + purchasePaymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.PaymentNumber, p.PurchaseID, p.SupplierID, p.Amount, string(p.Method), p.Reference, p.Bank,
		p.PaymentDate, p.PaidBy, string(p.Status), p.CancelReason, p.CancelledAt, p.CancelledBy, p.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateCode
		}
		return fmt.Errorf("insert purchase payment: %w", err)
	}
	return nil
}

func (r *PurchasePaymentRepo) GetByID(ctx context.Context, id string) (*entity.PurchasePayment, error) {
	query := `SELECT ` + purchasePaymentColumns + ` FROM purchase_payments WHERE id = $1`
	p, err := scanPurchasePayment(r.q.QueryRow(ctx, query, id))
	return optional(p, err, "get purchase payment")
}

func (r *PurchasePaymentRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.PurchasePayment, error) {
	query := `SELECT ` + purchasePaymentColumns + ` FROM purchase_payments WHERE id = $1 FOR UPDATE`
	p, err := scanPurchasePayment(r.q.QueryRow(ctx, query, id))
	return optional(p, err, "get purchase payment for update")
}

func (r *PurchasePaymentRepo) Update(ctx context.Context, p *entity.PurchasePayment) error {
	query := `
		UPDATE purchase_payments SET status = $2, cancel_reason = $3, cancelled_at = $4, cancelled_by = $5
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, p.ID, string(p.Status), p.CancelReason, p.CancelledAt, p.CancelledBy)
	return expectOne(tag, err, "update purchase payment", domain.ErrNotFound)
}

func (r *PurchasePaymentRepo) ListByPurchase(ctx context.Context, purchaseID string) ([]*entity.PurchasePayment, error) {
	query := `SELECT ` + purchasePaymentColumns + ` FROM purchase_payments WHERE purchase_id = $1 ORDER BY payment_number`
	rows, err := r.q.Query(ctx, query, purchaseID)
	return collect(rows, err, scanPurchasePayment, "list purchase payments")
}

func (r *PurchasePaymentRepo) ListRecentBySupplier(ctx context.Context, supplierID string, limit int) ([]*entity.PurchasePayment, error) {
	query := `
		SELECT ` + purchasePaymentColumns + ` FROM purchase_payments
		WHERE supplier_id = $1 AND status = 'APPLIED'
		ORDER BY payment_date DESC, payment_number DESC
		LIMIT NULLIF($2::int, 0)`
	rows, err := r.q.Query(ctx, query, supplierID, limit)
	return collect(rows, err, scanPurchasePayment, "list recent purchase payments")
}
