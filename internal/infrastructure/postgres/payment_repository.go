package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/cartera-b2b/internal/domain"
	"github.com/jhoicas/cartera-b2b/internal/domain/entity"
	"github.com/jhoicas/cartera-b2b/internal/domain/repository"
)

var _ repository.PaymentRepository = (*PaymentRepo)(nil)

const paymentColumns = `id, receipt_number, invoice_id, customer_id, amount, method, reference, bank,
	payment_date, received_by, shift_id, status, cancel_reason, cancelled_at, cancelled_by, created_at`

// PaymentRepo abonos de clientes sobre PostgreSQL.
type PaymentRepo struct {
	q Querier
}

func NewPaymentRepository(q Querier) *PaymentRepo {
	return &PaymentRepo{q: q}
}

func scanPayment(row pgx.Row) (*entity.Payment, error) {
	var p entity.Payment
	err := row.Scan(&p.ID, &p.ReceiptNumber, &p.InvoiceID, &p.CustomerID, &p.Amount, &p.Method, &p.Reference, &p.Bank,
		&p.PaymentDate, &p.ReceivedBy, &p.ShiftID, &p.Status, &p.CancelReason, &p.CancelledAt, &p.CancelledBy, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PaymentRepo) Create(ctx context.Context, p *entity.Payment) error {
	query := `
		INSERT INTO payments (` + paymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.ReceiptNumber, p.InvoiceID, p.CustomerID, p.Amount, string(p.Method), p.Reference, p.Bank,
		p.PaymentDate, p.ReceivedBy, p.ShiftID, string(p.Status), p.CancelReason, p.CancelledAt, p.CancelledBy, p.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateCode
		}
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

func (r *PaymentRepo) GetByID(ctx context.Context, id string) (*entity.Payment, error) {
	p, err := scanPayment(r.q.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id))
	return optional(p, err, "get payment")
}

func (r *PaymentRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Payment, error) {
	p, err := scanPayment(r.q.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = $1 FOR UPDATE`, id))
	return optional(p, err, "get payment for update")
}

// Update solo cambia estado y campos de anulación: el monto de un abono es inmutable.
func (r *PaymentRepo) Update(ctx context.Context, p *entity.Payment) error {
	query := `
		UPDATE payments SET status = $2, cancel_reason = $3, cancelled_at = $4, cancelled_by = $5
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, p.ID, string(p.Status), p.CancelReason, p.CancelledAt, p.CancelledBy)
	return expectOne(tag, err, "update payment", domain.ErrNotFound)
}

func (r *PaymentRepo) ListByInvoice(ctx context.Context, invoiceID string) ([]*entity.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE invoice_id = $1 ORDER BY receipt_number`
	rows, err := r.q.Query(ctx, query, invoiceID)
	return collect(rows, err, scanPayment, "list payments by invoice")
}

func (r *PaymentRepo) ListRecentByCustomer(ctx context.Context, customerID string, limit int) ([]*entity.Payment, error) {
	query := `
		SELECT ` + paymentColumns + ` FROM payments
		WHERE customer_id = $1 AND status = 'APPLIED'
		ORDER BY payment_date DESC, receipt_number DESC
		LIMIT NULLIF($2::int, 0)`
	rows, err := r.q.Query(ctx, query, customerID, limit)
	return collect(rows, err, scanPayment, "list recent payments")
}
