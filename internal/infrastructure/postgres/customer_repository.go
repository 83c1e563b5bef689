package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/cartera-b2b/internal/domain"
	"github.com/jhoicas/cartera-b2b/internal/domain/entity"
	"github.com/jhoicas/cartera-b2b/internal/domain/repository"
)

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

const customerColumns = `id, id_type, id_number, legal_name, trade_name, email, phone, address, tax_regime,
	credit_limit, credit_available, credit_days, discount_percent, status, status_reason, blocked_by_overdue,
	total_sales, total_invoices, last_purchase_date, created_at, updated_at`

// CustomerRepo implementación de CustomerRepository (usable con pool o tx).
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

func scanCustomer(row pgx.Row) (*entity.B2BCustomer, error) {
	var c entity.B2BCustomer
	err := row.Scan(
		&c.ID, &c.IDType, &c.IDNumber, &c.LegalName, &c.TradeName, &c.Email, &c.Phone, &c.Address, &c.TaxRegime,
		&c.CreditLimit, &c.CreditAvailable, &c.CreditDays, &c.DiscountPercent, &c.Status, &c.StatusReason,
		&c.BlockedByOverdue, &c.TotalSales, &c.TotalInvoices, &c.LastPurchaseDate, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create persiste un nuevo cliente. Identificación repetida → domain.ErrDuplicateCode.
func (r *CustomerRepo) Create(ctx context.Context, c *entity.B2BCustomer) error {
	query := `
		INSERT INTO b2b_customers (` + customerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.IDType, c.IDNumber, c.LegalName, c.TradeName, c.Email, c.Phone, c.Address, string(c.TaxRegime),
		c.CreditLimit, c.CreditAvailable, c.CreditDays, c.DiscountPercent, string(c.Status), c.StatusReason,
		c.BlockedByOverdue, c.TotalSales, c.TotalInvoices, c.LastPurchaseDate, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateCode
		}
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

// GetByID obtiene un cliente por ID.
func (r *CustomerRepo) GetByID(ctx context.Context, id string) (*entity.B2BCustomer, error) {
	c, err := scanCustomer(r.q.QueryRow(ctx, `SELECT `+customerColumns+` FROM b2b_customers WHERE id = $1`, id))
	return optional(c, err, "get customer")
}

// GetByIDForUpdate obtiene el cliente y bloquea su fila hasta el fin de la transacción.
func (r *CustomerRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.B2BCustomer, error) {
	query := `SELECT ` + customerColumns + ` FROM b2b_customers WHERE id = $1 FOR UPDATE`
	c, err := scanCustomer(r.q.QueryRow(ctx, query, id))
	return optional(c, err, "get customer for update")
}

// GetByIDNumber obtiene un cliente por NIT/cédula.
func (r *CustomerRepo) GetByIDNumber(ctx context.Context, idNumber string) (*entity.B2BCustomer, error) {
	query := `SELECT ` + customerColumns + ` FROM b2b_customers WHERE id_number = $1`
	c, err := scanCustomer(r.q.QueryRow(ctx, query, idNumber))
	return optional(c, err, "get customer by id_number")
}

// List lista clientes con filtro por estado y búsqueda; Limit 0 devuelve todos.
func (r *CustomerRepo) List(ctx context.Context, f repository.CustomerFilter) ([]*entity.B2BCustomer, error) {
	query := `
		SELECT ` + customerColumns + ` FROM b2b_customers
		WHERE ($1 = '' OR status = $1)
		  AND ($2 = '' OR legal_name ILIKE '%' || $2 || '%' OR trade_name ILIKE '%' || $2 || '%' OR id_number LIKE '%' || $2 || '%')
		ORDER BY legal_name, id
		LIMIT NULLIF($3::int, 0) OFFSET $4`
	rows, err := r.q.Query(ctx, query, string(f.Status), f.Search, f.Limit, f.Offset)
	return collect(rows, err, scanCustomer, "list customers")
}

// ListBlockedByOverdue clientes bloqueados automáticamente por mora.
func (r *CustomerRepo) ListBlockedByOverdue(ctx context.Context) ([]*entity.B2BCustomer, error) {
	query := `
		SELECT ` + customerColumns + ` FROM b2b_customers
		WHERE status = 'BLOCKED' AND blocked_by_overdue
		ORDER BY id`
	rows, err := r.q.Query(ctx, query)
	return collect(rows, err, scanCustomer, "list customers blocked by overdue")
}

// Update persiste el estado completo del cliente, incluido el cupo.
func (r *CustomerRepo) Update(ctx context.Context, c *entity.B2BCustomer) error {
	query := `
		UPDATE b2b_customers SET
			id_type = $2, legal_name = $3, trade_name = $4, email = $5, phone = $6, address = $7, tax_regime = $8,
			credit_limit = $9, credit_available = $10, credit_days = $11, discount_percent = $12,
			status = $13, status_reason = $14, blocked_by_overdue = $15,
			total_sales = $16, total_invoices = $17, last_purchase_date = $18, updated_at = $19
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		c.ID, c.IDType, c.LegalName, c.TradeName, c.Email, c.Phone, c.Address, string(c.TaxRegime),
		c.CreditLimit, c.CreditAvailable, c.CreditDays, c.DiscountPercent,
		string(c.Status), c.StatusReason, c.BlockedByOverdue,
		c.TotalSales, c.TotalInvoices, c.LastPurchaseDate, c.UpdatedAt,
	)
	return expectOne(tag, err, "update customer", domain.ErrNotFound)
}

// Delete elimina un cliente por ID (sus impuestos por defecto caen en cascada).
func (r *CustomerRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM b2b_customers WHERE id = $1`, id)
	return expectOne(tag, err, "delete customer", domain.ErrNotFound)
}
