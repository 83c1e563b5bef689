package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/cartera-b2b/internal/domain"
	"github.com/jhoicas/cartera-b2b/internal/domain/entity"
	"github.com/jhoicas/cartera-b2b/internal/domain/repository"
)

var (
	_ repository.TaxRepository                = (*TaxRepo)(nil)
	_ repository.CustomerTaxDefaultRepository = (*CustomerTaxDefaultRepo)(nil)
)

const taxColumns = `id, code, name, kind, rate, base_rule, applicability, application_order, sequence, active, created_at, updated_at`

// TaxRepo implementación de TaxRepository sobre PostgreSQL (usable con pool o tx).
type TaxRepo struct {
	q Querier
}

// NewTaxRepository construye el adaptador del catálogo de impuestos.
func NewTaxRepository(q Querier) *TaxRepo {
	return &TaxRepo{q: q}
}

func scanTax(row pgx.Row) (*entity.TaxDefinition, error) {
	var t entity.TaxDefinition
	err := row.Scan(&t.ID, &t.Code, &t.Name, &t.Kind, &t.Rate, &t.BaseRule, &t.Applicability,
		&t.ApplicationOrder, &t.Sequence, &t.Active, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Create inserta el impuesto y asigna Sequence desde la columna serial.
func (r *TaxRepo) Create(ctx context.Context, t *entity.TaxDefinition) error {
	query := `
		INSERT INTO taxes (id, code, name, kind, rate, base_rule, applicability, application_order, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING sequence`
	err := r.q.QueryRow(ctx, query,
		t.ID, t.Code, t.Name, string(t.Kind), t.Rate, string(t.BaseRule), string(t.Applicability),
		t.ApplicationOrder, t.Active, t.CreatedAt, t.UpdatedAt,
	).Scan(&t.Sequence)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateCode
		}
		return fmt.Errorf("insert tax: %w", err)
	}
	return nil
}

func (r *TaxRepo) Update(ctx context.Context, t *entity.TaxDefinition) error {
	query := `
		UPDATE taxes SET name = $2, kind = $3, rate = $4, base_rule = $5, applicability = $6,
			application_order = $7, active = $8, updated_at = $9
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		t.ID, t.Name, string(t.Kind), t.Rate, string(t.BaseRule), string(t.Applicability),
		t.ApplicationOrder, t.Active, t.UpdatedAt,
	)
	return expectOne(tag, err, "update tax", domain.ErrNotFound)
}

func (r *TaxRepo) GetByID(ctx context.Context, id string) (*entity.TaxDefinition, error) {
	t, err := scanTax(r.q.QueryRow(ctx, `SELECT `+taxColumns+` FROM taxes WHERE id = $1`, id))
	return optional(t, err, "get tax")
}

func (r *TaxRepo) GetByCode(ctx context.Context, code string) (*entity.TaxDefinition, error) {
	t, err := scanTax(r.q.QueryRow(ctx, `SELECT `+taxColumns+` FROM taxes WHERE code = $1`, code))
	return optional(t, err, "get tax by code")
}

// GetByIDs devuelve los impuestos existentes en el orden de ids.
func (r *TaxRepo) GetByIDs(ctx context.Context, ids []string) ([]*entity.TaxDefinition, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.q.Query(ctx, `SELECT `+taxColumns+` FROM taxes WHERE id = ANY($1)`, ids)
	found, err := collect(rows, err, scanTax, "get taxes by ids")
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*entity.TaxDefinition, len(found))
	for _, t := range found {
		byID[t.ID] = t
	}
	out := make([]*entity.TaxDefinition, 0, len(found))
	for _, id := range ids {
		if t, ok := byID[id]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *TaxRepo) List(ctx context.Context, activeOnly bool) ([]*entity.TaxDefinition, error) {
	query := `SELECT ` + taxColumns + ` FROM taxes WHERE ($1 = FALSE OR active) ORDER BY sequence`
	rows, err := r.q.Query(ctx, query, activeOnly)
	return collect(rows, err, scanTax, "list taxes")
}

// CustomerTaxDefaultRepo impuestos por defecto de cada cliente.
type CustomerTaxDefaultRepo struct {
	q Querier
}

// NewCustomerTaxDefaultRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCustomerTaxDefaultRepository(q Querier) *CustomerTaxDefaultRepo {
	return &CustomerTaxDefaultRepo{q: q}
}

func scanTaxDefault(row pgx.Row) (*entity.CustomerTaxDefault, error) {
	var d entity.CustomerTaxDefault
	if err := row.Scan(&d.CustomerID, &d.TaxID, &d.RateOverride, &d.CreatedAt); err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *CustomerTaxDefaultRepo) ListByCustomer(ctx context.Context, customerID string) ([]*entity.CustomerTaxDefault, error) {
	query := `
		SELECT customer_id, tax_id, rate_override, created_at
		FROM customer_tax_defaults WHERE customer_id = $1 ORDER BY position`
	rows, err := r.q.Query(ctx, query, customerID)
	return collect(rows, err, scanTaxDefault, "list customer tax defaults")
}

// ReplaceForCustomer borra el conjunto anterior e inserta el nuevo conservando su orden.
func (r *CustomerTaxDefaultRepo) ReplaceForCustomer(ctx context.Context, customerID string, defaults []*entity.CustomerTaxDefault) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM customer_tax_defaults WHERE customer_id = $1`, customerID); err != nil {
		return fmt.Errorf("delete customer tax defaults: %w", err)
	}
	query := `
		INSERT INTO customer_tax_defaults (customer_id, tax_id, rate_override, position, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	for i, d := range defaults {
		if _, err := r.q.Exec(ctx, query, customerID, d.TaxID, d.RateOverride, i, d.CreatedAt); err != nil {
			if isUniqueViolation(err) {
				return domain.ErrDuplicateCode
			}
			return fmt.Errorf("insert customer tax default: %w", err)
		}
	}
	return nil
}
