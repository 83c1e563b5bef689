package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/cartera-b2b/internal/domain/repository"
)

var _ repository.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
	iso  pgx.TxIsoLevel
}

// NewTxRunner construye el runner con el pool y el nivel de aislamiento configurado
// (read_committed, repeatable_read o serializable).
func NewTxRunner(pool *pgxpool.Pool, isolation string) *TxRunner {
	return &TxRunner{pool: pool, iso: isoLevel(isolation)}
}

// RunLedger inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) RunLedger(ctx context.Context, fn func(repos repository.Repositories) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: r.iso})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(Repos(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Repos devuelve los repositorios sobre el pool, fuera de transacción.
func (r *TxRunner) Repos() repository.Repositories {
	return Repos(r.pool)
}

// Repos construye todos los repositorios sobre q (pool o tx).
func Repos(q Querier) repository.Repositories {
	return repository.Repositories{
		Taxes:            NewTaxRepository(q),
		TaxDefaults:      NewCustomerTaxDefaultRepository(q),
		Customers:        NewCustomerRepository(q),
		Invoices:         NewInvoiceRepository(q),
		Payments:         NewPaymentRepository(q),
		Suppliers:        NewSupplierRepository(q),
		Purchases:        NewPurchaseRepository(q),
		PurchasePayments: NewPurchasePaymentRepository(q),
		Products:         NewProductRepository(q),
		Stores:           NewStoreRepository(q),
		Stock:            NewStockRepository(q),
		Movements:        NewInventoryMovementRepository(q),
		Sequences:        NewSequenceRepository(q),
	}
}

func isoLevel(name string) pgx.TxIsoLevel {
	switch name {
	case "repeatable_read":
		return pgx.RepeatableRead
	case "serializable":
		return pgx.Serializable
	default:
		return pgx.ReadCommitted
	}
}
