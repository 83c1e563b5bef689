package repository

import "context"

// Repositories agrupa los puertos del libro de cartera atados a una misma conexión o transacción.
type Repositories struct {
	Taxes            TaxRepository
	TaxDefaults      CustomerTaxDefaultRepository
	Customers        CustomerRepository
	Invoices         InvoiceRepository
	Payments         PaymentRepository
	Suppliers        SupplierRepository
	Purchases        PurchaseRepository
	PurchasePayments PurchasePaymentRepository
	Products         ProductRepository
	Stores           StoreRepository
	Stock            StockRepository
	Movements        InventoryMovementRepository
	Sequences        SequenceRepository
}

// TxRunner ejecuta fn dentro de una transacción con repos atados a ella.
// Commit si fn devuelve nil; rollback ante cualquier error.
type TxRunner interface {
	RunLedger(ctx context.Context, fn func(repos Repositories) error) error
}
