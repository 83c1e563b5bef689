// Package memory implementa los repositorios del libro de cartera en memoria.
// Se usa en desarrollo (LEDGER_STORE=memory) y en los tests de casos de uso.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/cartera-b2b/internal/domain/entity"
	"github.com/jhoicas/cartera-b2b/internal/domain/repository"
)

var _ repository.TxRunner = (*Store)(nil)

type stockKey struct {
	productID string
	storeID   string
}

// state contenido completo del libro. Las transacciones trabajan sobre una copia.
type state struct {
	taxes       map[string]entity.TaxDefinition
	taxSeq      int64
	taxDefaults map[string][]entity.CustomerTaxDefault

	customers       map[string]entity.B2BCustomer
	invoices        map[string]entity.Invoice
	invoiceLines    map[string][]entity.InvoiceLineItem
	invoiceTaxLines map[string][]entity.InvoiceTaxLine
	payments        map[string]entity.Payment

	suppliers        map[string]entity.Supplier
	purchases        map[string]entity.Purchase
	purchaseLines    map[string][]entity.PurchaseLineItem
	purchaseTaxLines map[string][]entity.PurchaseTaxLine
	purchasePayments map[string]entity.PurchasePayment

	products  map[string]entity.Product
	stores    map[string]entity.Store
	stock     map[stockKey]entity.Stock
	movements []entity.InventoryMovement
	sequences map[string]int64
}

func newState() *state {
	return &state{
		taxes:            make(map[string]entity.TaxDefinition),
		taxDefaults:      make(map[string][]entity.CustomerTaxDefault),
		customers:        make(map[string]entity.B2BCustomer),
		invoices:         make(map[string]entity.Invoice),
		invoiceLines:     make(map[string][]entity.InvoiceLineItem),
		invoiceTaxLines:  make(map[string][]entity.InvoiceTaxLine),
		payments:         make(map[string]entity.Payment),
		suppliers:        make(map[string]entity.Supplier),
		purchases:        make(map[string]entity.Purchase),
		purchaseLines:    make(map[string][]entity.PurchaseLineItem),
		purchaseTaxLines: make(map[string][]entity.PurchaseTaxLine),
		purchasePayments: make(map[string]entity.PurchasePayment),
		products:         make(map[string]entity.Product),
		stores:           make(map[string]entity.Store),
		stock:            make(map[stockKey]entity.Stock),
		sequences:        make(map[string]int64),
	}
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneSliceMap[K comparable, V any](m map[K][]V) map[K][]V {
	out := make(map[K][]V, len(m))
	for k, v := range m {
		out[k] = append([]V(nil), v...)
	}
	return out
}

func (st *state) clone() *state {
	return &state{
		taxes:            cloneMap(st.taxes),
		taxSeq:           st.taxSeq,
		taxDefaults:      cloneSliceMap(st.taxDefaults),
		customers:        cloneMap(st.customers),
		invoices:         cloneMap(st.invoices),
		invoiceLines:     cloneSliceMap(st.invoiceLines),
		invoiceTaxLines:  cloneSliceMap(st.invoiceTaxLines),
		payments:         cloneMap(st.payments),
		suppliers:        cloneMap(st.suppliers),
		purchases:        cloneMap(st.purchases),
		purchaseLines:    cloneSliceMap(st.purchaseLines),
		purchaseTaxLines: cloneSliceMap(st.purchaseTaxLines),
		purchasePayments: cloneMap(st.purchasePayments),
		products:         cloneMap(st.products),
		stores:           cloneMap(st.stores),
		stock:            cloneMap(st.stock),
		movements:        append([]entity.InventoryMovement(nil), st.movements...),
		sequences:        cloneMap(st.sequences),
	}
}

// Store libro en memoria. Las transacciones se serializan con txMu y trabajan sobre una
// copia del estado: commit reemplaza el estado, error la descarta.
type Store struct {
	txMu sync.Mutex
	rw   sync.RWMutex
	cur  *state
}

// NewStore construye un libro vacío.
func NewStore() *Store {
	return &Store{cur: newState()}
}

// Repos devuelve repositorios fuera de transacción: lecturas sin bloqueo y escrituras atómicas de una operación.
func (s *Store) Repos() repository.Repositories {
	return reposFor(handle{s: s})
}

// RunLedger ejecuta fn sobre una copia del estado y la publica solo si fn no falla.
func (s *Store) RunLedger(ctx context.Context, fn func(repos repository.Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.rw.RLock()
	snap := s.cur.clone()
	s.rw.RUnlock()

	if err := fn(reposFor(handle{s: s, tx: snap})); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.rw.Lock()
	s.cur = snap
	s.rw.Unlock()
	return nil
}

// handle da acceso al estado: el de la transacción si existe, o el publicado con sus locks.
type handle struct {
	s  *Store
	tx *state
}

func (h handle) read(fn func(st *state) error) error {
	if h.tx != nil {
		return fn(h.tx)
	}
	h.s.rw.RLock()
	defer h.s.rw.RUnlock()
	return fn(h.s.cur)
}

func (h handle) write(fn func(st *state) error) error {
	if h.tx != nil {
		return fn(h.tx)
	}
	h.s.txMu.Lock()
	defer h.s.txMu.Unlock()
	h.s.rw.Lock()
	defer h.s.rw.Unlock()
	return fn(h.s.cur)
}

func reposFor(h handle) repository.Repositories {
	return repository.Repositories{
		Taxes:            &TaxRepo{h: h},
		TaxDefaults:      &TaxDefaultRepo{h: h},
		Customers:        &CustomerRepo{h: h},
		Invoices:         &InvoiceRepo{h: h},
		Payments:         &PaymentRepo{h: h},
		Suppliers:        &SupplierRepo{h: h},
		Purchases:        &PurchaseRepo{h: h},
		PurchasePayments: &PurchasePaymentRepo{h: h},
		Products:         &ProductRepo{h: h},
		Stores:           &StoreRepo{h: h},
		Stock:            &StockRepo{h: h},
		Movements:        &MovementRepo{h: h},
		Sequences:        &SequenceRepo{h: h},
	}
}

// page aplica limit/offset; limit <= 0 devuelve todo desde offset.
func page[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset > len(items) {
		offset = len(items)
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}
