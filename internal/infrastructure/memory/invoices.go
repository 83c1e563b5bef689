package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/cartera-b2b/internal/domain"
	"github.com/jhoicas/cartera-b2b/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// InvoiceRepo facturas de venta en memoria.
type InvoiceRepo struct{ h handle }

func (r *InvoiceRepo) Create(_ context.Context, inv *entity.Invoice) error {
	return r.h.write(func(st *state) error {
		for _, existing := range st.invoices {
			if existing.ID == inv.ID || existing.InvoiceNumber == inv.InvoiceNumber {
				return domain.ErrDuplicateCode
			}
		}
		st.invoices[inv.ID] = *inv
		return nil
	})
}

func (r *InvoiceRepo) CreateLine(_ context.Context, line *entity.InvoiceLineItem) error {
	return r.h.write(func(st *state) error {
		st.invoiceLines[line.InvoiceID] = append(st.invoiceLines[line.InvoiceID], *line)
		return nil
	})
}

func (r *InvoiceRepo) CreateTaxLine(_ context.Context, line *entity.InvoiceTaxLine) error {
	return r.h.write(func(st *state) error {
		st.invoiceTaxLines[line.InvoiceID] = append(st.invoiceTaxLines[line.InvoiceID], *line)
		return nil
	})
}

func (r *InvoiceRepo) Update(_ context.Context, inv *entity.Invoice) error {
	return r.h.write(func(st *state) error {
		if _, ok := st.invoices[inv.ID]; !ok {
			return domain.ErrNotFound
		}
		st.invoices[inv.ID] = *inv
		return nil
	})
}

func (r *InvoiceRepo) GetByID(_ context.Context, id string) (*entity.Invoice, error) {
	var out *entity.Invoice
	err := r.h.read(func(st *state) error {
		if inv, ok := st.invoices[id]; ok {
			out = &inv
		}
		return nil
	})
	return out, err
}

func (r *InvoiceRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.GetByID(ctx, id)
}

func (r *InvoiceRepo) GetLines(_ context.Context, invoiceID string) ([]*entity.InvoiceLineItem, error) {
	var out []*entity.InvoiceLineItem
	err := r.h.read(func(st *state) error {
		for _, l := range st.invoiceLines[invoiceID] {
			l := l
			out = append(out, &l)
		}
		return nil
	})
	return out, err
}

func (r *InvoiceRepo) GetTaxLines(_ context.Context, invoiceID string) ([]*entity.InvoiceTaxLine, error) {
	var out []*entity.InvoiceTaxLine
	err := r.h.read(func(st *state) error {
		for _, l := range st.invoiceTaxLines[invoiceID] {
			l := l
			out = append(out, &l)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Sequence < out[j].Sequence })
	return out, err
}

func (r *InvoiceRepo) ListOpenByCustomer(_ context.Context, customerID string) ([]*entity.Invoice, error) {
	out := r.filter(func(inv *entity.Invoice) bool {
		return inv.CustomerID == customerID && inv.PaymentStatus.IsOpen()
	})
	sortInvoicesDesc(out)
	return out, nil
}

func (r *InvoiceRepo) ListPastDue(_ context.Context, now time.Time) ([]*entity.Invoice, error) {
	out := r.filter(func(inv *entity.Invoice) bool {
		return inv.PaymentStatus.IsOpen() && inv.DueDate != nil && inv.DueDate.Before(now)
	})
	sort.Slice(out, func(i, j int) bool { return out[i].InvoiceNumber < out[j].InvoiceNumber })
	return out, nil
}

func (r *InvoiceRepo) CustomerIDsWithOverdue(_ context.Context) ([]string, error) {
	seen := make(map[string]bool)
	var ids []string
	for _, inv := range r.filter(func(inv *entity.Invoice) bool { return inv.PaymentStatus == entity.PaymentOverdue }) {
		if !seen[inv.CustomerID] {
			seen[inv.CustomerID] = true
			ids = append(ids, inv.CustomerID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (r *InvoiceRepo) CountByCustomer(_ context.Context, customerID string) (int, error) {
	return len(r.filter(func(inv *entity.Invoice) bool { return inv.CustomerID == customerID })), nil
}

func (r *InvoiceRepo) SumOpenCreditBalance(_ context.Context, customerID string) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, inv := range r.filter(func(inv *entity.Invoice) bool {
		return inv.CustomerID == customerID && inv.PaymentMethod.UsesCredit() && !inv.IsCancelled()
	}) {
		sum = sum.Add(inv.BalanceDue)
	}
	return sum, nil
}

func (r *InvoiceRepo) filter(keep func(inv *entity.Invoice) bool) []*entity.Invoice {
	var out []*entity.Invoice
	_ = r.h.read(func(st *state) error {
		for _, inv := range st.invoices {
			inv := inv
			if keep(&inv) {
				out = append(out, &inv)
			}
		}
		return nil
	})
	return out
}

func sortInvoicesDesc(list []*entity.Invoice) {
	sort.Slice(list, func(i, j int) bool {
		if !list[i].IssueDate.Equal(list[j].IssueDate) {
			return list[i].IssueDate.After(list[j].IssueDate)
		}
		return list[i].InvoiceNumber > list[j].InvoiceNumber
	})
}
