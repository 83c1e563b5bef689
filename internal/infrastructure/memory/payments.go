package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/cartera-b2b/internal/domain"
	"github.com/jhoicas/cartera-b2b/internal/domain/entity"
)

// PaymentRepo abonos de clientes en memoria.
type PaymentRepo struct{ h handle }

func (r *PaymentRepo) Create(_ context.Context, p *entity.Payment) error {
	return r.h.write(func(st *state) error {
		for _, existing := range st.payments {
			if existing.ID == p.ID || existing.ReceiptNumber == p.ReceiptNumber {
				return domain.ErrDuplicateCode
			}
		}
		st.payments[p.ID] = *p
		return nil
	})
}

func (r *PaymentRepo) GetByID(_ context.Context, id string) (*entity.Payment, error) {
	var out *entity.Payment
	err := r.h.read(func(st *state) error {
		if p, ok := st.payments[id]; ok {
			out = &p
		}
		return nil
	})
	return out, err
}

func (r *PaymentRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Payment, error) {
	return r.GetByID(ctx, id)
}

func (r *PaymentRepo) Update(_ context.Context, p *entity.Payment) error {
	return r.h.write(func(st *state) error {
		if _, ok := st.payments[p.ID]; !ok {
			return domain.ErrNotFound
		}
		st.payments[p.ID] = *p
		return nil
	})
}

func (r *PaymentRepo) ListByInvoice(_ context.Context, invoiceID string) ([]*entity.Payment, error) {
	out := r.filter(func(p *entity.Payment) bool { return p.InvoiceID == invoiceID })
	sort.Slice(out, func(i, j int) bool { return out[i].ReceiptNumber < out[j].ReceiptNumber })
	return out, nil
}

func (r *PaymentRepo) ListRecentByCustomer(_ context.Context, customerID string, limit int) ([]*entity.Payment, error) {
	out := r.filter(func(p *entity.Payment) bool {
		return p.CustomerID == customerID && p.Status == entity.ReceiptApplied
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].PaymentDate.Equal(out[j].PaymentDate) {
			return out[i].PaymentDate.After(out[j].PaymentDate)
		}
		return out[i].ReceiptNumber > out[j].ReceiptNumber
	})
	return page(out, limit, 0), nil
}

func (r *PaymentRepo) filter(keep func(p *entity.Payment) bool) []*entity.Payment {
	var out []*entity.Payment
	_ = r.h.read(func(st *state) error {
		for _, p := range st.payments {
			p := p
			if keep(&p) {
				out = append(out, &p)
			}
		}
		return nil
	})
	return out
}
