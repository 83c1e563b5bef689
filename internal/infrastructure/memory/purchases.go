package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/cartera-b2b/internal/domain"
	"github.com/jhoicas/cartera-b2b/internal/domain/entity"
)

// SupplierRepo proveedores en memoria.
type SupplierRepo struct{ h handle }

func (r *SupplierRepo) Create(_ context.Context, s *entity.Supplier) error {
	return r.h.write(func(st *state) error {
		for _, existing := range st.suppliers {
			if existing.IDNumber == s.IDNumber {
				return domain.ErrDuplicateCode
			}
		}
		st.suppliers[s.ID] = *s
		return nil
	})
}

func (r *SupplierRepo) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	var out *entity.Supplier
	err := r.h.read(func(st *state) error {
		if s, ok := st.suppliers[id]; ok {
			out = &s
		}
		return nil
	})
	return out, err
}

func (r *SupplierRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Supplier, error) {
	return r.GetByID(ctx, id)
}

func (r *SupplierRepo) GetByIDNumber(_ context.Context, idNumber string) (*entity.Supplier, error) {
	var out *entity.Supplier
	err := r.h.read(func(st *state) error {
		for _, s := range st.suppliers {
			if s.IDNumber == idNumber {
				s := s
				out = &s
				return nil
			}
		}
		return nil
	})
	return out, err
}

// PurchaseRepo compras en memoria.
type PurchaseRepo struct{ h handle }

func (r *PurchaseRepo) Create(_ context.Context, p *entity.Purchase) error {
	return r.h.write(func(st *state) error {
		for _, existing := range st.purchases {
			if existing.ID == p.ID || existing.PurchaseNumber == p.PurchaseNumber {
				return domain.ErrDuplicateCode
			}
		}
		st.purchases[p.ID] = *p
		return nil
	})
}

func (r *PurchaseRepo) CreateLine(_ context.Context, line *entity.PurchaseLineItem) error {
	return r.h.write(func(st *state) error {
		st.purchaseLines[line.PurchaseID] = append(st.purchaseLines[line.PurchaseID], *line)
		return nil
	})
}

func (r *PurchaseRepo) CreateTaxLine(_ context.Context, line *entity.PurchaseTaxLine) error {
	return r.h.write(func(st *state) error {
		st.purchaseTaxLines[line.PurchaseID] = append(st.purchaseTaxLines[line.PurchaseID], *line)
		return nil
	})
}

func (r *PurchaseRepo) Update(_ context.Context, p *entity.Purchase) error {
	return r.h.write(func(st *state) error {
		if _, ok := st.purchases[p.ID]; !ok {
			return domain.ErrNotFound
		}
		st.purchases[p.ID] = *p
		return nil
	})
}

func (r *PurchaseRepo) GetByID(_ context.Context, id string) (*entity.Purchase, error) {
	var out *entity.Purchase
	err := r.h.read(func(st *state) error {
		if p, ok := st.purchases[id]; ok {
			out = &p
		}
		return nil
	})
	return out, err
}

func (r *PurchaseRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Purchase, error) {
	return r.GetByID(ctx, id)
}

func (r *PurchaseRepo) GetLines(_ context.Context, purchaseID string) ([]*entity.PurchaseLineItem, error) {
	var out []*entity.PurchaseLineItem
	err := r.h.read(func(st *state) error {
		for _, l := range st.purchaseLines[purchaseID] {
			l := l
			out = append(out, &l)
		}
		return nil
	})
	return out, err
}

func (r *PurchaseRepo) GetTaxLines(_ context.Context, purchaseID string) ([]*entity.PurchaseTaxLine, error) {
	var out []*entity.PurchaseTaxLine
	err := r.h.read(func(st *state) error {
		for _, l := range st.purchaseTaxLines[purchaseID] {
			l := l
			out = append(out, &l)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Sequence < out[j].Sequence })
	return out, err
}

func (r *PurchaseRepo) ListOpenBySupplier(_ context.Context, supplierID string) ([]*entity.Purchase, error) {
	var out []*entity.Purchase
	err := r.h.read(func(st *state) error {
		for _, p := range st.purchases {
			if p.SupplierID == supplierID && p.PaymentStatus.IsOpen() {
				p := p
				out = append(out, &p)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].IssueDate.Equal(out[j].IssueDate) {
			return out[i].IssueDate.After(out[j].IssueDate)
		}
		return out[i].PurchaseNumber > out[j].PurchaseNumber
	})
	return out, err
}

func (r *PurchaseRepo) ListPastDue(_ context.Context, now time.Time) ([]*entity.Purchase, error) {
	var out []*entity.Purchase
	err := r.h.read(func(st *state) error {
		for _, p := range st.purchases {
			if p.PaymentStatus.IsOpen() && p.DueDate != nil && p.DueDate.Before(now) {
				p := p
				out = append(out, &p)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].PurchaseNumber < out[j].PurchaseNumber })
	return out, err
}

// PurchasePaymentRepo egresos a proveedores en memoria.
type PurchasePaymentRepo struct{ h handle }

func (r *PurchasePaymentRepo) Create(_ context.Context, p *entity.PurchasePayment) error {
	return r.h.write(func(st *state) error {
		for _, existing := range st.purchasePayments {
			if existing.ID == p.ID || existing.PaymentNumber == p.PaymentNumber {
				return domain.ErrDuplicateCode
			}
		}
		st.purchasePayments[p.ID] = *p
		return nil
	})
}

func (r *PurchasePaymentRepo) GetByID(_ context.Context, id string) (*entity.PurchasePayment, error) {
	var out *entity.PurchasePayment
	err := r.h.read(func(st *state) error {
		if p, ok := st.purchasePayments[id]; ok {
			out = &p
		}
		return nil
	})
	return out, err
}

func (r *PurchasePaymentRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.PurchasePayment, error) {
	return r.GetByID(ctx, id)
}

func (r *PurchasePaymentRepo) Update(_ context.Context, p *entity.PurchasePayment) error {
	return r.h.write(func(st *state) error {
		if _, ok := st.purchasePayments[p.ID]; !ok {
			return domain.ErrNotFound
		}
		st.purchasePayments[p.ID] = *p
		return nil
	})
}

func (r *PurchasePaymentRepo) ListByPurchase(_ context.Context, purchaseID string) ([]*entity.PurchasePayment, error) {
	var out []*entity.PurchasePayment
	err := r.h.read(func(st *state) error {
		for _, p := range st.purchasePayments {
			if p.PurchaseID == purchaseID {
				p := p
				out = append(out, &p)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].PaymentNumber < out[j].PaymentNumber })
	return out, err
}

func (r *PurchasePaymentRepo) ListRecentBySupplier(_ context.Context, supplierID string, limit int) ([]*entity.PurchasePayment, error) {
	var out []*entity.PurchasePayment
	err := r.h.read(func(st *state) error {
		for _, p := range st.purchasePayments {
			if p.SupplierID == supplierID && p.Status == entity.ReceiptApplied {
				p := p
				out = append(out, &p)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].PaymentDate.Equal(out[j].PaymentDate) {
			return out[i].PaymentDate.After(out[j].PaymentDate)
		}
		return out[i].PaymentNumber > out[j].PaymentNumber
	})
	return page(out, limit, 0), err
}
